package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fjod/go_cart/purchases-service/internal/domain"
)

const upsertCartQuery = `WITH ins AS (
	INSERT INTO carts (buyer_id) VALUES ($1)
	ON CONFLICT (buyer_id) DO NOTHING
	RETURNING id, buyer_id, created_at
)
SELECT id, buyer_id, created_at FROM ins
UNION ALL
SELECT id, buyer_id, created_at FROM carts WHERE buyer_id = $1
LIMIT 1`

// GetOrCreateCart never fails with not-found: a buyer without a cart gets an empty one.
func (r *Repository) GetOrCreateCart(ctx context.Context, buyerID int64) (*domain.Cart, error) {
	cart, err := r.ensureCart(ctx, buyerID)
	if err != nil {
		return nil, err
	}

	items, err := loadItems(ctx, r.db, cart.ID)
	if err != nil {
		return nil, err
	}
	cart.Items = items
	return cart, nil
}

func (r *Repository) ensureCart(ctx context.Context, buyerID int64) (*domain.Cart, error) {
	// A concurrent first insert that commits after this statement's snapshot
	// leaves both branches empty; the second attempt sees the committed row.
	for attempt := 0; attempt < 2; attempt++ {
		var cart domain.Cart
		err := r.db.QueryRowContext(ctx, upsertCartQuery, buyerID).Scan(&cart.ID, &cart.BuyerID, &cart.CreatedAt)
		if errors.Is(err, sql.ErrNoRows) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("upsert cart: %w", err)
		}
		return &cart, nil
	}
	return nil, fmt.Errorf("upsert cart for buyer %d: %w", buyerID, ErrConflict)
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func loadItems(ctx context.Context, q queryer, cartID int64) ([]domain.CartItem, error) {
	query := `SELECT id, cart_id, ambassador_id, created_at
	          FROM cart_items WHERE cart_id = $1 ORDER BY id`

	rows, err := q.QueryContext(ctx, query, cartID)
	if err != nil {
		return nil, fmt.Errorf("query cart items: %w", err)
	}
	defer rows.Close()

	items := []domain.CartItem{}
	for rows.Next() {
		var item domain.CartItem
		if err := rows.Scan(&item.ID, &item.CartID, &item.AmbassadorID, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan cart item row: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return items, nil
}

// AddItem reports false when the ambassador was already in the cart.
func (r *Repository) AddItem(ctx context.Context, buyerID, ambassadorID int64) (bool, error) {
	cart, err := r.ensureCart(ctx, buyerID)
	if err != nil {
		return false, err
	}

	query := `INSERT INTO cart_items (cart_id, ambassador_id) VALUES ($1, $2)
	          ON CONFLICT (cart_id, ambassador_id) DO NOTHING`

	res, err := r.db.ExecContext(ctx, query, cart.ID, ambassadorID)
	if err != nil {
		return false, classify("insert cart item", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert cart item: %w", err)
	}
	return n == 1, nil
}

// RemoveItem reports false when there was nothing to remove.
func (r *Repository) RemoveItem(ctx context.Context, buyerID, ambassadorID int64) (bool, error) {
	query := `DELETE FROM cart_items ci USING carts c
	          WHERE ci.cart_id = c.id AND c.buyer_id = $1 AND ci.ambassador_id = $2`

	res, err := r.db.ExecContext(ctx, query, buyerID, ambassadorID)
	if err != nil {
		return false, fmt.Errorf("delete cart item: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete cart item: %w", err)
	}
	return n > 0, nil
}

func (r *Repository) ClearCart(ctx context.Context, buyerID int64) (int64, error) {
	query := `DELETE FROM cart_items ci USING carts c
	          WHERE ci.cart_id = c.id AND c.buyer_id = $1`

	res, err := r.db.ExecContext(ctx, query, buyerID)
	if err != nil {
		return 0, fmt.Errorf("clear cart: %w", err)
	}
	return res.RowsAffected()
}

// RemoveAmbassador drops the ambassador from every cart and returns how many items went.
func (r *Repository) RemoveAmbassador(ctx context.Context, ambassadorID int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE ambassador_id = $1`, ambassadorID)
	if err != nil {
		return 0, fmt.Errorf("remove ambassador from carts: %w", err)
	}
	return res.RowsAffected()
}
