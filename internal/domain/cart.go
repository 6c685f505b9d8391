package domain

import "time"

// Cart is created lazily, one per buyer, and never expires.
type Cart struct {
	ID        int64
	BuyerID   int64
	Items     []CartItem
	CreatedAt time.Time
}

// CartItem holds no price: prices are always resolved live from the ambassador authority.
type CartItem struct {
	ID           int64
	CartID       int64
	AmbassadorID int64
	CreatedAt    time.Time
}

func (c *Cart) AmbassadorIDs() []int64 {
	ids := make([]int64, len(c.Items))
	for i, item := range c.Items {
		ids[i] = item.AmbassadorID
	}
	return ids
}

// CartLine is a cart item priced at read time. Price is zero when Valid is false.
type CartLine struct {
	CartItem
	Price int64
	Valid bool
}

// CartView is what a buyer sees: current authoritative prices, with items the
// authority no longer sells flagged and left out of Total.
type CartView struct {
	CartID               int64
	BuyerID              int64
	Lines                []CartLine
	InvalidAmbassadorIDs []int64
	Total                int64
	CreatedAt            time.Time
}
