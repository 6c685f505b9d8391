package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fjod/go_cart/purchases-service/internal/domain"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/lib/pq"
)

var (
	ErrCartNotFound    = errors.New("cart not found")
	ErrCartEmpty       = errors.New("cart is empty")
	ErrCartChanged     = errors.New("cart changed since validation")
	ErrConflict        = errors.New("transaction conflict")
	ErrPaymentNotFound = errors.New("payment not found")
)

type Credentials struct {
	Host              string
	Port              int
	User              string
	Password          string
	DBName            string
	MigrationsDirPath string
}

type CartRepository interface {
	GetOrCreateCart(ctx context.Context, buyerID int64) (*domain.Cart, error)
	AddItem(ctx context.Context, buyerID, ambassadorID int64) (bool, error)
	RemoveItem(ctx context.Context, buyerID, ambassadorID int64) (bool, error)
	ClearCart(ctx context.Context, buyerID int64) (int64, error)
	RemoveAmbassador(ctx context.Context, ambassadorID int64) (int64, error)
}

type CheckoutRepository interface {
	CreatePurchases(ctx context.Context, p CheckoutParams) (*CheckoutRecord, error)
}

type PurchaseRepository interface {
	ListPurchasesByBuyer(ctx context.Context, buyerID int64) ([]*domain.Purchase, error)
	GetPayment(ctx context.Context, id int64) (*domain.Payment, error)
	ListPaymentEvents(ctx context.Context, paymentID int64) ([]*domain.PaymentEventRecord, error)
}

// PaymentStore runs fn inside one transaction. Payment rows returned by the
// Lock methods stay locked until fn returns; a non-nil error from fn rolls back.
type PaymentStore interface {
	InPaymentTx(ctx context.Context, fn func(ctx context.Context, tx PaymentTx) error) error
}

type PaymentTx interface {
	LockByTransactionID(ctx context.Context, transactionID string) (*domain.Payment, error)
	LockByID(ctx context.Context, id int64) (*domain.Payment, error)
	UpdatePayment(ctx context.Context, p *domain.Payment) error
	RecordEvent(ctx context.Context, paymentID int64, ev domain.PaymentEvent, outcome domain.EventOutcome) error
	EnqueueOutbox(ctx context.Context, aggregateID, eventType string, payload any) error
}

type OutboxRepository interface {
	GetUnprocessedEvents(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkEventAsProcessed(ctx context.Context, id int64) error
}

type Repository struct {
	db *sql.DB
}

func NewRepository(cred *Credentials) (*Repository, error) {
	psqlconn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cred.Host,
		cred.Port,
		cred.User,
		cred.Password,
		cred.DBName)

	db, err := sql.Open("postgres", psqlconn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if e2 := db.Ping(); e2 != nil {
		return nil, fmt.Errorf("failed to ping database: %w", e2)
	}

	db.SetMaxOpenConns(100)
	db.SetMaxIdleConns(10)
	fmt.Println("Connected to postgres!")
	return &Repository{db: db}, nil
}

func (r *Repository) RunMigrations(cred *Credentials) error {
	driver, err := postgres.WithInstance(r.db, &postgres.Config{
		MigrationsTable: "purchases_schema_migrations",
	})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", cred.MigrationsDirPath),
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if e2 := m.Up(); e2 != nil && !errors.Is(e2, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", e2)
	}

	return nil
}

func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *Repository) Close() error {
	return r.db.Close()
}

// conflictCodes are failures a caller may retry: serialization failure,
// deadlock and unique violation.
var conflictCodes = map[pq.ErrorCode]bool{
	"40001": true,
	"40P01": true,
	"23505": true,
}

func classify(op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && conflictCodes[pqErr.Code] {
		return fmt.Errorf("%s: %w: %s", op, ErrConflict, pqErr.Message)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func rollback(tx *sql.Tx) {
	_ = tx.Rollback()
}
