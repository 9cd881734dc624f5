package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Mwvndva/bybloshq-orders/internal/models"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Sentinel errors surfaced to handlers
var (
	ErrOrderNotFound   = errors.New("order not found")
	ErrServiceNotFound = errors.New("service not found")
	ErrProductNotFound = errors.New("product not found")
	ErrStatusConflict  = errors.New("order status changed concurrently")
)

type Store struct {
	db *sqlx.DB
}

// NewStore creates a new database store
func NewStore(databaseURL string) (*Store, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateProduct inserts a storefront product
func (s *Store) CreateProduct(ctx context.Context, product *models.Product) error {
	query := `
		INSERT INTO products (seller_id, sku, name, product_type, price)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	return s.db.GetContext(ctx, product, query,
		product.SellerID, product.SKU, product.Name, product.ProductType, product.Price)
}

// UpdateProduct updates a product's editable fields
func (s *Store) UpdateProduct(ctx context.Context, product *models.Product) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE products SET name = $1, product_type = $2, price = $3, updated_at = NOW() WHERE id = $4 AND seller_id = $5",
		product.Name, product.ProductType, product.Price, product.ID, product.SellerID)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrProductNotFound
	}
	return nil
}

// GetProductByID retrieves a product
func (s *Store) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	err := s.db.GetContext(ctx, &product, "SELECT * FROM products WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// GetProductsBySeller retrieves a seller's products
func (s *Store) GetProductsBySeller(ctx context.Context, sellerID int64) ([]models.Product, error) {
	var products []models.Product
	err := s.db.SelectContext(ctx, &products,
		"SELECT * FROM products WHERE seller_id = $1 ORDER BY created_at DESC", sellerID)
	return products, err
}

// GetServiceByID retrieves a bookable service
func (s *Store) GetServiceByID(ctx context.Context, id int64) (*models.Service, error) {
	var svc models.Service
	err := s.db.GetContext(ctx, &svc, "SELECT * FROM services WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, err
	}
	return &svc, nil
}

// GetServiceAddresses retrieves the registered branches for a service
func (s *Store) GetServiceAddresses(ctx context.Context, serviceID int64) ([]models.ServiceAddress, error) {
	var addrs []models.ServiceAddress
	err := s.db.SelectContext(ctx, &addrs,
		"SELECT * FROM service_addresses WHERE service_id = $1 ORDER BY id", serviceID)
	return addrs, err
}

// CreateWithdrawal inserts a payout request
func (s *Store) CreateWithdrawal(ctx context.Context, w *models.Withdrawal) error {
	query := `
		INSERT INTO withdrawals (seller_id, reference, amount, currency, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	return s.db.GetContext(ctx, w, query,
		w.SellerID, w.Reference, w.Amount, w.Currency, w.Status)
}

// GetWithdrawalsBySeller retrieves a seller's payout requests
func (s *Store) GetWithdrawalsBySeller(ctx context.Context, sellerID int64) ([]models.Withdrawal, error) {
	var ws []models.Withdrawal
	err := s.db.SelectContext(ctx, &ws,
		"SELECT * FROM withdrawals WHERE seller_id = $1 ORDER BY created_at DESC", sellerID)
	return ws, err
}

// GetStatusSummary aggregates a seller's orders per status
func (s *Store) GetStatusSummary(ctx context.Context, sellerID int64) ([]models.StatusSummary, error) {
	var rows []models.StatusSummary
	err := s.db.SelectContext(ctx, &rows, `
		SELECT status, COUNT(*) AS count, COALESCE(SUM(total_amount), 0) AS total
		FROM orders WHERE seller_id = $1
		GROUP BY status ORDER BY status`, sellerID)
	return rows, err
}

// IsEventProcessed checks if a consumed event has already been handled
func (s *Store) IsEventProcessed(ctx context.Context, eventID string) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists,
		"SELECT EXISTS(SELECT 1 FROM processed_events WHERE event_id = $1)", eventID)
	return exists, err
}

// MarkEventProcessed records a consumed event id
func (s *Store) MarkEventProcessed(ctx context.Context, eventID, eventType string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO processed_events (event_id, event_type) VALUES ($1, $2) ON CONFLICT (event_id) DO NOTHING",
		eventID, eventType)
	return err
}
