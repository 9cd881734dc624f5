package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Mwvndva/bybloshq-orders/internal/models"
	"github.com/Mwvndva/bybloshq-orders/internal/store"
	"github.com/Mwvndva/bybloshq-orders/internal/util"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// StorefrontService covers the remaining seller-dashboard operations:
// product management, withdrawal requests and the analytics summary
type StorefrontService struct {
	store    *store.Store
	logger   *zap.Logger
	currency string
}

// NewStorefrontService creates a new storefront service
func NewStorefrontService(store *store.Store, currency string) *StorefrontService {
	return &StorefrontService{
		store:    store,
		logger:   util.GetLogger(),
		currency: currency,
	}
}

// ProductInput is the create/update payload for a product
type ProductInput struct {
	SKU         string          `json:"sku"`
	Name        string          `json:"name" binding:"required"`
	ProductType string          `json:"product_type" binding:"required"`
	Price       decimal.Decimal `json:"price"`
}

func (in *ProductInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("product name is required")
	}
	switch models.ProductType(in.ProductType) {
	case models.ProductTypePhysical, models.ProductTypeDigital, models.ProductTypeService:
	default:
		return fmt.Errorf("unknown product type %q", in.ProductType)
	}
	if in.Price.IsNegative() {
		return fmt.Errorf("price must not be negative")
	}
	return nil
}

// CreateProduct creates a storefront product
func (s *StorefrontService) CreateProduct(ctx context.Context, sellerID int64, in *ProductInput) (*models.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	product := &models.Product{
		SellerID:    sellerID,
		SKU:         in.SKU,
		Name:        in.Name,
		ProductType: models.ProductType(in.ProductType),
		Price:       in.Price,
	}
	if product.SKU == "" {
		product.SKU = "SKU-" + strings.ToUpper(uuid.New().String()[:8])
	}

	if err := s.store.CreateProduct(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.logger.Info("Product created",
		zap.Int64("product_id", product.ID),
		zap.String("sku", product.SKU))
	return product, nil
}

// UpdateProduct updates a product's editable fields
func (s *StorefrontService) UpdateProduct(ctx context.Context, sellerID, productID int64, in *ProductInput) (*models.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	product := &models.Product{
		ID:          productID,
		SellerID:    sellerID,
		Name:        in.Name,
		ProductType: models.ProductType(in.ProductType),
		Price:       in.Price,
	}
	if err := s.store.UpdateProduct(ctx, product); err != nil {
		return nil, err
	}
	return s.store.GetProductByID(ctx, productID)
}

// ListProducts returns the seller's products
func (s *StorefrontService) ListProducts(ctx context.Context, sellerID int64) ([]models.Product, error) {
	return s.store.GetProductsBySeller(ctx, sellerID)
}

// RequestWithdrawal files a payout request for the seller
func (s *StorefrontService) RequestWithdrawal(ctx context.Context, sellerID int64, amount decimal.Decimal) (*models.Withdrawal, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("withdrawal amount must be positive")
	}

	w := &models.Withdrawal{
		SellerID:  sellerID,
		Reference: "WDR-" + strings.ToUpper(uuid.New().String()[:8]),
		Amount:    amount,
		Currency:  s.currency,
		Status:    models.WithdrawalStatusPending,
	}
	if err := s.store.CreateWithdrawal(ctx, w); err != nil {
		return nil, fmt.Errorf("failed to create withdrawal: %w", err)
	}

	util.WithdrawalsRequestedTotal.Inc()
	s.logger.Info("Withdrawal requested",
		zap.Int64("seller_id", sellerID),
		zap.String("reference", w.Reference),
		zap.String("amount", amount.String()))
	return w, nil
}

// ListWithdrawals returns the seller's payout requests
func (s *StorefrontService) ListWithdrawals(ctx context.Context, sellerID int64) ([]models.Withdrawal, error) {
	return s.store.GetWithdrawalsBySeller(ctx, sellerID)
}

// Summary returns the per-status order aggregate shown on the dashboard
func (s *StorefrontService) Summary(ctx context.Context, sellerID int64) ([]models.StatusSummary, error) {
	return s.store.GetStatusSummary(ctx, sellerID)
}
