package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// OrderStatus is the closed set of order lifecycle states
type OrderStatus string

const (
	OrderStatusPending           OrderStatus = "PENDING"
	OrderStatusConfirmed         OrderStatus = "CONFIRMED"
	OrderStatusDeliveryPending   OrderStatus = "DELIVERY_PENDING"
	OrderStatusReadyForPickup    OrderStatus = "READY_FOR_PICKUP"
	OrderStatusDeliveryComplete  OrderStatus = "DELIVERY_COMPLETE"
	OrderStatusCollectionPending OrderStatus = "COLLECTION_PENDING"
	OrderStatusServicePending    OrderStatus = "SERVICE_PENDING"
	OrderStatusCompleted         OrderStatus = "COMPLETED"
	OrderStatusFailed            OrderStatus = "FAILED"
	OrderStatusCancelled         OrderStatus = "CANCELLED"
)

// PaymentStatus is the canonical lowercase payment state stored on an order.
// Upstream providers report a wider vocabulary; NormalizePaymentStatus in the
// policy package maps it onto this set at the model boundary.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusReversed  PaymentStatus = "reversed"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// ProductType classifies what an order line item is
type ProductType string

const (
	ProductTypePhysical ProductType = "physical"
	ProductTypeDigital  ProductType = "digital"
	ProductTypeService  ProductType = "service"
)

// LocationType describes where a booked service takes place
type LocationType string

const (
	LocationBuyerVisitsSeller LocationType = "buyer_visits_seller"
	LocationSellerVisitsBuyer LocationType = "seller_visits_buyer"
	LocationHybrid            LocationType = "hybrid"
)

// Withdrawal statuses
const (
	WithdrawalStatusPending  = "PENDING"
	WithdrawalStatusApproved = "APPROVED"
	WithdrawalStatusRejected = "REJECTED"
)

// Order represents a seller's order
type Order struct {
	ID            int64            `db:"id" json:"id"`
	SellerID      int64            `db:"seller_id" json:"seller_id"`
	OrderNumber   string           `db:"order_number" json:"order_number"`
	Status        OrderStatus      `db:"status" json:"status"`
	PaymentStatus PaymentStatus    `db:"payment_status" json:"payment_status"`
	TotalAmount   decimal.Decimal  `db:"total_amount" json:"total_amount"`
	Currency      string           `db:"currency" json:"currency"`
	Metadata      *BookingMetadata `db:"metadata" json:"metadata,omitempty"`
	CreatedAt     time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time        `db:"updated_at" json:"updated_at"`

	// Items are loaded alongside the order row, not from it
	Items []OrderItem `db:"-" json:"items,omitempty"`
}

// OrderItem represents a line item in an order
type OrderItem struct {
	ID          int64           `db:"id" json:"id"`
	OrderID     int64           `db:"order_id" json:"order_id"`
	Name        string          `db:"name" json:"name"`
	ProductType ProductType     `db:"product_type" json:"product_type"`
	Quantity    int             `db:"quantity" json:"quantity"`
	UnitPrice   decimal.Decimal `db:"unit_price" json:"unit_price"`
}

// BookingMetadata carries the service-booking fields attached to service
// orders. Stored as a jsonb column.
type BookingMetadata struct {
	BookingDate  string `json:"booking_date"`
	TimeSlot     string `json:"time_slot"`
	LocationMode string `json:"location_mode"`
	Address      string `json:"address"`
	Requirements string `json:"requirements,omitempty"`
}

// Value implements driver.Valuer for jsonb storage
func (m *BookingMetadata) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner
func (m *BookingMetadata) Scan(src interface{}) error {
	if src == nil {
		return nil
	}
	b, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("unexpected metadata column type %T", src)
	}
	return json.Unmarshal(b, m)
}

// Service represents a bookable service offering
type Service struct {
	ID            int64           `db:"id" json:"id"`
	SellerID      int64           `db:"seller_id" json:"seller_id"`
	Name          string          `db:"name" json:"name"`
	Price         decimal.Decimal `db:"price" json:"price"`
	LocationType  LocationType    `db:"location_type" json:"location_type"`
	AvailableDays pq.StringArray  `db:"available_days" json:"available_days"`
	StartTime     string          `db:"start_time" json:"start_time"`
	EndTime       string          `db:"end_time" json:"end_time"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
}

// ServiceAddress is a pre-registered seller branch address
type ServiceAddress struct {
	ID        int64  `db:"id" json:"id"`
	ServiceID int64  `db:"service_id" json:"service_id"`
	Label     string `db:"label" json:"label"`
	Address   string `db:"address" json:"address"`
	IsDefault bool   `db:"is_default" json:"is_default"`
}

// Product represents a storefront product
type Product struct {
	ID          int64           `db:"id" json:"id"`
	SellerID    int64           `db:"seller_id" json:"seller_id"`
	SKU         string          `db:"sku" json:"sku"`
	Name        string          `db:"name" json:"name"`
	ProductType ProductType     `db:"product_type" json:"product_type"`
	Price       decimal.Decimal `db:"price" json:"price"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updated_at"`
}

// Refund records the refund issued when an order is cancelled
type Refund struct {
	ID        int64           `db:"id" json:"id"`
	OrderID   int64           `db:"order_id" json:"order_id"`
	Amount    decimal.Decimal `db:"amount" json:"amount"`
	Currency  string          `db:"currency" json:"currency"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}

// Withdrawal represents a seller payout request
type Withdrawal struct {
	ID        int64           `db:"id" json:"id"`
	SellerID  int64           `db:"seller_id" json:"seller_id"`
	Reference string          `db:"reference" json:"reference"`
	Amount    decimal.Decimal `db:"amount" json:"amount"`
	Currency  string          `db:"currency" json:"currency"`
	Status    string          `db:"status" json:"status"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
}

// StatusSummary is one row of the per-status analytics aggregate
type StatusSummary struct {
	Status OrderStatus     `db:"status" json:"status"`
	Count  int64           `db:"count" json:"count"`
	Total  decimal.Decimal `db:"total" json:"total"`
}

// ProcessedEvent for consumer idempotency
type ProcessedEvent struct {
	EventID     string    `db:"event_id"`
	EventType   string    `db:"event_type"`
	ProcessedAt time.Time `db:"processed_at"`
}
