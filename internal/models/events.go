package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event types
const (
	EventTypeOrderStatusChanged = "ORDER_STATUS_CHANGED"
	EventTypeOrderCancelled     = "ORDER_CANCELLED"
	EventTypeBookingCreated     = "BOOKING_CREATED"
	EventTypePaymentSuccess     = "PAYMENT_SUCCESS"
	EventTypePaymentFailed      = "PAYMENT_FAILED"
	EventTypePaymentReversed    = "PAYMENT_REVERSED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderStatusChangedEvent published after a seller transition is stored
type OrderStatusChangedEvent struct {
	BaseEvent
	OrderID     int64       `json:"order_id"`
	OrderNumber string      `json:"order_number"`
	SellerID    int64       `json:"seller_id"`
	FromStatus  OrderStatus `json:"from_status"`
	ToStatus    OrderStatus `json:"to_status"`
	Action      string      `json:"action"`
}

// OrderCancelledEvent published when an order is cancelled; carries the
// refund recorded alongside the cancellation
type OrderCancelledEvent struct {
	BaseEvent
	OrderID      int64           `json:"order_id"`
	OrderNumber  string          `json:"order_number"`
	SellerID     int64           `json:"seller_id"`
	RefundAmount decimal.Decimal `json:"refund_amount"`
	Currency     string          `json:"currency"`
}

// BookingCreatedEvent published when a service booking order is created
type BookingCreatedEvent struct {
	BaseEvent
	OrderID     int64  `json:"order_id"`
	OrderNumber string `json:"order_number"`
	ServiceID   int64  `json:"service_id"`
	BookingDate string `json:"booking_date"`
	TimeSlot    string `json:"time_slot"`
	Location    string `json:"location"`
}

// PaymentSuccessEvent consumed from the payment provider
type PaymentSuccessEvent struct {
	BaseEvent
	OrderID int64           `json:"order_id"`
	Amount  decimal.Decimal `json:"amount"`
	TxID    string          `json:"tx_id"`
	Status  string          `json:"status"`
}

// PaymentFailedEvent consumed from the payment provider
type PaymentFailedEvent struct {
	BaseEvent
	OrderID int64  `json:"order_id"`
	Reason  string `json:"reason"`
}

// PaymentReversedEvent consumed when the provider reverses a charge
type PaymentReversedEvent struct {
	BaseEvent
	OrderID int64           `json:"order_id"`
	Amount  decimal.Decimal `json:"amount"`
	Reason  string          `json:"reason"`
}
