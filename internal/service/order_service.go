package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Mwvndva/bybloshq-orders/internal/broker"
	"github.com/Mwvndva/bybloshq-orders/internal/models"
	"github.com/Mwvndva/bybloshq-orders/internal/policy"
	"github.com/Mwvndva/bybloshq-orders/internal/projection"
	"github.com/Mwvndva/bybloshq-orders/internal/redisclient"
	"github.com/Mwvndva/bybloshq-orders/internal/store"
	"github.com/Mwvndva/bybloshq-orders/internal/util"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ErrTransitionInFlight means another transition request for the same
// order is still pending from this service
var ErrTransitionInFlight = errors.New("a transition for this order is already in flight")

// OrderService handles order listing and lifecycle transitions
type OrderService struct {
	store          *store.Store
	redis          *redisclient.Client
	eventPublisher *broker.EventPublisher
	logger         *zap.Logger
	lockTTL        time.Duration
}

// NewOrderService creates a new order service
func NewOrderService(
	store *store.Store,
	redis *redisclient.Client,
	eventPublisher *broker.EventPublisher,
	lockTTL time.Duration,
) *OrderService {
	return &OrderService{
		store:          store,
		redis:          redis,
		eventPublisher: eventPublisher,
		logger:         util.GetLogger(),
		lockTTL:        lockTTL,
	}
}

// ListOrders returns the seller's orders most-recent-first, projected into
// display views with precomputed legal actions
func (s *OrderService) ListOrders(ctx context.Context, sellerID int64) ([]projection.OrderView, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.ListOrders")
	defer span.End()

	orders, err := s.store.GetOrdersBySeller(ctx, sellerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	return projection.Project(orders), nil
}

// GetOrder retrieves an order with its items
func (s *OrderService) GetOrder(ctx context.Context, orderID int64) (*models.Order, error) {
	return s.store.GetOrderWithItems(ctx, orderID)
}

// Transition applies a seller action to an order. The per-order lock
// allows exactly one in-flight transition per order from this instance;
// the store's expected-status update resolves races with other instances.
// Nothing is changed locally until the store confirms the write.
func (s *OrderService) Transition(ctx context.Context, orderID int64, action policy.Action) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.Transition")
	defer span.End()

	start := time.Now()
	defer func() {
		util.TransitionLatency.Observe(time.Since(start).Seconds())
	}()

	token := uuid.New().String()
	acquired, err := s.redis.AcquireTransitionLock(ctx, orderID, token, s.lockTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire transition lock: %w", err)
	}
	if !acquired {
		return nil, ErrTransitionInFlight
	}
	defer func() {
		if err := s.redis.ReleaseTransitionLock(ctx, orderID, token); err != nil {
			s.logger.Warn("Failed to release transition lock",
				zap.Int64("order_id", orderID),
				zap.Error(err))
		}
	}()

	order, err := s.store.GetOrderWithItems(ctx, orderID)
	if err != nil {
		return nil, err
	}

	next, err := policy.ApplyTransition(*order, action)
	if err != nil {
		util.IllegalTransitionsTotal.Inc()
		util.OrderTransitionsTotal.WithLabelValues(string(action), "illegal").Inc()
		return nil, err
	}

	if err := s.store.UpdateOrderStatus(ctx, orderID, order.Status, next.Status); err != nil {
		util.OrderTransitionsTotal.WithLabelValues(string(action), "conflict").Inc()
		return nil, err
	}

	if next.PaymentStatus != order.PaymentStatus {
		if err := s.store.UpdatePaymentStatus(ctx, orderID, next.PaymentStatus); err != nil {
			s.logger.Error("Failed to store normalized payment status",
				zap.Int64("order_id", orderID),
				zap.Error(err))
		}
	}

	util.OrderTransitionsTotal.WithLabelValues(string(action), "ok").Inc()
	s.logger.Info("Order transitioned",
		zap.Int64("order_id", orderID),
		zap.String("action", string(action)),
		zap.String("from", string(order.Status)),
		zap.String("to", string(next.Status)))

	event := &models.OrderStatusChangedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderStatusChanged,
			Timestamp: time.Now(),
		},
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		SellerID:    order.SellerID,
		FromStatus:  order.Status,
		ToStatus:    next.Status,
		Action:      string(action),
	}
	if err := s.eventPublisher.PublishOrderStatusChanged(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderStatusChanged event", zap.Error(err))
	}

	return &next, nil
}

// Cancel cancels an order and records the refund surfaced to the seller.
// The refund equals the order total when payment had completed, zero
// otherwise; a completed payment is marked reversed.
func (s *OrderService) Cancel(ctx context.Context, orderID int64) (decimal.Decimal, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.Cancel")
	defer span.End()

	cancelled, err := s.Transition(ctx, orderID, policy.ActionCancel)
	if err != nil {
		return decimal.Zero, err
	}

	refund := decimal.Zero
	if cancelled.PaymentStatus == models.PaymentStatusCompleted {
		refund = cancelled.TotalAmount

		if err := s.store.CreateRefund(ctx, &models.Refund{
			OrderID:  cancelled.ID,
			Amount:   refund,
			Currency: cancelled.Currency,
		}); err != nil {
			return decimal.Zero, fmt.Errorf("failed to record refund: %w", err)
		}
		util.RefundsIssuedTotal.Inc()

		if err := s.store.UpdatePaymentStatus(ctx, cancelled.ID, models.PaymentStatusReversed); err != nil {
			s.logger.Error("Failed to mark payment reversed",
				zap.Int64("order_id", cancelled.ID),
				zap.Error(err))
		}
	}

	util.OrdersCancelledTotal.Inc()

	event := &models.OrderCancelledEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderCancelled,
			Timestamp: time.Now(),
		},
		OrderID:      cancelled.ID,
		OrderNumber:  cancelled.OrderNumber,
		SellerID:     cancelled.SellerID,
		RefundAmount: refund,
		Currency:     cancelled.Currency,
	}
	if err := s.eventPublisher.PublishOrderCancelled(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderCancelled event", zap.Error(err))
	}

	return refund, nil
}
