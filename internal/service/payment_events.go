package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Mwvndva/bybloshq-orders/internal/models"
	"github.com/Mwvndva/bybloshq-orders/internal/policy"
	"github.com/Mwvndva/bybloshq-orders/internal/store"
	"github.com/Mwvndva/bybloshq-orders/internal/util"

	"go.uber.org/zap"
)

// PaymentEventProcessor applies payment-provider callbacks to orders. The
// provider owns payment state; this service only observes and stores the
// normalized result.
type PaymentEventProcessor struct {
	store  *store.Store
	logger *zap.Logger
}

// NewPaymentEventProcessor creates a new processor
func NewPaymentEventProcessor(store *store.Store) *PaymentEventProcessor {
	return &PaymentEventProcessor{
		store:  store,
		logger: util.GetLogger(),
	}
}

// HandlePaymentSuccess stores a completed payment
func (p *PaymentEventProcessor) HandlePaymentSuccess(ctx context.Context, event *models.PaymentSuccessEvent) error {
	ctx, span := util.StartSpan(ctx, "PaymentEventProcessor.HandlePaymentSuccess")
	defer span.End()

	done, err := p.alreadyProcessed(ctx, event.EventID)
	if err != nil || done {
		return err
	}

	util.PaymentEventsTotal.WithLabelValues(models.EventTypePaymentSuccess).Inc()
	p.logger.Info("Payment completed",
		zap.Int64("order_id", event.OrderID),
		zap.String("tx_id", event.TxID))

	status := policy.NormalizePaymentStatus(event.Status)
	if status == models.PaymentStatusPending {
		status = models.PaymentStatusCompleted
	}
	if err := p.store.UpdatePaymentStatus(ctx, event.OrderID, status); err != nil {
		return fmt.Errorf("failed to store payment status: %w", err)
	}

	return p.markProcessed(ctx, event.EventID, event.EventType)
}

// HandlePaymentFailed stores the failed payment and applies the external
// failure signal: any non-terminal order moves to FAILED.
func (p *PaymentEventProcessor) HandlePaymentFailed(ctx context.Context, event *models.PaymentFailedEvent) error {
	ctx, span := util.StartSpan(ctx, "PaymentEventProcessor.HandlePaymentFailed")
	defer span.End()

	done, err := p.alreadyProcessed(ctx, event.EventID)
	if err != nil || done {
		return err
	}

	util.PaymentEventsTotal.WithLabelValues(models.EventTypePaymentFailed).Inc()
	p.logger.Warn("Payment failed",
		zap.Int64("order_id", event.OrderID),
		zap.String("reason", event.Reason))

	if err := p.store.UpdatePaymentStatus(ctx, event.OrderID, models.PaymentStatusFailed); err != nil {
		return fmt.Errorf("failed to store payment status: %w", err)
	}

	order, err := p.store.GetOrderByID(ctx, event.OrderID)
	if err != nil {
		return err
	}

	if failed, err := policy.ApplyExternalFailure(*order); err == nil {
		if err := p.store.UpdateOrderStatus(ctx, order.ID, order.Status, failed.Status); err != nil &&
			!errors.Is(err, store.ErrStatusConflict) {
			return fmt.Errorf("failed to fail order: %w", err)
		}
	}

	return p.markProcessed(ctx, event.EventID, event.EventType)
}

// HandlePaymentReversed stores a provider-side reversal
func (p *PaymentEventProcessor) HandlePaymentReversed(ctx context.Context, event *models.PaymentReversedEvent) error {
	ctx, span := util.StartSpan(ctx, "PaymentEventProcessor.HandlePaymentReversed")
	defer span.End()

	done, err := p.alreadyProcessed(ctx, event.EventID)
	if err != nil || done {
		return err
	}

	util.PaymentEventsTotal.WithLabelValues(models.EventTypePaymentReversed).Inc()
	p.logger.Info("Payment reversed",
		zap.Int64("order_id", event.OrderID),
		zap.String("reason", event.Reason))

	if err := p.store.UpdatePaymentStatus(ctx, event.OrderID, models.PaymentStatusReversed); err != nil {
		return fmt.Errorf("failed to store payment status: %w", err)
	}

	return p.markProcessed(ctx, event.EventID, event.EventType)
}

func (p *PaymentEventProcessor) alreadyProcessed(ctx context.Context, eventID string) (bool, error) {
	processed, err := p.store.IsEventProcessed(ctx, eventID)
	if err != nil {
		return false, fmt.Errorf("failed to check event processed: %w", err)
	}
	if processed {
		p.logger.Info("Event already processed", zap.String("event_id", eventID))
	}
	return processed, nil
}

func (p *PaymentEventProcessor) markProcessed(ctx context.Context, eventID, eventType string) error {
	if err := p.store.MarkEventProcessed(ctx, eventID, eventType); err != nil {
		p.logger.Error("Failed to mark event processed", zap.Error(err))
	}
	return nil
}
