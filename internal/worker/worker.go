package worker

import (
	"context"
	"log"

	"github.com/Mwvndva/bybloshq-orders/internal/broker"
	"github.com/Mwvndva/bybloshq-orders/internal/service"
)

// PaymentWorker consumes payment-provider events and applies them to
// orders through the PaymentEventProcessor
type PaymentWorker struct {
	consumer  *broker.Consumer
	handler   *broker.PaymentEventHandler
	processor *service.PaymentEventProcessor
}

// NewPaymentWorker creates a new payment worker
func NewPaymentWorker(consumer *broker.Consumer, processor *service.PaymentEventProcessor) *PaymentWorker {
	handler := broker.NewPaymentEventHandler()

	handler.OnPaymentSuccess(processor.HandlePaymentSuccess)
	handler.OnPaymentFailed(processor.HandlePaymentFailed)
	handler.OnPaymentReversed(processor.HandlePaymentReversed)

	return &PaymentWorker{
		consumer:  consumer,
		handler:   handler,
		processor: processor,
	}
}

// Start starts the worker
func (w *PaymentWorker) Start(ctx context.Context) error {
	log.Println("Starting payment worker...")
	return w.consumer.StartConsuming(ctx, w.handler.HandleMessage)
}

// Stop stops the worker
func (w *PaymentWorker) Stop() error {
	log.Println("Stopping payment worker...")
	return w.consumer.Close()
}
