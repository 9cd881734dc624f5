// Package policy holds the order lifecycle rules: which seller actions are
// legal in which status/payment combination, and what each action does.
// The store enforces the same graph on write; this package is the single
// in-process authority handlers and projections consult.
package policy

import (
	"fmt"
	"strings"
	"time"

	"github.com/Mwvndva/bybloshq-orders/internal/models"
)

// Action is a seller-initiated order operation
type Action string

const (
	ActionCancel             Action = "CANCEL"
	ActionMarkReadyForPickup Action = "MARK_READY_FOR_PICKUP"
	ActionMarkDelivered      Action = "MARK_DELIVERED"
)

// IllegalTransitionError reports an action attempted outside its legal
// status/payment combination
type IllegalTransitionError struct {
	Status        models.OrderStatus
	PaymentStatus models.PaymentStatus
	Action        Action
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("action %s is not legal for order in status %s (payment %s)",
		e.Action, e.Status, e.PaymentStatus)
}

// NormalizePaymentStatus maps the payment provider's vocabulary onto the
// canonical lowercase set. The provider reports refunds as either
// "cancelled" or "reversed" depending on flow age; both map to reversed.
func NormalizePaymentStatus(raw string) models.PaymentStatus {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "completed", "success", "paid":
		return models.PaymentStatusCompleted
	case "reversed", "cancelled", "refunded":
		return models.PaymentStatusReversed
	case "failed":
		return models.PaymentStatusFailed
	default:
		return models.PaymentStatusPending
	}
}

// IsTerminal reports whether no further transition may leave the status
func IsTerminal(status models.OrderStatus) bool {
	switch status {
	case models.OrderStatusCancelled, models.OrderStatusCompleted, models.OrderStatusFailed:
		return true
	}
	return false
}

func isPaid(ps models.PaymentStatus) bool {
	return NormalizePaymentStatus(string(ps)) == models.PaymentStatusCompleted
}

// LegalActions returns the seller actions legal for the order's current
// status and payment status. Terminal orders get an empty slice.
func LegalActions(order models.Order) []Action {
	if IsTerminal(order.Status) {
		return nil
	}

	var actions []Action
	switch order.Status {
	case models.OrderStatusPending:
		actions = append(actions, ActionMarkReadyForPickup, ActionCancel)
	case models.OrderStatusDeliveryPending:
		if isPaid(order.PaymentStatus) {
			actions = append(actions, ActionMarkReadyForPickup)
		}
		actions = append(actions, ActionCancel)
	case models.OrderStatusReadyForPickup:
		if isPaid(order.PaymentStatus) {
			actions = append(actions, ActionMarkDelivered)
		}
	}
	// CONFIRMED, DELIVERY_COMPLETE, COLLECTION_PENDING and SERVICE_PENDING
	// await the buyer or an external signal; the seller has nothing to do.
	return actions
}

// NextStatus resolves the status an action moves the order to, without
// applying it
func NextStatus(order models.Order, action Action) (models.OrderStatus, error) {
	if !contains(LegalActions(order), action) {
		return "", &IllegalTransitionError{
			Status:        order.Status,
			PaymentStatus: order.PaymentStatus,
			Action:        action,
		}
	}

	switch action {
	case ActionCancel:
		return models.OrderStatusCancelled, nil
	case ActionMarkReadyForPickup:
		if order.Status == models.OrderStatusDeliveryPending {
			return models.OrderStatusDeliveryComplete, nil
		}
		// The legacy pickup flow went PENDING -> READY_FOR_PICKUP; new
		// orders follow the delivery variant. Orders already sitting in
		// READY_FOR_PICKUP keep their MARK_DELIVERED path.
		return models.OrderStatusDeliveryPending, nil
	case ActionMarkDelivered:
		return models.OrderStatusCompleted, nil
	}
	return "", &IllegalTransitionError{
		Status:        order.Status,
		PaymentStatus: order.PaymentStatus,
		Action:        action,
	}
}

// ApplyTransition returns a copy of the order with the action applied:
// status moved along the graph, UpdatedAt refreshed and the payment status
// normalized. The input order is never mutated.
func ApplyTransition(order models.Order, action Action) (models.Order, error) {
	next, err := NextStatus(order, action)
	if err != nil {
		return models.Order{}, err
	}

	out := order
	out.Status = next
	out.PaymentStatus = NormalizePaymentStatus(string(order.PaymentStatus))
	out.UpdatedAt = time.Now()
	return out, nil
}

// ApplyExternalFailure moves any non-terminal order to FAILED. Failure is
// signalled by the payment provider, never by a seller action, so it does
// not appear in LegalActions.
func ApplyExternalFailure(order models.Order) (models.Order, error) {
	if IsTerminal(order.Status) {
		return models.Order{}, &IllegalTransitionError{
			Status:        order.Status,
			PaymentStatus: order.PaymentStatus,
			Action:        "EXTERNAL_FAILURE",
		}
	}

	out := order
	out.Status = models.OrderStatusFailed
	out.PaymentStatus = NormalizePaymentStatus(string(order.PaymentStatus))
	out.UpdatedAt = time.Now()
	return out, nil
}

func contains(actions []Action, action Action) bool {
	for _, a := range actions {
		if a == action {
			return true
		}
	}
	return false
}
