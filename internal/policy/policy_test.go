package policy

import (
	"testing"
	"time"

	"github.com/Mwvndva/bybloshq-orders/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func order(status models.OrderStatus, payment models.PaymentStatus) models.Order {
	return models.Order{
		ID:            42,
		OrderNumber:   "ORD-TEST",
		Status:        status,
		PaymentStatus: payment,
		CreatedAt:     time.Now().Add(-time.Hour),
		UpdatedAt:     time.Now().Add(-time.Hour),
	}
}

func TestLegalActionsTerminalStatesEmpty(t *testing.T) {
	for _, status := range []models.OrderStatus{
		models.OrderStatusCancelled,
		models.OrderStatusCompleted,
		models.OrderStatusFailed,
	} {
		assert.Empty(t, LegalActions(order(status, models.PaymentStatusCompleted)), string(status))
	}
}

func TestLegalActionsPending(t *testing.T) {
	actions := LegalActions(order(models.OrderStatusPending, models.PaymentStatusPending))
	assert.ElementsMatch(t, []Action{ActionMarkReadyForPickup, ActionCancel}, actions)
}

func TestLegalActionsDeliveryPendingGatedOnPayment(t *testing.T) {
	paid := LegalActions(order(models.OrderStatusDeliveryPending, models.PaymentStatusCompleted))
	assert.ElementsMatch(t, []Action{ActionMarkReadyForPickup, ActionCancel}, paid)

	unpaid := LegalActions(order(models.OrderStatusDeliveryPending, models.PaymentStatusPending))
	assert.ElementsMatch(t, []Action{ActionCancel}, unpaid)
}

func TestLegalActionsReadyForPickupRequiresCompletedPayment(t *testing.T) {
	unpaid := LegalActions(order(models.OrderStatusReadyForPickup, models.PaymentStatusPending))
	assert.NotContains(t, unpaid, ActionMarkDelivered)

	paid := LegalActions(order(models.OrderStatusReadyForPickup, models.PaymentStatusCompleted))
	assert.Contains(t, paid, ActionMarkDelivered)
}

func TestLegalActionsWaitingStates(t *testing.T) {
	for _, status := range []models.OrderStatus{
		models.OrderStatusConfirmed,
		models.OrderStatusDeliveryComplete,
		models.OrderStatusCollectionPending,
		models.OrderStatusServicePending,
	} {
		assert.Empty(t, LegalActions(order(status, models.PaymentStatusCompleted)), string(status))
	}
}

func TestApplyTransitionCancelFromPending(t *testing.T) {
	o := order(models.OrderStatusPending, models.PaymentStatusPending)

	cancelled, err := ApplyTransition(o, ActionCancel)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, cancelled.Status)
	assert.Empty(t, LegalActions(cancelled))
}

func TestApplyTransitionDeliveryPendingPaid(t *testing.T) {
	o := order(models.OrderStatusDeliveryPending, "completed")

	next, err := ApplyTransition(o, ActionMarkReadyForPickup)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusDeliveryComplete, next.Status)
}

func TestApplyTransitionDeliveryPendingUnpaidRejected(t *testing.T) {
	o := order(models.OrderStatusDeliveryPending, "pending")

	_, err := ApplyTransition(o, ActionMarkReadyForPickup)
	require.Error(t, err)

	var illegal *IllegalTransitionError
	require.ErrorAs(t, err, &illegal)
	assert.Equal(t, ActionMarkReadyForPickup, illegal.Action)
}

func TestApplyTransitionPendingPickupGoesToDeliveryPending(t *testing.T) {
	o := order(models.OrderStatusPending, models.PaymentStatusPending)

	next, err := ApplyTransition(o, ActionMarkReadyForPickup)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusDeliveryPending, next.Status)
}

func TestApplyTransitionLegacyPickupCompletes(t *testing.T) {
	o := order(models.OrderStatusReadyForPickup, models.PaymentStatusCompleted)

	next, err := ApplyTransition(o, ActionMarkDelivered)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCompleted, next.Status)
	assert.Empty(t, LegalActions(next))
}

func TestApplyTransitionDoesNotMutateInput(t *testing.T) {
	o := order(models.OrderStatusPending, models.PaymentStatusPending)
	before := o.UpdatedAt

	next, err := ApplyTransition(o, ActionCancel)
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusPending, o.Status)
	assert.Equal(t, before, o.UpdatedAt)
	assert.True(t, next.UpdatedAt.After(before))
}

func TestApplyTransitionNormalizesPaymentStatus(t *testing.T) {
	o := order(models.OrderStatusDeliveryPending, "SUCCESS")

	next, err := ApplyTransition(o, ActionMarkReadyForPickup)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusCompleted, next.PaymentStatus)
}

func TestNormalizePaymentStatus(t *testing.T) {
	cases := map[string]models.PaymentStatus{
		"completed": models.PaymentStatusCompleted,
		"SUCCESS":   models.PaymentStatusCompleted,
		"paid":      models.PaymentStatusCompleted,
		"cancelled": models.PaymentStatusReversed,
		"reversed":  models.PaymentStatusReversed,
		"failed":    models.PaymentStatusFailed,
		"pending":   models.PaymentStatusPending,
		"":          models.PaymentStatusPending,
		"whatever":  models.PaymentStatusPending,
	}
	for raw, want := range cases {
		assert.Equal(t, want, NormalizePaymentStatus(raw), raw)
	}
}

func TestApplyExternalFailure(t *testing.T) {
	o := order(models.OrderStatusDeliveryPending, models.PaymentStatusPending)

	failed, err := ApplyExternalFailure(o)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusFailed, failed.Status)
	assert.Empty(t, LegalActions(failed))

	_, err = ApplyExternalFailure(failed)
	assert.Error(t, err)
}
