package projection

import (
	"testing"

	"github.com/Mwvndva/bybloshq-orders/internal/models"
	"github.com/Mwvndva/bybloshq-orders/internal/policy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectEmpty(t *testing.T) {
	assert.Empty(t, Project(nil))
	assert.Empty(t, Project([]models.Order{}))
}

func TestProjectPreservesOrderAndCount(t *testing.T) {
	orders := []models.Order{
		{ID: 3, Status: models.OrderStatusPending},
		{ID: 2, Status: models.OrderStatusCompleted},
		{ID: 1, Status: models.OrderStatusDeliveryPending, PaymentStatus: models.PaymentStatusCompleted},
	}

	views := Project(orders)
	require.Len(t, views, 3)
	for i, v := range views {
		assert.Equal(t, orders[i].ID, v.Order.ID)
	}
}

func TestProjectPrecomputesActions(t *testing.T) {
	views := Project([]models.Order{
		{ID: 1, Status: models.OrderStatusPending},
		{ID: 2, Status: models.OrderStatusCancelled},
	})

	require.Len(t, views, 2)
	assert.ElementsMatch(t, []policy.Action{policy.ActionMarkReadyForPickup, policy.ActionCancel}, views[0].LegalActions)
	assert.Empty(t, views[1].LegalActions)
}

func TestClassify(t *testing.T) {
	physical := models.Order{Items: []models.OrderItem{
		{ProductType: models.ProductTypePhysical},
		{ProductType: models.ProductTypeDigital},
	}}
	digital := models.Order{Items: []models.OrderItem{
		{ProductType: models.ProductTypeDigital},
		{ProductType: models.ProductTypeDigital},
	}}
	service := models.Order{Items: []models.OrderItem{
		{ProductType: models.ProductTypePhysical},
		{ProductType: models.ProductTypeService},
	}}
	booking := models.Order{Metadata: &models.BookingMetadata{BookingDate: "2026-09-14"}}
	empty := models.Order{}

	assert.Equal(t, KindPhysical, Classify(physical))
	assert.Equal(t, KindDigital, Classify(digital))
	assert.Equal(t, KindService, Classify(service))
	assert.Equal(t, KindService, Classify(booking))
	assert.Equal(t, KindPhysical, Classify(empty))
}
