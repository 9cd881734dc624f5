// Package projection maps raw order records into the display-ready views
// the seller dashboard renders
package projection

import (
	"github.com/Mwvndva/bybloshq-orders/internal/models"
	"github.com/Mwvndva/bybloshq-orders/internal/policy"
)

// OrderKind tags a view for grouping and styling. It has no effect on
// status logic.
type OrderKind string

const (
	KindPhysical OrderKind = "physical"
	KindDigital  OrderKind = "digital"
	KindService  OrderKind = "service"
)

// OrderView pairs an order with its precomputed legal actions and display
// kind
type OrderView struct {
	Order        models.Order    `json:"order"`
	LegalActions []policy.Action `json:"legal_actions"`
	Kind         OrderKind       `json:"kind"`
}

// Project builds views for a list of orders. Input ordering is preserved;
// callers supply orders already sorted most-recent-first.
func Project(orders []models.Order) []OrderView {
	views := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, OrderView{
			Order:        o,
			LegalActions: policy.LegalActions(o),
			Kind:         Classify(o),
		})
	}
	return views
}

// Classify derives the display kind from the order's items: any service
// item (or booking metadata) makes it a service order, an all-digital
// basket is digital, everything else is physical.
func Classify(o models.Order) OrderKind {
	if o.Metadata != nil {
		return KindService
	}

	allDigital := len(o.Items) > 0
	for _, item := range o.Items {
		if item.ProductType == models.ProductTypeService {
			return KindService
		}
		if item.ProductType != models.ProductTypeDigital {
			allDigital = false
		}
	}
	if allDigital {
		return KindDigital
	}
	return KindPhysical
}
