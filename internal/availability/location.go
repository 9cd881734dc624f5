package availability

import (
	"fmt"

	"github.com/Mwvndva/bybloshq-orders/internal/models"
)

// ValidationError is a user-correctable booking input problem
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

// LocationRequest carries the booker's location inputs
type LocationRequest struct {
	// Mode is required for hybrid services; ignored otherwise
	Mode models.LocationType `json:"mode,omitempty"`
	// CustomAddress is the booker's own address, required when the seller
	// travels to the buyer
	CustomAddress string `json:"custom_address,omitempty"`
	// AddressID selects a seller branch when more than one is configured
	AddressID int64 `json:"address_id,omitempty"`
}

// Location is the resolved place a booking happens
type Location struct {
	Mode    models.LocationType `json:"mode"`
	Address string              `json:"address"`
}

// ResolveLocation applies the service's location rules to the booker's
// inputs. seller_visits_buyer requires a custom address; buyer_visits_seller
// uses a pre-registered branch (defaulted when only one exists); hybrid lets
// the booker pick either mode and then follows its rule.
func ResolveLocation(svc models.Service, branches []models.ServiceAddress, req LocationRequest) (Location, error) {
	mode := svc.LocationType
	if mode == models.LocationHybrid {
		switch req.Mode {
		case models.LocationBuyerVisitsSeller, models.LocationSellerVisitsBuyer:
			mode = req.Mode
		default:
			return Location{}, &ValidationError{Field: "mode", Msg: "a location mode must be chosen for this service"}
		}
	}

	switch mode {
	case models.LocationSellerVisitsBuyer:
		if req.CustomAddress == "" {
			return Location{}, &ValidationError{Field: "custom_address", Msg: "an address is required when the seller travels to you"}
		}
		return Location{Mode: mode, Address: req.CustomAddress}, nil

	case models.LocationBuyerVisitsSeller:
		branch, err := pickBranch(branches, req.AddressID)
		if err != nil {
			return Location{}, err
		}
		return Location{Mode: mode, Address: branch.Address}, nil
	}

	return Location{}, &ValidationError{Field: "location_type", Msg: fmt.Sprintf("unsupported location type %q", svc.LocationType)}
}

func pickBranch(branches []models.ServiceAddress, addressID int64) (models.ServiceAddress, error) {
	if len(branches) == 0 {
		return models.ServiceAddress{}, &ValidationError{Field: "address_id", Msg: "the seller has no registered address for this service"}
	}

	if addressID != 0 {
		for _, b := range branches {
			if b.ID == addressID {
				return b, nil
			}
		}
		return models.ServiceAddress{}, &ValidationError{Field: "address_id", Msg: "unknown seller address"}
	}

	if len(branches) == 1 {
		return branches[0], nil
	}
	for _, b := range branches {
		if b.IsDefault {
			return b, nil
		}
	}
	return models.ServiceAddress{}, &ValidationError{Field: "address_id", Msg: "choose one of the seller's addresses"}
}
