package service

import (
	"testing"
	"time"

	"github.com/Mwvndva/bybloshq-orders/internal/availability"
	"github.com/Mwvndva/bybloshq-orders/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bookableService() *models.Service {
	return &models.Service{
		ID:           9,
		SellerID:     3,
		Name:         "Studio session",
		Price:        decimal.NewFromInt(4500),
		LocationType: models.LocationSellerVisitsBuyer,
		StartTime:    "09:00",
		EndTime:      "17:00",
	}
}

func validBookingRequest() *BookingRequest {
	return &BookingRequest{
		ServiceID:   9,
		BookingDate: time.Now().AddDate(0, 0, 7).Format(bookingDateLayout),
		TimeSlot:    "10:00 - 11:00",
		Location:    availability.LocationRequest{CustomAddress: "12 Riverside Dr"},
	}
}

func TestValidateBookingAccepts(t *testing.T) {
	bs := &BookingService{}

	slot, location, err := bs.validate(bookableService(), nil, validBookingRequest())
	require.NoError(t, err)
	assert.Equal(t, "10:00 - 11:00", slot.Label)
	assert.Equal(t, "12 Riverside Dr", location.Address)
}

func TestValidateBookingRequiresDate(t *testing.T) {
	bs := &BookingService{}
	req := validBookingRequest()
	req.BookingDate = ""

	_, _, err := bs.validate(bookableService(), nil, req)
	var verr *availability.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "booking_date", verr.Field)
}

func TestValidateBookingRejectsPastDate(t *testing.T) {
	bs := &BookingService{}
	req := validBookingRequest()
	req.BookingDate = time.Now().AddDate(0, 0, -2).Format(bookingDateLayout)

	_, _, err := bs.validate(bookableService(), nil, req)
	var verr *availability.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "booking_date", verr.Field)
}

func TestValidateBookingRejectsUnavailableWeekday(t *testing.T) {
	bs := &BookingService{}
	svc := bookableService()

	date := time.Now().AddDate(0, 0, 7)
	other := date.AddDate(0, 0, 1).Weekday().String()
	svc.AvailableDays = []string{other}

	req := validBookingRequest()
	req.BookingDate = date.Format(bookingDateLayout)

	_, _, err := bs.validate(svc, nil, req)
	var verr *availability.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "booking_date", verr.Field)
}

func TestValidateBookingRequiresKnownSlot(t *testing.T) {
	bs := &BookingService{}
	req := validBookingRequest()
	req.TimeSlot = "22:00 - 23:00"

	_, _, err := bs.validate(bookableService(), nil, req)
	var verr *availability.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "time_slot", verr.Field)
}

func TestValidateBookingRequiresLocation(t *testing.T) {
	bs := &BookingService{}
	req := validBookingRequest()
	req.Location = availability.LocationRequest{}

	_, _, err := bs.validate(bookableService(), nil, req)
	var verr *availability.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "custom_address", verr.Field)
}

func TestProductInputValidate(t *testing.T) {
	valid := &ProductInput{Name: "Tote bag", ProductType: "physical", Price: decimal.NewFromInt(1200)}
	assert.NoError(t, valid.validate())

	noName := &ProductInput{ProductType: "physical"}
	assert.Error(t, noName.validate())

	badType := &ProductInput{Name: "Tote bag", ProductType: "perishable"}
	assert.Error(t, badType.validate())

	negative := &ProductInput{Name: "Tote bag", ProductType: "digital", Price: decimal.NewFromInt(-1)}
	assert.Error(t, negative.validate())
}

func TestTransitionWithCollaborators(t *testing.T) {
	// Requires postgres, redis and kafka; covered by the policy unit tests
	// up to the store boundary.
	t.Skip("Integration test - requires database and redis")
}
