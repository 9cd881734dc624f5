package availability

import (
	"testing"
	"time"

	"github.com/Mwvndva/bybloshq-orders/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSlotsFullDay(t *testing.T) {
	slots := GenerateSlots("09:00", "17:00")

	require.Len(t, slots, 8)
	assert.Equal(t, "09:00 - 10:00", slots[0].Label)
	assert.Equal(t, 9, slots[0].StartHour)
	assert.Equal(t, "16:00 - 17:00", slots[7].Label)
	assert.Equal(t, 17, slots[7].EndHour)
}

func TestGenerateSlotsContiguous(t *testing.T) {
	slots := GenerateSlots("07:00", "12:00")

	require.Len(t, slots, 5)
	for i := 1; i < len(slots); i++ {
		assert.Equal(t, slots[i-1].EndHour, slots[i].StartHour)
	}
}

func TestGenerateSlotsInvertedRangeFallsBack(t *testing.T) {
	for _, tc := range [][2]string{
		{"17:00", "09:00"},
		{"10:00", "10:00"},
		{"not-a-time", "12:00"},
		{"", ""},
	} {
		slots := GenerateSlots(tc[0], tc[1])
		require.Len(t, slots, 7, "%s-%s", tc[0], tc[1])
		assert.Equal(t, "09:00 - 10:00", slots[0].Label)
		assert.Equal(t, "15:00 - 16:00", slots[6].Label)
	}
}

func TestIsDateAvailableRejectsPast(t *testing.T) {
	yesterday := time.Now().AddDate(0, 0, -1)

	assert.False(t, IsDateAvailable(yesterday, nil))
	assert.False(t, IsDateAvailable(yesterday, []string{yesterday.Weekday().String()}))
	assert.False(t, IsDateAvailable(time.Now().AddDate(-1, 0, 0), nil))
}

func TestIsDateAvailableEmptyDaysAllowsAll(t *testing.T) {
	assert.True(t, IsDateAvailable(time.Now(), nil))
	assert.True(t, IsDateAvailable(time.Now().AddDate(0, 0, 30), []string{}))
}

func TestIsDateAvailableMatchesWeekdayForms(t *testing.T) {
	date := time.Now().AddDate(0, 0, 7)
	full := date.Weekday().String()

	assert.True(t, IsDateAvailable(date, []string{full}))
	assert.True(t, IsDateAvailable(date, []string{full[:3]}))
	assert.True(t, IsDateAvailable(date, []string{full[:3] + " "}))
	assert.True(t, IsDateAvailable(date, []string{"SOMEDAY", full}))
}

func TestIsDateAvailableRejectsOtherWeekdays(t *testing.T) {
	date := time.Now().AddDate(0, 0, 7)
	other := date.AddDate(0, 0, 1).Weekday().String()

	assert.False(t, IsDateAvailable(date, []string{other}))
}

func svc(lt models.LocationType) models.Service {
	return models.Service{ID: 1, Name: "Home cleaning", LocationType: lt}
}

func TestResolveLocationSellerVisitsBuyer(t *testing.T) {
	loc, err := ResolveLocation(svc(models.LocationSellerVisitsBuyer), nil, LocationRequest{CustomAddress: "12 Riverside Dr"})
	require.NoError(t, err)
	assert.Equal(t, "12 Riverside Dr", loc.Address)

	_, err = ResolveLocation(svc(models.LocationSellerVisitsBuyer), nil, LocationRequest{})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "custom_address", verr.Field)
}

func TestResolveLocationBuyerVisitsSeller(t *testing.T) {
	branches := []models.ServiceAddress{
		{ID: 1, Label: "CBD", Address: "Moi Avenue"},
	}

	loc, err := ResolveLocation(svc(models.LocationBuyerVisitsSeller), branches, LocationRequest{})
	require.NoError(t, err)
	assert.Equal(t, "Moi Avenue", loc.Address)
}

func TestResolveLocationMultipleBranches(t *testing.T) {
	branches := []models.ServiceAddress{
		{ID: 1, Label: "CBD", Address: "Moi Avenue"},
		{ID: 2, Label: "Westlands", Address: "Waiyaki Way", IsDefault: true},
	}

	// explicit choice wins
	loc, err := ResolveLocation(svc(models.LocationBuyerVisitsSeller), branches, LocationRequest{AddressID: 1})
	require.NoError(t, err)
	assert.Equal(t, "Moi Avenue", loc.Address)

	// no choice falls back to the default branch
	loc, err = ResolveLocation(svc(models.LocationBuyerVisitsSeller), branches, LocationRequest{})
	require.NoError(t, err)
	assert.Equal(t, "Waiyaki Way", loc.Address)

	_, err = ResolveLocation(svc(models.LocationBuyerVisitsSeller), branches, LocationRequest{AddressID: 99})
	assert.Error(t, err)
}

func TestResolveLocationHybrid(t *testing.T) {
	branches := []models.ServiceAddress{{ID: 1, Address: "Moi Avenue"}}

	_, err := ResolveLocation(svc(models.LocationHybrid), branches, LocationRequest{})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "mode", verr.Field)

	loc, err := ResolveLocation(svc(models.LocationHybrid), branches, LocationRequest{Mode: models.LocationBuyerVisitsSeller})
	require.NoError(t, err)
	assert.Equal(t, "Moi Avenue", loc.Address)

	loc, err = ResolveLocation(svc(models.LocationHybrid), branches, LocationRequest{
		Mode:          models.LocationSellerVisitsBuyer,
		CustomAddress: "12 Riverside Dr",
	})
	require.NoError(t, err)
	assert.Equal(t, "12 Riverside Dr", loc.Address)
}
