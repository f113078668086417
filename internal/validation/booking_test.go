package validation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTour() Tour {
	return Tour{
		ParkName:  "Acadia",
		TourName:  "Sunrise Walk",
		Date:      "2026-06-01",
		Time:      "05:45",
		Guests:    3,
		Amount:    decimal.NewFromInt(225),
		FirstName: "Lin",
		LastName:  "Ho",
		Email:     "lin@example.com",
	}
}

func TestTour_Valid(t *testing.T) {
	got, fields := Default.Tour(validTour())
	assert.Nil(t, fields)
	assert.Equal(t, "225.00", got.Amount.StringFixed(2))
}

func TestTour_PriceFollowsGuests(t *testing.T) {
	tour := validTour()
	tour.Amount = decimal.NewFromInt(150)

	_, fields := Default.Tour(tour)
	require.NotNil(t, fields)
	assert.Equal(t, "must be 225.00 for 3 guests", fields["amount"])
	assert.Len(t, fields, 1)
}

func TestTour_GuestBounds(t *testing.T) {
	for _, guests := range []int{0, 21} {
		tour := validTour()
		tour.Guests = guests

		_, fields := Default.Tour(tour)
		require.NotNil(t, fields, guests)
		assert.Contains(t, fields, "guests")
		assert.NotContains(t, fields, "amount")
	}

	tour := validTour()
	tour.Guests = 20
	tour.Amount = decimal.NewFromInt(1500)
	_, fields := Default.Tour(tour)
	assert.Nil(t, fields)
}

func TestTour_DateAndTimeFormats(t *testing.T) {
	tour := validTour()
	tour.Date = "2026-13-01"
	tour.Time = "25:00"

	_, fields := Default.Tour(tour)
	require.NotNil(t, fields)
	assert.Equal(t, "must match the format 2006-01-02", fields["date"])
	assert.Equal(t, "must match the format 15:04", fields["time"])
}

func TestServiceApplication_Enums(t *testing.T) {
	app := ServiceApplication{
		FirstName:   "Rae",
		LastName:    "Stone",
		Email:       "rae@example.com",
		CompanyType: "Corporation",
		CompanyName: "Stone Housekeeping",
		TaxID:       "99-1234567",
	}
	_, fields := Default.ServiceApplication(app)
	assert.Nil(t, fields, "provided service is optional")

	app.ProvidedService = "Lifeguards"
	app.CompanyType = "Partnership"
	_, fields = Default.ServiceApplication(app)
	require.NotNil(t, fields)
	assert.Contains(t, fields, "company_type")
	assert.Contains(t, fields, "provided_service")
}

func TestApplicationReview_DecisionRequired(t *testing.T) {
	fields := Default.ApplicationReview(Default.NormalizeReview(Review{Decision: "maybe"}))
	require.NotNil(t, fields)
	assert.Contains(t, fields, "decision")

	assert.Nil(t, Default.ApplicationReview(Default.NormalizeReview(Review{Decision: "Approve"})))
}
