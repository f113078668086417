package validation

import (
	"strings"
	"testing"

	"ecopark/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validEmergency() Submission {
	return Submission{
		Title:         "Flood Repair",
		Description:   "Canyon road washed out after storms",
		Amount:        decimal.NewFromInt(75000),
		Category:      "Natural Disaster",
		ParkName:      "Yellowstone",
		Priority:      "immediate",
		Justification: "Road is the only access for rangers and visitors",
	}
}

func TestSubmission_ValidEmergency(t *testing.T) {
	assert.Nil(t, Default.Submission(model.KindEmergency, validEmergency()))
}

func TestSubmission_NegativeAmountNamesField(t *testing.T) {
	s := validEmergency()
	s.Amount = decimal.NewFromInt(-5)

	fields := Default.Submission(model.KindEmergency, s)
	require.NotNil(t, fields)
	assert.Equal(t, "must be greater than 0", fields["amount"])
	assert.Len(t, fields, 1)
}

func TestSubmission_AmountIsCheckedAfterRounding(t *testing.T) {
	s := validEmergency()
	s.Amount = decimal.RequireFromString("0.004")

	clean := Default.SanitizeSubmission(s)
	assert.True(t, clean.Amount.IsZero())
	assert.Equal(t, "must be greater than 0", Default.Submission(model.KindEmergency, clean)["amount"])

	s.Amount = decimal.RequireFromString("0.005")
	assert.Nil(t, Default.Submission(model.KindEmergency, Default.SanitizeSubmission(s)))
}

func TestSubmission_AmountUpperBound(t *testing.T) {
	s := validEmergency()
	s.Amount = decimal.RequireFromString("9999999999999.99")
	assert.Nil(t, Default.Submission(model.KindEmergency, s))

	s.Amount = decimal.RequireFromString("10000000000000")
	fields := Default.Submission(model.KindEmergency, s)
	assert.Equal(t, "must be at most 9999999999999.99", fields["amount"])
}

func TestSubmission_KindSpecificMinimums(t *testing.T) {
	s := validEmergency()
	s.Title = "Leak"
	s.Justification = "too short"

	fields := Default.Submission(model.KindEmergency, s)
	assert.Equal(t, "must be at least 5 characters", fields["title"])
	assert.Equal(t, "must be at least 20 characters", fields["justification"])

	fund := Submission{
		Title:       "Leak",
		Description: "Roof",
		Amount:      decimal.NewFromInt(10),
		Category:    "Maintenance",
		ParkName:    "Zion",
		Priority:    "high",
	}
	assert.Nil(t, Default.Submission(model.KindFund, fund))
}

func TestSubmission_EnumsAreCheckedPerKind(t *testing.T) {
	s := validEmergency()
	s.Category = "Maintenance"
	s.ParkName = "Central Park"

	fields := Default.Submission(model.KindEmergency, s)
	assert.True(t, strings.HasPrefix(fields["category"], "must be one of: Natural Disaster"))
	assert.Contains(t, fields["park_name"], "Yellowstone")

	extra := validEmergency()
	extra.Category = "Staffing"
	extra.Priority = "Annual"
	assert.Nil(t, Default.Submission(model.KindExtraFunds, extra))
}

func TestSubmission_UnknownKind(t *testing.T) {
	fields := Default.Submission("PAYROLL", validEmergency())
	assert.Contains(t, fields, "kind")
}

func TestSanitizeSubmission(t *testing.T) {
	s := validEmergency()
	s.Title = "  <b>Flood</b> Repair <script>alert(1)</script> "
	s.Description = "Ranger's cabin & road"

	clean := Default.SanitizeSubmission(s)
	assert.Equal(t, "Flood Repair", clean.Title)
	assert.Equal(t, "Ranger's cabin & road", clean.Description)
	assert.Equal(t, "  <b>Flood</b> Repair <script>alert(1)</script> ", s.Title)
}

func TestReview_NoteRules(t *testing.T) {
	r := Default.NormalizeReview(Review{Decision: "Denied", Note: "too vague"})
	assert.Equal(t, model.StatusRejected, r.Decision)
	assert.Equal(t, "too vague", r.Note)

	fields := Default.Review(model.KindEmergency, r)
	assert.Equal(t, "must be at least 10 characters", fields["note"])

	assert.Nil(t, Default.Review(model.KindFund, r))
	assert.Contains(t, Default.Review(model.KindFund, Review{Decision: "approved", Note: "   "}), "note")

	fields = Default.Review(model.KindExtraFunds, Review{Decision: "archived", Note: "Budget is not available"})
	assert.Equal(t, "must be one of: approved, rejected", fields["decision"])
}

func TestDonation(t *testing.T) {
	d, fields := Default.Donation(Donation{
		DonationType: "monthly",
		Amount:       decimal.RequireFromString("25.50"),
		ParkName:     "Acadia",
		FirstName:    " Jane ",
		LastName:     "Doe",
		Email:        "jane@example.com",
		Message:      "<i>Keep it wild</i>",
	})
	assert.Nil(t, fields)
	assert.Equal(t, "Jane", d.FirstName)
	assert.Equal(t, "Keep it wild", d.Message)

	_, fields = Default.Donation(Donation{DonationType: "weekly", Amount: decimal.Zero, ParkName: "Acadia", FirstName: "J", LastName: "D", Email: "nope"})
	assert.Contains(t, fields, "donation_type")
	assert.Contains(t, fields, "amount")
	assert.Equal(t, "must be a valid email address", fields["email"])
}
