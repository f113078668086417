package validation

import (
	"strings"

	"ecopark/internal/model"

	"github.com/shopspring/decimal"
)

// Submission holds the fields of a new funding request.
type Submission struct {
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	Category      string          `json:"category"`
	ParkName      string          `json:"park_name"`
	Priority      string          `json:"priority"`
	Justification string          `json:"justification"`
}

type fundRules struct {
	Title         string          `json:"title" validate:"required,max=200"`
	Description   string          `json:"description" validate:"required"`
	Amount        decimal.Decimal `json:"amount" validate:"gt=0,lte=9999999999999.99"`
	Category      string          `json:"category" validate:"required,fund_category"`
	ParkName      string          `json:"park_name" validate:"required,park"`
	Priority      string          `json:"priority" validate:"required,fund_urgency"`
	Justification string          `json:"justification"`
}

type emergencyRules struct {
	Title         string          `json:"title" validate:"required,min=5,max=200"`
	Description   string          `json:"description" validate:"required,min=10"`
	Amount        decimal.Decimal `json:"amount" validate:"gt=0,lte=9999999999999.99"`
	Category      string          `json:"category" validate:"required,emergency_type"`
	ParkName      string          `json:"park_name" validate:"required,park"`
	Priority      string          `json:"priority" validate:"required,timeframe"`
	Justification string          `json:"justification" validate:"required,min=20"`
}

type extraFundsRules struct {
	Title         string          `json:"title" validate:"required,min=5,max=200"`
	Description   string          `json:"description" validate:"required,min=10"`
	Amount        decimal.Decimal `json:"amount" validate:"gt=0,lte=9999999999999.99"`
	Category      string          `json:"category" validate:"required,extra_category"`
	ParkName      string          `json:"park_name" validate:"required,park"`
	Priority      string          `json:"priority" validate:"required,expected_duration"`
	Justification string          `json:"justification" validate:"required,min=20"`
}

// RoundAmount rounds to cents, the precision amounts are stored with.
func RoundAmount(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// SanitizeSubmission returns s with every text field cleaned and the amount
// rounded to cents.
func (v *Validator) SanitizeSubmission(s Submission) Submission {
	s.Title = v.Sanitize(s.Title)
	s.Description = v.Sanitize(s.Description)
	s.Category = v.Sanitize(s.Category)
	s.ParkName = v.Sanitize(s.ParkName)
	s.Priority = v.Sanitize(s.Priority)
	s.Justification = v.Sanitize(s.Justification)
	s.Amount = RoundAmount(s.Amount)
	return s
}

// Submission checks s against the rules of kind.
func (v *Validator) Submission(kind string, s Submission) map[string]string {
	switch kind {
	case model.KindFund:
		return v.Struct(fundRules(s))
	case model.KindEmergency:
		return v.Struct(emergencyRules(s))
	case model.KindExtraFunds:
		return v.Struct(extraFundsRules(s))
	}
	return map[string]string{"kind": "is not a request kind"}
}

// Review is a reviewer's decision on a pending request.
type Review struct {
	Decision string `json:"decision"`
	Note     string `json:"note"`
}

type fundReviewRules struct {
	Decision string `json:"decision" validate:"required,oneof=approved rejected"`
	Note     string `json:"note" validate:"required"`
}

type strictReviewRules struct {
	Decision string `json:"decision" validate:"required,oneof=approved rejected"`
	Note     string `json:"note" validate:"required,min=10"`
}

// NormalizeReview folds decision aliases. The note is kept as written.
func (v *Validator) NormalizeReview(r Review) Review {
	r.Decision = model.NormalizeStatus(r.Decision)
	return r
}

// Review checks r against the rules of kind. Emergency and extra-funds
// decisions need a note of at least ten characters, not counting surrounding
// whitespace.
func (v *Validator) Review(kind string, r Review) map[string]string {
	r.Note = strings.TrimSpace(r.Note)
	if kind == model.KindFund {
		return v.Struct(fundReviewRules(r))
	}
	return v.Struct(strictReviewRules(r))
}

// Donation is a public gift submission.
type Donation struct {
	DonationType string          `json:"donation_type" validate:"required,donation_type"`
	Amount       decimal.Decimal `json:"amount" validate:"gt=0,lte=9999999999999.99"`
	ParkName     string          `json:"park_name" validate:"required,park"`
	FirstName    string          `json:"first_name" validate:"required,max=100"`
	LastName     string          `json:"last_name" validate:"required,max=100"`
	Email        string          `json:"email" validate:"required,email"`
	Message      string          `json:"message" validate:"max=2000"`
}

// Donation sanitises d, rounds its amount and checks it.
func (v *Validator) Donation(d Donation) (Donation, map[string]string) {
	d.DonationType = v.Sanitize(d.DonationType)
	d.ParkName = v.Sanitize(d.ParkName)
	d.FirstName = v.Sanitize(d.FirstName)
	d.LastName = v.Sanitize(d.LastName)
	d.Email = v.Sanitize(d.Email)
	d.Message = v.Sanitize(d.Message)
	d.Amount = RoundAmount(d.Amount)
	return d, v.Struct(d)
}
