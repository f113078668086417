package validation

import (
	"fmt"
	"strings"

	"ecopark/internal/model"

	"github.com/shopspring/decimal"
)

// Tour is a public tour booking.
type Tour struct {
	ParkName        string          `json:"park_name" validate:"required,park"`
	TourName        string          `json:"tour_name" validate:"required,max=100"`
	Date            string          `json:"date" validate:"required,datetime=2006-01-02"`
	Time            string          `json:"time" validate:"required,datetime=15:04"`
	Guests          int             `json:"guests" validate:"min=1,max=20"`
	Amount          decimal.Decimal `json:"amount"`
	FirstName       string          `json:"first_name" validate:"required,max=100"`
	LastName        string          `json:"last_name" validate:"required,max=100"`
	Email           string          `json:"email" validate:"required,email"`
	Phone           string          `json:"phone" validate:"max=20"`
	SpecialRequests string          `json:"special_requests" validate:"max=2000"`
}

// Tour sanitises t and checks it. The amount must be the tour price for the
// party, so a client cannot pick its own price.
func (v *Validator) Tour(t Tour) (Tour, map[string]string) {
	t.ParkName = v.Sanitize(t.ParkName)
	t.TourName = v.Sanitize(t.TourName)
	t.Date = strings.TrimSpace(t.Date)
	t.Time = strings.TrimSpace(t.Time)
	t.FirstName = v.Sanitize(t.FirstName)
	t.LastName = v.Sanitize(t.LastName)
	t.Email = v.Sanitize(t.Email)
	t.Phone = v.Sanitize(t.Phone)
	t.SpecialRequests = v.Sanitize(t.SpecialRequests)
	t.Amount = RoundAmount(t.Amount)

	fields := v.Struct(t)
	if _, bad := fields["guests"]; !bad {
		if price := model.TourPrice(t.Guests); !t.Amount.Equal(price) {
			if fields == nil {
				fields = map[string]string{}
			}
			fields["amount"] = fmt.Sprintf("must be %s for %d guests", price.StringFixed(2), t.Guests)
		}
	}
	return t, fields
}

// ServiceApplication is a company's application to provide services.
type ServiceApplication struct {
	FirstName       string `json:"first_name" validate:"required,max=100"`
	LastName        string `json:"last_name" validate:"required,max=100"`
	Email           string `json:"email" validate:"required,email"`
	Phone           string `json:"phone" validate:"max=20"`
	CompanyType     string `json:"company_type" validate:"required,company_type"`
	ProvidedService string `json:"provided_service" validate:"omitempty,provided_service"`
	CompanyName     string `json:"company_name" validate:"required,max=200"`
	TaxID           string `json:"tax_id" validate:"required,max=50"`
}

// ServiceApplication sanitises a and checks it.
func (v *Validator) ServiceApplication(a ServiceApplication) (ServiceApplication, map[string]string) {
	a.FirstName = v.Sanitize(a.FirstName)
	a.LastName = v.Sanitize(a.LastName)
	a.Email = v.Sanitize(a.Email)
	a.Phone = v.Sanitize(a.Phone)
	a.CompanyType = v.Sanitize(a.CompanyType)
	a.ProvidedService = v.Sanitize(a.ProvidedService)
	a.CompanyName = v.Sanitize(a.CompanyName)
	a.TaxID = v.Sanitize(a.TaxID)
	return a, v.Struct(a)
}

type applicationReviewRules struct {
	Decision string `json:"decision" validate:"required,oneof=approved rejected"`
	Note     string `json:"note" validate:"max=2000"`
}

// ApplicationReview checks a finance decision on a service application. The
// note is optional.
func (v *Validator) ApplicationReview(r Review) map[string]string {
	r.Note = strings.TrimSpace(r.Note)
	return v.Struct(applicationReviewRules(r))
}
