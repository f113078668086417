// Package validation checks request submissions, review decisions and
// donations. Errors come back as a map of JSON field name to message so the
// caller can point at the offending field.
package validation

import (
	"errors"
	"fmt"
	"html"
	"reflect"
	"strings"

	"ecopark/internal/model"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/shopspring/decimal"
)

// enumTags maps custom validation tags to the values they accept.
var enumTags = map[string][]string{
	"park":              model.Parks,
	"fund_category":     model.FundCategories,
	"fund_urgency":      model.FundUrgencies,
	"emergency_type":    model.EmergencyTypes,
	"timeframe":         model.EmergencyTimeframes,
	"extra_category":    model.ExtraFundsCategories,
	"expected_duration": model.ExtraFundsDurations,
	"donation_type":     model.DonationTypes,
	"company_type":      model.CompanyTypes,
	"provided_service":  model.ProvidedServices,
}

// Validator wraps a configured validator and an HTML sanitising policy.
type Validator struct {
	validate *validator.Validate
	policy   *bluemonday.Policy
}

// Default is shared by the server and the client.
var Default = New()

func New() *Validator {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Amounts are validated as numbers so gt/gte apply.
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	for tag, values := range enumTags {
		allowed := values
		_ = v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return model.Contains(allowed, fl.Field().String())
		})
	}

	return &Validator{
		validate: v,
		policy:   bluemonday.StrictPolicy(),
	}
}

// Struct validates s and returns nil when it is valid.
func (v *Validator) Struct(s interface{}) map[string]string {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"_": err.Error()}
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		name := fe.Field()
		if _, seen := fields[name]; seen {
			continue
		}
		fields[name] = message(fe)
	}
	return fields
}

// Sanitize strips markup and surrounding whitespace from free text.
func (v *Validator) Sanitize(s string) string {
	return strings.TrimSpace(html.UnescapeString(v.policy.Sanitize(s)))
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if isNumber(fe.Kind()) {
			return fmt.Sprintf("must be at least %s", fe.Param())
		}
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		if isNumber(fe.Kind()) {
			return fmt.Sprintf("must be at most %s", fe.Param())
		}
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "datetime":
		return "must match the format " + fe.Param()
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "email":
		return "must be a valid email address"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	}
	if values, ok := enumTags[fe.Tag()]; ok {
		return "must be one of: " + strings.Join(values, ", ")
	}
	return "is invalid"
}

func isNumber(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
