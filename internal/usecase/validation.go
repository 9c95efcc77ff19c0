package usecase

import (
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	domainErrors "github.com/harryfittheorem/CKOWebsite/internal/domain/errors"
	pkgerrors "github.com/harryfittheorem/CKOWebsite/pkg/errors"
)

const dateOfBirthLayout = "2006-01-02"

// Caller-facing validation messages
const (
	msgMissingPayment = "Missing required payment information"
	msgCardNumber     = "Please enter a valid card number"
	msgExpMonth       = "Please enter a valid expiration month (01-12)"
	msgExpYear        = "Please enter a valid expiration year"
	msgCVV            = "Please enter a valid CVV"
	msgEmailOrPhone   = "Email or phone is required"
	msgEmail          = "Please enter a valid email address"
	msgDateOfBirth    = "Date of birth must be YYYY-MM-DD"
	msgCustomerID     = "Invalid customer id"
	msgInvalidRequest = "Invalid request"
)

// InputValidator checks inbound requests before anything external happens
type InputValidator struct {
	validate *validator.Validate
	now      func() time.Time
}

// NewInputValidator creates a validator with the checkout rules registered
func NewInputValidator() *InputValidator {
	return newInputValidator(time.Now)
}

func newInputValidator(now func() time.Time) *InputValidator {
	iv := &InputValidator{validate: validator.New(), now: now}

	iv.validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	_ = iv.validate.RegisterValidation("card_number", validateCardNumber)
	_ = iv.validate.RegisterValidation("exp_month", validateExpMonth)
	_ = iv.validate.RegisterValidation("exp_year", iv.validateExpYear)
	_ = iv.validate.RegisterValidation("cvv", validateCVV)
	iv.validate.RegisterStructValidation(validateCustomerLookup, CustomerInput{})
	iv.validate.RegisterStructValidation(validateChargeIdentity, ChargeInput{})

	return iv
}

// Struct validates s and returns an INVALID_INPUT error carrying the
// message of the first failed rule
func (iv *InputValidator) Struct(s interface{}) error {
	err := iv.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !pkgerrors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return domainErrors.NewInvalidInputError(msgInvalidRequest)
	}
	return domainErrors.NewInvalidInputError(messageFor(fieldErrs[0]))
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "card_number":
		return msgCardNumber
	case "exp_month":
		return msgExpMonth
	case "exp_year":
		return msgExpYear
	case "cvv":
		return msgCVV
	case "email":
		return msgEmail
	case "datetime":
		return msgDateOfBirth
	case "uuid":
		return msgCustomerID
	case "lookup":
		return msgEmailOrPhone
	case "required":
		if fe.Field() == "offeringId" || strings.HasPrefix(fe.Field(), "card") {
			return msgMissingPayment
		}
		return fe.Field() + " is required"
	case "max":
		return fe.Field() + " is too long"
	default:
		return msgInvalidRequest
	}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// normalizeCardNumber drops the spaces and dashes people type
func normalizeCardNumber(s string) string {
	return strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(s))
}

func validateCardNumber(fl validator.FieldLevel) bool {
	n := normalizeCardNumber(fl.Field().String())
	return len(n) >= 13 && len(n) <= 19 && isDigits(n)
}

func validateExpMonth(fl validator.FieldLevel) bool {
	s := strings.TrimSpace(fl.Field().String())
	if len(s) > 2 || !isDigits(s) {
		return false
	}
	m, _ := strconv.Atoi(s)
	return m >= 1 && m <= 12
}

func (iv *InputValidator) validateExpYear(fl validator.FieldLevel) bool {
	s := strings.TrimSpace(fl.Field().String())
	if len(s) != 4 || !isDigits(s) {
		return false
	}
	y, _ := strconv.Atoi(s)
	return y >= iv.now().Year()
}

func validateCVV(fl validator.FieldLevel) bool {
	s := strings.TrimSpace(fl.Field().String())
	return len(s) >= 3 && len(s) <= 4 && isDigits(s)
}

func validateCustomerLookup(sl validator.StructLevel) {
	in := sl.Current().Interface().(CustomerInput)
	if !in.toContact().HasLookupKey() {
		sl.ReportError(in.Email, "email", "Email", "lookup", "")
	}
}

// validateChargeIdentity requires either an already resolved identity or
// contact details to resolve
func validateChargeIdentity(sl validator.StructLevel) {
	in := sl.Current().Interface().(ChargeInput)
	if in.CustomerID != "" && in.ExternalID != "" {
		return
	}
	if !in.ContactInput.toContact().HasLookupKey() {
		sl.ReportError(in.Email, "email", "Email", "lookup", "")
	}
}
