package usecase

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harryfittheorem/CKOWebsite/internal/domain/entity"
)

// ContactInput is the contact part of an inbound request
type ContactInput struct {
	Email       string `json:"email" validate:"omitempty,email,max=255"`
	Phone       string `json:"phone" validate:"max=50"`
	FirstName   string `json:"firstName" validate:"max=100"`
	LastName    string `json:"lastName" validate:"max=100"`
	DateOfBirth string `json:"dateOfBirth" validate:"omitempty,datetime=2006-01-02"`
}

func (c ContactInput) toContact() entity.Contact {
	contact := entity.Contact{
		Email:     strings.TrimSpace(c.Email),
		Phone:     strings.TrimSpace(c.Phone),
		FirstName: strings.TrimSpace(c.FirstName),
		LastName:  strings.TrimSpace(c.LastName),
	}
	if dob, err := time.Parse(dateOfBirthLayout, strings.TrimSpace(c.DateOfBirth)); err == nil {
		contact.DateOfBirth = &dob
	}
	return contact
}

func (c ContactInput) sanitized() map[string]interface{} {
	return map[string]interface{}{
		"email":       c.Email,
		"phone":       c.Phone,
		"firstName":   c.FirstName,
		"lastName":    c.LastName,
		"dateOfBirth": c.DateOfBirth,
	}
}

// CustomerInput is the body of the resolve and search endpoints. At least
// one of email or phone is required.
type CustomerInput struct {
	ContactInput
}

// ChargeInput is the body of the charge endpoint. The customer is either
// already resolved (customerId with externalId) or resolved from the
// contact fields.
type ChargeInput struct {
	CustomerID     string `json:"customerId" validate:"omitempty,uuid"`
	ExternalID     string `json:"externalId" validate:"max=100"`
	OfferingID     string `json:"offeringId" validate:"required,max=100"`
	CardNumber     string `json:"cardNumber" validate:"required,card_number"`
	CardExpMonth   string `json:"cardExpMonth" validate:"required,exp_month"`
	CardExpYear    string `json:"cardExpYear" validate:"required,exp_year"`
	CardCVV        string `json:"cardCvv" validate:"required,cvv"`
	CardholderName string `json:"cardholderName" validate:"max=100"`
	BillingZip     string `json:"billingZip" validate:"max=20"`

	// Field names used by the existing checkout page
	ProspectID      string `json:"prospectId" validate:"-"`
	ClubReadyUserID string `json:"clubreadyUserId" validate:"-"`
	PackageID       string `json:"packageId" validate:"-"`

	ContactInput
}

// normalize folds the legacy field names into the current ones and trims
// user-typed values
func (in *ChargeInput) normalize() {
	if in.CustomerID == "" {
		in.CustomerID = in.ProspectID
	}
	if in.ExternalID == "" {
		in.ExternalID = in.ClubReadyUserID
	}
	if in.OfferingID == "" {
		in.OfferingID = in.PackageID
	}
	in.CustomerID = strings.TrimSpace(in.CustomerID)
	in.ExternalID = strings.TrimSpace(in.ExternalID)
	in.OfferingID = strings.TrimSpace(in.OfferingID)
	in.CardNumber = normalizeCardNumber(in.CardNumber)
	in.CardExpMonth = strings.TrimSpace(in.CardExpMonth)
	in.CardExpYear = strings.TrimSpace(in.CardExpYear)
	in.CardCVV = strings.TrimSpace(in.CardCVV)
	in.CardholderName = strings.TrimSpace(in.CardholderName)
	in.BillingZip = strings.TrimSpace(in.BillingZip)
}

// toRequest converts a validated input
func (in *ChargeInput) toRequest() entity.CheckoutRequest {
	req := entity.CheckoutRequest{
		ExternalID: in.ExternalID,
		OfferingID: in.OfferingID,
		Card: entity.Card{
			Number:     in.CardNumber,
			ExpMonth:   in.CardExpMonth,
			ExpYear:    in.CardExpYear,
			CVV:        in.CardCVV,
			HolderName: in.CardholderName,
			BillingZip: in.BillingZip,
		},
	}
	if id, err := uuid.Parse(in.CustomerID); err == nil {
		req.CustomerID = id
	}
	if !req.HasResolvedIdentity() {
		contact := in.ContactInput.toContact()
		req.Contact = &contact
	}
	return req
}

// sanitized is the copy of the request that may be stored
func (in *ChargeInput) sanitized() map[string]interface{} {
	out := in.ContactInput.sanitized()
	out["customerId"] = in.CustomerID
	out["externalId"] = in.ExternalID
	out["offeringId"] = in.OfferingID
	out["cardNumber"] = entity.Card{Number: in.CardNumber}.Masked()
	out["cardExpMonth"] = in.CardExpMonth
	out["cardExpYear"] = in.CardExpYear
	out["cardCvv"] = "***"
	out["cardholderName"] = in.CardholderName
	out["billingZip"] = in.BillingZip
	return out
}
