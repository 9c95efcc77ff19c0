package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Contact is what the browser knows about the person checking out
type Contact struct {
	Email       string
	Phone       string
	FirstName   string
	LastName    string
	DateOfBirth *time.Time
}

// HasLookupKey reports whether the contact can be searched for in the CRM
func (c Contact) HasLookupKey() bool {
	return strings.TrimSpace(c.Email) != "" || strings.TrimSpace(c.Phone) != ""
}

// Card holds raw card data for the lifetime of one request. It is never
// persisted and never logged; use Masked and LastFour for anything durable.
type Card struct {
	Number     string
	ExpMonth   string
	ExpYear    string
	CVV        string
	HolderName string
	BillingZip string
}

// LastFour returns the last four digits of the card number
func (c Card) LastFour() string {
	if len(c.Number) <= 4 {
		return c.Number
	}
	return c.Number[len(c.Number)-4:]
}

// Masked returns the card number as ****1234
func (c Card) Masked() string {
	return "****" + c.LastFour()
}

// ClubReadyCredentials are the CRM settings needed for one request
type ClubReadyCredentials struct {
	APIKey  string
	StoreID string
	ChainID string
	BaseURL string
}

// Complete reports whether every field is set
func (c ClubReadyCredentials) Complete() bool {
	return c.APIKey != "" && c.StoreID != "" && c.ChainID != "" && c.BaseURL != ""
}

// CheckoutRequest is the validated input of one charge
type CheckoutRequest struct {
	// CustomerID and ExternalID are set when the browser already resolved
	// the customer earlier in the session; otherwise Contact is resolved.
	CustomerID uuid.UUID
	ExternalID string
	Contact    *Contact
	OfferingID string
	Card       Card
}

// HasResolvedIdentity reports whether identity resolution can be skipped
func (r CheckoutRequest) HasResolvedIdentity() bool {
	return r.CustomerID != uuid.Nil && r.ExternalID != ""
}

// CheckoutReceipt is returned after a successful charge
type CheckoutReceipt struct {
	TransactionID     uuid.UUID
	ExternalPaymentID string
	Amount            decimal.Decimal
	OfferingName      string
}
