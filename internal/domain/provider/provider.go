package provider

import (
	"context"
	"time"

	"github.com/harryfittheorem/CKOWebsite/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Audit trail step labels
const (
	StepSearchProspect = "search_prospect"
	StepCreateProspect = "create_prospect"
	StepProcessPayment = "process_payment"
)

// CRMClient is the ClubReady integration used by the checkout flow.
//
// Every method returns a non-nil CallResult describing the outbound call,
// also when an error is returned, so callers can write the audit trail on
// every branch.
type CRMClient interface {
	// FindProspect searches by email and/or phone. A nil record with a nil
	// error means the CRM answered and nobody matched.
	FindProspect(ctx context.Context, creds entity.ClubReadyCredentials, contact entity.Contact) (*ProspectRecord, *CallResult, error)

	// CreateProspect creates a new CRM user from the full contact payload
	CreateProspect(ctx context.Context, creds entity.ClubReadyCredentials, contact entity.Contact) (*ProspectRecord, *CallResult, error)

	// MakePayment charges the card once. It is never retried.
	MakePayment(ctx context.Context, creds entity.ClubReadyCredentials, req *PaymentRequest) (*PaymentResult, *CallResult, error)
}

// ProspectRecord is a CRM user as returned by search or create
type ProspectRecord struct {
	UserID    string
	Email     string
	Phone     string
	FirstName string
	LastName  string
	Raw       map[string]interface{}
}

// PaymentRequest is a single charge against a CRM member
type PaymentRequest struct {
	UserID string
	Amount decimal.Decimal
	Card   entity.Card
}

// PaymentResult is a successful charge
type PaymentResult struct {
	PaymentID string
	Raw       interface{}
}

// CallResult captures one outbound call for the audit trail. RequestBody
// is the sanitized parallel copy of what was sent, never the real payload.
type CallResult struct {
	Endpoint       string
	Step           string
	Method         string
	URL            string
	RequestHeaders map[string]string
	RequestBody    interface{}
	ResponseBody   interface{}
	HTTPStatus     int
	Duration       time.Duration
	RequestID      string

	// Secrets are raw values sent on the wire that must not appear in any
	// stored record (API key, full card number).
	Secrets []string
}
