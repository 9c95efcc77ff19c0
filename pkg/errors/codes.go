package errors

// Generic error codes
const (
	ErrInternal        = "INTERNAL"
	ErrNotFound        = "NOT_FOUND"
	ErrInvalidArgument = "INVALID_ARGUMENT"
	ErrUnauthenticated = "UNAUTHENTICATED"
	ErrUnauthorized    = "UNAUTHORIZED"
	ErrTimeout         = "TIMEOUT"
)

// Checkout error codes. Everything except ErrInvalidInput surfaces as a 500
// to the browser; the code only matters for logs and the audit trail.
const (
	ErrInvalidInput             = "INVALID_INPUT"
	ErrConfigurationMissing     = "CONFIGURATION_MISSING"
	ErrCrmUnavailable           = "CRM_UNAVAILABLE"
	ErrCrmRejected              = "CRM_REJECTED"
	ErrGatewayUnavailable       = "GATEWAY_UNAVAILABLE"
	ErrGatewayRejected          = "GATEWAY_REJECTED"
	ErrUnexpectedResponseShape  = "UNEXPECTED_RESPONSE_SHAPE"
	ErrOfferingNotFound         = "OFFERING_NOT_FOUND"
	ErrCustomerNotFound         = "CUSTOMER_NOT_FOUND"
	ErrTransactionAlreadyClosed = "TRANSACTION_ALREADY_CLOSED"
	ErrPersistence              = "PERSISTENCE_ERROR"
)
