package errors

import (
	pkgerrors "github.com/harryfittheorem/CKOWebsite/pkg/errors"
)

// ConfigurationNotFoundMessage is the caller-facing text for a missing CRM
// configuration
const ConfigurationNotFoundMessage = "ClubReady configuration not found"

func NewInvalidInputError(message string) *pkgerrors.AppError {
	return pkgerrors.NewAppError(pkgerrors.ErrInvalidInput, message, nil)
}

func NewConfigurationMissingError(cause error) *pkgerrors.AppError {
	return pkgerrors.NewAppError(pkgerrors.ErrConfigurationMissing, ConfigurationNotFoundMessage, cause)
}

func NewCrmUnavailableError(cause error) *pkgerrors.AppError {
	return pkgerrors.NewAppError(pkgerrors.ErrCrmUnavailable, "ClubReady is unavailable", cause)
}

// NewCrmRejectedError carries the CRM's own message verbatim
func NewCrmRejectedError(message string) *pkgerrors.AppError {
	return pkgerrors.NewAppError(pkgerrors.ErrCrmRejected, message, nil)
}

func NewGatewayUnavailableError(cause error) *pkgerrors.AppError {
	return pkgerrors.NewAppError(pkgerrors.ErrGatewayUnavailable, "Payment service is unavailable", cause)
}

// NewGatewayRejectedError carries the CRM's own message verbatim
func NewGatewayRejectedError(message string) *pkgerrors.AppError {
	return pkgerrors.NewAppError(pkgerrors.ErrGatewayRejected, message, nil)
}

func NewUnexpectedResponseShapeError(message string) *pkgerrors.AppError {
	return pkgerrors.NewAppError(pkgerrors.ErrUnexpectedResponseShape, message, nil)
}

func NewOfferingNotFoundError() *pkgerrors.AppError {
	return pkgerrors.NewAppError(pkgerrors.ErrOfferingNotFound, "Package not found", nil)
}

func NewCustomerNotFoundError() *pkgerrors.AppError {
	return pkgerrors.NewAppError(pkgerrors.ErrCustomerNotFound, "Prospect not found", nil)
}

func NewTransactionAlreadyClosedError() *pkgerrors.AppError {
	return pkgerrors.NewAppError(pkgerrors.ErrTransactionAlreadyClosed, "Transaction is no longer pending", nil)
}

func NewPersistenceError(message string, cause error) *pkgerrors.AppError {
	return pkgerrors.NewAppError(pkgerrors.ErrPersistence, message, cause)
}

// auditedError marks an error whose outbound call is already in the audit
// trail
type auditedError struct {
	error
}

func (e *auditedError) Unwrap() error {
	return e.error
}

// MarkAudited records that err was written to the audit trail at its call
// site, so the request-level failure handler does not log it again
func MarkAudited(err error) error {
	if err == nil || IsAudited(err) {
		return err
	}
	return &auditedError{error: err}
}

// IsAudited reports whether err was marked with MarkAudited
func IsAudited(err error) bool {
	var a *auditedError
	return pkgerrors.As(err, &a)
}
