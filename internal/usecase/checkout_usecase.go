package usecase

import (
	"context"
	"fmt"

	"github.com/harryfittheorem/CKOWebsite/internal/domain/entity"
	domainErrors "github.com/harryfittheorem/CKOWebsite/internal/domain/errors"
	"github.com/harryfittheorem/CKOWebsite/internal/domain/model"
	"github.com/harryfittheorem/CKOWebsite/internal/domain/provider"
	"github.com/harryfittheorem/CKOWebsite/internal/domain/redact"
	"github.com/harryfittheorem/CKOWebsite/internal/domain/repository"
	pkgerrors "github.com/harryfittheorem/CKOWebsite/pkg/errors"
	"go.uber.org/zap"
)

// Operation labels stored as the endpoint of request-level audit records
const (
	OperationCharge          = "checkout/charge"
	OperationResolveCustomer = "checkout/resolve_customer"
	OperationSearchCustomer  = "checkout/search_customer"
)

// Step labels for failures that happen outside an outbound call
const (
	StepLoadConfig       = "load_config"
	StepResolveIdentity  = "resolve_identity"
	StepOpenTransaction  = "open_transaction"
	StepCloseTransaction = "close_transaction"
)

// CheckoutUsecase is the entry point of every inbound checkout request
type CheckoutUsecase interface {
	// Charge validates the input, resolves the customer if needed and
	// charges the card exactly once
	Charge(ctx context.Context, in *ChargeInput) (*entity.CheckoutReceipt, error)
	// ResolveCustomer finds or creates the customer
	ResolveCustomer(ctx context.Context, in *CustomerInput) (*model.Prospect, error)
	// SearchCustomer only searches; nil means no match
	SearchCustomer(ctx context.Context, in *CustomerInput) (*model.Prospect, error)
}

// checkoutState is everything known about one request so far. It lives on
// the stack of a single call and is what the failure handler records.
type checkoutState struct {
	operation   string
	step        string
	apiURL      string
	request     map[string]interface{}
	secrets     []string
	transaction *model.Transaction
}

type checkoutUsecase struct {
	config    ConfigProvider
	resolver  IdentityResolver
	ledger    TransactionLedger
	crm       provider.CRMClient
	prospects repository.ProspectRepository
	audit     AuditLogger
	validator *InputValidator
	logger    *zap.Logger
}

// NewCheckoutUsecase creates the checkout orchestrator
func NewCheckoutUsecase(
	config ConfigProvider,
	resolver IdentityResolver,
	ledger TransactionLedger,
	crm provider.CRMClient,
	prospects repository.ProspectRepository,
	audit AuditLogger,
	validator *InputValidator,
	logger *zap.Logger,
) CheckoutUsecase {
	return &checkoutUsecase{
		config:    config,
		resolver:  resolver,
		ledger:    ledger,
		crm:       crm,
		prospects: prospects,
		audit:     audit,
		validator: validator,
		logger:    logger,
	}
}

func (u *checkoutUsecase) Charge(ctx context.Context, in *ChargeInput) (receipt *entity.CheckoutReceipt, err error) {
	in.normalize()
	if err := u.validator.Struct(in); err != nil {
		return nil, err
	}
	req := in.toRequest()

	st := &checkoutState{
		operation: OperationCharge,
		request:   in.sanitized(),
		secrets:   []string{req.Card.Number},
	}
	defer recoverCheckout(ctx, u, st, &receipt, &err)

	st.step = StepLoadConfig
	creds, err := u.config.GetConfig(ctx)
	if err != nil {
		return nil, u.fail(ctx, st, err)
	}
	st.secrets = append(st.secrets, creds.APIKey)

	st.step = StepResolveIdentity
	prospect, err := u.resolveIdentity(ctx, creds, req)
	if err != nil {
		return nil, u.fail(ctx, st, err)
	}

	st.step = StepOpenTransaction
	tx, err := u.ledger.Open(ctx, prospect.ID, req.OfferingID)
	if err != nil {
		return nil, u.fail(ctx, st, err)
	}
	st.transaction = tx

	// From here on the request context is not used: a browser that gives
	// up must not leave a charged card with a pending ledger row.
	chargeCtx := context.WithoutCancel(ctx)

	st.step = provider.StepProcessPayment
	payment, call, chargeErr := u.crm.MakePayment(chargeCtx, creds, &provider.PaymentRequest{
		UserID: prospect.ClubReadyUserID,
		Amount: tx.Amount,
		Card:   req.Card,
	})
	u.audit.Record(chargeCtx, EntryFromCall(call, chargeErr, &tx.ID))
	if call != nil {
		st.apiURL = call.URL
	}

	st.step = StepCloseTransaction
	if chargeErr != nil {
		closeErr := u.ledger.Close(chargeCtx, tx.ID, Failed{
			ErrorMessage: pkgerrors.MessageOf(chargeErr),
			Metadata:     failureMetadata(call, chargeErr, st.secrets),
		})
		if closeErr != nil {
			// The charge error is what the caller sees.
			u.record(chargeCtx, st, closeErr)
		}
		return nil, u.fail(chargeCtx, st, domainErrors.MarkAudited(chargeErr))
	}

	err = u.ledger.Close(chargeCtx, tx.ID, Completed{
		ExternalPaymentID: payment.PaymentID,
		LastFour:          req.Card.LastFour(),
		Metadata: model.JSONB{
			"clubready_payment_id": payment.PaymentID,
			"package_name":         tx.Package.Name,
		},
	})
	if err != nil {
		return nil, u.fail(chargeCtx, st, err)
	}

	u.logger.Info("Checkout completed",
		zap.String("transaction_id", tx.ID.String()),
		zap.String("clubready_payment_id", payment.PaymentID),
		zap.String("amount", tx.Amount.StringFixed(2)))

	return &entity.CheckoutReceipt{
		TransactionID:     tx.ID,
		ExternalPaymentID: payment.PaymentID,
		Amount:            tx.Amount,
		OfferingName:      tx.Package.Name,
	}, nil
}

// resolveIdentity reuses an identity resolved earlier in the session, or
// resolves the contact details
func (u *checkoutUsecase) resolveIdentity(ctx context.Context, creds entity.ClubReadyCredentials, req entity.CheckoutRequest) (*model.Prospect, error) {
	if !req.HasResolvedIdentity() {
		return u.resolver.Resolve(ctx, creds, *req.Contact)
	}

	prospect, err := u.prospects.GetByID(ctx, req.CustomerID)
	if err != nil {
		return nil, domainErrors.NewPersistenceError("Failed to load prospect", err)
	}
	if prospect == nil || prospect.ClubReadyUserID != req.ExternalID {
		u.logger.Warn("Supplied customer identity does not match a prospect",
			zap.String("prospect_id", req.CustomerID.String()),
			zap.String("clubready_user_id", req.ExternalID))
		return nil, domainErrors.NewCustomerNotFoundError()
	}
	return prospect, nil
}

func (u *checkoutUsecase) ResolveCustomer(ctx context.Context, in *CustomerInput) (*model.Prospect, error) {
	return u.customerLookup(ctx, OperationResolveCustomer, in, u.resolver.Resolve)
}

func (u *checkoutUsecase) SearchCustomer(ctx context.Context, in *CustomerInput) (*model.Prospect, error) {
	return u.customerLookup(ctx, OperationSearchCustomer, in, u.resolver.Find)
}

type lookupFunc func(ctx context.Context, creds entity.ClubReadyCredentials, contact entity.Contact) (*model.Prospect, error)

func (u *checkoutUsecase) customerLookup(ctx context.Context, operation string, in *CustomerInput, lookup lookupFunc) (prospect *model.Prospect, err error) {
	if err := u.validator.Struct(in); err != nil {
		return nil, err
	}

	st := &checkoutState{
		operation: operation,
		request:   in.sanitized(),
	}
	defer recoverCheckout(ctx, u, st, &prospect, &err)

	st.step = StepLoadConfig
	creds, err := u.config.GetConfig(ctx)
	if err != nil {
		return nil, u.fail(ctx, st, err)
	}
	st.secrets = []string{creds.APIKey}

	st.step = StepResolveIdentity
	prospect, err = lookup(ctx, creds, in.toContact())
	if err != nil {
		return nil, u.fail(ctx, st, err)
	}
	return prospect, nil
}

// fail is the single request-level failure handler. It logs err and, unless
// the failing call already wrote its own audit record or the caller sent
// bad input, records what is known about the request.
func (u *checkoutUsecase) fail(ctx context.Context, st *checkoutState, err error) error {
	if domainErrors.IsAudited(err) || pkgerrors.HasCode(err, pkgerrors.ErrInvalidInput) {
		u.logFailure(st, err)
		return err
	}
	u.record(ctx, st, err)
	return domainErrors.MarkAudited(err)
}

// record logs err and writes an audit record for it
func (u *checkoutUsecase) record(ctx context.Context, st *checkoutState, err error) {
	u.logFailure(st, err)

	entry := AuditEntry{
		Endpoint:    st.operation,
		Step:        st.step,
		APIURL:      st.apiURL,
		RequestBody: st.request,
		Err:         err,
		Secrets:     st.secrets,
	}
	if st.transaction != nil {
		id := st.transaction.ID
		entry.TransactionID = &id
	}
	u.audit.Record(ctx, entry)
}

func (u *checkoutUsecase) logFailure(st *checkoutState, err error) {
	fields := []zap.Field{
		zap.String("operation", st.operation),
		zap.String("step", st.step),
	}
	if st.transaction != nil {
		fields = append(fields, zap.String("transaction_id", st.transaction.ID.String()))
	}
	pkgerrors.LogError(u.logger, err, "Checkout request failed", fields...)
}

// recoverCheckout turns a panic into an INTERNAL error that is audited at the
// step that was running. An open transaction stays pending since the
// charge outcome is unknown.
func recoverCheckout[T any](ctx context.Context, u *checkoutUsecase, st *checkoutState, result **T, err *error) {
	r := recover()
	if r == nil {
		return
	}
	u.logger.Error("Checkout request panicked",
		zap.String("operation", st.operation),
		zap.String("step", st.step),
		zap.Any("panic", r),
		zap.Stack("stack"))
	*result = nil
	*err = u.fail(context.WithoutCancel(ctx), st,
		pkgerrors.NewAppError(pkgerrors.ErrInternal, "Internal server error", fmt.Errorf("panic: %v", r)))
}

// failureMetadata keeps the redacted CRM response of a failed charge. A 2xx
// reply that could not be read is flagged since the card may have been
// charged.
func failureMetadata(call *provider.CallResult, chargeErr error, secrets []string) model.JSONB {
	if call == nil || call.ResponseBody == nil {
		return nil
	}
	metadata := model.JSONB{
		"clubready_http_status": call.HTTPStatus,
		"clubready_response":    sanitize(redact.NewScrubber(secrets...), call.ResponseBody),
	}
	if pkgerrors.HasCode(chargeErr, pkgerrors.ErrUnexpectedResponseShape) {
		metadata["needs_reconciliation"] = true
	}
	return metadata
}
