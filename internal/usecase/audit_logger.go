package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/harryfittheorem/CKOWebsite/internal/domain/model"
	"github.com/harryfittheorem/CKOWebsite/internal/domain/provider"
	"github.com/harryfittheorem/CKOWebsite/internal/domain/redact"
	"github.com/harryfittheorem/CKOWebsite/internal/domain/repository"
	pkgerrors "github.com/harryfittheorem/CKOWebsite/pkg/errors"
	"go.uber.org/zap"
)

// NotApplicableURL is stored as api_url when no outbound call was made
const NotApplicableURL = "N/A"

// auditWriteTimeout bounds a single audit insert. The write runs detached
// from the request context so a disconnecting browser cannot drop it.
const auditWriteTimeout = 5 * time.Second

// AuditEntry is one record for the audit trail, before redaction
type AuditEntry struct {
	Endpoint       string
	Step           string
	APIURL         string
	RequestHeaders map[string]string
	RequestBody    interface{}
	ResponseBody   interface{}
	HTTPStatus     int
	Err            error
	Duration       time.Duration
	RequestID      string
	TransactionID  *uuid.UUID
	// Secrets are raw values to scrub from every stored string
	Secrets []string
}

// EntryFromCall builds an audit entry from an outbound call and its outcome
func EntryFromCall(call *provider.CallResult, err error, transactionID *uuid.UUID) AuditEntry {
	if call == nil {
		return AuditEntry{Err: err, TransactionID: transactionID, APIURL: NotApplicableURL}
	}
	return AuditEntry{
		Endpoint:       call.Endpoint,
		Step:           call.Step,
		APIURL:         call.URL,
		RequestHeaders: call.RequestHeaders,
		RequestBody:    call.RequestBody,
		ResponseBody:   call.ResponseBody,
		HTTPStatus:     call.HTTPStatus,
		Err:            err,
		Duration:       call.Duration,
		RequestID:      call.RequestID,
		TransactionID:  transactionID,
		Secrets:        call.Secrets,
	}
}

// AuditLogger writes the append-only payment_logs trail. Record never
// fails; persistence problems are reported to the process log only.
type AuditLogger interface {
	Record(ctx context.Context, entry AuditEntry)
}

type auditLogger struct {
	repo   repository.PaymentLogRepository
	logger *zap.Logger
}

// NewAuditLogger creates an audit logger
func NewAuditLogger(repo repository.PaymentLogRepository, logger *zap.Logger) AuditLogger {
	return &auditLogger{repo: repo, logger: logger}
}

func (a *auditLogger) Record(ctx context.Context, entry AuditEntry) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("Audit record panicked",
				zap.String("step", entry.Step),
				zap.Any("panic", r))
		}
	}()

	record := BuildPaymentLog(entry)

	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), auditWriteTimeout)
	defer cancel()

	if err := a.repo.Create(writeCtx, record); err != nil {
		a.logger.Error("Failed to write audit record",
			zap.String("endpoint", record.Endpoint),
			zap.String("step", record.Step),
			zap.Int("http_status", record.HTTPStatus),
			zap.Error(err))
		return
	}

	a.logger.Debug("Audit record written",
		zap.Int64("id", record.ID),
		zap.String("step", record.Step))
}

// BuildPaymentLog redacts entry into the stored row shape
func BuildPaymentLog(entry AuditEntry) *model.PaymentLog {
	scrubber := redact.NewScrubber(entry.Secrets...)

	apiURL := entry.APIURL
	if apiURL == "" {
		apiURL = NotApplicableURL
	}
	apiURL = scrubber.String(redact.URL(apiURL))

	var headers model.JSONB
	if entry.RequestHeaders != nil {
		clean := scrubber.Value(redact.Headers(entry.RequestHeaders)).(map[string]string)
		headers = make(model.JSONB, len(clean))
		for k, v := range clean {
			headers[k] = v
		}
	}

	requestBody := sanitize(scrubber, entry.RequestBody)

	record := &model.PaymentLog{
		Endpoint:       scrubber.String(entry.Endpoint),
		Step:           entry.Step,
		APIURL:         apiURL,
		RequestHeaders: headers,
		RequestBody:    model.NewJSONValue(requestBody),
		RequestData:    model.NewJSONValue(requestBody),
		ResponseData:   model.NewJSONValue(sanitize(scrubber, entry.ResponseBody)),
		HTTPStatus:     entry.HTTPStatus,
		StatusCode:     entry.HTTPStatus,
		DurationMs:     entry.Duration.Milliseconds(),
		TransactionID:  entry.TransactionID,
	}

	if entry.RequestID != "" {
		requestID := entry.RequestID
		record.ClubReadyRequestID = &requestID
	}

	if entry.Err != nil {
		message := scrubber.String(pkgerrors.MessageOf(entry.Err))
		record.ErrorMessage = &message
		record.ErrorDetails = model.NewJSONValue(sanitize(scrubber, map[string]interface{}{
			"code":  pkgerrors.CodeOf(entry.Err),
			"error": entry.Err.Error(),
		}))
	}

	return record
}

func sanitize(scrubber *redact.Scrubber, v interface{}) interface{} {
	if v == nil {
		return nil
	}
	return scrubber.Value(redact.Value(v))
}
