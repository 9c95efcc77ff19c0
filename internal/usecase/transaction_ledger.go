package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	domainErrors "github.com/harryfittheorem/CKOWebsite/internal/domain/errors"
	"github.com/harryfittheorem/CKOWebsite/internal/domain/model"
	"github.com/harryfittheorem/CKOWebsite/internal/domain/repository"
	pkgerrors "github.com/harryfittheorem/CKOWebsite/pkg/errors"
	"go.uber.org/zap"
)

// Outcome is the terminal result of a charge: Completed or Failed
type Outcome interface {
	status() model.TransactionStatus
}

// Completed closes a transaction as paid
type Completed struct {
	ExternalPaymentID string
	LastFour          string
	Metadata          model.JSONB
}

func (Completed) status() model.TransactionStatus { return model.TransactionStatusCompleted }

// Failed closes a transaction as failed. Metadata is stored with the row
// when set.
type Failed struct {
	ErrorMessage string
	Metadata     model.JSONB
}

func (Failed) status() model.TransactionStatus { return model.TransactionStatusFailed }

// TransactionLedger owns the pending → completed | failed lifecycle
type TransactionLedger interface {
	// Open inserts a pending transaction priced from the package. The
	// returned transaction carries its Prospect and Package.
	Open(ctx context.Context, prospectID uuid.UUID, clubReadyPackageID string) (*model.Transaction, error)
	// Close applies exactly one terminal transition
	Close(ctx context.Context, id uuid.UUID, outcome Outcome) error
}

type transactionLedger struct {
	transactions repository.TransactionRepository
	packages     repository.PackageRepository
	prospects    repository.ProspectRepository
	logger       *zap.Logger
	now          func() time.Time
}

// NewTransactionLedger creates a transaction ledger
func NewTransactionLedger(
	transactions repository.TransactionRepository,
	packages repository.PackageRepository,
	prospects repository.ProspectRepository,
	logger *zap.Logger,
) TransactionLedger {
	return &transactionLedger{
		transactions: transactions,
		packages:     packages,
		prospects:    prospects,
		logger:       logger,
		now:          time.Now,
	}
}

func (l *transactionLedger) Open(ctx context.Context, prospectID uuid.UUID, clubReadyPackageID string) (*model.Transaction, error) {
	pkg, err := l.packages.GetByClubReadyPackageID(ctx, clubReadyPackageID)
	if err != nil {
		return nil, domainErrors.NewPersistenceError("Failed to load package", err)
	}
	if pkg == nil {
		return nil, domainErrors.NewOfferingNotFoundError()
	}

	prospect, err := l.prospects.GetByID(ctx, prospectID)
	if err != nil {
		return nil, domainErrors.NewPersistenceError("Failed to load prospect", err)
	}
	if prospect == nil {
		return nil, domainErrors.NewCustomerNotFoundError()
	}

	tx := &model.Transaction{
		ProspectID:    prospect.ID,
		PackageID:     pkg.ID,
		Amount:        pkg.Price,
		Status:        model.TransactionStatusPending,
		PaymentMethod: model.PaymentMethodCreditCard,
	}
	if err := l.transactions.Create(ctx, tx); err != nil {
		return nil, domainErrors.NewPersistenceError("Failed to create transaction", err)
	}
	tx.Prospect = prospect
	tx.Package = pkg

	l.logger.Info("Transaction opened",
		zap.String("transaction_id", tx.ID.String()),
		zap.String("prospect_id", prospect.ID.String()),
		zap.String("package_id", pkg.ClubReadyPackageID),
		zap.String("amount", tx.Amount.StringFixed(2)))

	return tx, nil
}

func (l *transactionLedger) Close(ctx context.Context, id uuid.UUID, outcome Outcome) error {
	var (
		updated bool
		err     error
	)

	switch o := outcome.(type) {
	case Completed:
		updated, err = l.transactions.Complete(ctx, id, repository.TransactionCompletion{
			ClubReadyTransactionID: o.ExternalPaymentID,
			LastFour:               o.LastFour,
			Metadata:               o.Metadata,
			CompletedAt:            l.now(),
		})
	case Failed:
		updated, err = l.transactions.Fail(ctx, id, repository.TransactionFailure{
			ErrorMessage: o.ErrorMessage,
			Metadata:     o.Metadata,
		})
	default:
		return pkgerrors.NewAppError(pkgerrors.ErrInternal, "unknown transaction outcome", nil)
	}

	if err != nil {
		return domainErrors.NewPersistenceError("Failed to update transaction", err)
	}
	if !updated {
		l.logger.Error("Transaction close attempted on a closed transaction",
			zap.String("transaction_id", id.String()),
			zap.String("outcome", string(outcome.status())))
		return domainErrors.NewTransactionAlreadyClosedError()
	}

	l.logger.Info("Transaction closed",
		zap.String("transaction_id", id.String()),
		zap.String("status", string(outcome.status())))

	return nil
}
