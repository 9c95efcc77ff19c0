package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/harryfittheorem/CKOWebsite/internal/domain/model"
)

// ProspectRepository persists the local mirror of CRM users
type ProspectRepository interface {
	Create(ctx context.Context, prospect *model.Prospect) error
	// UpsertByClubReadyUserID inserts or refreshes the row keyed by the CRM
	// user id and returns the stored row
	UpsertByClubReadyUserID(ctx context.Context, prospect *model.Prospect) (*model.Prospect, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Prospect, error)
	GetByClubReadyUserID(ctx context.Context, clubReadyUserID string) (*model.Prospect, error)
}

// PackageRepository reads membership packages
type PackageRepository interface {
	GetByClubReadyPackageID(ctx context.Context, clubReadyPackageID string) (*model.Package, error)
	Upsert(ctx context.Context, pkg *model.Package) error
}

// TransactionCompletion carries the fields written on a successful charge
type TransactionCompletion struct {
	ClubReadyTransactionID string
	LastFour               string
	Metadata               model.JSONB
	CompletedAt            time.Time
}

// TransactionFailure carries the fields written on a failed charge.
// Metadata holds what is needed to reconcile the row with the CRM.
type TransactionFailure struct {
	ErrorMessage string
	Metadata     model.JSONB
}

// TransactionRepository persists ledger entries. Complete and Fail only
// touch rows still in pending state and report whether a row changed.
type TransactionRepository interface {
	Create(ctx context.Context, tx *model.Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Transaction, error)
	Complete(ctx context.Context, id uuid.UUID, completion TransactionCompletion) (bool, error)
	Fail(ctx context.Context, id uuid.UUID, failure TransactionFailure) (bool, error)
}

// PaymentLogRepository appends audit records
type PaymentLogRepository interface {
	Create(ctx context.Context, log *model.PaymentLog) error
	ListByTransactionID(ctx context.Context, transactionID uuid.UUID) ([]*model.PaymentLog, error)
}

// ClubReadyConfigRepository reads the single CRM configuration row
type ClubReadyConfigRepository interface {
	// Get returns nil, nil when the row does not exist
	Get(ctx context.Context) (*model.ClubReadyConfig, error)
}
