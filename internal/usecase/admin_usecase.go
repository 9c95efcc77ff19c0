package usecase

import (
	"context"

	"github.com/google/uuid"
	"github.com/harryfittheorem/CKOWebsite/internal/domain/model"
	"github.com/harryfittheorem/CKOWebsite/internal/domain/repository"
	pkgerrors "github.com/harryfittheorem/CKOWebsite/pkg/errors"
	"go.uber.org/zap"
)

// AdminUsecase serves read-only support lookups over the ledger and the
// audit trail
type AdminUsecase interface {
	GetTransaction(ctx context.Context, id uuid.UUID) (*model.Transaction, error)
	ListTransactionLogs(ctx context.Context, id uuid.UUID) ([]*model.PaymentLog, error)
}

type adminUsecase struct {
	transactions repository.TransactionRepository
	paymentLogs  repository.PaymentLogRepository
	logger       *zap.Logger
}

// NewAdminUsecase creates the support lookup usecase
func NewAdminUsecase(
	transactions repository.TransactionRepository,
	paymentLogs repository.PaymentLogRepository,
	logger *zap.Logger,
) AdminUsecase {
	return &adminUsecase{
		transactions: transactions,
		paymentLogs:  paymentLogs,
		logger:       logger,
	}
}

func (u *adminUsecase) GetTransaction(ctx context.Context, id uuid.UUID) (*model.Transaction, error) {
	tx, err := u.transactions.GetByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.NewAppError(pkgerrors.ErrPersistence, "Failed to load transaction", err)
	}
	if tx == nil {
		return nil, pkgerrors.NewAppError(pkgerrors.ErrNotFound, "Transaction not found", nil)
	}
	return tx, nil
}

func (u *adminUsecase) ListTransactionLogs(ctx context.Context, id uuid.UUID) ([]*model.PaymentLog, error) {
	if _, err := u.GetTransaction(ctx, id); err != nil {
		return nil, err
	}

	logs, err := u.paymentLogs.ListByTransactionID(ctx, id)
	if err != nil {
		return nil, pkgerrors.NewAppError(pkgerrors.ErrPersistence, "Failed to load payment logs", err)
	}

	u.logger.Debug("Transaction logs listed",
		zap.String("transaction_id", id.String()),
		zap.Int("count", len(logs)))

	return logs, nil
}
