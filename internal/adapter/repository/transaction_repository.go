package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/harryfittheorem/CKOWebsite/internal/domain/model"
	"github.com/harryfittheorem/CKOWebsite/internal/domain/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type transactionRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *gorm.DB, logger *zap.Logger) repository.TransactionRepository {
	return &transactionRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new ledger entry
func (r *transactionRepository) Create(ctx context.Context, tx *model.Transaction) error {
	if err := r.db.WithContext(ctx).Create(tx).Error; err != nil {
		r.logger.Error("Failed to create transaction",
			zap.String("prospect_id", tx.ProspectID.String()),
			zap.String("package_id", tx.PackageID.String()),
			zap.Error(err))
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

// GetByID retrieves a transaction with its prospect and package
func (r *transactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Transaction, error) {
	var tx model.Transaction

	err := r.db.WithContext(ctx).
		Preload("Prospect").
		Preload("Package").
		Where("id = ?", id).
		First(&tx).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("Failed to get transaction",
			zap.String("id", id.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	return &tx, nil
}

// Complete moves a pending transaction to completed
func (r *transactionRepository) Complete(ctx context.Context, id uuid.UUID, completion repository.TransactionCompletion) (bool, error) {
	return r.closePending(ctx, id, model.TransactionStatusCompleted, map[string]interface{}{
		"status":                   model.TransactionStatusCompleted,
		"clubready_transaction_id": completion.ClubReadyTransactionID,
		"last_four":                completion.LastFour,
		"metadata":                 completion.Metadata,
		"completed_at":             completion.CompletedAt,
	})
}

// Fail moves a pending transaction to failed
func (r *transactionRepository) Fail(ctx context.Context, id uuid.UUID, failure repository.TransactionFailure) (bool, error) {
	updates := map[string]interface{}{
		"status":        model.TransactionStatusFailed,
		"error_message": failure.ErrorMessage,
	}
	if failure.Metadata != nil {
		updates["metadata"] = failure.Metadata
	}
	return r.closePending(ctx, id, model.TransactionStatusFailed, updates)
}

// closePending applies updates only while the row is still pending, so a
// closed transaction can never be rewritten
func (r *transactionRepository) closePending(ctx context.Context, id uuid.UUID, to model.TransactionStatus, updates map[string]interface{}) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Transaction{}).
		Where("id = ? AND status = ?", id, model.TransactionStatusPending).
		Updates(updates)
	if result.Error != nil {
		r.logger.Error("Failed to close transaction",
			zap.String("id", id.String()),
			zap.String("status", string(to)),
			zap.Error(result.Error))
		return false, fmt.Errorf("failed to update transaction: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		r.logger.Warn("Transaction was not pending",
			zap.String("id", id.String()),
			zap.String("status", string(to)))
		return false, nil
	}

	return true, nil
}
