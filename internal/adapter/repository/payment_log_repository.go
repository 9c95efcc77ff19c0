package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/harryfittheorem/CKOWebsite/internal/domain/model"
	"github.com/harryfittheorem/CKOWebsite/internal/domain/repository"
	"gorm.io/gorm"
)

type paymentLogRepository struct {
	db *gorm.DB
}

// NewPaymentLogRepository creates a new payment log repository. It does not
// log its own failures; the audit logger reports them.
func NewPaymentLogRepository(db *gorm.DB) repository.PaymentLogRepository {
	return &paymentLogRepository{db: db}
}

func (r *paymentLogRepository) Create(ctx context.Context, log *model.PaymentLog) error {
	if err := r.db.WithContext(ctx).Create(log).Error; err != nil {
		return fmt.Errorf("failed to create payment log: %w", err)
	}
	return nil
}

func (r *paymentLogRepository) ListByTransactionID(ctx context.Context, transactionID uuid.UUID) ([]*model.PaymentLog, error) {
	var logs []*model.PaymentLog

	err := r.db.WithContext(ctx).
		Where("transaction_id = ?", transactionID).
		Order("id ASC").
		Find(&logs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list payment logs: %w", err)
	}

	return logs, nil
}
