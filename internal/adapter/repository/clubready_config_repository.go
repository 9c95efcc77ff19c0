package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/harryfittheorem/CKOWebsite/internal/domain/model"
	"github.com/harryfittheorem/CKOWebsite/internal/domain/repository"
	"gorm.io/gorm"
)

type clubReadyConfigRepository struct {
	db *gorm.DB
}

// NewClubReadyConfigRepository creates a repository over the single
// clubready_config row
func NewClubReadyConfigRepository(db *gorm.DB) repository.ClubReadyConfigRepository {
	return &clubReadyConfigRepository{db: db}
}

func (r *clubReadyConfigRepository) Get(ctx context.Context) (*model.ClubReadyConfig, error) {
	var cfg model.ClubReadyConfig

	err := r.db.WithContext(ctx).
		Where("id = ?", model.ClubReadyConfigRowID).
		First(&cfg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get clubready config: %w", err)
	}

	return &cfg, nil
}
