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
	"gorm.io/gorm/clause"
)

// Columns refreshed when a search result is mirrored over an existing row
var prospectRefreshColumns = []string{"email", "phone", "first_name", "last_name", "last_synced_at", "updated_at"}

type prospectRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewProspectRepository creates a new prospect repository
func NewProspectRepository(db *gorm.DB, logger *zap.Logger) repository.ProspectRepository {
	return &prospectRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a prospect. A second row for the same ClubReady user id
// is rejected by the unique index.
func (r *prospectRepository) Create(ctx context.Context, prospect *model.Prospect) error {
	if err := r.db.WithContext(ctx).Create(prospect).Error; err != nil {
		r.logger.Error("Failed to create prospect",
			zap.String("clubready_user_id", prospect.ClubReadyUserID),
			zap.Error(err))
		return fmt.Errorf("failed to create prospect: %w", err)
	}
	return nil
}

// UpsertByClubReadyUserID inserts the prospect or refreshes the contact
// fields of the existing row, then returns the stored row
func (r *prospectRepository) UpsertByClubReadyUserID(ctx context.Context, prospect *model.Prospect) (*model.Prospect, error) {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "clubready_user_id"}},
			DoUpdates: clause.AssignmentColumns(prospectRefreshColumns),
		}).
		Create(prospect).Error
	if err != nil {
		r.logger.Error("Failed to upsert prospect",
			zap.String("clubready_user_id", prospect.ClubReadyUserID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to upsert prospect: %w", err)
	}

	// The row id is the existing one on conflict, not the one just generated
	stored, err := r.GetByClubReadyUserID(ctx, prospect.ClubReadyUserID)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, fmt.Errorf("prospect %s missing after upsert", prospect.ClubReadyUserID)
	}
	return stored, nil
}

// GetByID retrieves a prospect by local id
func (r *prospectRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Prospect, error) {
	var prospect model.Prospect

	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&prospect).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("Failed to get prospect by ID",
			zap.String("id", id.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get prospect: %w", err)
	}

	return &prospect, nil
}

// GetByClubReadyUserID retrieves a prospect by ClubReady user id
func (r *prospectRepository) GetByClubReadyUserID(ctx context.Context, clubReadyUserID string) (*model.Prospect, error) {
	var prospect model.Prospect

	err := r.db.WithContext(ctx).
		Where("clubready_user_id = ?", clubReadyUserID).
		First(&prospect).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("Failed to get prospect by ClubReady user ID",
			zap.String("clubready_user_id", clubReadyUserID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get prospect: %w", err)
	}

	return &prospect, nil
}
