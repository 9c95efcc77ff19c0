package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/harryfittheorem/CKOWebsite/internal/domain/model"
	"github.com/harryfittheorem/CKOWebsite/internal/domain/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type packageRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewPackageRepository creates a new package repository
func NewPackageRepository(db *gorm.DB, logger *zap.Logger) repository.PackageRepository {
	return &packageRepository{
		db:     db,
		logger: logger,
	}
}

// GetByClubReadyPackageID retrieves a package by its ClubReady id
func (r *packageRepository) GetByClubReadyPackageID(ctx context.Context, clubReadyPackageID string) (*model.Package, error) {
	var pkg model.Package

	err := r.db.WithContext(ctx).
		Where("clubready_package_id = ?", clubReadyPackageID).
		First(&pkg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("Failed to get package",
			zap.String("clubready_package_id", clubReadyPackageID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get package: %w", err)
	}

	return &pkg, nil
}

// Upsert inserts or updates a package by its ClubReady id
func (r *packageRepository) Upsert(ctx context.Context, pkg *model.Package) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "clubready_package_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"name",
				"price",
				"duration_months",
				"description",
				"is_active",
				"sort_order",
				"updated_at",
			}),
		}).
		Create(pkg).Error

	if err != nil {
		r.logger.Error("Failed to upsert package",
			zap.String("clubready_package_id", pkg.ClubReadyPackageID),
			zap.Error(err))
		return fmt.Errorf("failed to upsert package: %w", err)
	}

	return nil
}
