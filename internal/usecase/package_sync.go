package usecase

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/harryfittheorem/CKOWebsite/internal/domain/model"
	"github.com/harryfittheorem/CKOWebsite/internal/domain/repository"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type packagesFile struct {
	Packages []packageEntry `yaml:"packages"`
}

type packageEntry struct {
	ClubReadyPackageID string `yaml:"clubready_package_id"`
	Name               string `yaml:"name"`
	Price              string `yaml:"price"`
	DurationMonths     int    `yaml:"duration_months"`
	Description        string `yaml:"description"`
	IsActive           *bool  `yaml:"is_active"`
	SortOrder          int    `yaml:"sort_order"`
}

// LoadPackagesFromYAML reads package reference data. An empty file yields
// no packages.
func LoadPackagesFromYAML(path string) ([]*model.Package, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read packages file: %w", err)
	}
	return ParsePackagesYAML(data)
}

// ParsePackagesYAML parses the packages file format
func ParsePackagesYAML(data []byte) ([]*model.Package, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var file packagesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("unmarshal packages yaml: %w", err)
	}

	seen := make(map[string]bool, len(file.Packages))
	packages := make([]*model.Package, 0, len(file.Packages))
	for i, entry := range file.Packages {
		id := strings.TrimSpace(entry.ClubReadyPackageID)
		if id == "" {
			return nil, fmt.Errorf("packages[%d]: clubready_package_id is required", i)
		}
		if seen[id] {
			return nil, fmt.Errorf("packages[%d]: duplicate clubready_package_id %q", i, id)
		}
		seen[id] = true

		if strings.TrimSpace(entry.Name) == "" {
			return nil, fmt.Errorf("packages[%d]: name is required", i)
		}

		price, err := decimal.NewFromString(strings.TrimSpace(entry.Price))
		if err != nil {
			return nil, fmt.Errorf("packages[%d]: invalid price %q: %w", i, entry.Price, err)
		}
		if !price.IsPositive() {
			return nil, fmt.Errorf("packages[%d]: price must be positive", i)
		}

		duration := entry.DurationMonths
		if duration <= 0 {
			duration = 1
		}

		isActive := true
		if entry.IsActive != nil {
			isActive = *entry.IsActive
		}

		pkg := &model.Package{
			ClubReadyPackageID: id,
			Name:               strings.TrimSpace(entry.Name),
			Price:              price.Round(2),
			DurationMonths:     duration,
			IsActive:           isActive,
			SortOrder:          entry.SortOrder,
		}
		if desc := strings.TrimSpace(entry.Description); desc != "" {
			pkg.Description = &desc
		}
		packages = append(packages, pkg)
	}

	return packages, nil
}

// PackageSyncService loads package reference data into the packages table
type PackageSyncService struct {
	packages repository.PackageRepository
	logger   *zap.Logger
}

// NewPackageSyncService creates a package sync service
func NewPackageSyncService(packages repository.PackageRepository, logger *zap.Logger) *PackageSyncService {
	return &PackageSyncService{
		packages: packages,
		logger:   logger,
	}
}

// Sync upserts every package by its ClubReady id. A failed row is logged
// and skipped; the count of stored rows is returned.
func (s *PackageSyncService) Sync(ctx context.Context, packages []*model.Package) (int, error) {
	synced := 0
	var failed []string

	for _, pkg := range packages {
		if err := s.packages.Upsert(ctx, pkg); err != nil {
			s.logger.Error("Failed to upsert package",
				zap.String("clubready_package_id", pkg.ClubReadyPackageID),
				zap.Error(err))
			failed = append(failed, pkg.ClubReadyPackageID)
			continue
		}
		synced++
	}

	s.logger.Info("Packages synced",
		zap.Int("synced", synced),
		zap.Int("failed", len(failed)))

	if len(failed) > 0 {
		return synced, fmt.Errorf("failed to sync packages: %s", strings.Join(failed, ", "))
	}
	return synced, nil
}
