package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/harryfittheorem/CKOWebsite/internal/domain/model"
	"github.com/harryfittheorem/CKOWebsite/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// One named in-memory database per test
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.NewGormLogger(zap.NewNop(), gormlogger.Silent, 200*time.Millisecond, true),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.All()...))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func seedProspect(t *testing.T, db *gorm.DB, clubReadyUserID string) *model.Prospect {
	t.Helper()
	p := &model.Prospect{
		ClubReadyUserID: clubReadyUserID,
		Email:           clubReadyUserID + "@example.com",
		FirstName:       "Jane",
		LastName:        "Doe",
		LastSyncedAt:    time.Now(),
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func seedPackage(t *testing.T, db *gorm.DB, clubReadyPackageID string, price string) *model.Package {
	t.Helper()
	p := &model.Package{
		ClubReadyPackageID: clubReadyPackageID,
		Name:               "Monthly Unlimited",
		Price:              decimal.RequireFromString(price),
		DurationMonths:     1,
		IsActive:           true,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}
