package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Package is a purchasable membership plan. Rows are reference data loaded
// by cmd/sync-packages; the checkout flow only reads them.
type Package struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	ClubReadyPackageID string          `gorm:"column:clubready_package_id;uniqueIndex;not null;size:100" json:"clubready_package_id"`
	Name               string          `gorm:"size:255;not null" json:"name"`
	Price              decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	DurationMonths     int             `gorm:"not null;default:1" json:"duration_months"`
	Description        *string         `gorm:"type:text" json:"description,omitempty"`
	IsActive           bool            `gorm:"not null" json:"is_active"`
	SortOrder          int             `gorm:"default:0" json:"sort_order"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Package) TableName() string {
	return "packages"
}

// BeforeCreate assigns the primary key
func (p *Package) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
