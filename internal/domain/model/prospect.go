package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Prospect mirrors a ClubReady user (the "customer") locally
type Prospect struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ClubReadyUserID string     `gorm:"column:clubready_user_id;uniqueIndex;not null;size:100" json:"clubready_user_id"`
	Email           string     `gorm:"size:255;index" json:"email"`
	Phone           *string    `gorm:"size:50" json:"phone,omitempty"`
	FirstName       string     `gorm:"size:100" json:"first_name"`
	LastName        string     `gorm:"size:100" json:"last_name"`
	DateOfBirth     *time.Time `gorm:"type:date" json:"date_of_birth,omitempty"`
	LastSyncedAt    time.Time  `json:"last_synced_at"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Prospect) TableName() string {
	return "prospects"
}

// BeforeCreate assigns the primary key
func (p *Prospect) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
