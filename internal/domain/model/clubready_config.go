package model

import "time"

// ClubReadyConfigRowID is the id of the single configuration row
const ClubReadyConfigRowID = 1

// ClubReadyConfig holds the CRM credentials maintained by operators
type ClubReadyConfig struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	APIKey    string    `gorm:"column:api_key;type:text" json:"-"`
	ChainID   string    `gorm:"column:chain_id;size:50" json:"chain_id"`
	StoreID   string    `gorm:"column:store_id;size:50" json:"store_id"`
	APIURL    string    `gorm:"column:api_url;type:text" json:"api_url"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (ClubReadyConfig) TableName() string {
	return "clubready_config"
}
