package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TransactionStatus is the ledger state of one charge attempt
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusFailed    TransactionStatus = "failed"
)

// IsTerminal reports whether no further transition is allowed
func (s TransactionStatus) IsTerminal() bool {
	return s == TransactionStatusCompleted || s == TransactionStatusFailed
}

const PaymentMethodCreditCard = "credit_card"

// Transaction is the ledger entry for a single charge attempt
type Transaction struct {
	ID                     uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	ProspectID             uuid.UUID         `gorm:"type:uuid;not null;index" json:"prospect_id"`
	PackageID              uuid.UUID         `gorm:"type:uuid;not null;index" json:"package_id"`
	Amount                 decimal.Decimal   `gorm:"type:decimal(10,2);not null" json:"amount"`
	Status                 TransactionStatus `gorm:"size:20;not null;default:'pending';index" json:"status"`
	PaymentMethod          string            `gorm:"size:50" json:"payment_method"`
	ClubReadyTransactionID *string           `gorm:"column:clubready_transaction_id;size:100" json:"clubready_transaction_id,omitempty"`
	LastFour               *string           `gorm:"size:4" json:"last_four,omitempty"`
	ErrorMessage           *string           `gorm:"type:text" json:"error_message,omitempty"`
	Metadata               JSONB             `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt              time.Time         `json:"created_at"`
	CompletedAt            *time.Time        `json:"completed_at,omitempty"`
	UpdatedAt              time.Time         `json:"updated_at"`

	// Relations
	Prospect *Prospect `gorm:"foreignKey:ProspectID" json:"prospect,omitempty"`
	Package  *Package  `gorm:"foreignKey:PackageID" json:"package,omitempty"`
}

// TableName specifies the table name for GORM
func (Transaction) TableName() string {
	return "transactions"
}

// BeforeCreate assigns the primary key
func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
