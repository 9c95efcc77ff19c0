package model

import (
	"time"

	"github.com/google/uuid"
)

// PaymentLog is the audit record of one outbound ClubReady call. Column
// names are read by reconciliation and support tooling; request_data and
// status_code duplicate request_body and http_status for older readers.
type PaymentLog struct {
	ID                 int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Endpoint           string     `gorm:"size:255;not null" json:"endpoint"`
	Step               string     `gorm:"size:100;index" json:"step"`
	APIURL             string     `gorm:"column:api_url;type:text" json:"api_url"`
	RequestHeaders     JSONB      `gorm:"type:jsonb" json:"request_headers,omitempty"`
	RequestBody        JSONValue  `gorm:"type:jsonb" json:"request_body"`
	RequestData        JSONValue  `gorm:"type:jsonb" json:"request_data"`
	ResponseData       JSONValue  `gorm:"type:jsonb" json:"response_data"`
	HTTPStatus         int        `gorm:"column:http_status" json:"http_status"`
	StatusCode         int        `gorm:"column:status_code" json:"status_code"`
	ErrorMessage       *string    `gorm:"type:text" json:"error_message,omitempty"`
	ErrorDetails       JSONValue  `gorm:"type:jsonb" json:"error_details"`
	DurationMs         int64      `gorm:"column:duration_ms" json:"duration_ms"`
	ClubReadyRequestID *string    `gorm:"column:clubready_request_id;size:100" json:"clubready_request_id,omitempty"`
	TransactionID      *uuid.UUID `gorm:"type:uuid;index" json:"transaction_id,omitempty"`
	CreatedAt          time.Time  `gorm:"index" json:"created_at"`
}

// TableName specifies the table name for GORM
func (PaymentLog) TableName() string {
	return "payment_logs"
}
