package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONB represents a JSONB database column holding an object
type JSONB map[string]interface{}

// Value implements driver.Valuer interface
func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	b, err := json.Marshal(j)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner interface
func (j *JSONB) Scan(src interface{}) error {
	if src == nil {
		*j = nil
		return nil
	}

	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, j)
	case string:
		return json.Unmarshal([]byte(v), j)
	default:
		return fmt.Errorf("unsupported JSONB source type %T", src)
	}
}

// JSONValue is a JSONB column that may hold any JSON document, used where
// the payload shape belongs to the CRM and is not under our control.
type JSONValue struct {
	Data interface{}
}

// NewJSONValue wraps v; nil stays SQL NULL
func NewJSONValue(v interface{}) JSONValue {
	return JSONValue{Data: v}
}

// Value implements driver.Valuer interface
func (j JSONValue) Value() (driver.Value, error) {
	if j.Data == nil {
		return nil, nil
	}
	b, err := json.Marshal(j.Data)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner interface
func (j *JSONValue) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		j.Data = nil
		return nil
	case []byte:
		return json.Unmarshal(v, &j.Data)
	case string:
		return json.Unmarshal([]byte(v), &j.Data)
	default:
		return fmt.Errorf("unsupported JSONB source type %T", src)
	}
}

// MarshalJSON renders the wrapped document
func (j JSONValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(j.Data)
}

// UnmarshalJSON implements json.Unmarshaler
func (j *JSONValue) UnmarshalJSON(b []byte) error {
	return json.Unmarshal(b, &j.Data)
}
