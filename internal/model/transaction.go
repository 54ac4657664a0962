package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TransactionType string

const (
	TxStockIn      TransactionType = "STOCK_IN"
	TxDistribution TransactionType = "DISTRIBUTION"
	TxReturn       TransactionType = "RETURN"
)

// Valid reports whether t is one of the known transaction types
func (t TransactionType) Valid() bool {
	switch t {
	case TxStockIn, TxDistribution, TxReturn:
		return true
	}
	return false
}

// Sign is the direction a transaction of this type moves stock
func (t TransactionType) Sign() int {
	if t == TxDistribution {
		return -1
	}
	return 1
}

// Details is the free-form metadata attached to a transaction (recipient, source, note...).
// It is stored verbatim as JSON.
type Details map[string]interface{}

// GormDataType lets GORM map Details on structs without a column type tag (scan targets)
func (Details) GormDataType() string {
	return "json"
}

func (d Details) Value() (driver.Value, error) {
	if d == nil {
		return nil, nil
	}
	b, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (d *Details) Scan(value interface{}) error {
	if value == nil {
		*d = nil
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return errors.New("details: unsupported column type")
	}
	if len(raw) == 0 {
		*d = nil
		return nil
	}
	return json.Unmarshal(raw, d)
}

// Transaction is an append-only stock log entry. Rows are never updated or deleted.
type Transaction struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key;" json:"id"`
	ItemID          uuid.UUID       `gorm:"type:uuid;not null;index" json:"item_id"`
	Item            *Item           `gorm:"foreignKey:ItemID;constraint:OnDelete:RESTRICT;" json:"item,omitempty"`
	UserID          uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	User            *User           `gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT;" json:"-"`
	TransactionType TransactionType `gorm:"type:varchar(20);not null;index;check:chk_transactions_type,transaction_type IN ('STOCK_IN','DISTRIBUTION','RETURN')" json:"transaction_type"`
	QuantityChange  int             `gorm:"not null" json:"quantity_change"`
	Details         Details         `gorm:"type:jsonb" json:"details"`
	CreatedAt       time.Time       `gorm:"index" json:"created_at"`
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return
}

// TransactionLogRow is a transaction joined with item and user names
type TransactionLogRow struct {
	ID              uuid.UUID       `json:"id"`
	ItemID          uuid.UUID       `json:"item_id"`
	UserID          uuid.UUID       `json:"user_id"`
	TransactionType TransactionType `json:"transaction_type"`
	QuantityChange  int             `json:"quantity_change"`
	Details         Details         `gorm:"type:jsonb" json:"details"`
	CreatedAt       time.Time       `json:"created_at"`
	ItemName        string          `json:"item_name"`
	UserName        string          `json:"user_name"`
}
