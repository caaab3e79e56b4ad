package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a single dated money movement. Amount is always positive;
// whether it adds to or subtracts from a balance is decided by Type, which
// must equal the type of the referenced category.
type Transaction struct {
	Base
	UserID      string          `gorm:"type:uuid;not null;index:idx_transactions_user_date,priority:1" json:"userId"`
	CategoryID  string          `gorm:"type:uuid;not null;index" json:"categoryId"`
	Type        EntryType       `gorm:"size:10;not null" json:"type"`
	Amount      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	Description string          `gorm:"size:255;not null" json:"description"`
	Date        time.Time       `gorm:"not null;index:idx_transactions_user_date,priority:2" json:"date"`
	Notes       *string         `gorm:"size:500" json:"notes,omitempty"`

	Category *CategoryRef `gorm:"-" json:"category,omitempty"`
}
