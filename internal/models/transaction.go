package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a dated money movement tagged to exactly one category
// owned by the same user. Amount is always positive.
type Transaction struct {
	Base
	UserID     uint            `gorm:"not null;index" json:"user_id"`
	CategoryID uint            `gorm:"not null;index" json:"category_id"`
	Amount     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Date       time.Time       `gorm:"not null;index" json:"date"`
	Note       string          `json:"note"`

	Category Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}
