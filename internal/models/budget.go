package models

import "github.com/shopspring/decimal"

// BudgetPeriod is the recurrence window a budget applies to.
type BudgetPeriod string

const (
	BudgetPeriodWeekly  BudgetPeriod = "weekly"
	BudgetPeriodMonthly BudgetPeriod = "monthly"
	BudgetPeriodYearly  BudgetPeriod = "yearly"
)

// Valid reports whether p is one of the supported periods.
func (p BudgetPeriod) Valid() bool {
	switch p {
	case BudgetPeriodWeekly, BudgetPeriodMonthly, BudgetPeriodYearly:
		return true
	}
	return false
}

// Budget is a per-user, per-category spending ceiling for one period.
// At most one budget exists per (user, category, period) triple; submitting
// the same triple again overwrites the amount. The composite unique index
// backs that invariant at the storage level.
type Budget struct {
	Base
	UserID     uint            `gorm:"not null;uniqueIndex:idx_budgets_user_category_period" json:"user_id"`
	CategoryID uint            `gorm:"not null;uniqueIndex:idx_budgets_user_category_period" json:"category_id"`
	Amount     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Period     BudgetPeriod    `gorm:"not null;uniqueIndex:idx_budgets_user_category_period" json:"period"`

	Category Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}
