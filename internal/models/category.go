package models

// Category is a per-user named bucket for transactions. Names are unique
// within a user; the composite unique index is the source of truth, the
// service-level pre-check only shapes the error message.
type Category struct {
	Base
	UserID uint   `gorm:"not null;uniqueIndex:idx_categories_user_name" json:"user_id"`
	Name   string `gorm:"not null;uniqueIndex:idx_categories_user_name" json:"name"`

	Transactions []Transaction `gorm:"foreignKey:CategoryID" json:"transactions,omitempty"`
	Budgets      []Budget      `gorm:"foreignKey:CategoryID" json:"budgets,omitempty"`
}
