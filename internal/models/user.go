package models

// User represents a registered account. The password column holds a bcrypt
// hash, never plaintext, and is excluded from all JSON responses.
type User struct {
	Base
	Username string `gorm:"uniqueIndex;not null" json:"username"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`

	Categories   []Category    `gorm:"foreignKey:UserID" json:"categories,omitempty"`
	Transactions []Transaction `gorm:"foreignKey:UserID" json:"transactions,omitempty"`
	Budgets      []Budget      `gorm:"foreignKey:UserID" json:"budgets,omitempty"`
}

// DefaultCategories are seeded for every new user at registration.
var DefaultCategories = []string{
	"Food", "Transport", "Shopping", "Bills", "Entertainment", "Health", "Other",
}
