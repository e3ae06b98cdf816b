package services

import (
	"time"

	"github.com/shopspring/decimal"

	"spendtrack/internal/models"
	"spendtrack/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	Register(username, email, password, confirmPassword string) (*models.User, error)
	Authenticate(username, password string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
}

// CategorySummary is a per-category rollup with left-join semantics:
// categories without transactions report count 0 and total 0.
type CategorySummary struct {
	CategoryID uint            `json:"category_id"`
	Name       string          `json:"name"`
	Count      int64           `json:"count"`
	Total      decimal.Decimal `json:"total"`
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	ListCategories(userID uint) ([]models.Category, error)
	GetCategoryByID(userID, categoryID uint) (*models.Category, error)
	CreateCategory(userID uint, name string) (*models.Category, error)
	DeleteCategory(userID, categoryID uint) error
	CategorySummary(userID uint) ([]CategorySummary, error)
}

// TransactionFilter holds optional, conjunctive filter parameters for
// listing transactions. A nil/empty field is a predicate that is always true.
type TransactionFilter struct {
	CategoryID *uint
	DateFrom   *time.Time
	DateTo     *time.Time
	Search     string
}

// ExportRow is one line of the CSV export.
type ExportRow struct {
	Date     time.Time
	Category string
	Amount   decimal.Decimal
	Note     string
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	AddTransaction(userID, categoryID uint, amount decimal.Decimal, date time.Time, note string) (*models.Transaction, error)
	GetTransactionByID(userID, transactionID uint) (*models.Transaction, error)
	UpdateTransaction(userID, transactionID, categoryID uint, amount decimal.Decimal, date time.Time, note string) (*models.Transaction, error)
	DeleteTransaction(userID, transactionID uint) error
	ListTransactions(userID uint, filter TransactionFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], decimal.Decimal, error)
	ExportRows(userID uint) ([]ExportRow, error)
}

// Budget health statuses derived from the spend-to-ceiling ratio.
const (
	BudgetStatusSuccess = "success"
	BudgetStatusWarning = "warning"
	BudgetStatusDanger  = "danger"
)

// BudgetStatus is a budget with its spend-to-date in the current period window.
type BudgetStatus struct {
	BudgetID   uint                `json:"budget_id"`
	CategoryID uint                `json:"category_id"`
	Category   string              `json:"category"`
	Amount     decimal.Decimal     `json:"amount"`
	Period     models.BudgetPeriod `json:"period"`
	Spent      decimal.Decimal     `json:"spent"`
	Percentage float64             `json:"percentage"`
	Status     string              `json:"status"`
}

// BudgetServicer defines the contract for budget-related business logic.
type BudgetServicer interface {
	UpsertBudget(userID, categoryID uint, amount decimal.Decimal, period models.BudgetPeriod) (*models.Budget, bool, error)
	ListBudgetStatuses(userID uint) ([]BudgetStatus, error)
	DeleteBudget(userID, budgetID uint) error
}

// CategoryTotal is one point of the per-category spending series.
type CategoryTotal struct {
	Name  string          `json:"name"`
	Total decimal.Decimal `json:"total"`
}

// MonthPoint is one month of the rolling aggregation series. Month is the
// sortable YYYY-MM key; Label is the human-readable month name.
type MonthPoint struct {
	Month string          `json:"month"`
	Label string          `json:"month_name,omitempty"`
	Count int64           `json:"count,omitempty"`
	Total decimal.Decimal `json:"total"`
}

// DashboardSummary aggregates the dashboard's derived views.
type DashboardSummary struct {
	Total            decimal.Decimal      `json:"total"`
	MonthTotal       decimal.Decimal      `json:"month_total"`
	TransactionCount int64                `json:"txn_count"`
	CategoryCount    int64                `json:"cat_count"`
	Recent           []models.Transaction `json:"recent"`
	CategoryData     []CategoryTotal      `json:"category_data"`
	MonthlyData      []MonthPoint         `json:"monthly_data"`
}

// ReportServicer defines the contract for read-only derived views over the ledger.
type ReportServicer interface {
	DashboardSummary(userID uint) (*DashboardSummary, error)
	MonthlyReport(userID uint) ([]MonthPoint, error)
	CategoryReport(userID uint) ([]CategorySummary, error)
	TopExpenses(userID uint) ([]models.Transaction, error)
	CategorySeries(userID uint) ([]CategoryTotal, error)
	MonthlySeries(userID uint) ([]MonthPoint, error)
}
