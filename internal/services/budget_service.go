package services

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "spendtrack/internal/errors"
	"spendtrack/internal/models"
)

// budgetService handles budget-related business logic.
type budgetService struct {
	db              *gorm.DB
	categoryService CategoryServicer
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB, categoryService CategoryServicer) BudgetServicer {
	return &budgetService{db: db, categoryService: categoryService}
}

// UpsertBudget creates a budget for (user, category, period) or overwrites
// the amount of the existing one. The second return value reports whether a
// new row was created. The composite unique index backs the at-most-one
// invariant under concurrent submissions.
func (s *budgetService) UpsertBudget(
	userID, categoryID uint,
	amount decimal.Decimal,
	period models.BudgetPeriod,
) (*models.Budget, bool, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, false, apperrors.WithMessage(apperrors.ErrInvalidInput, "budget amount must be a positive number")
	}
	if !period.Valid() {
		return nil, false, apperrors.WithMessage(apperrors.ErrInvalidInput, "period must be weekly, monthly or yearly")
	}

	if _, err := s.categoryService.GetCategoryByID(userID, categoryID); err != nil {
		return nil, false, err
	}

	var budget models.Budget
	created := false
	err := s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ? AND category_id = ? AND period = ?", userID, categoryID, period).
			First(&budget).Error
		switch {
		case err == nil:
			return tx.Model(&budget).Update("amount", amount).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			budget = models.Budget{
				UserID:     userID,
				CategoryID: categoryID,
				Amount:     amount,
				Period:     period,
			}
			created = true
			return tx.Create(&budget).Error
		default:
			return err
		}
	})
	if err != nil {
		return nil, false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return &budget, created, nil
}

// periodWindow returns the half-open [start, end) window of the current
// instance of the given period: the current calendar month, the current ISO
// week (Monday through Sunday), or the current calendar year.
func periodWindow(period models.BudgetPeriod, now time.Time) (time.Time, time.Time) {
	switch period {
	case models.BudgetPeriodWeekly:
		weekday := int(now.Weekday())
		if weekday == 0 {
			weekday = 7
		}
		start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).
			AddDate(0, 0, -(weekday - 1))
		return start, start.AddDate(0, 0, 7)
	case models.BudgetPeriodYearly:
		start := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
		return start, start.AddDate(1, 0, 0)
	default: // monthly
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return start, start.AddDate(0, 1, 0)
	}
}

// deriveStatus maps a spend percentage to the three-valued health indicator.
func deriveStatus(percentage float64) string {
	switch {
	case percentage >= 100:
		return BudgetStatusDanger
	case percentage >= 80:
		return BudgetStatusWarning
	default:
		return BudgetStatusSuccess
	}
}

// ListBudgetStatuses returns every budget owned by the user with spend,
// percentage, and status computed against the current period window.
// A zero budget amount yields percentage 0 rather than a division error.
func (s *budgetService) ListBudgetStatuses(userID uint) ([]BudgetStatus, error) {
	var budgets []models.Budget
	if err := s.db.Preload("Category").
		Where("user_id = ?", userID).
		Order("id").
		Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	now := time.Now()
	statuses := make([]BudgetStatus, 0, len(budgets))
	for _, b := range budgets {
		start, end := periodWindow(b.Period, now)

		var spent decimal.Decimal
		err := s.db.Model(&models.Transaction{}).
			Select("COALESCE(SUM(amount), 0)").
			Where("user_id = ? AND category_id = ? AND date >= ? AND date < ?",
				userID, b.CategoryID, start, end).
			Scan(&spent).Error
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		var percentage float64
		if b.Amount.IsPositive() {
			percentage, _ = spent.Div(b.Amount).Mul(decimal.NewFromInt(100)).Float64()
		}

		statuses = append(statuses, BudgetStatus{
			BudgetID:   b.ID,
			CategoryID: b.CategoryID,
			Category:   b.Category.Name,
			Amount:     b.Amount,
			Period:     b.Period,
			Spent:      spent,
			Percentage: percentage,
			Status:     deriveStatus(percentage),
		})
	}

	return statuses, nil
}

// DeleteBudget removes a budget if it belongs to the user.
func (s *budgetService) DeleteBudget(userID, budgetID uint) error {
	var budget models.Budget
	if err := s.db.Where("id = ? AND user_id = ?", budgetID, userID).First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrBudgetNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.db.Delete(&budget).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
