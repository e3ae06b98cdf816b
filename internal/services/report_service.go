package services

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "spendtrack/internal/errors"
	"spendtrack/internal/models"
)

// reportService computes read-only derived views over the ledger. Every
// report is computed live from the relational store; nothing is cached.
type reportService struct {
	db *gorm.DB
}

// NewReportService creates a new ReportServicer.
func NewReportService(db *gorm.DB) ReportServicer {
	return &reportService{db: db}
}

// sumWhere sums transaction amounts for the user with extra conditions.
func (s *reportService) sumWhere(userID uint, query string, args ...interface{}) (decimal.Decimal, error) {
	var total decimal.Decimal
	q := s.db.Model(&models.Transaction{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("user_id = ?", userID)
	if query != "" {
		q = q.Where(query, args...)
	}
	if err := q.Scan(&total).Error; err != nil {
		return decimal.Zero, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return total, nil
}

// monthlyBuckets aggregates the user's transactions of the trailing number
// of months into per-month count/total points, ascending by month key.
// Months without any activity do not appear in the series.
//
// Bucketing runs in Go rather than SQL: month truncation syntax differs
// between the production and test dialects, and the row volume here is one
// user's trailing window.
func (s *reportService) monthlyBuckets(userID uint, months int) ([]MonthPoint, error) {
	cutoff := time.Now().AddDate(0, -months, 0)

	var transactions []models.Transaction
	if err := s.db.
		Where("user_id = ? AND date >= ?", userID, cutoff).
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	buckets := make(map[string]*MonthPoint)
	for _, t := range transactions {
		key := t.Date.Format("2006-01")
		point, ok := buckets[key]
		if !ok {
			point = &MonthPoint{
				Month: key,
				Label: t.Date.Format("January 2006"),
				Total: decimal.Zero,
			}
			buckets[key] = point
		}
		point.Count++
		point.Total = point.Total.Add(t.Amount)
	}

	series := make([]MonthPoint, 0, len(buckets))
	for _, point := range buckets {
		series = append(series, *point)
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Month < series[j].Month })
	return series, nil
}

// CategorySeries returns per-category spending totals, largest first, for
// categories with at least one transaction.
func (s *reportService) CategorySeries(userID uint) ([]CategoryTotal, error) {
	var rows []CategoryTotal
	err := s.db.Model(&models.Transaction{}).
		Select("categories.name AS name, SUM(transactions.amount) AS total").
		Joins("JOIN categories ON categories.id = transactions.category_id").
		Where("transactions.user_id = ?", userID).
		Group("categories.name").
		Order("total DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return rows, nil
}

// MonthlySeries returns the trailing-12-month series, chronologically ascending.
func (s *reportService) MonthlySeries(userID uint) ([]MonthPoint, error) {
	return s.monthlyBuckets(userID, 12)
}

// DashboardSummary computes the dashboard's aggregate views in one call.
func (s *reportService) DashboardSummary(userID uint) (*DashboardSummary, error) {
	total, err := s.sumWhere(userID, "")
	if err != nil {
		return nil, err
	}

	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthTotal, err := s.sumWhere(userID, "date >= ? AND date < ?", monthStart, monthStart.AddDate(0, 1, 0))
	if err != nil {
		return nil, err
	}

	var txnCount int64
	if err := s.db.Model(&models.Transaction{}).Where("user_id = ?", userID).Count(&txnCount).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var catCount int64
	if err := s.db.Model(&models.Category{}).Where("user_id = ?", userID).Count(&catCount).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var recent []models.Transaction
	if err := s.db.Preload("Category").
		Where("user_id = ?", userID).
		Order("date DESC, id DESC").
		Limit(5).
		Find(&recent).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	categoryData, err := s.CategorySeries(userID)
	if err != nil {
		return nil, err
	}

	monthlyData, err := s.monthlyBuckets(userID, 6)
	if err != nil {
		return nil, err
	}

	return &DashboardSummary{
		Total:            total,
		MonthTotal:       monthTotal,
		TransactionCount: txnCount,
		CategoryCount:    catCount,
		Recent:           recent,
		CategoryData:     categoryData,
		MonthlyData:      monthlyData,
	}, nil
}

// MonthlyReport returns the trailing 12 months with counts and totals,
// most recent month first.
func (s *reportService) MonthlyReport(userID uint) ([]MonthPoint, error) {
	series, err := s.monthlyBuckets(userID, 12)
	if err != nil {
		return nil, err
	}
	// Reverse to most-recent-first.
	for i, j := 0, len(series)-1; i < j; i, j = i+1, j-1 {
		series[i], series[j] = series[j], series[i]
	}
	return series, nil
}

// CategoryReport returns count and total for categories with at least one
// transaction, ordered by total descending.
func (s *reportService) CategoryReport(userID uint) ([]CategorySummary, error) {
	var rows []CategorySummary
	err := s.db.Model(&models.Transaction{}).
		Select("categories.id AS category_id, categories.name AS name, COUNT(transactions.id) AS count, SUM(transactions.amount) AS total").
		Joins("JOIN categories ON categories.id = transactions.category_id").
		Where("transactions.user_id = ?", userID).
		Group("categories.id, categories.name").
		Order("total DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return rows, nil
}

// TopExpenses returns the 10 largest single transactions, descending by amount.
func (s *reportService) TopExpenses(userID uint) ([]models.Transaction, error) {
	var transactions []models.Transaction
	if err := s.db.Preload("Category").
		Where("user_id = ?", userID).
		Order("amount DESC").
		Limit(10).
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return transactions, nil
}
