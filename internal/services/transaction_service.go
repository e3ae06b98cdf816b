package services

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "spendtrack/internal/errors"
	"spendtrack/internal/models"
	"spendtrack/internal/pagination"
)

// transactionService handles ledger business logic.
type transactionService struct {
	db              *gorm.DB
	categoryService CategoryServicer
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB, categoryService CategoryServicer) TransactionServicer {
	return &transactionService{
		db:              db,
		categoryService: categoryService,
	}
}

// AddTransaction records a new expense. The category must belong to the
// acting user; attaching another user's category is treated as not found.
func (s *transactionService) AddTransaction(
	userID, categoryID uint,
	amount decimal.Decimal,
	date time.Time,
	note string,
) (*models.Transaction, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be a positive number")
	}
	if date.IsZero() {
		date = time.Now()
	}

	if _, err := s.categoryService.GetCategoryByID(userID, categoryID); err != nil {
		return nil, err
	}

	transaction := &models.Transaction{
		UserID:     userID,
		CategoryID: categoryID,
		Amount:     amount,
		Date:       date,
		Note:       strings.TrimSpace(note),
	}

	if err := s.db.Create(transaction).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return transaction, nil
}

// GetTransactionByID returns a transaction by ID if it belongs to the user.
func (s *transactionService) GetTransactionByID(userID, transactionID uint) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.Preload("Category").
		Where("id = ? AND user_id = ?", transactionID, userID).
		First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

// UpdateTransaction overwrites all fields of an owned transaction.
func (s *transactionService) UpdateTransaction(
	userID, transactionID, categoryID uint,
	amount decimal.Decimal,
	date time.Time,
	note string,
) (*models.Transaction, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be a positive number")
	}

	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return nil, err
	}

	if _, err := s.categoryService.GetCategoryByID(userID, categoryID); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"category_id": categoryID,
		"amount":      amount,
		"date":        date,
		"note":        strings.TrimSpace(note),
	}
	if err := s.db.Model(transaction).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return s.GetTransactionByID(userID, transactionID)
}

// DeleteTransaction removes an owned transaction. Deleting a transaction
// that does not exist is a silent no-op; delete is idempotent.
func (s *transactionService) DeleteTransaction(userID, transactionID uint) error {
	if err := s.db.
		Where("id = ? AND user_id = ?", transactionID, userID).
		Delete(&models.Transaction{}).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// filteredQuery builds the base query for the user's transactions with all
// active filter predicates applied conjunctively. Every condition is a
// parameterized clause; no SQL is assembled from user input.
func (s *transactionService) filteredQuery(userID uint, filter TransactionFilter) *gorm.DB {
	q := s.db.Model(&models.Transaction{}).
		Joins("JOIN categories ON categories.id = transactions.category_id").
		Where("transactions.user_id = ?", userID)

	if filter.CategoryID != nil {
		q = q.Where("transactions.category_id = ?", *filter.CategoryID)
	}
	if filter.DateFrom != nil {
		q = q.Where("transactions.date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		q = q.Where("transactions.date <= ?", *filter.DateTo)
	}
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		q = q.Where("LOWER(transactions.note) LIKE ? OR LOWER(categories.name) LIKE ?", pattern, pattern)
	}

	return q
}

// ListTransactions returns one page of the filtered ledger, ordered by date
// descending with id descending as the same-day tie-break, together with the
// sum of amounts over the entire filtered set.
func (s *transactionService) ListTransactions(
	userID uint,
	filter TransactionFilter,
	page pagination.PageRequest,
) (*pagination.PageResponse[models.Transaction], decimal.Decimal, error) {
	page.Defaults()

	var totalItems int64
	if err := s.filteredQuery(userID, filter).Count(&totalItems).Error; err != nil {
		return nil, decimal.Zero, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var totalAmount decimal.Decimal
	if err := s.filteredQuery(userID, filter).
		Select("COALESCE(SUM(transactions.amount), 0)").
		Scan(&totalAmount).Error; err != nil {
		return nil, decimal.Zero, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := s.filteredQuery(userID, filter).
		Preload("Category").
		Scopes(pagination.Paginate(page)).
		Order("transactions.date DESC, transactions.id DESC").
		Find(&transactions).Error; err != nil {
		return nil, decimal.Zero, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, totalAmount, nil
}

// ExportRows returns all of the user's transactions ordered by date
// descending as flat rows for CSV serialization.
func (s *transactionService) ExportRows(userID uint) ([]ExportRow, error) {
	var transactions []models.Transaction
	if err := s.db.Preload("Category").
		Where("user_id = ?", userID).
		Order("date DESC, id DESC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	rows := make([]ExportRow, 0, len(transactions))
	for _, t := range transactions {
		rows = append(rows, ExportRow{
			Date:     t.Date,
			Category: t.Category.Name,
			Amount:   t.Amount,
			Note:     t.Note,
		})
	}
	return rows, nil
}
