package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "spendtrack/internal/errors"
	"spendtrack/internal/pagination"
	"spendtrack/internal/services"
)

// TransactionHandler handles ledger requests.
type TransactionHandler struct {
	transactionService services.TransactionServicer
	categoryService    services.CategoryServicer
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionService services.TransactionServicer, categoryService services.CategoryServicer) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
		categoryService:    categoryService,
	}
}

// ExpenseRequest represents the add/edit expense form payload.
type ExpenseRequest struct {
	CategoryID uint   `form:"category_id" json:"category_id" binding:"required"`
	Amount     string `form:"amount" json:"amount" binding:"required"`
	Date       string `form:"date" json:"date" binding:"required,txn_date"`
	Note       string `form:"note" json:"note"`
}

// ExpenseFilterQuery represents the /expenses filter query parameters.
// All filters are optional and combine conjunctively. Category is bound as a
// string because the filter form submits an empty value for "all categories",
// which must mean no filter rather than category zero.
type ExpenseFilterQuery struct {
	Category string `form:"category"`
	DateFrom string `form:"date_from" binding:"omitempty,txn_date"`
	DateTo   string `form:"date_to" binding:"omitempty,txn_date"`
	Search   string `form:"search"`
}

// ListExpenses returns the filtered ledger with the filter echo, the
// category list for the filter form, and the sum over the filtered set.
func (h *TransactionHandler) ListExpenses(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var query ExpenseFilterQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	filter := services.TransactionFilter{
		Search: query.Search,
	}
	if query.Category != "" {
		categoryID, err := strconv.ParseUint(query.Category, 10, 32)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "category must be a number"))
			return
		}
		id := uint(categoryID)
		filter.CategoryID = &id
	}
	if query.DateFrom != "" {
		from, err := parseDate(query.DateFrom)
		if err != nil {
			respondWithError(c, err)
			return
		}
		filter.DateFrom = &from
	}
	if query.DateTo != "" {
		to, err := parseDate(query.DateTo)
		if err != nil {
			respondWithError(c, err)
			return
		}
		filter.DateTo = &to
	}

	result, total, err := h.transactionService.ListTransactions(userID, filter, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	categories, err := h.categoryService.ListCategories(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"txns":       result,
		"total":      total,
		"categories": categories,
		"filters": gin.H{
			"category":  query.Category,
			"date_from": query.DateFrom,
			"date_to":   query.DateTo,
			"search":    query.Search,
		},
	})
}

// NewExpense serves the add-expense form data: the category list and today's date.
func (h *TransactionHandler) NewExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	categories, err := h.categoryService.ListCategories(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"categories": categories,
		"today":      time.Now().Format(dateLayout),
	})
}

// AddExpense records a new transaction.
func (h *TransactionHandler) AddExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ExpenseRequest
	if err := c.ShouldBind(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		respondWithError(c, err)
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.transactionService.AddTransaction(userID, req.CategoryID, amount, date, req.Note)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Expense added successfully!",
		"txn":     transaction,
	})
}

// EditExpense serves the edit form data: the transaction and the category list.
func (h *TransactionHandler) EditExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.transactionService.GetTransactionByID(userID, transactionID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	categories, err := h.categoryService.ListCategories(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"txn":        transaction,
		"categories": categories,
	})
}

// UpdateExpense overwrites all fields of an owned transaction.
func (h *TransactionHandler) UpdateExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ExpenseRequest
	if err := c.ShouldBind(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		respondWithError(c, err)
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.transactionService.UpdateTransaction(userID, transactionID, req.CategoryID, amount, date, req.Note)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Expense updated successfully!",
		"txn":     transaction,
	})
}

// DeleteExpense removes an owned transaction; deleting an absent one is a no-op.
func (h *TransactionHandler) DeleteExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.transactionService.DeleteTransaction(userID, transactionID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Expense deleted successfully!"})
}
