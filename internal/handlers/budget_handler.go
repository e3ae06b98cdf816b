package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "spendtrack/internal/errors"
	"spendtrack/internal/models"
	"spendtrack/internal/services"
)

// BudgetHandler handles budget-related requests.
type BudgetHandler struct {
	budgetService   services.BudgetServicer
	categoryService services.CategoryServicer
}

// NewBudgetHandler creates a new BudgetHandler.
func NewBudgetHandler(budgetService services.BudgetServicer, categoryService services.CategoryServicer) *BudgetHandler {
	return &BudgetHandler{
		budgetService:   budgetService,
		categoryService: categoryService,
	}
}

// BudgetRequest represents the budget form payload.
type BudgetRequest struct {
	CategoryID uint   `form:"category_id" json:"category_id" binding:"required"`
	Amount     string `form:"amount" json:"amount" binding:"required"`
	Period     string `form:"period" json:"period" binding:"required,budget_period"`
}

// ListBudgets returns every budget with its current-period spend, percentage,
// and status, plus the category list for the budget form.
func (h *BudgetHandler) ListBudgets(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgets, err := h.budgetService.ListBudgetStatuses(userID)
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
		"budgets":    budgets,
		"categories": categories,
	})
}

// UpsertBudget creates a budget or overwrites the amount of the existing one
// for the same (category, period).
func (h *BudgetHandler) UpsertBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req BudgetRequest
	if err := c.ShouldBind(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budget, created, err := h.budgetService.UpsertBudget(userID, req.CategoryID, amount, models.BudgetPeriod(req.Period))
	if err != nil {
		respondWithError(c, err)
		return
	}

	status := http.StatusOK
	message := "Budget updated successfully!"
	if created {
		status = http.StatusCreated
		message = "Budget created successfully!"
	}

	c.JSON(status, gin.H{
		"message": message,
		"budget":  budget,
	})
}

// DeleteBudget removes an owned budget.
func (h *BudgetHandler) DeleteBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.budgetService.DeleteBudget(userID, budgetID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Budget deleted successfully!"})
}
