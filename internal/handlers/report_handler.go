package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"spendtrack/internal/services"
)

// ReportHandler serves the read-only derived views over the ledger.
type ReportHandler struct {
	reportService services.ReportServicer
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService services.ReportServicer) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Dashboard returns the dashboard summary: totals, counts, recent
// transactions, category breakdown, and the trailing-6-month series.
func (h *ReportHandler) Dashboard(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.reportService.DashboardSummary(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// Reports returns the monthly, per-category, and top-expense reports.
func (h *ReportHandler) Reports(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	monthly, err := h.reportService.MonthlyReport(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	categories, err := h.reportService.CategoryReport(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	topExpenses, err := h.reportService.TopExpenses(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"monthly":      monthly,
		"categories":   categories,
		"top_expenses": topExpenses,
	})
}

// ChartData returns chart-ready series as a JSON array. type=category gives
// per-category totals; any other value falls back to the trailing-12-month
// series in chronological order.
func (h *ReportHandler) ChartData(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if c.DefaultQuery("type", "category") == "category" {
		data, err := h.reportService.CategorySeries(userID)
		if err != nil {
			respondWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, data)
		return
	}

	data, err := h.reportService.MonthlySeries(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, data)
}
