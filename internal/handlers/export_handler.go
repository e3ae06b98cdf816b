package handlers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"spendtrack/internal/services"
)

// ExportHandler streams ledger exports.
type ExportHandler struct {
	transactionService services.TransactionServicer
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(transactionService services.TransactionServicer) *ExportHandler {
	return &ExportHandler{transactionService: transactionService}
}

// ExportCSV writes the user's full transaction history as a CSV attachment,
// newest first.
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	rows, err := h.transactionService.ExportRows(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	filename := fmt.Sprintf("expenses_%s.csv", time.Now().Format("20060102"))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Status(http.StatusOK)

	w := csv.NewWriter(c.Writer)
	_ = w.Write([]string{"Date", "Category", "Amount", "Note"})
	for _, row := range rows {
		_ = w.Write([]string{
			row.Date.Format(dateLayout),
			row.Category,
			formatAmount(row.Amount),
			row.Note,
		})
	}
	w.Flush()
}

// formatAmount renders a decimal without trailing zeros, so 25.50 exports
// as "25.5" and 10.00 as "10".
func formatAmount(d decimal.Decimal) string {
	return d.Truncate(2).String()
}
