package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	reportapp "github.com/salespos/backend/internal/application/report"
)

// ReportHandler handles report-related API endpoints
type ReportHandler struct {
	BaseHandler
	reportService *reportapp.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *reportapp.ReportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
	}
}

// SalesByMonth returns completed sales totals grouped by month,
// including months with no sales
func (h *ReportHandler) SalesByMonth(c *gin.Context) {
	months, err := strconv.Atoi(c.DefaultQuery("months", "12"))
	if err != nil {
		h.BadRequest(c, "Invalid months parameter")
		return
	}

	result, err := h.reportService.SalesByMonth(months)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// MonthlySummary returns the sales summary for a single month,
// broken down by payment method
func (h *ReportHandler) MonthlySummary(c *gin.Context) {
	now := time.Now()

	year, err := strconv.Atoi(c.DefaultQuery("year", strconv.Itoa(now.Year())))
	if err != nil {
		h.BadRequest(c, "Invalid year parameter")
		return
	}
	month, err := strconv.Atoi(c.DefaultQuery("month", strconv.Itoa(int(now.Month()))))
	if err != nil {
		h.BadRequest(c, "Invalid month parameter")
		return
	}

	result, err := h.reportService.MonthlySummary(year, month)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// OverdueReceivables lists open receivables past their due date
func (h *ReportHandler) OverdueReceivables(c *gin.Context) {
	result, err := h.reportService.OverdueReceivables()
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// UpcomingReceivables lists open receivables due within the given window
func (h *ReportHandler) UpcomingReceivables(c *gin.Context) {
	days, err := strconv.Atoi(c.DefaultQuery("days", "30"))
	if err != nil {
		h.BadRequest(c, "Invalid days parameter")
		return
	}

	result, err := h.reportService.UpcomingReceivables(days)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
