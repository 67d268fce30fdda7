package report

import (
	"time"

	"github.com/salespos/backend/internal/domain/report"
	"github.com/salespos/backend/internal/domain/shared"
)

// ReportService exposes the read-side sales and finance reports
type ReportService struct {
	salesReports   report.SalesReportRepository
	financeReports report.FinanceReportRepository
}

// NewReportService creates a new ReportService
func NewReportService(
	salesReports report.SalesReportRepository,
	financeReports report.FinanceReportRepository,
) *ReportService {
	return &ReportService{
		salesReports:   salesReports,
		financeReports: financeReports,
	}
}

// SalesByMonth returns completed sales grouped by month for the trailing
// number of months
func (s *ReportService) SalesByMonth(months int) ([]report.MonthlySales, error) {
	if months <= 0 {
		months = 12
	}
	if months > 36 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Months must be between 1 and 36")
	}
	return s.salesReports.GetSalesByMonth(months, time.Now())
}

// MonthlySummary aggregates one month of completed sales
func (s *ReportService) MonthlySummary(year, month int) (*report.MonthlySummary, error) {
	if year < 2000 || year > 2100 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Invalid year")
	}
	if month < 1 || month > 12 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Month must be between 1 and 12")
	}
	return s.salesReports.GetMonthlySummary(year, month)
}

// OverdueReceivables returns the collections view of open receivables
// past due
func (s *ReportService) OverdueReceivables() ([]report.OverdueReceivable, error) {
	return s.financeReports.GetOverdueReceivables(time.Now())
}

// UpcomingReceivables returns open receivables due within the given number
// of days
func (s *ReportService) UpcomingReceivables(days int) ([]report.UpcomingReceivable, error) {
	if days <= 0 {
		days = 30
	}
	if days > 365 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Days must be between 1 and 365")
	}
	return s.financeReports.GetUpcomingReceivables(time.Now(), days)
}
