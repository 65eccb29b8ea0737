package dashboard

import (
	"github.com/cmlabs-hris/paycheck-backend-go/internal/domain/record"
	"github.com/shopspring/decimal"
)

// MonthlyTotal is one bar of the payroll trend chart.
type MonthlyTotal struct {
	PayrollDate string          `json:"payroll_date"` // Format: "YYYY-MM-DD"
	Month       string          `json:"month"`        // Format: "YYYY-MM"
	TotalSalary decimal.Decimal `json:"total_salary"`
	Status      string          `json:"status"`
}

// DashboardResponse is the combined response for the main dashboard endpoint
type DashboardResponse struct {
	ActiveEmployees int64          `json:"active_employees"`
	PayrollTrend    []MonthlyTotal `json:"payroll_trend"` // oldest first
	LastPayroll     record.Row     `json:"last_payroll"`  // nil when no payroll exists
}
