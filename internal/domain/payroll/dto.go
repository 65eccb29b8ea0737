package payroll

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/paycheck-backend-go/internal/domain/record"
	"github.com/cmlabs-hris/paycheck-backend-go/internal/domain/salaryhead"
	"github.com/cmlabs-hris/paycheck-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// GenerateRequest asks for a payroll preview of one month.
type GenerateRequest struct {
	PayrollDate   string `json:"payroll_date" validate:"required"`
	DepartmentID  *int64 `json:"department_id,omitempty" validate:"omitempty,gt=0"`
	DesignationID *int64 `json:"designation_id,omitempty" validate:"omitempty,gt=0"`
}

// Validate checks the request and returns the normalized month-end date.
func (r *GenerateRequest) Validate() (time.Time, error) {
	if err := validator.Struct(r); err != nil {
		return time.Time{}, err
	}
	date, err := ParseMonth(r.PayrollDate)
	if err != nil {
		return time.Time{}, validator.New("payroll_date", "payroll_date must be YYYY-MM-DD or YYYY-MM")
	}
	return date, nil
}

// LineItem is one employee row of a payroll sheet.
type LineItem struct {
	PayrollDetailID *int64             `json:"payroll_details_id,omitempty"`
	EmployeeID      string             `json:"employee_id" validate:"required,max=64"`
	BasicSalary     decimal.Decimal    `json:"basic_salary" validate:"gte=0"`
	GrossSalary     decimal.Decimal    `json:"gross_salary" validate:"gte=0"`
	SalaryDetails   salaryhead.Details `json:"salary_details" validate:"required"`
	Status          DetailStatus       `json:"status,omitempty" validate:"omitempty,oneof=1 2"`
}

func (l *LineItem) Validate() error {
	return validator.Struct(l)
}

// DetailStatusOrDefault treats an omitted status as Current.
func (l *LineItem) DetailStatusOrDefault() DetailStatus {
	if l.Status == 0 {
		return DetailCurrent
	}
	return l.Status
}

// SaveRequest carries a reviewed payroll sheet to be committed.
type SaveRequest struct {
	PayrollDate   string          `json:"payroll_date" validate:"required"`
	DepartmentID  *int64          `json:"department_id,omitempty" validate:"omitempty,gt=0"`
	DesignationID *int64          `json:"designation_id,omitempty" validate:"omitempty,gt=0"`
	TotalSalary   decimal.Decimal `json:"total_salary" validate:"gte=0"`
	Remarks       *string         `json:"remarks,omitempty"`
	Lines         []LineItem      `json:"payroll_details" validate:"required,min=1"`
}

// Validate checks the header and returns the normalized month-end date. Line
// items are validated one by one by the persister.
func (r *SaveRequest) Validate() (time.Time, error) {
	if err := validator.Struct(r); err != nil {
		return time.Time{}, err
	}

	date, err := ParseMonth(r.PayrollDate)
	if err != nil {
		return time.Time{}, validator.New("payroll_date", "payroll_date must be YYYY-MM-DD or YYYY-MM")
	}

	seen := make(map[string]int, len(r.Lines))
	var errs validator.ValidationErrors
	for i, line := range r.Lines {
		if line.EmployeeID == "" {
			continue
		}
		if first, dup := seen[line.EmployeeID]; dup {
			errs = append(errs, validator.ValidationError{
				Field:   fmt.Sprintf("payroll_details[%d].employee_id", i),
				Message: fmt.Sprintf("employee %s already appears at line %d", line.EmployeeID, first+1),
			})
			continue
		}
		seen[line.EmployeeID] = i
	}
	if len(errs) > 0 {
		return time.Time{}, errs
	}
	return date, nil
}

// Total returns TotalSalary, or the sum of line gross salaries when omitted.
func (r *SaveRequest) Total() decimal.Decimal {
	if !r.TotalSalary.IsZero() {
		return r.TotalSalary
	}
	total := decimal.Zero
	for _, line := range r.Lines {
		total = total.Add(line.GrossSalary)
	}
	return total
}

// StatusRequest moves a payroll through its lifecycle.
type StatusRequest struct {
	Status  Status  `json:"status" validate:"oneof=0 1 2 3 4"`
	Remarks *string `json:"remarks,omitempty"`
}

func (r *StatusRequest) Validate() error {
	return validator.Struct(r)
}

// ReportRequest selects payrolls over a range of months.
type ReportRequest struct {
	From          string `json:"from" validate:"required"`
	To            string `json:"to" validate:"required"`
	DepartmentID  *int64 `json:"department_id,omitempty" validate:"omitempty,gt=0"`
	DesignationID *int64 `json:"designation_id,omitempty" validate:"omitempty,gt=0"`
	Status        string `json:"status,omitempty"`
}

// Validate returns the first day of From's month and the last day of To's month.
func (r *ReportRequest) Validate() (time.Time, time.Time, error) {
	if err := validator.Struct(r); err != nil {
		return time.Time{}, time.Time{}, err
	}
	from, err := ParseMonth(r.From)
	if err != nil {
		return time.Time{}, time.Time{}, validator.New("from", "from must be YYYY-MM-DD or YYYY-MM")
	}
	to, err := ParseMonth(r.To)
	if err != nil {
		return time.Time{}, time.Time{}, validator.New("to", "to must be YYYY-MM-DD or YYYY-MM")
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, validator.New("to", "to must not be before from")
	}
	first, _ := MonthBounds(from)
	return first, to, nil
}

// LedgerRequest selects one employee's payroll lines, optionally by date range.
type LedgerRequest struct {
	EmployeeID string `json:"employee_id" validate:"required"`
	From       string `json:"from,omitempty"`
	To         string `json:"to,omitempty"`
}

// Candidate is one employee of a payroll preview.
type Candidate struct {
	EmployeeID      string               `json:"employee_id"`
	FullName        string               `json:"full_name"`
	DepartmentID    int64                `json:"department_id"`
	DepartmentName  string               `json:"department_name"`
	DesignationID   int64                `json:"designation_id"`
	DesignationName string               `json:"designation_name"`
	JoiningDate     string               `json:"joining_date"`
	HasSalary       bool                 `json:"has_salary"`
	SalaryHistoryID int64                `json:"salary_history_id,omitempty"`
	ActiveFrom      string               `json:"active_from,omitempty"`
	BasicSalary     decimal.Decimal      `json:"basic_salary"`
	GrossSalary     decimal.Decimal      `json:"gross_salary"`
	SalaryDetails   salaryhead.Details   `json:"salary_details"`
	Breakdown       salaryhead.Breakdown `json:"salary_breakdown"`
}

// Preview is the read-only result of payroll generation.
type Preview struct {
	PayrollDate string                    `json:"payroll_date"`
	SalaryHeads salaryhead.Classification `json:"salary_heads"`
	Employees   []Candidate               `json:"employees"`
	TotalBasic  decimal.Decimal           `json:"total_basic_salary"`
	TotalGross  decimal.Decimal           `json:"total_gross_salary"`
}

// Sheet is a stored payroll with its detail lines.
type Sheet struct {
	Payroll     record.Row                `json:"payroll"`
	SalaryHeads salaryhead.Classification `json:"salary_heads"`
	Details     []record.Row              `json:"payroll_details"`
}
