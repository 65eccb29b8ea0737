package payroll

import (
	"encoding/json"
	"testing"

	"github.com/cmlabs-hris/paycheck-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveRequest_DecodeAndValidate(t *testing.T) {
	body := `{
		"payroll_date": "2024-01-15",
		"total_salary": "0",
		"payroll_details": [
			{"employee_id": "E-1", "basic_salary": "1000", "gross_salary": "1200", "salary_details": {"earnings": {"1": 200}}},
			{"employee_id": "E-2", "basic_salary": 900, "gross_salary": 950, "salary_details": {"1": "50"}, "status": 2}
		]
	}`
	var req SaveRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))

	date, err := req.Validate()
	require.NoError(t, err)
	assert.Equal(t, "2024-01-31", date.Format(dateLayout))
	assert.Equal(t, "2150", req.Total().String())
	assert.Equal(t, DetailCurrent, req.Lines[0].DetailStatusOrDefault())
	assert.Equal(t, DetailArrear, req.Lines[1].DetailStatusOrDefault())
	assert.True(t, req.Lines[0].SalaryDetails[1].Equal(decimal.NewFromInt(200)))
}

func TestSaveRequest_Invalid(t *testing.T) {
	req := SaveRequest{PayrollDate: "2024-13-01", Lines: []LineItem{{EmployeeID: "E-1"}}}
	_, err := req.Validate()
	var errs validator.ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs.ToMap(), "payroll_date")

	req = SaveRequest{PayrollDate: "2024-01"}
	_, err = req.Validate()
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs.ToMap(), "payroll_details")
}

func TestSaveRequest_DuplicateEmployee(t *testing.T) {
	req := SaveRequest{
		PayrollDate: "2024-01",
		Lines: []LineItem{
			{EmployeeID: "E-1"},
			{EmployeeID: "E-2"},
			{EmployeeID: "E-1"},
		},
	}
	_, err := req.Validate()
	var errs validator.ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Equal(t, "employee E-1 already appears at line 1", errs.ToMap()["payroll_details[2].employee_id"])
}

func TestLineItem_Validate(t *testing.T) {
	line := LineItem{BasicSalary: decimal.NewFromInt(-1)}
	err := line.Validate()
	var errs validator.ValidationErrors
	require.ErrorAs(t, err, &errs)

	fields := errs.ToMap()
	assert.Contains(t, fields, "employee_id")
	assert.Contains(t, fields, "basic_salary")
	assert.Contains(t, fields, "salary_details")
}

func TestReportRequest_Validate(t *testing.T) {
	req := ReportRequest{From: "2023-01", To: "2023-03-10"}
	from, to, err := req.Validate()
	require.NoError(t, err)
	assert.Equal(t, "2023-01-01", from.Format(dateLayout))
	assert.Equal(t, "2023-03-31", to.Format(dateLayout))

	req = ReportRequest{From: "2023-05", To: "2023-03"}
	_, _, err = req.Validate()
	assert.Error(t, err)
}
