package employee

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/paycheck-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCreateRequest() CreateEmployeeRequest {
	return CreateEmployeeRequest{
		EmployeeID:    "E-001",
		DepartmentID:  1,
		DesignationID: 2,
		FirstName:     "Ada",
		LastName:      "Lovelace",
		Email:         "ada@example.com",
		JoiningDate:   "2023-01-10",
		Salary: SalaryInput{
			BasicSalary: decimal.NewFromInt(5000),
			GrossSalary: decimal.NewFromInt(6000),
		},
	}
}

func TestCreateEmployeeRequest_Validate(t *testing.T) {
	req := validCreateRequest()
	require.NoError(t, req.Validate())

	req.EmployeeID = ""
	req.Email = "not-an-email"
	req.JoiningDate = "10/01/2023"
	req.Salary.BasicSalary = decimal.NewFromInt(-1)

	var errs validator.ValidationErrors
	require.ErrorAs(t, req.Validate(), &errs)
	fields := errs.ToMap()
	for _, f := range []string{"employee_id", "email", "joining_date", "salary.basic_salary"} {
		assert.Contains(t, fields, f)
	}
}

func TestCreateEmployeeRequest_SalaryDefaults(t *testing.T) {
	req := validCreateRequest()
	assert.Equal(t, "2023-01-10", req.SalaryActiveFrom())

	values := req.Salary.HistoryValues(req.EmployeeID, PurposeInitial, req.SalaryActiveFrom())
	assert.Equal(t, "E-001", values["employee_id"])
	assert.Equal(t, int16(1), values["salary_purpose"])
	assert.Equal(t, time.Date(2023, 1, 10, 0, 0, 0, 0, time.UTC), values["active_from"])
	assert.NotNil(t, values["salary_details"])

	req.Salary.ActiveFrom = "2023-02-01"
	assert.Equal(t, "2023-02-01", req.SalaryActiveFrom())
}

func TestUpdateEmployeeRequest_Values(t *testing.T) {
	name := "Grace"
	req := UpdateEmployeeRequest{FirstName: &name}
	require.NoError(t, req.Validate())
	assert.Equal(t, map[string]any{"first_name": "Grace"}, req.Values())

	empty := UpdateEmployeeRequest{}
	assert.Error(t, empty.Validate())
}

func TestSalaryChangeRequest_Validate(t *testing.T) {
	req := SalaryChangeRequest{BasicSalary: decimal.NewFromInt(10), ActiveFrom: "2024-01-01", Purpose: PurposeIncrement}
	require.NoError(t, req.Validate())

	req.Purpose = PurposeInitial
	req.ActiveFrom = ""
	var errs validator.ValidationErrors
	require.ErrorAs(t, req.Validate(), &errs)
	assert.Contains(t, errs.ToMap(), "salary_purpose")
	assert.Contains(t, errs.ToMap(), "active_from")
}
