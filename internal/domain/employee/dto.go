package employee

import (
	"github.com/cmlabs-hris/paycheck-backend-go/internal/domain/salaryhead"
	"github.com/cmlabs-hris/paycheck-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// SalaryInput is the salary structure stored as one salary history row.
type SalaryInput struct {
	BasicSalary   decimal.Decimal    `json:"basic_salary" validate:"gte=0"`
	GrossSalary   decimal.Decimal    `json:"gross_salary" validate:"gte=0"`
	SalaryDetails salaryhead.Details `json:"salary_details"`
	ActiveFrom    string             `json:"active_from,omitempty" validate:"omitempty,date"`
	Remarks       *string            `json:"remarks,omitempty"`
}

// HistoryValues maps the salary input to salary history columns.
func (s SalaryInput) HistoryValues(employeeID string, purpose SalaryPurpose, activeFrom string) map[string]any {
	details := s.SalaryDetails
	if details == nil {
		details = salaryhead.Details{}
	}
	return map[string]any{
		"employee_id":    employeeID,
		"basic_salary":   s.BasicSalary,
		"gross_salary":   s.GrossSalary,
		"salary_details": details,
		"active_from":    parseDate(activeFrom),
		"remarks":        s.Remarks,
		"salary_purpose": int16(purpose),
		"status":         int16(1),
	}
}

type CreateEmployeeRequest struct {
	EmployeeID        string      `json:"employee_id" validate:"required,max=64"`
	UserID            int64       `json:"user_id" validate:"gte=0"`
	DepartmentID      int64       `json:"department_id" validate:"required,gt=0"`
	DesignationID     int64       `json:"designation_id" validate:"required,gt=0"`
	FirstName         string      `json:"first_name" validate:"required,max=255"`
	LastName          string      `json:"last_name" validate:"max=255"`
	Email             string      `json:"email" validate:"omitempty,email"`
	Phone             string      `json:"phone" validate:"max=64"`
	BankName          *string     `json:"bank_name,omitempty"`
	BankAccountNumber *string     `json:"bank_account_number,omitempty"`
	TaxNumber         *string     `json:"tax_number,omitempty"`
	Address           string      `json:"address"`
	JoiningDate       string      `json:"joining_date" validate:"required,date"`
	Salary            SalaryInput `json:"salary"`
}

func (r *CreateEmployeeRequest) Validate() error {
	return validator.Struct(r)
}

// Values maps the request to employee columns.
func (r *CreateEmployeeRequest) Values() map[string]any {
	return map[string]any{
		"employee_id":         r.EmployeeID,
		"user_id":             r.UserID,
		"department_id":       r.DepartmentID,
		"designation_id":      r.DesignationID,
		"first_name":          r.FirstName,
		"last_name":           r.LastName,
		"email":               r.Email,
		"phone":               r.Phone,
		"bank_name":           r.BankName,
		"bank_account_number": r.BankAccountNumber,
		"tax_number":          r.TaxNumber,
		"address":             r.Address,
		"joining_date":        parseDate(r.JoiningDate),
		"status":              int16(StatusActive),
	}
}

// SalaryActiveFrom defaults the initial salary to the joining date.
func (r *CreateEmployeeRequest) SalaryActiveFrom() string {
	if r.Salary.ActiveFrom != "" {
		return r.Salary.ActiveFrom
	}
	return r.JoiningDate
}

type UpdateEmployeeRequest struct {
	DepartmentID      *int64  `json:"department_id,omitempty" validate:"omitempty,gt=0"`
	DesignationID     *int64  `json:"designation_id,omitempty" validate:"omitempty,gt=0"`
	FirstName         *string `json:"first_name,omitempty" validate:"omitempty,max=255"`
	LastName          *string `json:"last_name,omitempty" validate:"omitempty,max=255"`
	Email             *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone             *string `json:"phone,omitempty" validate:"omitempty,max=64"`
	BankName          *string `json:"bank_name,omitempty"`
	BankAccountNumber *string `json:"bank_account_number,omitempty"`
	TaxNumber         *string `json:"tax_number,omitempty"`
	Address           *string `json:"address,omitempty"`
	JoiningDate       *string `json:"joining_date,omitempty" validate:"omitempty,date"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	if err := validator.Struct(r); err != nil {
		return err
	}
	if len(r.Values()) == 0 {
		return validator.New("body", "at least one field must be provided")
	}
	return nil
}

// Values returns only the provided columns.
func (r *UpdateEmployeeRequest) Values() map[string]any {
	values := map[string]any{}
	if r.DepartmentID != nil {
		values["department_id"] = *r.DepartmentID
	}
	if r.DesignationID != nil {
		values["designation_id"] = *r.DesignationID
	}
	if r.FirstName != nil {
		values["first_name"] = *r.FirstName
	}
	if r.LastName != nil {
		values["last_name"] = *r.LastName
	}
	if r.Email != nil {
		values["email"] = *r.Email
	}
	if r.Phone != nil {
		values["phone"] = *r.Phone
	}
	if r.BankName != nil {
		values["bank_name"] = *r.BankName
	}
	if r.BankAccountNumber != nil {
		values["bank_account_number"] = *r.BankAccountNumber
	}
	if r.TaxNumber != nil {
		values["tax_number"] = *r.TaxNumber
	}
	if r.Address != nil {
		values["address"] = *r.Address
	}
	if r.JoiningDate != nil {
		values["joining_date"] = parseDate(*r.JoiningDate)
	}
	return values
}

// SalaryChangeRequest appends an increment or promotion to the salary history.
type SalaryChangeRequest struct {
	BasicSalary   decimal.Decimal    `json:"basic_salary" validate:"gte=0"`
	GrossSalary   decimal.Decimal    `json:"gross_salary" validate:"gte=0"`
	SalaryDetails salaryhead.Details `json:"salary_details"`
	ActiveFrom    string             `json:"active_from" validate:"required,date"`
	Remarks       *string            `json:"remarks,omitempty"`
	Purpose       SalaryPurpose      `json:"salary_purpose" validate:"oneof=2 3"`
}

func (r *SalaryChangeRequest) Validate() error {
	return validator.Struct(r)
}

func (r *SalaryChangeRequest) Salary() SalaryInput {
	return SalaryInput{
		BasicSalary:   r.BasicSalary,
		GrossSalary:   r.GrossSalary,
		SalaryDetails: r.SalaryDetails,
		ActiveFrom:    r.ActiveFrom,
		Remarks:       r.Remarks,
	}
}

type ResignRequest struct {
	ResignDate string `json:"resign_date" validate:"required,date"`
}

func (r *ResignRequest) Validate() error {
	return validator.Struct(r)
}

type StatusRequest struct {
	Status Status `json:"status" validate:"oneof=0 1"`
}

func (r *StatusRequest) Validate() error {
	return validator.Struct(r)
}
