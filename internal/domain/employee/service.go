package employee

import (
	"context"

	"github.com/cmlabs-hris/paycheck-backend-go/internal/domain/record"
)

// EmployeeService defines business logic for employee operations
type EmployeeService interface {
	List(ctx context.Context, opts record.Options) ([]record.Row, int64, error)

	// Get returns the employee with names and the salary in effect today
	Get(ctx context.Context, employeeID string) (record.Row, error)

	// Create writes the employee and the initial salary history row together
	Create(ctx context.Context, req CreateEmployeeRequest) (record.Row, error)

	Update(ctx context.Context, employeeID string, req UpdateEmployeeRequest) (record.Row, error)
	ChangeStatus(ctx context.Context, employeeID string, req StatusRequest) error
	Resign(ctx context.Context, employeeID string, req ResignRequest) error

	SalaryHistory(ctx context.Context, employeeID string) ([]record.Row, error)
	ChangeSalary(ctx context.Context, employeeID string, req SalaryChangeRequest) (record.Row, error)
}
