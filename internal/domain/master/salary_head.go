package master

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/paycheck-backend-go/internal/domain/record"
	"github.com/cmlabs-hris/paycheck-backend-go/internal/domain/salaryhead"
)

var ErrSalaryHeadNotFound = fmt.Errorf("salary head %w", record.ErrNotFound)

// SalaryHeadService manages the salary head catalogue.
type SalaryHeadService interface {
	Create(ctx context.Context, req salaryhead.CreateRequest) (record.Row, error)
	Get(ctx context.Context, id int64) (record.Row, error)
	List(ctx context.Context, opts record.Options) ([]record.Row, int64, error)
	Update(ctx context.Context, id int64, req salaryhead.UpdateRequest) (record.Row, error)
	Delete(ctx context.Context, id int64) error

	// Classification buckets the active heads for payroll sheets.
	Classification(ctx context.Context) (salaryhead.Classification, error)
}
