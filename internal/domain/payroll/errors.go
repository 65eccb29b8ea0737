package payroll

import (
	"errors"
	"fmt"

	"github.com/cmlabs-hris/paycheck-backend-go/internal/domain/record"
)

var (
	ErrPayrollNotFound         = fmt.Errorf("payroll %w", record.ErrNotFound)
	ErrPayrollDetailNotFound   = fmt.Errorf("payroll detail %w", record.ErrNotFound)
	ErrPayrollExistsForMonth   = fmt.Errorf("%w: a payroll is already open for this month", record.ErrDuplicate)
	ErrPayrollNotEditable      = errors.New("payroll can no longer be modified")
	ErrInvalidStatusTransition = errors.New("payroll status transition is not allowed")
	ErrDetailIDRequired        = errors.New("payroll_details_id is required when updating a payroll sheet")
)
