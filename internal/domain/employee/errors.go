package employee

import (
	"errors"
	"fmt"

	"github.com/cmlabs-hris/paycheck-backend-go/internal/domain/record"
)

var (
	ErrEmployeeNotFound   = fmt.Errorf("employee %w", record.ErrNotFound)
	ErrEmployeeIDExists   = fmt.Errorf("%w: employee id is already taken", record.ErrDuplicate)
	ErrAlreadyResigned    = errors.New("employee has already resigned")
	ErrResignBeforeJoined = errors.New("resign date cannot be before joining date")
)
