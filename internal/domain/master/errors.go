package master

import (
	"errors"
	"fmt"

	"github.com/cmlabs-hris/paycheck-backend-go/internal/domain/record"
)

var (
	ErrDepartmentNotFound  = fmt.Errorf("department %w", record.ErrNotFound)
	ErrDesignationNotFound = fmt.Errorf("designation %w", record.ErrNotFound)
	ErrUnknownKind         = errors.New("unknown master data kind")
)

// NotFound returns the not-found error for kind.
func NotFound(kind Kind) error {
	if kind == KindDesignation {
		return ErrDesignationNotFound
	}
	return ErrDepartmentNotFound
}
