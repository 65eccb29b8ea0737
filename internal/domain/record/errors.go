package record

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
	ErrForbidden = errors.New("not authorized to perform this action")
)

// TxAbortError reports the line item that rolled back a batch write.
type TxAbortError struct {
	Line       int
	EmployeeID string
	Err        error
}

func (e *TxAbortError) Error() string {
	if e.EmployeeID == "" {
		return fmt.Sprintf("transaction aborted at line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("transaction aborted at line %d (employee %s): %v", e.Line, e.EmployeeID, e.Err)
}

func (e *TxAbortError) Unwrap() error {
	return e.Err
}
