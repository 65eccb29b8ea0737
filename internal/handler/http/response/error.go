package response

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/paycheck-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/paycheck-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/paycheck-backend-go/internal/domain/master"
	"github.com/cmlabs-hris/paycheck-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/paycheck-backend-go/internal/domain/record"
	"github.com/cmlabs-hris/paycheck-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// A rolled back batch names its line before anything else
	var abort *record.TxAbortError
	if errors.As(err, &abort) {
		details := map[string]string{"line": strconv.Itoa(abort.Line)}
		if abort.EmployeeID != "" {
			details["employee_id"] = abort.EmployeeID
		}
		var lineErrs validator.ValidationErrors
		if errors.As(abort.Err, &lineErrs) {
			for field, msg := range lineErrs.ToMap() {
				details[field] = msg
			}
		}
		if errors.Is(abort.Err, record.ErrNotFound) {
			NotFound(w, abort.Error())
			return
		}
		TxAborted(w, abort.Error(), details)
		return
	}

	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrNoActor):
		Unauthorized(w, err.Error())
	case errors.Is(err, record.ErrForbidden):
		Forbidden(w, err.Error())

	// Payroll lifecycle
	case errors.Is(err, payroll.ErrPayrollNotEditable):
		Conflict(w, "Payroll can no longer be modified")
	case errors.Is(err, payroll.ErrInvalidStatusTransition):
		Conflict(w, err.Error())
	case errors.Is(err, payroll.ErrDetailIDRequired):
		ValidationError(w, map[string]string{"payroll_details_id": err.Error()})

	case errors.Is(err, master.ErrUnknownKind):
		NotFound(w, err.Error())

	// Employee domain errors
	case errors.Is(err, employee.ErrAlreadyResigned):
		Conflict(w, "Employee has already resigned")
	case errors.Is(err, employee.ErrResignBeforeJoined):
		ValidationError(w, map[string]string{"resign_date": err.Error()})

	// Storage kinds
	case errors.Is(err, record.ErrNotFound):
		NotFound(w, err.Error())
	case errors.Is(err, record.ErrDuplicate):
		Conflict(w, err.Error())

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
