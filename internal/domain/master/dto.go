package master

import (
	"github.com/cmlabs-hris/paycheck-backend-go/internal/pkg/validator"
)

// Kind selects the master table an operation works on.
type Kind string

const (
	KindDepartment  Kind = "department"
	KindDesignation Kind = "designation"
)

// CreateRequest represents the request structure for creating a department or designation.
type CreateRequest struct {
	Name   string `json:"name"`
	Status *int16 `json:"status,omitempty"`
}

func (r *CreateRequest) Validate() error {
	var errs validator.ValidationErrors

	// Name
	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}
	if len(r.Name) > 255 {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not exceed 255 characters",
		})
	}

	// Status
	if r.Status != nil && *r.Status != 0 && *r.Status != 1 {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be 0 or 1",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

func (r *CreateRequest) Values() map[string]any {
	status := int16(1)
	if r.Status != nil {
		status = *r.Status
	}
	return map[string]any{"name": r.Name, "status": status}
}

// UpdateRequest represents the request structure for updating a department or designation.
type UpdateRequest struct {
	Name   *string `json:"name,omitempty"`
	Status *int16  `json:"status,omitempty"`
}

func (r *UpdateRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name == nil && r.Status == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "body",
			Message: "name or status must be provided",
		})
	}

	// Name
	if r.Name != nil {
		if validator.IsEmpty(*r.Name) {
			errs = append(errs, validator.ValidationError{
				Field:   "name",
				Message: "name must not be empty",
			})
		}
		if len(*r.Name) > 255 {
			errs = append(errs, validator.ValidationError{
				Field:   "name",
				Message: "name must not exceed 255 characters",
			})
		}
	}

	// Status
	if r.Status != nil && *r.Status != 0 && *r.Status != 1 {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be 0 or 1",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

func (r *UpdateRequest) Values() map[string]any {
	values := map[string]any{}
	if r.Name != nil {
		values["name"] = *r.Name
	}
	if r.Status != nil {
		values["status"] = *r.Status
	}
	return values
}
