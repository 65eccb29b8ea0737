package salaryhead

import (
	"github.com/cmlabs-hris/paycheck-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateRequest struct {
	Name              string          `json:"head_name" validate:"required,max=255"`
	Kind              Kind            `json:"head_type" validate:"oneof=1 2"`
	Amount            decimal.Decimal `json:"head_amount" validate:"gte=0"`
	IsPercentage      bool            `json:"is_percentage"`
	IsVariable        bool            `json:"is_variable"`
	IsTaxable         *bool           `json:"is_taxable,omitempty"`
	IsPersonalSavings bool            `json:"is_personal_savings"`
	Priority          int             `json:"priority" validate:"gte=0"`
	Status            *int16          `json:"status,omitempty" validate:"omitempty,oneof=0 1"`
}

func (r *CreateRequest) Validate() error {
	if err := validator.Struct(r); err != nil {
		return err
	}
	if r.IsPercentage && r.Amount.GreaterThan(decimal.NewFromInt(100)) {
		return validator.New("head_amount", "head_amount must not exceed 100 for a percentage head")
	}
	return nil
}

func (r *CreateRequest) Values() map[string]any {
	taxable := true
	if r.IsTaxable != nil {
		taxable = *r.IsTaxable
	}
	status := StatusActive
	if r.Status != nil {
		status = *r.Status
	}
	return map[string]any{
		"head_name":           r.Name,
		"head_type":           int16(r.Kind),
		"head_amount":         r.Amount,
		"is_percentage":       r.IsPercentage,
		"is_variable":         r.IsVariable,
		"is_taxable":          taxable,
		"is_personal_savings": r.IsPersonalSavings,
		"priority":            r.Priority,
		"status":              status,
	}
}

type UpdateRequest struct {
	Name              *string          `json:"head_name,omitempty" validate:"omitempty,min=1,max=255"`
	Kind              *Kind            `json:"head_type,omitempty" validate:"omitempty,oneof=1 2"`
	Amount            *decimal.Decimal `json:"head_amount,omitempty"`
	IsPercentage      *bool            `json:"is_percentage,omitempty"`
	IsVariable        *bool            `json:"is_variable,omitempty"`
	IsTaxable         *bool            `json:"is_taxable,omitempty"`
	IsPersonalSavings *bool            `json:"is_personal_savings,omitempty"`
	Priority          *int             `json:"priority,omitempty" validate:"omitempty,gte=0"`
	Status            *int16           `json:"status,omitempty" validate:"omitempty,oneof=0 1"`
}

func (r *UpdateRequest) Validate() error {
	if err := validator.Struct(r); err != nil {
		return err
	}
	if r.Amount != nil && r.Amount.IsNegative() {
		return validator.New("head_amount", "head_amount must be at least 0")
	}
	if len(r.Values()) == 0 {
		return validator.New("body", "at least one field must be provided")
	}
	return nil
}

// Values returns only the provided columns.
func (r *UpdateRequest) Values() map[string]any {
	values := map[string]any{}
	if r.Name != nil {
		values["head_name"] = *r.Name
	}
	if r.Kind != nil {
		values["head_type"] = int16(*r.Kind)
	}
	if r.Amount != nil {
		values["head_amount"] = *r.Amount
	}
	if r.IsPercentage != nil {
		values["is_percentage"] = *r.IsPercentage
	}
	if r.IsVariable != nil {
		values["is_variable"] = *r.IsVariable
	}
	if r.IsTaxable != nil {
		values["is_taxable"] = *r.IsTaxable
	}
	if r.IsPersonalSavings != nil {
		values["is_personal_savings"] = *r.IsPersonalSavings
	}
	if r.Priority != nil {
		values["priority"] = *r.Priority
	}
	if r.Status != nil {
		values["status"] = *r.Status
	}
	return values
}
