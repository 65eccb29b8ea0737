package settings

import (
	"context"

	"github.com/cmlabs-hris/paycheck-backend-go/internal/pkg/validator"
)

// GeneralKey is the setting_key of the general settings row.
const GeneralKey = "general"

// General is the free-form settings object kept for the back-office UI.
type General map[string]any

type UpdateRequest struct {
	Settings General `json:"settings" validate:"required"`
}

func (r *UpdateRequest) Validate() error {
	return validator.Struct(r)
}

// Service reads and replaces the general settings. Both operations are
// admin only.
type Service interface {
	Get(ctx context.Context) (General, error)
	Update(ctx context.Context, req UpdateRequest) (General, error)
}
