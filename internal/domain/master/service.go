package master

import (
	"context"

	"github.com/cmlabs-hris/paycheck-backend-go/internal/domain/record"
)

// MasterService manages departments and designations.
type MasterService interface {
	Create(ctx context.Context, kind Kind, req CreateRequest) (record.Row, error)
	Get(ctx context.Context, kind Kind, id int64) (record.Row, error)
	List(ctx context.Context, kind Kind, opts record.Options) ([]record.Row, int64, error)
	Update(ctx context.Context, kind Kind, id int64, req UpdateRequest) (record.Row, error)
	Delete(ctx context.Context, kind Kind, id int64) error
}
