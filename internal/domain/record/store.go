package record

import "context"

// Input is a validated set of column values for a write.
type Input interface {
	Values() map[string]any
}

// Values is the plain map form of Input.
type Values map[string]any

func (v Values) Values() map[string]any { return v }

// Store is the generic table gateway. Every returned row has already passed
// through the table's mutation pipeline.
type Store interface {
	Table() Table
	All(ctx context.Context, opts Options) ([]Row, error)
	Find(ctx context.Context, id int64, opts Options) (Row, error)
	FindBy(ctx context.Context, criteria Criteria, opts Options) ([]Row, error)
	FindByColumn(ctx context.Context, column string, value any, opts Options) (Row, error)
	Create(ctx context.Context, in Input) (Row, error)
	Update(ctx context.Context, id int64, in Input) (Row, error)
	UpdateBy(ctx context.Context, criteria Criteria, in Input) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
	Count(ctx context.Context, opts Options) (int64, error)
}

// Transactor runs fn inside one database transaction. Stores called with the
// context passed to fn take part in that transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
