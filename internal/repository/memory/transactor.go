package memory

import (
	"context"

	"github.com/cmlabs-hris/paycheck-backend-go/internal/domain/record"
)

// Transactor restores every registered store when fn fails.
type Transactor struct {
	stores []*Store

	// Commits and Rollbacks count finished transactions.
	Commits   int
	Rollbacks int
}

func NewTransactor(stores ...*Store) *Transactor {
	return &Transactor{stores: stores}
}

func (t *Transactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	rows := make([][]record.Row, len(t.stores))
	next := make([]int64, len(t.stores))
	for i, s := range t.stores {
		rows[i], next[i] = s.snapshot()
	}

	if err := fn(ctx); err != nil {
		for i, s := range t.stores {
			s.restore(rows[i], next[i])
		}
		t.Rollbacks++
		return err
	}
	t.Commits++
	return nil
}
