package postgresql

import (
	"fmt"
	"math/big"

	"github.com/cmlabs-hris/paycheck-backend-go/internal/domain/record"
	"github.com/cmlabs-hris/paycheck-backend-go/internal/pkg/validator"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// binding ties an output key to the transform of the column it came from.
type binding struct {
	out       string
	transform Transform
}

// pipeline post-processes every row read from or returned by a table:
// driver values are normalized, column transforms run, then computed fields.
type pipeline struct {
	opts     record.Options
	bindings []binding
	computed []string
	fns      map[string]Computed
}

func newPipeline(base *tableSchema, projection []projected, opts record.Options) (*pipeline, error) {
	p := &pipeline{opts: opts, fns: map[string]Computed{}}

	for _, col := range projection {
		if t, ok := col.schema.transforms[col.column]; ok {
			p.bindings = append(p.bindings, binding{out: col.out, transform: t})
		}
	}

	for _, name := range opts.MutationFields {
		fn, ok := base.computed[name]
		if !ok {
			return nil, validator.New("mutation_fields", fmt.Sprintf("unknown computed field %q for %s", name, base.table))
		}
		p.computed = append(p.computed, name)
		p.fns[name] = fn
	}
	return p, nil
}

// writePipeline handles RETURNING * rows: every column, no computed fields.
func writePipeline(s *tableSchema) *pipeline {
	p, _ := newPipeline(s, s.projection("", nil), record.Options{})
	return p
}

func (p *pipeline) apply(raw map[string]any) (record.Row, error) {
	row := make(record.Row, len(raw)+len(p.bindings))
	for k, v := range raw {
		row[k] = normalize(v)
	}

	for _, b := range p.bindings {
		if !row.Has(b.out) {
			continue
		}
		fragment, err := b.transform(b.out, row[b.out], p.opts)
		if err != nil {
			return nil, err
		}
		row.Merge(fragment)
	}

	for _, name := range p.computed {
		row[name] = p.fns[name](row)
	}
	return row, nil
}

func (p *pipeline) applyAll(raw []map[string]any) ([]record.Row, error) {
	rows := make([]record.Row, 0, len(raw))
	for _, r := range raw {
		row, err := p.apply(r)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// normalize maps pgx scan results onto the value set a Row carries:
// int64, string, bool, time.Time, decimal.Decimal or nil.
func normalize(v any) any {
	switch x := v.(type) {
	case int16:
		return int64(x)
	case int32:
		return int64(x)
	case int:
		return int64(x)
	case float32:
		return decimal.NewFromFloat32(x)
	case float64:
		return decimal.NewFromFloat(x)
	case []byte:
		return string(x)
	case pgtype.Numeric:
		return numericToDecimal(x)
	default:
		return v
	}
}

func numericToDecimal(n pgtype.Numeric) any {
	if !n.Valid {
		return nil
	}
	if n.NaN || n.InfinityModifier != pgtype.Finite || n.Int == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(new(big.Int).Set(n.Int), n.Exp)
}
