// Package memory is an in-process record.Store used by service tests. It
// supports base-table filtering, paging and transactions; relations are not
// resolved.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cmlabs-hris/paycheck-backend-go/internal/domain/record"
)

// Store keeps rows of one table in insertion order.
type Store struct {
	mu     sync.Mutex
	table  record.Table
	rows   []record.Row
	nextID int64

	// Writes counts successful Create, Update, UpdateBy and Delete calls,
	// including those later rolled back.
	Writes int

	// BeforeWrite may reject a write; the error is returned unchanged.
	BeforeWrite func(op string, values map[string]any) error
}

func NewStore(table record.Table, seed ...record.Row) *Store {
	s := &Store{table: table, nextID: 1}
	for _, row := range seed {
		r := row.Clone()
		if r.ID() == 0 {
			r["id"] = s.nextID
		}
		if r.ID() >= s.nextID {
			s.nextID = r.ID() + 1
		}
		s.rows = append(s.rows, r)
	}
	return s
}

func (s *Store) Table() record.Table {
	return s.table
}

// Rows returns a copy of every stored row.
func (s *Store) Rows() []record.Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]record.Row, len(s.rows))
	for i, r := range s.rows {
		out[i] = r.Clone()
	}
	return out
}

func (s *Store) All(_ context.Context, opts record.Options) ([]record.Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matched, err := s.filter(opts)
	if err != nil {
		return nil, err
	}

	orderBy := opts.OrderBy
	if orderBy == "" {
		orderBy = "id"
	}
	desc := strings.EqualFold(string(opts.Order), string(record.OrderDesc))
	sort.SliceStable(matched, func(i, j int) bool {
		c, _ := compare(matched[i][orderBy], matched[j][orderBy])
		if c == 0 {
			c, _ = compare(matched[i]["id"], matched[j]["id"])
		}
		if desc {
			return c > 0
		}
		return c < 0
	})

	limit := opts.Limit
	if limit == 0 {
		limit = record.DefaultLimit
	}
	if limit != record.Unbounded {
		start := min(opts.Offset, len(matched))
		end := min(start+limit, len(matched))
		matched = matched[start:end]
	}

	out := make([]record.Row, len(matched))
	for i, r := range matched {
		out[i] = withComputed(r.Clone(), opts.MutationFields)
	}
	return out, nil
}

func (s *Store) Find(ctx context.Context, id int64, opts record.Options) (record.Row, error) {
	return s.FindByColumn(ctx, "id", id, opts)
}

func (s *Store) FindBy(ctx context.Context, criteria record.Criteria, opts record.Options) ([]record.Row, error) {
	for col, v := range criteria {
		opts.Where = append(opts.Where, record.Eq(col, v))
	}
	return s.All(ctx, opts)
}

func (s *Store) FindByColumn(ctx context.Context, column string, value any, opts record.Options) (record.Row, error) {
	opts.Where = append([]record.Condition{record.Eq(column, value)}, opts.Where...)
	opts.Limit = 1
	rows, err := s.All(ctx, opts)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s %s=%v: %w", s.table, column, value, record.ErrNotFound)
	}
	return rows[0], nil
}

func (s *Store) Count(_ context.Context, opts record.Options) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	matched, err := s.filter(opts)
	return int64(len(matched)), err
}

func (s *Store) Create(_ context.Context, in record.Input) (record.Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values := in.Values()
	if s.BeforeWrite != nil {
		if err := s.BeforeWrite("create", values); err != nil {
			return nil, err
		}
	}

	row := record.Row{"id": s.nextID, "created_on": time.Now().UTC()}
	row.Merge(values)
	s.nextID++
	s.rows = append(s.rows, row)
	s.Writes++
	return row.Clone(), nil
}

func (s *Store) Update(_ context.Context, id int64, in record.Input) (record.Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values := in.Values()
	if s.BeforeWrite != nil {
		if err := s.BeforeWrite("update", values); err != nil {
			return nil, err
		}
	}
	for _, row := range s.rows {
		if row.ID() == id {
			row.Merge(values)
			row["updated_at"] = time.Now().UTC()
			s.Writes++
			return row.Clone(), nil
		}
	}
	return nil, fmt.Errorf("%s id=%d: %w", s.table, id, record.ErrNotFound)
}

func (s *Store) UpdateBy(_ context.Context, criteria record.Criteria, in record.Input) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values := in.Values()
	var n int64
	for _, row := range s.rows {
		if matchesCriteria(row, criteria) {
			row.Merge(values)
			n++
		}
	}
	if n > 0 {
		s.Writes++
	}
	return n, nil
}

func (s *Store) Delete(_ context.Context, id int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, row := range s.rows {
		if row.ID() == id {
			s.rows = append(s.rows[:i], s.rows[i+1:]...)
			s.Writes++
			return 1, nil
		}
	}
	return 0, fmt.Errorf("%s id=%d: %w", s.table, id, record.ErrNotFound)
}

func (s *Store) filter(opts record.Options) ([]record.Row, error) {
	var status *int64
	if opts.Status != "" && opts.Status != record.StatusAll {
		n, err := strconv.ParseInt(opts.Status, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid status %q", opts.Status)
		}
		status = &n
	}

	var out []record.Row
	for _, row := range s.rows {
		if status != nil && row.Int64("status") != *status {
			continue
		}
		if !matchesConditions(row, opts.Where) {
			continue
		}
		if !matchesRanges(row, opts.WhereBetween) {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

func (s *Store) snapshot() ([]record.Row, int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows := make([]record.Row, len(s.rows))
	for i, r := range s.rows {
		rows[i] = r.Clone()
	}
	return rows, s.nextID
}

func (s *Store) restore(rows []record.Row, nextID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = rows
	s.nextID = nextID
}

func withComputed(row record.Row, fields []string) record.Row {
	for _, f := range fields {
		if f == "full_name" {
			row[f] = strings.TrimSpace(row.String("first_name") + " " + row.String("last_name"))
		}
	}
	return row
}
