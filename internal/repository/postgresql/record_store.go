package postgresql

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/cmlabs-hris/paycheck-backend-go/internal/domain/record"
	"github.com/cmlabs-hris/paycheck-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/paycheck-backend-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/paycheck-backend-go/internal/pkg/validator"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// RecordStore is the generic table gateway over one table.
type RecordStore struct {
	db     *database.DB
	schema *tableSchema
	now    func() time.Time
}

// NewRecordStore panics on an unregistered table; tables are fixed at build time.
func NewRecordStore(db *database.DB, table record.Table) *RecordStore {
	s, ok := schemaFor(table)
	if !ok {
		panic(fmt.Sprintf("postgresql: no schema registered for table %q", table))
	}
	return &RecordStore{db: db, schema: s, now: time.Now}
}

func NewDepartmentStore(db *database.DB) record.Store {
	return NewRecordStore(db, record.TableDepartments)
}

func NewDesignationStore(db *database.DB) record.Store {
	return NewRecordStore(db, record.TableDesignations)
}

func NewSalaryHeadStore(db *database.DB) record.Store {
	return NewRecordStore(db, record.TableSalaryHeads)
}

func NewEmployeeStore(db *database.DB) record.Store {
	return NewRecordStore(db, record.TableEmployees)
}

func NewSalaryHistoryStore(db *database.DB) record.Store {
	return NewRecordStore(db, record.TableSalaryHistory)
}

func NewPayrollStore(db *database.DB) record.Store {
	return NewRecordStore(db, record.TablePayroll)
}

func NewPayrollDetailStore(db *database.DB) record.Store {
	return NewRecordStore(db, record.TablePayrollDetails)
}

func NewSettingsStore(db *database.DB) record.Store {
	return NewRecordStore(db, record.TableSettings)
}

func (r *RecordStore) Table() record.Table {
	return r.schema.table
}

func (r *RecordStore) All(ctx context.Context, opts record.Options) (rows []record.Row, err error) {
	defer r.observe("all", time.Now(), &err)

	sq, err := buildSelect(r.schema, opts)
	if err != nil {
		return nil, err
	}

	q := GetQuerier(ctx, r.db)
	result, err := q.Query(ctx, sq.sql, sq.args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", r.schema.table, err)
	}
	raw, err := pgx.CollectRows(result, pgx.RowToMap)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", r.schema.table, err)
	}

	return sq.pipeline.applyAll(raw)
}

func (r *RecordStore) Find(ctx context.Context, id int64, opts record.Options) (record.Row, error) {
	return r.FindByColumn(ctx, "id", id, opts)
}

// FindBy returns every row matching all criteria, ahead of any opts.Where.
func (r *RecordStore) FindBy(ctx context.Context, criteria record.Criteria, opts record.Options) ([]record.Row, error) {
	opts.Where = append(criteriaConditions(criteria), opts.Where...)
	return r.All(ctx, opts)
}

// FindByColumn returns the first row where column equals value.
func (r *RecordStore) FindByColumn(ctx context.Context, column string, value any, opts record.Options) (record.Row, error) {
	opts.Where = append([]record.Condition{record.Eq(column, value)}, opts.Where...)
	opts.Limit = 1
	opts.Offset = 0

	rows, err := r.All(ctx, opts)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s %s=%v: %w", r.schema.table, column, value, record.ErrNotFound)
	}
	return rows[0], nil
}

func (r *RecordStore) Count(ctx context.Context, opts record.Options) (n int64, err error) {
	defer r.observe("count", time.Now(), &err)

	sql, args, err := buildCount(r.schema, opts)
	if err != nil {
		return 0, err
	}

	q := GetQuerier(ctx, r.db)
	if err := q.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", r.schema.table, err)
	}
	return n, nil
}

func (r *RecordStore) Create(ctx context.Context, in record.Input) (row record.Row, err error) {
	defer r.observe("create", time.Now(), &err)

	values, err := r.writeValues(in)
	if err != nil {
		return nil, err
	}
	if r.schema.has("created_on") {
		if _, ok := values["created_on"]; !ok {
			values["created_on"] = r.now().UTC()
		}
	}

	sql, args := r.insertSQL(values)
	return r.returning(ctx, sql, args)
}

func (r *RecordStore) Update(ctx context.Context, id int64, in record.Input) (row record.Row, err error) {
	defer r.observe("update", time.Now(), &err)

	values, err := r.writeValues(in)
	if err != nil {
		return nil, err
	}
	r.stampUpdated(values)

	q := &query{schema: r.schema}
	set := r.assignments(q, values)
	sql := fmt.Sprintf("UPDATE %s SET %s WHERE %s = %s RETURNING *",
		ident(string(r.schema.table)), set, ident("id"), q.bind(id))

	row, err = r.returning(ctx, sql, q.args)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%s id=%d: %w", r.schema.table, id, record.ErrNotFound)
	}
	return row, err
}

// UpdateBy updates every row matching criteria and returns the number of rows
// changed. Empty criteria are rejected.
func (r *RecordStore) UpdateBy(ctx context.Context, criteria record.Criteria, in record.Input) (n int64, err error) {
	defer r.observe("update_by", time.Now(), &err)

	if len(criteria) == 0 {
		return 0, validator.New("criteria", "at least one criterion is required")
	}
	values, err := r.writeValues(in)
	if err != nil {
		return 0, err
	}
	r.stampUpdated(values)

	q := &query{schema: r.schema}
	set := r.assignments(q, values)
	where, err := q.conditions("", r.schema, criteriaConditions(criteria), "criteria")
	if err != nil {
		return 0, err
	}
	sql := fmt.Sprintf("UPDATE %s SET %s WHERE %s", ident(string(r.schema.table)), set, where)

	tag, err := GetQuerier(ctx, r.db).Exec(ctx, sql, q.args...)
	if err != nil {
		return 0, r.mapError("update", err)
	}
	return tag.RowsAffected(), nil
}

func (r *RecordStore) Delete(ctx context.Context, id int64) (n int64, err error) {
	defer r.observe("delete", time.Now(), &err)

	sql := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", ident(string(r.schema.table)), ident("id"))
	tag, err := GetQuerier(ctx, r.db).Exec(ctx, sql, id)
	if err != nil {
		return 0, r.mapError("delete", err)
	}
	if tag.RowsAffected() == 0 {
		return 0, fmt.Errorf("%s id=%d: %w", r.schema.table, id, record.ErrNotFound)
	}
	return tag.RowsAffected(), nil
}

func (r *RecordStore) returning(ctx context.Context, sql string, args []any) (record.Row, error) {
	result, err := GetQuerier(ctx, r.db).Query(ctx, sql, args...)
	if err != nil {
		return nil, r.mapError("write", err)
	}
	raw, err := pgx.CollectExactlyOneRow(result, pgx.RowToMap)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, r.mapError("write", err)
	}
	return writePipeline(r.schema).apply(raw)
}

// writeValues checks every key against the schema. The primary key is never
// written.
func (r *RecordStore) writeValues(in record.Input) (map[string]any, error) {
	if in == nil {
		return nil, validator.New("body", "no values to write")
	}
	src := in.Values()
	values := make(map[string]any, len(src)+1)
	var errs validator.ValidationErrors
	for k, v := range src {
		if k == "id" || !r.schema.has(k) {
			errs = append(errs, validator.ValidationError{Field: k, Message: fmt.Sprintf("%s is not a writable column of %s", k, r.schema.table)})
			continue
		}
		values[k] = v
	}
	if len(errs) > 0 {
		sort.Slice(errs, func(i, j int) bool { return errs[i].Field < errs[j].Field })
		return nil, errs
	}
	if len(values) == 0 {
		return nil, validator.New("body", "no values to write")
	}
	return values, nil
}

func (r *RecordStore) stampUpdated(values map[string]any) {
	if r.schema.has("updated_at") {
		if _, ok := values["updated_at"]; !ok {
			values["updated_at"] = r.now().UTC()
		}
	}
}

func (r *RecordStore) insertSQL(values map[string]any) (string, []any) {
	q := &query{schema: r.schema}
	keys := sortedKeys(values)
	cols := make([]string, len(keys))
	params := make([]string, len(keys))
	for i, k := range keys {
		cols[i] = ident(k)
		params[i] = q.bind(values[k])
	}
	sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING *",
		ident(string(r.schema.table)), strings.Join(cols, ", "), strings.Join(params, ", "))
	return sql, q.args
}

func (r *RecordStore) assignments(q *query, values map[string]any) string {
	keys := sortedKeys(values)
	set := make([]string, len(keys))
	for i, k := range keys {
		set[i] = ident(k) + " = " + q.bind(values[k])
	}
	return strings.Join(set, ", ")
}

// mapError translates constraint violations into domain errors.
func (r *RecordStore) mapError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return fmt.Errorf("%s %s (%s): %w", op, r.schema.table, pgErr.ConstraintName, record.ErrDuplicate)
		case "23503":
			return validator.New(constraintField(pgErr), "referenced record does not exist")
		case "23514":
			return validator.New(constraintField(pgErr), fmt.Sprintf("violates check constraint %s", pgErr.ConstraintName))
		case "23502":
			return validator.New(pgErr.ColumnName, pgErr.ColumnName+" is required")
		}
	}
	return fmt.Errorf("%s %s: %w", op, r.schema.table, err)
}

func constraintField(pgErr *pgconn.PgError) string {
	if pgErr.ColumnName != "" {
		return pgErr.ColumnName
	}
	return pgErr.ConstraintName
}

func (r *RecordStore) observe(op string, started time.Time, err *error) {
	metrics.ObserveQuery(string(r.schema.table), op, started, *err)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
