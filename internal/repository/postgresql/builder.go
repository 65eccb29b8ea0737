package postgresql

import (
	"database/sql/driver"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/cmlabs-hris/paycheck-backend-go/internal/domain/record"
	"github.com/cmlabs-hris/paycheck-backend-go/internal/pkg/validator"
	"github.com/jackc/pgx/v5"
)

const baseAlias = "base"

// projected is one output column of a select.
type projected struct {
	schema *tableSchema
	column string
	out    string
	expr   string
}

func (s *tableSchema) projection(alias string, names []string) []projected {
	if len(names) == 0 {
		names = s.columnNames()
	}
	out := make([]projected, len(names))
	for i, name := range names {
		out[i] = projected{schema: s, column: name, out: name, expr: ident(alias, name)}
	}
	return out
}

func ident(parts ...string) string {
	if len(parts) > 0 && parts[0] == "" {
		parts = parts[1:]
	}
	return pgx.Identifier(parts).Sanitize()
}

// query accumulates SQL fragments and their bind parameters.
type query struct {
	schema *tableSchema
	args   []any
	joins  []string
	where  []string
	proj   []projected
}

func (q *query) bind(v any) string {
	q.args = append(q.args, driverValue(v))
	return "$" + strconv.Itoa(len(q.args))
}

// driverValue resolves driver.Valuer implementations (decimal amounts, salary
// details) so every bound parameter is a plain value.
func driverValue(v any) any {
	if valuer, ok := v.(driver.Valuer); ok {
		if val, err := valuer.Value(); err == nil {
			return val
		}
	}
	return v
}

// selectQuery is a fully built read.
type selectQuery struct {
	sql      string
	args     []any
	pipeline *pipeline
}

func buildSelect(s *tableSchema, opts record.Options) (*selectQuery, error) {
	q, err := prepare(s, opts)
	if err != nil {
		return nil, err
	}

	order, err := normalizeOrder(opts.Order)
	if err != nil {
		return nil, err
	}
	orderBy := opts.OrderBy
	if orderBy == "" {
		orderBy = "id"
	}
	if !s.has(orderBy) {
		return nil, validator.New("order_by", fmt.Sprintf("unknown column %q", orderBy))
	}

	limit := opts.Limit
	switch {
	case limit == 0:
		limit = record.DefaultLimit
	case limit < record.Unbounded:
		return nil, validator.New("limit", "limit must be positive, or -1 for all rows")
	}
	if opts.Offset < 0 {
		return nil, validator.New("offset", "offset must not be negative")
	}

	p, err := newPipeline(s, q.proj, opts)
	if err != nil {
		return nil, err
	}

	exprs := make([]string, len(q.proj))
	for i, col := range q.proj {
		exprs[i] = col.expr + " AS " + ident(col.out)
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(strings.Join(exprs, ", "))
	q.writeFrom(&sb)

	fmt.Fprintf(&sb, " ORDER BY %s %s", ident(baseAlias, orderBy), order)
	if orderBy != "id" {
		fmt.Fprintf(&sb, ", %s %s", ident(baseAlias, "id"), order)
	}
	if limit != record.Unbounded {
		fmt.Fprintf(&sb, " LIMIT %s", q.bind(limit))
		if opts.Offset > 0 {
			fmt.Fprintf(&sb, " OFFSET %s", q.bind(opts.Offset))
		}
	}

	return &selectQuery{sql: sb.String(), args: q.args, pipeline: p}, nil
}

// buildCount counts the rows buildSelect would return without paging.
func buildCount(s *tableSchema, opts record.Options) (string, []any, error) {
	q, err := prepare(s, opts)
	if err != nil {
		return "", nil, err
	}
	var sb strings.Builder
	sb.WriteString("SELECT COUNT(*)")
	q.writeFrom(&sb)
	return sb.String(), q.args, nil
}

func (q *query) writeFrom(sb *strings.Builder) {
	fmt.Fprintf(sb, " FROM %s AS %s", ident(string(q.schema.table)), ident(baseAlias))
	for _, join := range q.joins {
		sb.WriteString(" ")
		sb.WriteString(join)
	}
	if len(q.where) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(q.where, " AND "))
	}
}

// prepare resolves projection, joins and filters shared by select and count.
// Relation parameters are bound before base filters, matching their order in
// the SQL text.
func prepare(s *tableSchema, opts record.Options) (*query, error) {
	q := &query{schema: s}

	for _, name := range opts.Fields {
		if !s.has(name) {
			return nil, validator.New("fields", fmt.Sprintf("unknown column %q", name))
		}
	}
	q.proj = s.projection(baseAlias, opts.Fields)

	seen := make(map[string]bool, len(q.proj))
	for _, col := range q.proj {
		seen[col.out] = true
	}

	for i, rel := range opts.Relations {
		if err := q.addRelation(i, rel, seen); err != nil {
			return nil, err
		}
	}

	if opts.Status != "" && !strings.EqualFold(opts.Status, record.StatusAll) {
		if !s.has("status") {
			return nil, validator.New("status", fmt.Sprintf("%s has no status column", s.table))
		}
		status, err := strconv.Atoi(strings.TrimSpace(opts.Status))
		if err != nil {
			return nil, validator.New("status", "status must be an integer or \"all\"")
		}
		q.where = append(q.where, ident(baseAlias, "status")+" = "+q.bind(status))
	}

	if len(opts.Where) > 0 {
		group, err := q.conditions(baseAlias, s, opts.Where, "where")
		if err != nil {
			return nil, err
		}
		q.where = append(q.where, group)
	}

	between, err := q.ranges(baseAlias, s, opts.WhereBetween, "where_between")
	if err != nil {
		return nil, err
	}
	q.where = append(q.where, between...)

	if term := strings.TrimSpace(opts.Search); term != "" && len(s.searchable) > 0 {
		param := q.bind("%" + escapeLike(term) + "%")
		parts := make([]string, len(s.searchable))
		for i, col := range s.searchable {
			parts[i] = fmt.Sprintf("CAST(%s AS TEXT) ILIKE %s", ident(baseAlias, col), param)
		}
		q.where = append(q.where, "("+strings.Join(parts, " OR ")+")")
	}

	return q, nil
}

func (q *query) addRelation(i int, rel record.Relation, seen map[string]bool) error {
	field := fmt.Sprintf("relations[%d]", i)

	rs, ok := schemaFor(rel.Table)
	if !ok {
		return validator.New(field+".table", fmt.Sprintf("unknown table %q", rel.Table))
	}
	if !q.schema.has(rel.LocalKey) {
		return validator.New(field+".local_key", fmt.Sprintf("unknown column %q", rel.LocalKey))
	}
	if !rs.has(rel.ForeignKey) {
		return validator.New(field+".foreign_key", fmt.Sprintf("unknown column %q", rel.ForeignKey))
	}
	if len(rel.Fields) == 0 {
		return validator.New(field+".fields", "at least one field must be selected")
	}

	join := rel.Join
	if join == "" {
		join = record.LeftJoin
	}
	if join != record.LeftJoin && join != record.InnerJoin {
		return validator.New(field+".join", fmt.Sprintf("unsupported join type %q", rel.Join))
	}

	alias := "r" + strconv.Itoa(i+1)
	for _, f := range rel.Fields {
		if !rs.has(f.Name) {
			return validator.New(field+".fields", fmt.Sprintf("unknown column %q", f.Name))
		}
		out := f.OutputName()
		if seen[out] {
			return validator.New(field+".fields", fmt.Sprintf("output name %q is already selected", out))
		}
		seen[out] = true
		q.proj = append(q.proj, projected{schema: rs, column: f.Name, out: out, expr: ident(alias, f.Name)})
	}

	if rel.Snapshot == nil {
		on := []string{ident(baseAlias, rel.LocalKey) + " = " + ident(alias, rel.ForeignKey)}
		filters, err := q.relationFilters(alias, rs, rel, field)
		if err != nil {
			return err
		}
		on = append(on, filters...)
		q.joins = append(q.joins, fmt.Sprintf("%s JOIN %s AS %s ON %s",
			join, ident(string(rs.table)), ident(alias), strings.Join(on, " AND ")))
		return nil
	}

	snap := rel.Snapshot
	if !rs.has(snap.Column) {
		return validator.New(field+".snapshot.column", fmt.Sprintf("unknown column %q", snap.Column))
	}
	op := snap.Operator
	if op == "" {
		op = record.OpLte
	}
	switch op {
	case record.OpEq, record.OpLt, record.OpLte, record.OpGt, record.OpGte:
	default:
		return validator.New(field+".snapshot.operator", fmt.Sprintf("unsupported snapshot operator %q", snap.Operator))
	}

	src := alias + "_src"
	where := []string{ident(src, rel.ForeignKey) + " = " + ident(baseAlias, rel.LocalKey)}
	filters, err := q.relationFilters(src, rs, rel, field)
	if err != nil {
		return err
	}
	where = append(where, filters...)
	where = append(where, fmt.Sprintf("%s %s %s", ident(src, snap.Column), op, q.bind(snap.Value)))

	q.joins = append(q.joins, fmt.Sprintf(
		"%s JOIN LATERAL (SELECT * FROM %s AS %s WHERE %s ORDER BY %s DESC, %s DESC LIMIT 1) AS %s ON TRUE",
		join, ident(string(rs.table)), ident(src), strings.Join(where, " AND "),
		ident(src, snap.Column), ident(src, "id"), ident(alias)))
	return nil
}

func (q *query) relationFilters(alias string, rs *tableSchema, rel record.Relation, field string) ([]string, error) {
	var out []string
	if len(rel.Where) > 0 {
		group, err := q.conditions(alias, rs, rel.Where, field+".where")
		if err != nil {
			return nil, err
		}
		out = append(out, group)
	}
	between, err := q.ranges(alias, rs, rel.WhereBetween, field+".where_between")
	if err != nil {
		return nil, err
	}
	return append(out, between...), nil
}

// conditions renders an ordered condition list as one parenthesized group,
// folded left to right: a change of combinator closes the group so far, so
// [a, OR b, AND c] renders as ((a OR b) AND c). The combinator of the first
// condition is ignored.
func (q *query) conditions(alias string, s *tableSchema, conds []record.Condition, field string) (string, error) {
	var acc string
	var prev record.Combinator
	for i, c := range conds {
		expr, err := q.condition(alias, s, c, fmt.Sprintf("%s[%d]", field, i))
		if err != nil {
			return "", err
		}
		if i == 0 {
			acc = expr
			continue
		}

		combinator := c.Combinator
		if combinator == "" {
			combinator = record.And
		}
		if combinator != record.And && combinator != record.Or {
			return "", validator.New(fmt.Sprintf("%s[%d].combinator", field, i), fmt.Sprintf("unsupported combinator %q", c.Combinator))
		}
		if prev != "" && combinator != prev {
			acc = "(" + acc + ")"
		}
		acc += " " + string(combinator) + " " + expr
		prev = combinator
	}
	return "(" + acc + ")", nil
}

func (q *query) condition(alias string, s *tableSchema, c record.Condition, field string) (string, error) {
	if !s.has(c.Column) {
		return "", validator.New(field+".column", fmt.Sprintf("unknown column %q", c.Column))
	}
	col := ident(alias, c.Column)

	op := record.Operator(strings.ToUpper(strings.TrimSpace(string(c.Operator))))
	switch op {
	case "":
		op = record.OpEq
	case "<>":
		op = record.OpNotEq
	}

	switch op {
	case record.OpEq, record.OpNotEq, record.OpLt, record.OpLte, record.OpGt, record.OpGte,
		record.OpLike, record.OpILike:
		if c.Value == nil {
			if op == record.OpEq {
				return col + " IS NULL", nil
			}
			if op == record.OpNotEq {
				return col + " IS NOT NULL", nil
			}
			return "", validator.New(field+".value", "value is required for "+string(op))
		}
		return fmt.Sprintf("%s %s %s", col, op, q.bind(c.Value)), nil
	case record.OpIn, record.OpNotIn:
		arr, err := arrayValue(c.Value)
		if err != nil {
			return "", validator.New(field+".value", err.Error())
		}
		if op == record.OpIn {
			return fmt.Sprintf("%s = ANY(%s)", col, q.bind(arr)), nil
		}
		return fmt.Sprintf("%s <> ALL(%s)", col, q.bind(arr)), nil
	case record.OpIsNull, record.OpIsNotNull:
		return col + " " + string(op), nil
	default:
		return "", validator.New(field+".operator", fmt.Sprintf("unsupported operator %q", c.Operator))
	}
}

func (q *query) ranges(alias string, s *tableSchema, ranges []record.Range, field string) ([]string, error) {
	out := make([]string, 0, len(ranges))
	for i, r := range ranges {
		if !s.has(r.Column) {
			return nil, validator.New(fmt.Sprintf("%s[%d].column", field, i), fmt.Sprintf("unknown column %q", r.Column))
		}
		out = append(out, fmt.Sprintf("%s BETWEEN %s AND %s", ident(alias, r.Column), q.bind(r.Start), q.bind(r.End)))
	}
	return out, nil
}

// arrayValue turns the value of an IN condition into a typed slice pgx can
// encode as a PostgreSQL array.
func arrayValue(v any) (any, error) {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return nil, fmt.Errorf("IN requires a list value")
	}
	if rv.Len() == 0 {
		return nil, fmt.Errorf("IN requires at least one value")
	}

	items, ok := v.([]any)
	if !ok {
		return v, nil
	}

	ints := make([]int64, 0, len(items))
	for _, item := range items {
		switch n := item.(type) {
		case int:
			ints = append(ints, int64(n))
		case int16:
			ints = append(ints, int64(n))
		case int32:
			ints = append(ints, int64(n))
		case int64:
			ints = append(ints, n)
		}
	}
	if len(ints) == len(items) {
		return ints, nil
	}

	strs := make([]string, len(items))
	for i, item := range items {
		strs[i] = fmt.Sprint(driverValue(item))
	}
	return strs, nil
}

func normalizeOrder(order record.Order) (record.Order, error) {
	switch record.Order(strings.ToUpper(strings.TrimSpace(string(order)))) {
	case "", record.OrderAsc:
		return record.OrderAsc, nil
	case record.OrderDesc:
		return record.OrderDesc, nil
	default:
		return "", validator.New("order", "order must be ASC or DESC")
	}
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// criteriaConditions turns equality criteria into conditions in column order.
func criteriaConditions(criteria record.Criteria) []record.Condition {
	keys := make([]string, 0, len(criteria))
	for k := range criteria {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	conds := make([]record.Condition, len(keys))
	for i, k := range keys {
		conds[i] = record.Eq(k, criteria[k])
	}
	return conds
}
