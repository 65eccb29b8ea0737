package record

import "github.com/cmlabs-hris/paycheck-backend-go/internal/domain/salaryhead"

const (
	// DefaultLimit applies when Options.Limit is zero.
	DefaultLimit = 10
	// Unbounded disables LIMIT and OFFSET.
	Unbounded = -1
	// StatusAll disables the status predicate.
	StatusAll = "all"
)

type Order string

const (
	OrderAsc  Order = "ASC"
	OrderDesc Order = "DESC"
)

type Operator string

const (
	OpEq        Operator = "="
	OpNotEq     Operator = "!="
	OpLt        Operator = "<"
	OpLte       Operator = "<="
	OpGt        Operator = ">"
	OpGte       Operator = ">="
	OpLike      Operator = "LIKE"
	OpILike     Operator = "ILIKE"
	OpIn        Operator = "IN"
	OpNotIn     Operator = "NOT IN"
	OpIsNull    Operator = "IS NULL"
	OpIsNotNull Operator = "IS NOT NULL"
)

// Combinator joins a condition to the ones before it. Conditions fold left to
// right: [a, OR b, AND c] is ((a OR b) AND c).
type Combinator string

const (
	And Combinator = "AND"
	Or  Combinator = "OR"
)

// Condition is a single column predicate. Column names are checked against
// the table schema; values are always bound as parameters.
type Condition struct {
	Column     string
	Operator   Operator
	Value      any
	Combinator Combinator
}

func Eq(column string, value any) Condition {
	return Condition{Column: column, Operator: OpEq, Value: value}
}

func Where(column string, op Operator, value any) Condition {
	return Condition{Column: column, Operator: op, Value: value}
}

// OrWhere builds a condition that is OR'ed with the preceding one.
func OrWhere(column string, op Operator, value any) Condition {
	return Condition{Column: column, Operator: op, Value: value, Combinator: Or}
}

// Range is an inclusive BETWEEN filter.
type Range struct {
	Column string
	Start  any
	End    any
}

// Criteria are equality filters keyed by column.
type Criteria map[string]any

// Options parameterizes every read of a RecordStore.
type Options struct {
	Limit          int
	Offset         int
	Order          Order
	OrderBy        string
	Status         string
	Search         string
	Where          []Condition
	WhereBetween   []Range
	Relations      []Relation
	MutationFields []string
	Fields         []string

	// Heads enables categorized decoding of salary_details columns.
	Heads *salaryhead.Classification
}

// Page converts 1-based page numbers to Limit/Offset.
func (o Options) Page(page, perPage int) Options {
	if perPage == 0 {
		perPage = DefaultLimit
	}
	o.Limit = perPage
	if page > 1 && perPage > 0 {
		o.Offset = (page - 1) * perPage
	}
	return o
}

// Unpaged returns a copy without limit, offset or ordering, as used for counts.
func (o Options) Unpaged() Options {
	o.Limit = Unbounded
	o.Offset = 0
	o.Order = ""
	o.OrderBy = ""
	return o
}
