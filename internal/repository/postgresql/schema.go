package postgresql

import (
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/paycheck-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/paycheck-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/paycheck-backend-go/internal/domain/record"
	"github.com/cmlabs-hris/paycheck-backend-go/internal/domain/salaryhead"
)

type columnKind int

const (
	kindInt columnKind = iota
	kindText
	kindDecimal
	kindBool
	kindDate
	kindTimestamp
	kindDetails
)

// DisplayDateLayout is used for the derived <column>_string keys.
const DisplayDateLayout = "02 Jan, 2006"

// Transform derives output keys from one column. out is the key the column
// has in the result row, which differs from the column name for aliased
// relation fields. The returned fragment is merged into the row.
type Transform func(out string, value any, opts record.Options) (record.Row, error)

// Computed builds a field from the already transformed row.
type Computed func(row record.Row) any

type column struct {
	name string
	kind columnKind
}

type tableSchema struct {
	table      record.Table
	columns    []column
	kinds      map[string]columnKind
	searchable []string
	transforms map[string]Transform
	computed   map[string]Computed
}

func newSchema(table record.Table, columns ...column) *tableSchema {
	s := &tableSchema{
		table:      table,
		columns:    columns,
		kinds:      make(map[string]columnKind, len(columns)),
		transforms: map[string]Transform{},
		computed:   map[string]Computed{},
	}
	for _, c := range columns {
		s.kinds[c.name] = c.kind
		switch c.kind {
		case kindDate:
			s.transforms[c.name] = dateTransform
		case kindDetails:
			s.transforms[c.name] = detailsTransform
		}
	}
	return s
}

func (s *tableSchema) search(columns ...string) *tableSchema {
	s.searchable = columns
	return s
}

// label adds <out>_text next to an enum column.
func (s *tableSchema) label(name string, fn func(int64) string) *tableSchema {
	s.transforms[name] = func(out string, value any, _ record.Options) (record.Row, error) {
		if value == nil {
			return nil, nil
		}
		n, _ := value.(int64)
		return record.Row{out + "_text": fn(n)}, nil
	}
	return s
}

func (s *tableSchema) compute(name string, fn Computed) *tableSchema {
	s.computed[name] = fn
	return s
}

func (s *tableSchema) has(name string) bool {
	_, ok := s.kinds[name]
	return ok
}

func (s *tableSchema) columnNames() []string {
	names := make([]string, len(s.columns))
	for i, c := range s.columns {
		names[i] = c.name
	}
	return names
}

func dateTransform(out string, value any, _ record.Options) (record.Row, error) {
	t, ok := value.(time.Time)
	if !ok {
		return record.Row{out + "_string": ""}, nil
	}
	return record.Row{out + "_string": t.Format(DisplayDateLayout)}, nil
}

// detailsTransform decodes the stored JSON text. With a classification in
// the options it also adds the bucketed breakdown.
func detailsTransform(out string, value any, opts record.Options) (record.Row, error) {
	var raw string
	switch v := value.(type) {
	case nil:
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return nil, fmt.Errorf("decode %s: unexpected %T", out, value)
	}

	details, err := salaryhead.ParseDetails(raw)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", out, err)
	}
	fragment := record.Row{out: details}
	if opts.Heads != nil {
		fragment[strings.TrimSuffix(out, "_details")+"_breakdown"] = opts.Heads.Breakdown(details)
	}
	return fragment, nil
}

func fullName(row record.Row) any {
	return strings.TrimSpace(row.String("first_name") + " " + row.String("last_name"))
}

func auditColumns() []column {
	return []column{{"created_on", kindTimestamp}, {"updated_at", kindTimestamp}}
}

func with(columns []column, extra ...column) []column {
	return append(columns, extra...)
}

var schemas = map[record.Table]*tableSchema{}

func register(s *tableSchema) {
	schemas[s.table] = s
}

func schemaFor(table record.Table) (*tableSchema, bool) {
	s, ok := schemas[table]
	return s, ok
}

func init() {
	register(newSchema(record.TableDepartments, with([]column{
		{"id", kindInt}, {"name", kindText}, {"status", kindInt},
	}, auditColumns()...)...).search("name"))

	register(newSchema(record.TableDesignations, with([]column{
		{"id", kindInt}, {"name", kindText}, {"status", kindInt},
	}, auditColumns()...)...).search("name"))

	register(newSchema(record.TableSalaryHeads, with([]column{
		{"id", kindInt},
		{"head_name", kindText},
		{"head_type", kindInt},
		{"head_amount", kindDecimal},
		{"is_percentage", kindBool},
		{"is_variable", kindBool},
		{"is_taxable", kindBool},
		{"is_personal_savings", kindBool},
		{"priority", kindInt},
		{"status", kindInt},
	}, auditColumns()...)...).
		search("head_name").
		label("head_type", func(v int64) string { return salaryhead.Kind(v).String() }))

	register(newSchema(record.TableEmployees, with([]column{
		{"id", kindInt},
		{"employee_id", kindText},
		{"user_id", kindInt},
		{"department_id", kindInt},
		{"designation_id", kindInt},
		{"first_name", kindText},
		{"last_name", kindText},
		{"email", kindText},
		{"phone", kindText},
		{"bank_name", kindText},
		{"bank_account_number", kindText},
		{"tax_number", kindText},
		{"address", kindText},
		{"joining_date", kindDate},
		{"resign_date", kindDate},
		{"status", kindInt},
	}, auditColumns()...)...).
		search("employee_id", "first_name", "last_name", "email", "phone").
		compute("full_name", fullName))

	register(newSchema(record.TableSalaryHistory, with([]column{
		{"id", kindInt},
		{"employee_id", kindText},
		{"basic_salary", kindDecimal},
		{"gross_salary", kindDecimal},
		{"salary_details", kindDetails},
		{"status", kindInt},
		{"active_from", kindDate},
		{"remarks", kindText},
		{"salary_purpose", kindInt},
	}, auditColumns()...)...).
		search("employee_id", "remarks").
		label("salary_purpose", func(v int64) string { return employee.SalaryPurpose(v).String() }).
		compute("full_name", fullName))

	register(newSchema(record.TablePayroll, with([]column{
		{"id", kindInt},
		{"department_id", kindInt},
		{"designation_id", kindInt},
		{"payroll_date", kindDate},
		{"total_salary", kindDecimal},
		{"remarks", kindText},
		{"status", kindInt},
		{"created_user_id", kindInt},
		{"approved_user_id", kindInt},
	}, auditColumns()...)...).
		search("payroll_date", "remarks").
		label("status", func(v int64) string { return payroll.Status(v).String() }))

	register(newSchema(record.TablePayrollDetails, with([]column{
		{"id", kindInt},
		{"payroll_id", kindInt},
		{"employee_id", kindText},
		{"basic_salary", kindDecimal},
		{"gross_salary", kindDecimal},
		{"salary_details", kindDetails},
		{"status", kindInt},
	}, auditColumns()...)...).
		search("employee_id").
		label("status", func(v int64) string { return payroll.DetailStatus(v).String() }).
		compute("full_name", fullName))

	register(newSchema(record.TableSettings, with([]column{
		{"id", kindInt},
		{"setting_key", kindText},
		{"setting_value", kindText},
	}, auditColumns()...)...).
		search("setting_key"))
}
