package postgresql

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/paycheck-backend-go/internal/domain/record"
	"github.com/cmlabs-hris/paycheck-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustSchema(t *testing.T, table record.Table) *tableSchema {
	t.Helper()
	s, ok := schemaFor(table)
	require.True(t, ok, "schema for %s", table)
	return s
}

func TestBuildSelect_Defaults(t *testing.T) {
	sq, err := buildSelect(mustSchema(t, record.TableDepartments), record.Options{})
	require.NoError(t, err)

	assert.Equal(t,
		`SELECT "base"."id" AS "id", "base"."name" AS "name", "base"."status" AS "status", `+
			`"base"."created_on" AS "created_on", "base"."updated_at" AS "updated_at" `+
			`FROM "departments" AS "base" ORDER BY "base"."id" ASC LIMIT $1`,
		sq.sql)
	assert.Equal(t, []any{record.DefaultLimit}, sq.args)
}

func TestBuildSelect_PagingAndOrder(t *testing.T) {
	opts := record.Options{OrderBy: "name", Order: "desc"}.Page(3, 20)
	sq, err := buildSelect(mustSchema(t, record.TableDepartments), opts)
	require.NoError(t, err)

	assert.Contains(t, sq.sql, `ORDER BY "base"."name" DESC, "base"."id" DESC LIMIT $1 OFFSET $2`)
	assert.Equal(t, []any{20, 40}, sq.args)
}

func TestBuildSelect_Unbounded(t *testing.T) {
	sq, err := buildSelect(mustSchema(t, record.TableDepartments), record.Options{Limit: record.Unbounded, Offset: 30})
	require.NoError(t, err)
	assert.NotContains(t, sq.sql, "LIMIT")
	assert.NotContains(t, sq.sql, "OFFSET")
	assert.Empty(t, sq.args)
}

func TestBuildSelect_SnapshotRelation(t *testing.T) {
	asOf := time.Date(2023, 8, 31, 0, 0, 0, 0, time.UTC)
	opts := record.Options{
		Fields: []string{"employee_id", "first_name"},
		Status: "1",
		Search: "a_n",
		Limit:  record.Unbounded,
		Relations: []record.Relation{{
			Table:      record.TableSalaryHistory,
			LocalKey:   "employee_id",
			ForeignKey: "employee_id",
			Fields:     []record.Field{{Name: "basic_salary"}, {Name: "id", Alias: "salary_history_id"}},
			Where:      []record.Condition{record.Eq("status", 1)},
			Snapshot:   record.LatestAsOf("active_from", asOf),
		}},
	}

	sq, err := buildSelect(mustSchema(t, record.TableEmployees), opts)
	require.NoError(t, err)

	assert.Contains(t, sq.sql, `"r1"."basic_salary" AS "basic_salary", "r1"."id" AS "salary_history_id"`)
	assert.Contains(t, sq.sql,
		`LEFT JOIN LATERAL (SELECT * FROM "employee_salary_history" AS "r1_src" `+
			`WHERE "r1_src"."employee_id" = "base"."employee_id" AND ("r1_src"."status" = $1) `+
			`AND "r1_src"."active_from" <= $2 `+
			`ORDER BY "r1_src"."active_from" DESC, "r1_src"."id" DESC LIMIT 1) AS "r1" ON TRUE`)
	assert.Contains(t, sq.sql, `WHERE "base"."status" = $3 AND (CAST("base"."employee_id" AS TEXT) ILIKE $4 OR`)
	assert.Contains(t, sq.sql, `CAST("base"."phone" AS TEXT) ILIKE $4)`)
	assert.Equal(t, []any{1, asOf, 1, `%a\_n%`}, sq.args)
}

func TestBuildSelect_PlainRelationFilterInOnClause(t *testing.T) {
	opts := record.Options{
		Relations: []record.Relation{{
			Table:      record.TableDepartments,
			LocalKey:   "department_id",
			ForeignKey: "id",
			Fields:     []record.Field{{Name: "name", Alias: "department_name"}},
			Where:      []record.Condition{record.Eq("status", 1)},
		}},
	}
	sq, err := buildSelect(mustSchema(t, record.TableEmployees), opts)
	require.NoError(t, err)

	assert.Contains(t, sq.sql,
		`LEFT JOIN "departments" AS "r1" ON "base"."department_id" = "r1"."id" AND ("r1"."status" = $1)`)
	assert.NotContains(t, sq.sql, " WHERE ")
}

func TestBuildSelect_Conditions(t *testing.T) {
	opts := record.Options{
		Where: []record.Condition{
			record.Where("status", record.OpIn, []any{1, 2}),
			record.OrWhere("payroll_date", record.OpIsNull, nil),
			record.Where("total_salary", record.OpGte, decimal.RequireFromString("100.50")),
		},
		WhereBetween: []record.Range{{Column: "payroll_date", Start: "2023-01-01", End: "2023-12-31"}},
	}
	sq, err := buildSelect(mustSchema(t, record.TablePayroll), opts)
	require.NoError(t, err)

	assert.Contains(t, sq.sql,
		`WHERE (("base"."status" = ANY($1) OR "base"."payroll_date" IS NULL) AND "base"."total_salary" >= $2) `+
			`AND "base"."payroll_date" BETWEEN $3 AND $4`)
	assert.Equal(t, []any{[]int64{1, 2}, "100.5", "2023-01-01", "2023-12-31", record.DefaultLimit}, sq.args)
}

func TestBuildSelect_ConditionsFoldLeftToRight(t *testing.T) {
	tests := []struct {
		name  string
		where []record.Condition
		want  string
	}{
		{
			name:  "single combinator stays flat",
			where: []record.Condition{record.Eq("department_id", 1), record.Eq("designation_id", 2), record.Eq("status", 1)},
			want:  `WHERE ("base"."department_id" = $1 AND "base"."designation_id" = $2 AND "base"."status" = $3)`,
		},
		{
			name:  "or then and",
			where: []record.Condition{record.Eq("department_id", 1), record.OrWhere("department_id", record.OpEq, 2), record.Eq("status", 1)},
			want:  `WHERE (("base"."department_id" = $1 OR "base"."department_id" = $2) AND "base"."status" = $3)`,
		},
		{
			name: "and then or then and",
			where: []record.Condition{
				record.Eq("status", 1),
				record.Eq("department_id", 1),
				record.OrWhere("designation_id", record.OpEq, 2),
				record.Eq("bank_name", "BCA"),
			},
			want: `WHERE ((("base"."status" = $1 AND "base"."department_id" = $2) OR "base"."designation_id" = $3) AND "base"."bank_name" = $4)`,
		},
	}

	employees := mustSchema(t, record.TableEmployees)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sq, err := buildSelect(employees, record.Options{Where: tt.where})
			require.NoError(t, err)
			assert.Contains(t, sq.sql, tt.want)
		})
	}
}

func TestBuildSelect_NotIn(t *testing.T) {
	opts := record.Options{Where: []record.Condition{record.Where("status", record.OpNotIn, []int16{3, 4})}}
	sq, err := buildSelect(mustSchema(t, record.TablePayroll), opts)
	require.NoError(t, err)
	assert.Contains(t, sq.sql, `"base"."status" <> ALL($1)`)
}

func TestBuildSelect_ValidationErrors(t *testing.T) {
	employees := mustSchema(t, record.TableEmployees)

	cases := map[string]record.Options{
		"order_by":             {OrderBy: "salary; DROP TABLE employees"},
		"order":                {Order: "sideways"},
		"limit":                {Limit: -5},
		"offset":               {Offset: -1},
		"status":               {Status: "active"},
		"fields":               {Fields: []string{"password"}},
		"mutation_fields":      {MutationFields: []string{"age"}},
		"where[0].column":      {Where: []record.Condition{record.Eq("1=1 --", 1)}},
		"where[0].operator":    {Where: []record.Condition{record.Where("status", "~", 1)}},
		"where[0].value":       {Where: []record.Condition{record.Where("status", record.OpIn, []int{})}},
		"relations[0].fields":  {Relations: []record.Relation{{Table: record.TableDepartments, LocalKey: "department_id", ForeignKey: "id"}}},
		"relations[0].table":   {Relations: []record.Relation{{Table: "users", LocalKey: "user_id", ForeignKey: "id", Fields: record.Select("email")}}},
		"relations[0].join":    {Relations: []record.Relation{{Table: record.TableDepartments, LocalKey: "department_id", ForeignKey: "id", Join: "CROSS", Fields: record.Select("name")}}},
	}

	for field, opts := range cases {
		t.Run(field, func(t *testing.T) {
			_, err := buildSelect(employees, opts)
			var errs validator.ValidationErrors
			require.ErrorAs(t, err, &errs)
			assert.Equal(t, field, errs[0].Field)
		})
	}
}

func TestBuildSelect_OutputNameCollision(t *testing.T) {
	opts := record.Options{
		Relations: []record.Relation{{
			Table:      record.TableDepartments,
			LocalKey:   "department_id",
			ForeignKey: "id",
			Fields:     record.Select("status"),
		}},
	}
	_, err := buildSelect(mustSchema(t, record.TableEmployees), opts)
	var errs validator.ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs[0].Message, `"status"`)
}

func TestBuildCount_SharesFilters(t *testing.T) {
	opts := record.Options{
		Status: "all",
		Search: "Jan",
		Limit:  5,
		Offset: 10,
		Relations: []record.Relation{{
			Table:      record.TableDesignations,
			LocalKey:   "designation_id",
			ForeignKey: "id",
			Join:       record.InnerJoin,
			Fields:     []record.Field{{Name: "name", Alias: "designation_name"}},
		}},
	}
	sql, args, err := buildCount(mustSchema(t, record.TableEmployees), opts)
	require.NoError(t, err)

	assert.Contains(t, sql, `SELECT COUNT(*) FROM "employees" AS "base" INNER JOIN "designations" AS "r1"`)
	assert.NotContains(t, sql, "LIMIT")
	assert.NotContains(t, sql, `"status" =`)
	assert.Equal(t, []any{"%Jan%"}, args)
}

func TestCriteriaConditions_SortedByColumn(t *testing.T) {
	conds := criteriaConditions(record.Criteria{"status": 1, "employee_id": "E-1"})
	require.Len(t, conds, 2)
	assert.Equal(t, "employee_id", conds[0].Column)
	assert.Equal(t, "status", conds[1].Column)
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `50\%\_off\\`, escapeLike(`50%_off\`))
}
