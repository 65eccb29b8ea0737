package payroll

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/paycheck-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/paycheck-backend-go/internal/domain/record"
	"github.com/cmlabs-hris/paycheck-backend-go/internal/domain/salaryhead"
	"github.com/cmlabs-hris/paycheck-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/paycheck-backend-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// capturingStore records the options of the last All call.
type capturingStore struct {
	*memory.Store
	last record.Options
}

func (c *capturingStore) All(ctx context.Context, opts record.Options) ([]record.Row, error) {
	c.last = opts
	return c.Store.All(ctx, opts)
}

func candidate(id int64, employeeID string, joined time.Time, status int16, salary bool) record.Row {
	row := record.Row{
		"id":                id,
		"employee_id":       employeeID,
		"first_name":        "Emp",
		"last_name":         employeeID,
		"department_id":     int64(1),
		"department_name":   "Finance",
		"designation_id":    int64(2),
		"designation_name":  "Clerk",
		"joining_date":      joined,
		"status":            status,
		"salary_history_id": nil,
	}
	if salary {
		row["salary_history_id"] = id * 10
		row["basic_salary"] = dec(1000)
		row["gross_salary"] = dec(1300)
		row["salary_details"] = salaryhead.Details{1: dec(400), 2: dec(100)}
		row["active_from"] = joined
	}
	return row
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newCandidates() *capturingStore {
	return &capturingStore{Store: memory.NewStore(record.TableEmployees,
		candidate(1, "E-002", day(2022, 1, 10), 1, true),
		candidate(2, "E-001", day(2023, 3, 1), 1, false),
		candidate(3, "E-003", day(2023, 9, 1), 1, true),
		candidate(4, "E-004", day(2021, 5, 1), 0, true),
	)}
}

func TestPreview_SelectsActiveJoinedEmployees(t *testing.T) {
	store := newCandidates()
	gen := NewGenerator(store, staticHeads())

	preview, err := gen.Preview(context.Background(), payroll.GenerateRequest{PayrollDate: "2023-08-15"})
	require.NoError(t, err)

	assert.Equal(t, "2023-08-31", preview.PayrollDate)
	require.Len(t, preview.Employees, 2)
	assert.Equal(t, "E-001", preview.Employees[0].EmployeeID)
	assert.Equal(t, "E-002", preview.Employees[1].EmployeeID)

	noSalary := preview.Employees[0]
	assert.False(t, noSalary.HasSalary)
	assert.True(t, noSalary.GrossSalary.IsZero())
	assert.Empty(t, noSalary.SalaryDetails)

	paid := preview.Employees[1]
	assert.True(t, paid.HasSalary)
	assert.Equal(t, int64(10), paid.SalaryHistoryID)
	assert.Equal(t, "Emp E-002", paid.FullName)
	assert.Equal(t, "2022-01-10", paid.ActiveFrom)
	assert.True(t, dec(400).Equal(paid.Breakdown.Earnings[1]))
	assert.True(t, dec(100).Equal(paid.Breakdown.Deductions[2]))

	assert.True(t, dec(1000).Equal(preview.TotalBasic))
	assert.True(t, dec(1300).Equal(preview.TotalGross))
	assert.Len(t, preview.SalaryHeads.Heads(), 3)
}

func TestPreview_QueryShape(t *testing.T) {
	store := newCandidates()
	gen := NewGenerator(store, staticHeads())
	dept := int64(1)

	_, err := gen.Preview(context.Background(), payroll.GenerateRequest{PayrollDate: "2023-08", DepartmentID: &dept})
	require.NoError(t, err)

	opts := store.last
	assert.Equal(t, record.Unbounded, opts.Limit)
	assert.Equal(t, "employee_id", opts.OrderBy)
	assert.Equal(t, "1", opts.Status)
	assert.Contains(t, opts.Where, record.Eq("department_id", dept))
	require.Len(t, opts.Relations, 3)

	history := opts.Relations[2]
	assert.Equal(t, record.TableSalaryHistory, history.Table)
	require.NotNil(t, history.Snapshot)
	assert.Equal(t, "active_from", history.Snapshot.Column)
	assert.Equal(t, day(2023, 8, 31), history.Snapshot.Value)
	assert.Equal(t, "salary_history_id", history.Fields[0].OutputName())
}

func TestPreview_HooksRunInOrder(t *testing.T) {
	var calls []string
	gen := NewGenerator(newCandidates(), staticHeads(),
		func(_ context.Context, _ payroll.GenerateRequest, p payroll.Preview) (payroll.Preview, error) {
			calls = append(calls, "first")
			kept := p.Employees[:0]
			for _, c := range p.Employees {
				if c.HasSalary {
					kept = append(kept, c)
				}
			}
			p.Employees = kept
			return p, nil
		},
	)
	gen.Use(func(_ context.Context, _ payroll.GenerateRequest, p payroll.Preview) (payroll.Preview, error) {
		calls = append(calls, "second")
		assert.Len(t, p.Employees, 1)
		return p, nil
	})

	preview, err := gen.Preview(context.Background(), payroll.GenerateRequest{PayrollDate: "2023-08"})
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, calls)
	assert.Len(t, preview.Employees, 1)
}

func TestPreview_RequestHooksRewriteBeforeQuery(t *testing.T) {
	store := newCandidates()
	gen := NewGenerator(store, staticHeads())

	var calls []string
	gen.UseBefore(func(_ context.Context, req payroll.GenerateRequest) (payroll.GenerateRequest, error) {
		calls = append(calls, "first")
		req.PayrollDate = "2023-09-10"
		return req, nil
	})
	gen.UseBefore(func(_ context.Context, req payroll.GenerateRequest) (payroll.GenerateRequest, error) {
		calls = append(calls, "second")
		assert.Equal(t, "2023-09-10", req.PayrollDate)
		return req, nil
	})

	preview, err := gen.Preview(context.Background(), payroll.GenerateRequest{PayrollDate: "2023-08"})
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, calls)
	assert.Equal(t, "2023-09-30", preview.PayrollDate)
	assert.Equal(t, day(2023, 9, 30), store.last.Relations[2].Snapshot.Value)
	assert.Len(t, preview.Employees, 3)
}

func TestPreview_RequestHookVeto(t *testing.T) {
	store := newCandidates()
	gen := NewGenerator(store, staticHeads())

	closed := errors.New("payroll period closed")
	gen.UseBefore(func(_ context.Context, req payroll.GenerateRequest) (payroll.GenerateRequest, error) {
		return req, closed
	})
	gen.Use(func(_ context.Context, _ payroll.GenerateRequest, p payroll.Preview) (payroll.Preview, error) {
		t.Fatal("preview hook must not run after a veto")
		return p, nil
	})

	_, err := gen.Preview(context.Background(), payroll.GenerateRequest{PayrollDate: "2023-08"})
	assert.ErrorIs(t, err, closed)
	assert.Nil(t, store.last.Relations)

	gen = NewGenerator(newCandidates(), staticHeads())
	gen.UseBefore(func(_ context.Context, req payroll.GenerateRequest) (payroll.GenerateRequest, error) {
		req.PayrollDate = "someday"
		return req, nil
	})
	_, err = gen.Preview(context.Background(), payroll.GenerateRequest{PayrollDate: "2023-08"})
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}

func TestPreview_Errors(t *testing.T) {
	gen := NewGenerator(newCandidates(), staticHeads())
	_, err := gen.Preview(context.Background(), payroll.GenerateRequest{PayrollDate: "August"})
	assert.Error(t, err)

	boom := errors.New("heads unavailable")
	gen = NewGenerator(newCandidates(), headsFunc(func(context.Context) (salaryhead.Classification, error) {
		return salaryhead.Classification{}, boom
	}))
	_, err = gen.Preview(context.Background(), payroll.GenerateRequest{PayrollDate: "2023-08"})
	assert.ErrorIs(t, err, boom)
}
