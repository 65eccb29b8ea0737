package payroll

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/paycheck-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/paycheck-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/paycheck-backend-go/internal/domain/record"
	"github.com/cmlabs-hris/paycheck-backend-go/internal/domain/salaryhead"
	"github.com/shopspring/decimal"
)

// HeadSource supplies the classification of active salary heads.
type HeadSource interface {
	Classification(ctx context.Context) (salaryhead.Classification, error)
}

// Generator builds payroll previews. It never writes.
type Generator struct {
	employees record.Store
	heads     HeadSource
	hooks     []payroll.PreviewHook
	before    []payroll.RequestHook
}

func NewGenerator(employees record.Store, heads HeadSource, hooks ...payroll.PreviewHook) *Generator {
	return &Generator{employees: employees, heads: heads, hooks: hooks}
}

// Use appends a hook; hooks run in the order they were added.
func (g *Generator) Use(hook payroll.PreviewHook) {
	g.hooks = append(g.hooks, hook)
}

// UseBefore appends a request hook. The rewritten request is validated after
// the last hook has run.
func (g *Generator) UseBefore(hook payroll.RequestHook) {
	g.before = append(g.before, hook)
}

func (g *Generator) Preview(ctx context.Context, req payroll.GenerateRequest) (payroll.Preview, error) {
	for _, hook := range g.before {
		var err error
		if req, err = hook(ctx, req); err != nil {
			return payroll.Preview{}, err
		}
	}

	target, err := req.Validate()
	if err != nil {
		return payroll.Preview{}, err
	}

	classification, err := g.heads.Classification(ctx)
	if err != nil {
		return payroll.Preview{}, err
	}

	rows, err := g.employees.All(ctx, candidateOptions(target, req, &classification))
	if err != nil {
		return payroll.Preview{}, fmt.Errorf("failed to load payroll candidates: %w", err)
	}

	preview := payroll.Preview{
		PayrollDate: target.Format("2006-01-02"),
		SalaryHeads: classification,
		Employees:   make([]payroll.Candidate, 0, len(rows)),
		TotalBasic:  decimal.Zero,
		TotalGross:  decimal.Zero,
	}
	for _, row := range rows {
		c := candidateFromRow(row, classification)
		if c.HasSalary {
			preview.TotalBasic = preview.TotalBasic.Add(c.BasicSalary)
			preview.TotalGross = preview.TotalGross.Add(c.GrossSalary)
		}
		preview.Employees = append(preview.Employees, c)
	}

	for _, hook := range g.hooks {
		if preview, err = hook(ctx, req, preview); err != nil {
			return payroll.Preview{}, err
		}
	}
	return preview, nil
}

// candidateOptions selects active employees who joined by the target date,
// with their names and the salary snapshot in effect on that date.
func candidateOptions(target time.Time, req payroll.GenerateRequest, heads *salaryhead.Classification) record.Options {
	active := []record.Condition{record.Eq("status", int16(1))}

	where := []record.Condition{record.Where("joining_date", record.OpLte, target)}
	if req.DepartmentID != nil {
		where = append(where, record.Eq("department_id", *req.DepartmentID))
	}
	if req.DesignationID != nil {
		where = append(where, record.Eq("designation_id", *req.DesignationID))
	}

	return record.Options{
		Limit:          record.Unbounded,
		OrderBy:        "employee_id",
		Order:          record.OrderAsc,
		Status:         fmt.Sprint(int16(employee.StatusActive)),
		Where:          where,
		MutationFields: []string{"full_name"},
		Heads:          heads,
		Relations: []record.Relation{
			{
				Table:      record.TableDepartments,
				LocalKey:   "department_id",
				ForeignKey: "id",
				Fields:     []record.Field{{Name: "name", Alias: "department_name"}},
				Where:      active,
			},
			{
				Table:      record.TableDesignations,
				LocalKey:   "designation_id",
				ForeignKey: "id",
				Fields:     []record.Field{{Name: "name", Alias: "designation_name"}},
				Where:      active,
			},
			{
				Table:      record.TableSalaryHistory,
				LocalKey:   "employee_id",
				ForeignKey: "employee_id",
				Fields: []record.Field{
					{Name: "id", Alias: "salary_history_id"},
					{Name: "basic_salary"},
					{Name: "gross_salary"},
					{Name: "salary_details"},
					{Name: "active_from"},
				},
				Where:    active,
				Snapshot: record.LatestAsOf("active_from", target),
			},
		},
	}
}

func candidateFromRow(row record.Row, heads salaryhead.Classification) payroll.Candidate {
	details, _ := row["salary_details"].(salaryhead.Details)
	if details == nil {
		details = salaryhead.Details{}
	}

	c := payroll.Candidate{
		EmployeeID:      row.String("employee_id"),
		FullName:        row.String("full_name"),
		DepartmentID:    row.Int64("department_id"),
		DepartmentName:  row.String("department_name"),
		DesignationID:   row.Int64("designation_id"),
		DesignationName: row.String("designation_name"),
		JoiningDate:     row.Date("joining_date"),
		HasSalary:       !row.IsNull("salary_history_id"),
		SalaryDetails:   details,
		Breakdown:       heads.Breakdown(details),
		BasicSalary:     decimal.Zero,
		GrossSalary:     decimal.Zero,
	}
	if c.HasSalary {
		c.SalaryHistoryID = row.Int64("salary_history_id")
		c.ActiveFrom = row.Date("active_from")
		c.BasicSalary = row.Decimal("basic_salary")
		c.GrossSalary = row.Decimal("gross_salary")
	}
	return c
}
