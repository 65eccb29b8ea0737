package payroll

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/paycheck-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/paycheck-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/paycheck-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/paycheck-backend-go/internal/domain/record"
	"github.com/cmlabs-hris/paycheck-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/paycheck-backend-go/internal/pkg/storage"
	"github.com/cmlabs-hris/paycheck-backend-go/internal/pkg/validator"
	"go.uber.org/zap"
)

type payrollServiceImpl struct {
	*Generator
	*Persister

	payrolls  record.Store
	details   record.Store
	employees record.Store
	heads     HeadSource
	authz     auth.Authorizer
	actors    auth.ActorProvider
	files     storage.FileStorage
	logger    *zap.Logger
}

// Stores groups the tables the payroll service reads and writes.
type Stores struct {
	Payrolls  record.Store
	Details   record.Store
	Employees record.Store
	Tx        record.Transactor
}

func NewPayrollService(
	stores Stores,
	heads HeadSource,
	authz auth.Authorizer,
	actors auth.ActorProvider,
	files storage.FileStorage,
	logger *zap.Logger,
	hooks ...payroll.PreviewHook,
) payroll.PayrollService {
	return &payrollServiceImpl{
		Generator: NewGenerator(stores.Employees, heads, hooks...),
		Persister: NewPersister(stores.Payrolls, stores.Details, stores.Tx, authz, actors, logger),
		payrolls:  stores.Payrolls,
		details:   stores.Details,
		employees: stores.Employees,
		heads:     heads,
		authz:     authz,
		actors:    actors,
		files:     files,
		logger:    logger,
	}
}

func (s *payrollServiceImpl) Generate(ctx context.Context, req payroll.GenerateRequest) (payroll.Preview, error) {
	return s.Preview(ctx, req)
}

func (s *payrollServiceImpl) List(ctx context.Context, opts record.Options) ([]record.Row, int64, error) {
	if !s.authz.Can(ctx, user.PermissionPayrollViewList) {
		return nil, 0, record.ErrForbidden
	}
	opts.Relations = append(opts.Relations, unitRelations()...)

	rows, err := s.payrolls.All(ctx, opts)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.payrolls.Count(ctx, opts)
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// Get returns the header with its detail lines, employee names and the
// bucketed salary details.
func (s *payrollServiceImpl) Get(ctx context.Context, id int64) (payroll.Sheet, error) {
	if !s.authz.Can(ctx, user.PermissionPayrollViewDetails) {
		return payroll.Sheet{}, record.ErrForbidden
	}
	header, err := s.payrolls.Find(ctx, id, record.Options{Relations: unitRelations()})
	if err != nil {
		if errors.Is(err, record.ErrNotFound) {
			return payroll.Sheet{}, payroll.ErrPayrollNotFound
		}
		return payroll.Sheet{}, err
	}

	classification, err := s.heads.Classification(ctx)
	if err != nil {
		return payroll.Sheet{}, err
	}

	details, err := s.details.FindBy(ctx, record.Criteria{"payroll_id": id}, record.Options{
		Limit:          record.Unbounded,
		OrderBy:        "employee_id",
		Heads:          &classification,
		MutationFields: []string{"full_name"},
		Relations:      []record.Relation{employeeNames()},
	})
	if err != nil {
		return payroll.Sheet{}, fmt.Errorf("failed to load payroll details: %w", err)
	}

	return payroll.Sheet{Payroll: header, SalaryHeads: classification, Details: details}, nil
}

// Report lists payrolls whose month falls inside the requested range.
func (s *payrollServiceImpl) Report(ctx context.Context, req payroll.ReportRequest) ([]record.Row, error) {
	if !s.authz.Can(ctx, user.PermissionPayrollRegister) {
		return nil, record.ErrForbidden
	}
	from, to, err := req.Validate()
	if err != nil {
		return nil, err
	}

	opts := record.Options{
		Limit:        record.Unbounded,
		OrderBy:      "payroll_date",
		Status:       req.Status,
		WhereBetween: []record.Range{{Column: "payroll_date", Start: from, End: to}},
		Relations:    unitRelations(),
	}
	if req.DepartmentID != nil {
		opts.Where = append(opts.Where, record.Eq("department_id", *req.DepartmentID))
	}
	if req.DesignationID != nil {
		opts.Where = append(opts.Where, record.Eq("designation_id", *req.DesignationID))
	}
	return s.payrolls.All(ctx, opts)
}

// Ledger lists one employee's approved payroll lines. Callers that may not
// see other payslips only get their own ledger.
func (s *payrollServiceImpl) Ledger(ctx context.Context, req payroll.LedgerRequest, opts record.Options) ([]record.Row, int64, error) {
	if !s.authz.Can(ctx, user.PermissionPayrollLedger) {
		return nil, 0, record.ErrForbidden
	}
	if !s.authz.Can(ctx, user.PermissionPayslipViewOthers) {
		own, err := s.ownEmployeeID(ctx)
		if err != nil {
			return nil, 0, err
		}
		req.EmployeeID = own
	}
	if err := validator.Struct(&req); err != nil {
		return nil, 0, err
	}

	rel := approvedPayroll()
	if req.From != "" || req.To != "" {
		from, err := payroll.ParseMonth(firstNonEmpty(req.From, "1970-01"))
		if err != nil {
			return nil, 0, validator.New("from", "from must be YYYY-MM-DD or YYYY-MM")
		}
		to, err := payroll.ParseMonth(firstNonEmpty(req.To, "9999-12"))
		if err != nil {
			return nil, 0, validator.New("to", "to must be YYYY-MM-DD or YYYY-MM")
		}
		start, _ := payroll.MonthBounds(from)
		rel.WhereBetween = []record.Range{{Column: "payroll_date", Start: start, End: to}}
	}

	return s.payslipLines(ctx, req.EmployeeID, rel, opts)
}

// Payslips lists the caller's own approved payroll lines.
func (s *payrollServiceImpl) Payslips(ctx context.Context, opts record.Options) ([]record.Row, int64, error) {
	if !s.authz.Can(ctx, user.PermissionPayslipViewOwn) {
		return nil, 0, record.ErrForbidden
	}
	own, err := s.ownEmployeeID(ctx)
	if err != nil {
		return nil, 0, err
	}
	return s.payslipLines(ctx, own, approvedPayroll(), opts)
}

func (s *payrollServiceImpl) payslipLines(ctx context.Context, employeeID string, rel record.Relation, opts record.Options) ([]record.Row, int64, error) {
	classification, err := s.heads.Classification(ctx)
	if err != nil {
		return nil, 0, err
	}

	opts.Where = append([]record.Condition{record.Eq("employee_id", employeeID)}, opts.Where...)
	opts.Relations = append(opts.Relations, rel)
	opts.Heads = &classification
	if opts.OrderBy == "" {
		opts.OrderBy = "payroll_id"
		opts.Order = record.OrderDesc
	}

	rows, err := s.details.All(ctx, opts)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.details.Count(ctx, opts)
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// ownEmployeeID resolves the employee record linked to the calling user.
func (s *payrollServiceImpl) ownEmployeeID(ctx context.Context) (string, error) {
	actorID, err := s.actors.CurrentActorID(ctx)
	if err != nil {
		return "", err
	}
	row, err := s.employees.FindByColumn(ctx, "user_id", actorID, record.Options{Fields: []string{"id", "employee_id"}})
	if err != nil {
		if errors.Is(err, record.ErrNotFound) {
			return "", employee.ErrEmployeeNotFound
		}
		return "", err
	}
	return row.String("employee_id"), nil
}

func unitRelations() []record.Relation {
	return []record.Relation{
		{
			Table:      record.TableDepartments,
			LocalKey:   "department_id",
			ForeignKey: "id",
			Fields:     []record.Field{{Name: "name", Alias: "department_name"}},
		},
		{
			Table:      record.TableDesignations,
			LocalKey:   "designation_id",
			ForeignKey: "id",
			Fields:     []record.Field{{Name: "name", Alias: "designation_name"}},
		},
	}
}

func employeeNames() record.Relation {
	return record.Relation{
		Table:      record.TableEmployees,
		LocalKey:   "employee_id",
		ForeignKey: "employee_id",
		Fields:     record.Select("first_name", "last_name"),
	}
}

func approvedPayroll() record.Relation {
	return record.Relation{
		Table:      record.TablePayroll,
		LocalKey:   "payroll_id",
		ForeignKey: "id",
		Join:       record.InnerJoin,
		Fields: []record.Field{
			{Name: "payroll_date"},
			{Name: "status", Alias: "payroll_status"},
		},
		Where: []record.Condition{record.Eq("status", int16(payroll.StatusApproved))},
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
