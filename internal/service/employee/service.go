package employee

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/paycheck-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/paycheck-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/paycheck-backend-go/internal/domain/record"
	"github.com/cmlabs-hris/paycheck-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/paycheck-backend-go/internal/pkg/validator"
	"go.uber.org/zap"
)

type EmployeeServiceImpl struct {
	employees record.Store
	history   record.Store
	tx        record.Transactor
	authz     auth.Authorizer
	logger    *zap.Logger
	now       func() time.Time
}

func NewEmployeeService(
	employees record.Store,
	history record.Store,
	tx record.Transactor,
	authz auth.Authorizer,
	logger *zap.Logger,
) employee.EmployeeService {
	return &EmployeeServiceImpl{
		employees: employees,
		history:   history,
		tx:        tx,
		authz:     authz,
		logger:    logger,
		now:       time.Now,
	}
}

// List implements employee.EmployeeService.
func (s *EmployeeServiceImpl) List(ctx context.Context, opts record.Options) ([]record.Row, int64, error) {
	if !s.authz.Can(ctx, user.PermissionEmployeeViewList) {
		return nil, 0, record.ErrForbidden
	}

	opts.Relations = append(opts.Relations, unitRelations()...)
	opts.MutationFields = append(opts.MutationFields, "full_name")

	rows, err := s.employees.All(ctx, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list employees: %w", err)
	}
	total, err := s.employees.Count(ctx, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count employees: %w", err)
	}
	return rows, total, nil
}

// Get implements employee.EmployeeService. The salary columns come from the
// history row in effect today and are null when there is none.
func (s *EmployeeServiceImpl) Get(ctx context.Context, employeeID string) (record.Row, error) {
	if !s.authz.Can(ctx, user.PermissionEmployeeViewDetails) {
		return nil, record.ErrForbidden
	}

	today := s.now().UTC().Truncate(24 * time.Hour)
	opts := record.Options{
		MutationFields: []string{"full_name"},
		Relations: append(unitRelations(), record.Relation{
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
			Where:    []record.Condition{record.Eq("status", int16(1))},
			Snapshot: record.LatestAsOf("active_from", today),
		}),
	}
	return s.find(ctx, employeeID, opts)
}

// Create implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Create(ctx context.Context, req employee.CreateEmployeeRequest) (record.Row, error) {
	if !s.authz.Can(ctx, user.PermissionEmployeeCreate) {
		return nil, record.ErrForbidden
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Check if employee id already exists
	n, err := s.employees.Count(ctx, record.Options{Where: []record.Condition{record.Eq("employee_id", req.EmployeeID)}})
	if err != nil {
		return nil, fmt.Errorf("failed to check employee id existence: %w", err)
	}
	if n > 0 {
		return nil, employee.ErrEmployeeIDExists
	}

	var created record.Row
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		row, err := s.employees.Create(ctx, record.Values(req.Values()))
		if err != nil {
			if errors.Is(err, record.ErrDuplicate) {
				return employee.ErrEmployeeIDExists
			}
			return fmt.Errorf("failed to create employee: %w", err)
		}

		history := req.Salary.HistoryValues(req.EmployeeID, employee.PurposeInitial, req.SalaryActiveFrom())
		if _, err := s.history.Create(ctx, record.Values(history)); err != nil {
			return fmt.Errorf("failed to create initial salary: %w", err)
		}

		created = row
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("employee created", zap.String("employee_id", req.EmployeeID), zap.Int64("id", created.ID()))
	return created, nil
}

// Update implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Update(ctx context.Context, employeeID string, req employee.UpdateEmployeeRequest) (record.Row, error) {
	if !s.authz.Can(ctx, user.PermissionEmployeeEdit) {
		return nil, record.ErrForbidden
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.find(ctx, employeeID, record.Options{Fields: []string{"id"}})
	if err != nil {
		return nil, err
	}

	updated, err := s.employees.Update(ctx, existing.ID(), record.Values(req.Values()))
	if err != nil {
		return nil, fmt.Errorf("failed to update employee: %w", err)
	}
	return updated, nil
}

// ChangeStatus implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ChangeStatus(ctx context.Context, employeeID string, req employee.StatusRequest) error {
	if !s.authz.Can(ctx, user.PermissionEmployeeEdit) {
		return record.ErrForbidden
	}
	if err := req.Validate(); err != nil {
		return err
	}

	n, err := s.employees.UpdateBy(ctx, record.Criteria{"employee_id": employeeID}, record.Values{"status": int16(req.Status)})
	if err != nil {
		return fmt.Errorf("failed to change employee status: %w", err)
	}
	if n == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// Resign implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Resign(ctx context.Context, employeeID string, req employee.ResignRequest) error {
	if !s.authz.Can(ctx, user.PermissionEmployeeEdit) {
		return record.ErrForbidden
	}
	if err := req.Validate(); err != nil {
		return err
	}

	existing, err := s.find(ctx, employeeID, record.Options{})
	if err != nil {
		return err
	}
	if !existing.IsNull("resign_date") {
		return employee.ErrAlreadyResigned
	}

	resignDate, _ := time.Parse("2006-01-02", req.ResignDate)
	if joined, ok := existing.Time("joining_date"); ok && resignDate.Before(joined) {
		return employee.ErrResignBeforeJoined
	}

	if _, err := s.employees.UpdateBy(ctx, record.Criteria{"employee_id": employeeID}, record.Values{
		"status":      int16(employee.StatusInactive),
		"resign_date": resignDate,
	}); err != nil {
		return fmt.Errorf("failed to resign employee: %w", err)
	}

	s.logger.Info("employee resigned", zap.String("employee_id", employeeID), zap.String("resign_date", req.ResignDate))
	return nil
}

// SalaryHistory implements employee.EmployeeService. Newest first.
func (s *EmployeeServiceImpl) SalaryHistory(ctx context.Context, employeeID string) ([]record.Row, error) {
	if !s.authz.Can(ctx, user.PermissionEmployeeViewDetails) {
		return nil, record.ErrForbidden
	}
	if _, err := s.find(ctx, employeeID, record.Options{Fields: []string{"id"}}); err != nil {
		return nil, err
	}

	rows, err := s.history.FindBy(ctx, record.Criteria{"employee_id": employeeID}, record.Options{
		Limit:   record.Unbounded,
		OrderBy: "active_from",
		Order:   record.OrderDesc,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load salary history: %w", err)
	}
	return rows, nil
}

// ChangeSalary implements employee.EmployeeService. History rows are never
// rewritten; a change always appends a row.
func (s *EmployeeServiceImpl) ChangeSalary(ctx context.Context, employeeID string, req employee.SalaryChangeRequest) (record.Row, error) {
	if !s.authz.Can(ctx, user.PermissionSalaryIncrement) {
		return nil, record.ErrForbidden
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.find(ctx, employeeID, record.Options{})
	if err != nil {
		return nil, err
	}
	if !existing.IsNull("resign_date") {
		return nil, employee.ErrAlreadyResigned
	}
	if joined, ok := existing.Time("joining_date"); ok && req.ActiveFrom < joined.Format("2006-01-02") {
		return nil, validator.New("active_from", "active_from cannot be before joining date")
	}

	row, err := s.history.Create(ctx, record.Values(req.Salary().HistoryValues(employeeID, req.Purpose, req.ActiveFrom)))
	if err != nil {
		return nil, fmt.Errorf("failed to append salary history: %w", err)
	}

	s.logger.Info("salary changed",
		zap.String("employee_id", employeeID),
		zap.Stringer("purpose", req.Purpose),
		zap.String("active_from", req.ActiveFrom),
	)
	return row, nil
}

func (s *EmployeeServiceImpl) find(ctx context.Context, employeeID string, opts record.Options) (record.Row, error) {
	row, err := s.employees.FindByColumn(ctx, "employee_id", employeeID, opts)
	if err != nil {
		if errors.Is(err, record.ErrNotFound) {
			return nil, employee.ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}
	return row, nil
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
