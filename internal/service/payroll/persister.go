package payroll

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/paycheck-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/paycheck-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/paycheck-backend-go/internal/domain/record"
	"github.com/cmlabs-hris/paycheck-backend-go/internal/domain/salaryhead"
	"github.com/cmlabs-hris/paycheck-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/paycheck-backend-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/paycheck-backend-go/internal/pkg/validator"
	"go.uber.org/zap"
)

// Persister commits payroll sheets. Every write of one call happens in a
// single transaction; a failing line item rolls back the whole sheet.
type Persister struct {
	payrolls record.Store
	details  record.Store
	tx       record.Transactor
	authz    auth.Authorizer
	actors   auth.ActorProvider
	logger   *zap.Logger
}

func NewPersister(
	payrolls record.Store,
	details record.Store,
	tx record.Transactor,
	authz auth.Authorizer,
	actors auth.ActorProvider,
	logger *zap.Logger,
) *Persister {
	return &Persister{
		payrolls: payrolls,
		details:  details,
		tx:       tx,
		authz:    authz,
		actors:   actors,
		logger:   logger,
	}
}

// Save creates a Generated payroll with one detail row per line item.
func (p *Persister) Save(ctx context.Context, req payroll.SaveRequest) (header record.Row, err error) {
	defer func() { p.observe("save", len(req.Lines), err) }()

	if !p.authz.Can(ctx, user.PermissionPayrollCreate) {
		return nil, record.ErrForbidden
	}
	actorID, err := p.actors.CurrentActorID(ctx)
	if err != nil {
		return nil, err
	}

	date, err := req.Validate()
	if err != nil {
		return nil, err
	}
	if err := validateLines(req.Lines, false); err != nil {
		return nil, err
	}
	if err := p.ensureMonthFree(ctx, date); err != nil {
		return nil, err
	}

	err = p.tx.WithinTx(ctx, func(ctx context.Context) error {
		created, err := p.payrolls.Create(ctx, record.Values{
			"payroll_date":    date,
			"department_id":   req.DepartmentID,
			"designation_id":  req.DesignationID,
			"total_salary":    req.Total(),
			"remarks":         req.Remarks,
			"status":          int16(payroll.StatusGenerated),
			"created_user_id": actorID,
		})
		if err != nil {
			if errors.Is(err, record.ErrDuplicate) {
				return payroll.ErrPayrollExistsForMonth
			}
			return fmt.Errorf("failed to create payroll: %w", err)
		}

		for i, line := range req.Lines {
			if _, err := p.details.Create(ctx, detailValues(created.ID(), line)); err != nil {
				return &record.TxAbortError{Line: i + 1, EmployeeID: line.EmployeeID, Err: err}
			}
		}

		header = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	p.logger.Info("payroll saved",
		zap.Int64("payroll_id", header.ID()),
		zap.String("payroll_date", date.Format("2006-01-02")),
		zap.Int("lines", len(req.Lines)),
		zap.Int64("actor_id", actorID),
	)
	return header, nil
}

// UpdateSheet rewrites the amounts of an editable payroll. Every line must
// name an existing detail row of that payroll; payroll_date never changes.
func (p *Persister) UpdateSheet(ctx context.Context, id int64, req payroll.SaveRequest) (header record.Row, err error) {
	defer func() { p.observe("update", len(req.Lines), err) }()

	if !p.authz.Can(ctx, user.PermissionPayrollEdit) {
		return nil, record.ErrForbidden
	}

	existing, err := p.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !payroll.Status(existing.Int64("status")).Editable() {
		return nil, payroll.ErrPayrollNotEditable
	}

	if req.PayrollDate == "" {
		req.PayrollDate = existing.Date("payroll_date")
	}
	if _, err := req.Validate(); err != nil {
		return nil, err
	}
	if err := validateLines(req.Lines, true); err != nil {
		return nil, err
	}

	stored, err := p.details.FindBy(ctx, record.Criteria{"payroll_id": id}, record.Options{Limit: record.Unbounded})
	if err != nil {
		return nil, fmt.Errorf("failed to load payroll details: %w", err)
	}
	owned := make(map[int64]record.Row, len(stored))
	for _, row := range stored {
		owned[row.ID()] = row
	}
	for i, line := range req.Lines {
		detail, ok := owned[*line.PayrollDetailID]
		if !ok {
			return nil, &record.TxAbortError{Line: i + 1, EmployeeID: line.EmployeeID, Err: payroll.ErrPayrollDetailNotFound}
		}
		if detail.String("employee_id") != line.EmployeeID {
			return nil, &record.TxAbortError{
				Line:       i + 1,
				EmployeeID: line.EmployeeID,
				Err: validator.New(fmt.Sprintf("payroll_details[%d].employee_id", i),
					fmt.Sprintf("payroll detail %d belongs to employee %s", detail.ID(), detail.String("employee_id"))),
			}
		}
	}

	err = p.tx.WithinTx(ctx, func(ctx context.Context) error {
		updated, err := p.payrolls.Update(ctx, id, record.Values{
			"total_salary": req.Total(),
			"remarks":      req.Remarks,
		})
		if err != nil {
			return fmt.Errorf("failed to update payroll: %w", err)
		}

		for i, line := range req.Lines {
			values := detailValues(id, line)
			delete(values, "payroll_id")
			delete(values, "employee_id")
			if _, err := p.details.Update(ctx, *line.PayrollDetailID, values); err != nil {
				return &record.TxAbortError{Line: i + 1, EmployeeID: line.EmployeeID, Err: err}
			}
		}

		header = updated
		return nil
	})
	if err != nil {
		return nil, err
	}

	p.logger.Info("payroll sheet updated", zap.Int64("payroll_id", id), zap.Int("lines", len(req.Lines)))
	return header, nil
}

// UpdateStatus moves a payroll along its lifecycle and records who did it.
func (p *Persister) UpdateStatus(ctx context.Context, id int64, req payroll.StatusRequest) (header record.Row, err error) {
	defer func() { p.observe("status", 0, err) }()

	if err := req.Validate(); err != nil {
		return nil, err
	}
	if !p.authz.Can(ctx, statusPermission(req.Status)) {
		return nil, record.ErrForbidden
	}
	actorID, err := p.actors.CurrentActorID(ctx)
	if err != nil {
		return nil, err
	}

	existing, err := p.find(ctx, id)
	if err != nil {
		return nil, err
	}
	current := payroll.Status(existing.Int64("status"))
	if !current.CanTransitionTo(req.Status) {
		return nil, fmt.Errorf("%w: %s to %s", payroll.ErrInvalidStatusTransition, current, req.Status)
	}

	values := record.Values{"status": int16(req.Status)}
	switch req.Status {
	case payroll.StatusApproved, payroll.StatusRejected, payroll.StatusCancelled:
		values["approved_user_id"] = actorID
	}
	if req.Remarks != nil {
		values["remarks"] = *req.Remarks
	}

	header, err = p.payrolls.Update(ctx, id, values)
	if err != nil {
		if errors.Is(err, record.ErrDuplicate) {
			return nil, payroll.ErrPayrollExistsForMonth
		}
		return nil, fmt.Errorf("failed to update payroll status: %w", err)
	}

	p.logger.Info("payroll status changed",
		zap.Int64("payroll_id", id),
		zap.Stringer("from", current),
		zap.Stringer("to", req.Status),
		zap.Int64("actor_id", actorID),
	)
	return header, nil
}

// ensureMonthFree fails when a payroll outside the closed statuses already
// holds the month. The unique index repeats the check inside the transaction.
func (p *Persister) ensureMonthFree(ctx context.Context, date time.Time) error {
	closed := make([]int16, len(payroll.ClosedStatuses))
	for i, s := range payroll.ClosedStatuses {
		closed[i] = int16(s)
	}

	n, err := p.payrolls.Count(ctx, record.Options{
		Where: []record.Condition{
			record.Eq("payroll_date", date),
			record.Where("status", record.OpNotIn, closed),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to check payroll month: %w", err)
	}
	if n > 0 {
		return payroll.ErrPayrollExistsForMonth
	}
	return nil
}

func (p *Persister) find(ctx context.Context, id int64) (record.Row, error) {
	row, err := p.payrolls.Find(ctx, id, record.Options{})
	if errors.Is(err, record.ErrNotFound) {
		return nil, payroll.ErrPayrollNotFound
	}
	return row, err
}

func (p *Persister) observe(operation string, lines int, err error) {
	metrics.RecordPayrollCommit(operation, lines, err)
	if err != nil {
		p.logger.Warn("payroll commit aborted", zap.String("operation", operation), zap.Error(err))
	}
}

// validateLines checks every line before any write. The first failing line is
// reported with its position.
func validateLines(lines []payroll.LineItem, requireID bool) error {
	for i, line := range lines {
		prefix := fmt.Sprintf("payroll_details[%d]", i)

		if requireID && (line.PayrollDetailID == nil || *line.PayrollDetailID <= 0) {
			return &record.TxAbortError{Line: i + 1, EmployeeID: line.EmployeeID, Err: payroll.ErrDetailIDRequired}
		}
		if err := line.Validate(); err != nil {
			var errs validator.ValidationErrors
			if errors.As(err, &errs) {
				err = errs.Prefix(prefix)
			}
			return &record.TxAbortError{Line: i + 1, EmployeeID: line.EmployeeID, Err: err}
		}
	}
	return nil
}

// detailValues maps a line item to payroll_details columns. Details are
// already flattened by decoding and are stored re-encoded.
func detailValues(payrollID int64, line payroll.LineItem) record.Values {
	details := line.SalaryDetails
	if details == nil {
		details = salaryhead.Details{}
	}
	return record.Values{
		"payroll_id":     payrollID,
		"employee_id":    line.EmployeeID,
		"basic_salary":   line.BasicSalary,
		"gross_salary":   line.GrossSalary,
		"salary_details": details,
		"status":         int16(line.DetailStatusOrDefault()),
	}
}

func statusPermission(status payroll.Status) user.Permission {
	switch status {
	case payroll.StatusApproved:
		return user.PermissionPayrollApprove
	case payroll.StatusRejected:
		return user.PermissionPayrollReject
	case payroll.StatusCancelled:
		return user.PermissionPayrollCancel
	default:
		return user.PermissionPayrollCreate
	}
}
