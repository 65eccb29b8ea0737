package dashboard

import (
	"context"
	"fmt"
	"slices"

	"github.com/cmlabs-hris/paycheck-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/paycheck-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/paycheck-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/paycheck-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/paycheck-backend-go/internal/domain/record"
	"github.com/cmlabs-hris/paycheck-backend-go/internal/domain/user"
	"golang.org/x/sync/errgroup"
)

type DashboardServiceImpl struct {
	employees record.Store
	payrolls  record.Store
	authz     auth.Authorizer
}

func NewDashboardService(employees, payrolls record.Store, authz auth.Authorizer) dashboard.DashboardService {
	return &DashboardServiceImpl{
		employees: employees,
		payrolls:  payrolls,
		authz:     authz,
	}
}

// GetDashboard implements dashboard.DashboardService.
func (s *DashboardServiceImpl) GetDashboard(ctx context.Context) (*dashboard.DashboardResponse, error) {
	if !s.authz.Can(ctx, user.PermissionPayrollViewList) {
		return nil, record.ErrForbidden
	}

	response := &dashboard.DashboardResponse{PayrollTrend: []dashboard.MonthlyTotal{}}
	g, gCtx := errgroup.WithContext(ctx)

	// 1. Active employees
	g.Go(func() error {
		n, err := s.employees.Count(gCtx, record.Options{Status: fmt.Sprint(int16(employee.StatusActive))})
		if err != nil {
			return fmt.Errorf("failed to count active employees: %w", err)
		}
		response.ActiveEmployees = n
		return nil
	})

	// 2. Approved payroll trend, newest first from the store
	g.Go(func() error {
		rows, err := s.payrolls.All(gCtx, record.Options{
			Limit:   dashboard.TrendMonths,
			OrderBy: "payroll_date",
			Order:   record.OrderDesc,
			Status:  fmt.Sprint(int16(payroll.StatusApproved)),
		})
		if err != nil {
			return fmt.Errorf("failed to load payroll trend: %w", err)
		}
		slices.Reverse(rows)

		trend := make([]dashboard.MonthlyTotal, 0, len(rows))
		for _, row := range rows {
			date := row.Date("payroll_date")
			trend = append(trend, dashboard.MonthlyTotal{
				PayrollDate: date,
				Month:       date[:min(len(date), 7)],
				TotalSalary: row.Decimal("total_salary"),
				Status:      payroll.Status(row.Int64("status")).String(),
			})
		}
		response.PayrollTrend = trend
		return nil
	})

	// 3. Most recent payroll in any status
	g.Go(func() error {
		rows, err := s.payrolls.All(gCtx, record.Options{
			Limit:   1,
			OrderBy: "payroll_date",
			Order:   record.OrderDesc,
		})
		if err != nil {
			return fmt.Errorf("failed to load last payroll: %w", err)
		}
		if len(rows) > 0 {
			response.LastPayroll = rows[0]
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return response, nil
}
