package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/paycheck-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/paycheck-backend-go/internal/domain/record"
	"github.com/cmlabs-hris/paycheck-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/paycheck-backend-go/internal/repository/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roleAuth user.Role

func (r roleAuth) Can(_ context.Context, p user.Permission) bool {
	return user.HasPermission(user.Role(r), p)
}

func payrollRow(month time.Month, year int, status payroll.Status, total int64) record.Row {
	return record.Row{
		"payroll_date": payroll.NormalizeDate(time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)),
		"status":       int16(status),
		"total_salary": decimal.NewFromInt(total),
	}
}

func TestGetDashboard(t *testing.T) {
	employees := memory.NewStore(record.TableEmployees,
		record.Row{"employee_id": "E-1", "status": int16(1)},
		record.Row{"employee_id": "E-2", "status": int16(1)},
		record.Row{"employee_id": "E-3", "status": int16(0)},
	)

	var seed []record.Row
	for m := 1; m <= 12; m++ {
		seed = append(seed, payrollRow(time.Month(m), 2023, payroll.StatusApproved, int64(1000+m)))
	}
	seed = append(seed,
		payrollRow(time.January, 2024, payroll.StatusApproved, 2000),
		payrollRow(time.February, 2024, payroll.StatusCancelled, 9999),
		payrollRow(time.March, 2024, payroll.StatusGenerated, 3000),
	)
	payrolls := memory.NewStore(record.TablePayroll, seed...)

	svc := NewDashboardService(employees, payrolls, roleAuth(user.RoleAccountant))
	resp, err := svc.GetDashboard(context.Background())
	require.NoError(t, err)

	assert.EqualValues(t, 2, resp.ActiveEmployees)

	require.Len(t, resp.PayrollTrend, 12)
	assert.Equal(t, "2023-02", resp.PayrollTrend[0].Month)
	assert.Equal(t, "2024-01-31", resp.PayrollTrend[11].PayrollDate)
	assert.Equal(t, "Approved", resp.PayrollTrend[11].Status)
	assert.True(t, decimal.NewFromInt(2000).Equal(resp.PayrollTrend[11].TotalSalary))

	require.NotNil(t, resp.LastPayroll)
	assert.Equal(t, int16(payroll.StatusGenerated), resp.LastPayroll["status"])
}

func TestGetDashboard_Empty(t *testing.T) {
	svc := NewDashboardService(
		memory.NewStore(record.TableEmployees),
		memory.NewStore(record.TablePayroll),
		roleAuth(user.RoleAdmin),
	)
	resp, err := svc.GetDashboard(context.Background())
	require.NoError(t, err)
	assert.Zero(t, resp.ActiveEmployees)
	assert.Empty(t, resp.PayrollTrend)
	assert.Nil(t, resp.LastPayroll)
}

func TestGetDashboard_Forbidden(t *testing.T) {
	svc := NewDashboardService(memory.NewStore(record.TableEmployees), memory.NewStore(record.TablePayroll), roleAuth(user.RoleEmployee))
	_, err := svc.GetDashboard(context.Background())
	assert.ErrorIs(t, err, record.ErrForbidden)
}
