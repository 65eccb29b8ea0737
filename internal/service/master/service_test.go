package master

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/paycheck-backend-go/internal/domain/master"
	"github.com/cmlabs-hris/paycheck-backend-go/internal/domain/record"
	"github.com/cmlabs-hris/paycheck-backend-go/internal/domain/salaryhead"
	"github.com/cmlabs-hris/paycheck-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/paycheck-backend-go/internal/repository/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type roleAuth user.Role

func (r roleAuth) Can(_ context.Context, p user.Permission) bool {
	return user.HasPermission(user.Role(r), p)
}

func newMasterService(role user.Role) (master.MasterService, *memory.Store, *memory.Store) {
	departments := memory.NewStore(record.TableDepartments)
	designations := memory.NewStore(record.TableDesignations)
	return NewMasterService(departments, designations, roleAuth(role), zap.NewNop()), departments, designations
}

func TestMasterService_Lifecycle(t *testing.T) {
	svc, departments, designations := newMasterService(user.RoleAdmin)
	ctx := context.Background()

	row, err := svc.Create(ctx, master.KindDepartment, master.CreateRequest{Name: "Finance"})
	require.NoError(t, err)
	assert.Equal(t, int16(1), row["status"])
	assert.Len(t, departments.Rows(), 1)
	assert.Empty(t, designations.Rows())

	name := "Accounts"
	row, err = svc.Update(ctx, master.KindDepartment, row.ID(), master.UpdateRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Accounts", row["name"])

	rows, total, err := svc.List(ctx, master.KindDepartment, record.Options{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "Accounts", rows[0]["name"])

	require.NoError(t, svc.Delete(ctx, master.KindDepartment, row.ID()))
	_, err = svc.Get(ctx, master.KindDepartment, row.ID())
	assert.ErrorIs(t, err, master.ErrDepartmentNotFound)
	assert.ErrorIs(t, err, record.ErrNotFound)
}

func TestMasterService_Errors(t *testing.T) {
	svc, _, designations := newMasterService(user.RoleEmployee)
	ctx := context.Background()

	_, err := svc.Create(ctx, master.KindDesignation, master.CreateRequest{Name: "Clerk"})
	assert.ErrorIs(t, err, record.ErrForbidden)
	assert.Zero(t, designations.Writes)

	_, err = svc.Get(ctx, master.Kind("branch"), 1)
	assert.ErrorIs(t, err, master.ErrUnknownKind)

	_, err = svc.Get(ctx, master.KindDesignation, 3)
	assert.ErrorIs(t, err, master.ErrDesignationNotFound)
}

func TestSalaryHeadService_Classification(t *testing.T) {
	heads := memory.NewStore(record.TableSalaryHeads,
		record.Row{"head_name": "PF", "head_type": int16(2), "is_taxable": true, "priority": int64(2), "status": int16(1)},
		record.Row{"head_name": "House Rent", "head_type": int16(1), "is_taxable": true, "priority": int64(1), "status": int16(1)},
		record.Row{"head_name": "Meal", "head_type": int16(1), "is_taxable": false, "priority": int64(3), "status": int16(1)},
		record.Row{"head_name": "Retired", "head_type": int16(1), "is_taxable": true, "priority": int64(0), "status": int16(0)},
	)
	svc := NewSalaryHeadService(heads, roleAuth(user.RoleAccountant), zap.NewNop())

	c, err := svc.Classification(context.Background())
	require.NoError(t, err)
	require.Len(t, c.Earnings, 1)
	assert.Equal(t, "House Rent", c.Earnings[0].Name)
	require.Len(t, c.Deductions, 1)
	assert.Equal(t, salaryhead.KindDeduction, c.Deductions[0].Kind)
	require.Len(t, c.NonTaxable, 1)
	assert.Equal(t, "Meal", c.NonTaxable[0].Name)
}

func TestSalaryHeadService_CRUD(t *testing.T) {
	heads := memory.NewStore(record.TableSalaryHeads)
	svc := NewSalaryHeadService(heads, roleAuth(user.RoleAdmin), zap.NewNop())
	ctx := context.Background()

	row, err := svc.Create(ctx, salaryhead.CreateRequest{Name: "Bonus", Kind: salaryhead.KindEarning, Amount: decimal.NewFromInt(10)})
	require.NoError(t, err)
	assert.Equal(t, true, row["is_taxable"])

	amount := decimal.NewFromInt(15)
	row, err = svc.Update(ctx, row.ID(), salaryhead.UpdateRequest{Amount: &amount})
	require.NoError(t, err)
	assert.True(t, amount.Equal(row.Decimal("head_amount")))

	require.NoError(t, svc.Delete(ctx, row.ID()))
	assert.ErrorIs(t, svc.Delete(ctx, row.ID()), master.ErrSalaryHeadNotFound)
}

func TestSalaryHeadService_Forbidden(t *testing.T) {
	svc := NewSalaryHeadService(memory.NewStore(record.TableSalaryHeads), roleAuth(user.RoleEmployee), zap.NewNop())
	_, err := svc.Create(context.Background(), salaryhead.CreateRequest{Name: "Bonus", Kind: salaryhead.KindEarning})
	assert.ErrorIs(t, err, record.ErrForbidden)
}
