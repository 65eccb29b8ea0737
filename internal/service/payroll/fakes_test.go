package payroll

import (
	"context"

	"github.com/cmlabs-hris/paycheck-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/paycheck-backend-go/internal/domain/record"
	"github.com/cmlabs-hris/paycheck-backend-go/internal/domain/salaryhead"
	"github.com/cmlabs-hris/paycheck-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/paycheck-backend-go/internal/repository/memory"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// fakeAuth grants the permissions of one role and reports a fixed actor.
type fakeAuth struct {
	role    user.Role
	actorID int64
}

func (f fakeAuth) Can(_ context.Context, p user.Permission) bool {
	return user.HasPermission(f.role, p)
}

func (f fakeAuth) CurrentActorID(context.Context) (int64, error) {
	if f.actorID == 0 {
		return 0, auth.ErrNoActor
	}
	return f.actorID, nil
}

type headsFunc func(ctx context.Context) (salaryhead.Classification, error)

func (f headsFunc) Classification(ctx context.Context) (salaryhead.Classification, error) {
	return f(ctx)
}

var testHeads = salaryhead.Classify([]salaryhead.SalaryHead{
	{ID: 1, Name: "Basic Allowance", Kind: salaryhead.KindEarning, IsTaxable: true, Priority: 1},
	{ID: 2, Name: "Provident Fund", Kind: salaryhead.KindDeduction, IsTaxable: true, Priority: 2},
	{ID: 3, Name: "Travel", Kind: salaryhead.KindEarning, IsTaxable: false, Priority: 3},
})

func staticHeads() HeadSource {
	return headsFunc(func(context.Context) (salaryhead.Classification, error) {
		return testHeads, nil
	})
}

type fixture struct {
	payrolls  *memory.Store
	details   *memory.Store
	employees *memory.Store
	tx        *memory.Transactor
	persister *Persister
}

func newFixture(a fakeAuth, seed ...record.Row) *fixture {
	f := &fixture{
		payrolls:  memory.NewStore(record.TablePayroll, seed...),
		details:   memory.NewStore(record.TablePayrollDetails),
		employees: memory.NewStore(record.TableEmployees),
	}
	f.tx = memory.NewTransactor(f.payrolls, f.details)
	f.persister = NewPersister(f.payrolls, f.details, f.tx, a, a, zap.NewNop())
	return f
}

func accountant() fakeAuth {
	return fakeAuth{role: user.RoleAccountant, actorID: 9}
}

func dec(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}
