package master

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/paycheck-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/paycheck-backend-go/internal/domain/master"
	"github.com/cmlabs-hris/paycheck-backend-go/internal/domain/record"
	"github.com/cmlabs-hris/paycheck-backend-go/internal/domain/salaryhead"
	"github.com/cmlabs-hris/paycheck-backend-go/internal/domain/user"
	"go.uber.org/zap"
)

type salaryHeadServiceImpl struct {
	heads  record.Store
	authz  auth.Authorizer
	logger *zap.Logger
}

func NewSalaryHeadService(heads record.Store, authz auth.Authorizer, logger *zap.Logger) master.SalaryHeadService {
	return &salaryHeadServiceImpl{heads: heads, authz: authz, logger: logger}
}

func (s *salaryHeadServiceImpl) Create(ctx context.Context, req salaryhead.CreateRequest) (record.Row, error) {
	if !s.authz.Can(ctx, user.PermissionSalaryHeadManage) {
		return nil, record.ErrForbidden
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	row, err := s.heads.Create(ctx, &req)
	if err != nil {
		return nil, fmt.Errorf("failed to create salary head: %w", err)
	}
	s.logger.Info("salary head created", zap.Int64("id", row.ID()), zap.String("name", req.Name))
	return row, nil
}

func (s *salaryHeadServiceImpl) Get(ctx context.Context, id int64) (record.Row, error) {
	row, err := s.heads.Find(ctx, id, record.Options{})
	if errors.Is(err, record.ErrNotFound) {
		return nil, master.ErrSalaryHeadNotFound
	}
	return row, err
}

func (s *salaryHeadServiceImpl) List(ctx context.Context, opts record.Options) ([]record.Row, int64, error) {
	if opts.OrderBy == "" {
		opts.OrderBy = "priority"
	}
	rows, err := s.heads.All(ctx, opts)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.heads.Count(ctx, opts)
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (s *salaryHeadServiceImpl) Update(ctx context.Context, id int64, req salaryhead.UpdateRequest) (record.Row, error) {
	if !s.authz.Can(ctx, user.PermissionSalaryHeadManage) {
		return nil, record.ErrForbidden
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	row, err := s.heads.Update(ctx, id, &req)
	if errors.Is(err, record.ErrNotFound) {
		return nil, master.ErrSalaryHeadNotFound
	}
	return row, err
}

// Delete removes a head. Stored salary details keep its amounts; they no
// longer appear in any bucket.
func (s *salaryHeadServiceImpl) Delete(ctx context.Context, id int64) error {
	if !s.authz.Can(ctx, user.PermissionSalaryHeadManage) {
		return record.ErrForbidden
	}
	if _, err := s.heads.Delete(ctx, id); err != nil {
		if errors.Is(err, record.ErrNotFound) {
			return master.ErrSalaryHeadNotFound
		}
		return fmt.Errorf("failed to delete salary head: %w", err)
	}
	s.logger.Info("salary head deleted", zap.Int64("id", id))
	return nil
}

func (s *salaryHeadServiceImpl) Classification(ctx context.Context) (salaryhead.Classification, error) {
	rows, err := s.heads.All(ctx, record.Options{
		Status:  "1",
		OrderBy: "priority",
		Limit:   record.Unbounded,
	})
	if err != nil {
		return salaryhead.Classification{}, fmt.Errorf("failed to load salary heads: %w", err)
	}

	heads := make([]salaryhead.SalaryHead, len(rows))
	for i, row := range rows {
		heads[i] = HeadFromRow(row)
	}
	return salaryhead.Classify(heads), nil
}

// HeadFromRow maps a salary_heads row onto the entity.
func HeadFromRow(row record.Row) salaryhead.SalaryHead {
	return salaryhead.SalaryHead{
		ID:                row.ID(),
		Name:              row.String("head_name"),
		Kind:              salaryhead.Kind(row.Int64("head_type")),
		Amount:            row.Decimal("head_amount"),
		IsPercentage:      row.Bool("is_percentage"),
		IsVariable:        row.Bool("is_variable"),
		IsTaxable:         row.Bool("is_taxable"),
		IsPersonalSavings: row.Bool("is_personal_savings"),
		Priority:          int(row.Int64("priority")),
		Status:            int16(row.Int64("status")),
	}
}
