package master

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/paycheck-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/paycheck-backend-go/internal/domain/master"
	"github.com/cmlabs-hris/paycheck-backend-go/internal/domain/record"
	"github.com/cmlabs-hris/paycheck-backend-go/internal/domain/user"
	"go.uber.org/zap"
)

type masterServiceImpl struct {
	departments  record.Store
	designations record.Store
	authz        auth.Authorizer
	logger       *zap.Logger
}

func NewMasterService(
	departments record.Store,
	designations record.Store,
	authz auth.Authorizer,
	logger *zap.Logger,
) master.MasterService {
	return &masterServiceImpl{
		departments:  departments,
		designations: designations,
		authz:        authz,
		logger:       logger,
	}
}

func (s *masterServiceImpl) store(kind master.Kind) (record.Store, user.Permission, error) {
	switch kind {
	case master.KindDepartment:
		return s.departments, user.PermissionDepartmentManage, nil
	case master.KindDesignation:
		return s.designations, user.PermissionDesignationManage, nil
	default:
		return nil, "", fmt.Errorf("%w: %q", master.ErrUnknownKind, kind)
	}
}

func (s *masterServiceImpl) Create(ctx context.Context, kind master.Kind, req master.CreateRequest) (record.Row, error) {
	store, perm, err := s.store(kind)
	if err != nil {
		return nil, err
	}
	if !s.authz.Can(ctx, perm) {
		return nil, record.ErrForbidden
	}

	// Validate request
	if err := req.Validate(); err != nil {
		return nil, err
	}

	row, err := store.Create(ctx, &req)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", kind, err)
	}

	s.logger.Info("master record created", zap.String("kind", string(kind)), zap.Int64("id", row.ID()))
	return row, nil
}

func (s *masterServiceImpl) Get(ctx context.Context, kind master.Kind, id int64) (record.Row, error) {
	store, _, err := s.store(kind)
	if err != nil {
		return nil, err
	}

	row, err := store.Find(ctx, id, record.Options{})
	if err != nil {
		if errors.Is(err, record.ErrNotFound) {
			return nil, master.NotFound(kind)
		}
		return nil, err
	}
	return row, nil
}

func (s *masterServiceImpl) List(ctx context.Context, kind master.Kind, opts record.Options) ([]record.Row, int64, error) {
	store, _, err := s.store(kind)
	if err != nil {
		return nil, 0, err
	}

	rows, err := store.All(ctx, opts)
	if err != nil {
		return nil, 0, err
	}
	total, err := store.Count(ctx, opts)
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (s *masterServiceImpl) Update(ctx context.Context, kind master.Kind, id int64, req master.UpdateRequest) (record.Row, error) {
	store, perm, err := s.store(kind)
	if err != nil {
		return nil, err
	}
	if !s.authz.Can(ctx, perm) {
		return nil, record.ErrForbidden
	}

	// Validate request
	if err := req.Validate(); err != nil {
		return nil, err
	}

	row, err := store.Update(ctx, id, &req)
	if err != nil {
		if errors.Is(err, record.ErrNotFound) {
			return nil, master.NotFound(kind)
		}
		return nil, fmt.Errorf("failed to update %s: %w", kind, err)
	}
	return row, nil
}

// Delete removes an unused record; rows still referenced by employees fail
// with a validation error from the foreign key.
func (s *masterServiceImpl) Delete(ctx context.Context, kind master.Kind, id int64) error {
	store, perm, err := s.store(kind)
	if err != nil {
		return err
	}
	if !s.authz.Can(ctx, perm) {
		return record.ErrForbidden
	}

	if _, err := store.Delete(ctx, id); err != nil {
		if errors.Is(err, record.ErrNotFound) {
			return master.NotFound(kind)
		}
		return err
	}

	s.logger.Info("master record deleted", zap.String("kind", string(kind)), zap.Int64("id", id))
	return nil
}
