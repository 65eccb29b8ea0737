package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/paycheck-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/paycheck-backend-go/internal/domain/record"
	"github.com/cmlabs-hris/paycheck-backend-go/internal/domain/settings"
	"github.com/cmlabs-hris/paycheck-backend-go/internal/domain/user"
	"go.uber.org/zap"
)

type settingsServiceImpl struct {
	store  record.Store
	authz  auth.Authorizer
	logger *zap.Logger
}

func NewSettingsService(store record.Store, authz auth.Authorizer, logger *zap.Logger) settings.Service {
	return &settingsServiceImpl{store: store, authz: authz, logger: logger}
}

// Get returns the stored object, or an empty one before the first save.
func (s *settingsServiceImpl) Get(ctx context.Context) (settings.General, error) {
	if !s.authz.Can(ctx, user.PermissionSettingsManage) {
		return nil, record.ErrForbidden
	}

	row, err := s.store.FindByColumn(ctx, "setting_key", settings.GeneralKey, record.Options{})
	if errors.Is(err, record.ErrNotFound) {
		return settings.General{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	return decode(row)
}

// Update replaces the whole object.
func (s *settingsServiceImpl) Update(ctx context.Context, req settings.UpdateRequest) (settings.General, error) {
	if !s.authz.Can(ctx, user.PermissionSettingsManage) {
		return nil, record.ErrForbidden
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	raw, err := json.Marshal(req.Settings)
	if err != nil {
		return nil, fmt.Errorf("failed to encode settings: %w", err)
	}
	values := record.Values{"setting_value": string(raw)}

	row, err := s.save(ctx, values)
	if err != nil {
		return nil, err
	}
	s.logger.Info("general settings updated", zap.Int("keys", len(req.Settings)))
	return decode(row)
}

func (s *settingsServiceImpl) save(ctx context.Context, values record.Values) (record.Row, error) {
	existing, err := s.store.FindByColumn(ctx, "setting_key", settings.GeneralKey, record.Options{})
	switch {
	case err == nil:
		return s.update(ctx, existing.ID(), values)
	case !errors.Is(err, record.ErrNotFound):
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	row, err := s.store.Create(ctx, record.Values{
		"setting_key":   settings.GeneralKey,
		"setting_value": values["setting_value"],
	})
	if err == nil {
		return row, nil
	}
	if !errors.Is(err, record.ErrDuplicate) {
		return nil, fmt.Errorf("failed to save settings: %w", err)
	}

	// A concurrent first save won the insert; overwrite it.
	existing, err = s.store.FindByColumn(ctx, "setting_key", settings.GeneralKey, record.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	return s.update(ctx, existing.ID(), values)
}

func (s *settingsServiceImpl) update(ctx context.Context, id int64, values record.Values) (record.Row, error) {
	row, err := s.store.Update(ctx, id, values)
	if err != nil {
		return nil, fmt.Errorf("failed to save settings: %w", err)
	}
	return row, nil
}

func decode(row record.Row) (settings.General, error) {
	out := settings.General{}
	raw := row.String("setting_value")
	if raw == "" {
		return out, nil
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("stored settings are not a JSON object: %w", err)
	}
	return out, nil
}
