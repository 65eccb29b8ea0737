package settings

import (
	"context"
	"fmt"
	"testing"

	"github.com/cmlabs-hris/paycheck-backend-go/internal/domain/record"
	"github.com/cmlabs-hris/paycheck-backend-go/internal/domain/settings"
	"github.com/cmlabs-hris/paycheck-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/paycheck-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/paycheck-backend-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type roleAuth user.Role

func (r roleAuth) Can(_ context.Context, p user.Permission) bool {
	return user.HasPermission(user.Role(r), p)
}

func TestSettingsService_GetBeforeFirstSave(t *testing.T) {
	store := memory.NewStore(record.TableSettings)
	svc := NewSettingsService(store, roleAuth(user.RoleAdmin), zap.NewNop())

	got, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, settings.General{}, got)
	assert.Empty(t, store.Rows())
}

func TestSettingsService_UpdateUpserts(t *testing.T) {
	store := memory.NewStore(record.TableSettings)
	svc := NewSettingsService(store, roleAuth(user.RoleAdmin), zap.NewNop())
	ctx := context.Background()

	saved, err := svc.Update(ctx, settings.UpdateRequest{Settings: settings.General{
		"company_name": "CM Labs",
		"currency":     "IDR",
	}})
	require.NoError(t, err)
	assert.Equal(t, "CM Labs", saved["company_name"])
	require.Len(t, store.Rows(), 1)
	assert.Equal(t, settings.GeneralKey, store.Rows()[0]["setting_key"])

	saved, err = svc.Update(ctx, settings.UpdateRequest{Settings: settings.General{"currency": "USD"}})
	require.NoError(t, err)
	assert.Equal(t, settings.General{"currency": "USD"}, saved)
	require.Len(t, store.Rows(), 1, "second save updates the same row")

	got, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, settings.General{"currency": "USD"}, got)
}

// racingStore loses every insert to a request that saved first.
type racingStore struct {
	*memory.Store
}

func (s racingStore) Create(ctx context.Context, _ record.Input) (record.Row, error) {
	if _, err := s.Store.Create(ctx, record.Values{
		"setting_key":   settings.GeneralKey,
		"setting_value": `{"currency":"IDR"}`,
	}); err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("insert general_settings: %w", record.ErrDuplicate)
}

func TestSettingsService_ConcurrentFirstSaveOverwrites(t *testing.T) {
	store := memory.NewStore(record.TableSettings)
	svc := NewSettingsService(racingStore{store}, roleAuth(user.RoleAdmin), zap.NewNop())

	saved, err := svc.Update(context.Background(), settings.UpdateRequest{Settings: settings.General{"currency": "USD"}})
	require.NoError(t, err)
	assert.Equal(t, settings.General{"currency": "USD"}, saved)

	rows := store.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, `{"currency":"USD"}`, rows[0]["setting_value"])
}

func TestSettingsService_AdminOnly(t *testing.T) {
	store := memory.NewStore(record.TableSettings)
	ctx := context.Background()

	for _, role := range []user.Role{user.RoleAccountant, user.RoleEmployee} {
		svc := NewSettingsService(store, roleAuth(role), zap.NewNop())

		_, err := svc.Get(ctx)
		assert.ErrorIs(t, err, record.ErrForbidden, role)

		_, err = svc.Update(ctx, settings.UpdateRequest{Settings: settings.General{"a": 1}})
		assert.ErrorIs(t, err, record.ErrForbidden, role)
	}
	assert.Empty(t, store.Rows())
}

func TestSettingsService_Validation(t *testing.T) {
	svc := NewSettingsService(memory.NewStore(record.TableSettings), roleAuth(user.RoleAdmin), zap.NewNop())

	_, err := svc.Update(context.Background(), settings.UpdateRequest{})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "settings")
}

func TestSettingsService_CorruptStoredValue(t *testing.T) {
	store := memory.NewStore(record.TableSettings, record.Row{
		"id": int64(1), "setting_key": settings.GeneralKey, "setting_value": "[1,2]",
	})
	svc := NewSettingsService(store, roleAuth(user.RoleAdmin), zap.NewNop())

	_, err := svc.Get(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a JSON object")
}
