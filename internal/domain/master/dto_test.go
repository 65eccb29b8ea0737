package master

import (
	"testing"

	"github.com/cmlabs-hris/paycheck-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRequest(t *testing.T) {
	req := CreateRequest{Name: "Engineering"}
	require.NoError(t, req.Validate())
	assert.Equal(t, map[string]any{"name": "Engineering", "status": int16(1)}, req.Values())

	bad := int16(5)
	req = CreateRequest{Name: "  ", Status: &bad}
	var errs validator.ValidationErrors
	require.ErrorAs(t, req.Validate(), &errs)
	assert.Len(t, errs, 2)
}

func TestUpdateRequest(t *testing.T) {
	empty := UpdateRequest{}
	assert.Error(t, empty.Validate())

	inactive := int16(0)
	req := UpdateRequest{Status: &inactive}
	require.NoError(t, req.Validate())
	assert.Equal(t, map[string]any{"status": int16(0)}, req.Values())
}
