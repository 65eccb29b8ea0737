package jwt

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/paycheck-backend-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAccessToken(t *testing.T) {
	svc := NewJWTService("test-secret", "15m")

	token, expiresAt, err := svc.GenerateAccessToken(42, "acc@example.com", user.RoleAccountant)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.NotZero(t, expiresAt)

	parsed, err := svc.JWTAuth().Decode(token)
	require.NoError(t, err)

	role, ok := parsed.Get("role")
	require.True(t, ok)
	assert.Equal(t, "accountant", role)

	jti := parsed.JwtID()
	assert.NotEmpty(t, jti)
	assert.False(t, svc.IsTokenRevoked(jti))
	svc.RevokeToken(jti, parsed.Expiration())
	assert.True(t, svc.IsTokenRevoked(jti))
}

func TestRevokeToken_DropsExpiredEntries(t *testing.T) {
	svc := NewJWTService("test-secret", "15m").(*JWTService)

	svc.RevokeToken("stale", time.Now().Add(-time.Minute))
	assert.True(t, svc.IsTokenRevoked("stale"))

	svc.RevokeToken("fresh", time.Now().Add(time.Hour))
	assert.False(t, svc.IsTokenRevoked("stale"))
	assert.True(t, svc.IsTokenRevoked("fresh"))
}

func TestGenerateAccessToken_BadDuration(t *testing.T) {
	svc := NewJWTService("test-secret", "soon")
	_, _, err := svc.GenerateAccessToken(1, "", user.RoleAdmin)
	assert.Error(t, err)
}
