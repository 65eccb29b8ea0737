package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/cmlabs-hris/paycheck-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/paycheck-backend-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
)

// ClaimsAuth answers authorization and identity questions from the verified
// JWT that jwtauth.Verifier put into the request context.
type ClaimsAuth struct{}

func NewClaimsAuth() *ClaimsAuth {
	return &ClaimsAuth{}
}

var (
	_ auth.Authorizer    = (*ClaimsAuth)(nil)
	_ auth.ActorProvider = (*ClaimsAuth)(nil)
)

// Can reports whether the caller's role grants permission. A missing or
// invalid token grants nothing.
func (a *ClaimsAuth) Can(ctx context.Context, permission user.Permission) bool {
	role, err := RoleFrom(ctx)
	if err != nil {
		return false
	}
	return user.HasPermission(role, permission)
}

func (a *ClaimsAuth) CurrentActorID(ctx context.Context) (int64, error) {
	claims, err := claimsFrom(ctx)
	if err != nil {
		return 0, err
	}

	id, err := int64Claim(claims["user_id"])
	if err != nil || id <= 0 {
		return 0, auth.ErrNoActor
	}
	return id, nil
}

// RoleFrom returns the role claim of the caller.
func RoleFrom(ctx context.Context) (user.Role, error) {
	claims, err := claimsFrom(ctx)
	if err != nil {
		return "", err
	}
	role, ok := claims["role"].(string)
	if !ok || !user.Role(role).Valid() {
		return "", user.ErrInvalidRole
	}
	return user.Role(role), nil
}

func claimsFrom(ctx context.Context) (map[string]interface{}, error) {
	token, claims, err := jwtauth.FromContext(ctx)
	if err != nil || token == nil {
		return nil, auth.ErrInvalidToken
	}
	return claims, nil
}

// int64Claim accepts the JSON shapes a numeric claim can take after decoding.
func int64Claim(v interface{}) (int64, error) {
	switch n := v.(type) {
	case float64:
		return int64(n), nil
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case json.Number:
		return n.Int64()
	case string:
		return strconv.ParseInt(n, 10, 64)
	default:
		return 0, fmt.Errorf("unexpected claim type %T", v)
	}
}
