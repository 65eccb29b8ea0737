package auth

import "errors"

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrNoActor      = errors.New("no authenticated user in request context")
)
