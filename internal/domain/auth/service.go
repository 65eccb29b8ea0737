package auth

import (
	"context"

	"github.com/cmlabs-hris/paycheck-backend-go/internal/domain/user"
)

// Authorizer answers capability checks for the caller in ctx.
type Authorizer interface {
	Can(ctx context.Context, permission user.Permission) bool
}

// ActorProvider resolves the id of the user making the request.
type ActorProvider interface {
	CurrentActorID(ctx context.Context) (int64, error)
}
