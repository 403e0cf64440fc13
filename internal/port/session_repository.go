package port

import (
	"context"

	"github.com/foodcircles/storefront/internal/core/domain"
)

type SessionRepository interface {
	// GetSession resolves a session token, nil when unknown or expired.
	GetSession(ctx context.Context, token string) (*domain.Session, error)

	// PutSession stores a session record under its token.
	PutSession(ctx context.Context, session domain.Session) error
}

type SubmissionGuard interface {
	// Acquire returns false when a submission for key is already in flight.
	Acquire(ctx context.Context, key string) (bool, error)

	// Release frees the key so the user may submit again.
	Release(ctx context.Context, key string) error
}
