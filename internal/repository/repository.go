package repository

import (
	"context"

	"github.com/chrisdetmering/Product-Page/internal/domain"
)

// SessionRepository defines the interface for session storage.
type SessionRepository interface {
	// Get retrieves a session by ID. A missing or expired session yields an
	// apperrors.NotFound error.
	Get(ctx context.Context, id string) (*domain.Session, error)

	// Save stores a session, replacing any previous value and refreshing
	// its expiry.
	Save(ctx context.Context, session *domain.Session) error

	// Delete removes a session. Deleting a missing session is not an error.
	Delete(ctx context.Context, id string) error

	// Ping checks that the backing store is reachable.
	Ping(ctx context.Context) error
}
