// Package memory provides an in-process session repository.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/chrisdetmering/Product-Page/internal/domain"
	apperrors "github.com/chrisdetmering/Product-Page/pkg/errors"
)

// SessionRepository keeps sessions in a map. Sessions are stored as copies
// so callers never share state with the store.
type SessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]entry
	ttl      time.Duration
	now      func() time.Time
}

type entry struct {
	session   domain.Session
	expiresAt time.Time
}

// NewSessionRepository creates an empty repository whose entries live for ttl
// after their last save.
func NewSessionRepository(ttl time.Duration) *SessionRepository {
	return &SessionRepository{
		sessions: make(map[string]entry),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Get returns a copy of the session, or NotFound when it is missing or
// expired.
func (r *SessionRepository) Get(_ context.Context, id string) (*domain.Session, error) {
	r.mu.RLock()
	e, ok := r.sessions[id]
	r.mu.RUnlock()

	if !ok || !r.now().Before(e.expiresAt) {
		return nil, apperrors.NotFound("session", id)
	}

	s := clone(e.session)
	return &s, nil
}

// Save stores a copy of session and resets its expiry.
func (r *SessionRepository) Save(_ context.Context, session *domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[session.ID] = entry{
		session:   clone(*session),
		expiresAt: r.now().Add(r.ttl),
	}
	return nil
}

// Delete removes a session.
func (r *SessionRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, id)
	return nil
}

// Ping always succeeds.
func (r *SessionRepository) Ping(_ context.Context) error {
	return nil
}

// Sweep drops expired sessions and returns how many were removed.
func (r *SessionRepository) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	removed := 0
	for id, e := range r.sessions {
		if !now.Before(e.expiresAt) {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored sessions, expired or not.
func (r *SessionRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// RunSweeper calls Sweep every interval until ctx is done.
func (r *SessionRepository) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}

func clone(s domain.Session) domain.Session {
	s.Cart = append([]int(nil), s.Cart...)
	s.Reviews = append([]domain.Review(nil), s.Reviews...)
	s.Form.Errors = append([]string(nil), s.Form.Errors...)
	return s
}
