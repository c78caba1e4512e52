package domain

import "time"

// Session is the persisted state of one visitor's page. Everything a
// visitor changes lives here and disappears when the session expires.
type Session struct {
	ID        string          `json:"id"`
	Cart      []int           `json:"cart"`
	Selected  int             `json:"selected"`
	Reviews   []Review        `json:"reviews"`
	Form      ReviewFormState `json:"form"`
	ActiveTab Tab             `json:"active_tab"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	ExpiresAt time.Time       `json:"expires_at"`
}

// NewSession creates an empty session that expires after ttl.
func NewSession(id string, now time.Time, ttl time.Duration) *Session {
	return &Session{
		ID:        id,
		Cart:      []int{},
		Reviews:   []Review{},
		ActiveTab: TabReviews,
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// Expired reports whether the session has expired at now.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// Touch marks the session as updated at now and extends its expiry.
func (s *Session) Touch(now time.Time, ttl time.Duration) {
	s.UpdatedAt = now
	s.ExpiresAt = now.Add(ttl)
}
