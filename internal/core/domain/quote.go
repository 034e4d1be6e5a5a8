package domain

import (
	"time"

	"github.com/google/uuid"
)

// Quote is an immutable path quote with a validity window. An expired quote
// must be re-validated through a fresh discovery, never re-used.
type Quote struct {
	Id        string
	Path      Path
	CreatedAt time.Time
	ExpiresAt time.Time
}

// NewQuote returns a quote for the given path valid for the given TTL.
func NewQuote(path Path, ttl time.Duration) *Quote {
	now := time.Now()
	return &Quote{
		Id:        uuid.New().String(),
		Path:      path,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// IsExpired returns true if the quote's validity window is over. The window
// is half-open: a quote expiring exactly now is expired.
func (q *Quote) IsExpired(now time.Time) bool {
	return !now.Before(q.ExpiresAt)
}
