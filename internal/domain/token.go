package domain

import "time"

// DefaultTokenTTL is how long a bearer token lives unless configured
// otherwise.
const DefaultTokenTTL = 7 * 24 * time.Hour

// AuthToken models a stored bearer token record. The opaque token itself is
// returned to the client exactly once; only its SHA-256 fingerprint is kept.
// A token belongs to exactly one user under exactly one role, and login
// replaces any prior tokens for that (user, role) pair.
type AuthToken struct {
	ID        string
	TokenHash string // base64url SHA-256 fingerprint
	UserID    string
	Role      Role
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the token is past its expiry at the given time.
func (t AuthToken) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
