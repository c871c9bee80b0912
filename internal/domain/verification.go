package domain

import "time"

// DefaultVerificationTTL is how long an emailed signup code stays valid.
const DefaultVerificationTTL = 15 * time.Minute

// EmailVerification is a pending-signup record. It exists only between the
// "request code" and "confirm code" steps; consumed or expired records are
// terminal and swept by housekeeping.
type EmailVerification struct {
	ID        string
	Email     string
	Code      string // 4 digits
	Role      Role
	Payload   string // serialized signup request, replayed on confirm
	ExpiresAt time.Time
	Verified  bool
	CreatedAt time.Time
}

// Expired reports whether the code is past its expiry at the given time.
func (v EmailVerification) Expired(now time.Time) bool {
	return !now.Before(v.ExpiresAt)
}
