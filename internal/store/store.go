package store

import (
	"context"
	"errors"

	"github.com/openlots/lendpool/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite today)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable, and a transaction entry point for the few multi-step operations
// that must be atomic (login token replacement, investment creation).
type Store interface {
	Borrowers() Borrowers
	Investors() Investors
	AuthTokens() AuthTokens
	Verifications() Verifications
	Pools() Pools
	Investments() Investments

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed. This is the
	// recommended way to handle transactions.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds
// Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Borrowers interface {
	// CreateBorrower inserts a new borrower (id is provided by app via ULID).
	// A duplicate email maps to ErrAlreadyExists.
	CreateBorrower(ctx context.Context, b domain.Borrower) error

	// GetBorrowerByID returns a borrower by id.
	GetBorrowerByID(ctx context.Context, id string) (domain.Borrower, error)

	// GetBorrowerByEmail is used during login. Email is matched exactly;
	// callers lowercase before lookup.
	GetBorrowerByEmail(ctx context.Context, email string) (domain.Borrower, error)

	// EmailExists reports whether a borrower with this email exists.
	EmailExists(ctx context.Context, email string) (bool, error)

	// SetVerified flips the verified flag.
	SetVerified(ctx context.Context, id string, verified bool) error

	// UpdatePasswordHash sets a new argon2id hash.
	UpdatePasswordHash(ctx context.Context, id string, newHash string) error

	// DeleteBorrower cascades to pools and tokens (per schema). Debug/admin
	// only; there is no HTTP route for it.
	DeleteBorrower(ctx context.Context, id string) error
}

type Investors interface {
	// CreateInvestor inserts a new investor. A duplicate email maps to
	// ErrAlreadyExists.
	CreateInvestor(ctx context.Context, i domain.Investor) error

	// GetInvestorByID returns an investor by id.
	GetInvestorByID(ctx context.Context, id string) (domain.Investor, error)

	// GetInvestorByEmail is used during login.
	GetInvestorByEmail(ctx context.Context, email string) (domain.Investor, error)

	// EmailExists reports whether an investor with this email exists.
	EmailExists(ctx context.Context, email string) (bool, error)

	// SetVerified flips the verified flag.
	SetVerified(ctx context.Context, id string, verified bool) error

	// UpdatePasswordHash sets a new argon2id hash.
	UpdatePasswordHash(ctx context.Context, id string, newHash string) error

	// DeleteInvestor cascades to investments and tokens (per schema).
	DeleteInvestor(ctx context.Context, id string) error
}

type AuthTokens interface {
	// CreateToken stores a new token record (hash only, never the plaintext).
	CreateToken(ctx context.Context, t domain.AuthToken) error

	// GetTokenByHash returns the token record by its fingerprint, expired or
	// not; expiry is the caller's concern so expired tokens can be lazily
	// deleted on use.
	GetTokenByHash(ctx context.Context, hash string) (domain.AuthToken, error)

	// DeleteToken removes a single token by fingerprint.
	DeleteToken(ctx context.Context, hash string) error

	// DeleteUserTokens removes every token owned by (user, role). Login calls
	// this before inserting the replacement token.
	DeleteUserTokens(ctx context.Context, userID string, role domain.Role) error

	// DeleteExpiredTokens is housekeeping.
	DeleteExpiredTokens(ctx context.Context) error
}

type Verifications interface {
	// CreateVerification writes a pending-signup record, replacing any prior
	// pending record for the same (email, role).
	CreateVerification(ctx context.Context, v domain.EmailVerification) error

	// GetPendingVerification returns the newest unconsumed record for
	// (email, role), expired or not.
	GetPendingVerification(ctx context.Context, email string, role domain.Role) (domain.EmailVerification, error)

	// MarkVerified consumes the record.
	MarkVerified(ctx context.Context, id string) error

	// DeleteVerification removes a record (e.g. expired on use).
	DeleteVerification(ctx context.Context, id string) error

	// DeleteExpiredVerifications is housekeeping.
	DeleteExpiredVerifications(ctx context.Context) error
}

type Pools interface {
	// CreatePool inserts a new pool.
	CreatePool(ctx context.Context, p domain.Pool) error

	// GetPoolByID returns a pool regardless of owner or status.
	GetPoolByID(ctx context.Context, id string) (domain.Pool, error)

	// GetPoolForBorrower returns the pool only when owned by borrowerID;
	// otherwise ErrNotFound so ownership is indistinguishable from absence.
	GetPoolForBorrower(ctx context.Context, id, borrowerID string) (domain.Pool, error)

	// ListPoolsByBorrower returns the borrower's pools, newest first.
	ListPoolsByBorrower(ctx context.Context, borrowerID string) ([]domain.Pool, error)

	// ListActivePools returns all pools in status active across borrowers,
	// newest first, joined with owner identity and committed capital.
	ListActivePools(ctx context.Context) ([]domain.PoolListing, error)

	// GetActivePoolListing returns one active pool with owner identity and
	// committed capital.
	GetActivePoolListing(ctx context.Context, id string) (domain.PoolListing, error)

	// UpdatePool persists all mutable fields of p and bumps updated_at.
	UpdatePool(ctx context.Context, p domain.Pool) error

	// SetPoolStatus transitions the lifecycle status.
	SetPoolStatus(ctx context.Context, id, status string) error

	// DeletePool removes the pool when owned by borrowerID.
	DeletePool(ctx context.Context, id, borrowerID string) error
}

type Investments interface {
	// CreateInvestment inserts a new investment. A duplicate (investor, pool)
	// pair maps to ErrAlreadyExists.
	CreateInvestment(ctx context.Context, inv domain.Investment) error

	// GetByInvestorAndPool returns the investor's investment in a pool.
	GetByInvestorAndPool(ctx context.Context, investorID, poolID string) (domain.Investment, error)

	// ListByInvestor returns the investor's investments newest first, joined
	// with pool fields and the pool owner's identity.
	ListByInvestor(ctx context.Context, investorID string) ([]domain.InvestmentRecord, error)

	// SumForPool totals committed capital for a pool (zero when none).
	SumForPool(ctx context.Context, poolID string) (decimal.Decimal, error)

	// CountForPool counts investments recorded against a pool.
	CountForPool(ctx context.Context, poolID string) (int, error)
}
