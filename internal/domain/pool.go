package domain

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Pool types.
const (
	PoolTypeEquity    = "equity"
	PoolTypeRefinance = "refinance"
)

// Pool lifecycle statuses. Pools enter the marketplace as active; funded is
// reached automatically when committed capital covers the requested amount.
const (
	PoolStatusDraft     = "draft"
	PoolStatusActive    = "active"
	PoolStatusFunded    = "funded"
	PoolStatusCompleted = "completed"
	PoolStatusCancelled = "cancelled"
)

// TermCustom is the term label selecting a borrower-supplied month count.
const TermCustom = "custom"

// DefaultCustomTermMonths applies when term is custom but no month count was
// ever stored.
const DefaultCustomTermMonths = 12

// Pool is a borrower's funding request against a specific property. The owner
// is immutable; amounts are decimals and serialize as decimal strings.
type Pool struct {
	ID         string
	BorrowerID string
	PoolType   string // equity | refinance
	Status     string

	AddressLine  string
	City         string
	State        string
	ZipCode      string
	PercentOwned decimal.Decimal
	Amount       decimal.Decimal
	RoiRate      decimal.Decimal

	Term             string // month count label, or "custom"
	CustomTermMonths *int

	CoOwner         *string
	PropertyValue   *decimal.Decimal
	MortgageBalance *decimal.Decimal
	PropertyLink    *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TermMonths derives the effective term length. A custom term uses the stored
// month count (default 12 when unset); any other label is its own integer
// value.
func (p Pool) TermMonths() int {
	if p.Term == TermCustom {
		if p.CustomTermMonths != nil {
			return *p.CustomTermMonths
		}
		return DefaultCustomTermMonths
	}
	if n, err := strconv.Atoi(p.Term); err == nil {
		return n
	}
	return 0
}

// ValidPoolType reports whether t is one of the supported pool types.
func ValidPoolType(t string) bool {
	return t == PoolTypeEquity || t == PoolTypeRefinance
}

// PoolListing is a pool joined with its owner's public identity and the
// capital committed so far, as shown to browsing investors.
type PoolListing struct {
	Pool

	BorrowerName  string
	BorrowerEmail string // only exposed on the detail view
	Invested      decimal.Decimal
}

// FundingProgress returns committed capital as a percentage of the requested
// amount, capped at 100.
func (l PoolListing) FundingProgress() decimal.Decimal {
	if l.Amount.IsZero() {
		return decimal.Zero
	}
	progress := l.Invested.Div(l.Amount).Mul(decimal.NewFromInt(100))
	hundred := decimal.NewFromInt(100)
	if progress.GreaterThan(hundred) {
		return hundred
	}
	return progress
}
