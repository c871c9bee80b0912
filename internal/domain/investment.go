package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Investment statuses.
const (
	InvestmentStatusPending   = "pending"
	InvestmentStatusActive    = "active"
	InvestmentStatusCompleted = "completed"
	InvestmentStatusCancelled = "cancelled"
)

// Investment is an investor's capital commitment to a pool. The (investor,
// pool) pair is unique and the amount is immutable once recorded.
type Investment struct {
	ID         string
	InvestorID string
	PoolID     string
	Amount     decimal.Decimal
	Status     string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// InvestmentRecord is an investment joined with its pool's public fields and
// the pool owner's display identity, as returned to the owning investor.
type InvestmentRecord struct {
	Investment

	Pool          Pool
	BorrowerName  string
	BorrowerEmail string
}

// InvestorDashboard aggregates an investor's position across all of their
// investments.
type InvestorDashboard struct {
	TotalInvested     decimal.Decimal
	ActiveInvestments int
	// AvgRoiRate is the rate of return weighted by invested amount across all
	// investments; zero when there are none.
	AvgRoiRate decimal.Decimal
	// PendingPayout sums amount*(1+rate/100) over active investments. It is an
	// illustrative estimate, not an amortization schedule.
	PendingPayout decimal.Decimal
	// NextPayoutDate is a placeholder 30 days out.
	NextPayoutDate time.Time
}
