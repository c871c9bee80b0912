package http

import (
	"time"

	"github.com/openlots/lendpool/internal/domain"
	"github.com/shopspring/decimal"
)

// Monetary fields use decimal.Decimal throughout, which marshals as a quoted
// decimal string, never a binary float.

// AuthResponse is the body for signup and login.
type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	Role      string       `json:"role"`
	User      UserResponse `json:"user"`
}

type UserResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// MeResponse is the body for /auth/me.
type MeResponse struct {
	Authenticated bool   `json:"authenticated"`
	ID            string `json:"id"`
	Role          string `json:"role"`
	Name          string `json:"name"`
	Email         string `json:"email"`
}

// PoolResponse is the canonical pool representation returned to its owner.
type PoolResponse struct {
	ID               string           `json:"id"`
	PoolType         string           `json:"poolType"`
	Status           string           `json:"status"`
	AddressLine      string           `json:"addressLine"`
	City             string           `json:"city"`
	State            string           `json:"state"`
	ZipCode          string           `json:"zipCode"`
	PercentOwned     decimal.Decimal  `json:"percentOwned"`
	Amount           decimal.Decimal  `json:"amount"`
	RoiRate          decimal.Decimal  `json:"roiRate"`
	Term             string           `json:"term"`
	CustomTermMonths *int             `json:"customTermMonths,omitempty"`
	TermMonths       int              `json:"termMonths"`
	CoOwner          *string          `json:"coOwner,omitempty"`
	PropertyValue    *decimal.Decimal `json:"propertyValue,omitempty"`
	MortgageBalance  *decimal.Decimal `json:"mortgageBalance,omitempty"`
	PropertyLink     *string          `json:"propertyLink,omitempty"`
	CreatedAt        time.Time        `json:"createdAt"`
	UpdatedAt        time.Time        `json:"updatedAt"`
}

func toPoolResponse(p domain.Pool) PoolResponse {
	return PoolResponse{
		ID:               p.ID,
		PoolType:         p.PoolType,
		Status:           p.Status,
		AddressLine:      p.AddressLine,
		City:             p.City,
		State:            p.State,
		ZipCode:          p.ZipCode,
		PercentOwned:     p.PercentOwned,
		Amount:           p.Amount,
		RoiRate:          p.RoiRate,
		Term:             p.Term,
		CustomTermMonths: p.CustomTermMonths,
		TermMonths:       p.TermMonths(),
		CoOwner:          p.CoOwner,
		PropertyValue:    p.PropertyValue,
		MortgageBalance:  p.MortgageBalance,
		PropertyLink:     p.PropertyLink,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

// PoolListingResponse is what browsing investors see. Borrower email and the
// risk/liability fields only appear on the detail view.
type PoolListingResponse struct {
	ID              string           `json:"id"`
	PoolType        string           `json:"poolType"`
	Status          string           `json:"status"`
	AddressLine     string           `json:"addressLine"`
	City            string           `json:"city"`
	State           string           `json:"state"`
	ZipCode         string           `json:"zipCode"`
	PercentOwned    decimal.Decimal  `json:"percentOwned"`
	Amount          decimal.Decimal  `json:"amount"`
	RoiRate         decimal.Decimal  `json:"roiRate"`
	Term            string           `json:"term"`
	TermMonths      int              `json:"termMonths"`
	BorrowerName    string           `json:"borrowerName"`
	BorrowerEmail   string           `json:"borrowerEmail,omitempty"`
	Invested        decimal.Decimal  `json:"invested"`
	FundingProgress decimal.Decimal  `json:"fundingProgress"`
	CoOwner         *string          `json:"coOwner,omitempty"`
	PropertyValue   *decimal.Decimal `json:"propertyValue,omitempty"`
	MortgageBalance *decimal.Decimal `json:"mortgageBalance,omitempty"`
	PropertyLink    *string          `json:"propertyLink,omitempty"`
	CreatedAt       time.Time        `json:"createdAt"`
}

func toListingResponse(l domain.PoolListing, detail bool) PoolListingResponse {
	resp := PoolListingResponse{
		ID:              l.ID,
		PoolType:        l.PoolType,
		Status:          l.Status,
		AddressLine:     l.AddressLine,
		City:            l.City,
		State:           l.State,
		ZipCode:         l.ZipCode,
		PercentOwned:    l.PercentOwned,
		Amount:          l.Amount,
		RoiRate:         l.RoiRate,
		Term:            l.Term,
		TermMonths:      l.TermMonths(),
		BorrowerName:    l.BorrowerName,
		Invested:        l.Invested,
		FundingProgress: l.FundingProgress(),
		PropertyLink:    l.PropertyLink,
		CreatedAt:       l.CreatedAt,
	}
	if detail {
		resp.BorrowerEmail = l.BorrowerEmail
		resp.CoOwner = l.CoOwner
		resp.PropertyValue = l.PropertyValue
		resp.MortgageBalance = l.MortgageBalance
	}
	return resp
}

// InvestmentResponse is one investment joined with its pool for the owning
// investor.
type InvestmentResponse struct {
	ID            string          `json:"id"`
	PoolID        string          `json:"poolId"`
	Amount        decimal.Decimal `json:"amount"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"createdAt"`
	Pool          PoolResponse    `json:"pool"`
	BorrowerName  string          `json:"borrowerName"`
	BorrowerEmail string          `json:"borrowerEmail"`
}

func toInvestmentResponse(rec domain.InvestmentRecord) InvestmentResponse {
	return InvestmentResponse{
		ID:            rec.ID,
		PoolID:        rec.PoolID,
		Amount:        rec.Amount,
		Status:        rec.Status,
		CreatedAt:     rec.CreatedAt,
		Pool:          toPoolResponse(rec.Pool),
		BorrowerName:  rec.BorrowerName,
		BorrowerEmail: rec.BorrowerEmail,
	}
}

// DashboardResponse aggregates the investor's position.
type DashboardResponse struct {
	TotalInvested     decimal.Decimal `json:"totalInvested"`
	ActiveInvestments int             `json:"activeInvestments"`
	AvgRoiRate        decimal.Decimal `json:"avgRoiRate"`
	PendingPayout     decimal.Decimal `json:"pendingPayout"`
	NextPayoutDate    time.Time       `json:"nextPayoutDate"`
}

// ErrorResponse is the error body shape for swagger docs.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is the body for the health probes.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

type HealthChecks struct {
	Database string `json:"database"`
}
