package service

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/openlots/lendpool/internal/domain"
	"github.com/openlots/lendpool/internal/store"
	"github.com/openlots/lendpool/pkg/idx"
	"github.com/openlots/lendpool/pkg/slogx"
	"github.com/shopspring/decimal"
)

var (
	ErrPoolNotFound       = errors.New("pool_not_found")
	ErrPoolHasInvestments = errors.New("pool_has_investments")
)

// PoolService owns the borrower-facing pool lifecycle: create, list, detail,
// partial update, delete. Every operation is scoped to the owning borrower;
// another borrower's pool is indistinguishable from a missing one.
type PoolService struct {
	Store store.Store
}

// PoolInput is the create payload. Currency-like fields arrive as strings and
// tolerate `$`, `,` and spaces.
type PoolInput struct {
	PoolType         string `json:"poolType"`
	AddressLine      string `json:"addressLine"`
	City             string `json:"city"`
	State            string `json:"state"`
	ZipCode          string `json:"zipCode"`
	PercentOwned     string `json:"percentOwned"`
	Amount           string `json:"amount"`
	RoiRate          string `json:"roiRate"`
	Term             string `json:"term"`
	CustomTermMonths *int   `json:"customTermMonths"`

	CoOwner         string `json:"coOwner"`
	PropertyValue   string `json:"propertyValue"`
	MortgageBalance string `json:"mortgageBalance"`
	PropertyLink    string `json:"propertyLink"`
}

// PoolUpdate is the partial-update payload; nil means "field absent, leave it
// alone".
type PoolUpdate struct {
	PoolType         *string `json:"poolType"`
	AddressLine      *string `json:"addressLine"`
	City             *string `json:"city"`
	State            *string `json:"state"`
	ZipCode          *string `json:"zipCode"`
	PercentOwned     *string `json:"percentOwned"`
	Amount           *string `json:"amount"`
	RoiRate          *string `json:"roiRate"`
	Term             *string `json:"term"`
	CustomTermMonths *int    `json:"customTermMonths"`

	CoOwner         *string `json:"coOwner"`
	PropertyValue   *string `json:"propertyValue"`
	MortgageBalance *string `json:"mortgageBalance"`
	PropertyLink    *string `json:"propertyLink"`
}

// validTerm accepts an integer month label or the literal "custom".
func validTerm(term string) bool {
	if term == domain.TermCustom {
		return true
	}
	n, err := strconv.Atoi(term)
	return err == nil && n > 0
}

// Create validates strictly and persists the pool as active.
func (s *PoolService) Create(ctx context.Context, borrowerID string, in PoolInput) (domain.Pool, error) {
	if !domain.ValidPoolType(in.PoolType) {
		return domain.Pool{}, invalidField("poolType", "Pool type must be equity or refinance")
	}
	if strings.TrimSpace(in.AddressLine) == "" {
		return domain.Pool{}, invalidField("addressLine", "Address is required")
	}
	if strings.TrimSpace(in.City) == "" {
		return domain.Pool{}, invalidField("city", "City is required")
	}
	if strings.TrimSpace(in.State) == "" {
		return domain.Pool{}, invalidField("state", "State is required")
	}
	if strings.TrimSpace(in.ZipCode) == "" {
		return domain.Pool{}, invalidField("zipCode", "Zip code is required")
	}

	percentOwned, err := parseCurrency(in.PercentOwned)
	if err != nil || percentOwned.LessThanOrEqual(decimal.Zero) ||
		percentOwned.GreaterThan(decimal.NewFromInt(100)) {
		return domain.Pool{}, invalidField("percentOwned", "Ownership percentage must be between 1 and 100")
	}

	amount, err := parseCurrency(in.Amount)
	if err != nil || amount.LessThanOrEqual(decimal.Zero) {
		return domain.Pool{}, invalidField("amount", "Amount must be a positive number")
	}

	roiRate, err := parseCurrency(in.RoiRate)
	if err != nil || roiRate.LessThanOrEqual(decimal.Zero) {
		return domain.Pool{}, invalidField("roiRate", "Rate must be a positive number")
	}

	if !validTerm(in.Term) {
		return domain.Pool{}, invalidField("term", "Term must be a month count or custom")
	}
	var customMonths *int
	if in.Term == domain.TermCustom {
		if in.CustomTermMonths == nil || *in.CustomTermMonths <= 0 {
			return domain.Pool{}, invalidField("customTermMonths", "Custom term requires a positive month count")
		}
		customMonths = in.CustomTermMonths
	}

	now := time.Now().UTC()
	p := domain.Pool{
		ID:               idx.New().String(),
		BorrowerID:       borrowerID,
		PoolType:         in.PoolType,
		Status:           domain.PoolStatusActive,
		AddressLine:      strings.TrimSpace(in.AddressLine),
		City:             strings.TrimSpace(in.City),
		State:            strings.TrimSpace(in.State),
		ZipCode:          strings.TrimSpace(in.ZipCode),
		PercentOwned:     percentOwned,
		Amount:           amount,
		RoiRate:          roiRate,
		Term:             in.Term,
		CustomTermMonths: customMonths,
		CoOwner:          optionalString(in.CoOwner),
		PropertyValue:    parseOptionalCurrency(in.PropertyValue),
		MortgageBalance:  parseOptionalCurrency(in.MortgageBalance),
		PropertyLink:     optionalString(in.PropertyLink),
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.Store.Pools().CreatePool(ctx, p); err != nil {
		return domain.Pool{}, err
	}

	slogx.FromContext(ctx).Info("pool created",
		slog.String("pool_id", p.ID),
		slog.String("borrower_id", borrowerID),
		slog.String("amount", p.Amount.String()),
	)
	return p, nil
}

// List returns the borrower's own pools, newest first.
func (s *PoolService) List(ctx context.Context, borrowerID string) ([]domain.Pool, error) {
	return s.Store.Pools().ListPoolsByBorrower(ctx, borrowerID)
}

// Get returns the pool only when owned by the borrower.
func (s *PoolService) Get(ctx context.Context, poolID, borrowerID string) (domain.Pool, error) {
	p, err := s.Store.Pools().GetPoolForBorrower(ctx, poolID, borrowerID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Pool{}, ErrPoolNotFound
		}
		return domain.Pool{}, err
	}
	return p, nil
}

// Update applies a partial field set. Each present field is validated and
// converted; absent fields are untouched. Moving term away from custom clears
// the stored month count unless a replacement arrives in the same request.
func (s *PoolService) Update(ctx context.Context, poolID, borrowerID string, in PoolUpdate) (domain.Pool, error) {
	p, err := s.Get(ctx, poolID, borrowerID)
	if err != nil {
		return domain.Pool{}, err
	}

	if in.PoolType != nil {
		if !domain.ValidPoolType(*in.PoolType) {
			return domain.Pool{}, invalidField("poolType", "Pool type must be equity or refinance")
		}
		p.PoolType = *in.PoolType
	}
	if in.AddressLine != nil {
		if strings.TrimSpace(*in.AddressLine) == "" {
			return domain.Pool{}, invalidField("addressLine", "Address is required")
		}
		p.AddressLine = strings.TrimSpace(*in.AddressLine)
	}
	if in.City != nil {
		if strings.TrimSpace(*in.City) == "" {
			return domain.Pool{}, invalidField("city", "City is required")
		}
		p.City = strings.TrimSpace(*in.City)
	}
	if in.State != nil {
		if strings.TrimSpace(*in.State) == "" {
			return domain.Pool{}, invalidField("state", "State is required")
		}
		p.State = strings.TrimSpace(*in.State)
	}
	if in.ZipCode != nil {
		if strings.TrimSpace(*in.ZipCode) == "" {
			return domain.Pool{}, invalidField("zipCode", "Zip code is required")
		}
		p.ZipCode = strings.TrimSpace(*in.ZipCode)
	}
	if in.PercentOwned != nil {
		percentOwned, err := parseCurrency(*in.PercentOwned)
		if err != nil || percentOwned.LessThanOrEqual(decimal.Zero) ||
			percentOwned.GreaterThan(decimal.NewFromInt(100)) {
			return domain.Pool{}, invalidField("percentOwned", "Ownership percentage must be between 1 and 100")
		}
		p.PercentOwned = percentOwned
	}
	if in.Amount != nil {
		amount, err := parseCurrency(*in.Amount)
		if err != nil || amount.LessThanOrEqual(decimal.Zero) {
			return domain.Pool{}, invalidField("amount", "Amount must be a positive number")
		}
		p.Amount = amount
	}
	if in.RoiRate != nil {
		roiRate, err := parseCurrency(*in.RoiRate)
		if err != nil || roiRate.LessThanOrEqual(decimal.Zero) {
			return domain.Pool{}, invalidField("roiRate", "Rate must be a positive number")
		}
		p.RoiRate = roiRate
	}
	if in.Term != nil {
		if !validTerm(*in.Term) {
			return domain.Pool{}, invalidField("term", "Term must be a month count or custom")
		}
		p.Term = *in.Term
		if p.Term != domain.TermCustom && in.CustomTermMonths == nil {
			p.CustomTermMonths = nil
		}
	}
	if in.CustomTermMonths != nil {
		if *in.CustomTermMonths <= 0 {
			return domain.Pool{}, invalidField("customTermMonths", "Custom term requires a positive month count")
		}
		p.CustomTermMonths = in.CustomTermMonths
	}
	if p.Term == domain.TermCustom && p.CustomTermMonths == nil {
		return domain.Pool{}, invalidField("customTermMonths", "Custom term requires a positive month count")
	}
	if in.CoOwner != nil {
		p.CoOwner = optionalString(*in.CoOwner)
	}
	if in.PropertyValue != nil {
		p.PropertyValue = parseOptionalCurrency(*in.PropertyValue)
	}
	if in.MortgageBalance != nil {
		p.MortgageBalance = parseOptionalCurrency(*in.MortgageBalance)
	}
	if in.PropertyLink != nil {
		p.PropertyLink = optionalString(*in.PropertyLink)
	}

	if err := s.Store.Pools().UpdatePool(ctx, p); err != nil {
		return domain.Pool{}, err
	}
	p.UpdatedAt = time.Now().UTC()

	return p, nil
}

// Delete removes the borrower's pool. Refused once any investment exists so
// committed capital never dangles.
func (s *PoolService) Delete(ctx context.Context, poolID, borrowerID string) error {
	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		if _, err := tx.Pools().GetPoolForBorrower(ctx, poolID, borrowerID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrPoolNotFound
			}
			return err
		}

		count, err := tx.Investments().CountForPool(ctx, poolID)
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrPoolHasInvestments
		}

		if err := tx.Pools().DeletePool(ctx, poolID, borrowerID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrPoolNotFound
			}
			return err
		}

		slogx.FromContext(ctx).Info("pool deleted",
			slog.String("pool_id", poolID),
			slog.String("borrower_id", borrowerID),
		)
		return nil
	})
}

func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
