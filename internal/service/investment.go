package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/openlots/lendpool/internal/domain"
	"github.com/openlots/lendpool/internal/store"
	"github.com/openlots/lendpool/pkg/idx"
	"github.com/openlots/lendpool/pkg/slogx"
	"github.com/shopspring/decimal"
)

var (
	ErrDuplicateInvestment = errors.New("already_invested")
	ErrPoolNotActive       = errors.New("pool_not_active")
	ErrAmountExceedsPool   = errors.New("amount_exceeds_pool")
)

// InvestmentService owns the investor-facing side: browsing active pools,
// committing capital, and the dashboard aggregates.
type InvestmentService struct {
	Store store.Store
}

// Invest commits the investor's capital to an active pool. The existence
// check, insert, and possible funded transition run inside one transaction so
// concurrent duplicates cannot both land.
func (s *InvestmentService) Invest(ctx context.Context, investorID, poolID, rawAmount string) (domain.Investment, error) {
	amount, err := parseCurrency(rawAmount)
	if err != nil || amount.LessThanOrEqual(decimal.Zero) {
		return domain.Investment{}, invalidField("amount", "Amount must be a positive number")
	}

	now := time.Now().UTC()
	inv := domain.Investment{
		ID:         idx.New().String(),
		InvestorID: investorID,
		PoolID:     poolID,
		Amount:     amount,
		Status:     domain.InvestmentStatusActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		pool, err := tx.Pools().GetPoolByID(ctx, poolID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrPoolNotFound
			}
			return err
		}
		if pool.Status != domain.PoolStatusActive {
			return ErrPoolNotActive
		}
		if amount.GreaterThan(pool.Amount) {
			return ErrAmountExceedsPool
		}

		if _, err := tx.Investments().GetByInvestorAndPool(ctx, investorID, poolID); err == nil {
			return ErrDuplicateInvestment
		} else if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		if err := tx.Investments().CreateInvestment(ctx, inv); err != nil {
			// UNIQUE(investor_id, pool_id) backs up the existence check.
			if errors.Is(err, store.ErrAlreadyExists) {
				return ErrDuplicateInvestment
			}
			return err
		}

		total, err := tx.Investments().SumForPool(ctx, poolID)
		if err != nil {
			return err
		}
		if total.GreaterThanOrEqual(pool.Amount) {
			return tx.Pools().SetPoolStatus(ctx, poolID, domain.PoolStatusFunded)
		}
		return nil
	})
	if err != nil {
		return domain.Investment{}, err
	}

	slogx.FromContext(ctx).Info("investment recorded",
		slog.String("investment_id", inv.ID),
		slog.String("pool_id", poolID),
		slog.String("investor_id", investorID),
		slog.String("amount", amount.String()),
	)
	return inv, nil
}

// ListMine returns the investor's investments, newest first, joined with the
// pool and its owner's display identity.
func (s *InvestmentService) ListMine(ctx context.Context, investorID string) ([]domain.InvestmentRecord, error) {
	return s.Store.Investments().ListByInvestor(ctx, investorID)
}

// Browse lists every active pool across borrowers for the marketplace view.
func (s *InvestmentService) Browse(ctx context.Context) ([]domain.PoolListing, error) {
	return s.Store.Pools().ListActivePools(ctx)
}

// BrowseDetail returns one active pool with the borrower's email and the
// risk/liability fields exposed.
func (s *InvestmentService) BrowseDetail(ctx context.Context, poolID string) (domain.PoolListing, error) {
	l, err := s.Store.Pools().GetActivePoolListing(ctx, poolID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.PoolListing{}, ErrPoolNotFound
		}
		return domain.PoolListing{}, err
	}
	return l, nil
}

// Dashboard aggregates the investor's position. PendingPayout and
// NextPayoutDate are illustrative estimates, not a payment schedule.
func (s *InvestmentService) Dashboard(ctx context.Context, investorID string) (domain.InvestorDashboard, error) {
	records, err := s.Store.Investments().ListByInvestor(ctx, investorID)
	if err != nil {
		return domain.InvestorDashboard{}, err
	}

	d := domain.InvestorDashboard{
		TotalInvested:  decimal.Zero,
		AvgRoiRate:     decimal.Zero,
		PendingPayout:  decimal.Zero,
		NextPayoutDate: time.Now().UTC().AddDate(0, 0, 30),
	}

	weighted := decimal.Zero
	for _, rec := range records {
		d.TotalInvested = d.TotalInvested.Add(rec.Amount)
		weighted = weighted.Add(rec.Amount.Mul(rec.Pool.RoiRate))

		if rec.Status == domain.InvestmentStatusActive {
			d.ActiveInvestments++
			// amount * (1 + rate/100)
			payout := rec.Amount.Mul(
				decimal.NewFromInt(1).Add(rec.Pool.RoiRate.Div(decimal.NewFromInt(100))))
			d.PendingPayout = d.PendingPayout.Add(payout)
		}
	}

	if d.TotalInvested.GreaterThan(decimal.Zero) {
		d.AvgRoiRate = weighted.Div(d.TotalInvested)
	}

	return d, nil
}
