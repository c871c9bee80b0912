package service

import (
	"context"
	"testing"

	"github.com/openlots/lendpool/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestInvest(t *testing.T) {
	st := newTestStore(t)
	pools := &PoolService{Store: st}
	svc := &InvestmentService{Store: st}
	ctx := context.Background()

	owner := seedBorrower(t, st, "owner@example.com")
	investor := seedInvestor(t, st, "backer@example.com")

	p, err := pools.Create(ctx, owner.ID, poolInput()) // asks for 10000
	require.NoError(t, err)

	inv, err := svc.Invest(ctx, investor.ID, p.ID, "$2,500")
	require.NoError(t, err)
	require.Equal(t, "2500", inv.Amount.String())
	require.Equal(t, domain.InvestmentStatusActive, inv.Status)

	total, err := st.Investments().SumForPool(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, "2500", total.String())

	// Partially funded pools stay active.
	got, err := st.Pools().GetPoolByID(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, domain.PoolStatusActive, got.Status)
}

func TestInvestRejectsDuplicates(t *testing.T) {
	st := newTestStore(t)
	pools := &PoolService{Store: st}
	svc := &InvestmentService{Store: st}
	ctx := context.Background()

	owner := seedBorrower(t, st, "owner@example.com")
	investor := seedInvestor(t, st, "backer@example.com")

	p, err := pools.Create(ctx, owner.ID, poolInput())
	require.NoError(t, err)

	_, err = svc.Invest(ctx, investor.ID, p.ID, "1000")
	require.NoError(t, err)

	_, err = svc.Invest(ctx, investor.ID, p.ID, "500")
	require.ErrorIs(t, err, ErrDuplicateInvestment)

	// Exactly one record survives and the total is unchanged.
	count, err := st.Investments().CountForPool(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, 1, count)

	total, err := st.Investments().SumForPool(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, "1000", total.String())
}

func TestInvestAmountBounds(t *testing.T) {
	st := newTestStore(t)
	pools := &PoolService{Store: st}
	svc := &InvestmentService{Store: st}
	ctx := context.Background()

	owner := seedBorrower(t, st, "owner@example.com")

	t.Run("zero and negative rejected", func(t *testing.T) {
		investor := seedInvestor(t, st, "zero@example.com")
		p, err := pools.Create(ctx, owner.ID, poolInput())
		require.NoError(t, err)

		_, err = svc.Invest(ctx, investor.ID, p.ID, "0")
		require.ErrorIs(t, err, ErrValidation)

		_, err = svc.Invest(ctx, investor.ID, p.ID, "-10")
		require.ErrorIs(t, err, ErrValidation)
	})

	t.Run("over the requested amount rejected", func(t *testing.T) {
		investor := seedInvestor(t, st, "over@example.com")
		p, err := pools.Create(ctx, owner.ID, poolInput())
		require.NoError(t, err)

		_, err = svc.Invest(ctx, investor.ID, p.ID, "10000.01")
		require.ErrorIs(t, err, ErrAmountExceedsPool)
	})

	t.Run("exactly the requested amount funds the pool", func(t *testing.T) {
		investor := seedInvestor(t, st, "exact@example.com")
		p, err := pools.Create(ctx, owner.ID, poolInput())
		require.NoError(t, err)

		_, err = svc.Invest(ctx, investor.ID, p.ID, "10000")
		require.NoError(t, err)

		got, err := st.Pools().GetPoolByID(ctx, p.ID)
		require.NoError(t, err)
		require.Equal(t, domain.PoolStatusFunded, got.Status)
	})
}

func TestInvestPoolStates(t *testing.T) {
	st := newTestStore(t)
	pools := &PoolService{Store: st}
	svc := &InvestmentService{Store: st}
	ctx := context.Background()

	owner := seedBorrower(t, st, "owner@example.com")
	investor := seedInvestor(t, st, "backer@example.com")

	t.Run("unknown pool", func(t *testing.T) {
		_, err := svc.Invest(ctx, investor.ID, "01ARZ3NDEKTSV4RRFFQ69G5FAV", "100")
		require.ErrorIs(t, err, ErrPoolNotFound)
	})

	t.Run("funded pool refuses further capital", func(t *testing.T) {
		p, err := pools.Create(ctx, owner.ID, poolInput())
		require.NoError(t, err)
		require.NoError(t, st.Pools().SetPoolStatus(ctx, p.ID, domain.PoolStatusFunded))

		_, err = svc.Invest(ctx, investor.ID, p.ID, "100")
		require.ErrorIs(t, err, ErrPoolNotActive)
	})
}

func TestBrowseActivePools(t *testing.T) {
	st := newTestStore(t)
	pools := &PoolService{Store: st}
	svc := &InvestmentService{Store: st}
	ctx := context.Background()

	owner := seedBorrower(t, st, "owner@example.com")
	investor := seedInvestor(t, st, "backer@example.com")

	active, err := pools.Create(ctx, owner.ID, poolInput())
	require.NoError(t, err)
	funded, err := pools.Create(ctx, owner.ID, poolInput())
	require.NoError(t, err)
	require.NoError(t, st.Pools().SetPoolStatus(ctx, funded.ID, domain.PoolStatusFunded))

	_, err = svc.Invest(ctx, investor.ID, active.ID, "2500")
	require.NoError(t, err)

	listings, err := svc.Browse(ctx)
	require.NoError(t, err)
	require.Len(t, listings, 1)
	require.Equal(t, active.ID, listings[0].ID)
	require.Equal(t, "Robin Hale", listings[0].BorrowerName)
	require.Equal(t, "2500", listings[0].Invested.String())
	require.True(t, listings[0].FundingProgress().Equal(decimal.NewFromInt(25)),
		"got %s", listings[0].FundingProgress())

	t.Run("detail exposes borrower email", func(t *testing.T) {
		detail, err := svc.BrowseDetail(ctx, active.ID)
		require.NoError(t, err)
		require.Equal(t, "owner@example.com", detail.BorrowerEmail)
		require.Equal(t, "2500", detail.Invested.String())
	})

	t.Run("detail hides non-active pools", func(t *testing.T) {
		_, err := svc.BrowseDetail(ctx, funded.ID)
		require.ErrorIs(t, err, ErrPoolNotFound)
	})
}

func TestListMine(t *testing.T) {
	st := newTestStore(t)
	pools := &PoolService{Store: st}
	svc := &InvestmentService{Store: st}
	ctx := context.Background()

	owner := seedBorrower(t, st, "owner@example.com")
	investor := seedInvestor(t, st, "backer@example.com")
	rival := seedInvestor(t, st, "rival@example.com")

	p1, err := pools.Create(ctx, owner.ID, poolInput())
	require.NoError(t, err)
	p2, err := pools.Create(ctx, owner.ID, poolInput())
	require.NoError(t, err)

	_, err = svc.Invest(ctx, investor.ID, p1.ID, "1000")
	require.NoError(t, err)
	_, err = svc.Invest(ctx, investor.ID, p2.ID, "2000")
	require.NoError(t, err)
	_, err = svc.Invest(ctx, rival.ID, p1.ID, "5000")
	require.NoError(t, err)

	records, err := svc.ListMine(ctx, investor.ID)
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Newest first, each joined with its pool and the owner's identity.
	require.Equal(t, p2.ID, records[0].PoolID)
	require.Equal(t, "2000", records[0].Amount.String())
	require.Equal(t, p2.ID, records[0].Pool.ID)
	require.Equal(t, "Robin Hale", records[0].BorrowerName)
	require.Equal(t, p1.ID, records[1].PoolID)
}

func TestDashboard(t *testing.T) {
	st := newTestStore(t)
	pools := &PoolService{Store: st}
	svc := &InvestmentService{Store: st}
	ctx := context.Background()

	owner := seedBorrower(t, st, "owner@example.com")
	investor := seedInvestor(t, st, "backer@example.com")

	t.Run("empty portfolio", func(t *testing.T) {
		d, err := svc.Dashboard(ctx, investor.ID)
		require.NoError(t, err)
		require.True(t, d.TotalInvested.IsZero())
		require.Zero(t, d.ActiveInvestments)
		require.True(t, d.AvgRoiRate.IsZero())
		require.True(t, d.PendingPayout.IsZero())
	})

	// Pool A: 10000 at 8.5%, invest 1000. Pool B: 10000 at 10%, invest 3000.
	a, err := pools.Create(ctx, owner.ID, poolInput())
	require.NoError(t, err)

	inB := poolInput()
	inB.RoiRate = "10"
	b, err := pools.Create(ctx, owner.ID, inB)
	require.NoError(t, err)

	_, err = svc.Invest(ctx, investor.ID, a.ID, "1000")
	require.NoError(t, err)
	_, err = svc.Invest(ctx, investor.ID, b.ID, "3000")
	require.NoError(t, err)

	d, err := svc.Dashboard(ctx, investor.ID)
	require.NoError(t, err)

	require.Equal(t, "4000", d.TotalInvested.String())
	require.Equal(t, 2, d.ActiveInvestments)

	// Weighted average: (1000*8.5 + 3000*10) / 4000 = 9.625
	require.True(t, d.AvgRoiRate.Equal(decimal.RequireFromString("9.625")),
		"got %s", d.AvgRoiRate)

	// Pending payout: 1000*1.085 + 3000*1.10 = 1085 + 3300 = 4385
	require.True(t, d.PendingPayout.Equal(decimal.RequireFromString("4385")),
		"got %s", d.PendingPayout)

	require.False(t, d.NextPayoutDate.IsZero())
}
