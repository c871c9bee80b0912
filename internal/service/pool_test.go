package service

import (
	"context"
	"testing"

	"github.com/openlots/lendpool/internal/domain"
	"github.com/stretchr/testify/require"
)

func poolInput() PoolInput {
	return PoolInput{
		PoolType:     domain.PoolTypeEquity,
		AddressLine:  "12 Harbor St",
		City:         "Austin",
		State:        "TX",
		ZipCode:      "78701",
		PercentOwned: "100",
		Amount:       "$10,000",
		RoiRate:      "8.5",
		Term:         "12",
	}
}

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func TestCreatePool(t *testing.T) {
	st := newTestStore(t)
	svc := &PoolService{Store: st}
	ctx := context.Background()
	owner := seedBorrower(t, st, "owner@example.com")

	p, err := svc.Create(ctx, owner.ID, poolInput())
	require.NoError(t, err)
	require.Equal(t, domain.PoolStatusActive, p.Status)
	require.Equal(t, "10000", p.Amount.String())
	require.Equal(t, "8.5", p.RoiRate.String())
	require.Equal(t, 12, p.TermMonths())
	require.Nil(t, p.CoOwner)
	require.Nil(t, p.PropertyValue)

	got, err := svc.Get(ctx, p.ID, owner.ID)
	require.NoError(t, err)
	require.Equal(t, p.ID, got.ID)
	require.True(t, got.Amount.Equal(p.Amount))
	require.Equal(t, "12 Harbor St", got.AddressLine)
}

func TestCreatePoolOptionalFields(t *testing.T) {
	st := newTestStore(t)
	svc := &PoolService{Store: st}
	ctx := context.Background()
	owner := seedBorrower(t, st, "owner@example.com")

	in := poolInput()
	in.CoOwner = "Pat Stone"
	in.PropertyValue = "$450,000"
	in.MortgageBalance = "not a number"
	in.PropertyLink = "   "

	p, err := svc.Create(ctx, owner.ID, in)
	require.NoError(t, err)

	got, err := svc.Get(ctx, p.ID, owner.ID)
	require.NoError(t, err)
	require.NotNil(t, got.CoOwner)
	require.Equal(t, "Pat Stone", *got.CoOwner)
	require.NotNil(t, got.PropertyValue)
	require.Equal(t, "450000", got.PropertyValue.String())

	// Unparseable and blank optionals resolve to absent, not zero.
	require.Nil(t, got.MortgageBalance)
	require.Nil(t, got.PropertyLink)
}

func TestCreatePoolCustomTerm(t *testing.T) {
	st := newTestStore(t)
	svc := &PoolService{Store: st}
	ctx := context.Background()
	owner := seedBorrower(t, st, "owner@example.com")

	t.Run("custom without months rejected", func(t *testing.T) {
		in := poolInput()
		in.Term = domain.TermCustom
		_, err := svc.Create(ctx, owner.ID, in)
		require.ErrorIs(t, err, ErrValidation)
	})

	t.Run("custom with months", func(t *testing.T) {
		in := poolInput()
		in.Term = domain.TermCustom
		in.CustomTermMonths = intPtr(18)

		p, err := svc.Create(ctx, owner.ID, in)
		require.NoError(t, err)
		require.Equal(t, 18, p.TermMonths())
	})
}

func TestCreatePoolValidation(t *testing.T) {
	st := newTestStore(t)
	svc := &PoolService{Store: st}
	ctx := context.Background()
	owner := seedBorrower(t, st, "owner@example.com")

	cases := map[string]func(*PoolInput){
		"bad pool type":     func(in *PoolInput) { in.PoolType = "timeshare" },
		"missing address":   func(in *PoolInput) { in.AddressLine = " " },
		"zero amount":       func(in *PoolInput) { in.Amount = "0" },
		"negative amount":   func(in *PoolInput) { in.Amount = "-500" },
		"garbage amount":    func(in *PoolInput) { in.Amount = "ten grand" },
		"zero rate":         func(in *PoolInput) { in.RoiRate = "0" },
		"percent over 100":  func(in *PoolInput) { in.PercentOwned = "150" },
		"percent zero":      func(in *PoolInput) { in.PercentOwned = "0" },
		"bad term":          func(in *PoolInput) { in.Term = "yearly" },
		"zero term":         func(in *PoolInput) { in.Term = "0" },
	}
	for name, mutate := range cases {
		in := poolInput()
		mutate(&in)
		_, err := svc.Create(ctx, owner.ID, in)
		require.ErrorIs(t, err, ErrValidation, name)
	}
}

func TestPoolOwnershipScoping(t *testing.T) {
	st := newTestStore(t)
	svc := &PoolService{Store: st}
	ctx := context.Background()

	owner := seedBorrower(t, st, "owner@example.com")
	other := seedBorrower(t, st, "other@example.com")

	p, err := svc.Create(ctx, owner.ID, poolInput())
	require.NoError(t, err)

	// Another borrower's pool is indistinguishable from a missing one.
	_, err = svc.Get(ctx, p.ID, other.ID)
	require.ErrorIs(t, err, ErrPoolNotFound)

	_, err = svc.Update(ctx, p.ID, other.ID, PoolUpdate{Amount: strPtr("20000")})
	require.ErrorIs(t, err, ErrPoolNotFound)

	err = svc.Delete(ctx, p.ID, other.ID)
	require.ErrorIs(t, err, ErrPoolNotFound)

	// The owner still sees it untouched.
	got, err := svc.Get(ctx, p.ID, owner.ID)
	require.NoError(t, err)
	require.Equal(t, "10000", got.Amount.String())
}

func TestUpdatePoolPartial(t *testing.T) {
	st := newTestStore(t)
	svc := &PoolService{Store: st}
	ctx := context.Background()
	owner := seedBorrower(t, st, "owner@example.com")

	p, err := svc.Create(ctx, owner.ID, poolInput())
	require.NoError(t, err)

	updated, err := svc.Update(ctx, p.ID, owner.ID, PoolUpdate{Amount: strPtr("$25,000")})
	require.NoError(t, err)
	require.Equal(t, "25000", updated.Amount.String())

	// Untouched fields survive.
	require.Equal(t, "12 Harbor St", updated.AddressLine)
	require.Equal(t, "8.5", updated.RoiRate.String())
	require.Equal(t, 12, updated.TermMonths())

	got, err := svc.Get(ctx, p.ID, owner.ID)
	require.NoError(t, err)
	require.Equal(t, "25000", got.Amount.String())
}

func TestUpdatePoolTermTransitions(t *testing.T) {
	st := newTestStore(t)
	svc := &PoolService{Store: st}
	ctx := context.Background()
	owner := seedBorrower(t, st, "owner@example.com")

	p, err := svc.Create(ctx, owner.ID, poolInput())
	require.NoError(t, err)

	t.Run("to custom requires months", func(t *testing.T) {
		_, err := svc.Update(ctx, p.ID, owner.ID, PoolUpdate{Term: strPtr(domain.TermCustom)})
		require.ErrorIs(t, err, ErrValidation)
	})

	t.Run("to custom with months", func(t *testing.T) {
		got, err := svc.Update(ctx, p.ID, owner.ID, PoolUpdate{
			Term:             strPtr(domain.TermCustom),
			CustomTermMonths: intPtr(30),
		})
		require.NoError(t, err)
		require.Equal(t, 30, got.TermMonths())
	})

	t.Run("away from custom clears months", func(t *testing.T) {
		got, err := svc.Update(ctx, p.ID, owner.ID, PoolUpdate{Term: strPtr("24")})
		require.NoError(t, err)
		require.Equal(t, 24, got.TermMonths())
		require.Nil(t, got.CustomTermMonths)

		persisted, err := svc.Get(ctx, p.ID, owner.ID)
		require.NoError(t, err)
		require.Nil(t, persisted.CustomTermMonths)
	})
}

func TestDeletePool(t *testing.T) {
	st := newTestStore(t)
	svc := &PoolService{Store: st}
	ctx := context.Background()
	owner := seedBorrower(t, st, "owner@example.com")

	t.Run("delete empty pool", func(t *testing.T) {
		p, err := svc.Create(ctx, owner.ID, poolInput())
		require.NoError(t, err)

		require.NoError(t, svc.Delete(ctx, p.ID, owner.ID))

		_, err = svc.Get(ctx, p.ID, owner.ID)
		require.ErrorIs(t, err, ErrPoolNotFound)
	})

	t.Run("refused once invested", func(t *testing.T) {
		p, err := svc.Create(ctx, owner.ID, poolInput())
		require.NoError(t, err)

		investor := seedInvestor(t, st, "backer@example.com")
		investSvc := &InvestmentService{Store: st}
		_, err = investSvc.Invest(ctx, investor.ID, p.ID, "1000")
		require.NoError(t, err)

		err = svc.Delete(ctx, p.ID, owner.ID)
		require.ErrorIs(t, err, ErrPoolHasInvestments)

		// Pool and investment both survive the refused delete.
		_, err = svc.Get(ctx, p.ID, owner.ID)
		require.NoError(t, err)
		count, err := st.Investments().CountForPool(ctx, p.ID)
		require.NoError(t, err)
		require.Equal(t, 1, count)
	})
}

func TestListPoolsNewestFirst(t *testing.T) {
	st := newTestStore(t)
	svc := &PoolService{Store: st}
	ctx := context.Background()
	owner := seedBorrower(t, st, "owner@example.com")
	other := seedBorrower(t, st, "other@example.com")

	first, err := svc.Create(ctx, owner.ID, poolInput())
	require.NoError(t, err)
	second, err := svc.Create(ctx, owner.ID, poolInput())
	require.NoError(t, err)
	_, err = svc.Create(ctx, other.ID, poolInput())
	require.NoError(t, err)

	pools, err := svc.List(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, pools, 2)
	require.Equal(t, second.ID, pools[0].ID)
	require.Equal(t, first.ID, pools[1].ID)
}
