package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/openlots/lendpool/internal/domain"
	"github.com/openlots/lendpool/internal/store"
	"github.com/openlots/lendpool/internal/store/drivers/sqlite"
	"github.com/openlots/lendpool/pkg/cryptox"
	"github.com/openlots/lendpool/pkg/idx"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "lendpool-service-test-")
	if err != nil {
		panic(err)
	}
	cryptox.SetPepperPath(filepath.Join(dir, "pepper"))

	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

// newAuthService wires an AuthService against an in-memory session manager and
// returns a context that carries a loaded session, as the scs middleware would
// provide on a real request.
func newAuthService(t *testing.T, st store.Store) (*AuthService, context.Context) {
	t.Helper()

	sessions := scs.New()
	ctx, err := sessions.Load(context.Background(), "")
	require.NoError(t, err)

	return &AuthService{Store: st, Sessions: sessions, TokenTTL: time.Hour}, ctx
}

// freshSession returns a context carrying a brand new, unbound session.
func freshSession(t *testing.T, svc *AuthService) context.Context {
	t.Helper()

	ctx, err := svc.Sessions.Load(context.Background(), "")
	require.NoError(t, err)
	return ctx
}

func seedBorrower(t *testing.T, st store.Store, email string) domain.Borrower {
	t.Helper()

	b := domain.Borrower{
		ID:           idx.New().String(),
		FirstName:    "Robin",
		LastName:     "Hale",
		Email:        email,
		Phone:        "5550001111",
		DateOfBirth:  time.Date(1985, 6, 1, 0, 0, 0, 0, time.UTC),
		PasswordHash: "unused",
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, st.Borrowers().CreateBorrower(context.Background(), b))
	return b
}

func seedInvestor(t *testing.T, st store.Store, email string) domain.Investor {
	t.Helper()

	i := domain.Investor{
		ID:           idx.New().String(),
		FirstName:    "Jordan",
		LastName:     "Wu",
		Email:        email,
		Phone:        "5550002222",
		DateOfBirth:  time.Date(1990, 2, 14, 0, 0, 0, 0, time.UTC),
		SSN:          "123456789",
		AddressLine1: "44 Front St",
		City:         "Denver",
		State:        "CO",
		ZipCode:      "80201",
		Country:      "USA",
		PasswordHash: "unused",
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, st.Investors().CreateInvestor(context.Background(), i))
	return i
}
