package service

import (
	"testing"
	"time"

	"github.com/openlots/lendpool/internal/domain"
	"github.com/openlots/lendpool/internal/store"
	"github.com/openlots/lendpool/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func borrowerSignup(email string) BorrowerSignup {
	return BorrowerSignup{
		FirstName:   "Avery",
		LastName:    "Stone",
		Email:       email,
		Phone:       "5551234567",
		DateOfBirth: "1990-04-12",
		Password:    "correct-horse",
	}
}

func investorSignup(email string) InvestorSignup {
	return InvestorSignup{
		FirstName:    "Jordan",
		LastName:     "Wu",
		Email:        email,
		Phone:        "5557654321",
		DateOfBirth:  "1988-11-02",
		Password:     "battery-staple",
		SSN:          "123-45-6789",
		AddressLine1: "44 Front St",
		City:         "Denver",
		State:        "CO",
		ZipCode:      "80201",
		Country:      "USA",
	}
}

func TestSignupBorrowerAuthenticatesBothTransports(t *testing.T) {
	st := newTestStore(t)
	svc, ctx := newAuthService(t, st)

	res, err := svc.SignupBorrower(ctx, borrowerSignup("avery@example.com"))
	require.NoError(t, err)
	require.NotEmpty(t, res.Token)
	require.Equal(t, domain.RoleBorrower, res.Principal.Role)
	require.Equal(t, "Avery Stone", res.Principal.Name)
	require.True(t, res.ExpiresAt.After(time.Now()))

	t.Run("bearer token resolves", func(t *testing.T) {
		p, err := svc.Resolve(freshSession(t, svc), res.Token)
		require.NoError(t, err)
		require.Equal(t, res.Principal.ID, p.ID)
		require.Equal(t, domain.RoleBorrower, p.Role)
	})

	t.Run("session resolves without token", func(t *testing.T) {
		p, err := svc.Resolve(ctx, "")
		require.NoError(t, err)
		require.Equal(t, res.Principal.ID, p.ID)
		require.Equal(t, domain.RoleBorrower, p.Role)
	})
}

func TestSignupNormalizesEmailAndPhone(t *testing.T) {
	st := newTestStore(t)
	svc, ctx := newAuthService(t, st)

	in := borrowerSignup("  AVERY@Example.COM ")
	in.Phone = "(555) 123-4567"

	res, err := svc.SignupBorrower(ctx, in)
	require.NoError(t, err)
	require.Equal(t, "avery@example.com", res.Principal.Email)

	b, err := st.Borrowers().GetBorrowerByEmail(ctx, "avery@example.com")
	require.NoError(t, err)
	require.Equal(t, "5551234567", b.Phone)

	// Login matches the normalized form regardless of request casing.
	_, err = svc.Login(ctx, domain.RoleBorrower, "Avery@EXAMPLE.com", "correct-horse")
	require.NoError(t, err)
}

func TestSignupDuplicateEmail(t *testing.T) {
	st := newTestStore(t)
	svc, ctx := newAuthService(t, st)

	_, err := svc.SignupBorrower(ctx, borrowerSignup("dup@example.com"))
	require.NoError(t, err)

	_, err = svc.SignupBorrower(ctx, borrowerSignup("dup@example.com"))
	require.ErrorIs(t, err, ErrDuplicateEmail)

	// The roles have disjoint identity tables, so the same email may register
	// as an investor.
	_, err = svc.SignupInvestor(ctx, investorSignup("dup@example.com"))
	require.NoError(t, err)
}

func TestSignupValidation(t *testing.T) {
	st := newTestStore(t)
	svc, ctx := newAuthService(t, st)

	t.Run("borrower", func(t *testing.T) {
		cases := map[string]func(*BorrowerSignup){
			"missing first name": func(in *BorrowerSignup) { in.FirstName = " " },
			"bad email":          func(in *BorrowerSignup) { in.Email = "not-an-email" },
			"short phone":        func(in *BorrowerSignup) { in.Phone = "55512" },
			"bad date":           func(in *BorrowerSignup) { in.DateOfBirth = "12/04/1990" },
			"short password":     func(in *BorrowerSignup) { in.Password = "short" },
		}
		for name, mutate := range cases {
			in := borrowerSignup("valid@example.com")
			mutate(&in)
			_, err := svc.SignupBorrower(ctx, in)
			require.ErrorIs(t, err, ErrValidation, name)
		}
	})

	t.Run("investor", func(t *testing.T) {
		cases := map[string]func(*InvestorSignup){
			"bad ssn":         func(in *InvestorSignup) { in.SSN = "1234" },
			"missing address": func(in *InvestorSignup) { in.AddressLine1 = "" },
			"missing city":    func(in *InvestorSignup) { in.City = "" },
			"missing zip":     func(in *InvestorSignup) { in.ZipCode = "" },
		}
		for name, mutate := range cases {
			in := investorSignup("valid@example.com")
			mutate(&in)
			_, err := svc.SignupInvestor(ctx, in)
			require.ErrorIs(t, err, ErrValidation, name)
		}
	})
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	st := newTestStore(t)
	svc, ctx := newAuthService(t, st)

	_, err := svc.SignupBorrower(ctx, borrowerSignup("robin@example.com"))
	require.NoError(t, err)

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, domain.RoleBorrower, "robin@example.com", "wrong-password")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(ctx, domain.RoleBorrower, "nobody@example.com", "correct-horse")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("wrong role", func(t *testing.T) {
		_, err := svc.Login(ctx, domain.RoleInvestor, "robin@example.com", "correct-horse")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("empty password", func(t *testing.T) {
		_, err := svc.Login(ctx, domain.RoleBorrower, "robin@example.com", "")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestLoginReplacesPriorTokens(t *testing.T) {
	st := newTestStore(t)
	svc, ctx := newAuthService(t, st)

	first, err := svc.SignupBorrower(ctx, borrowerSignup("rotate@example.com"))
	require.NoError(t, err)

	second, err := svc.Login(ctx, domain.RoleBorrower, "rotate@example.com", "correct-horse")
	require.NoError(t, err)
	require.NotEqual(t, first.Token, second.Token)

	_, err = svc.Resolve(freshSession(t, svc), first.Token)
	require.ErrorIs(t, err, ErrUnauthenticated)

	p, err := svc.Resolve(freshSession(t, svc), second.Token)
	require.NoError(t, err)
	require.Equal(t, first.Principal.ID, p.ID)
}

func TestExpiredTokenIsLazilyDeleted(t *testing.T) {
	st := newTestStore(t)
	svc, ctx := newAuthService(t, st)
	svc.TokenTTL = time.Millisecond

	res, err := svc.SignupBorrower(ctx, borrowerSignup("expiry@example.com"))
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	_, err = svc.Resolve(freshSession(t, svc), res.Token)
	require.ErrorIs(t, err, ErrUnauthenticated)

	// First failed use removed the row.
	_, err = st.AuthTokens().GetTokenByHash(ctx, cryptox.FingerprintToken(res.Token))
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestLogoutRevokesTokenAndSession(t *testing.T) {
	st := newTestStore(t)
	svc, ctx := newAuthService(t, st)

	res, err := svc.SignupBorrower(ctx, borrowerSignup("logout@example.com"))
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, res.Token))

	_, err = svc.Resolve(freshSession(t, svc), res.Token)
	require.ErrorIs(t, err, ErrUnauthenticated)

	_, err = svc.Resolve(ctx, "")
	require.ErrorIs(t, err, ErrUnauthenticated)

	// Logging out again is not an error.
	require.NoError(t, svc.Logout(ctx, res.Token))
}

func TestSessionFollowsMostRecentLogin(t *testing.T) {
	st := newTestStore(t)
	svc, ctx := newAuthService(t, st)

	_, err := svc.SignupBorrower(ctx, borrowerSignup("switch@example.com"))
	require.NoError(t, err)

	inv, err := svc.SignupInvestor(ctx, investorSignup("switch-inv@example.com"))
	require.NoError(t, err)

	// The session was rebound by the investor signup.
	p, err := svc.Resolve(ctx, "")
	require.NoError(t, err)
	require.Equal(t, domain.RoleInvestor, p.Role)
	require.Equal(t, inv.Principal.ID, p.ID)
}

func TestEmailAvailable(t *testing.T) {
	st := newTestStore(t)
	svc, ctx := newAuthService(t, st)

	seedBorrower(t, st, "taken@example.com")

	t.Run("taken for borrowers", func(t *testing.T) {
		ok, err := svc.EmailAvailable(ctx, "taken@example.com", domain.RoleBorrower)
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("free for investors", func(t *testing.T) {
		ok, err := svc.EmailAvailable(ctx, "taken@example.com", domain.RoleInvestor)
		require.NoError(t, err)
		require.True(t, ok)
	})

	t.Run("roleless check spans both tables", func(t *testing.T) {
		ok, err := svc.EmailAvailable(ctx, "taken@example.com", "")
		require.NoError(t, err)
		require.False(t, ok)

		ok, err = svc.EmailAvailable(ctx, "free@example.com", "")
		require.NoError(t, err)
		require.True(t, ok)
	})

	t.Run("case insensitive", func(t *testing.T) {
		ok, err := svc.EmailAvailable(ctx, "TAKEN@example.com", domain.RoleBorrower)
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("invalid email", func(t *testing.T) {
		_, err := svc.EmailAvailable(ctx, "not-an-email", "")
		require.ErrorIs(t, err, ErrValidation)
	})
}
