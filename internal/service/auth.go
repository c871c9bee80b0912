package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/openlots/lendpool/internal/domain"
	"github.com/openlots/lendpool/internal/store"
	"github.com/openlots/lendpool/pkg/cryptox"
	"github.com/openlots/lendpool/pkg/idx"
	"github.com/openlots/lendpool/pkg/slogx"
)

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrDuplicateEmail     = errors.New("email_already_registered")
	ErrUnauthenticated    = errors.New("unauthenticated")
)

// Session keys. Exactly one of the id keys should ever be present; active_role
// disambiguates if a session somehow holds both.
const (
	sessionKeyBorrowerID = "borrower_id"
	sessionKeyInvestorID = "investor_id"
	sessionKeyActiveRole = "active_role"
)

// AuthService owns signup, login, logout and request-principal resolution for
// both roles. Sessions go through scs (whose LoadAndSave middleware must wrap
// every route that reaches this service); tokens are opaque random strings
// stored by fingerprint only.
type AuthService struct {
	Store    store.Store
	Sessions *scs.SessionManager
	TokenTTL time.Duration
}

func (s *AuthService) tokenTTL() time.Duration {
	if s.TokenTTL > 0 {
		return s.TokenTTL
	}
	return domain.DefaultTokenTTL
}

// BorrowerSignup is the validated-on-entry signup payload for borrowers.
type BorrowerSignup struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	DateOfBirth string `json:"dateOfBirth"`
	Password    string `json:"password"`
}

// InvestorSignup extends the borrower payload with KYC attributes.
type InvestorSignup struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	DateOfBirth string `json:"dateOfBirth"`
	Password    string `json:"password"`

	SSN          string `json:"ssn"`
	AddressLine1 string `json:"address1"`
	AddressLine2 string `json:"address2"`
	City         string `json:"city"`
	State        string `json:"state"`
	ZipCode      string `json:"zipCode"`
	Country      string `json:"country"`
}

// AuthResult is what every successful signup/login produces: the resolved
// principal plus a fresh bearer token. The session cookie rides along on the
// response via scs.
type AuthResult struct {
	Principal domain.Principal
	Token     string
	ExpiresAt time.Time
}

func (in *BorrowerSignup) validate() error {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	switch {
	case strings.TrimSpace(in.FirstName) == "":
		return invalidField("firstName", "First name is required")
	case strings.TrimSpace(in.LastName) == "":
		return invalidField("lastName", "Last name is required")
	case !validEmail(in.Email):
		return invalidField("email", "A valid email is required")
	case !validPhone(in.Phone):
		return invalidField("phone", "Phone must be 10 digits")
	case !validDate(in.DateOfBirth):
		return invalidField("dateOfBirth", "Date of birth must be YYYY-MM-DD")
	case len(in.Password) < 8:
		return invalidField("password", "Password must be at least 8 characters")
	}
	return nil
}

func (in *InvestorSignup) validate() error {
	base := BorrowerSignup{
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		Email:       in.Email,
		Phone:       in.Phone,
		DateOfBirth: in.DateOfBirth,
		Password:    in.Password,
	}
	if err := base.validate(); err != nil {
		return err
	}
	in.Email = base.Email
	switch {
	case !validSSN(in.SSN):
		return invalidField("ssn", "SSN must be 9 digits")
	case strings.TrimSpace(in.AddressLine1) == "":
		return invalidField("address1", "Address is required")
	case strings.TrimSpace(in.City) == "":
		return invalidField("city", "City is required")
	case strings.TrimSpace(in.State) == "":
		return invalidField("state", "State is required")
	case strings.TrimSpace(in.ZipCode) == "":
		return invalidField("zipCode", "Zip code is required")
	case strings.TrimSpace(in.Country) == "":
		return invalidField("country", "Country is required")
	}
	return nil
}

// SignupBorrower creates the account and immediately performs the login side
// effects, so a fresh signup is authenticated on both transports.
func (s *AuthService) SignupBorrower(ctx context.Context, in BorrowerSignup) (AuthResult, error) {
	return s.signupBorrower(ctx, in, false)
}

func (s *AuthService) signupBorrower(ctx context.Context, in BorrowerSignup, verified bool) (AuthResult, error) {
	if err := in.validate(); err != nil {
		return AuthResult{}, err
	}

	hash, err := cryptox.HashPassword(in.Password)
	if err != nil {
		return AuthResult{}, err
	}

	dob, _ := time.Parse("2006-01-02", in.DateOfBirth)

	b := domain.Borrower{
		ID:           idx.New().String(),
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Email:        in.Email,
		Phone:        digitsOnly(in.Phone),
		DateOfBirth:  dob,
		PasswordHash: hash,
		Verified:     verified,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.Store.Borrowers().CreateBorrower(ctx, b); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return AuthResult{}, ErrDuplicateEmail
		}
		return AuthResult{}, err
	}

	slogx.FromContext(ctx).Info("borrower signed up", slog.String("borrower_id", b.ID))
	return s.establish(ctx, b.Principal())
}

// SignupInvestor mirrors SignupBorrower for the investor role.
func (s *AuthService) SignupInvestor(ctx context.Context, in InvestorSignup) (AuthResult, error) {
	return s.signupInvestor(ctx, in, false)
}

func (s *AuthService) signupInvestor(ctx context.Context, in InvestorSignup, verified bool) (AuthResult, error) {
	if err := in.validate(); err != nil {
		return AuthResult{}, err
	}

	hash, err := cryptox.HashPassword(in.Password)
	if err != nil {
		return AuthResult{}, err
	}

	dob, _ := time.Parse("2006-01-02", in.DateOfBirth)

	i := domain.Investor{
		ID:           idx.New().String(),
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Email:        in.Email,
		Phone:        digitsOnly(in.Phone),
		DateOfBirth:  dob,
		SSN:          digitsOnly(in.SSN),
		AddressLine1: strings.TrimSpace(in.AddressLine1),
		AddressLine2: strings.TrimSpace(in.AddressLine2),
		City:         strings.TrimSpace(in.City),
		State:        strings.TrimSpace(in.State),
		ZipCode:      strings.TrimSpace(in.ZipCode),
		Country:      strings.TrimSpace(in.Country),
		PasswordHash: hash,
		Verified:     verified,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.Store.Investors().CreateInvestor(ctx, i); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return AuthResult{}, ErrDuplicateEmail
		}
		return AuthResult{}, err
	}

	slogx.FromContext(ctx).Info("investor signed up", slog.String("investor_id", i.ID))
	return s.establish(ctx, i.Principal())
}

// Login verifies credentials for the given role. Unknown email and wrong
// password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, role domain.Role, email, password string) (AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return AuthResult{}, ErrInvalidCredentials
	}

	var principal domain.Principal
	var hash string

	switch role {
	case domain.RoleBorrower:
		b, err := s.Store.Borrowers().GetBorrowerByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return AuthResult{}, ErrInvalidCredentials
			}
			return AuthResult{}, err
		}
		principal, hash = b.Principal(), b.PasswordHash
	case domain.RoleInvestor:
		i, err := s.Store.Investors().GetInvestorByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return AuthResult{}, ErrInvalidCredentials
			}
			return AuthResult{}, err
		}
		principal, hash = i.Principal(), i.PasswordHash
	default:
		return AuthResult{}, ErrInvalidCredentials
	}

	if err := cryptox.VerifyPassword(password, hash); err != nil {
		return AuthResult{}, ErrInvalidCredentials
	}

	return s.establish(ctx, principal)
}

// establish performs the shared login side effects: replace the (user, role)
// token set with one fresh token inside a transaction, then rebind the session
// to exactly this role.
func (s *AuthService) establish(ctx context.Context, p domain.Principal) (AuthResult, error) {
	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return AuthResult{}, err
	}

	now := time.Now().UTC()
	record := domain.AuthToken{
		ID:        idx.New().String(),
		TokenHash: cryptox.FingerprintToken(token),
		UserID:    p.ID,
		Role:      p.Role,
		CreatedAt: now,
		ExpiresAt: now.Add(s.tokenTTL()),
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.AuthTokens().DeleteUserTokens(ctx, p.ID, p.Role); err != nil {
			return err
		}
		return tx.AuthTokens().CreateToken(ctx, record)
	})
	if err != nil {
		return AuthResult{}, err
	}

	s.bindSession(ctx, p)

	return AuthResult{Principal: p, Token: token, ExpiresAt: record.ExpiresAt}, nil
}

// bindSession rotates the session id (fixation) and binds it to exactly one
// role.
func (s *AuthService) bindSession(ctx context.Context, p domain.Principal) {
	if err := s.Sessions.RenewToken(ctx); err != nil {
		slogx.FromContext(ctx).Warn("session renew failed", slog.Any("error", err))
	}
	switch p.Role {
	case domain.RoleBorrower:
		s.Sessions.Remove(ctx, sessionKeyInvestorID)
		s.Sessions.Put(ctx, sessionKeyBorrowerID, p.ID)
	case domain.RoleInvestor:
		s.Sessions.Remove(ctx, sessionKeyBorrowerID)
		s.Sessions.Put(ctx, sessionKeyInvestorID, p.ID)
	}
	s.Sessions.Put(ctx, sessionKeyActiveRole, string(p.Role))
}

// Logout deletes the presented bearer token, if any, and destroys the session.
// Idempotent: logging out twice is not an error.
func (s *AuthService) Logout(ctx context.Context, bearer string) error {
	if bearer != "" {
		if err := s.Store.AuthTokens().DeleteToken(ctx, cryptox.FingerprintToken(bearer)); err != nil {
			return err
		}
	}
	return s.Sessions.Destroy(ctx)
}

// Resolve maps an inbound request to its principal. Bearer token first;
// expired tokens are deleted and resolution falls through to the session.
func (s *AuthService) Resolve(ctx context.Context, bearer string) (domain.Principal, error) {
	if bearer != "" {
		p, err := s.resolveToken(ctx, bearer)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, ErrUnauthenticated) {
			return domain.Principal{}, err
		}
		// unknown or expired token: fall through to the session
	}
	return s.resolveSession(ctx)
}

func (s *AuthService) resolveToken(ctx context.Context, bearer string) (domain.Principal, error) {
	record, err := s.Store.AuthTokens().GetTokenByHash(ctx, cryptox.FingerprintToken(bearer))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Principal{}, ErrUnauthenticated
		}
		return domain.Principal{}, err
	}

	if record.Expired(time.Now().UTC()) {
		// Lazy deletion: an expired token is removed the first time it is seen.
		if err := s.Store.AuthTokens().DeleteToken(ctx, record.TokenHash); err != nil {
			slogx.FromContext(ctx).Warn("expired token cleanup failed", slog.Any("error", err))
		}
		return domain.Principal{}, ErrUnauthenticated
	}

	return s.loadPrincipal(ctx, record.UserID, record.Role)
}

func (s *AuthService) resolveSession(ctx context.Context) (domain.Principal, error) {
	borrowerID := s.Sessions.GetString(ctx, sessionKeyBorrowerID)
	investorID := s.Sessions.GetString(ctx, sessionKeyInvestorID)

	if borrowerID != "" && investorID != "" {
		// Should never legitimately occur: keep the declared active role,
		// clear the other.
		if s.Sessions.GetString(ctx, sessionKeyActiveRole) == string(domain.RoleInvestor) {
			s.Sessions.Remove(ctx, sessionKeyBorrowerID)
			borrowerID = ""
		} else {
			s.Sessions.Remove(ctx, sessionKeyInvestorID)
			investorID = ""
		}
	}

	switch {
	case borrowerID != "":
		return s.loadPrincipal(ctx, borrowerID, domain.RoleBorrower)
	case investorID != "":
		return s.loadPrincipal(ctx, investorID, domain.RoleInvestor)
	default:
		return domain.Principal{}, ErrUnauthenticated
	}
}

func (s *AuthService) loadPrincipal(ctx context.Context, userID string, role domain.Role) (domain.Principal, error) {
	switch role {
	case domain.RoleBorrower:
		b, err := s.Store.Borrowers().GetBorrowerByID(ctx, userID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return domain.Principal{}, ErrUnauthenticated
			}
			return domain.Principal{}, err
		}
		return b.Principal(), nil
	case domain.RoleInvestor:
		i, err := s.Store.Investors().GetInvestorByID(ctx, userID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return domain.Principal{}, ErrUnauthenticated
			}
			return domain.Principal{}, err
		}
		return i.Principal(), nil
	default:
		return domain.Principal{}, ErrUnauthenticated
	}
}

// EmailAvailable reports whether an email is free to register. With a role it
// checks that role's table only; without, both tables must be free.
func (s *AuthService) EmailAvailable(ctx context.Context, email string, role domain.Role) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !validEmail(email) {
		return false, invalidField("email", "A valid email is required")
	}

	checkBorrower := role == "" || role == domain.RoleBorrower
	checkInvestor := role == "" || role == domain.RoleInvestor

	if checkBorrower {
		exists, err := s.Store.Borrowers().EmailExists(ctx, email)
		if err != nil {
			return false, err
		}
		if exists {
			return false, nil
		}
	}
	if checkInvestor {
		exists, err := s.Store.Investors().EmailExists(ctx, email)
		if err != nil {
			return false, err
		}
		if exists {
			return false, nil
		}
	}
	return true, nil
}
