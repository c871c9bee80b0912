package service

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/openlots/lendpool/internal/domain"
	"github.com/openlots/lendpool/internal/store"
	"github.com/openlots/lendpool/pkg/idx"
	"github.com/openlots/lendpool/pkg/slogx"
)

var ErrCodeInvalid = errors.New("verification_code_invalid")

// VerificationService implements the deferred-signup flow: a signup payload is
// parked alongside a 4-digit emailed code, and confirming the code executes
// the stored signup with the verified flag set.
type VerificationService struct {
	Store  store.Store
	Auth   *AuthService
	Mailer *Mailer
	TTL    time.Duration
}

func (s *VerificationService) ttl() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return domain.DefaultVerificationTTL
}

// Request validates the signup payload like the direct signup path would,
// parks it with a fresh code, and delivers the code. A re-request replaces any
// pending record for the same (email, role).
func (s *VerificationService) Request(ctx context.Context, role domain.Role, payload json.RawMessage) (string, error) {
	var email string
	switch role {
	case domain.RoleBorrower:
		var in BorrowerSignup
		if err := json.Unmarshal(payload, &in); err != nil {
			return "", invalidField("payload", "Malformed signup payload")
		}
		if err := in.validate(); err != nil {
			return "", err
		}
		email = in.Email
	case domain.RoleInvestor:
		var in InvestorSignup
		if err := json.Unmarshal(payload, &in); err != nil {
			return "", invalidField("payload", "Malformed signup payload")
		}
		if err := in.validate(); err != nil {
			return "", err
		}
		email = in.Email
	default:
		return "", invalidField("role", "Role must be borrower or investor")
	}

	available, err := s.Auth.EmailAvailable(ctx, email, role)
	if err != nil {
		return "", err
	}
	if !available {
		return "", ErrDuplicateEmail
	}

	code, err := generateCode()
	if err != nil {
		return "", err
	}

	now := time.Now().UTC()
	record := domain.EmailVerification{
		ID:        idx.New().String(),
		Email:     email,
		Code:      code,
		Role:      role,
		Payload:   string(payload),
		ExpiresAt: now.Add(s.ttl()),
		Verified:  false,
		CreatedAt: now,
	}
	if err := s.Store.Verifications().CreateVerification(ctx, record); err != nil {
		return "", err
	}

	s.deliver(ctx, email, code)
	return email, nil
}

// Confirm consumes the pending code and executes the parked signup. The new
// account starts verified and is immediately authenticated, exactly like the
// direct signup response.
func (s *VerificationService) Confirm(ctx context.Context, email string, role domain.Role, code string) (AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !role.Valid() {
		return AuthResult{}, invalidField("role", "Role must be borrower or investor")
	}

	record, err := s.Store.Verifications().GetPendingVerification(ctx, email, role)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return AuthResult{}, ErrCodeInvalid
		}
		return AuthResult{}, err
	}

	if record.Expired(time.Now().UTC()) {
		// Expired records are terminal; remove on sight.
		if err := s.Store.Verifications().DeleteVerification(ctx, record.ID); err != nil {
			slogx.FromContext(ctx).Warn("expired verification cleanup failed", slog.Any("error", err))
		}
		return AuthResult{}, ErrCodeInvalid
	}
	if record.Code != code {
		return AuthResult{}, ErrCodeInvalid
	}

	if err := s.Store.Verifications().MarkVerified(ctx, record.ID); err != nil {
		return AuthResult{}, err
	}

	switch role {
	case domain.RoleBorrower:
		var in BorrowerSignup
		if err := json.Unmarshal([]byte(record.Payload), &in); err != nil {
			return AuthResult{}, invalidField("payload", "Malformed signup payload")
		}
		return s.Auth.signupBorrower(ctx, in, true)
	default:
		var in InvestorSignup
		if err := json.Unmarshal([]byte(record.Payload), &in); err != nil {
			return AuthResult{}, invalidField("payload", "Malformed signup payload")
		}
		return s.Auth.signupInvestor(ctx, in, true)
	}
}

// deliver emails the code, or logs it when SMTP is not configured so local
// flows remain usable.
func (s *VerificationService) deliver(ctx context.Context, email, code string) {
	l := slogx.FromContext(ctx)
	if !s.Mailer.Configured() {
		l.Info("verification code issued (smtp not configured)",
			slog.String("email", email),
			slog.String("code", code),
		)
		return
	}

	body := fmt.Sprintf("Your verification code is %s. It expires in %d minutes.",
		code, int(s.ttl().Minutes()))
	if err := s.Mailer.Send(email, "Your verification code", body); err != nil {
		l.Error("verification mail failed", slog.Any("error", err))
		return
	}
	l.Info("verification code sent", slog.String("email", email))
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%04d", n.Int64()), nil
}
