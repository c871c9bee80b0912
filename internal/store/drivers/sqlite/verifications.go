package sqlite

import (
	"context"
	"time"

	"github.com/openlots/lendpool/internal/domain"
)

type verificationsRepo struct {
	db dbtx
}

func (r *verificationsRepo) CreateVerification(ctx context.Context, v domain.EmailVerification) error {
	// A fresh request supersedes any pending code for the same address/role.
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM email_verifications WHERE email = ? AND role = ? AND verified = 0`,
		v.Email, string(v.Role))
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO email_verifications (id, email, code, role, payload, expires_at, verified, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		v.ID, v.Email, v.Code, string(v.Role), v.Payload, v.ExpiresAt, v.Verified, v.CreatedAt,
	)
	return mapConstraint(err)
}

func (r *verificationsRepo) GetPendingVerification(ctx context.Context, email string, role domain.Role) (domain.EmailVerification, error) {
	var v domain.EmailVerification
	var roleStr string
	err := r.db.QueryRowContext(ctx, `
		SELECT id, email, code, role, payload, expires_at, verified, created_at
		FROM email_verifications
		WHERE email = ? AND role = ? AND verified = 0
		ORDER BY created_at DESC
		LIMIT 1`, email, string(role),
	).Scan(&v.ID, &v.Email, &v.Code, &roleStr, &v.Payload, &v.ExpiresAt, &v.Verified, &v.CreatedAt)
	if err != nil {
		return domain.EmailVerification{}, mapNotFound(err)
	}
	v.Role = domain.Role(roleStr)
	return v, nil
}

func (r *verificationsRepo) MarkVerified(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE email_verifications SET verified = 1 WHERE id = ?`, id)
	return err
}

func (r *verificationsRepo) DeleteVerification(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM email_verifications WHERE id = ?`, id)
	return err
}

func (r *verificationsRepo) DeleteExpiredVerifications(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM email_verifications WHERE expires_at <= ?`, time.Now().UTC())
	return err
}
