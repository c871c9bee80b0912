package sqlite

import (
	"context"
	"time"

	"github.com/openlots/lendpool/internal/domain"
)

type authTokensRepo struct {
	db dbtx
}

func (r *authTokensRepo) CreateToken(ctx context.Context, t domain.AuthToken) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO auth_tokens (id, token_hash, user_id, role, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		t.ID, t.TokenHash, t.UserID, string(t.Role), t.CreatedAt, t.ExpiresAt,
	)
	return mapConstraint(err)
}

func (r *authTokensRepo) GetTokenByHash(ctx context.Context, hash string) (domain.AuthToken, error) {
	var t domain.AuthToken
	var role string
	err := r.db.QueryRowContext(ctx, `
		SELECT id, token_hash, user_id, role, created_at, expires_at
		FROM auth_tokens WHERE token_hash = ?`, hash,
	).Scan(&t.ID, &t.TokenHash, &t.UserID, &role, &t.CreatedAt, &t.ExpiresAt)
	if err != nil {
		return domain.AuthToken{}, mapNotFound(err)
	}
	t.Role = domain.Role(role)
	return t, nil
}

func (r *authTokensRepo) DeleteToken(ctx context.Context, hash string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM auth_tokens WHERE token_hash = ?`, hash)
	return err
}

func (r *authTokensRepo) DeleteUserTokens(ctx context.Context, userID string, role domain.Role) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM auth_tokens WHERE user_id = ? AND role = ?`, userID, string(role))
	return err
}

func (r *authTokensRepo) DeleteExpiredTokens(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM auth_tokens WHERE expires_at <= ?`, time.Now().UTC())
	return err
}
