package sqlite

import (
	"context"

	"github.com/openlots/lendpool/internal/domain"
)

type borrowersRepo struct {
	db dbtx
}

const borrowerColumns = `id, first_name, last_name, email, phone, date_of_birth, password_hash, verified, created_at`

func (r *borrowersRepo) CreateBorrower(ctx context.Context, b domain.Borrower) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO borrowers (id, first_name, last_name, email, phone, date_of_birth, password_hash, verified, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.FirstName, b.LastName, b.Email, b.Phone, b.DateOfBirth,
		b.PasswordHash, b.Verified, b.CreatedAt,
	)
	return mapConstraint(err)
}

func (r *borrowersRepo) GetBorrowerByID(ctx context.Context, id string) (domain.Borrower, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+borrowerColumns+` FROM borrowers WHERE id = ?`, id)
	return scanBorrower(row)
}

func (r *borrowersRepo) GetBorrowerByEmail(ctx context.Context, email string) (domain.Borrower, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+borrowerColumns+` FROM borrowers WHERE email = ?`, email)
	return scanBorrower(row)
}

func (r *borrowersRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM borrowers WHERE email = ?`, email).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *borrowersRepo) SetVerified(ctx context.Context, id string, verified bool) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE borrowers SET verified = ? WHERE id = ?`, verified, id)
	return err
}

func (r *borrowersRepo) UpdatePasswordHash(ctx context.Context, id string, newHash string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE borrowers SET password_hash = ? WHERE id = ?`, newHash, id)
	return err
}

func (r *borrowersRepo) DeleteBorrower(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM borrowers WHERE id = ?`, id)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBorrower(row rowScanner) (domain.Borrower, error) {
	var b domain.Borrower
	err := row.Scan(
		&b.ID, &b.FirstName, &b.LastName, &b.Email, &b.Phone, &b.DateOfBirth,
		&b.PasswordHash, &b.Verified, &b.CreatedAt,
	)
	if err != nil {
		return domain.Borrower{}, mapNotFound(err)
	}
	return b, nil
}
