package sqlite

import (
	"context"

	"github.com/openlots/lendpool/internal/domain"
)

type investorsRepo struct {
	db dbtx
}

const investorColumns = `id, first_name, last_name, email, phone, date_of_birth, ssn,
	address_line1, address_line2, city, state, zip_code, country,
	password_hash, verified, created_at`

func (r *investorsRepo) CreateInvestor(ctx context.Context, i domain.Investor) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO investors (id, first_name, last_name, email, phone, date_of_birth, ssn,
			address_line1, address_line2, city, state, zip_code, country,
			password_hash, verified, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		i.ID, i.FirstName, i.LastName, i.Email, i.Phone, i.DateOfBirth, i.SSN,
		i.AddressLine1, i.AddressLine2, i.City, i.State, i.ZipCode, i.Country,
		i.PasswordHash, i.Verified, i.CreatedAt,
	)
	return mapConstraint(err)
}

func (r *investorsRepo) GetInvestorByID(ctx context.Context, id string) (domain.Investor, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+investorColumns+` FROM investors WHERE id = ?`, id)
	return scanInvestor(row)
}

func (r *investorsRepo) GetInvestorByEmail(ctx context.Context, email string) (domain.Investor, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+investorColumns+` FROM investors WHERE email = ?`, email)
	return scanInvestor(row)
}

func (r *investorsRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM investors WHERE email = ?`, email).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *investorsRepo) SetVerified(ctx context.Context, id string, verified bool) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE investors SET verified = ? WHERE id = ?`, verified, id)
	return err
}

func (r *investorsRepo) UpdatePasswordHash(ctx context.Context, id string, newHash string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE investors SET password_hash = ? WHERE id = ?`, newHash, id)
	return err
}

func (r *investorsRepo) DeleteInvestor(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM investors WHERE id = ?`, id)
	return err
}

func scanInvestor(row rowScanner) (domain.Investor, error) {
	var i domain.Investor
	err := row.Scan(
		&i.ID, &i.FirstName, &i.LastName, &i.Email, &i.Phone, &i.DateOfBirth, &i.SSN,
		&i.AddressLine1, &i.AddressLine2, &i.City, &i.State, &i.ZipCode, &i.Country,
		&i.PasswordHash, &i.Verified, &i.CreatedAt,
	)
	if err != nil {
		return domain.Investor{}, mapNotFound(err)
	}
	return i, nil
}
