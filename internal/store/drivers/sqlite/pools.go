package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/openlots/lendpool/internal/domain"
	"github.com/shopspring/decimal"
)

type poolsRepo struct {
	db dbtx
}

const poolColumns = `id, borrower_id, pool_type, status, address_line, city, state, zip_code,
	percent_owned, amount, roi_rate, term, custom_term_months,
	co_owner, property_value, mortgage_balance, property_link, created_at, updated_at`

func (r *poolsRepo) CreatePool(ctx context.Context, p domain.Pool) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO pools (id, borrower_id, pool_type, status, address_line, city, state, zip_code,
			percent_owned, amount, roi_rate, term, custom_term_months,
			co_owner, property_value, mortgage_balance, property_link, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.BorrowerID, p.PoolType, p.Status, p.AddressLine, p.City, p.State, p.ZipCode,
		p.PercentOwned.String(), p.Amount.String(), p.RoiRate.String(),
		p.Term, mapOptionalInt(p.CustomTermMonths),
		mapOptionalString(p.CoOwner), mapOptionalDecimal(p.PropertyValue),
		mapOptionalDecimal(p.MortgageBalance), mapOptionalString(p.PropertyLink),
		p.CreatedAt, p.UpdatedAt,
	)
	return mapConstraint(err)
}

func (r *poolsRepo) GetPoolByID(ctx context.Context, id string) (domain.Pool, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+poolColumns+` FROM pools WHERE id = ?`, id)
	return scanPool(row)
}

func (r *poolsRepo) GetPoolForBorrower(ctx context.Context, id, borrowerID string) (domain.Pool, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+poolColumns+` FROM pools WHERE id = ? AND borrower_id = ?`, id, borrowerID)
	return scanPool(row)
}

func (r *poolsRepo) ListPoolsByBorrower(ctx context.Context, borrowerID string) ([]domain.Pool, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+poolColumns+` FROM pools WHERE borrower_id = ? ORDER BY created_at DESC, id DESC`,
		borrowerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pools []domain.Pool
	for rows.Next() {
		p, err := scanPool(rows)
		if err != nil {
			return nil, err
		}
		pools = append(pools, p)
	}
	return pools, rows.Err()
}

// listingQuery joins each pool with its owner's identity. Committed capital is
// summed separately in Go so amounts stay exact decimals; SQLite would coerce
// a SUM over TEXT to float.
const listingQuery = `
	SELECT p.id, p.borrower_id, p.pool_type, p.status, p.address_line, p.city, p.state, p.zip_code,
		p.percent_owned, p.amount, p.roi_rate, p.term, p.custom_term_months,
		p.co_owner, p.property_value, p.mortgage_balance, p.property_link, p.created_at, p.updated_at,
		b.first_name, b.last_name, b.email
	FROM pools p
	JOIN borrowers b ON b.id = p.borrower_id`

func (r *poolsRepo) ListActivePools(ctx context.Context) ([]domain.PoolListing, error) {
	rows, err := r.db.QueryContext(ctx,
		listingQuery+` WHERE p.status = ? ORDER BY p.created_at DESC, p.id DESC`,
		domain.PoolStatusActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var listings []domain.PoolListing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		listings = append(listings, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	invested, err := r.investedByPool(ctx)
	if err != nil {
		return nil, err
	}
	for i := range listings {
		listings[i].Invested = invested[listings[i].ID]
	}
	return listings, nil
}

func (r *poolsRepo) GetActivePoolListing(ctx context.Context, id string) (domain.PoolListing, error) {
	row := r.db.QueryRowContext(ctx,
		listingQuery+` WHERE p.id = ? AND p.status = ?`, id, domain.PoolStatusActive)
	l, err := scanListing(row)
	if err != nil {
		return domain.PoolListing{}, err
	}

	l.Invested, err = sumInvestments(ctx, r.db, id)
	if err != nil {
		return domain.PoolListing{}, err
	}
	return l, nil
}

func (r *poolsRepo) UpdatePool(ctx context.Context, p domain.Pool) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE pools SET
			pool_type = ?, status = ?, address_line = ?, city = ?, state = ?, zip_code = ?,
			percent_owned = ?, amount = ?, roi_rate = ?, term = ?, custom_term_months = ?,
			co_owner = ?, property_value = ?, mortgage_balance = ?, property_link = ?,
			updated_at = ?
		WHERE id = ?`,
		p.PoolType, p.Status, p.AddressLine, p.City, p.State, p.ZipCode,
		p.PercentOwned.String(), p.Amount.String(), p.RoiRate.String(),
		p.Term, mapOptionalInt(p.CustomTermMonths),
		mapOptionalString(p.CoOwner), mapOptionalDecimal(p.PropertyValue),
		mapOptionalDecimal(p.MortgageBalance), mapOptionalString(p.PropertyLink),
		time.Now().UTC(), p.ID,
	)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

func (r *poolsRepo) SetPoolStatus(ctx context.Context, id, status string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE pools SET status = ?, updated_at = ? WHERE id = ?`,
		status, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

func (r *poolsRepo) DeletePool(ctx context.Context, id, borrowerID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM pools WHERE id = ? AND borrower_id = ?`, id, borrowerID)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

// investedByPool totals committed capital per active pool.
func (r *poolsRepo) investedByPool(ctx context.Context) (map[string]decimal.Decimal, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT i.pool_id, i.amount
		FROM investments i
		JOIN pools p ON p.id = i.pool_id
		WHERE p.status = ?`, domain.PoolStatusActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	totals := make(map[string]decimal.Decimal)
	for rows.Next() {
		var poolID, amount string
		if err := rows.Scan(&poolID, &amount); err != nil {
			return nil, err
		}
		d, err := mapDecimal(amount)
		if err != nil {
			return nil, err
		}
		totals[poolID] = totals[poolID].Add(d)
	}
	return totals, rows.Err()
}

// sumInvestments totals committed capital for a single pool, summing in Go to
// keep the value an exact decimal.
func sumInvestments(ctx context.Context, db dbtx, poolID string) (decimal.Decimal, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT amount FROM investments WHERE pool_id = ?`, poolID)
	if err != nil {
		return decimal.Zero, err
	}
	defer rows.Close()

	total := decimal.Zero
	for rows.Next() {
		var amount string
		if err := rows.Scan(&amount); err != nil {
			return decimal.Zero, err
		}
		d, err := mapDecimal(amount)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(d)
	}
	return total, rows.Err()
}

func checkAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return mapNotFound(sql.ErrNoRows)
	}
	return nil
}

func scanPool(row rowScanner) (domain.Pool, error) {
	var (
		p                             domain.Pool
		percentOwned, amount, roiRate string
		customTerm                    sql.NullInt64
		coOwner, propLink             sql.NullString
		propValue, mortBalance        sql.NullString
	)
	err := row.Scan(
		&p.ID, &p.BorrowerID, &p.PoolType, &p.Status, &p.AddressLine, &p.City, &p.State, &p.ZipCode,
		&percentOwned, &amount, &roiRate, &p.Term, &customTerm,
		&coOwner, &propValue, &mortBalance, &propLink, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return domain.Pool{}, mapNotFound(err)
	}
	if p.PercentOwned, err = mapDecimal(percentOwned); err != nil {
		return domain.Pool{}, err
	}
	if p.Amount, err = mapDecimal(amount); err != nil {
		return domain.Pool{}, err
	}
	if p.RoiRate, err = mapDecimal(roiRate); err != nil {
		return domain.Pool{}, err
	}
	if p.PropertyValue, err = mapNullDecimalPtr(propValue); err != nil {
		return domain.Pool{}, err
	}
	if p.MortgageBalance, err = mapNullDecimalPtr(mortBalance); err != nil {
		return domain.Pool{}, err
	}
	p.CustomTermMonths = mapNullIntPtr(customTerm)
	p.CoOwner = mapNullStringPtr(coOwner)
	p.PropertyLink = mapNullStringPtr(propLink)
	return p, nil
}

func scanListing(row rowScanner) (domain.PoolListing, error) {
	var (
		l                             domain.PoolListing
		percentOwned, amount, roiRate string
		customTerm                    sql.NullInt64
		coOwner, propLink             sql.NullString
		propValue, mortBalance        sql.NullString
		firstName, lastName           string
	)
	err := row.Scan(
		&l.ID, &l.BorrowerID, &l.PoolType, &l.Status, &l.AddressLine, &l.City, &l.State, &l.ZipCode,
		&percentOwned, &amount, &roiRate, &l.Term, &customTerm,
		&coOwner, &propValue, &mortBalance, &propLink, &l.CreatedAt, &l.UpdatedAt,
		&firstName, &lastName, &l.BorrowerEmail,
	)
	if err != nil {
		return domain.PoolListing{}, mapNotFound(err)
	}
	if l.PercentOwned, err = mapDecimal(percentOwned); err != nil {
		return domain.PoolListing{}, err
	}
	if l.Amount, err = mapDecimal(amount); err != nil {
		return domain.PoolListing{}, err
	}
	if l.RoiRate, err = mapDecimal(roiRate); err != nil {
		return domain.PoolListing{}, err
	}
	if l.PropertyValue, err = mapNullDecimalPtr(propValue); err != nil {
		return domain.PoolListing{}, err
	}
	if l.MortgageBalance, err = mapNullDecimalPtr(mortBalance); err != nil {
		return domain.PoolListing{}, err
	}
	l.CustomTermMonths = mapNullIntPtr(customTerm)
	l.CoOwner = mapNullStringPtr(coOwner)
	l.PropertyLink = mapNullStringPtr(propLink)
	l.BorrowerName = firstName + " " + lastName
	return l, nil
}
