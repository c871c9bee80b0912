package sqlite

import (
	"context"
	"database/sql"

	"github.com/openlots/lendpool/internal/domain"
	"github.com/shopspring/decimal"
)

type investmentsRepo struct {
	db dbtx
}

func (r *investmentsRepo) CreateInvestment(ctx context.Context, inv domain.Investment) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO investments (id, investor_id, pool_id, amount, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		inv.ID, inv.InvestorID, inv.PoolID, inv.Amount.String(), inv.Status,
		inv.CreatedAt, inv.UpdatedAt,
	)
	return mapConstraint(err)
}

func (r *investmentsRepo) GetByInvestorAndPool(ctx context.Context, investorID, poolID string) (domain.Investment, error) {
	var inv domain.Investment
	var amount string
	err := r.db.QueryRowContext(ctx, `
		SELECT id, investor_id, pool_id, amount, status, created_at, updated_at
		FROM investments WHERE investor_id = ? AND pool_id = ?`, investorID, poolID,
	).Scan(&inv.ID, &inv.InvestorID, &inv.PoolID, &amount, &inv.Status, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return domain.Investment{}, mapNotFound(err)
	}
	if inv.Amount, err = mapDecimal(amount); err != nil {
		return domain.Investment{}, err
	}
	return inv, nil
}

func (r *investmentsRepo) ListByInvestor(ctx context.Context, investorID string) ([]domain.InvestmentRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT i.id, i.investor_id, i.pool_id, i.amount, i.status, i.created_at, i.updated_at,
			p.id, p.borrower_id, p.pool_type, p.status, p.address_line, p.city, p.state, p.zip_code,
			p.percent_owned, p.amount, p.roi_rate, p.term, p.custom_term_months,
			p.co_owner, p.property_value, p.mortgage_balance, p.property_link, p.created_at, p.updated_at,
			b.first_name, b.last_name, b.email
		FROM investments i
		JOIN pools p ON p.id = i.pool_id
		JOIN borrowers b ON b.id = p.borrower_id
		WHERE i.investor_id = ?
		ORDER BY i.created_at DESC, i.id DESC`, investorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.InvestmentRecord
	for rows.Next() {
		rec, err := scanInvestmentRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *investmentsRepo) SumForPool(ctx context.Context, poolID string) (decimal.Decimal, error) {
	return sumInvestments(ctx, r.db, poolID)
}

func (r *investmentsRepo) CountForPool(ctx context.Context, poolID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM investments WHERE pool_id = ?`, poolID).Scan(&count)
	return count, err
}

func scanInvestmentRecord(row rowScanner) (domain.InvestmentRecord, error) {
	var (
		rec                           domain.InvestmentRecord
		invAmount                     string
		percentOwned, amount, roiRate string
		customTerm                    sql.NullInt64
		coOwner, propLink             sql.NullString
		propValue, mortBalance        sql.NullString
		firstName, lastName           string
	)
	err := row.Scan(
		&rec.ID, &rec.InvestorID, &rec.PoolID, &invAmount, &rec.Status, &rec.CreatedAt, &rec.UpdatedAt,
		&rec.Pool.ID, &rec.Pool.BorrowerID, &rec.Pool.PoolType, &rec.Pool.Status,
		&rec.Pool.AddressLine, &rec.Pool.City, &rec.Pool.State, &rec.Pool.ZipCode,
		&percentOwned, &amount, &roiRate, &rec.Pool.Term, &customTerm,
		&coOwner, &propValue, &mortBalance, &propLink, &rec.Pool.CreatedAt, &rec.Pool.UpdatedAt,
		&firstName, &lastName, &rec.BorrowerEmail,
	)
	if err != nil {
		return domain.InvestmentRecord{}, mapNotFound(err)
	}
	if rec.Amount, err = mapDecimal(invAmount); err != nil {
		return domain.InvestmentRecord{}, err
	}
	if rec.Pool.PercentOwned, err = mapDecimal(percentOwned); err != nil {
		return domain.InvestmentRecord{}, err
	}
	if rec.Pool.Amount, err = mapDecimal(amount); err != nil {
		return domain.InvestmentRecord{}, err
	}
	if rec.Pool.RoiRate, err = mapDecimal(roiRate); err != nil {
		return domain.InvestmentRecord{}, err
	}
	rec.Pool.CustomTermMonths = mapNullIntPtr(customTerm)
	rec.Pool.CoOwner = mapNullStringPtr(coOwner)
	rec.Pool.PropertyLink = mapNullStringPtr(propLink)
	if rec.Pool.PropertyValue, err = mapNullDecimalPtr(propValue); err != nil {
		return domain.InvestmentRecord{}, err
	}
	if rec.Pool.MortgageBalance, err = mapNullDecimalPtr(mortBalance); err != nil {
		return domain.InvestmentRecord{}, err
	}
	rec.BorrowerName = firstName + " " + lastName
	return rec, nil
}
