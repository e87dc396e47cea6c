package dealer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/georgemunganga/dealer-backend/internal/platform/apperr"
)

type postgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates a new PostgreSQL dealer repository.
func NewPostgresRepository(db *sql.DB) Repository {
	return &postgresRepository{db: db}
}

const dealerColumns = `id, company_name, address, city, province, zip_code, is_active,
	contact_name, email, phone, vat_number, logo_url, password_hash, credit_limit,
	created_at, updated_at`

type scanner interface{ Scan(dest ...any) error }

func scanDealer(s scanner) (*Dealer, error) {
	d := &Dealer{}
	err := s.Scan(
		&d.ID,
		&d.CompanyName,
		&d.Address,
		&d.City,
		&d.Province,
		&d.ZipCode,
		&d.IsActive,
		&d.ContactName,
		&d.Email,
		&d.Phone,
		&d.VATNumber,
		&d.LogoURL,
		&d.PasswordHash,
		&d.CreditLimit,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (r *postgresRepository) Create(ctx context.Context, d *Dealer) error {
	query := `
		INSERT INTO dealers (` + dealerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`
	_, err := r.db.ExecContext(ctx, query, d.ID, d.CompanyName, d.Address, d.City, d.Province,
		d.ZipCode, d.IsActive, d.ContactName, d.Email, d.Phone, d.VATNumber, d.LogoURL,
		d.PasswordHash, d.CreditLimit, d.CreatedAt, d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert dealer: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Dealer, error) {
	d, err := scanDealer(r.db.QueryRowContext(ctx, `SELECT `+dealerColumns+` FROM dealers WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("dealer", id.String())
	}
	return d, err
}

func (r *postgresRepository) GetByEmail(ctx context.Context, email string) (*Dealer, error) {
	d, err := scanDealer(r.db.QueryRowContext(ctx,
		`SELECT `+dealerColumns+` FROM dealers WHERE lower(email) = lower($1)`, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("dealer", email)
	}
	return d, err
}

func (r *postgresRepository) List(ctx context.Context, f Filter) ([]*Dealer, error) {
	query := `SELECT ` + dealerColumns + ` FROM dealers`
	var args []any
	if f.Active != nil {
		query += ` WHERE is_active = $1`
		args = append(args, *f.Active)
	}
	rows, err := r.db.QueryContext(ctx, query+` ORDER BY company_name`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	dealers := []*Dealer{}
	for rows.Next() {
		d, err := scanDealer(rows)
		if err != nil {
			return nil, err
		}
		dealers = append(dealers, d)
	}
	return dealers, rows.Err()
}

func (r *postgresRepository) Update(ctx context.Context, d *Dealer) error {
	query := `
		UPDATE dealers SET company_name = $2, address = $3, city = $4, province = $5,
		       zip_code = $6, is_active = $7, contact_name = $8, email = $9, phone = $10,
		       vat_number = $11, logo_url = $12, password_hash = $13, credit_limit = $14,
		       updated_at = $15
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, d.ID, d.CompanyName, d.Address, d.City, d.Province,
		d.ZipCode, d.IsActive, d.ContactName, d.Email, d.Phone, d.VATNumber, d.LogoURL,
		d.PasswordHash, d.CreditLimit, d.UpdatedAt)
	if err != nil {
		return err
	}
	return expectOne(res, d.ID)
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM dealers WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectOne(res, id)
}

func expectOne(res sql.Result, id uuid.UUID) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.NotFound("dealer", id.String())
	}
	return nil
}
