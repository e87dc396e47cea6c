package contract

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/georgemunganga/dealer-backend/internal/platform/apperr"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

// contractRow mirrors dealer_contracts; contract_details is JSONB.
type contractRow struct {
	ID           uuid.UUID
	DealerID     uuid.UUID
	VehicleID    uuid.UUID
	ContractDate time.Time
	Details      []byte
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func toRow(c *Contract) (contractRow, error) {
	details, err := json.Marshal(c.ContractDetails)
	if err != nil {
		return contractRow{}, fmt.Errorf("encode contract details: %w", err)
	}
	return contractRow{
		ID: c.ID, DealerID: c.DealerID, VehicleID: c.VehicleID, ContractDate: c.ContractDate,
		Details: details, Status: string(c.Status), CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt,
	}, nil
}

func (r contractRow) toContract() (*Contract, error) {
	c := &Contract{
		ID: r.ID, DealerID: r.DealerID, VehicleID: r.VehicleID, ContractDate: r.ContractDate,
		Status: Status(r.Status), CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
	if len(r.Details) > 0 {
		if err := json.Unmarshal(r.Details, &c.ContractDetails); err != nil {
			return nil, fmt.Errorf("decode contract details: %w", err)
		}
	}
	return c, nil
}

const contractColumns = `id, dealer_id, vehicle_id, contract_date, contract_details, status, created_at, updated_at`

type scanner interface{ Scan(dest ...any) error }

func scanContract(s scanner) (*Contract, error) {
	var r contractRow
	if err := s.Scan(&r.ID, &r.DealerID, &r.VehicleID, &r.ContractDate, &r.Details,
		&r.Status, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, err
	}
	return r.toContract()
}

func (p *postgresRepo) Create(ctx context.Context, c *Contract) error {
	r, err := toRow(c)
	if err != nil {
		return err
	}
	_, err = p.db.ExecContext(ctx, `
		INSERT INTO dealer_contracts (`+contractColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		r.ID, r.DealerID, r.VehicleID, r.ContractDate, string(r.Details), r.Status, r.CreatedAt, r.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert contract: %w", err)
	}
	return nil
}

func (p *postgresRepo) GetByID(ctx context.Context, id uuid.UUID) (*Contract, error) {
	c, err := scanContract(p.db.QueryRowContext(ctx,
		`SELECT `+contractColumns+` FROM dealer_contracts WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("contract", id.String())
	}
	return c, err
}

func (p *postgresRepo) List(ctx context.Context, f Filter) ([]*Contract, error) {
	var conds []string
	var args []any
	add := func(col string, v any) {
		args = append(args, v)
		conds = append(conds, col+" = $"+strconv.Itoa(len(args)))
	}
	if f.DealerID != uuid.Nil {
		add("dealer_id", f.DealerID)
	}
	if f.VehicleID != uuid.Nil {
		add("vehicle_id", f.VehicleID)
	}
	if f.Status != "" {
		add("status", string(f.Status))
	}
	query := `SELECT ` + contractColumns + ` FROM dealer_contracts`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	rows, err := p.db.QueryContext(ctx, query+` ORDER BY contract_date DESC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	contracts := []*Contract{}
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, err
		}
		contracts = append(contracts, c)
	}
	return contracts, rows.Err()
}

func (p *postgresRepo) Update(ctx context.Context, c *Contract) error {
	r, err := toRow(c)
	if err != nil {
		return err
	}
	res, err := p.db.ExecContext(ctx, `
		UPDATE dealer_contracts SET contract_date = $2, contract_details = $3, status = $4, updated_at = $5
		WHERE id = $1`,
		r.ID, r.ContractDate, string(r.Details), r.Status, r.UpdatedAt)
	if err != nil {
		return err
	}
	return expectOne(res, c.ID)
}

func (p *postgresRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := p.db.ExecContext(ctx, `DELETE FROM dealer_contracts WHERE id = $1`, id)
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
		return apperr.NotFound("contract", id.String())
	}
	return nil
}
