package inventory

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/georgemunganga/dealer-backend/internal/platform/apperr"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

// vehicleRow mirrors the vehicles table.
type vehicleRow struct {
	ID               uuid.UUID
	Model            string
	TrimLevel        string
	FuelType         string
	ExteriorColor    string
	Transmission     string
	Accessories      pq.StringArray
	StockAccessories pq.StringArray
	Price            float64
	Status           string
	Location         string
	Telaio           string
	DateAdded        time.Time
	VirtualConfig    []byte
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func toRow(v *Vehicle) vehicleRow {
	return vehicleRow{
		ID:               v.ID,
		Model:            v.Model,
		TrimLevel:        v.Trim,
		FuelType:         v.FuelType,
		ExteriorColor:    v.ExteriorColor,
		Transmission:     v.Transmission,
		Accessories:      pq.StringArray(nonNil(v.Accessories)),
		StockAccessories: pq.StringArray(nonNil(v.StockAccessories)),
		Price:            v.Price,
		Status:           string(v.Status),
		Location:         v.Location,
		Telaio:           v.Telaio,
		DateAdded:        v.DateAdded,
		VirtualConfig:    v.VirtualConfig,
		CreatedAt:        v.CreatedAt,
		UpdatedAt:        v.UpdatedAt,
	}
}

func (r vehicleRow) toVehicle() *Vehicle {
	return &Vehicle{
		ID:               r.ID,
		Model:            r.Model,
		Trim:             r.TrimLevel,
		FuelType:         r.FuelType,
		ExteriorColor:    r.ExteriorColor,
		Transmission:     r.Transmission,
		Accessories:      nonNil(r.Accessories),
		StockAccessories: nonNil(r.StockAccessories),
		Price:            r.Price,
		Status:           Status(r.Status),
		Location:         r.Location,
		Telaio:           r.Telaio,
		DateAdded:        r.DateAdded,
		VirtualConfig:    r.VirtualConfig,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

const vehicleColumns = `id,model,trim_level,fuel_type,exterior_color,transmission,accessories,
	stock_accessories,price,status,location,telaio,date_added,virtual_config,created_at,updated_at`

type scanner interface{ Scan(dest ...any) error }

func scanVehicle(s scanner) (*Vehicle, error) {
	var r vehicleRow
	if err := s.Scan(&r.ID, &r.Model, &r.TrimLevel, &r.FuelType, &r.ExteriorColor, &r.Transmission,
		&r.Accessories, &r.StockAccessories, &r.Price, &r.Status, &r.Location, &r.Telaio,
		&r.DateAdded, &r.VirtualConfig, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, err
	}
	return r.toVehicle(), nil
}

func (p *postgresRepo) Create(ctx context.Context, v *Vehicle) error {
	r := toRow(v)
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO vehicles (`+vehicleColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)`,
		r.ID, r.Model, r.TrimLevel, r.FuelType, r.ExteriorColor, r.Transmission,
		r.Accessories, r.StockAccessories, r.Price, r.Status, r.Location, r.Telaio,
		r.DateAdded, nullJSON(r.VirtualConfig), r.CreatedAt, r.UpdatedAt)
	return err
}

func (p *postgresRepo) GetByID(ctx context.Context, id uuid.UUID) (*Vehicle, error) {
	v, err := scanVehicle(p.db.QueryRowContext(ctx,
		`SELECT `+vehicleColumns+` FROM vehicles WHERE id=$1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("vehicle", id.String())
	}
	return v, err
}

func (p *postgresRepo) GetByTelaio(ctx context.Context, telaio string) (*Vehicle, error) {
	v, err := scanVehicle(p.db.QueryRowContext(ctx,
		`SELECT `+vehicleColumns+` FROM vehicles WHERE telaio=$1`, telaio))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("vehicle with telaio", telaio)
	}
	return v, err
}

func (p *postgresRepo) List(ctx context.Context, f Filter) ([]*Vehicle, error) {
	where, args := filterClause(f)
	rows, err := p.db.QueryContext(ctx,
		`SELECT `+vehicleColumns+` FROM vehicles`+where+` ORDER BY date_added DESC, created_at DESC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	vehicles := []*Vehicle{}
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, err
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, rows.Err()
}

func filterClause(f Filter) (string, []any) {
	var conds []string
	var args []any
	add := func(col string, val any) {
		args = append(args, val)
		conds = append(conds, col+"=$"+strconv.Itoa(len(args)))
	}
	if f.Status != "" {
		add("status", string(f.Status))
	}
	if f.Location != "" {
		add("location", f.Location)
	}
	if f.Model != "" {
		add("model", f.Model)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (p *postgresRepo) Update(ctx context.Context, v *Vehicle) error {
	r := toRow(v)
	res, err := p.db.ExecContext(ctx, `
		UPDATE vehicles SET model=$2, trim_level=$3, fuel_type=$4, exterior_color=$5, transmission=$6,
		       accessories=$7, stock_accessories=$8, price=$9, status=$10, location=$11, telaio=$12,
		       date_added=$13, virtual_config=$14, updated_at=$15
		WHERE id=$1`,
		r.ID, r.Model, r.TrimLevel, r.FuelType, r.ExteriorColor, r.Transmission,
		r.Accessories, r.StockAccessories, r.Price, r.Status, r.Location, r.Telaio,
		r.DateAdded, nullJSON(r.VirtualConfig), r.UpdatedAt)
	if err != nil {
		return err
	}
	return expectOne(res, v.ID)
}

func (p *postgresRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := p.db.ExecContext(ctx, `DELETE FROM vehicles WHERE id=$1`, id)
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
		return apperr.NotFound("vehicle", id.String())
	}
	return nil
}

// nullJSON stores an absent virtual configuration as SQL NULL.
func nullJSON(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}
