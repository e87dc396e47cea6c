package order

import (
	"context"
	"database/sql"
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

// orderRow mirrors the orders table; details are flattened into columns.
type orderRow struct {
	ID             uuid.UUID
	OrderNumber    string
	VehicleID      uuid.UUID
	DealerID       uuid.UUID
	QuoteID        uuid.NullUUID
	CustomerName   string
	Status         string
	OrderDate      time.Time
	DeliveryDate   sql.NullTime
	Price          float64
	Notes          string
	IsLicensable   bool
	HasProforma    bool
	IsPaid         bool
	IsInvoiced     bool
	HasConformity  bool
	ODLGenerated   bool
	ODLGeneratedAt sql.NullTime
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func toRow(o *Order) orderRow {
	r := orderRow{
		ID: o.ID, OrderNumber: o.OrderNumber, VehicleID: o.VehicleID, DealerID: o.DealerID,
		CustomerName: o.CustomerName, Status: string(o.Status), OrderDate: o.OrderDate,
		Price: o.Price, Notes: o.Notes,
		IsLicensable: o.Details.IsLicensable, HasProforma: o.Details.HasProforma,
		IsPaid: o.Details.IsPaid, IsInvoiced: o.Details.IsInvoiced,
		HasConformity: o.Details.HasConformity, ODLGenerated: o.Details.ODLGenerated,
		CreatedAt: o.CreatedAt, UpdatedAt: o.UpdatedAt,
	}
	if o.QuoteID != nil {
		r.QuoteID = uuid.NullUUID{UUID: *o.QuoteID, Valid: true}
	}
	if o.DeliveryDate != nil {
		r.DeliveryDate = sql.NullTime{Time: *o.DeliveryDate, Valid: true}
	}
	if o.Details.ODLGeneratedAt != nil {
		r.ODLGeneratedAt = sql.NullTime{Time: *o.Details.ODLGeneratedAt, Valid: true}
	}
	return r
}

func (r orderRow) toOrder() *Order {
	o := &Order{
		ID: r.ID, OrderNumber: r.OrderNumber, VehicleID: r.VehicleID, DealerID: r.DealerID,
		CustomerName: r.CustomerName, Status: OrderStatus(r.Status), OrderDate: r.OrderDate,
		Price: r.Price, Notes: r.Notes,
		Details: Details{
			IsLicensable: r.IsLicensable, HasProforma: r.HasProforma,
			IsPaid: r.IsPaid, IsInvoiced: r.IsInvoiced,
			HasConformity: r.HasConformity, ODLGenerated: r.ODLGenerated,
		},
		CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
	if r.QuoteID.Valid {
		id := r.QuoteID.UUID
		o.QuoteID = &id
	}
	if r.DeliveryDate.Valid {
		t := r.DeliveryDate.Time
		o.DeliveryDate = &t
	}
	if r.ODLGeneratedAt.Valid {
		t := r.ODLGeneratedAt.Time
		o.Details.ODLGeneratedAt = &t
	}
	return o
}

const orderColumns = `id,order_number,vehicle_id,dealer_id,quote_id,customer_name,status,order_date,
	delivery_date,price,notes,is_licensable,has_proforma,is_paid,is_invoiced,has_conformity,
	odl_generated,odl_generated_at,created_at,updated_at`

func (r orderRow) values() []any {
	return []any{r.ID, r.OrderNumber, r.VehicleID, r.DealerID, r.QuoteID, r.CustomerName, r.Status,
		r.OrderDate, r.DeliveryDate, r.Price, r.Notes, r.IsLicensable, r.HasProforma, r.IsPaid,
		r.IsInvoiced, r.HasConformity, r.ODLGenerated, r.ODLGeneratedAt, r.CreatedAt, r.UpdatedAt}
}

type scanner interface{ Scan(dest ...any) error }

func scanOrder(s scanner) (*Order, error) {
	var r orderRow
	if err := s.Scan(&r.ID, &r.OrderNumber, &r.VehicleID, &r.DealerID, &r.QuoteID, &r.CustomerName,
		&r.Status, &r.OrderDate, &r.DeliveryDate, &r.Price, &r.Notes, &r.IsLicensable,
		&r.HasProforma, &r.IsPaid, &r.IsInvoiced, &r.HasConformity, &r.ODLGenerated,
		&r.ODLGeneratedAt, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, err
	}
	return r.toOrder(), nil
}

func (p *postgresRepo) Create(ctx context.Context, o *Order) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO orders (`+orderColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20)`,
		toRow(o).values()...)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (p *postgresRepo) GetByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	o, err := scanOrder(p.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id=$1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("order", id.String())
	}
	return o, err
}

func (p *postgresRepo) GetByNumber(ctx context.Context, orderNumber string) (*Order, error) {
	o, err := scanOrder(p.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE order_number=$1`, orderNumber))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("order", orderNumber)
	}
	return o, err
}

func (p *postgresRepo) List(ctx context.Context, f Filter) ([]*Order, error) {
	var conds []string
	var args []any
	if f.DealerID != uuid.Nil {
		args = append(args, f.DealerID)
		conds = append(conds, "dealer_id=$"+strconv.Itoa(len(args)))
	}
	if f.VehicleID != uuid.Nil {
		args = append(args, f.VehicleID)
		conds = append(conds, "vehicle_id=$"+strconv.Itoa(len(args)))
	}
	if f.Status != "" {
		args = append(args, string(f.Status))
		conds = append(conds, "status=$"+strconv.Itoa(len(args)))
	}
	query := `SELECT ` + orderColumns + ` FROM orders`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	rows, err := p.db.QueryContext(ctx, query+` ORDER BY order_date DESC, created_at DESC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []*Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (p *postgresRepo) Update(ctx context.Context, o *Order) error {
	r := toRow(o)
	res, err := p.db.ExecContext(ctx, `
		UPDATE orders SET customer_name=$2, status=$3, order_date=$4, delivery_date=$5, price=$6,
		       notes=$7, is_licensable=$8, has_proforma=$9, is_paid=$10, is_invoiced=$11,
		       has_conformity=$12, odl_generated=$13, odl_generated_at=$14, updated_at=$15
		WHERE id=$1`,
		r.ID, r.CustomerName, r.Status, r.OrderDate, r.DeliveryDate, r.Price, r.Notes,
		r.IsLicensable, r.HasProforma, r.IsPaid, r.IsInvoiced, r.HasConformity,
		r.ODLGenerated, r.ODLGeneratedAt, r.UpdatedAt)
	if err != nil {
		return err
	}
	return expectOne(res, o.ID)
}

func (p *postgresRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := p.db.ExecContext(ctx, `DELETE FROM orders WHERE id=$1`, id)
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
		return apperr.NotFound("order", id.String())
	}
	return nil
}
