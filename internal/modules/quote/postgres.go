package quote

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

	"github.com/georgemunganga/dealer-backend/internal/modules/pricing"
	"github.com/georgemunganga/dealer-backend/internal/platform/apperr"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

// quoteRow mirrors the quotes table; accessories and trade_in are JSONB.
type quoteRow struct {
	ID                 uuid.UUID
	VehicleID          uuid.UUID
	DealerID           uuid.UUID
	CustomerName       string
	CustomerEmail      string
	CustomerPhone      string
	Price              float64
	Accessories        []byte
	Discount           float64
	LicensePlateBonus  float64
	TradeInBonus       float64
	TradeIn            []byte
	SafetyKit          float64
	RoadPreparationFee float64
	ReducedVAT         bool
	VATRate            float64
	AccessoryTotal     float64
	TotalDiscount      float64
	FinalPrice         float64
	Status             string
	RejectionReason    string
	Notes              string
	OrderID            uuid.NullUUID
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func toRow(q *Quote) (quoteRow, error) {
	accessories := q.Accessories
	if accessories == nil {
		accessories = []pricing.AccessoryLine{}
	}
	acc, err := json.Marshal(accessories)
	if err != nil {
		return quoteRow{}, err
	}
	var tradeIn []byte
	if q.TradeIn != nil {
		if tradeIn, err = json.Marshal(q.TradeIn); err != nil {
			return quoteRow{}, err
		}
	}
	r := quoteRow{
		ID: q.ID, VehicleID: q.VehicleID, DealerID: q.DealerID,
		CustomerName: q.CustomerName, CustomerEmail: q.CustomerEmail, CustomerPhone: q.CustomerPhone,
		Price: q.Price, Accessories: acc,
		Discount: q.Discount, LicensePlateBonus: q.LicensePlateBonus, TradeInBonus: q.TradeInBonus,
		TradeIn: tradeIn, SafetyKit: q.SafetyKit, RoadPreparationFee: q.RoadPreparationFee,
		ReducedVAT: q.ReducedVAT, VATRate: q.VATRate,
		AccessoryTotal: q.AccessoryTotal, TotalDiscount: q.TotalDiscount, FinalPrice: q.FinalPrice,
		Status: string(q.Status), RejectionReason: q.RejectionReason, Notes: q.Notes,
		CreatedAt: q.CreatedAt, UpdatedAt: q.UpdatedAt,
	}
	if q.OrderID != nil {
		r.OrderID = uuid.NullUUID{UUID: *q.OrderID, Valid: true}
	}
	return r, nil
}

func (r quoteRow) toQuote() (*Quote, error) {
	q := &Quote{
		ID: r.ID, VehicleID: r.VehicleID, DealerID: r.DealerID,
		CustomerName: r.CustomerName, CustomerEmail: r.CustomerEmail, CustomerPhone: r.CustomerPhone,
		Price: r.Price, Accessories: []pricing.AccessoryLine{},
		Discount: r.Discount, LicensePlateBonus: r.LicensePlateBonus, TradeInBonus: r.TradeInBonus,
		SafetyKit: r.SafetyKit, RoadPreparationFee: r.RoadPreparationFee,
		ReducedVAT: r.ReducedVAT, VATRate: r.VATRate,
		AccessoryTotal: r.AccessoryTotal, TotalDiscount: r.TotalDiscount, FinalPrice: r.FinalPrice,
		Status: Status(r.Status), RejectionReason: r.RejectionReason, Notes: r.Notes,
		CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
	if len(r.Accessories) > 0 {
		if err := json.Unmarshal(r.Accessories, &q.Accessories); err != nil {
			return nil, fmt.Errorf("decode quote accessories: %w", err)
		}
	}
	if len(r.TradeIn) > 0 {
		q.TradeIn = &TradeIn{}
		if err := json.Unmarshal(r.TradeIn, q.TradeIn); err != nil {
			return nil, fmt.Errorf("decode quote trade-in: %w", err)
		}
	}
	if r.OrderID.Valid {
		id := r.OrderID.UUID
		q.OrderID = &id
	}
	return q, nil
}

const quoteColumns = `id,vehicle_id,dealer_id,customer_name,customer_email,customer_phone,price,
	accessories,discount,license_plate_bonus,trade_in_bonus,trade_in,safety_kit,road_preparation_fee,
	reduced_vat,vat_rate,accessory_total,total_discount,final_price,status,rejection_reason,notes,
	order_id,created_at,updated_at`

func (r *quoteRow) fields() []any {
	return []any{&r.ID, &r.VehicleID, &r.DealerID, &r.CustomerName, &r.CustomerEmail, &r.CustomerPhone,
		&r.Price, &r.Accessories, &r.Discount, &r.LicensePlateBonus, &r.TradeInBonus, &r.TradeIn,
		&r.SafetyKit, &r.RoadPreparationFee, &r.ReducedVAT, &r.VATRate, &r.AccessoryTotal,
		&r.TotalDiscount, &r.FinalPrice, &r.Status, &r.RejectionReason, &r.Notes,
		&r.OrderID, &r.CreatedAt, &r.UpdatedAt}
}

// values returns the column values in quoteColumns order.
func (r quoteRow) values() []any {
	var tradeIn any
	if len(r.TradeIn) > 0 {
		tradeIn = string(r.TradeIn)
	}
	return []any{r.ID, r.VehicleID, r.DealerID, r.CustomerName, r.CustomerEmail, r.CustomerPhone,
		r.Price, string(r.Accessories), r.Discount, r.LicensePlateBonus, r.TradeInBonus, tradeIn,
		r.SafetyKit, r.RoadPreparationFee, r.ReducedVAT, r.VATRate, r.AccessoryTotal,
		r.TotalDiscount, r.FinalPrice, r.Status, r.RejectionReason, r.Notes,
		r.OrderID, r.CreatedAt, r.UpdatedAt}
}

type scanner interface{ Scan(dest ...any) error }

func scanQuote(s scanner) (*Quote, error) {
	var r quoteRow
	if err := s.Scan(r.fields()...); err != nil {
		return nil, err
	}
	return r.toQuote()
}

func placeholders(n int) string {
	p := make([]string, n)
	for i := range p {
		p[i] = "$" + strconv.Itoa(i+1)
	}
	return strings.Join(p, ",")
}

func (p *postgresRepo) Create(ctx context.Context, q *Quote) error {
	r, err := toRow(q)
	if err != nil {
		return err
	}
	vals := r.values()
	_, err = p.db.ExecContext(ctx,
		`INSERT INTO quotes (`+quoteColumns+`) VALUES (`+placeholders(len(vals))+`)`, vals...)
	return err
}

func (p *postgresRepo) GetByID(ctx context.Context, id uuid.UUID) (*Quote, error) {
	q, err := scanQuote(p.db.QueryRowContext(ctx, `SELECT `+quoteColumns+` FROM quotes WHERE id=$1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("quote", id.String())
	}
	return q, err
}

func (p *postgresRepo) List(ctx context.Context, f Filter) ([]*Quote, error) {
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
	query := `SELECT ` + quoteColumns + ` FROM quotes`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	rows, err := p.db.QueryContext(ctx, query+` ORDER BY created_at DESC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	quotes := []*Quote{}
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, err
		}
		quotes = append(quotes, q)
	}
	return quotes, rows.Err()
}

func (p *postgresRepo) Update(ctx context.Context, q *Quote) error {
	r, err := toRow(q)
	if err != nil {
		return err
	}
	cols := strings.Split(strings.Join(strings.Fields(quoteColumns), ""), ",")
	vals := r.values()
	sets := make([]string, 0, len(cols))
	for i, c := range cols {
		if c == "id" {
			continue
		}
		sets = append(sets, c+"=$"+strconv.Itoa(i+1))
	}
	res, err := p.db.ExecContext(ctx,
		`UPDATE quotes SET `+strings.Join(sets, ",")+` WHERE id=$1`, vals...)
	if err != nil {
		return err
	}
	return expectOne(res, q.ID)
}

func (p *postgresRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := p.db.ExecContext(ctx, `DELETE FROM quotes WHERE id=$1`, id)
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
		return apperr.NotFound("quote", id.String())
	}
	return nil
}
