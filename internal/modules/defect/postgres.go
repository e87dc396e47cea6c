package defect

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/georgemunganga/dealer-backend/internal/platform/apperr"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

// reportRow mirrors the defect_reports table.
type reportRow struct {
	ID                   uuid.UUID
	CaseNumber           string
	DealerID             uuid.UUID
	VehicleID            uuid.UUID
	ReportDate           time.Time
	Description          string
	RepairCost           float64
	ApprovedAmount       float64
	Status               string
	AdminNotes           string
	TransportDocumentURL string
	RepairQuoteURL       string
	PhotoURLs            pq.StringArray
	PaymentDate          sql.NullTime
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

func toRow(r *Report) reportRow {
	row := reportRow{
		ID: r.ID, CaseNumber: r.CaseNumber, DealerID: r.DealerID, VehicleID: r.VehicleID,
		ReportDate: r.ReportDate, Description: r.Description, RepairCost: r.RepairCost,
		ApprovedAmount: r.ApprovedAmount, Status: string(r.Status), AdminNotes: r.AdminNotes,
		TransportDocumentURL: r.TransportDocumentURL, RepairQuoteURL: r.RepairQuoteURL,
		PhotoURLs: pq.StringArray(r.PhotoURLs), CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
	if row.PhotoURLs == nil {
		row.PhotoURLs = pq.StringArray{}
	}
	if r.PaymentDate != nil {
		row.PaymentDate = sql.NullTime{Time: *r.PaymentDate, Valid: true}
	}
	return row
}

func (row reportRow) toReport() *Report {
	r := &Report{
		ID: row.ID, CaseNumber: row.CaseNumber, DealerID: row.DealerID, VehicleID: row.VehicleID,
		ReportDate: row.ReportDate, Description: row.Description, RepairCost: row.RepairCost,
		ApprovedAmount: row.ApprovedAmount, Status: Status(row.Status), AdminNotes: row.AdminNotes,
		TransportDocumentURL: row.TransportDocumentURL, RepairQuoteURL: row.RepairQuoteURL,
		PhotoURLs: []string(row.PhotoURLs), CreatedAt: row.CreatedAt, UpdatedAt: row.UpdatedAt,
	}
	if r.PhotoURLs == nil {
		r.PhotoURLs = []string{}
	}
	if row.PaymentDate.Valid {
		t := row.PaymentDate.Time
		r.PaymentDate = &t
	}
	return r
}

const reportColumns = `id, case_number, dealer_id, vehicle_id, report_date, description, repair_cost,
	approved_amount, status, admin_notes, transport_document_url, repair_quote_url, photo_urls,
	payment_date, created_at, updated_at`

type scanner interface{ Scan(dest ...any) error }

func scanReport(s scanner) (*Report, error) {
	var row reportRow
	if err := s.Scan(&row.ID, &row.CaseNumber, &row.DealerID, &row.VehicleID, &row.ReportDate,
		&row.Description, &row.RepairCost, &row.ApprovedAmount, &row.Status, &row.AdminNotes,
		&row.TransportDocumentURL, &row.RepairQuoteURL, &row.PhotoURLs, &row.PaymentDate,
		&row.CreatedAt, &row.UpdatedAt); err != nil {
		return nil, err
	}
	return row.toReport(), nil
}

func (p *postgresRepo) Create(ctx context.Context, r *Report) error {
	row := toRow(r)
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO defect_reports (`+reportColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)`,
		row.ID, row.CaseNumber, row.DealerID, row.VehicleID, row.ReportDate, row.Description,
		row.RepairCost, row.ApprovedAmount, row.Status, row.AdminNotes, row.TransportDocumentURL,
		row.RepairQuoteURL, row.PhotoURLs, row.PaymentDate, row.CreatedAt, row.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert defect report: %w", err)
	}
	return nil
}

func (p *postgresRepo) GetByID(ctx context.Context, id uuid.UUID) (*Report, error) {
	r, err := scanReport(p.db.QueryRowContext(ctx,
		`SELECT `+reportColumns+` FROM defect_reports WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("defect report", id.String())
	}
	return r, err
}

func (p *postgresRepo) List(ctx context.Context, f Filter) ([]*Report, error) {
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
	query := `SELECT ` + reportColumns + ` FROM defect_reports`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	rows, err := p.db.QueryContext(ctx, query+` ORDER BY report_date DESC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reports := []*Report{}
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, r)
	}
	return reports, rows.Err()
}

func (p *postgresRepo) Update(ctx context.Context, r *Report) error {
	row := toRow(r)
	res, err := p.db.ExecContext(ctx, `
		UPDATE defect_reports SET report_date = $2, description = $3, repair_cost = $4,
		       approved_amount = $5, status = $6, admin_notes = $7, transport_document_url = $8,
		       repair_quote_url = $9, photo_urls = $10, payment_date = $11, updated_at = $12
		WHERE id = $1`,
		row.ID, row.ReportDate, row.Description, row.RepairCost, row.ApprovedAmount, row.Status,
		row.AdminNotes, row.TransportDocumentURL, row.RepairQuoteURL, row.PhotoURLs,
		row.PaymentDate, row.UpdatedAt)
	if err != nil {
		return err
	}
	return expectOne(res, r.ID)
}

func (p *postgresRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := p.db.ExecContext(ctx, `DELETE FROM defect_reports WHERE id = $1`, id)
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
		return apperr.NotFound("defect report", id.String())
	}
	return nil
}
