package defect

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/georgemunganga/dealer-backend/internal/modules/inventory"
	"github.com/georgemunganga/dealer-backend/internal/platform/apperr"
	"github.com/georgemunganga/dealer-backend/internal/platform/blob"
	"github.com/georgemunganga/dealer-backend/internal/platform/validation"
)

// VehicleSource checks the reported vehicle exists.
type VehicleSource interface {
	Get(ctx context.Context, id uuid.UUID) (*inventory.Vehicle, error)
}

// Service defines defect report business logic.
type Service interface {
	Create(ctx context.Context, req CreateReportRequest) (*Report, error)
	Get(ctx context.Context, id uuid.UUID) (*Report, error)
	List(ctx context.Context, f Filter) ([]*Report, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateReportRequest) (*Report, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// Review decides an open report.
	Review(ctx context.Context, id uuid.UUID, req ReviewRequest) (*Report, error)

	// Attach uploads a document and records its URL in the slot named by kind.
	// Photos accumulate; the other kinds replace the previous document.
	Attach(ctx context.Context, id uuid.UUID, kind AttachmentKind, filename string, r io.Reader) (*Report, error)
}

type service struct {
	repo         Repository
	vehicles     VehicleSource
	blobs        blob.Store
	now          func() time.Time
	caseNumberFn func() string
}

func NewService(repo Repository, vehicles VehicleSource, blobs blob.Store) Service {
	return &service{
		repo:         repo,
		vehicles:     vehicles,
		blobs:        blobs,
		now:          time.Now,
		caseNumberFn: generateCaseNumber,
	}
}

var reviewOutcomes = []string{string(StatusApproved), string(StatusPartiallyApproved), string(StatusRejected)}

var attachmentKinds = []string{string(AttachTransportDocument), string(AttachRepairQuote), string(AttachPhoto)}

func (s *service) Create(ctx context.Context, req CreateReportRequest) (*Report, error) {
	v := validation.Violations{}
	if req.DealerID == uuid.Nil {
		v["dealerId"] = "required"
	}
	if req.VehicleID == uuid.Nil {
		v["vehicleId"] = "required"
	}
	validation.Required("description", req.Description, v)
	validation.NonNegative("repairCost", req.RepairCost, v)
	if err := v.Err(); err != nil {
		return nil, err
	}
	if _, err := s.vehicles.Get(ctx, req.VehicleID); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	r := &Report{
		ID:          uuid.New(),
		CaseNumber:  s.caseNumberFn(),
		DealerID:    req.DealerID,
		VehicleID:   req.VehicleID,
		ReportDate:  now,
		Description: strings.TrimSpace(req.Description),
		RepairCost:  req.RepairCost,
		Status:      StatusOpen,
		PhotoURLs:   []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if req.ReportDate != nil {
		r.ReportDate = req.ReportDate.UTC()
	}
	if err := s.repo.Create(ctx, r); err != nil {
		return nil, fmt.Errorf("failed to create defect report: %w", err)
	}
	return r, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Report, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, f Filter) ([]*Report, error) {
	return s.repo.List(ctx, f)
}

func (s *service) Update(ctx context.Context, id uuid.UUID, req UpdateReportRequest) (*Report, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	claimChanged := req.Description != nil || req.RepairCost != nil || req.ReportDate != nil
	if claimChanged && r.Status != StatusOpen {
		return nil, apperr.InvalidState(fmt.Sprintf("cannot edit the claim of a %s report", r.Status))
	}
	if req.Description != nil {
		r.Description = strings.TrimSpace(*req.Description)
	}
	if req.RepairCost != nil {
		r.RepairCost = *req.RepairCost
	}
	if req.ReportDate != nil {
		r.ReportDate = req.ReportDate.UTC()
	}
	if req.AdminNotes != nil {
		r.AdminNotes = *req.AdminNotes
	}
	if req.PaymentDate != nil {
		d := req.PaymentDate.UTC()
		r.PaymentDate = &d
	}

	v := validation.Violations{}
	validation.Required("description", r.Description, v)
	validation.NonNegative("repairCost", r.RepairCost, v)
	if err := v.Err(); err != nil {
		return nil, err
	}
	if err := s.save(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *service) Review(ctx context.Context, id uuid.UUID, req ReviewRequest) (*Report, error) {
	v := validation.Violations{}
	validation.OneOf("status", string(req.Status), reviewOutcomes, v)
	if req.ApprovedAmount != nil {
		validation.NonNegative("approvedAmount", *req.ApprovedAmount, v)
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.Status != StatusOpen {
		return nil, apperr.InvalidState(fmt.Sprintf("report %s has already been reviewed (%s)", r.CaseNumber, r.Status))
	}

	amount := decimal.Zero
	if req.ApprovedAmount != nil {
		amount = decimal.NewFromFloat(*req.ApprovedAmount)
	}
	cost := decimal.NewFromFloat(r.RepairCost)
	switch req.Status {
	case StatusApproved:
		if req.ApprovedAmount == nil {
			amount = cost
		}
	case StatusPartiallyApproved:
		if !amount.IsPositive() || !amount.LessThan(cost) {
			return nil, validation.Violations{"approvedAmount": "must_be_between_zero_and_repair_cost"}.Err()
		}
	case StatusRejected:
		amount = decimal.Zero
	}

	r.Status = req.Status
	r.ApprovedAmount = amount.Round(2).InexactFloat64()
	if notes := strings.TrimSpace(req.AdminNotes); notes != "" {
		r.AdminNotes = notes
	}
	if err := s.save(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *service) Attach(ctx context.Context, id uuid.UUID, kind AttachmentKind, filename string, body io.Reader) (*Report, error) {
	v := validation.Violations{}
	validation.OneOf("kind", string(kind), attachmentKinds, v)
	if err := v.Err(); err != nil {
		return nil, err
	}
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	url, err := s.blobs.Put(ctx, "defects/"+r.CaseNumber, filename, body)
	if err != nil {
		return nil, fmt.Errorf("failed to store attachment: %w", err)
	}
	switch kind {
	case AttachTransportDocument:
		r.TransportDocumentURL = url
	case AttachRepairQuote:
		r.RepairQuoteURL = url
	case AttachPhoto:
		r.PhotoURLs = append(r.PhotoURLs, url)
	}
	if err := s.save(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *service) save(ctx context.Context, r *Report) error {
	r.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, r); err != nil {
		return fmt.Errorf("failed to update defect report: %w", err)
	}
	return nil
}

// generateCaseNumber creates a human-readable case number: DIF-YYYYMMDD-XXXX
func generateCaseNumber() string {
	date := time.Now().UTC().Format("20060102")
	suffix := strings.ToUpper(uuid.New().String()[:4])
	return fmt.Sprintf("DIF-%s-%s", date, suffix)
}
