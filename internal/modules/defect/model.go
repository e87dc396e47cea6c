package defect

import (
	"time"

	"github.com/google/uuid"
)

// Status represents the review state of a defect report.
type Status string

const (
	StatusOpen              Status = "open"
	StatusApproved          Status = "approved"
	StatusPartiallyApproved Status = "partially_approved"
	StatusRejected          Status = "rejected"
)

// AttachmentKind names the document slot an upload fills.
type AttachmentKind string

const (
	AttachTransportDocument AttachmentKind = "transport_document"
	AttachRepairQuote       AttachmentKind = "repair_quote"
	AttachPhoto             AttachmentKind = "photo"
)

// Report is a dealer's claim for a defect found on a delivered vehicle.
type Report struct {
	ID                   uuid.UUID  `json:"id"`
	CaseNumber           string     `json:"caseNumber"`
	DealerID             uuid.UUID  `json:"dealerId"`
	VehicleID            uuid.UUID  `json:"vehicleId"`
	ReportDate           time.Time  `json:"reportDate"`
	Description          string     `json:"description"`
	RepairCost           float64    `json:"repairCost"`
	ApprovedAmount       float64    `json:"approvedAmount"`
	Status               Status     `json:"status"`
	AdminNotes           string     `json:"adminNotes,omitempty"`
	TransportDocumentURL string     `json:"transportDocumentUrl,omitempty"`
	RepairQuoteURL       string     `json:"repairQuoteUrl,omitempty"`
	PhotoURLs            []string   `json:"photoUrls"`
	PaymentDate          *time.Time `json:"paymentDate,omitempty"`
	CreatedAt            time.Time  `json:"createdAt"`
	UpdatedAt            time.Time  `json:"updatedAt"`
}

type Filter struct {
	DealerID  uuid.UUID
	VehicleID uuid.UUID
	Status    Status
}

func (f Filter) Matches(r *Report) bool {
	return (f.DealerID == uuid.Nil || r.DealerID == f.DealerID) &&
		(f.VehicleID == uuid.Nil || r.VehicleID == f.VehicleID) &&
		(f.Status == "" || r.Status == f.Status)
}

type CreateReportRequest struct {
	DealerID    uuid.UUID  `json:"dealerId"`
	VehicleID   uuid.UUID  `json:"vehicleId"`
	ReportDate  *time.Time `json:"reportDate"`
	Description string     `json:"description"`
	RepairCost  float64    `json:"repairCost"`
}

// UpdateReportRequest is a partial update. Description, RepairCost and
// ReportDate can only change while the report is open.
type UpdateReportRequest struct {
	Description *string    `json:"description"`
	RepairCost  *float64   `json:"repairCost"`
	ReportDate  *time.Time `json:"reportDate"`
	AdminNotes  *string    `json:"adminNotes"`
	PaymentDate *time.Time `json:"paymentDate"`
}

// ReviewRequest records the admin decision on an open report. ApprovedAmount
// defaults to the full repair cost when approving.
type ReviewRequest struct {
	Status         Status   `json:"status"`
	ApprovedAmount *float64 `json:"approvedAmount"`
	AdminNotes     string   `json:"adminNotes"`
}

func clone(r *Report) *Report {
	c := *r
	c.PhotoURLs = append([]string{}, r.PhotoURLs...)
	if r.PaymentDate != nil {
		d := *r.PaymentDate
		c.PaymentDate = &d
	}
	return &c
}
