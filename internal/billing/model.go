package billing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status is the invoice lifecycle state. Transitions are one way:
// draft -> sent -> paid, with cancellation allowed before payment.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusSent      Status = "sent"
	StatusPaid      Status = "paid"
	StatusCancelled Status = "cancelled"
)

// Invoice bills one completed job. At most one invoice ever exists per
// job; regeneration is a no-op.
type Invoice struct {
	ID         int64  `json:"id"`
	CompanyID  int64  `json:"company_id"`
	JobID      int64  `json:"job_id"`
	ClientID   int64  `json:"client_id"`
	CleanerID  *int64 `json:"cleaner_id,omitempty"`
	LocationID *int64 `json:"location_id,omitempty"`
	Number     string `json:"number"`

	HoursBilled    float64 `json:"hours_billed"`
	HourlyRate     float64 `json:"hourly_rate"`
	Subtotal       float64 `json:"subtotal"`
	TaxRatePercent float64 `json:"tax_rate_percent"`
	TaxAmount      float64 `json:"tax_amount"`
	Total          float64 `json:"total"`

	Status    Status     `json:"status"`
	IssuedAt  time.Time  `json:"issued_at"`
	DueAt     time.Time  `json:"due_at"`
	SentAt    *time.Time `json:"sent_at,omitempty"`
	PaidAt    *time.Time `json:"paid_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// PaymentTermDays is how far out the due date sits from issuance.
const PaymentTermDays = 30

// NewNumber builds an invoice number of the form INV-20260823-a1b2c3.
// Numbers are unique per company; the date keys the batch it came from.
func NewNumber(at time.Time) string {
	return fmt.Sprintf("INV-%s-%s", at.UTC().Format("20060102"), uuid.NewString()[:6])
}

// ComputeAmounts derives subtotal, tax, and total from billed hours, the
// hourly rate, and the tenant tax percentage, rounded to cents.
func ComputeAmounts(hours, rate, taxRatePercent float64) (subtotal, tax, total float64) {
	sub := decimal.NewFromFloat(hours).Mul(decimal.NewFromFloat(rate)).Round(2)
	taxAmt := sub.Mul(decimal.NewFromFloat(taxRatePercent)).Div(decimal.NewFromInt(100)).Round(2)
	return sub.InexactFloat64(), taxAmt.InexactFloat64(), sub.Add(taxAmt).Round(2).InexactFloat64()
}
