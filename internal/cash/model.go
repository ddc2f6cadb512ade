package cash

import "time"

// Status is the collection lifecycle state. pending -> approved -> settled,
// with pending -> disputed as the rejection branch. No transition ever
// runs backwards.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusDisputed Status = "disputed"
	StatusSettled  Status = "settled"
)

// Collection tracks cash taken at the door until payroll settles it.
type Collection struct {
	ID        int64   `json:"id"`
	CompanyID int64   `json:"company_id"`
	JobID     int64   `json:"job_id"`
	CleanerID *int64  `json:"cleaner_id,omitempty"`
	Amount    float64 `json:"amount"`
	Receiver  string  `json:"receiver"`
	Status    Status  `json:"status"`

	DisputeReason *string    `json:"dispute_reason,omitempty"`
	ReviewedBy    *int64     `json:"reviewed_by,omitempty"`
	ReviewedAt    *time.Time `json:"reviewed_at,omitempty"`
	SettledAt     *time.Time `json:"settled_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Receipt is one non-cash payment captured at job completion.
type Receipt struct {
	ID         int64     `json:"id"`
	CompanyID  int64     `json:"company_id"`
	JobID      int64     `json:"job_id"`
	Method     string    `json:"method"`
	Amount     float64   `json:"amount"`
	ReceivedBy string    `json:"received_by"`
	CreatedAt  time.Time `json:"created_at"`
}
