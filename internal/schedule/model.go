package schedule

import "time"

// Status is the job lifecycle state.
type Status string

const (
	StatusScheduled  Status = "scheduled"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// PaymentMethod is the closed set of ways a completed job can be paid.
type PaymentMethod string

const (
	PaymentETransfer PaymentMethod = "e_transfer"
	PaymentCash      PaymentMethod = "cash"
)

// CashReceiver records who physically took cash at the door.
type CashReceiver string

const (
	ReceiverCleaner CashReceiver = "cleaner"
	ReceiverCompany CashReceiver = "company"
)

// ChecklistEntry pairs a catalog item name with its completion flag. The
// snapshot is by value: later catalog edits never rewrite it.
type ChecklistEntry struct {
	Name string `json:"name"`
	Done bool   `json:"done"`
}

// Job is one scheduled cleaning visit. Payment fields are nil until the
// job completes; completion is refused without a valid payment record.
type Job struct {
	ID         int64  `json:"id"`
	CompanyID  int64  `json:"company_id"`
	ClientID   int64  `json:"client_id"`
	LocationID *int64 `json:"location_id,omitempty"`
	CleanerID  *int64 `json:"cleaner_id,omitempty"`
	EstimateID *int64 `json:"estimate_id,omitempty"`

	ScheduledAt time.Time `json:"scheduled_at"`
	Duration    string    `json:"duration"`
	Status      Status    `json:"status"`

	Checklist    []ChecklistEntry `json:"checklist,omitempty"`
	BeforePhotos []string         `json:"before_photos,omitempty"`
	AfterPhotos  []string         `json:"after_photos,omitempty"`
	Notes        *string          `json:"notes,omitempty"`

	PaymentMethod *PaymentMethod `json:"payment_method,omitempty"`
	PaymentAmount *float64       `json:"payment_amount,omitempty"`
	CashReceiver  *CashReceiver  `json:"cash_receiver,omitempty"`

	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedBy   int64      `json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Open reports whether the job can still move to completed or cancelled.
func (j *Job) Open() bool {
	return j.Status == StatusScheduled || j.Status == StatusInProgress
}
