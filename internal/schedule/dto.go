package schedule

import "time"

// CreateJobRequest schedules a new visit, either standalone or from an
// accepted estimate.
type CreateJobRequest struct {
	ClientID    int64     `json:"client_id" validate:"required,gt=0"`
	LocationID  *int64    `json:"location_id,omitempty" validate:"omitempty,gt=0"`
	CleanerID   *int64    `json:"cleaner_id,omitempty" validate:"omitempty,gt=0"`
	EstimateID  *int64    `json:"estimate_id,omitempty" validate:"omitempty,gt=0"`
	ScheduledAt time.Time `json:"scheduled_at" validate:"required"`
	Duration    string    `json:"duration" validate:"required,max=20"`
}

// RescheduleRequest moves an open job to a new slot.
type RescheduleRequest struct {
	ScheduledAt time.Time `json:"scheduled_at" validate:"required"`
	Duration    *string   `json:"duration,omitempty" validate:"omitempty,max=20"`
}

// AssignRequest sets or clears the cleaner on an open job.
type AssignRequest struct {
	CleanerID   *int64  `json:"cleaner_id" validate:"omitempty,gt=0"`
	CleanerName *string `json:"cleaner_name,omitempty" validate:"omitempty,max=200"`
}

// ChecklistResult is one submitted done-flag, matched to the tenant
// catalog by name.
type ChecklistResult struct {
	Name string `json:"name" validate:"required,max=200"`
	Done bool   `json:"done"`
}

// CompleteJobRequest closes out a visit. Payment is mandatory; the cash
// receiver is mandatory only when the method is cash.
type CompleteJobRequest struct {
	PaymentMethod PaymentMethod     `json:"payment_method" validate:"required"`
	PaymentAmount float64           `json:"payment_amount" validate:"required"`
	CashReceiver  *CashReceiver     `json:"cash_receiver,omitempty"`
	Notes         *string           `json:"notes,omitempty" validate:"omitempty,max=2000"`
	Checklist     []ChecklistResult `json:"checklist,omitempty" validate:"dive"`
}

// ListJobsRequest filters the schedule listing.
type ListJobsRequest struct {
	CompanyID int64
	Status    *Status
	ClientID  *int64
	CleanerID *int64
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
}
