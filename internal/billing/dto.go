package billing

import "time"

// GenerateBatchRequest selects the jobs for a manual batch run. JobIDs is
// the admin's explicit selection from the billable listing; when empty the
// run sweeps every completed job in the optional date window.
type GenerateBatchRequest struct {
	From   *time.Time `json:"from,omitempty"`
	To     *time.Time `json:"to,omitempty"`
	JobIDs []int64    `json:"job_ids,omitempty" validate:"omitempty,dive,gt=0"`
}

// BatchSummary reports what a batch run did. Re-running the same selection
// yields created = 0 with every member counted in a skip bucket.
type BatchSummary struct {
	Created            int       `json:"created"`
	SkippedExisting    int       `json:"skipped_existing"`
	SkippedCash        int       `json:"skipped_cash"`
	SkippedBadDuration int       `json:"skipped_bad_duration"`
	Invoices           []Invoice `json:"invoices"`
}

// ListInvoicesRequest filters the invoice listing.
type ListInvoicesRequest struct {
	CompanyID int64
	Status    *Status
	ClientID  *int64
	Limit     int
	Offset    int
}
