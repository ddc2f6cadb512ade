// Package dashboard aggregates headline numbers for the landing screen:
// today's schedule, the week's completions, cash awaiting review, and
// outstanding invoices.
package dashboard

// CashSnapshot summarizes collections awaiting review.
type CashSnapshot struct {
	PendingCount  int     `json:"pending_count"`
	PendingAmount float64 `json:"pending_amount"`
}

// InvoiceSnapshot summarizes unpaid invoices (created or sent).
type InvoiceSnapshot struct {
	OpenCount int     `json:"open_count"`
	OpenTotal float64 `json:"open_total"`
}

// Summary is the full dashboard payload.
type Summary struct {
	JobsToday         int             `json:"jobs_today"`
	JobsCompletedWeek int             `json:"jobs_completed_week"`
	EstimatesAwaiting int             `json:"estimates_awaiting"`
	Cash              CashSnapshot    `json:"cash"`
	Invoices          InvoiceSnapshot `json:"invoices"`
}
