package estimates

import "time"

// Status is the estimate lifecycle state.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusSent      Status = "sent"
	StatusAccepted  Status = "accepted"
	StatusRejected  Status = "rejected"
	StatusConverted Status = "converted"
)

// Estimate is a priced proposal for a prospective or existing client.
// Total is always recomputed from the other fields and the stored rate
// snapshot; it is never written directly.
type Estimate struct {
	ID          int64       `json:"id"`
	CompanyID   int64       `json:"company_id"`
	ClientName  string      `json:"client_name"`
	ClientEmail *string     `json:"client_email,omitempty"`
	ClientPhone *string     `json:"client_phone,omitempty"`
	Property    Property    `json:"property"`
	ServiceType ServiceType `json:"service_type"`
	Frequency   Frequency   `json:"frequency"`
	Extras      Extras      `json:"extras"`

	// HourlyRate is the tenant rate captured at creation time; later rate
	// changes never reprice this estimate.
	HourlyRate float64 `json:"hourly_rate"`
	Total      int64   `json:"total"`

	Status    Status    `json:"status"`
	CreatedBy int64     `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Editable reports whether the estimate may still be changed. Accepting or
// rejecting freezes it.
func (e *Estimate) Editable() bool {
	return e.Status == StatusDraft || e.Status == StatusSent
}
