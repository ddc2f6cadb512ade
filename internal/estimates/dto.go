package estimates

// QuoteRequest prices a hypothetical job without persisting anything. The
// UI calls this on every input change for the live total.
type QuoteRequest struct {
	Property    Property    `json:"property" validate:"required"`
	ServiceType ServiceType `json:"service_type" validate:"required,oneof=standard deep move_out commercial"`
	Frequency   Frequency   `json:"frequency" validate:"required,oneof=one_time monthly biweekly weekly"`
	Extras      Extras      `json:"extras"`
}

// CreateEstimateRequest persists a draft estimate.
type CreateEstimateRequest struct {
	ClientName  string      `json:"client_name" validate:"required,min=1,max=200"`
	ClientEmail *string     `json:"client_email,omitempty" validate:"omitempty,email"`
	ClientPhone *string     `json:"client_phone,omitempty" validate:"omitempty,max=30"`
	Property    Property    `json:"property" validate:"required"`
	ServiceType ServiceType `json:"service_type" validate:"required,oneof=standard deep move_out commercial"`
	Frequency   Frequency   `json:"frequency" validate:"required,oneof=one_time monthly biweekly weekly"`
	Extras      Extras      `json:"extras"`
}

// UpdateEstimateRequest edits a draft or sent estimate; any change reprices
// it against the stored rate snapshot.
type UpdateEstimateRequest struct {
	ClientName  *string      `json:"client_name,omitempty" validate:"omitempty,min=1,max=200"`
	ClientEmail *string      `json:"client_email,omitempty" validate:"omitempty,email"`
	ClientPhone *string      `json:"client_phone,omitempty" validate:"omitempty,max=30"`
	Property    *Property    `json:"property,omitempty"`
	ServiceType *ServiceType `json:"service_type,omitempty" validate:"omitempty,oneof=standard deep move_out commercial"`
	Frequency   *Frequency   `json:"frequency,omitempty" validate:"omitempty,oneof=one_time monthly biweekly weekly"`
	Extras      *Extras      `json:"extras,omitempty"`
}

// ListEstimatesRequest filters the estimate listing.
type ListEstimatesRequest struct {
	CompanyID int64
	Status    *Status
	Search    string
	Limit     int
	Offset    int
}
