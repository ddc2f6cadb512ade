package clients

// CreateClientRequest adds a client.
type CreateClientRequest struct {
	Name  string  `json:"name" validate:"required,min=1,max=200"`
	Email *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone *string `json:"phone,omitempty" validate:"omitempty,max=30"`
	Notes *string `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// UpdateClientRequest edits a client; nil fields are untouched.
type UpdateClientRequest struct {
	Name   *string `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Email  *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone  *string `json:"phone,omitempty" validate:"omitempty,max=30"`
	Notes  *string `json:"notes,omitempty" validate:"omitempty,max=2000"`
	Active *bool   `json:"active,omitempty"`
}

// CreateLocationRequest adds a serviced address to a client.
type CreateLocationRequest struct {
	Label      string `json:"label" validate:"required,min=1,max=100"`
	Address    string `json:"address" validate:"required,min=1,max=300"`
	City       string `json:"city" validate:"required,min=1,max=100"`
	Province   string `json:"province" validate:"required,len=2"`
	PostalCode string `json:"postal_code" validate:"required,max=10"`
}

// ListClientsRequest filters the client listing.
type ListClientsRequest struct {
	CompanyID int64
	Search    string
	Active    *bool
	Limit     int
	Offset    int
}
