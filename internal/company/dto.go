package company

// UpdateSettingsRequest carries tenant configuration changes. Nil fields are
// left untouched.
type UpdateSettingsRequest struct {
	Name           *string      `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	HourlyRate     *float64     `json:"hourly_rate,omitempty" validate:"omitempty,gt=0"`
	TaxRatePercent *float64     `json:"tax_rate_percent,omitempty" validate:"omitempty,gte=0,lte=100"`
	InvoiceMode    *InvoiceMode `json:"invoice_mode,omitempty" validate:"omitempty,oneof=manual automatic"`
	ExtraFees      *ExtraFees   `json:"extra_fees,omitempty"`
}

// CreateChecklistItemRequest adds a catalog entry.
type CreateChecklistItemRequest struct {
	Name         string  `json:"name" validate:"required,min=1,max=200"`
	Description  *string `json:"description,omitempty" validate:"omitempty,max=1000"`
	DisplayOrder int     `json:"display_order" validate:"gte=0"`
}

// UpdateChecklistItemRequest edits a catalog entry.
type UpdateChecklistItemRequest struct {
	Name         *string `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Description  *string `json:"description,omitempty" validate:"omitempty,max=1000"`
	Active       *bool   `json:"active,omitempty"`
	DisplayOrder *int    `json:"display_order,omitempty" validate:"omitempty,gte=0"`
}
