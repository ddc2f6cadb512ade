package company

import "time"

// InvoiceMode selects how invoices are produced for completed jobs.
type InvoiceMode string

const (
	// InvoiceModeManual leaves generation to an admin reviewing completed jobs.
	InvoiceModeManual InvoiceMode = "manual"
	// InvoiceModeAutomatic generates an invoice as soon as a job completes.
	InvoiceModeAutomatic InvoiceMode = "automatic"
)

// ExtraFees is the tenant's fee schedule for the seven optional service
// extras, in dollars.
type ExtraFees struct {
	Pets          float64 `json:"pets"`
	Children      float64 `json:"children"`
	GreenCleaning float64 `json:"green_cleaning"`
	Fridge        float64 `json:"fridge"`
	Oven          float64 `json:"oven"`
	Cabinets      float64 `json:"cabinets"`
	Windows       float64 `json:"windows"`
}

// Settings is the per-tenant configuration snapshot. Pricing and invoicing
// take a Settings value at call time; a later rate change never rewrites
// persisted estimates or invoices.
type Settings struct {
	CompanyID      int64       `json:"company_id"`
	Name           string      `json:"name"`
	LogoURL        *string     `json:"logo_url,omitempty"`
	HourlyRate     float64     `json:"hourly_rate"`
	TaxRatePercent float64     `json:"tax_rate_percent"`
	InvoiceMode    InvoiceMode `json:"invoice_mode"`
	ExtraFees      ExtraFees   `json:"extra_fees"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// ChecklistItem is a tenant-level checklist catalog entry. Jobs snapshot
// items by name, so editing the catalog never alters historical records.
type ChecklistItem struct {
	ID           int64     `json:"id"`
	CompanyID    int64     `json:"company_id"`
	Name         string    `json:"name"`
	Description  *string   `json:"description,omitempty"`
	Active       bool      `json:"active"`
	DisplayOrder int       `json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
