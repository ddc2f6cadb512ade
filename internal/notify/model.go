package notify

import (
	"context"
	"time"
)

// Kind classifies a notification for the client UI.
type Kind string

const (
	KindInvoiceCreated Kind = "invoice_created"
	KindInvoicePaid    Kind = "invoice_paid"
	KindCashApproved   Kind = "cash_approved"
	KindCashDisputed   Kind = "cash_disputed"
	KindPayrollSettled Kind = "payroll_settled"
)

// Message is the payload handed to the background worker for delivery.
type Message struct {
	CompanyID  int64  `json:"company_id"`
	UserID     int64  `json:"user_id"`
	Kind       Kind   `json:"kind"`
	Title      string `json:"title"`
	Body       string `json:"body"`
	EntityType string `json:"entity_type,omitempty"`
	EntityID   int64  `json:"entity_id,omitempty"`
}

// Enqueuer hands messages to the background worker. Callers treat enqueue
// failures as non-fatal; the triggering operation already committed.
type Enqueuer interface {
	EnqueueNotify(ctx context.Context, msg Message) error
}

// Notification is one delivered in-app message.
type Notification struct {
	ID         int64      `json:"id"`
	CompanyID  int64      `json:"company_id"`
	UserID     int64      `json:"user_id"`
	Kind       Kind       `json:"kind"`
	Title      string     `json:"title"`
	Body       string     `json:"body"`
	EntityType string     `json:"entity_type,omitempty"`
	EntityID   int64      `json:"entity_id,omitempty"`
	ReadAt     *time.Time `json:"read_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}
