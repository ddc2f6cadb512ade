package activity

import "time"

// Action tags form a closed enum. Adding a tag here is the only way a new
// action enters the log.
type Action string

const (
	ActionClientCreated  Action = "client.created"
	ActionClientUpdated  Action = "client.updated"
	ActionClientArchived Action = "client.archived"

	ActionLocationCreated Action = "location.created"
	ActionLocationUpdated Action = "location.updated"
	ActionLocationDeleted Action = "location.deleted"

	ActionEstimateCreated   Action = "estimate.created"
	ActionEstimateUpdated   Action = "estimate.updated"
	ActionEstimateSent      Action = "estimate.sent"
	ActionEstimateAccepted  Action = "estimate.accepted"
	ActionEstimateRejected  Action = "estimate.rejected"
	ActionEstimateConverted Action = "estimate.converted"

	ActionJobCreated       Action = "job.created"
	ActionJobAssigned      Action = "job.assigned"
	ActionJobStarted       Action = "job.started"
	ActionJobCompleted     Action = "job.completed"
	ActionJobCancelled     Action = "job.cancelled"
	ActionJobRescheduled   Action = "job.rescheduled"
	ActionJobPhotoUploaded Action = "job.photo_uploaded"

	ActionPaymentRecorded Action = "payment.recorded"

	ActionCashCollected Action = "cash.collected"
	ActionCashApproved  Action = "cash.approved"
	ActionCashDisputed  Action = "cash.disputed"
	ActionCashSettled   Action = "cash.settled"

	ActionInvoiceCreated        Action = "invoice.created"
	ActionInvoiceSent           Action = "invoice.sent"
	ActionInvoicePaid           Action = "invoice.paid"
	ActionInvoiceCancelled      Action = "invoice.cancelled"
	ActionInvoiceBatchGenerated Action = "invoice.batch_generated"

	ActionSettingsUpdated  Action = "settings.updated"
	ActionLogoUpdated      Action = "logo.updated"
	ActionChecklistCreated Action = "checklist.item_created"
	ActionChecklistUpdated Action = "checklist.item_updated"
	ActionChecklistDeleted Action = "checklist.item_deleted"

	ActionPayrollSettled Action = "payroll.settled"
)

var knownActions = map[Action]struct{}{
	ActionClientCreated: {}, ActionClientUpdated: {}, ActionClientArchived: {},
	ActionLocationCreated: {}, ActionLocationUpdated: {}, ActionLocationDeleted: {},
	ActionEstimateCreated: {}, ActionEstimateUpdated: {}, ActionEstimateSent: {},
	ActionEstimateAccepted: {}, ActionEstimateRejected: {}, ActionEstimateConverted: {},
	ActionJobCreated: {}, ActionJobAssigned: {}, ActionJobStarted: {},
	ActionJobCompleted: {}, ActionJobCancelled: {}, ActionJobRescheduled: {},
	ActionJobPhotoUploaded: {},
	ActionPaymentRecorded:  {},
	ActionCashCollected:    {}, ActionCashApproved: {}, ActionCashDisputed: {}, ActionCashSettled: {},
	ActionInvoiceCreated: {}, ActionInvoiceSent: {}, ActionInvoicePaid: {},
	ActionInvoiceCancelled: {}, ActionInvoiceBatchGenerated: {},
	ActionSettingsUpdated: {}, ActionLogoUpdated: {},
	ActionChecklistCreated: {}, ActionChecklistUpdated: {}, ActionChecklistDeleted: {},
	ActionPayrollSettled: {},
}

// Valid reports whether the tag belongs to the closed enum.
func (a Action) Valid() bool {
	_, ok := knownActions[a]
	return ok
}

// Entry is one append-only audit record. Entries are never mutated or
// deleted by the application.
type Entry struct {
	ID         int64     `json:"id"`
	CompanyID  int64     `json:"company_id"`
	ActorID    int64     `json:"actor_id"`
	ActorName  string    `json:"actor_name"`
	Action     Action    `json:"action"`
	EntityType string    `json:"entity_type,omitempty"`
	EntityID   string    `json:"entity_id,omitempty"`
	EntityName string    `json:"entity_name,omitempty"`
	Detail     string    `json:"detail"`
	CreatedAt  time.Time `json:"created_at"`
}
