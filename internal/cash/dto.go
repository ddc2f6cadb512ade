package cash

// DisputeRequest rejects a pending collection. A reason is mandatory; the
// cleaner sees it in the dispute notification.
type DisputeRequest struct {
	Reason string `json:"reason" validate:"required,min=3,max=1000"`
}

// ListCollectionsRequest filters the collection listing.
type ListCollectionsRequest struct {
	CompanyID int64
	Status    *Status
	CleanerID *int64
	Limit     int
	Offset    int
}
