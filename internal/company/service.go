package company

import (
	"context"
	"fmt"
	"io"

	"github.com/maidflow/maidflow/internal/activity"
	"github.com/maidflow/maidflow/internal/objectstore"
	"github.com/maidflow/maidflow/internal/platform/httpx"
)

// Service owns tenant configuration reads and admin-gated mutations.
type Service struct {
	repo     Repository
	store    *objectstore.Store
	recorder *activity.Recorder
}

// NewService constructs the company service.
func NewService(repo Repository, store *objectstore.Store, recorder *activity.Recorder) *Service {
	return &Service{repo: repo, store: store, recorder: recorder}
}

// Settings returns the tenant's configuration snapshot.
func (s *Service) Settings(ctx context.Context, companyID int64) (*Settings, error) {
	return s.repo.GetSettings(ctx, companyID)
}

// UpdateSettings applies the non-nil fields of req.
func (s *Service) UpdateSettings(ctx context.Context, companyID int64, req UpdateSettingsRequest) (*Settings, error) {
	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.HourlyRate != nil {
		updates["hourly_rate"] = *req.HourlyRate
	}
	if req.TaxRatePercent != nil {
		updates["tax_rate_percent"] = *req.TaxRatePercent
	}
	if req.InvoiceMode != nil {
		updates["invoice_mode"] = string(*req.InvoiceMode)
	}
	if req.ExtraFees != nil {
		updates["extra_fees"] = *req.ExtraFees
	}
	if len(updates) == 0 {
		return nil, fmt.Errorf("%w: no fields to update", httpx.ErrValidation)
	}
	if err := s.repo.UpdateSettings(ctx, companyID, updates); err != nil {
		return nil, fmt.Errorf("update settings: %w", err)
	}
	settings, err := s.repo.GetSettings(ctx, companyID)
	if err != nil {
		return nil, err
	}
	s.recorder.Record(ctx, activity.ActionSettingsUpdated, "Company settings updated",
		activity.WithEntity("company", companyID, settings.Name))
	return settings, nil
}

// UploadLogo stores the logo image and records its URL.
func (s *Service) UploadLogo(ctx context.Context, companyID int64, ext string, file io.Reader) (string, error) {
	key, err := objectstore.Key(companyID, "company", "logo", ext)
	if err != nil {
		return "", fmt.Errorf("%w: %v", httpx.ErrValidation, err)
	}
	url, err := s.store.Put(ctx, key, file)
	if err != nil {
		return "", fmt.Errorf("store logo: %w", err)
	}
	if err := s.repo.SetLogoURL(ctx, companyID, url); err != nil {
		return "", fmt.Errorf("save logo url: %w", err)
	}
	s.recorder.Record(ctx, activity.ActionLogoUpdated, "Company logo updated",
		activity.WithEntity("company", companyID, ""))
	return url, nil
}

// Checklist returns the catalog; activeOnly narrows it to items offered on
// new jobs.
func (s *Service) Checklist(ctx context.Context, companyID int64, activeOnly bool) ([]ChecklistItem, error) {
	return s.repo.ListChecklist(ctx, companyID, activeOnly)
}

// CreateChecklistItem adds a catalog entry.
func (s *Service) CreateChecklistItem(ctx context.Context, companyID int64, req CreateChecklistItemRequest) (*ChecklistItem, error) {
	item := ChecklistItem{
		CompanyID:    companyID,
		Name:         req.Name,
		Description:  req.Description,
		Active:       true,
		DisplayOrder: req.DisplayOrder,
	}
	id, err := s.repo.InsertChecklistItem(ctx, item)
	if err != nil {
		return nil, fmt.Errorf("insert checklist item: %w", err)
	}
	created, err := s.repo.GetChecklistItem(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	s.recorder.Record(ctx, activity.ActionChecklistCreated,
		fmt.Sprintf("Checklist item %q added", created.Name),
		activity.WithEntity("checklist_item", created.ID, created.Name))
	return created, nil
}

// UpdateChecklistItem edits a catalog entry.
func (s *Service) UpdateChecklistItem(ctx context.Context, companyID, id int64, req UpdateChecklistItemRequest) (*ChecklistItem, error) {
	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Active != nil {
		updates["active"] = *req.Active
	}
	if req.DisplayOrder != nil {
		updates["display_order"] = *req.DisplayOrder
	}
	if len(updates) == 0 {
		return nil, fmt.Errorf("%w: no fields to update", httpx.ErrValidation)
	}
	if err := s.repo.UpdateChecklistItem(ctx, companyID, id, updates); err != nil {
		return nil, fmt.Errorf("update checklist item: %w", err)
	}
	item, err := s.repo.GetChecklistItem(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	s.recorder.Record(ctx, activity.ActionChecklistUpdated,
		fmt.Sprintf("Checklist item %q updated", item.Name),
		activity.WithEntity("checklist_item", item.ID, item.Name))
	return item, nil
}

// DeleteChecklistItem removes a catalog entry. Historical job snapshots keep
// the item by name.
func (s *Service) DeleteChecklistItem(ctx context.Context, companyID, id int64) error {
	item, err := s.repo.GetChecklistItem(ctx, companyID, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteChecklistItem(ctx, companyID, id); err != nil {
		return fmt.Errorf("delete checklist item: %w", err)
	}
	s.recorder.Record(ctx, activity.ActionChecklistDeleted,
		fmt.Sprintf("Checklist item %q removed", item.Name),
		activity.WithEntity("checklist_item", id, item.Name))
	return nil
}
