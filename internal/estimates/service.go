package estimates

import (
	"context"
	"fmt"

	"github.com/maidflow/maidflow/internal/activity"
	"github.com/maidflow/maidflow/internal/company"
	"github.com/maidflow/maidflow/internal/platform/httpx"
)

// SettingsProvider supplies the tenant configuration snapshot at call time.
type SettingsProvider interface {
	Settings(ctx context.Context, companyID int64) (*company.Settings, error)
}

// Service owns estimate pricing and lifecycle.
type Service struct {
	repo     Repository
	settings SettingsProvider
	recorder *activity.Recorder
}

// NewService constructs the estimate service.
func NewService(repo Repository, settings SettingsProvider, recorder *activity.Recorder) *Service {
	return &Service{repo: repo, settings: settings, recorder: recorder}
}

// Quote prices a hypothetical job against the tenant's current rates
// without persisting anything.
func (s *Service) Quote(ctx context.Context, companyID int64, req QuoteRequest) (Quote, error) {
	settings, err := s.settings.Settings(ctx, companyID)
	if err != nil {
		return Quote{}, fmt.Errorf("load settings: %w", err)
	}
	return CalculateQuote(req.Property, req.ServiceType, req.Frequency, req.Extras,
		settings.HourlyRate, settings.ExtraFees), nil
}

// Create persists a draft estimate, snapshotting the tenant's current
// hourly rate so later rate changes never reprice it.
func (s *Service) Create(ctx context.Context, companyID, createdBy int64, req CreateEstimateRequest) (*Estimate, error) {
	settings, err := s.settings.Settings(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	quote := CalculateQuote(req.Property, req.ServiceType, req.Frequency, req.Extras,
		settings.HourlyRate, settings.ExtraFees)

	estimate := Estimate{
		CompanyID:   companyID,
		ClientName:  req.ClientName,
		ClientEmail: req.ClientEmail,
		ClientPhone: req.ClientPhone,
		Property:    req.Property,
		ServiceType: req.ServiceType,
		Frequency:   req.Frequency,
		Extras:      req.Extras,
		HourlyRate:  settings.HourlyRate,
		Total:       quote.Total,
		Status:      StatusDraft,
		CreatedBy:   createdBy,
	}
	id, err := s.repo.Insert(ctx, estimate)
	if err != nil {
		return nil, fmt.Errorf("insert estimate: %w", err)
	}
	created, err := s.repo.Get(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	s.recorder.Record(ctx, activity.ActionEstimateCreated,
		fmt.Sprintf("Estimate for %q created at $%d", created.ClientName, created.Total),
		activity.WithEntity("estimate", created.ID, created.ClientName))
	return created, nil
}

// Update edits an estimate that has not been accepted or rejected and
// recomputes the total from the stored rate snapshot and the tenant's
// current fee schedule.
func (s *Service) Update(ctx context.Context, companyID, id int64, req UpdateEstimateRequest) (*Estimate, error) {
	existing, err := s.repo.Get(ctx, companyID, id)
	if err != nil {
		return nil, fmt.Errorf("get estimate: %w", err)
	}
	if !existing.Editable() {
		return nil, fmt.Errorf("%w: only draft or sent estimates can be edited", httpx.ErrInvalidStatus)
	}

	if req.ClientName != nil {
		existing.ClientName = *req.ClientName
	}
	if req.ClientEmail != nil {
		existing.ClientEmail = req.ClientEmail
	}
	if req.ClientPhone != nil {
		existing.ClientPhone = req.ClientPhone
	}
	if req.Property != nil {
		existing.Property = *req.Property
	}
	if req.ServiceType != nil {
		existing.ServiceType = *req.ServiceType
	}
	if req.Frequency != nil {
		existing.Frequency = *req.Frequency
	}
	if req.Extras != nil {
		existing.Extras = *req.Extras
	}

	settings, err := s.settings.Settings(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	quote := CalculateQuote(existing.Property, existing.ServiceType, existing.Frequency,
		existing.Extras, existing.HourlyRate, settings.ExtraFees)
	existing.Total = quote.Total

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, fmt.Errorf("update estimate: %w", err)
	}
	updated, err := s.repo.Get(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	s.recorder.Record(ctx, activity.ActionEstimateUpdated,
		fmt.Sprintf("Estimate for %q repriced to $%d", updated.ClientName, updated.Total),
		activity.WithEntity("estimate", updated.ID, updated.ClientName))
	return updated, nil
}

// Send marks a draft estimate as sent to the client.
func (s *Service) Send(ctx context.Context, companyID, id int64) (*Estimate, error) {
	return s.transition(ctx, companyID, id, StatusDraft, StatusSent, activity.ActionEstimateSent, "sent")
}

// Accept marks a sent estimate as accepted.
func (s *Service) Accept(ctx context.Context, companyID, id int64) (*Estimate, error) {
	return s.transition(ctx, companyID, id, StatusSent, StatusAccepted, activity.ActionEstimateAccepted, "accepted")
}

// Reject marks a sent estimate as rejected.
func (s *Service) Reject(ctx context.Context, companyID, id int64) (*Estimate, error) {
	return s.transition(ctx, companyID, id, StatusSent, StatusRejected, activity.ActionEstimateRejected, "rejected")
}

// MarkConverted records that a scheduled job was created from an accepted
// estimate. Called by the scheduling service.
func (s *Service) MarkConverted(ctx context.Context, companyID, id int64) error {
	if err := s.repo.UpdateStatus(ctx, companyID, id, StatusAccepted, StatusConverted); err != nil {
		return fmt.Errorf("convert estimate: %w", err)
	}
	s.recorder.Record(ctx, activity.ActionEstimateConverted,
		"Estimate converted to scheduled job",
		activity.WithEntity("estimate", id, ""))
	return nil
}

// Get returns a single estimate.
func (s *Service) Get(ctx context.Context, companyID, id int64) (*Estimate, error) {
	return s.repo.Get(ctx, companyID, id)
}

// List returns a filtered page of estimates.
func (s *Service) List(ctx context.Context, req ListEstimatesRequest) ([]Estimate, int, error) {
	if req.Limit <= 0 {
		req.Limit = 50
	}
	return s.repo.List(ctx, req)
}

func (s *Service) transition(ctx context.Context, companyID, id int64, from, to Status, action activity.Action, verb string) (*Estimate, error) {
	if err := s.repo.UpdateStatus(ctx, companyID, id, from, to); err != nil {
		return nil, fmt.Errorf("%s estimate: %w", verb, err)
	}
	estimate, err := s.repo.Get(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	s.recorder.Record(ctx, action,
		fmt.Sprintf("Estimate for %q %s", estimate.ClientName, verb),
		activity.WithEntity("estimate", estimate.ID, estimate.ClientName))
	return estimate, nil
}
