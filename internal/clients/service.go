package clients

import (
	"context"
	"fmt"

	"github.com/maidflow/maidflow/internal/activity"
)

// Service owns client and location management.
type Service struct {
	repo     Repository
	recorder *activity.Recorder
}

// NewService constructs the client service.
func NewService(repo Repository, recorder *activity.Recorder) *Service {
	return &Service{repo: repo, recorder: recorder}
}

// Create adds a client.
func (s *Service) Create(ctx context.Context, companyID int64, req CreateClientRequest) (*Client, error) {
	id, err := s.repo.Insert(ctx, Client{
		CompanyID: companyID,
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Notes:     req.Notes,
		Active:    true,
	})
	if err != nil {
		return nil, fmt.Errorf("insert client: %w", err)
	}
	client, err := s.repo.Get(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	s.recorder.Record(ctx, activity.ActionClientCreated,
		fmt.Sprintf("Client %q created", client.Name),
		activity.WithEntity("client", client.ID, client.Name))
	return client, nil
}

// Update edits a client.
func (s *Service) Update(ctx context.Context, companyID, id int64, req UpdateClientRequest) (*Client, error) {
	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}
	if req.Active != nil {
		updates["active"] = *req.Active
	}
	if err := s.repo.Update(ctx, companyID, id, updates); err != nil {
		return nil, fmt.Errorf("update client: %w", err)
	}
	client, err := s.repo.Get(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	action := activity.ActionClientUpdated
	if req.Active != nil && !*req.Active {
		action = activity.ActionClientArchived
	}
	s.recorder.Record(ctx, action,
		fmt.Sprintf("Client %q updated", client.Name),
		activity.WithEntity("client", client.ID, client.Name))
	return client, nil
}

// Get returns a single client.
func (s *Service) Get(ctx context.Context, companyID, id int64) (*Client, error) {
	return s.repo.Get(ctx, companyID, id)
}

// List returns a filtered page of clients.
func (s *Service) List(ctx context.Context, req ListClientsRequest) ([]Client, int, error) {
	if req.Limit <= 0 {
		req.Limit = 50
	}
	return s.repo.List(ctx, req)
}

// Locations returns the serviced addresses for a client.
func (s *Service) Locations(ctx context.Context, companyID, clientID int64) ([]Location, error) {
	if _, err := s.repo.Get(ctx, companyID, clientID); err != nil {
		return nil, err
	}
	return s.repo.ListLocations(ctx, clientID)
}

// AddLocation attaches a serviced address to a client.
func (s *Service) AddLocation(ctx context.Context, companyID, clientID int64, req CreateLocationRequest) (*Location, error) {
	client, err := s.repo.Get(ctx, companyID, clientID)
	if err != nil {
		return nil, fmt.Errorf("verify client: %w", err)
	}
	id, err := s.repo.InsertLocation(ctx, Location{
		ClientID:   clientID,
		Label:      req.Label,
		Address:    req.Address,
		City:       req.City,
		Province:   req.Province,
		PostalCode: req.PostalCode,
	})
	if err != nil {
		return nil, fmt.Errorf("insert location: %w", err)
	}
	loc, err := s.repo.GetLocation(ctx, clientID, id)
	if err != nil {
		return nil, err
	}
	s.recorder.Record(ctx, activity.ActionLocationCreated,
		fmt.Sprintf("Location %q added for client %q", loc.Label, client.Name),
		activity.WithEntity("location", loc.ID, loc.Label))
	return loc, nil
}

// RemoveLocation deletes a serviced address.
func (s *Service) RemoveLocation(ctx context.Context, companyID, clientID, id int64) error {
	if _, err := s.repo.Get(ctx, companyID, clientID); err != nil {
		return err
	}
	loc, err := s.repo.GetLocation(ctx, clientID, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteLocation(ctx, clientID, id); err != nil {
		return fmt.Errorf("delete location: %w", err)
	}
	s.recorder.Record(ctx, activity.ActionLocationDeleted,
		fmt.Sprintf("Location %q removed", loc.Label),
		activity.WithEntity("location", id, loc.Label))
	return nil
}
