package activity

import (
	"context"
	"fmt"

	"github.com/maidflow/maidflow/internal/shared"
)

// Result wraps a timeline page with paging metadata.
type Result struct {
	Entries []Entry           `json:"entries"`
	Paging  shared.Pagination `json:"paging"`
}

// Service coordinates activity timeline reads.
type Service struct {
	repo Repository
}

// NewService constructs the activity read service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// TimelineFilters narrow the activity query.
type TimelineFilters struct {
	Search   string
	Action   string
	From     string
	To       string
	Page     int
	PageSize int
}

// Timeline returns one page of entries matching the filters.
func (s *Service) Timeline(ctx context.Context, companyID int64, filters TimelineFilters) (Result, error) {
	if s.repo == nil {
		return Result{}, fmt.Errorf("activity: repository not configured")
	}
	pageSize := filters.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	page := filters.Page
	if page <= 0 {
		page = 1
	}

	req := ListRequest{
		CompanyID: companyID,
		Search:    filters.Search,
		Limit:     pageSize,
		Offset:    (page - 1) * pageSize,
	}
	if filters.Action != "" {
		action := Action(filters.Action)
		if !action.Valid() {
			return Result{}, fmt.Errorf("activity: unknown action %q", filters.Action)
		}
		req.Action = &action
	}
	var err error
	if req.From, err = parseDay(filters.From); err != nil {
		return Result{}, err
	}
	if req.To, err = parseDay(filters.To); err != nil {
		return Result{}, err
	}

	entries, total, err := s.repo.List(ctx, req)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Entries: entries,
		Paging:  shared.NewPagination(page, pageSize, total),
	}, nil
}
