package activity

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/maidflow/maidflow/internal/auth"
)

// Recorder is the single append path used by every mutating operation.
// Recording never fails the caller: a write error is logged and dropped so
// the business operation that already committed stays committed.
type Recorder struct {
	repo   Repository
	logger *slog.Logger
}

// NewRecorder constructs a Recorder.
func NewRecorder(repo Repository, logger *slog.Logger) *Recorder {
	return &Recorder{repo: repo, logger: logger}
}

// Record appends one entry attributed to the actor in ctx.
func (r *Recorder) Record(ctx context.Context, action Action, detail string, opts ...Option) {
	if r == nil || r.repo == nil {
		return
	}
	if !action.Valid() {
		if r.logger != nil {
			r.logger.Error("activity: unknown action tag", slog.String("action", string(action)))
		}
		return
	}
	entry := Entry{Action: action, Detail: detail}
	if actor, ok := auth.ActorFromContext(ctx); ok {
		entry.CompanyID = actor.CompanyID
		entry.ActorID = actor.ID
		entry.ActorName = actor.Name
	}
	for _, opt := range opts {
		opt(&entry)
	}
	if entry.CompanyID == 0 {
		if r.logger != nil {
			r.logger.Error("activity: entry without company scope", slog.String("action", string(action)))
		}
		return
	}
	if err := r.repo.Insert(ctx, entry); err != nil && r.logger != nil {
		r.logger.Error("activity: append failed",
			slog.String("action", string(action)), slog.Any("error", err))
	}
}

// Option adjusts the entry before it is appended.
type Option func(*Entry)

// WithEntity attaches the affected entity reference.
func WithEntity(entityType string, entityID int64, entityName string) Option {
	return func(e *Entry) {
		e.EntityType = entityType
		e.EntityID = strconv.FormatInt(entityID, 10)
		e.EntityName = entityName
	}
}

// WithCompany scopes the entry explicitly. Worker paths have no actor in
// context and use this instead.
func WithCompany(companyID int64) Option {
	return func(e *Entry) { e.CompanyID = companyID }
}

// WithActor attributes the entry explicitly (worker paths).
func WithActor(id int64, name string) Option {
	return func(e *Entry) {
		e.ActorID = id
		e.ActorName = name
	}
}
