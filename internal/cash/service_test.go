package cash

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maidflow/maidflow/internal/activity"
	"github.com/maidflow/maidflow/internal/auth"
	"github.com/maidflow/maidflow/internal/notify"
	"github.com/maidflow/maidflow/internal/platform/httpx"
)

type memCollectionRepo struct {
	collections map[int64]*Collection
	nextID      int64
}

func newMemCollectionRepo() *memCollectionRepo {
	return &memCollectionRepo{collections: map[int64]*Collection{}, nextID: 1}
}

func (m *memCollectionRepo) add(c Collection) int64 {
	c.ID = m.nextID
	m.nextID++
	c.CreatedAt = time.Now()
	m.collections[c.ID] = &c
	return c.ID
}

func (m *memCollectionRepo) Get(_ context.Context, companyID, id int64) (*Collection, error) {
	c, ok := m.collections[id]
	if !ok || c.CompanyID != companyID {
		return nil, httpx.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *memCollectionRepo) List(_ context.Context, _ ListCollectionsRequest) ([]Collection, int, error) {
	return nil, 0, nil
}

func (m *memCollectionRepo) Approve(_ context.Context, companyID, id, reviewerID int64) error {
	c, ok := m.collections[id]
	if !ok || c.CompanyID != companyID || c.Status != StatusPending {
		return httpx.ErrInvalidStatus
	}
	now := time.Now()
	c.Status = StatusApproved
	c.ReviewedBy = &reviewerID
	c.ReviewedAt = &now
	return nil
}

func (m *memCollectionRepo) Dispute(_ context.Context, companyID, id, reviewerID int64, reason string) error {
	c, ok := m.collections[id]
	if !ok || c.CompanyID != companyID || c.Status != StatusPending {
		return httpx.ErrInvalidStatus
	}
	now := time.Now()
	c.Status = StatusDisputed
	c.DisputeReason = &reason
	c.ReviewedBy = &reviewerID
	c.ReviewedAt = &now
	return nil
}

func (m *memCollectionRepo) SettleApproved(_ context.Context, companyID, cleanerID int64, upTo time.Time) (int64, error) {
	var n int64
	now := time.Now()
	for _, c := range m.collections {
		if c.CompanyID == companyID && c.CleanerID != nil && *c.CleanerID == cleanerID &&
			c.Status == StatusApproved && c.CreatedAt.Before(upTo) {
			c.Status = StatusSettled
			c.SettledAt = &now
			n++
		}
	}
	return n, nil
}

func (m *memCollectionRepo) ApprovedTotal(_ context.Context, companyID, cleanerID int64, from, to time.Time) (float64, error) {
	var total float64
	for _, c := range m.collections {
		if c.CompanyID == companyID && c.CleanerID != nil && *c.CleanerID == cleanerID &&
			c.Status == StatusApproved && c.Receiver == "cleaner" &&
			!c.CreatedAt.Before(from) && c.CreatedAt.Before(to) {
			total += c.Amount
		}
	}
	return total, nil
}

func (m *memCollectionRepo) ListReceipts(_ context.Context, _ int64, _, _ int) ([]Receipt, int, error) {
	return nil, 0, nil
}

type fakeNotifier struct {
	messages []notify.Message
}

func (f *fakeNotifier) EnqueueNotify(_ context.Context, msg notify.Message) error {
	f.messages = append(f.messages, msg)
	return nil
}

type memActivityRepo struct {
	entries []activity.Entry
}

func (m *memActivityRepo) Insert(_ context.Context, e activity.Entry) error {
	m.entries = append(m.entries, e)
	return nil
}

func (m *memActivityRepo) List(_ context.Context, _ activity.ListRequest) ([]activity.Entry, int, error) {
	return m.entries, len(m.entries), nil
}

func newCashFixture() (*Service, *memCollectionRepo, *fakeNotifier) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := newMemCollectionRepo()
	notifier := &fakeNotifier{}
	svc := NewService(logger, repo, notifier, activity.NewRecorder(&memActivityRepo{}, logger))
	return svc, repo, notifier
}

func reviewerContext() context.Context {
	return auth.ContextWithActor(context.Background(), auth.Actor{
		ID: 2, Name: "Marin Manager", Role: auth.RoleManager, CompanyID: 1,
	})
}

func pendingCollection(cleanerID int64, amount float64) Collection {
	return Collection{
		CompanyID: 1, JobID: 5, CleanerID: &cleanerID,
		Amount: amount, Receiver: "cleaner", Status: StatusPending,
	}
}

func TestApprovePendingCollection(t *testing.T) {
	svc, repo, notifier := newCashFixture()
	id := repo.add(pendingCollection(7, 140))

	c, err := svc.Approve(reviewerContext(), 1, id)
	require.NoError(t, err)

	assert.Equal(t, StatusApproved, c.Status)
	require.NotNil(t, c.ReviewedBy)
	assert.Equal(t, int64(2), *c.ReviewedBy)
	assert.NotNil(t, c.ReviewedAt)

	require.Len(t, notifier.messages, 1)
	assert.Equal(t, notify.KindCashApproved, notifier.messages[0].Kind)
	assert.Equal(t, int64(7), notifier.messages[0].UserID)
}

func TestApproveIsNotRepeatable(t *testing.T) {
	svc, repo, _ := newCashFixture()
	id := repo.add(pendingCollection(7, 140))

	_, err := svc.Approve(reviewerContext(), 1, id)
	require.NoError(t, err)

	_, err = svc.Approve(reviewerContext(), 1, id)
	assert.ErrorIs(t, err, httpx.ErrInvalidStatus)
}

func TestDisputeRecordsReason(t *testing.T) {
	svc, repo, notifier := newCashFixture()
	id := repo.add(pendingCollection(7, 95))

	c, err := svc.Dispute(reviewerContext(), 1, id, DisputeRequest{Reason: "amount does not match the job"})
	require.NoError(t, err)

	assert.Equal(t, StatusDisputed, c.Status)
	require.NotNil(t, c.DisputeReason)
	assert.Equal(t, "amount does not match the job", *c.DisputeReason)

	require.Len(t, notifier.messages, 1)
	assert.Equal(t, notify.KindCashDisputed, notifier.messages[0].Kind)
}

func TestDisputeRequiresPending(t *testing.T) {
	svc, repo, _ := newCashFixture()
	id := repo.add(pendingCollection(7, 95))

	_, err := svc.Dispute(reviewerContext(), 1, id, DisputeRequest{Reason: "first dispute"})
	require.NoError(t, err)

	_, err = svc.Dispute(reviewerContext(), 1, id, DisputeRequest{Reason: "second dispute"})
	assert.ErrorIs(t, err, httpx.ErrInvalidStatus)
}

func TestApproveUnknownCollection(t *testing.T) {
	svc, _, _ := newCashFixture()
	_, err := svc.Approve(reviewerContext(), 1, 999)
	assert.ErrorIs(t, err, httpx.ErrInvalidStatus)
}
