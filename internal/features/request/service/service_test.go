package service

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/amfitom1ne123-maker/UV/internal/common/errors"
	"github.com/amfitom1ne123-maker/UV/internal/features/request/models"
	"github.com/amfitom1ne123-maker/UV/internal/status"
)

type memoryRequestRepo struct {
	mu       sync.Mutex
	requests map[string]models.Request
}

func newMemoryRequestRepo() *memoryRequestRepo {
	return &memoryRequestRepo{requests: make(map[string]models.Request)}
}

func (r *memoryRequestRepo) Create(ctx context.Context, request *models.Request) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests[request.ID] = *request
	return nil
}

func (r *memoryRequestRepo) GetByID(ctx context.Context, id string) (*models.Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok {
		return nil, apperrors.NewRequestNotFoundError(id)
	}
	return &req, nil
}

func (r *memoryRequestRepo) Update(ctx context.Context, request *models.Request) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests[request.ID] = *request
	return nil
}

func (r *memoryRequestRepo) ListByUser(ctx context.Context, tgID int64) ([]*models.Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Request
	for _, req := range r.requests {
		if req.TgID == tgID {
			req := req
			out = append(out, &req)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type memoryMessageRepo struct {
	mu       sync.Mutex
	messages []models.RequestMessage
}

func newMemoryMessageRepo() *memoryMessageRepo {
	return &memoryMessageRepo{}
}

func (r *memoryMessageRepo) CreateMessage(ctx context.Context, message *models.RequestMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, *message)
	return nil
}

func (r *memoryMessageRepo) ListMessages(ctx context.Context, requestID string) ([]*models.RequestMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.RequestMessage
	for _, msg := range r.messages {
		if msg.RequestID == requestID {
			msg := msg
			out = append(out, &msg)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

type staffStub struct {
	roles map[int64][]string
}

func (s *staffStub) StaffRoles(ctx context.Context, tgID int64) ([]string, error) {
	return s.roles[tgID], nil
}

const (
	residentID = int64(100)
	operatorID = int64(200)
)

func newService(repo *memoryRequestRepo) RequestService {
	return NewRequestService(repo, newMemoryMessageRepo(), &staffStub{roles: map[int64][]string{
		operatorID: {"operator"},
	}})
}

func createRequest(t *testing.T, svc RequestService, tgID int64) *models.Request {
	t.Helper()
	req, err := svc.Create(context.Background(), tgID, models.RequestCreate{
		Category: "plumbing",
		Unit:     "B-204",
		Details:  "leaking sink",
	})
	require.NoError(t, err)
	return req
}

func TestCreate(t *testing.T) {
	svc := newService(newMemoryRequestRepo())

	req := createRequest(t, svc, residentID)
	assert.NotEmpty(t, req.ID)
	assert.Equal(t, status.Pending, req.Status)
	assert.Equal(t, residentID, req.TgID)
	assert.Nil(t, req.PreferredTime)

	t.Run("category required", func(t *testing.T) {
		_, err := svc.Create(context.Background(), residentID, models.RequestCreate{Category: "  "})
		require.Error(t, err)
		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrCodeValidation, appErr.Code)
	})

	t.Run("preferred time parsed", func(t *testing.T) {
		req, err := svc.Create(context.Background(), residentID, models.RequestCreate{
			Category:      "cleaning",
			PreferredTime: "2026-09-01T10:00:00Z",
		})
		require.NoError(t, err)
		require.NotNil(t, req.PreferredTime)
		assert.Equal(t, time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC), req.PreferredTime.UTC())
	})

	t.Run("garbage preferred time dropped", func(t *testing.T) {
		req, err := svc.Create(context.Background(), residentID, models.RequestCreate{
			Category:      "cleaning",
			PreferredTime: "tomorrow morning",
		})
		require.NoError(t, err)
		assert.Nil(t, req.PreferredTime)
	})
}

func TestListMine_NewestFirst(t *testing.T) {
	repo := newMemoryRequestRepo()
	svc := newService(repo)

	base := time.Now().UTC()
	for i, id := range []string{"old", "mid", "new"} {
		require.NoError(t, repo.Create(context.Background(), &models.Request{
			ID: id, TgID: residentID, Status: status.Pending,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}
	require.NoError(t, repo.Create(context.Background(), &models.Request{
		ID: "other", TgID: operatorID, Status: status.Pending, CreatedAt: base,
	}))

	list, err := svc.ListMine(context.Background(), residentID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "new", list[0].ID)
	assert.Equal(t, "old", list[2].ID)
}

func TestGet_OwnerOnly(t *testing.T) {
	svc := newService(newMemoryRequestRepo())
	req := createRequest(t, svc, residentID)

	got, err := svc.Get(context.Background(), residentID, req.ID)
	require.NoError(t, err)
	assert.Equal(t, req.ID, got.ID)

	_, err = svc.Get(context.Background(), operatorID, req.ID)
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeNotOwner, appErr.Code)

	_, err = svc.Get(context.Background(), residentID, "missing")
	require.Error(t, err)
	appErr, ok = apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeRequestNotFound, appErr.Code)
}

func TestCancel(t *testing.T) {
	t.Run("pending cancels", func(t *testing.T) {
		svc := newService(newMemoryRequestRepo())
		req := createRequest(t, svc, residentID)

		cancelled, err := svc.Cancel(context.Background(), residentID, req.ID)
		require.NoError(t, err)
		assert.Equal(t, status.CancelledByUser, cancelled.Status)
	})

	t.Run("not owner", func(t *testing.T) {
		svc := newService(newMemoryRequestRepo())
		req := createRequest(t, svc, residentID)

		_, err := svc.Cancel(context.Background(), operatorID, req.ID)
		require.Error(t, err)
		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrCodeNotOwner, appErr.Code)
	})

	t.Run("non-pending rejected", func(t *testing.T) {
		repo := newMemoryRequestRepo()
		svc := newService(repo)
		req := createRequest(t, svc, residentID)

		_, err := svc.UpdateStatus(context.Background(), operatorID, req.ID, status.Confirmed)
		require.NoError(t, err)

		_, err = svc.Cancel(context.Background(), residentID, req.ID)
		require.Error(t, err)
		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrCodeInvalidTransition, appErr.Code)
	})
}

func TestUpdateStatus(t *testing.T) {
	t.Run("staff only", func(t *testing.T) {
		svc := newService(newMemoryRequestRepo())
		req := createRequest(t, svc, residentID)

		_, err := svc.UpdateStatus(context.Background(), residentID, req.ID, status.Confirmed)
		require.Error(t, err)
		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrCodeForbidden, appErr.Code)
	})

	t.Run("legal chain", func(t *testing.T) {
		svc := newService(newMemoryRequestRepo())
		req := createRequest(t, svc, residentID)

		updated, err := svc.UpdateStatus(context.Background(), operatorID, req.ID, "in progress")
		require.NoError(t, err)
		assert.Equal(t, status.Confirmed, updated.Status, "synonym canonicalized")

		updated, err = svc.UpdateStatus(context.Background(), operatorID, req.ID, status.Done)
		require.NoError(t, err)
		assert.Equal(t, status.Done, updated.Status)
	})

	t.Run("same status is a no-op", func(t *testing.T) {
		svc := newService(newMemoryRequestRepo())
		req := createRequest(t, svc, residentID)

		updated, err := svc.UpdateStatus(context.Background(), operatorID, req.ID, status.Pending)
		require.NoError(t, err)
		assert.Equal(t, status.Pending, updated.Status)
	})

	t.Run("illegal transition", func(t *testing.T) {
		svc := newService(newMemoryRequestRepo())
		req := createRequest(t, svc, residentID)

		_, err := svc.UpdateStatus(context.Background(), operatorID, req.ID, status.Done)
		require.Error(t, err)
		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrCodeInvalidTransition, appErr.Code)
	})

	t.Run("terminal status frozen", func(t *testing.T) {
		svc := newService(newMemoryRequestRepo())
		req := createRequest(t, svc, residentID)

		_, err := svc.UpdateStatus(context.Background(), operatorID, req.ID, status.Cancelled)
		require.NoError(t, err)

		_, err = svc.UpdateStatus(context.Background(), operatorID, req.ID, status.Confirmed)
		require.Error(t, err)
	})

	t.Run("unknown status", func(t *testing.T) {
		svc := newService(newMemoryRequestRepo())
		req := createRequest(t, svc, residentID)

		_, err := svc.UpdateStatus(context.Background(), operatorID, req.ID, "exploded")
		require.Error(t, err)
		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrCodeValidation, appErr.Code)
	})
}

func TestMessages(t *testing.T) {
	t.Run("post and list oldest first", func(t *testing.T) {
		svc := newService(newMemoryRequestRepo())
		req := createRequest(t, svc, residentID)

		first, err := svc.PostMessage(context.Background(), residentID, req.ID, "  когда придёт мастер?  ")
		require.NoError(t, err)
		assert.NotEmpty(t, first.ID)
		assert.Equal(t, req.ID, first.RequestID)
		assert.Equal(t, residentID, first.AuthorID)
		assert.Equal(t, "resident", first.AuthorRole)
		assert.Equal(t, "когда придёт мастер?", first.Body, "body trimmed")

		_, err = svc.PostMessage(context.Background(), residentID, req.ID, "уточнение: кран на кухне")
		require.NoError(t, err)

		list, err := svc.Messages(context.Background(), residentID, req.ID)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, first.ID, list[0].ID)
		assert.False(t, list[1].CreatedAt.Before(list[0].CreatedAt))
	})

	t.Run("not owner", func(t *testing.T) {
		svc := newService(newMemoryRequestRepo())
		req := createRequest(t, svc, residentID)

		_, err := svc.PostMessage(context.Background(), operatorID, req.ID, "hello")
		require.Error(t, err)
		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrCodeNotOwner, appErr.Code)

		_, err = svc.Messages(context.Background(), operatorID, req.ID)
		require.Error(t, err)
		appErr, ok = apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrCodeNotOwner, appErr.Code)
	})

	t.Run("empty body rejected", func(t *testing.T) {
		svc := newService(newMemoryRequestRepo())
		req := createRequest(t, svc, residentID)

		_, err := svc.PostMessage(context.Background(), residentID, req.ID, "   ")
		require.Error(t, err)
		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrCodeValidation, appErr.Code)
	})

	t.Run("unknown request", func(t *testing.T) {
		svc := newService(newMemoryRequestRepo())

		_, err := svc.Messages(context.Background(), residentID, "missing")
		require.Error(t, err)
		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrCodeRequestNotFound, appErr.Code)
	})
}
