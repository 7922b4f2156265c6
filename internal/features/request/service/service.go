package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/amfitom1ne123-maker/UV/internal/common/errors"
	"github.com/amfitom1ne123-maker/UV/internal/common/logger"
	"github.com/amfitom1ne123-maker/UV/internal/common/validation"
	"github.com/amfitom1ne123-maker/UV/internal/features/request/models"
	"github.com/amfitom1ne123-maker/UV/internal/features/request/repository"
	"github.com/amfitom1ne123-maker/UV/internal/roles"
	"github.com/amfitom1ne123-maker/UV/internal/status"
)

// StaffDirectory отвечает на вопрос «какие служебные роли у
// пользователя». Реализуется репозиторием профилей.
type StaffDirectory interface {
	StaffRoles(ctx context.Context, tgID int64) ([]string, error)
}

type RequestService interface {
	Create(ctx context.Context, tgID int64, input models.RequestCreate) (*models.Request, error)
	ListMine(ctx context.Context, tgID int64) ([]*models.Request, error)
	// Get возвращает заявку только её владельцу.
	Get(ctx context.Context, tgID int64, id string) (*models.Request, error)
	// Cancel — отмена владельцем; допустима только из pending.
	Cancel(ctx context.Context, tgID int64, id string) (*models.Request, error)
	// UpdateStatus — смена статуса персоналом по таблице переходов.
	UpdateStatus(ctx context.Context, actorID int64, id, newStatus string) (*models.Request, error)
	// Messages — чат заявки, доступен только её владельцу.
	Messages(ctx context.Context, tgID int64, requestID string) ([]*models.RequestMessage, error)
	// PostMessage — сообщение владельца в чат заявки.
	PostMessage(ctx context.Context, tgID int64, requestID, body string) (*models.RequestMessage, error)
}

type requestService struct {
	repo     repository.RequestRepository
	messages repository.MessageRepository
	staff    StaffDirectory
}

func NewRequestService(repo repository.RequestRepository, messages repository.MessageRepository, staff StaffDirectory) RequestService {
	return &requestService{
		repo:     repo,
		messages: messages,
		staff:    staff,
	}
}

func (s *requestService) Create(ctx context.Context, tgID int64, input models.RequestCreate) (*models.Request, error) {
	category := strings.TrimSpace(input.Category)
	if err := validation.ValidateCategory(category); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeValidation, "invalid category")
	}
	if err := validation.ValidateDetails(input.Details); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeValidation, "invalid details")
	}
	if err := validation.ValidateUnit(input.Unit); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeValidation, "invalid unit")
	}

	now := time.Now().UTC()
	request := &models.Request{
		ID:            uuid.New().String(),
		TgID:          tgID,
		Category:      category,
		Unit:          strings.TrimSpace(input.Unit),
		Details:       strings.TrimSpace(input.Details),
		Status:        status.Pending,
		CreatedAt:     now,
		UpdatedAt:     now,
		PreferredTime: parsePreferredTime(input.PreferredTime),
		Photos:        input.Photos,
	}

	if err := s.repo.Create(ctx, request); err != nil {
		return nil, err
	}

	logger.Info().
		Str("request_id", request.ID).
		Int64("tg_id", tgID).
		Str("category", category).
		Msg("Request created")

	return request, nil
}

func (s *requestService) ListMine(ctx context.Context, tgID int64) ([]*models.Request, error) {
	return s.repo.ListByUser(ctx, tgID)
}

func (s *requestService) Get(ctx context.Context, tgID int64, id string) (*models.Request, error) {
	request, err := s.getOwned(ctx, tgID, id)
	if err != nil {
		return nil, err
	}
	return request, nil
}

func (s *requestService) Cancel(ctx context.Context, tgID int64, id string) (*models.Request, error) {
	request, err := s.getOwned(ctx, tgID, id)
	if err != nil {
		return nil, err
	}

	if status.Canonical(request.Status) != status.Pending {
		return nil, apperrors.NewInvalidTransitionError(request.Status, status.CancelledByUser)
	}

	request.Status = status.CancelledByUser
	request.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, request); err != nil {
		return nil, err
	}

	logger.Info().Str("request_id", id).Int64("tg_id", tgID).Msg("Request cancelled by user")
	return request, nil
}

func (s *requestService) UpdateStatus(ctx context.Context, actorID int64, id, newStatus string) (*models.Request, error) {
	if err := s.requireStaff(ctx, actorID); err != nil {
		return nil, err
	}

	next := status.Canonical(newStatus)
	if !status.IsKnown(next) {
		return nil, apperrors.New(apperrors.ErrCodeValidation, "unknown status").
			WithDetail("status", newStatus)
	}

	request, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	current := status.Canonical(request.Status)
	if current == next {
		// Идемпотентный повтор
		return request, nil
	}
	if !status.CanTransition(current, next) {
		return nil, apperrors.NewInvalidTransitionError(current, next)
	}

	request.Status = next
	request.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, request); err != nil {
		return nil, err
	}

	logger.Info().
		Str("request_id", id).
		Int64("actor", actorID).
		Str("from", current).
		Str("to", next).
		Msg("Request status updated")

	return request, nil
}

func (s *requestService) Messages(ctx context.Context, tgID int64, requestID string) ([]*models.RequestMessage, error) {
	request, err := s.getOwned(ctx, tgID, requestID)
	if err != nil {
		return nil, err
	}
	return s.messages.ListMessages(ctx, request.ID)
}

func (s *requestService) PostMessage(ctx context.Context, tgID int64, requestID, body string) (*models.RequestMessage, error) {
	body = strings.TrimSpace(body)
	if err := validation.ValidateMessageBody(body); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeValidation, "invalid message body")
	}

	request, err := s.getOwned(ctx, tgID, requestID)
	if err != nil {
		return nil, err
	}

	message := &models.RequestMessage{
		ID:         uuid.New().String(),
		RequestID:  request.ID,
		AuthorID:   tgID,
		AuthorRole: roles.RoleResident,
		Body:       body,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.messages.CreateMessage(ctx, message); err != nil {
		return nil, err
	}

	logger.Info().
		Str("request_id", request.ID).
		Str("message_id", message.ID).
		Int64("tg_id", tgID).
		Msg("Request message posted")

	return message, nil
}

func (s *requestService) getOwned(ctx context.Context, tgID int64, id string) (*models.Request, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperrors.New(apperrors.ErrCodeValidation, "request id required")
	}

	request, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if request.TgID != tgID {
		return nil, apperrors.New(apperrors.ErrCodeNotOwner, "not your request").
			WithDetail("request_id", id)
	}
	return request, nil
}

func (s *requestService) requireStaff(ctx context.Context, actorID int64) error {
	staffRoles, err := s.staff.StaffRoles(ctx, actorID)
	if err != nil {
		return err
	}
	if !roles.Resolve(staffRoles).IsStaff() {
		return apperrors.NewForbiddenError("staff role required")
	}
	return nil
}

func parsePreferredTime(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		// Неразборчивое время молча отбрасывается, заявка создаётся
		return nil
	}
	return &t
}
