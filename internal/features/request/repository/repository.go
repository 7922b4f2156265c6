package repository

import (
	"context"

	"github.com/amfitom1ne123-maker/UV/internal/features/request/models"
)

type RequestRepository interface {
	Create(ctx context.Context, request *models.Request) error
	GetByID(ctx context.Context, id string) (*models.Request, error)
	Update(ctx context.Context, request *models.Request) error
	// ListByUser возвращает заявки пользователя, новые первыми.
	ListByUser(ctx context.Context, tgID int64) ([]*models.Request, error)
}

type MessageRepository interface {
	CreateMessage(ctx context.Context, message *models.RequestMessage) error
	// ListMessages возвращает сообщения заявки, старые первыми.
	ListMessages(ctx context.Context, requestID string) ([]*models.RequestMessage, error)
}
