package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/amfitom1ne123-maker/UV/internal/common/errors"
	"github.com/amfitom1ne123-maker/UV/internal/features/request/models"
	"github.com/amfitom1ne123-maker/UV/internal/features/request/repository"
)

type messageRepository struct {
	client *redis.Client
}

func NewMessageRepository(client *redis.Client) repository.MessageRepository {
	return &messageRepository{
		client: client,
	}
}

func messageKey(id string) string {
	return fmt.Sprintf("request_message:%s", id)
}

func messageIndexKey(requestID string) string {
	return fmt.Sprintf("request:%s:messages", requestID)
}

func (r *messageRepository) CreateMessage(ctx context.Context, message *models.RequestMessage) error {
	messageJSON, err := json.Marshal(message)
	if err != nil {
		return apperrors.NewStorageError("message encode", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, messageKey(message.ID), messageJSON, 0)
	pipe.SAdd(ctx, messageIndexKey(message.RequestID), message.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return apperrors.NewStorageError("message create", err)
	}
	return nil
}

func (r *messageRepository) ListMessages(ctx context.Context, requestID string) ([]*models.RequestMessage, error) {
	ids, err := r.client.SMembers(ctx, messageIndexKey(requestID)).Result()
	if err != nil {
		return nil, apperrors.NewStorageError("message index get", err)
	}

	messages := make([]*models.RequestMessage, 0, len(ids))
	for _, id := range ids {
		messageJSON, err := r.client.Get(ctx, messageKey(id)).Bytes()
		if err != nil {
			// Битая запись индекса не должна ронять чат
			continue
		}

		var message models.RequestMessage
		if err := json.Unmarshal(messageJSON, &message); err != nil {
			continue
		}
		messages = append(messages, &message)
	}

	sort.Slice(messages, func(i, j int) bool {
		return messages[i].CreatedAt.Before(messages[j].CreatedAt)
	})
	return messages, nil
}
