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

type requestRepository struct {
	client *redis.Client
}

func NewRequestRepository(client *redis.Client) repository.RequestRepository {
	return &requestRepository{
		client: client,
	}
}

func requestKey(id string) string {
	return fmt.Sprintf("request:%s", id)
}

func userIndexKey(tgID int64) string {
	return fmt.Sprintf("requests:user:%d", tgID)
}

func (r *requestRepository) Create(ctx context.Context, request *models.Request) error {
	requestJSON, err := json.Marshal(request)
	if err != nil {
		return apperrors.NewStorageError("request encode", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, requestKey(request.ID), requestJSON, 0)
	pipe.SAdd(ctx, userIndexKey(request.TgID), request.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return apperrors.NewStorageError("request create", err)
	}
	return nil
}

func (r *requestRepository) GetByID(ctx context.Context, id string) (*models.Request, error) {
	requestJSON, err := r.client.Get(ctx, requestKey(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, apperrors.NewRequestNotFoundError(id)
		}
		return nil, apperrors.NewStorageError("request get", err)
	}

	var request models.Request
	if err := json.Unmarshal(requestJSON, &request); err != nil {
		return nil, apperrors.NewStorageError("request decode", err)
	}

	return &request, nil
}

func (r *requestRepository) Update(ctx context.Context, request *models.Request) error {
	requestJSON, err := json.Marshal(request)
	if err != nil {
		return apperrors.NewStorageError("request encode", err)
	}

	if err := r.client.Set(ctx, requestKey(request.ID), requestJSON, 0).Err(); err != nil {
		return apperrors.NewStorageError("request update", err)
	}
	return nil
}

func (r *requestRepository) ListByUser(ctx context.Context, tgID int64) ([]*models.Request, error) {
	ids, err := r.client.SMembers(ctx, userIndexKey(tgID)).Result()
	if err != nil {
		return nil, apperrors.NewStorageError("request index get", err)
	}

	requests := make([]*models.Request, 0, len(ids))
	for _, id := range ids {
		requestJSON, err := r.client.Get(ctx, requestKey(id)).Bytes()
		if err != nil {
			// Битая запись индекса не должна ронять список
			continue
		}

		var request models.Request
		if err := json.Unmarshal(requestJSON, &request); err != nil {
			continue
		}
		requests = append(requests, &request)
	}

	sort.Slice(requests, func(i, j int) bool {
		return requests[i].CreatedAt.After(requests[j].CreatedAt)
	})
	return requests, nil
}
