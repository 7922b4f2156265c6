package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/amfitom1ne123-maker/UV/internal/common/errors"
	"github.com/amfitom1ne123-maker/UV/internal/features/profile/models"
	"github.com/amfitom1ne123-maker/UV/internal/features/profile/repository"
)

type profileRepository struct {
	client *redis.Client
}

func NewProfileRepository(client *redis.Client) repository.ProfileRepository {
	return &profileRepository{
		client: client,
	}
}

func profileKey(tgID int64) string {
	return fmt.Sprintf("profile:%d", tgID)
}

func staffKey(tgID int64) string {
	return fmt.Sprintf("staff:%d", tgID)
}

func (r *profileRepository) GetByTgID(ctx context.Context, tgID int64) (*models.Profile, error) {
	profileJSON, err := r.client.Get(ctx, profileKey(tgID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, apperrors.NewUserNotFoundError(tgID)
		}
		return nil, apperrors.NewStorageError("profile get", err)
	}

	var profile models.Profile
	if err := json.Unmarshal(profileJSON, &profile); err != nil {
		return nil, apperrors.NewStorageError("profile decode", err)
	}

	return &profile, nil
}

func (r *profileRepository) Upsert(ctx context.Context, profile *models.Profile) error {
	profileJSON, err := json.Marshal(profile)
	if err != nil {
		return apperrors.NewStorageError("profile encode", err)
	}

	if err := r.client.Set(ctx, profileKey(profile.TgID), profileJSON, 0).Err(); err != nil {
		return apperrors.NewStorageError("profile set", err)
	}
	return nil
}

// staffRepository — роли персонала как множество строк на пользователя.
type staffRepository struct {
	client *redis.Client
}

func NewStaffRepository(client *redis.Client) repository.StaffRepository {
	return &staffRepository{
		client: client,
	}
}

func (r *staffRepository) StaffRoles(ctx context.Context, tgID int64) ([]string, error) {
	members, err := r.client.SMembers(ctx, staffKey(tgID)).Result()
	if err != nil {
		return nil, apperrors.NewStorageError("staff roles get", err)
	}
	return members, nil
}

func (r *staffRepository) GrantRole(ctx context.Context, tgID int64, role string) error {
	if err := r.client.SAdd(ctx, staffKey(tgID), role).Err(); err != nil {
		return apperrors.NewStorageError("staff role grant", err)
	}
	return nil
}

func (r *staffRepository) RevokeRole(ctx context.Context, tgID int64, role string) error {
	if err := r.client.SRem(ctx, staffKey(tgID), role).Err(); err != nil {
		return apperrors.NewStorageError("staff role revoke", err)
	}
	return nil
}
