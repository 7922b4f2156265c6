package repository

import (
	"context"

	"github.com/amfitom1ne123-maker/UV/internal/features/profile/models"
)

type ProfileRepository interface {
	GetByTgID(ctx context.Context, tgID int64) (*models.Profile, error)
	Upsert(ctx context.Context, profile *models.Profile) error
}

// StaffRepository хранит служебные роли персонала. Роль resident не
// хранится: она подразумевается для любого пользователя.
type StaffRepository interface {
	StaffRoles(ctx context.Context, tgID int64) ([]string, error)
	GrantRole(ctx context.Context, tgID int64, role string) error
	RevokeRole(ctx context.Context, tgID int64, role string) error
}
