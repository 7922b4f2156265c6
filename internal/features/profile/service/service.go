package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	initdata "github.com/telegram-mini-apps/init-data-golang"

	apperrors "github.com/amfitom1ne123-maker/UV/internal/common/errors"
	"github.com/amfitom1ne123-maker/UV/internal/common/logger"
	"github.com/amfitom1ne123-maker/UV/internal/common/validation"
	"github.com/amfitom1ne123-maker/UV/internal/features/profile/models"
	"github.com/amfitom1ne123-maker/UV/internal/features/profile/repository"
	"github.com/amfitom1ne123-maker/UV/internal/roles"
)

// fallbackLanguage используется, когда присланный язык не входит в
// список поддерживаемых.
const fallbackLanguage = "EN"

type ProfileService interface {
	// Authenticate апсертит пользователя по Telegram-идентичности и
	// возвращает профиль с ролями.
	Authenticate(ctx context.Context, tgUser initdata.User) (*models.AuthResponse, error)
	GetProfile(ctx context.Context, tgID int64) (*models.Profile, error)
	SaveProfile(ctx context.Context, tgID int64, input models.ProfileInput) (*models.Profile, error)
}

type profileService struct {
	repo    repository.ProfileRepository
	staff   repository.StaffRepository
	allowed map[string]bool
}

func NewProfileService(repo repository.ProfileRepository, staff repository.StaffRepository, allowedLanguages map[string]bool) ProfileService {
	return &profileService{
		repo:    repo,
		staff:   staff,
		allowed: allowedLanguages,
	}
}

func (s *profileService) Authenticate(ctx context.Context, tgUser initdata.User) (*models.AuthResponse, error) {
	if tgUser.ID == 0 {
		return nil, apperrors.NewUnauthorizedError("invalid telegram user")
	}

	displayName := displayName(tgUser)
	now := time.Now().UTC()

	profile, err := s.repo.GetByTgID(ctx, tgUser.ID)
	if err != nil {
		if appErr, ok := apperrors.AsAppError(err); !ok || !appErr.IsNotFound() {
			return nil, err
		}
		profile = &models.Profile{
			ID:        tgUser.ID,
			TgID:      tgUser.ID,
			CreatedAt: now,
		}
	}

	// Username всегда берём из Telegram; остальные поля идентичности не
	// затирают правки, сделанные через профиль.
	profile.Username = tgUser.Username
	if profile.Name == "" {
		profile.Name = displayName
	}
	if profile.Language == "" {
		profile.Language = tgUser.LanguageCode
	}
	if profile.AvatarURL == "" {
		profile.AvatarURL = tgUser.PhotoURL
	}
	profile.UpdatedAt = now

	if err := s.repo.Upsert(ctx, profile); err != nil {
		return nil, apperrors.Wrapf(err, apperrors.ErrCodeStorageError, "upsert failed for %d", tgUser.ID)
	}

	resolved, err := s.resolveRoles(ctx, tgUser.ID)
	if err != nil {
		// Минимальный резидентский fallback: авторизацию из-за
		// проблем с ролями не роняем
		logger.Warn().Int64("tg_id", tgUser.ID).Err(err).Msg("staff roles read failed")
		fallback := roles.Resolve(roles.RoleResident)
		return &models.AuthResponse{
			User:    models.AuthUser{Profile: *profile, Roles: fallback},
			Roles:   fallback,
			Warning: fmt.Sprintf("profile read failed: %v", err),
		}, nil
	}

	return &models.AuthResponse{
		User:  models.AuthUser{Profile: *profile, Roles: resolved},
		Roles: resolved,
	}, nil
}

func (s *profileService) GetProfile(ctx context.Context, tgID int64) (*models.Profile, error) {
	profile, err := s.repo.GetByTgID(ctx, tgID)
	if err != nil {
		if appErr, ok := apperrors.AsAppError(err); ok && appErr.IsNotFound() {
			// Записи ещё нет — отдаём пустую болванку
			return &models.Profile{ID: tgID, TgID: tgID}, nil
		}
		return nil, err
	}
	return profile, nil
}

func (s *profileService) SaveProfile(ctx context.Context, tgID int64, input models.ProfileInput) (*models.Profile, error) {
	now := time.Now().UTC()

	profile, err := s.repo.GetByTgID(ctx, tgID)
	if err != nil {
		if appErr, ok := apperrors.AsAppError(err); !ok || !appErr.IsNotFound() {
			return nil, err
		}
		profile = &models.Profile{
			ID:        tgID,
			TgID:      tgID,
			CreatedAt: now,
		}
	}

	if err := validateInput(input); err != nil {
		return nil, err
	}

	if input.Name != nil {
		profile.Name = *input.Name
	}
	if input.Email != nil {
		profile.Email = *input.Email
	}
	if input.Phone != nil {
		profile.Phone = *input.Phone
	}
	if input.Unit != nil {
		profile.Unit = *input.Unit
	}
	if input.Username != nil {
		profile.Username = *input.Username
	}
	if input.Language != nil {
		if lang := s.normalizeLanguage(*input.Language); lang != "" {
			profile.Language = lang
		}
	}
	profile.UpdatedAt = now

	if err := s.repo.Upsert(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func validateInput(input models.ProfileInput) error {
	checks := []struct {
		value    *string
		validate func(string) error
	}{
		{input.Name, validation.ValidateName},
		{input.Email, validation.ValidateEmail},
		{input.Phone, validation.ValidatePhone},
		{input.Unit, validation.ValidateUnit},
		{input.Username, validation.ValidateUsername},
	}
	for _, check := range checks {
		if check.value == nil {
			continue
		}
		if err := check.validate(*check.value); err != nil {
			return apperrors.Wrap(err, apperrors.ErrCodeValidation, "invalid profile field")
		}
	}
	return nil
}

// normalizeLanguage переводит язык в верхний регистр и заменяет
// неподдерживаемый на fallback. Пустая строка остаётся пустой.
func (s *profileService) normalizeLanguage(raw string) string {
	lang := strings.ToUpper(strings.TrimSpace(raw))
	if lang == "" {
		return ""
	}
	if s.allowed[strings.ToLower(lang)] {
		return lang
	}
	return fallbackLanguage
}

// resolveRoles собирает роли персонала плюс подразумеваемый resident и
// нормализует их.
func (s *profileService) resolveRoles(ctx context.Context, tgID int64) (roles.RoleSet, error) {
	staffRoles, err := s.staff.StaffRoles(ctx, tgID)
	if err != nil {
		return nil, err
	}
	return roles.Resolve(staffRoles, roles.RoleResident), nil
}

func displayName(tgUser initdata.User) string {
	name := strings.TrimSpace(tgUser.FirstName)
	if name == "" {
		name = strings.TrimSpace(tgUser.Username)
	}
	if name == "" {
		name = "User"
	}
	if last := strings.TrimSpace(tgUser.LastName); last != "" {
		name = name + " " + last
	}
	return name
}
