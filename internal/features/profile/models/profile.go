package models

import (
	"time"

	"github.com/amfitom1ne123-maker/UV/internal/roles"
)

// Profile представляет профиль резидента
// @Description Профиль резидента, привязанный к Telegram ID
type Profile struct {
	// ID дублирует TgID: клиенты
	// исторически читают оба поля
	ID        int64     `json:"id" example:"123456789" description:"ID пользователя в Telegram"`
	TgID      int64     `json:"tg_id" example:"123456789" description:"ID пользователя в Telegram"`
	Username  string    `json:"username" example:"johndoe" description:"Имя пользователя в Telegram"`
	Name      string    `json:"name" example:"John Doe" description:"Отображаемое имя"`
	Email     string    `json:"email" example:"john@example.com" description:"Email"`
	Phone     string    `json:"phone" example:"+855123456789" description:"Телефон"`
	Language  string    `json:"language" example:"en" description:"Язык интерфейса"`
	Unit      string    `json:"unit" example:"B-204" description:"Номер юнита/квартиры"`
	AvatarURL string    `json:"avatar_url,omitempty" description:"Аватар из Telegram"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProfileInput — частичное обновление профиля: nil-поля не трогают
// сохранённые значения.
type ProfileInput struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	Language *string `json:"language"`
	Unit     *string `json:"unit"`
	Username *string `json:"username"`
}

// AuthUser — профиль с ролями, как его отдаёт авторизация.
type AuthUser struct {
	Profile
	Roles roles.RoleSet `json:"roles"`
}

// AuthResponse — ответ POST /api/auth/me. Warning заполняется, когда
// профиль после апсерта прочитать не удалось и отдан минимальный
// резидентский fallback.
type AuthResponse struct {
	User    AuthUser      `json:"user"`
	Roles   roles.RoleSet `json:"roles"`
	Warning string        `json:"warning,omitempty"`
}
