// Пакет session — загрузка сессии: параллельный fetch идентичности и
// профиля, слияние, решение о состоянии.
package session

import (
	"strconv"
	"strings"

	"github.com/amfitom1ne123-maker/UV/internal/roles"
)

// State — состояние сессии. Меняется только внутри Bootstrapper;
// терминальное состояние сбрасывается лишь новой загрузкой.
type State int

const (
	Bootstrapping State = iota
	NeedsRegistration
	Authenticated
	Failed
)

func (s State) String() string {
	switch s {
	case Bootstrapping:
		return "bootstrapping"
	case NeedsRegistration:
		return "needs_registration"
	case Authenticated:
		return "authenticated"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Session — результат загрузки: канонизированная идентичность сессии.
type Session struct {
	State     State
	ID        int64
	Name      string
	AvatarURL string
	Language  string
	Roles     roles.RoleSet
	// User — объединённая запись (поля профиля поверх полей идентичности).
	User map[string]any
}

// IsComplete — регистрация завершена, если имя, квартира, телефон и язык
// непустые после обрезки пробелов.
func IsComplete(user map[string]any) bool {
	for _, field := range []string{"name", "unit", "phone", "language"} {
		if strings.TrimSpace(str(user, field)) == "" {
			return false
		}
	}
	return true
}

// str достаёт строковое поле из сырой записи; нестроковые значения
// приводятся через строковое представление, null и отсутствие — пусто.
func str(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	switch v := m[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

// identityID достаёт числовую идентичность из записи (tg_id либо id).
func identityID(m map[string]any) int64 {
	for _, key := range []string{"tg_id", "id"} {
		switch v := m[key].(type) {
		case float64:
			return int64(v)
		case int64:
			return v
		case int:
			return int64(v)
		case string:
			if n, err := strconv.ParseInt(v, 10, 64); err == nil {
				return n
			}
		}
	}
	return 0
}

// displayName — имя для шапки: имя профиля → username → идентичность.
func displayName(user map[string]any) string {
	if name := strings.TrimSpace(str(user, "name")); name != "" {
		return name
	}
	if username := strings.TrimSpace(str(user, "username")); username != "" {
		return username
	}
	if id := identityID(user); id != 0 {
		return strconv.FormatInt(id, 10)
	}
	return ""
}

// pickAvatar — чистая функция над avatar_url/avatar, без сетевого фолбэка.
func pickAvatar(user map[string]any) string {
	if u := strings.TrimSpace(str(user, "avatar_url")); u != "" {
		return u
	}
	return strings.TrimSpace(str(user, "avatar"))
}
