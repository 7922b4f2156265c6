// Пакет roles приводит разнородные сырые наборы ролей к каноническому виду.
//
// Источники возвращают роли в пяти текстовых формах: нативный массив,
// JSON-массив строкой, pg-массив в фигурных скобках, CSV и одиночная
// строка. Любой неразбираемый источник даёт пустой набор, ошибок нет.
package roles

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Канонические роли.
const (
	RoleAdmin    = "admin"
	RoleManager  = "manager"
	RoleOperator = "operator"
	RoleResident = "resident"
)

// priority — фиксированный порядок: admin > manager > operator > resident.
var priority = []string{RoleAdmin, RoleManager, RoleOperator, RoleResident}

// staff — роли, исключающие resident из итогового набора.
var staff = map[string]bool{
	RoleAdmin:    true,
	RoleManager:  true,
	RoleOperator: true,
}

// RoleSet — упорядоченный набор канонических ролей без дублей.
type RoleSet []string

// Has проверяет наличие роли в наборе.
func (rs RoleSet) Has(role string) bool {
	for _, r := range rs {
		if r == role {
			return true
		}
	}
	return false
}

// IsStaff — есть ли в наборе хотя бы одна служебная роль.
func (rs RoleSet) IsStaff() bool {
	for _, r := range rs {
		if staff[r] {
			return true
		}
	}
	return false
}

// Primary возвращает старшую служебную роль или пустую строку.
func (rs RoleSet) Primary() string {
	for _, r := range rs {
		if staff[r] {
			return r
		}
	}
	return ""
}

// Resolve декодирует все источники, объединяет и нормализует результат.
// Идемпотентна: Resolve(Resolve(x)) == Resolve(x).
func Resolve(sources ...any) RoleSet {
	present := make(map[string]bool)
	for _, src := range sources {
		for _, raw := range decode(src) {
			r := strings.ToLower(strings.TrimSpace(raw))
			if r == "owner" { // safety: owner -> admin
				r = RoleAdmin
			}
			if r == "" {
				continue
			}
			present[r] = true
		}
	}

	if present[RoleAdmin] || present[RoleManager] || present[RoleOperator] {
		delete(present, RoleResident)
	}

	out := make(RoleSet, 0, len(present))
	for _, r := range priority {
		if present[r] {
			out = append(out, r)
		}
	}
	return out
}

// decode разбирает один сырой источник в последовательность строк.
// Формы проверяются по порядку, первая подходящая выигрывает.
func decode(raw any) []string {
	switch v := raw.(type) {
	case nil:
		return nil
	case []string:
		return v
	case RoleSet:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			out = append(out, stringify(e))
		}
		return out
	case string:
		return decodeString(v)
	default:
		return decodeString(stringify(raw))
	}
}

func decodeString(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	// JSON-массив, в том числе завёрнутый в лишние кавычки
	if (strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]")) ||
		(strings.HasPrefix(s, `"[`) && strings.HasSuffix(s, `]"`)) {
		return parseJSONArray(s)
	}

	// Текстовая форма множества/массива: {a,"b",c}
	if strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}") {
		inner := s[1 : len(s)-1]
		var out []string
		for _, part := range strings.Split(inner, ",") {
			part = strings.TrimSpace(part)
			part = strings.TrimPrefix(part, `"`)
			part = strings.TrimSuffix(part, `"`)
			part = strings.TrimSpace(part)
			if part != "" {
				out = append(out, part)
			}
		}
		return out
	}

	if strings.Contains(s, ",") {
		var out []string
		for _, part := range strings.Split(s, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				out = append(out, part)
			}
		}
		return out
	}

	return []string{s}
}

func parseJSONArray(s string) []string {
	var arr []any
	if err := json.Unmarshal([]byte(s), &arr); err != nil {
		// Вариант с двойным кодированием: сначала строка, в ней массив
		var inner string
		if err := json.Unmarshal([]byte(s), &inner); err != nil {
			return nil
		}
		if err := json.Unmarshal([]byte(inner), &arr); err != nil {
			return nil
		}
	}
	out := make([]string, 0, len(arr))
	for _, e := range arr {
		out = append(out, stringify(e))
	}
	return out
}

func stringify(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
