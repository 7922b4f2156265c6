// Пакет navigation — экранный конечный автомат мини-приложения:
// охраняемые переходы, deep-link по фрагменту адреса, таблица кнопки
// «назад» браузера и хоста.
package navigation

import "strings"

// Screen — экран приложения. Активен ровно один.
type Screen string

const (
	ScreenMenu           Screen = "menu"
	ScreenServices       Screen = "services"
	ScreenRequest        Screen = "request"
	ScreenHistory        Screen = "history"
	ScreenRequestDetails Screen = "requestDetails"
	ScreenProfile        Screen = "profile"
	ScreenMap            Screen = "map"
	ScreenAuth           Screen = "auth"
	ScreenNews           Screen = "news"
	ScreenPayments       Screen = "payments"
	ScreenOperator       Screen = "operator"
)

// Route — экран с необязательным параметром, двунаправленно связанный с
// фрагментом адреса.
type Route struct {
	Screen Screen
	Param  string
}

// requestPrefix — параметризованная форма: #request-<id> открывает детали
// заявки.
const requestPrefix = "request-"

// literals — фрагменты-литералы грамматики.
var literals = map[string]Screen{
	"auth":     ScreenAuth,
	"menu":     ScreenMenu,
	"services": ScreenServices,
	"history":  ScreenHistory,
	"profile":  ScreenProfile,
	"map":      ScreenMap,
	"news":     ScreenNews,
	"payments": ScreenPayments,
	"operator": ScreenOperator,
}

// ParseFragment разбирает фрагмент адреса. Нераспознанный фрагмент
// инертен: возвращается ok == false, ошибки нет.
func ParseFragment(fragment string) (Route, bool) {
	f := strings.TrimPrefix(strings.TrimSpace(fragment), "#")
	if f == "" {
		return Route{}, false
	}

	if strings.HasPrefix(f, requestPrefix) {
		id := f[len(requestPrefix):]
		if id == "" {
			return Route{}, false
		}
		return Route{Screen: ScreenRequestDetails, Param: id}, true
	}

	if s, ok := literals[f]; ok {
		return Route{Screen: s}, true
	}
	return Route{}, false
}

// Fragment возвращает канонический фрагмент маршрута. Экран создания
// заявки не имеет собственного фрагмента и в историю не пишется.
func (r Route) Fragment() (string, bool) {
	if r.Screen == ScreenRequestDetails {
		if r.Param == "" {
			return "", false
		}
		return "#" + requestPrefix + r.Param, true
	}
	for f, s := range literals {
		if s == r.Screen {
			return "#" + f, true
		}
	}
	return "", false
}
