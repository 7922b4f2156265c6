package navigation

import (
	"sync"

	"github.com/amfitom1ne123-maker/UV/internal/common/logger"
	"github.com/amfitom1ne123-maker/UV/internal/session"
)

// Config — зависимости конечного автомата.
type Config struct {
	History HistoryController
	Back    BackSignal
	// Session сообщает текущее состояние сессии; охрана переходов
	// пропускает только Authenticated.
	Session func() session.State
	// CloseApp — хостовая возможность закрыть приложение; вызывается по
	// «назад» с главного экрана.
	CloseApp func()
	// RegistrationOutstanding — оптимистичный гейт регистрации на
	// холодном старте (флаг reg_done ещё не выставлен).
	RegistrationOutstanding bool
}

// Machine — экранный конечный автомат. Все переходы проходят через
// охрану сессии; таблица «назад» фиксированная, а не стек истории:
// аппаратная кнопка хоста обязана вести себя одинаково независимо от
// наличия записей в истории браузера.
type Machine struct {
	mu       sync.Mutex
	cfg      Config
	current  Screen
	cameFrom Screen
	param    string

	unsubBack func()
	unsubFrag func()
}

func NewMachine(cfg Config) *Machine {
	m := &Machine{cfg: cfg, current: ScreenMenu}
	if cfg.RegistrationOutstanding {
		m.current = ScreenAuth
	}
	return m
}

// Start разрешает deep-link холодного старта и подписывается на события
// хоста. Фрагмент применяется только если регистрационный гейт пройден.
func (m *Machine) Start() {
	m.mu.Lock()
	if !m.cfg.RegistrationOutstanding {
		if route, ok := ParseFragment(m.cfg.History.CurrentFragment()); ok {
			m.current = route.Screen
			m.param = route.Param
		}
	}
	m.mu.Unlock()

	m.unsubFrag = m.cfg.History.OnFragmentChange(m.handleFragment)
	m.resubscribeBack()
}

// Teardown отписывает обработчики хоста.
func (m *Machine) Teardown() {
	if m.unsubBack != nil {
		m.unsubBack()
		m.unsubBack = nil
	}
	if m.unsubFrag != nil {
		m.unsubFrag()
		m.unsubFrag = nil
	}
}

// Current возвращает активный экран.
func (m *Machine) Current() Screen {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Param — параметр активного экрана (id заявки для requestDetails).
func (m *Machine) Param() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.param
}

// CameFrom — экран, из которого был открыт каталог сервисов.
func (m *Machine) CameFrom() Screen {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cameFrom
}

// Goto выполняет охраняемый переход. Незавершённая сессия принудительно
// отправляется на экран регистрации, запрошенный экран отбрасывается, а
// фрагмент адреса перезаписывается каноническим маршрутом регистрации.
func (m *Machine) Goto(screen Screen, params ...string) {
	m.mu.Lock()
	if m.cfg.Session() != session.Authenticated {
		m.forceAuthLocked()
		m.mu.Unlock()
		m.resubscribeBack()
		return
	}

	if screen == ScreenServices && (m.current == ScreenMenu || m.current == ScreenHistory) {
		m.cameFrom = m.current
	}

	m.current = screen
	m.param = ""
	if len(params) > 0 {
		m.param = params[0]
	}

	if fragment, ok := (Route{Screen: screen, Param: m.param}).Fragment(); ok {
		m.cfg.History.Push(fragment)
	}
	m.mu.Unlock()
	m.resubscribeBack()
}

// Back обрабатывает «назад» браузера и аппаратную кнопку хоста — оба
// события сведены в один обработчик.
func (m *Machine) Back() {
	m.mu.Lock()
	if m.cfg.Session() != session.Authenticated {
		m.forceAuthLocked()
		m.mu.Unlock()
		m.resubscribeBack()
		return
	}

	var closeApp bool
	switch m.current {
	case ScreenAuth:
		m.current = ScreenMenu
	case ScreenRequest:
		m.current = ScreenServices
	case ScreenRequestDetails:
		// Фрагмент заменяется, не добавляется: возврат к списку не должен
		// плодить записи истории
		m.current = ScreenHistory
		m.param = ""
		m.cfg.History.Replace("#history")
	case ScreenServices:
		if m.cameFrom != "" {
			m.current = m.cameFrom
			m.cameFrom = ""
		} else {
			m.current = ScreenMenu
		}
	case ScreenMenu:
		closeApp = true
	default:
		m.current = ScreenMenu
	}
	m.mu.Unlock()

	if closeApp {
		if m.cfg.CloseApp != nil {
			m.cfg.CloseApp()
		}
		return
	}
	m.resubscribeBack()
}

// SessionResolved вызывается после завершения загрузки сессии.
// Незавершённая сессия замещает любой deep-link экраном регистрации;
// успешная уводит с экрана регистрации на главный.
func (m *Machine) SessionResolved(state session.State) {
	m.mu.Lock()
	switch state {
	case session.Authenticated:
		if m.current == ScreenAuth {
			m.current = ScreenMenu
		}
	default:
		m.forceAuthLocked()
	}
	m.mu.Unlock()
	m.resubscribeBack()
}

// handleFragment — внешняя смена фрагмента (deep-link на лету).
// Нераспознанный фрагмент оставляет экран без изменений.
func (m *Machine) handleFragment(fragment string) {
	route, ok := ParseFragment(fragment)
	if !ok {
		return
	}
	if m.cfg.Session() != session.Authenticated {
		return
	}

	m.mu.Lock()
	m.current = route.Screen
	m.param = route.Param
	m.mu.Unlock()
	m.resubscribeBack()

	logger.Debug().Str("fragment", fragment).Str("screen", string(route.Screen)).Msg("deep link applied")
}

func (m *Machine) forceAuthLocked() {
	m.current = ScreenAuth
	m.param = ""
	m.cfg.History.Replace("#auth")
}

// resubscribeBack переустанавливает обработчик кнопки «назад» после
// каждого изменения (current, cameFrom, состояние сессии). Отписка перед
// подпиской не даёт обработчикам дублироваться.
func (m *Machine) resubscribeBack() {
	if m.cfg.Back == nil {
		return
	}
	if m.unsubBack != nil {
		m.unsubBack()
	}
	m.unsubBack = m.cfg.Back.Subscribe(m.Back)
}
