package navigation

import "sync"

// HistoryController — узкий интерфейс истории/фрагмента адреса хоста.
type HistoryController interface {
	Push(fragment string)
	Replace(fragment string)
	CurrentFragment() string
	// OnFragmentChange регистрирует обработчик смены фрагмента извне
	// (кнопки браузера, ручной ввод). Возвращает функцию отписки.
	OnFragmentChange(handler func(fragment string)) (unsubscribe func())
}

// BackSignal — кнопка «назад» хоста: события без полезной нагрузки,
// один активный обработчик.
type BackSignal interface {
	Subscribe(handler func()) (unsubscribe func())
}

// MemoryHistory — история в памяти для тестов и хостов без браузера.
type MemoryHistory struct {
	mu       sync.Mutex
	entries  []string
	handlers map[int]func(string)
	nextID   int
}

func NewMemoryHistory(initial string) *MemoryHistory {
	return &MemoryHistory{
		entries:  []string{initial},
		handlers: make(map[int]func(string)),
	}
}

func (h *MemoryHistory) Push(fragment string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries, fragment)
}

func (h *MemoryHistory) Replace(fragment string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries[len(h.entries)-1] = fragment
}

func (h *MemoryHistory) CurrentFragment() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.entries[len(h.entries)-1]
}

// Entries возвращает копию стека истории.
func (h *MemoryHistory) Entries() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.entries))
	copy(out, h.entries)
	return out
}

func (h *MemoryHistory) OnFragmentChange(handler func(string)) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.nextID
	h.nextID++
	h.handlers[id] = handler
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.handlers, id)
	}
}

// SetFragment имитирует внешнюю смену фрагмента (ввод адреса, кнопки
// браузера) и оповещает подписчиков.
func (h *MemoryHistory) SetFragment(fragment string) {
	h.mu.Lock()
	h.entries[len(h.entries)-1] = fragment
	handlers := make([]func(string), 0, len(h.handlers))
	for _, fn := range h.handlers {
		handlers = append(handlers, fn)
	}
	h.mu.Unlock()

	for _, fn := range handlers {
		fn(fragment)
	}
}

// HostBackButton — BackSignal с одним активным обработчиком.
// Повторная подписка замещает предыдущую, отписка идемпотентна.
type HostBackButton struct {
	mu      sync.Mutex
	handler func()
	gen     int
}

func NewHostBackButton() *HostBackButton {
	return &HostBackButton{}
}

func (b *HostBackButton) Subscribe(handler func()) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.gen++
	gen := b.gen
	b.handler = handler
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.gen == gen {
			b.handler = nil
		}
	}
}

// HandlerCount — число активных обработчиков (0 или 1).
func (b *HostBackButton) HandlerCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.handler == nil {
		return 0
	}
	return 1
}

// Trigger доставляет событие «назад» активному обработчику.
func (b *HostBackButton) Trigger() {
	b.mu.Lock()
	handler := b.handler
	b.mu.Unlock()
	if handler != nil {
		handler()
	}
}
