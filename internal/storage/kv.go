// Пакет storage — абстракция персистентного key-value хранилища клиента.
//
// В браузерном хосте за интерфейсом стоит localStorage, вне браузера —
// Redis или память процесса. Все записи last-write-wins, без блокировок.
package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Ключи, разделяемые загрузчиком сессии и резолвером языка.
const (
	KeyRegDone      = "reg_done"
	KeyLastLanguage = "uv.lang.__last"
	KeyRoleOverride = "uv.override.roles"
)

// LanguageKey возвращает ключ языка, привязанный к идентичности.
func LanguageKey(identityID int64) string {
	return fmt.Sprintf("uv.lang.%d", identityID)
}

// ErrNotFound возвращается Get для отсутствующего ключа.
var ErrNotFound = errors.New("storage: key not found")

// KeyValueStore — узкий интерфейс персистентного хранилища.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// MemoryStore хранит значения в памяти процесса. Используется в тестах
// и хостах без внешнего хранилища.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (s *MemoryStore) Get(ctx context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (s *MemoryStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *MemoryStore) Remove(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}
