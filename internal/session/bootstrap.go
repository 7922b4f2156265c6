package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/amfitom1ne123-maker/UV/internal/api"
	"github.com/amfitom1ne123-maker/UV/internal/common/logger"
	"github.com/amfitom1ne123-maker/UV/internal/lang"
	"github.com/amfitom1ne123-maker/UV/internal/roles"
	"github.com/amfitom1ne123-maker/UV/internal/storage"
)

// ErrSuperseded возвращается загрузкой, которую обогнала более новая.
// Её результат никуда не применён.
var ErrSuperseded = errors.New("session: bootstrap superseded")

// API — эндпоинты, которые опрашивает загрузчик.
type API interface {
	Me(ctx context.Context) (*api.Payload, error)
	Profile(ctx context.Context) (*api.Payload, error)
}

// Bootstrapper выполняет загрузку сессии. Каждый запуск получает номер
// поколения; результат применяется, только если за время работы не
// стартовала новая загрузка.
type Bootstrapper struct {
	mu      sync.Mutex
	apic    API
	store   storage.KeyValueStore
	langs   *lang.Resolver
	gen     uint64
	current *Session
}

func NewBootstrapper(apic API, store storage.KeyValueStore, langs *lang.Resolver) *Bootstrapper {
	return &Bootstrapper{
		apic:    apic,
		store:   store,
		langs:   langs,
		current: &Session{State: Bootstrapping},
	}
}

// Current возвращает последнюю применённую сессию.
func (b *Bootstrapper) Current() *Session {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}

// State — состояние последней применённой сессии.
func (b *Bootstrapper) State() State {
	return b.Current().State
}

// RegistrationOutstanding — нужно ли показывать экран регистрации при
// холодном старте, до завершения сетевой загрузки (оптимистичный гейт
// по флагу reg_done).
func (b *Bootstrapper) RegistrationOutstanding(ctx context.Context) bool {
	v, err := b.store.Get(ctx, storage.KeyRegDone)
	return err != nil || v != "1"
}

// Bootstrap выполняет полный цикл fetch → merge → decide для переданного
// токена идентичности. Устаревший (обойдённый) запуск ничего не мутирует
// и возвращает ErrSuperseded.
func (b *Bootstrapper) Bootstrap(ctx context.Context, identityToken string) (*Session, error) {
	gen := b.begin()

	sess := b.run(ctx, identityToken)

	b.mu.Lock()
	defer b.mu.Unlock()
	if gen != b.gen {
		return nil, ErrSuperseded
	}
	b.current = sess
	b.persistLocked(ctx, sess)

	logger.Info().
		Str("state", sess.State.String()).
		Int64("tg_id", sess.ID).
		Strs("roles", sess.Roles).
		Str("language", sess.Language).
		Msg("session bootstrap resolved")
	return sess, nil
}

func (b *Bootstrapper) begin() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.gen++
	b.current = &Session{State: Bootstrapping}
	return b.gen
}

// run вычисляет сессию без каких-либо побочных эффектов: записи в
// хранилище выполняет только применение результата, уже после проверки
// поколения. Обойдённый запуск не оставляет следов.
func (b *Bootstrapper) run(ctx context.Context, identityToken string) (sess *Session) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error().Interface("panic", r).Msg("session bootstrap panicked")
			sess = &Session{State: Failed, User: map[string]any{}}
		}
	}()

	// Хост не передал идентичность: регистрация без похода в сеть
	if identityToken == "" {
		return &Session{State: NeedsRegistration, User: map[string]any{}}
	}

	// Два независимых запроса; каждый может упасть сам по себе.
	// Слияние начинается только после завершения обоих.
	var (
		wg           sync.WaitGroup
		me, prof     *api.Payload
		meErr, prErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		me, meErr = settle(func() (*api.Payload, error) { return b.apic.Me(ctx) })
	}()
	go func() {
		defer wg.Done()
		prof, prErr = settle(func() (*api.Payload, error) { return b.apic.Profile(ctx) })
	}()
	wg.Wait()

	if meErr != nil {
		logger.Warn().Err(meErr).Msg("identity fetch failed")
		me = nil
	}
	if prErr != nil {
		logger.Warn().Err(prErr).Msg("profile fetch failed")
		prof = nil
	}
	if me == nil && prof == nil {
		return &Session{State: NeedsRegistration, User: map[string]any{}}
	}

	// Слияние: поля профиля поверх полей идентичности
	merged := make(map[string]any)
	if me != nil {
		for k, v := range me.User {
			merged[k] = v
		}
	}
	var dbUser map[string]any
	if prof != nil {
		dbUser = prof.User
		for k, v := range dbUser {
			merged[k] = v
		}
	}

	sess = &Session{
		ID:        identityID(merged),
		Name:      displayName(merged),
		AvatarURL: pickAvatar(merged),
		User:      merged,
		Roles:     b.resolveRoles(ctx, me, prof, merged),
	}

	sess.Language = b.langs.Resolve(ctx, str(merged, "language"), sess.ID)

	if prof == nil || dbUser == nil || !IsComplete(merged) {
		sess.State = NeedsRegistration
		return sess
	}

	sess.State = Authenticated
	return sess
}

// persistLocked фиксирует следы применённой загрузки в хранилище.
// Вызывается под мьютексом и только для актуального поколения.
func (b *Bootstrapper) persistLocked(ctx context.Context, sess *Session) {
	b.seedIdentityLanguage(ctx, sess.ID)

	if sess.State != Authenticated {
		return
	}
	if err := b.store.Set(ctx, storage.KeyRegDone, "1"); err != nil {
		logger.Warn().Err(err).Msg("persist reg_done failed")
	}
}

// resolveRoles собирает роли из всех сырых источников обоих ответов и
// объединённой записи. Слияние может свести вместе источники, которые
// резолвер по отдельности не видел, поэтому инвариант исключения
// resident обеспечивается общим прогоном. Отладочный override из
// хранилища, если задан, замещает вычисленный набор.
func (b *Bootstrapper) resolveRoles(ctx context.Context, me, prof *api.Payload, merged map[string]any) roles.RoleSet {
	if raw, err := b.store.Get(ctx, storage.KeyRoleOverride); err == nil {
		if override := roles.Resolve(raw); len(override) > 0 {
			logger.Warn().Strs("roles", override).Msg("using developer role override")
			return override
		}
	}

	sources := make([]any, 0, 5)
	if me != nil {
		sources = append(sources, me.Roles, me.User["roles"])
	}
	if prof != nil {
		sources = append(sources, prof.Roles, prof.User["roles"])
	}
	sources = append(sources, merged["roles"])
	return roles.Resolve(sources...)
}

// settle переводит панику сетевого вызова в обычную ошибку, чтобы она не
// уронила процесс из горутины.
func settle(fn func() (*api.Payload, error)) (p *api.Payload, err error) {
	defer func() {
		if r := recover(); r != nil {
			p, err = nil, fmt.Errorf("fetch panicked: %v", r)
		}
	}()
	return fn()
}

// seedIdentityLanguage копирует глобальный последний язык в персональный
// слот идентичности, если тот ещё пуст.
func (b *Bootstrapper) seedIdentityLanguage(ctx context.Context, id int64) {
	if id == 0 {
		return
	}
	if _, err := b.store.Get(ctx, storage.LanguageKey(id)); err == nil {
		return
	}
	last, err := b.store.Get(ctx, storage.KeyLastLanguage)
	if err != nil || last == "" {
		return
	}
	if err := b.store.Set(ctx, storage.LanguageKey(id), last); err != nil {
		logger.Warn().Err(err).Msg("seed identity language failed")
	}
}
