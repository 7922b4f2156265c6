// Пакет lang выбирает и сохраняет активный язык интерфейса.
package lang

import (
	"context"
	"strings"

	"github.com/amfitom1ne123-maker/UV/internal/common/logger"
	"github.com/amfitom1ne123-maker/UV/internal/storage"
)

// ProfilePusher отправляет выбранный язык на профильный эндпоинт.
// Ошибка отправки логируется и не откатывает локальное значение.
type ProfilePusher interface {
	SaveLanguage(ctx context.Context, code string) error
}

// Resolver разрешает язык по цепочке фолбэков:
// язык профиля → язык идентичности из хранилища → глобальный последний
// язык → локаль хоста (две буквы) → язык по умолчанию. Побеждает первый
// кандидат, входящий в allow-список.
type Resolver struct {
	store      storage.KeyValueStore
	pusher     ProfilePusher
	allowed    map[string]bool
	defaultLng string
	hostLocale func() string
}

// Option настраивает Resolver.
type Option func(*Resolver)

// WithPusher включает отправку изменений языка на профильный эндпоинт.
func WithPusher(p ProfilePusher) Option {
	return func(r *Resolver) { r.pusher = p }
}

// WithHostLocale задаёт источник локали хоста (по умолчанию пусто).
func WithHostLocale(fn func() string) Option {
	return func(r *Resolver) { r.hostLocale = fn }
}

func NewResolver(store storage.KeyValueStore, allowed map[string]bool, defaultLng string, opts ...Option) *Resolver {
	r := &Resolver{
		store:      store,
		allowed:    allowed,
		defaultLng: defaultLng,
		hostLocale: func() string { return "" },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve возвращает активный язык для пользователя. profileLang — язык
// из объединённого профиля (верх цепочки), identityID — идентичность для
// персонального слота хранилища (0, если неизвестна).
func (r *Resolver) Resolve(ctx context.Context, profileLang string, identityID int64) string {
	candidates := []string{profileLang}

	if identityID != 0 {
		if v, err := r.store.Get(ctx, storage.LanguageKey(identityID)); err == nil {
			candidates = append(candidates, v)
		}
	}
	if v, err := r.store.Get(ctx, storage.KeyLastLanguage); err == nil {
		candidates = append(candidates, v)
	}
	if loc := r.hostLocale(); len(loc) >= 2 {
		candidates = append(candidates, loc[:2])
	}

	return r.Pick(candidates)
}

// Pick возвращает первый кандидат из allow-списка (после приведения к
// нижнему регистру) либо язык по умолчанию.
func (r *Resolver) Pick(candidates []string) string {
	for _, c := range candidates {
		c = strings.ToLower(strings.TrimSpace(c))
		if c != "" && r.allowed[c] {
			return c
		}
	}
	return r.defaultLng
}

// Persist записывает выбранный язык в глобальный слот и, если известна
// идентичность, в персональный, затем асинхронно отправляет изменение на
// профильный эндпоинт. Локально сохранённое значение остаётся
// авторитетным для UI независимо от исхода отправки.
func (r *Resolver) Persist(ctx context.Context, lng string, identityID int64) {
	if err := r.store.Set(ctx, storage.KeyLastLanguage, lng); err != nil {
		logger.Warn().Err(err).Msg("persist language: global slot write failed")
	}
	if identityID != 0 {
		if err := r.store.Set(ctx, storage.LanguageKey(identityID), lng); err != nil {
			logger.Warn().Err(err).Msg("persist language: identity slot write failed")
		}
	}

	if r.pusher == nil {
		return
	}
	go func() {
		if err := r.pusher.SaveLanguage(context.WithoutCancel(ctx), strings.ToUpper(lng)); err != nil {
			logger.Warn().Err(err).Str("language", lng).Msg("persist language: profile push failed")
		}
	}()
}
