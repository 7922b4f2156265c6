package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	initdata "github.com/telegram-mini-apps/init-data-golang"

	"github.com/amfitom1ne123-maker/UV/internal/common/logger"
)

// Context keys set by TelegramInitData.
const (
	CtxUser = "tg_user"
	CtxID   = "tg_id"
)

// TelegramInitData validates Telegram Mini App init data and stores the
// parsed user in the request context. The raw string is taken from the
// X-Telegram-Init-Data header with the legacy init_data header as a
// fallback. When devUserID is non-zero and no init data is supplied, the
// request is authenticated as that user (local development only).
func TelegramInitData(botToken string, devUserID int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader("X-Telegram-Init-Data")
		if raw == "" {
			raw = c.GetHeader("init_data")
		}

		if raw == "" && devUserID != 0 {
			c.Set(CtxUser, initdata.User{ID: devUserID, FirstName: "Dev"})
			c.Set(CtxID, devUserID)
			c.Next()
			return
		}

		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Telegram Init Data required"})
			return
		}

		if botToken == "" {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Server configuration error"})
			return
		}

		// Проверка срока действия отключена: WebApp может жить в фоне часами
		if err := initdata.Validate(raw, botToken, time.Duration(0)); err != nil {
			logger.Warn().Err(err).Msg("init data validation failed")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid init data"})
			return
		}

		parsed, err := initdata.Parse(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Failed to parse init data"})
			return
		}
		if parsed.User.ID == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid Telegram user"})
			return
		}

		c.Set(CtxUser, parsed.User)
		c.Set(CtxID, parsed.User.ID)
		c.Next()
	}
}

// UserID возвращает tg_id авторизованного пользователя.
func UserID(c *gin.Context) (int64, bool) {
	v, exists := c.Get(CtxID)
	if !exists {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

// TelegramUser возвращает распарсенного пользователя из initData.
func TelegramUser(c *gin.Context) (initdata.User, bool) {
	v, exists := c.Get(CtxUser)
	if !exists {
		return initdata.User{}, false
	}
	u, ok := v.(initdata.User)
	return u, ok
}
