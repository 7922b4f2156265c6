package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/amfitom1ne123-maker/UV/internal/common/errors"
	"github.com/amfitom1ne123-maker/UV/internal/common/middleware"
	"github.com/amfitom1ne123-maker/UV/internal/features/profile/models"
	"github.com/amfitom1ne123-maker/UV/internal/features/profile/service"
)

type ProfileHandler struct {
	service service.ProfileService
}

func NewProfileHandler(service service.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		service: service,
	}
}

func (h *ProfileHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	{
		auth.POST("/me", h.me)
	}

	profile := router.Group("/profile")
	{
		profile.GET("", h.getProfile)
		profile.POST("", h.saveProfile)
	}
}

// me апсертит пользователя по initData и отдаёт профиль с ролями.
func (h *ProfileHandler) me(c *gin.Context) {
	tgUser, ok := middleware.TelegramUser(c)
	if !ok {
		middleware.AbortWithError(c, apperrors.NewUnauthorizedError("telegram init data required"))
		return
	}

	resp, err := h.service.Authenticate(c.Request.Context(), tgUser)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *ProfileHandler) getProfile(c *gin.Context) {
	tgID, ok := middleware.UserID(c)
	if !ok {
		middleware.AbortWithError(c, apperrors.NewUnauthorizedError("no telegram id"))
		return
	}

	profile, err := h.service.GetProfile(c.Request.Context(), tgID)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": profile})
}

func (h *ProfileHandler) saveProfile(c *gin.Context) {
	tgID, ok := middleware.UserID(c)
	if !ok {
		middleware.AbortWithError(c, apperrors.NewUnauthorizedError("no telegram id"))
		return
	}

	var input models.ProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		middleware.AbortWithError(c, apperrors.Wrap(err, apperrors.ErrCodeValidation, "invalid profile payload"))
		return
	}

	profile, err := h.service.SaveProfile(c.Request.Context(), tgID, input)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "user": profile})
}
