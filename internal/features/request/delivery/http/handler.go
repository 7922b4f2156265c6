package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/amfitom1ne123-maker/UV/internal/common/errors"
	"github.com/amfitom1ne123-maker/UV/internal/common/middleware"
	"github.com/amfitom1ne123-maker/UV/internal/features/request/models"
	"github.com/amfitom1ne123-maker/UV/internal/features/request/service"
)

type RequestHandler struct {
	service service.RequestService
}

func NewRequestHandler(service service.RequestService) *RequestHandler {
	return &RequestHandler{
		service: service,
	}
}

func (h *RequestHandler) RegisterRoutes(router *gin.RouterGroup) {
	requests := router.Group("/requests")
	{
		requests.GET("/my", h.listMine)
		requests.GET("/:id", h.getRequest)
		requests.POST("", h.createRequest)
		requests.POST("/:id/cancel", h.cancelRequest)
		requests.GET("/:id/messages", h.listMessages)
		requests.POST("/:id/messages", h.postMessage)
		// Персонал
		requests.POST("/:id/status", h.updateStatus)
	}
}

func (h *RequestHandler) listMine(c *gin.Context) {
	tgID, ok := middleware.UserID(c)
	if !ok {
		middleware.AbortWithError(c, apperrors.NewUnauthorizedError("no telegram id"))
		return
	}

	requests, err := h.service.ListMine(c.Request.Context(), tgID)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, requests)
}

func (h *RequestHandler) getRequest(c *gin.Context) {
	tgID, ok := middleware.UserID(c)
	if !ok {
		middleware.AbortWithError(c, apperrors.NewUnauthorizedError("no telegram id"))
		return
	}

	request, err := h.service.Get(c.Request.Context(), tgID, c.Param("id"))
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, request)
}

func (h *RequestHandler) createRequest(c *gin.Context) {
	tgID, ok := middleware.UserID(c)
	if !ok {
		middleware.AbortWithError(c, apperrors.NewUnauthorizedError("no telegram id"))
		return
	}

	var input models.RequestCreate
	if err := c.ShouldBindJSON(&input); err != nil {
		middleware.AbortWithError(c, apperrors.Wrap(err, apperrors.ErrCodeValidation, "invalid request payload"))
		return
	}

	request, err := h.service.Create(c.Request.Context(), tgID, input)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, request)
}

func (h *RequestHandler) cancelRequest(c *gin.Context) {
	tgID, ok := middleware.UserID(c)
	if !ok {
		middleware.AbortWithError(c, apperrors.NewUnauthorizedError("no telegram id"))
		return
	}

	request, err := h.service.Cancel(c.Request.Context(), tgID, c.Param("id"))
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, request)
}

func (h *RequestHandler) listMessages(c *gin.Context) {
	tgID, ok := middleware.UserID(c)
	if !ok {
		middleware.AbortWithError(c, apperrors.NewUnauthorizedError("no telegram id"))
		return
	}

	messages, err := h.service.Messages(c.Request.Context(), tgID, c.Param("id"))
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, messages)
}

func (h *RequestHandler) postMessage(c *gin.Context) {
	tgID, ok := middleware.UserID(c)
	if !ok {
		middleware.AbortWithError(c, apperrors.NewUnauthorizedError("no telegram id"))
		return
	}

	var input models.MessageCreate
	if err := c.ShouldBindJSON(&input); err != nil {
		middleware.AbortWithError(c, apperrors.Wrap(err, apperrors.ErrCodeValidation, "invalid message payload"))
		return
	}

	message, err := h.service.PostMessage(c.Request.Context(), tgID, c.Param("id"), input.Body)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, message)
}

func (h *RequestHandler) updateStatus(c *gin.Context) {
	tgID, ok := middleware.UserID(c)
	if !ok {
		middleware.AbortWithError(c, apperrors.NewUnauthorizedError("no telegram id"))
		return
	}

	var input models.StatusUpdate
	if err := c.ShouldBindJSON(&input); err != nil {
		middleware.AbortWithError(c, apperrors.Wrap(err, apperrors.ErrCodeValidation, "invalid status payload"))
		return
	}

	request, err := h.service.UpdateStatus(c.Request.Context(), tgID, c.Param("id"), input.Status)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, request)
}
