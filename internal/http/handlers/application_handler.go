package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/superfix/superfix-backend/internal/dto"
	"github.com/superfix/superfix-backend/internal/http/handlers/common"
	"github.com/superfix/superfix-backend/internal/interface/http/response"
	"github.com/superfix/superfix-backend/internal/models"
	"github.com/superfix/superfix-backend/internal/service"
)

// ApplicationHandler - анкеты кандидатов в герои.
type ApplicationHandler struct {
	apps *service.ApplicationService
}

func NewApplicationHandler(apps *service.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{apps: apps}
}

// Apply обрабатывает POST /apply-hero.
func (h *ApplicationHandler) Apply(c *gin.Context) {
	var req dto.ApplyHeroRequest
	if err := common.BindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	app, err := h.apps.Submit(c.Request.Context(), service.ApplicationInput{
		Name:     req.Name,
		Phone:    req.Phone,
		Email:    req.Email,
		Category: req.Category,
		Message:  req.Message,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, app)
}

// List обрабатывает GET /admin/applications.
func (h *ApplicationHandler) List(c *gin.Context) {
	apps, err := h.apps.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	if apps == nil {
		apps = []models.Application{}
	}
	response.OK(c, apps)
}

// Reject обрабатывает DELETE /admin/applications/:id.
func (h *ApplicationHandler) Reject(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.apps.Reject(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.SuccessResponse{Message: "анкета удалена"})
}

// Accept обрабатывает POST /admin/applications/:id/accept: анкета становится героем.
func (h *ApplicationHandler) Accept(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	res, err := h.apps.Accept(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.ApplicationAcceptResponse{
		Hero:     res.Hero,
		Username: res.Username,
		Password: res.Password,
	})
}
