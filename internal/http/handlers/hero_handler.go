package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/superfix/superfix-backend/internal/dto"
	"github.com/superfix/superfix-backend/internal/http/handlers/common"
	"github.com/superfix/superfix-backend/internal/interface/http/response"
	"github.com/superfix/superfix-backend/internal/models"
	"github.com/superfix/superfix-backend/internal/service"
)

// HeroHandler - публичный каталог героев и их администрирование.
type HeroHandler struct {
	heroes *service.HeroService
}

func NewHeroHandler(heroes *service.HeroService) *HeroHandler {
	return &HeroHandler{heroes: heroes}
}

// List обрабатывает GET /heroes?category=&q=&counties=AB,CJ
func (h *HeroHandler) List(c *gin.Context) {
	filter := models.HeroFilter{
		Category: strings.TrimSpace(c.Query("category")),
		Query:    strings.TrimSpace(c.Query("q")),
	}
	if raw := c.Query("counties"); raw != "" {
		for _, code := range strings.Split(raw, ",") {
			if code = strings.TrimSpace(code); code != "" {
				filter.Counties = append(filter.Counties, code)
			}
		}
	}

	heroes, err := h.heroes.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	if heroes == nil {
		heroes = []models.Hero{}
	}
	response.OK(c, heroes)
}

// Get обрабатывает GET /heroes/:id, вместе с отзывами.
func (h *HeroHandler) Get(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	hero, err := h.heroes.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, hero)
}

// Create обрабатывает POST /heroes (администратор).
func (h *HeroHandler) Create(c *gin.Context) {
	var req dto.HeroPayload
	if err := common.BindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	hero, err := h.heroes.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, hero)
}

// Update обрабатывает PUT /heroes/:id (администратор).
func (h *HeroHandler) Update(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.HeroPayload
	if err := common.BindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	hero, err := h.heroes.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, hero)
}

// Delete обрабатывает DELETE /heroes/:id (администратор).
func (h *HeroHandler) Delete(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.heroes.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.SuccessResponse{Message: "герой удалён"})
}

// Onboarding обрабатывает POST /hero/public-submit-update.
// Ответ всегда в формате {success, error}.
func (h *HeroHandler) Onboarding(c *gin.Context) {
	var req dto.OnboardingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.OnboardingResponse{Error: "некорректные данные запроса"})
		return
	}
	heroID, err := uuid.Parse(req.HeroID)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.OnboardingResponse{Error: "некорректный heroId"})
		return
	}

	err = h.heroes.SubmitOnboarding(c.Request.Context(), service.OnboardingInput{
		HeroID:      heroID,
		Alias:       req.Alias,
		Description: req.Description,
		HourlyRate:  req.HourlyRate,
		ActionAreas: req.ActionAreas,
		AvatarURL:   req.AvatarURL,
		VideoURL:    req.VideoURL,
	})
	if err != nil {
		status, msg := response.Classify(err)
		c.JSON(status, dto.OnboardingResponse{Error: msg})
		return
	}
	response.OK(c, dto.OnboardingResponse{Success: true})
}
