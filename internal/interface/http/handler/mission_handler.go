package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/superfix/superfix-backend/internal/domain/repository"
	"github.com/superfix/superfix-backend/internal/domain/valueobject"
	"github.com/superfix/superfix-backend/internal/dossier"
	"github.com/superfix/superfix-backend/internal/interface/http/dto"
	"github.com/superfix/superfix-backend/internal/interface/http/response"
	"github.com/superfix/superfix-backend/internal/usecase/mission"
)

type MissionHandler struct {
	createUC      *mission.CreateMissionUseCase
	updateUC      *mission.UpdateStatusUseCase
	adminUpdateUC *mission.AdminUpdateStatusUseCase
	listMineUC    *mission.ListMyMissionsUseCase
	listUC        *mission.ListMissionsUseCase
	getUC         *mission.GetMissionUseCase
	heroes        HeroReader
}

func NewMissionHandler(
	createUC *mission.CreateMissionUseCase,
	updateUC *mission.UpdateStatusUseCase,
	adminUpdateUC *mission.AdminUpdateStatusUseCase,
	listMineUC *mission.ListMyMissionsUseCase,
	listUC *mission.ListMissionsUseCase,
	getUC *mission.GetMissionUseCase,
	heroes HeroReader,
) *MissionHandler {
	return &MissionHandler{
		createUC:      createUC,
		updateUC:      updateUC,
		adminUpdateUC: adminUpdateUC,
		listMineUC:    listMineUC,
		listUC:        listUC,
		getUC:         getUC,
		heroes:        heroes,
	}
}

// CreateRequest обрабатывает POST /request.
func (h *MissionHandler) CreateRequest(c *gin.Context) {
	var req dto.CreateRequestRequest
	if !bindJSON(c, &req) {
		return
	}
	heroID, err := uuid.Parse(req.HeroID)
	if err != nil {
		response.BadRequest(c, "некорректный heroId")
		return
	}

	m, err := h.createUC.Execute(c.Request.Context(), mission.CreateMissionInput{
		HeroID:        heroID,
		ClientName:    req.ClientName,
		ClientPhone:   req.ClientPhone,
		ClientEmail:   req.ClientEmail,
		Description:   req.Description,
		TermsAccepted: req.TermsAccepted,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.ToMissionResponse(m, nil))
}

// ListRequests обрабатывает GET /request (администратор).
// Необязательные фильтры: status, heroId.
func (h *MissionHandler) ListRequests(c *gin.Context) {
	var filter repository.MissionFilter
	if raw := c.Query("status"); raw != "" {
		status, err := valueobject.NewMissionStatus(raw)
		if err != nil {
			response.Error(c, err)
			return
		}
		filter.Status = &status
	}
	if raw := c.Query("heroId"); raw != "" {
		heroID, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(c, "некорректный heroId")
			return
		}
		filter.HeroID = &heroID
	}

	missions, err := h.listUC.Execute(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	memo := newHeroMemo(h.heroes)
	out := make([]dto.MissionResponse, 0, len(missions))
	for _, m := range missions {
		out = append(out, dto.ToMissionResponse(m, memo.get(c.Request.Context(), m.HeroID)))
	}
	response.OK(c, out)
}

// MyMissions обрабатывает GET /hero/my-missions?view=active|history.
func (h *MissionHandler) MyMissions(c *gin.Context) {
	heroID, err := getUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	view, err := mission.ParseView(c.Query("view"))
	if err != nil {
		response.Error(c, err)
		return
	}

	missions, err := h.listMineUC.Execute(c.Request.Context(), heroID, view)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.ToMissionResponses(missions))
}

// UpdateStatus обрабатывает PUT /missions/:id/status (герой).
func (h *MissionHandler) UpdateStatus(c *gin.Context) {
	heroID, err := getUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	missionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "некорректный идентификатор заявки")
		return
	}

	var req dto.UpdateMissionStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	m, err := h.updateUC.Execute(c.Request.Context(), mission.UpdateStatusInput{
		MissionID: missionID,
		HeroID:    heroID,
		Status:    req.Status,
		Photo:     strings.TrimSpace(req.PhotoValue()),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.ToMissionResponse(m, nil))
}

// AdminUpdateStatus обрабатывает PUT /admin/requests/:id/status.
func (h *MissionHandler) AdminUpdateStatus(c *gin.Context) {
	missionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "некорректный идентификатор заявки")
		return
	}

	var req dto.UpdateMissionStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.PhotoValue() != "" {
		response.BadRequest(c, "администратор не прикладывает фото")
		return
	}

	m, err := h.adminUpdateUC.Execute(c.Request.Context(), missionID, req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.ToMissionResponse(m, nil))
}

// Dossier обрабатывает GET /admin/requests/:id/dossier и отдаёт HTML для печати.
func (h *MissionHandler) Dossier(c *gin.Context) {
	missionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "некорректный идентификатор заявки")
		return
	}

	m, err := h.getUC.Execute(c.Request.Context(), missionID)
	if err != nil {
		response.Error(c, err)
		return
	}

	html, err := dossier.Render(m, newHeroMemo(h.heroes).get(c.Request.Context(), m.HeroID))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", html)
}
