package dto

import (
	"time"

	"github.com/superfix/superfix-backend/internal/domain/entity"
	"github.com/superfix/superfix-backend/internal/models"
)

// CreateRequestRequest - публичная контактная форма.
type CreateRequestRequest struct {
	HeroID        string `json:"heroId" binding:"required"`
	ClientName    string `json:"clientName" binding:"required"`
	ClientPhone   string `json:"clientPhone" binding:"required"`
	ClientEmail   string `json:"clientEmail"`
	Description   string `json:"description" binding:"required"`
	TermsAccepted bool   `json:"termsAccepted"`
}

// UpdateMissionStatusRequest - переход статуса. Photo - data URL, только для
// переходов с доказательством; null и "" означают "без фото".
type UpdateMissionStatusRequest struct {
	Status string  `json:"status" binding:"required"`
	Photo  *string `json:"photo"`
}

func (r UpdateMissionStatusRequest) PhotoValue() string {
	if r.Photo == nil {
		return ""
	}
	return *r.Photo
}

// MissionResponse - заявка в формате, который ждёт портал.
type MissionResponse struct {
	ID          string       `json:"id"`
	HeroID      string       `json:"heroId"`
	ClientName  string       `json:"clientName"`
	ClientPhone string       `json:"clientPhone"`
	ClientEmail *string      `json:"clientEmail,omitempty"`
	Description string       `json:"description"`
	Status      string       `json:"status"`
	PhotoBefore *string      `json:"photoBefore,omitempty"`
	PhotoAfter  *string      `json:"photoAfter,omitempty"`
	Date        time.Time    `json:"date"`
	Hero        *HeroSummary `json:"hero,omitempty"`
}

// HeroSummary - кратко о герое для списка заявок администратора.
type HeroSummary struct {
	ID    string `json:"id"`
	Alias string `json:"alias"`
}

func ToMissionResponse(m *entity.Mission, hero *models.Hero) MissionResponse {
	resp := MissionResponse{
		ID:          m.ID.String(),
		HeroID:      m.HeroID.String(),
		ClientName:  m.ClientName,
		ClientPhone: m.ClientPhone,
		ClientEmail: m.ClientEmail,
		Description: m.Description,
		Status:      string(m.Status),
		PhotoBefore: m.PhotoBefore,
		PhotoAfter:  m.PhotoAfter,
		Date:        m.CreatedAt,
	}
	if hero != nil {
		resp.Hero = &HeroSummary{ID: hero.ID.String(), Alias: hero.Alias}
	}
	return resp
}

func ToMissionResponses(missions []*entity.Mission) []MissionResponse {
	out := make([]MissionResponse, 0, len(missions))
	for _, m := range missions {
		out = append(out, ToMissionResponse(m, nil))
	}
	return out
}
