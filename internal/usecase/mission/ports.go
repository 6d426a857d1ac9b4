package mission

import (
	"context"

	"github.com/google/uuid"

	"github.com/superfix/superfix-backend/internal/domain/valueobject"
	"github.com/superfix/superfix-backend/internal/models"
)

// События, которые получает портал героя.
const (
	EventMissionCreated       = "mission.created"
	EventMissionStatusChanged = "mission.status_changed"
)

// HeroFinder - проверка героя, к которому обращается клиент.
type HeroFinder interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Hero, error)
}

// HeroStatsRefresher пересчитывает missionsCompleted и trustFactor.
type HeroStatsRefresher interface {
	Recompute(ctx context.Context, heroID uuid.UUID) error
}

// EventPublisher доставляет событие конкретному герою (websocket hub).
type EventPublisher interface {
	BroadcastToUser(userID uuid.UUID, event string, data any) error
}

// EvidenceStore сохраняет фото-доказательство из data URL и возвращает его адрес.
type EvidenceStore interface {
	SaveEvidence(ctx context.Context, missionID uuid.UUID, slot valueobject.EvidenceSlot, dataURL string) (string, error)
}

// StatusChangedEvent - полезная нагрузка mission.status_changed.
type StatusChangedEvent struct {
	MissionID uuid.UUID                 `json:"missionId"`
	From      valueobject.MissionStatus `json:"from"`
	To        valueobject.MissionStatus `json:"to"`
}
