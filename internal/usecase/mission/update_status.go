package mission

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/superfix/superfix-backend/internal/domain/entity"
	"github.com/superfix/superfix-backend/internal/domain/repository"
	"github.com/superfix/superfix-backend/internal/domain/valueobject"
	"github.com/superfix/superfix-backend/internal/logger"
	"github.com/superfix/superfix-backend/internal/pkg/apperror"
)

type UpdateStatusInput struct {
	MissionID uuid.UUID
	HeroID    uuid.UUID
	Status    string
	// Photo - data URL снимка, только для begin/finish.
	Photo string
}

// UpdateStatusUseCase - переход статуса из портала героя.
type UpdateStatusUseCase struct {
	missionRepo repository.MissionRepository
	evidence    EvidenceStore
	stats       HeroStatsRefresher
	events      EventPublisher
}

func NewUpdateStatusUseCase(
	missionRepo repository.MissionRepository,
	evidence EvidenceStore,
	stats HeroStatsRefresher,
	events EventPublisher,
) *UpdateStatusUseCase {
	return &UpdateStatusUseCase{missionRepo: missionRepo, evidence: evidence, stats: stats, events: events}
}

func (uc *UpdateStatusUseCase) Execute(ctx context.Context, input UpdateStatusInput) (*entity.Mission, error) {
	target, err := valueobject.NewMissionStatus(input.Status)
	if err != nil {
		return nil, err
	}

	m, err := uc.missionRepo.FindByID(ctx, input.MissionID)
	if err != nil {
		return nil, err
	}
	if !m.IsAssignedTo(input.HeroID) {
		return nil, apperror.ErrForbidden
	}

	t, err := valueobject.ForTarget(m.Status, target)
	if err != nil {
		return nil, err
	}
	// проверяем наличие фото до загрузки, чтобы не оставлять сирот в хранилище
	if t.RequiresEvidence() && input.Photo == "" {
		return nil, apperror.ErrEvidenceRequired
	}
	if !t.RequiresEvidence() && input.Photo != "" {
		return nil, apperror.ErrEvidenceNotAllowed
	}

	photoURL := ""
	if t.RequiresEvidence() {
		photoURL, err = uc.evidence.SaveEvidence(ctx, m.ID, t.Evidence, input.Photo)
		if err != nil {
			return nil, err
		}
	}

	if err := m.Apply(t, photoURL); err != nil {
		return nil, err
	}
	if err := uc.missionRepo.UpdateStatus(ctx, m, t.From); err != nil {
		if photoURL != "" {
			logger.WithComponent("missions").WithFields(logrus.Fields{
				"mission_id": m.ID,
				"photo":      photoURL,
			}).Warn("фото сохранено, но статус не обновлён")
		}
		return nil, err
	}

	afterTransition(ctx, uc.stats, uc.events, m, t)
	return m, nil
}

// AdminUpdateStatusUseCase - администратор двигает заявку без фото:
// принять, отклонить или отменить.
type AdminUpdateStatusUseCase struct {
	missionRepo repository.MissionRepository
	stats       HeroStatsRefresher
	events      EventPublisher
}

func NewAdminUpdateStatusUseCase(missionRepo repository.MissionRepository, stats HeroStatsRefresher, events EventPublisher) *AdminUpdateStatusUseCase {
	return &AdminUpdateStatusUseCase{missionRepo: missionRepo, stats: stats, events: events}
}

func (uc *AdminUpdateStatusUseCase) Execute(ctx context.Context, missionID uuid.UUID, status string) (*entity.Mission, error) {
	target, err := valueobject.NewMissionStatus(status)
	if err != nil {
		return nil, err
	}

	m, err := uc.missionRepo.FindByID(ctx, missionID)
	if err != nil {
		return nil, err
	}

	t, err := valueobject.ForTarget(m.Status, target)
	if err != nil {
		return nil, err
	}
	if t.RequiresEvidence() {
		return nil, apperror.New(apperror.ErrCodeForbidden, "этот переход выполняет только герой с фотографией")
	}

	if err := m.Apply(t, ""); err != nil {
		return nil, err
	}
	if err := uc.missionRepo.UpdateStatus(ctx, m, t.From); err != nil {
		return nil, err
	}

	afterTransition(ctx, uc.stats, uc.events, m, t)
	return m, nil
}

func afterTransition(ctx context.Context, stats HeroStatsRefresher, events EventPublisher, m *entity.Mission, t valueobject.Transition) {
	log := logger.WithComponent("missions").WithFields(logrus.Fields{
		"mission_id": m.ID,
		"hero_id":    m.HeroID,
		"from":       t.From,
		"to":         t.To,
	})
	log.Info("статус заявки изменён")

	if stats != nil && (t.To == valueobject.MissionStatusCompleted || t.To == valueobject.MissionStatusCancelled) {
		if err := stats.Recompute(ctx, m.HeroID); err != nil {
			log.WithError(err).Warn("не удалось пересчитать trust factor")
		}
	}

	publish(events, m.HeroID, EventMissionStatusChanged, StatusChangedEvent{
		MissionID: m.ID,
		From:      t.From,
		To:        t.To,
	})
}
