package mission

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/superfix/superfix-backend/internal/domain/entity"
	"github.com/superfix/superfix-backend/internal/domain/repository"
	"github.com/superfix/superfix-backend/internal/logger"
	"github.com/superfix/superfix-backend/internal/pkg/apperror"
	"github.com/superfix/superfix-backend/internal/validation"
)

type CreateMissionInput struct {
	HeroID        uuid.UUID
	ClientName    string
	ClientPhone   string
	ClientEmail   string
	Description   string
	TermsAccepted bool
}

// CreateMissionUseCase - публичная контактная форма.
type CreateMissionUseCase struct {
	missionRepo repository.MissionRepository
	heroes      HeroFinder
	events      EventPublisher
}

func NewCreateMissionUseCase(missionRepo repository.MissionRepository, heroes HeroFinder, events EventPublisher) *CreateMissionUseCase {
	return &CreateMissionUseCase{missionRepo: missionRepo, heroes: heroes, events: events}
}

func (uc *CreateMissionUseCase) Execute(ctx context.Context, input CreateMissionInput) (*entity.Mission, error) {
	if !input.TermsAccepted {
		return nil, apperror.ErrTermsNotAccepted
	}
	if err := validation.ValidatePhone(input.ClientPhone); err != nil {
		return nil, err
	}
	if email := strings.TrimSpace(input.ClientEmail); email != "" {
		if err := validation.ValidateEmail(email); err != nil {
			return nil, err
		}
	}
	if err := validation.ValidateLength("описание", strings.TrimSpace(input.Description), 0, validation.MaxDescriptionLength); err != nil {
		return nil, err
	}

	m, err := entity.NewMission(input.HeroID, input.ClientName, input.ClientPhone, input.ClientEmail, input.Description)
	if err != nil {
		return nil, err
	}

	if _, err := uc.heroes.GetByID(ctx, input.HeroID); err != nil {
		return nil, err
	}

	if err := uc.missionRepo.Create(ctx, m); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось создать заявку")
	}

	publish(uc.events, m.HeroID, EventMissionCreated, m.ID)
	return m, nil
}

func publish(events EventPublisher, heroID uuid.UUID, event string, data any) {
	if events == nil {
		return
	}
	if err := events.BroadcastToUser(heroID, event, data); err != nil {
		logger.WithComponent("missions").WithError(err).WithField("event", event).Warn("не удалось отправить событие")
	}
}
