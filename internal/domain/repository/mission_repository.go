package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/superfix/superfix-backend/internal/domain/entity"
	"github.com/superfix/superfix-backend/internal/domain/valueobject"
)

type MissionRepository interface {
	Create(ctx context.Context, mission *entity.Mission) error
	// UpdateStatus сохраняет статус и фото. expected - статус, из которого
	// выполнялся переход; если в базе уже другой, возвращается ErrIllegalTransition.
	UpdateStatus(ctx context.Context, mission *entity.Mission, expected valueobject.MissionStatus) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Mission, error)
	FindByHeroID(ctx context.Context, heroID uuid.UUID) ([]*entity.Mission, error)
	List(ctx context.Context, filter MissionFilter) ([]*entity.Mission, error)
	CountByStatus(ctx context.Context, heroID uuid.UUID) (map[valueobject.MissionStatus]int, error)
}

type MissionFilter struct {
	HeroID *uuid.UUID
	Status *valueobject.MissionStatus
	Limit  int
	Offset int
}
