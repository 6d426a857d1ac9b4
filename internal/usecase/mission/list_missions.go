package mission

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/superfix/superfix-backend/internal/domain/entity"
	"github.com/superfix/superfix-backend/internal/domain/repository"
	"github.com/superfix/superfix-backend/internal/pkg/apperror"
)

// View - какая часть списка нужна порталу.
type View string

const (
	ViewAll     View = "all"
	ViewActive  View = "active"
	ViewHistory View = "history"
)

func ParseView(v string) (View, error) {
	switch View(strings.ToLower(strings.TrimSpace(v))) {
	case "", ViewAll:
		return ViewAll, nil
	case ViewActive:
		return ViewActive, nil
	case ViewHistory:
		return ViewHistory, nil
	}
	return "", apperror.Validation("view должен быть active, history или all")
}

type ListMyMissionsUseCase struct {
	missionRepo repository.MissionRepository
}

func NewListMyMissionsUseCase(missionRepo repository.MissionRepository) *ListMyMissionsUseCase {
	return &ListMyMissionsUseCase{missionRepo: missionRepo}
}

// Execute возвращает заявки героя в порядке сервера, отфильтрованные по view.
func (uc *ListMyMissionsUseCase) Execute(ctx context.Context, heroID uuid.UUID, view View) ([]*entity.Mission, error) {
	missions, err := uc.missionRepo.FindByHeroID(ctx, heroID)
	if err != nil {
		return nil, err
	}
	active, historical := entity.PartitionMissions(missions)
	switch view {
	case ViewActive:
		return active, nil
	case ViewHistory:
		return historical, nil
	}
	return missions, nil
}

type ListMissionsUseCase struct {
	missionRepo repository.MissionRepository
}

func NewListMissionsUseCase(missionRepo repository.MissionRepository) *ListMissionsUseCase {
	return &ListMissionsUseCase{missionRepo: missionRepo}
}

func (uc *ListMissionsUseCase) Execute(ctx context.Context, filter repository.MissionFilter) ([]*entity.Mission, error) {
	return uc.missionRepo.List(ctx, filter)
}

type GetMissionUseCase struct {
	missionRepo repository.MissionRepository
}

func NewGetMissionUseCase(missionRepo repository.MissionRepository) *GetMissionUseCase {
	return &GetMissionUseCase{missionRepo: missionRepo}
}

func (uc *GetMissionUseCase) Execute(ctx context.Context, id uuid.UUID) (*entity.Mission, error) {
	return uc.missionRepo.FindByID(ctx, id)
}
