// Package portal - логика портала героя и админки без отрисовки:
// контроллер переходов, разбиение списка заявок, формы.
package portal

import (
	"github.com/superfix/superfix-backend/internal/domain/valueobject"
	"github.com/superfix/superfix-backend/internal/interface/http/dto"
)

// IsActive - заявка требует действий героя.
// Неизвестный статус считается активным, чтобы заявка не пропала из обоих списков.
func IsActive(status string) bool {
	s, err := valueobject.NewMissionStatus(status)
	if err != nil {
		return true
	}
	return s.IsActive()
}

// Partition делит заявки на активные и историю, сохраняя порядок сервера.
func Partition(missions []dto.MissionResponse) (active, history []dto.MissionResponse) {
	active = make([]dto.MissionResponse, 0, len(missions))
	history = make([]dto.MissionResponse, 0, len(missions))
	for _, m := range missions {
		if IsActive(m.Status) {
			active = append(active, m)
		} else {
			history = append(history, m)
		}
	}
	return active, history
}

// Stats - показатели героя, которые пересчитывает сервер.
type Stats struct {
	TrustFactor       int
	MissionsCompleted int
}

// Board - то, что видит герой после обновления.
type Board struct {
	Active  []dto.MissionResponse
	History []dto.MissionResponse
	Stats   Stats
}

// Find ищет заявку по id в обоих списках.
func (b Board) Find(id string) (dto.MissionResponse, bool) {
	for _, list := range [][]dto.MissionResponse{b.Active, b.History} {
		for _, m := range list {
			if m.ID == id {
				return m, true
			}
		}
	}
	return dto.MissionResponse{}, false
}
