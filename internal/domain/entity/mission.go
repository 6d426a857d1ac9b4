package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/superfix/superfix-backend/internal/domain/valueobject"
	"github.com/superfix/superfix-backend/internal/pkg/apperror"
)

// Mission - заявка клиента к конкретному герою (ServiceRequest).
type Mission struct {
	ID          uuid.UUID
	HeroID      uuid.UUID
	ClientName  string
	ClientPhone string
	ClientEmail *string
	Description string
	Status      valueobject.MissionStatus
	PhotoBefore *string
	PhotoAfter  *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewMission создаёт заявку из контактной формы. Статус всегда PENDING.
func NewMission(heroID uuid.UUID, clientName, clientPhone, clientEmail, description string) (*Mission, error) {
	if heroID == uuid.Nil {
		return nil, apperror.Validation("герой обязателен")
	}
	clientName = strings.TrimSpace(clientName)
	if clientName == "" {
		return nil, apperror.Validation("имя клиента обязательно")
	}
	clientPhone = strings.TrimSpace(clientPhone)
	if clientPhone == "" {
		return nil, apperror.Validation("телефон клиента обязателен")
	}
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, apperror.Validation("описание проблемы обязательно")
	}

	now := time.Now()
	m := &Mission{
		ID:          uuid.New(),
		HeroID:      heroID,
		ClientName:  clientName,
		ClientPhone: clientPhone,
		Description: description,
		Status:      valueobject.MissionStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if email := strings.TrimSpace(clientEmail); email != "" {
		m.ClientEmail = &email
	}
	return m, nil
}

// Apply проводит переход по таблице. photo обязателен ровно тогда,
// когда переход требует доказательства, и записывается один раз.
func (m *Mission) Apply(t valueobject.Transition, photo string) error {
	if t.From != m.Status {
		return apperror.ErrIllegalTransition
	}
	if t.RequiresEvidence() && photo == "" {
		return apperror.ErrEvidenceRequired
	}
	if !t.RequiresEvidence() && photo != "" {
		return apperror.ErrEvidenceNotAllowed
	}

	switch t.Evidence {
	case valueobject.EvidenceBefore:
		if m.PhotoBefore != nil {
			return apperror.ErrEvidenceAlreadySet
		}
		m.PhotoBefore = &photo
	case valueobject.EvidenceAfter:
		if m.PhotoAfter != nil {
			return apperror.ErrEvidenceAlreadySet
		}
		m.PhotoAfter = &photo
	}

	m.Status = t.To
	m.UpdatedAt = time.Now()
	return nil
}

func (m *Mission) act(action valueobject.MissionAction, photo string) error {
	t, err := valueobject.Lookup(m.Status, action)
	if err != nil {
		return err
	}
	return m.Apply(t, photo)
}

func (m *Mission) Accept() error { return m.act(valueobject.ActionAccept, "") }

func (m *Mission) Reject() error { return m.act(valueobject.ActionReject, "") }

// BeginWork переводит заявку в IN_PROGRESS с фото "до".
func (m *Mission) BeginWork(photoBefore string) error {
	return m.act(valueobject.ActionBegin, photoBefore)
}

// FinishWork переводит заявку в COMPLETED с фото "после".
func (m *Mission) FinishWork(photoAfter string) error {
	return m.act(valueobject.ActionFinish, photoAfter)
}

func (m *Mission) Cancel() error { return m.act(valueobject.ActionCancel, "") }

func (m *Mission) IsAssignedTo(heroID uuid.UUID) bool {
	return m.HeroID == heroID
}

// PartitionMissions делит заявки на активные и завершённые, сохраняя
// исходный порядок. Каждая заявка попадает ровно в один список.
func PartitionMissions(missions []*Mission) (active, historical []*Mission) {
	active = make([]*Mission, 0, len(missions))
	historical = make([]*Mission, 0, len(missions))
	for _, m := range missions {
		if m.Status.IsActive() {
			active = append(active, m)
		} else {
			historical = append(historical, m)
		}
	}
	return active, historical
}
