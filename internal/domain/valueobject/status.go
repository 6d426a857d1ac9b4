package valueobject

import (
	"strings"

	"github.com/superfix/superfix-backend/internal/pkg/apperror"
)

// MissionStatus - статус заявки (ServiceRequest).
type MissionStatus string

const (
	MissionStatusPending    MissionStatus = "PENDING"
	MissionStatusAccepted   MissionStatus = "ACCEPTED"
	MissionStatusInProgress MissionStatus = "IN_PROGRESS"
	MissionStatusCompleted  MissionStatus = "COMPLETED"
	MissionStatusCancelled  MissionStatus = "CANCELLED"
	MissionStatusRejected   MissionStatus = "REJECTED"
)

// AllMissionStatuses перечисляет статусы в порядке жизненного цикла.
var AllMissionStatuses = []MissionStatus{
	MissionStatusPending,
	MissionStatusAccepted,
	MissionStatusInProgress,
	MissionStatusCompleted,
	MissionStatusCancelled,
	MissionStatusRejected,
}

func (s MissionStatus) IsValid() bool {
	switch s {
	case MissionStatusPending, MissionStatusAccepted, MissionStatusInProgress,
		MissionStatusCompleted, MissionStatusCancelled, MissionStatusRejected:
		return true
	}
	return false
}

// IsActive - заявка ещё требует внимания героя.
func (s MissionStatus) IsActive() bool {
	switch s {
	case MissionStatusPending, MissionStatusAccepted, MissionStatusInProgress:
		return true
	}
	return false
}

// IsHistorical - заявка в конечном статусе.
func (s MissionStatus) IsHistorical() bool {
	switch s {
	case MissionStatusCompleted, MissionStatusCancelled, MissionStatusRejected:
		return true
	}
	return false
}

func NewMissionStatus(status string) (MissionStatus, error) {
	s := MissionStatus(strings.ToUpper(strings.TrimSpace(status)))
	if !s.IsValid() {
		return "", apperror.Validation("некорректный статус заявки")
	}
	return s, nil
}

// MissionAction - действие героя или администратора над заявкой.
type MissionAction string

const (
	ActionAccept MissionAction = "accept"
	ActionReject MissionAction = "reject"
	ActionBegin  MissionAction = "begin"
	ActionFinish MissionAction = "finish"
	ActionCancel MissionAction = "cancel"
)

func NewMissionAction(action string) (MissionAction, error) {
	a := MissionAction(strings.ToLower(strings.TrimSpace(action)))
	switch a {
	case ActionAccept, ActionReject, ActionBegin, ActionFinish, ActionCancel:
		return a, nil
	}
	return "", apperror.Validation("неизвестное действие над заявкой")
}

// EvidenceSlot указывает, какое фото фиксирует переход.
type EvidenceSlot string

const (
	EvidenceNone   EvidenceSlot = ""
	EvidenceBefore EvidenceSlot = "photoBefore"
	EvidenceAfter  EvidenceSlot = "photoAfter"
)

// Transition - одна строка таблицы переходов.
type Transition struct {
	From     MissionStatus
	Action   MissionAction
	To       MissionStatus
	Evidence EvidenceSlot
}

// RequiresEvidence - переход нельзя провести без фотографии.
func (t Transition) RequiresEvidence() bool {
	return t.Evidence != EvidenceNone
}

type transitionKey struct {
	from   MissionStatus
	action MissionAction
}

var transitions = map[transitionKey]Transition{
	{MissionStatusPending, ActionAccept}:    {MissionStatusPending, ActionAccept, MissionStatusAccepted, EvidenceNone},
	{MissionStatusPending, ActionReject}:    {MissionStatusPending, ActionReject, MissionStatusRejected, EvidenceNone},
	{MissionStatusAccepted, ActionBegin}:    {MissionStatusAccepted, ActionBegin, MissionStatusInProgress, EvidenceBefore},
	{MissionStatusInProgress, ActionFinish}: {MissionStatusInProgress, ActionFinish, MissionStatusCompleted, EvidenceAfter},
	{MissionStatusAccepted, ActionCancel}:   {MissionStatusAccepted, ActionCancel, MissionStatusCancelled, EvidenceNone},
	{MissionStatusInProgress, ActionCancel}: {MissionStatusInProgress, ActionCancel, MissionStatusCancelled, EvidenceNone},
}

// Lookup возвращает переход для пары (статус, действие).
// Любая пара вне таблицы - ErrIllegalTransition.
func Lookup(from MissionStatus, action MissionAction) (Transition, error) {
	t, ok := transitions[transitionKey{from, action}]
	if !ok {
		return Transition{}, apperror.ErrIllegalTransition
	}
	return t, nil
}

// ForTarget ищет переход по целевому статусу - так его присылает API.
func ForTarget(from, to MissionStatus) (Transition, error) {
	for _, t := range transitions {
		if t.From == from && t.To == to {
			return t, nil
		}
	}
	return Transition{}, apperror.ErrIllegalTransition
}

// AvailableActions - действия, допустимые в данном статусе.
func AvailableActions(from MissionStatus) []MissionAction {
	order := []MissionAction{ActionAccept, ActionReject, ActionBegin, ActionFinish, ActionCancel}
	var out []MissionAction
	for _, a := range order {
		if _, ok := transitions[transitionKey{from, a}]; ok {
			out = append(out, a)
		}
	}
	return out
}

func (s MissionStatus) CanTransitionTo(newStatus MissionStatus) bool {
	_, err := ForTarget(s, newStatus)
	return err == nil
}
