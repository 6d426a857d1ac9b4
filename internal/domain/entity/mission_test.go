package entity

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/superfix/superfix-backend/internal/domain/valueobject"
	"github.com/superfix/superfix-backend/internal/pkg/apperror"
)

func newTestMission(t *testing.T) *Mission {
	t.Helper()
	m, err := NewMission(uuid.New(), "Ana Pop", "0722000000", "", "Priza nu funcționează")
	require.NoError(t, err)
	return m
}

func TestNewMission_StartsPending(t *testing.T) {
	m := newTestMission(t)
	assert.Equal(t, valueobject.MissionStatusPending, m.Status)
	assert.Nil(t, m.PhotoBefore)
	assert.Nil(t, m.PhotoAfter)
	assert.Nil(t, m.ClientEmail)
}

func TestNewMission_Validation(t *testing.T) {
	_, err := NewMission(uuid.Nil, "Ana", "07", "", "x")
	assert.True(t, apperror.IsValidation(err))

	_, err = NewMission(uuid.New(), "  ", "07", "", "x")
	assert.True(t, apperror.IsValidation(err))

	_, err = NewMission(uuid.New(), "Ana", "07", "", " ")
	assert.True(t, apperror.IsValidation(err))
}

func TestMission_HappyPath(t *testing.T) {
	m := newTestMission(t)

	require.NoError(t, m.Accept())
	require.NoError(t, m.BeginWork("https://cdn/before.jpg"))
	assert.Equal(t, valueobject.MissionStatusInProgress, m.Status)
	require.NotNil(t, m.PhotoBefore)
	assert.Nil(t, m.PhotoAfter)

	require.NoError(t, m.FinishWork("https://cdn/after.jpg"))
	assert.Equal(t, valueobject.MissionStatusCompleted, m.Status)
	assert.Equal(t, "https://cdn/before.jpg", *m.PhotoBefore)
	assert.Equal(t, "https://cdn/after.jpg", *m.PhotoAfter)
}

func TestMission_EvidenceGate(t *testing.T) {
	m := newTestMission(t)
	require.NoError(t, m.Accept())

	err := m.BeginWork("")
	assert.True(t, errors.Is(err, apperror.ErrEvidenceRequired))
	assert.Equal(t, valueobject.MissionStatusAccepted, m.Status)

	tr, _ := valueobject.Lookup(valueobject.MissionStatusAccepted, valueobject.ActionCancel)
	err = m.Apply(tr, "data:image/jpeg;base64,AAAA")
	assert.True(t, errors.Is(err, apperror.ErrEvidenceNotAllowed))
	assert.Equal(t, valueobject.MissionStatusAccepted, m.Status)
}

func TestMission_IllegalTransitionHasNoSideEffects(t *testing.T) {
	m := newTestMission(t)
	before := *m

	err := m.FinishWork("photo")
	assert.True(t, errors.Is(err, apperror.ErrIllegalTransition))
	assert.Equal(t, before, *m)

	require.NoError(t, m.Reject())
	assert.Error(t, m.Accept())
	assert.Error(t, m.Cancel())
	assert.Equal(t, valueobject.MissionStatusRejected, m.Status)
}

func TestMission_CancelKeepsEvidence(t *testing.T) {
	m := newTestMission(t)
	require.NoError(t, m.Accept())
	require.NoError(t, m.BeginWork("before"))
	require.NoError(t, m.Cancel())

	assert.Equal(t, valueobject.MissionStatusCancelled, m.Status)
	assert.Equal(t, "before", *m.PhotoBefore)
	assert.Error(t, m.FinishWork("after"))
}

func TestPartitionMissions(t *testing.T) {
	statuses := []valueobject.MissionStatus{
		valueobject.MissionStatusCompleted,
		valueobject.MissionStatusPending,
		valueobject.MissionStatusRejected,
		valueobject.MissionStatusInProgress,
		valueobject.MissionStatusCancelled,
		valueobject.MissionStatusAccepted,
	}
	var all []*Mission
	for _, s := range statuses {
		all = append(all, &Mission{ID: uuid.New(), Status: s})
	}

	active, historical := PartitionMissions(all)
	assert.Len(t, active, 3)
	assert.Len(t, historical, 3)
	assert.Equal(t, all[1].ID, active[0].ID)
	assert.Equal(t, all[3].ID, active[1].ID)
	assert.Equal(t, all[5].ID, active[2].ID)
	assert.Equal(t, all[0].ID, historical[0].ID)

	// идемпотентность
	active2, historical2 := PartitionMissions(all)
	assert.Equal(t, active, active2)
	assert.Equal(t, historical, historical2)

	a, h := PartitionMissions(nil)
	assert.Empty(t, a)
	assert.Empty(t, h)
}
