package dossier

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/superfix/superfix-backend/internal/domain/entity"
	"github.com/superfix/superfix-backend/internal/domain/valueobject"
	"github.com/superfix/superfix-backend/internal/models"
)

func completedMission() *entity.Mission {
	before := "https://cdn.test/before.jpg"
	after := "https://cdn.test/after.jpg"
	return &entity.Mission{
		ID:          uuid.MustParse("3f2b9c1a-0000-4000-8000-000000000001"),
		HeroID:      uuid.New(),
		ClientName:  "Ana",
		ClientPhone: "0721000111",
		Description: "Țeavă spartă",
		Status:      valueobject.MissionStatusCompleted,
		PhotoBefore: &before,
		PhotoAfter:  &after,
		CreatedAt:   time.Date(2026, 10, 16, 11, 5, 0, 0, time.UTC),
	}
}

func TestRender(t *testing.T) {
	html, err := Render(completedMission(), &models.Hero{Alias: "Captain Pipe"})
	require.NoError(t, err)
	out := string(html)

	assert.Contains(t, out, "ID: #3f2b9c1a")
	assert.NotContains(t, out, "3f2b9c1a-0000")
	assert.Contains(t, out, "16.10.2026")
	assert.Contains(t, out, "Captain Pipe")
	assert.Contains(t, out, `src="https://cdn.test/before.jpg"`)
	assert.Contains(t, out, "window.print()")
}

func TestRender_Deterministic(t *testing.T) {
	m := completedMission()
	a, err := Render(m, nil)
	require.NoError(t, err)
	b, err := Render(m, nil)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Contains(t, string(a), "N/A")
}

func TestRender_EscapesText(t *testing.T) {
	m := completedMission()
	m.ClientName = `<script>alert("x")</script>`
	m.PhotoAfter = nil
	bad := `javascript:alert(1)`
	m.PhotoBefore = &bad

	html, err := Render(m, &models.Hero{Alias: "<b>Volt</b>"})
	require.NoError(t, err)
	out := string(html)

	assert.NotContains(t, out, `<script>alert("x")</script>`)
	assert.Contains(t, out, "&lt;script&gt;")
	assert.Contains(t, out, "&lt;b&gt;Volt&lt;/b&gt;")
	assert.NotContains(t, out, `src="javascript:`)
	assert.Equal(t, 1, strings.Count(out, "LIPSĂ"))
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "abc", ShortID("abc"))
	assert.Equal(t, "12345678", ShortID("1234567890"))
}

func TestFormatDateTime(t *testing.T) {
	ts := time.Date(2026, 1, 5, 8, 30, 0, 0, time.UTC)
	got := FormatDateTime(ts)
	// зимой Бухарест UTC+2
	if bucharest != time.UTC {
		assert.Equal(t, "05.01.2026 10:30", got)
	} else {
		assert.Equal(t, "05.01.2026 08:30", got)
	}
}
