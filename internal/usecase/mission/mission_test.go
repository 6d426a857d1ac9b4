package mission_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/superfix/superfix-backend/internal/domain/entity"
	"github.com/superfix/superfix-backend/internal/domain/repository"
	"github.com/superfix/superfix-backend/internal/domain/valueobject"
	"github.com/superfix/superfix-backend/internal/models"
	"github.com/superfix/superfix-backend/internal/pkg/apperror"
	"github.com/superfix/superfix-backend/internal/usecase/mission"
)

type mockMissionRepository struct {
	missions map[uuid.UUID]*entity.Mission
	order    []uuid.UUID
	updates  int
}

func newMockMissionRepository() *mockMissionRepository {
	return &mockMissionRepository{missions: make(map[uuid.UUID]*entity.Mission)}
}

func (m *mockMissionRepository) Create(ctx context.Context, ms *entity.Mission) error {
	cp := *ms
	m.missions[ms.ID] = &cp
	m.order = append(m.order, ms.ID)
	return nil
}

func (m *mockMissionRepository) UpdateStatus(ctx context.Context, ms *entity.Mission, expected valueobject.MissionStatus) error {
	stored, ok := m.missions[ms.ID]
	if !ok {
		return apperror.ErrMissionNotFound
	}
	if stored.Status != expected {
		return apperror.ErrIllegalTransition
	}
	m.updates++
	cp := *ms
	m.missions[ms.ID] = &cp
	return nil
}

func (m *mockMissionRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Mission, error) {
	ms, ok := m.missions[id]
	if !ok {
		return nil, apperror.ErrMissionNotFound
	}
	cp := *ms
	return &cp, nil
}

func (m *mockMissionRepository) FindByHeroID(ctx context.Context, heroID uuid.UUID) ([]*entity.Mission, error) {
	return m.List(ctx, repository.MissionFilter{HeroID: &heroID})
}

func (m *mockMissionRepository) List(ctx context.Context, filter repository.MissionFilter) ([]*entity.Mission, error) {
	var result []*entity.Mission
	for _, id := range m.order {
		ms := m.missions[id]
		if filter.HeroID != nil && ms.HeroID != *filter.HeroID {
			continue
		}
		if filter.Status != nil && ms.Status != *filter.Status {
			continue
		}
		cp := *ms
		result = append(result, &cp)
	}
	return result, nil
}

func (m *mockMissionRepository) CountByStatus(ctx context.Context, heroID uuid.UUID) (map[valueobject.MissionStatus]int, error) {
	counts := map[valueobject.MissionStatus]int{}
	for _, ms := range m.missions {
		if ms.HeroID == heroID {
			counts[ms.Status]++
		}
	}
	return counts, nil
}

type mockHeroes map[uuid.UUID]*models.Hero

func (h mockHeroes) GetByID(ctx context.Context, id uuid.UUID) (*models.Hero, error) {
	if hero, ok := h[id]; ok {
		return hero, nil
	}
	return nil, apperror.ErrHeroNotFound
}

type mockEvidence struct {
	saved []string
	err   error
}

func (e *mockEvidence) SaveEvidence(ctx context.Context, missionID uuid.UUID, slot valueobject.EvidenceSlot, dataURL string) (string, error) {
	if e.err != nil {
		return "", e.err
	}
	url := "https://cdn.test/" + missionID.String() + "/" + string(slot) + ".jpg"
	e.saved = append(e.saved, url)
	return url, nil
}

type mockStats struct {
	calls []uuid.UUID
}

func (s *mockStats) Recompute(ctx context.Context, heroID uuid.UUID) error {
	s.calls = append(s.calls, heroID)
	return nil
}

type recordedEvent struct {
	user  uuid.UUID
	event string
}

type mockEvents struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (e *mockEvents) BroadcastToUser(userID uuid.UUID, event string, data any) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, recordedEvent{user: userID, event: event})
	return nil
}

func seedMission(t *testing.T, repo *mockMissionRepository, heroID uuid.UUID, status valueobject.MissionStatus) *entity.Mission {
	t.Helper()
	m, err := entity.NewMission(heroID, "Ana", "0721000111", "", "Țeavă spartă")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m.Status = status
	if status == valueobject.MissionStatusInProgress || status == valueobject.MissionStatusCompleted {
		before := "https://cdn.test/before.jpg"
		m.PhotoBefore = &before
	}
	if err := repo.Create(context.Background(), m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return m
}

const testPhoto = "data:image/jpeg;base64,/9j/4AAQ"

func TestCreateMissionUseCase_Success(t *testing.T) {
	repo := newMockMissionRepository()
	heroID := uuid.New()
	events := &mockEvents{}
	uc := mission.NewCreateMissionUseCase(repo, mockHeroes{heroID: {ID: heroID}}, events)

	m, err := uc.Execute(context.Background(), mission.CreateMissionInput{
		HeroID:        heroID,
		ClientName:    "Ana",
		ClientPhone:   "0721 000 111",
		ClientEmail:   "ana@example.com",
		Description:   "Priză arsă",
		TermsAccepted: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Status != valueobject.MissionStatusPending {
		t.Errorf("expected PENDING, got %s", m.Status)
	}
	if len(repo.missions) != 1 {
		t.Errorf("expected 1 stored mission, got %d", len(repo.missions))
	}
	if len(events.events) != 1 || events.events[0].event != mission.EventMissionCreated || events.events[0].user != heroID {
		t.Errorf("expected mission.created for hero, got %+v", events.events)
	}
}

func TestCreateMissionUseCase_Rejections(t *testing.T) {
	repo := newMockMissionRepository()
	heroID := uuid.New()
	uc := mission.NewCreateMissionUseCase(repo, mockHeroes{heroID: {ID: heroID}}, nil)
	ctx := context.Background()

	base := mission.CreateMissionInput{
		HeroID: heroID, ClientName: "Ana", ClientPhone: "0721000111",
		Description: "Priză arsă", TermsAccepted: true,
	}

	noTerms := base
	noTerms.TermsAccepted = false
	if _, err := uc.Execute(ctx, noTerms); !errors.Is(err, apperror.ErrTermsNotAccepted) {
		t.Errorf("expected ErrTermsNotAccepted, got %v", err)
	}

	unknownHero := base
	unknownHero.HeroID = uuid.New()
	if _, err := uc.Execute(ctx, unknownHero); !apperror.IsNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}

	noName := base
	noName.ClientName = " "
	if _, err := uc.Execute(ctx, noName); !apperror.IsValidation(err) {
		t.Errorf("expected validation error, got %v", err)
	}

	badEmail := base
	badEmail.ClientEmail = "nope"
	if _, err := uc.Execute(ctx, badEmail); !apperror.IsValidation(err) {
		t.Errorf("expected validation error, got %v", err)
	}

	if len(repo.missions) != 0 {
		t.Errorf("expected no stored missions, got %d", len(repo.missions))
	}
}

func TestUpdateStatusUseCase_FullLifecycle(t *testing.T) {
	repo := newMockMissionRepository()
	heroID := uuid.New()
	evidence := &mockEvidence{}
	stats := &mockStats{}
	events := &mockEvents{}
	uc := mission.NewUpdateStatusUseCase(repo, evidence, stats, events)
	ctx := context.Background()

	m := seedMission(t, repo, heroID, valueobject.MissionStatusPending)

	steps := []struct {
		status string
		photo  string
	}{
		{"ACCEPTED", ""},
		{"IN_PROGRESS", testPhoto},
		{"COMPLETED", testPhoto},
	}
	for _, step := range steps {
		if _, err := uc.Execute(ctx, mission.UpdateStatusInput{
			MissionID: m.ID, HeroID: heroID, Status: step.status, Photo: step.photo,
		}); err != nil {
			t.Fatalf("%s: unexpected error: %v", step.status, err)
		}
	}

	stored := repo.missions[m.ID]
	if stored.Status != valueobject.MissionStatusCompleted {
		t.Errorf("expected COMPLETED, got %s", stored.Status)
	}
	if stored.PhotoBefore == nil || stored.PhotoAfter == nil {
		t.Fatal("expected both photos to be set")
	}
	if *stored.PhotoBefore != evidence.saved[0] || *stored.PhotoAfter != evidence.saved[1] {
		t.Errorf("photos do not match stored evidence: %v", evidence.saved)
	}
	if len(stats.calls) != 1 {
		t.Errorf("expected one recompute on COMPLETED, got %d", len(stats.calls))
	}
	if len(events.events) != 3 {
		t.Errorf("expected 3 status events, got %d", len(events.events))
	}
}

func TestUpdateStatusUseCase_EvidenceRules(t *testing.T) {
	repo := newMockMissionRepository()
	heroID := uuid.New()
	evidence := &mockEvidence{}
	uc := mission.NewUpdateStatusUseCase(repo, evidence, nil, nil)
	ctx := context.Background()

	accepted := seedMission(t, repo, heroID, valueobject.MissionStatusAccepted)
	_, err := uc.Execute(ctx, mission.UpdateStatusInput{MissionID: accepted.ID, HeroID: heroID, Status: "IN_PROGRESS"})
	if !errors.Is(err, apperror.ErrEvidenceRequired) {
		t.Errorf("expected ErrEvidenceRequired, got %v", err)
	}

	pending := seedMission(t, repo, heroID, valueobject.MissionStatusPending)
	_, err = uc.Execute(ctx, mission.UpdateStatusInput{MissionID: pending.ID, HeroID: heroID, Status: "ACCEPTED", Photo: testPhoto})
	if !errors.Is(err, apperror.ErrEvidenceNotAllowed) {
		t.Errorf("expected ErrEvidenceNotAllowed, got %v", err)
	}

	if len(evidence.saved) != 0 {
		t.Errorf("no evidence should be stored, got %v", evidence.saved)
	}
	if repo.updates != 0 {
		t.Errorf("expected no updates, got %d", repo.updates)
	}
}

func TestUpdateStatusUseCase_IllegalTransitions(t *testing.T) {
	repo := newMockMissionRepository()
	heroID := uuid.New()
	uc := mission.NewUpdateStatusUseCase(repo, &mockEvidence{}, nil, nil)
	ctx := context.Background()

	cases := []struct {
		from valueobject.MissionStatus
		to   string
	}{
		{valueobject.MissionStatusPending, "COMPLETED"},
		{valueobject.MissionStatusPending, "IN_PROGRESS"},
		{valueobject.MissionStatusCompleted, "PENDING"},
		{valueobject.MissionStatusRejected, "ACCEPTED"},
		{valueobject.MissionStatusCancelled, "IN_PROGRESS"},
		{valueobject.MissionStatusAccepted, "PENDING"},
	}
	for _, tc := range cases {
		m := seedMission(t, repo, heroID, tc.from)
		_, err := uc.Execute(ctx, mission.UpdateStatusInput{MissionID: m.ID, HeroID: heroID, Status: tc.to, Photo: testPhoto})
		if !errors.Is(err, apperror.ErrIllegalTransition) {
			t.Errorf("%s -> %s: expected ErrIllegalTransition, got %v", tc.from, tc.to, err)
		}
		if repo.missions[m.ID].Status != tc.from {
			t.Errorf("%s -> %s: status changed", tc.from, tc.to)
		}
	}

	m := seedMission(t, repo, heroID, valueobject.MissionStatusPending)
	if _, err := uc.Execute(ctx, mission.UpdateStatusInput{MissionID: m.ID, HeroID: heroID, Status: "DONE"}); !apperror.IsValidation(err) {
		t.Errorf("expected validation error for unknown status, got %v", err)
	}
}

func TestUpdateStatusUseCase_OtherHeroForbidden(t *testing.T) {
	repo := newMockMissionRepository()
	uc := mission.NewUpdateStatusUseCase(repo, &mockEvidence{}, nil, nil)

	m := seedMission(t, repo, uuid.New(), valueobject.MissionStatusPending)
	_, err := uc.Execute(context.Background(), mission.UpdateStatusInput{MissionID: m.ID, HeroID: uuid.New(), Status: "ACCEPTED"})
	if !apperror.IsForbidden(err) {
		t.Errorf("expected forbidden, got %v", err)
	}
}

func TestUpdateStatusUseCase_StorageFailureLeavesMissionUntouched(t *testing.T) {
	repo := newMockMissionRepository()
	heroID := uuid.New()
	uc := mission.NewUpdateStatusUseCase(repo, &mockEvidence{err: apperror.New(apperror.ErrCodeStorage, "cdn down")}, nil, nil)

	m := seedMission(t, repo, heroID, valueobject.MissionStatusAccepted)
	_, err := uc.Execute(context.Background(), mission.UpdateStatusInput{MissionID: m.ID, HeroID: heroID, Status: "IN_PROGRESS", Photo: testPhoto})
	if err == nil {
		t.Fatal("expected error")
	}
	stored := repo.missions[m.ID]
	if stored.Status != valueobject.MissionStatusAccepted || stored.PhotoBefore != nil {
		t.Errorf("mission must stay ACCEPTED without photo, got %s", stored.Status)
	}
}

func TestUpdateStatusUseCase_CancelRecomputesTrust(t *testing.T) {
	repo := newMockMissionRepository()
	heroID := uuid.New()
	stats := &mockStats{}
	uc := mission.NewUpdateStatusUseCase(repo, &mockEvidence{}, stats, nil)

	m := seedMission(t, repo, heroID, valueobject.MissionStatusInProgress)
	if _, err := uc.Execute(context.Background(), mission.UpdateStatusInput{MissionID: m.ID, HeroID: heroID, Status: "cancelled"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stats.calls) != 1 || stats.calls[0] != heroID {
		t.Errorf("expected recompute for hero, got %v", stats.calls)
	}
}

func TestAdminUpdateStatusUseCase(t *testing.T) {
	repo := newMockMissionRepository()
	heroID := uuid.New()
	uc := mission.NewAdminUpdateStatusUseCase(repo, nil, nil)
	ctx := context.Background()

	pending := seedMission(t, repo, heroID, valueobject.MissionStatusPending)
	m, err := uc.Execute(ctx, pending.ID, "REJECTED")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Status != valueobject.MissionStatusRejected {
		t.Errorf("expected REJECTED, got %s", m.Status)
	}

	accepted := seedMission(t, repo, heroID, valueobject.MissionStatusAccepted)
	if _, err := uc.Execute(ctx, accepted.ID, "IN_PROGRESS"); !apperror.IsForbidden(err) {
		t.Errorf("admin must not run evidence transitions, got %v", err)
	}
	if repo.missions[accepted.ID].Status != valueobject.MissionStatusAccepted {
		t.Error("status must not change")
	}
}

func TestListMyMissionsUseCase_Views(t *testing.T) {
	repo := newMockMissionRepository()
	heroID := uuid.New()
	statuses := []valueobject.MissionStatus{
		valueobject.MissionStatusCompleted,
		valueobject.MissionStatusPending,
		valueobject.MissionStatusRejected,
		valueobject.MissionStatusInProgress,
		valueobject.MissionStatusCancelled,
		valueobject.MissionStatusAccepted,
	}
	for _, s := range statuses {
		seedMission(t, repo, heroID, s)
	}
	seedMission(t, repo, uuid.New(), valueobject.MissionStatusPending)

	uc := mission.NewListMyMissionsUseCase(repo)
	ctx := context.Background()

	all, _ := uc.Execute(ctx, heroID, mission.ViewAll)
	active, _ := uc.Execute(ctx, heroID, mission.ViewActive)
	history, _ := uc.Execute(ctx, heroID, mission.ViewHistory)

	if len(all) != 6 || len(active) != 3 || len(history) != 3 {
		t.Fatalf("unexpected sizes: all=%d active=%d history=%d", len(all), len(active), len(history))
	}
	wantActive := []valueobject.MissionStatus{valueobject.MissionStatusPending, valueobject.MissionStatusInProgress, valueobject.MissionStatusAccepted}
	for i, m := range active {
		if m.Status != wantActive[i] {
			t.Errorf("active[%d]: expected %s, got %s", i, wantActive[i], m.Status)
		}
	}
}

func TestParseView(t *testing.T) {
	for in, want := range map[string]mission.View{"": mission.ViewAll, "ACTIVE": mission.ViewActive, "history": mission.ViewHistory} {
		got, err := mission.ParseView(in)
		if err != nil || got != want {
			t.Errorf("ParseView(%q) = %s, %v", in, got, err)
		}
	}
	if _, err := mission.ParseView("archived"); err == nil {
		t.Error("expected error for unknown view")
	}
}
