package portal

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/superfix/superfix-backend/internal/domain/valueobject"
	appdto "github.com/superfix/superfix-backend/internal/dto"
	"github.com/superfix/superfix-backend/internal/interface/http/dto"
	"github.com/superfix/superfix-backend/internal/models"
	"github.com/superfix/superfix-backend/internal/pkg/apperror"
)

type statusCall struct {
	id, status, photo string
}

type fakeAPI struct {
	mu       sync.Mutex
	missions []dto.MissionResponse
	hero     models.Hero
	calls    []statusCall
	entered  chan struct{}
	release  chan struct{}
	failWith error
}

func newFakeAPI(missions ...dto.MissionResponse) *fakeAPI {
	return &fakeAPI{missions: missions, hero: models.Hero{TrustFactor: 50}}
}

func (f *fakeAPI) MyMissions(_ context.Context, _ string) ([]dto.MissionResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]dto.MissionResponse(nil), f.missions...), nil
}

func (f *fakeAPI) GetHero(_ context.Context, _ string) (*models.Hero, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	h := f.hero
	return &h, nil
}

func (f *fakeAPI) UpdateMissionStatus(_ context.Context, id, status, photo string) (*dto.MissionResponse, error) {
	if f.entered != nil {
		f.entered <- struct{}{}
		<-f.release
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, statusCall{id, status, photo})
	if f.failWith != nil {
		return nil, f.failWith
	}
	for i := range f.missions {
		if f.missions[i].ID == id {
			f.missions[i].Status = status
			if status == string(valueobject.MissionStatusCompleted) {
				f.hero.MissionsCompleted++
				f.hero.TrustFactor++
			}
			m := f.missions[i]
			return &m, nil
		}
	}
	return nil, apperror.ErrMissionNotFound
}

func (f *fakeAPI) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func mission(id, status string) dto.MissionResponse {
	return dto.MissionResponse{ID: id, Status: status, ClientName: "Ion", Description: "robinet"}
}

func photoOK(dataURL string) EvidenceFunc {
	return func(context.Context) (string, bool, error) { return dataURL, true, nil }
}

func noCapture(t *testing.T) EvidenceFunc {
	return func(context.Context) (string, bool, error) {
		t.Fatal("камера не должна открываться")
		return "", false, nil
	}
}

func TestPartition(t *testing.T) {
	all := []dto.MissionResponse{
		mission("1", "PENDING"),
		mission("2", "COMPLETED"),
		mission("3", "IN_PROGRESS"),
		mission("4", "REJECTED"),
		mission("5", "ACCEPTED"),
		mission("6", "CANCELLED"),
		mission("7", "ARCHIVED"),
	}

	active, history := Partition(all)
	assert.Len(t, active, 4)
	assert.Len(t, history, 3)
	assert.Equal(t, len(all), len(active)+len(history))

	ids := func(list []dto.MissionResponse) []string {
		out := make([]string, 0, len(list))
		for _, m := range list {
			out = append(out, m.ID)
		}
		return out
	}
	assert.Equal(t, []string{"1", "3", "5", "7"}, ids(active))
	assert.Equal(t, []string{"2", "4", "6"}, ids(history))

	again, none := Partition(active)
	assert.Equal(t, active, again)
	assert.Empty(t, none)
}

func TestPartition_Empty(t *testing.T) {
	active, history := Partition(nil)
	assert.NotNil(t, active)
	assert.NotNil(t, history)
	assert.Empty(t, active)
	assert.Empty(t, history)
}

func TestController_Refresh(t *testing.T) {
	api := newFakeAPI(mission("a", "PENDING"), mission("b", "COMPLETED"))
	api.hero = models.Hero{TrustFactor: 72, MissionsCompleted: 9}
	c := NewController(api, nil, uuid.NewString())

	require.NoError(t, c.Refresh(context.Background()))
	b := c.Board()
	assert.Len(t, b.Active, 1)
	assert.Len(t, b.History, 1)
	assert.Equal(t, Stats{TrustFactor: 72, MissionsCompleted: 9}, b.Stats)

	_, ok := b.Find("b")
	assert.True(t, ok)
	_, ok = b.Find("zzz")
	assert.False(t, ok)
}

func TestController_IllegalTransitionMakesNoCall(t *testing.T) {
	api := newFakeAPI(mission("a", "PENDING"), mission("b", "COMPLETED"))
	c := NewController(api, noCapture(t), "")

	err := c.Perform(context.Background(), mission("a", "PENDING"), valueobject.ActionFinish)
	assert.ErrorIs(t, err, apperror.ErrIllegalTransition)

	err = c.Perform(context.Background(), mission("b", "COMPLETED"), valueobject.ActionCancel)
	assert.ErrorIs(t, err, apperror.ErrIllegalTransition)

	assert.Zero(t, api.callCount())
}

func TestController_AcceptWithoutPhoto(t *testing.T) {
	api := newFakeAPI(mission("a", "PENDING"))
	c := NewController(api, noCapture(t), "")

	require.NoError(t, c.Perform(context.Background(), mission("a", "PENDING"), valueobject.ActionAccept))
	require.Equal(t, 1, api.callCount())
	assert.Equal(t, statusCall{"a", "ACCEPTED", ""}, api.calls[0])
	assert.Equal(t, "ACCEPTED", c.Board().Active[0].Status)
}

func TestController_FinishMovesToHistory(t *testing.T) {
	api := newFakeAPI(mission("a", "IN_PROGRESS"))
	api.hero = models.Hero{TrustFactor: 60, MissionsCompleted: 2}
	c := NewController(api, photoOK("data:image/jpeg;base64,QUJD"), uuid.NewString())
	require.NoError(t, c.Refresh(context.Background()))

	require.NoError(t, c.PerformByID(context.Background(), "a", valueobject.ActionFinish))

	require.Equal(t, 1, api.callCount())
	assert.Equal(t, statusCall{"a", "COMPLETED", "data:image/jpeg;base64,QUJD"}, api.calls[0])

	b := c.Board()
	assert.Empty(t, b.Active)
	require.Len(t, b.History, 1)
	assert.Equal(t, "COMPLETED", b.History[0].Status)
	assert.Equal(t, Stats{TrustFactor: 61, MissionsCompleted: 3}, b.Stats)
}

func TestController_BeginSendsPhoto(t *testing.T) {
	api := newFakeAPI(mission("a", "ACCEPTED"))
	c := NewController(api, photoOK("data:image/jpeg;base64,AAAA"), "")

	require.NoError(t, c.Perform(context.Background(), mission("a", "ACCEPTED"), valueobject.ActionBegin))
	assert.Equal(t, statusCall{"a", "IN_PROGRESS", "data:image/jpeg;base64,AAAA"}, api.calls[0])
}

func TestController_CameraDeniedMakesNoCall(t *testing.T) {
	api := newFakeAPI(mission("a", "ACCEPTED"))
	denied := errors.New("камера недоступна")
	c := NewController(api, EvidenceFunc(func(context.Context) (string, bool, error) {
		return "", false, denied
	}), "")
	require.NoError(t, c.Refresh(context.Background()))

	err := c.PerformByID(context.Background(), "a", valueobject.ActionBegin)
	assert.ErrorIs(t, err, denied)
	assert.Zero(t, api.callCount())
	assert.Equal(t, "ACCEPTED", c.Board().Active[0].Status)
}

func TestController_CaptureCancelled(t *testing.T) {
	api := newFakeAPI(mission("a", "IN_PROGRESS"))
	c := NewController(api, EvidenceFunc(func(context.Context) (string, bool, error) {
		return "", false, nil
	}), "")

	err := c.Perform(context.Background(), mission("a", "IN_PROGRESS"), valueobject.ActionFinish)
	assert.ErrorIs(t, err, ErrCaptureCancelled)
	assert.Zero(t, api.callCount())
}

func TestController_InFlightGuard(t *testing.T) {
	api := newFakeAPI(mission("a", "PENDING"))
	api.entered = make(chan struct{})
	api.release = make(chan struct{})
	c := NewController(api, noCapture(t), "")

	done := make(chan error, 1)
	go func() {
		done <- c.Perform(context.Background(), mission("a", "PENDING"), valueobject.ActionAccept)
	}()
	<-api.entered

	err := c.Perform(context.Background(), mission("a", "PENDING"), valueobject.ActionReject)
	assert.ErrorIs(t, err, ErrTransitionInFlight)

	close(api.release)
	require.NoError(t, <-done)
	assert.Equal(t, 1, api.callCount())
}

func TestController_ServerErrorKeepsBoard(t *testing.T) {
	api := newFakeAPI(mission("a", "PENDING"))
	c := NewController(api, noCapture(t), "")
	require.NoError(t, c.Refresh(context.Background()))
	api.failWith = apperror.ErrIllegalTransition

	err := c.PerformByID(context.Background(), "a", valueobject.ActionAccept)
	assert.ErrorIs(t, err, apperror.ErrIllegalTransition)
	assert.Equal(t, "PENDING", c.Board().Active[0].Status)
}

func TestController_Closed(t *testing.T) {
	api := newFakeAPI(mission("a", "PENDING"))
	c := NewController(api, noCapture(t), "")
	c.Close()

	assert.ErrorIs(t, c.Refresh(context.Background()), ErrClosed)
	assert.Empty(t, c.Board().Active)

	err := c.Perform(context.Background(), mission("a", "PENDING"), valueobject.ActionAccept)
	assert.ErrorIs(t, err, ErrClosed)
	assert.Zero(t, api.callCount())
}

func TestController_UnknownMission(t *testing.T) {
	c := NewController(newFakeAPI(), noCapture(t), "")
	assert.ErrorIs(t, c.PerformByID(context.Background(), "nope", valueobject.ActionAccept), ErrMissionNotLoaded)
}

type contactRecorder struct {
	calls int
}

func (r *contactRecorder) CreateRequest(_ context.Context, form dto.CreateRequestRequest) (*dto.MissionResponse, error) {
	r.calls++
	m := mission(uuid.NewString(), "PENDING")
	m.HeroID = form.HeroID
	return &m, nil
}

func validContact() dto.CreateRequestRequest {
	return dto.CreateRequestRequest{
		HeroID:        uuid.NewString(),
		ClientName:    "Maria",
		ClientPhone:   "+40 722 123 456",
		ClientEmail:   "maria@example.ro",
		Description:   "Ușa de la intrare nu se mai închide",
		TermsAccepted: true,
	}
}

func TestSubmitContact(t *testing.T) {
	api := &contactRecorder{}
	m, err := SubmitContact(context.Background(), api, validContact())
	require.NoError(t, err)
	assert.Equal(t, "PENDING", m.Status)
	assert.Equal(t, 1, api.calls)
}

func TestSubmitContact_InvalidFormMakesNoCall(t *testing.T) {
	cases := map[string]func(*dto.CreateRequestRequest){
		"terms":       func(f *dto.CreateRequestRequest) { f.TermsAccepted = false },
		"hero":        func(f *dto.CreateRequestRequest) { f.HeroID = " " },
		"name":        func(f *dto.CreateRequestRequest) { f.ClientName = "" },
		"phone":       func(f *dto.CreateRequestRequest) { f.ClientPhone = "call me" },
		"email":       func(f *dto.CreateRequestRequest) { f.ClientEmail = "maria" },
		"description": func(f *dto.CreateRequestRequest) { f.Description = "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			api := &contactRecorder{}
			form := validContact()
			mutate(&form)
			_, err := SubmitContact(context.Background(), api, form)
			assert.Error(t, err)
			assert.Zero(t, api.calls)
		})
	}

	_, err := SubmitContact(context.Background(), &contactRecorder{}, dto.CreateRequestRequest{})
	assert.ErrorIs(t, err, apperror.ErrTermsNotAccepted)
}

type reviewRecorder struct {
	calls int
	err   error
}

func (r *reviewRecorder) CreateReview(_ context.Context, req appdto.CreateReviewRequest) (*models.Review, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return &models.Review{ID: uuid.New(), Rating: req.Rating}, nil
}

type marks map[string]bool

func (m marks) HasReviewed(id string) bool { return m[id] }
func (m marks) MarkReviewed(id string) error {
	m[id] = true
	return nil
}

func TestSubmitReview(t *testing.T) {
	heroID := uuid.NewString()
	api := &reviewRecorder{}
	seen := marks{}
	req := appdto.CreateReviewRequest{HeroID: heroID, ClientName: "Ana", Rating: 5, Comment: "Rapid"}

	require.True(t, CanReview(seen, heroID))
	_, err := SubmitReview(context.Background(), api, seen, req)
	require.NoError(t, err)
	assert.True(t, seen[heroID])
	assert.False(t, CanReview(seen, heroID))

	_, err = SubmitReview(context.Background(), api, seen, req)
	assert.ErrorIs(t, err, ErrAlreadyReviewed)
	assert.Equal(t, 1, api.calls)
}

func TestSubmitReview_Validation(t *testing.T) {
	api := &reviewRecorder{}
	seen := marks{}

	_, err := SubmitReview(context.Background(), api, seen, appdto.CreateReviewRequest{HeroID: "h", ClientName: "Ana", Rating: 6})
	assert.True(t, apperror.IsValidation(err))
	_, err = SubmitReview(context.Background(), api, seen, appdto.CreateReviewRequest{HeroID: "h", Rating: 3})
	assert.True(t, apperror.IsValidation(err))
	assert.Zero(t, api.calls)
}

func TestSubmitReview_FailureLeavesFormOpen(t *testing.T) {
	api := &reviewRecorder{err: errors.New("сервер недоступен")}
	seen := marks{}
	_, err := SubmitReview(context.Background(), api, seen, appdto.CreateReviewRequest{HeroID: "h", ClientName: "Ana", Rating: 4})
	assert.Error(t, err)
	assert.True(t, CanReview(seen, "h"))
}

type heroRecorder struct {
	created, updated []appdto.HeroPayload
}

func (r *heroRecorder) CreateHero(_ context.Context, p appdto.HeroPayload) (*models.Hero, error) {
	r.created = append(r.created, p)
	return &models.Hero{ID: uuid.New(), Alias: p.Alias}, nil
}

func (r *heroRecorder) UpdateHero(_ context.Context, _ string, p appdto.HeroPayload) (*models.Hero, error) {
	r.updated = append(r.updated, p)
	return &models.Hero{Alias: p.Alias}, nil
}

func TestSaveHero(t *testing.T) {
	api := &heroRecorder{}

	_, err := SaveHero(context.Background(), api, "", appdto.HeroPayload{Alias: "  "})
	assert.True(t, apperror.IsValidation(err))
	assert.Empty(t, api.created)

	_, err = SaveHero(context.Background(), api, "", appdto.HeroPayload{Alias: "Tornado"})
	require.NoError(t, err)
	assert.Len(t, api.created, 1)

	_, err = SaveHero(context.Background(), api, uuid.NewString(), appdto.HeroPayload{Alias: "Tornado", Password: "  "})
	require.NoError(t, err)
	require.Len(t, api.updated, 1)
	assert.Empty(t, api.updated[0].Password)
}

type onboardingRecorder struct{ calls int }

func (r *onboardingRecorder) SubmitOnboarding(context.Context, appdto.OnboardingRequest) error {
	r.calls++
	return nil
}

func TestSubmitOnboarding(t *testing.T) {
	api := &onboardingRecorder{}
	assert.Error(t, SubmitOnboarding(context.Background(), api, appdto.OnboardingRequest{Alias: "Fulger"}))
	assert.Error(t, SubmitOnboarding(context.Background(), api, appdto.OnboardingRequest{HeroID: "x"}))
	assert.Zero(t, api.calls)

	require.NoError(t, SubmitOnboarding(context.Background(), api, appdto.OnboardingRequest{HeroID: "x", Alias: "Fulger"}))
	assert.Equal(t, 1, api.calls)
}

type adminFake struct {
	requests []dto.MissionResponse
	updates  []statusCall
	html     []byte
}

func (a *adminFake) ListRequests(context.Context) ([]dto.MissionResponse, error) {
	return a.requests, nil
}

func (a *adminFake) AdminUpdateStatus(_ context.Context, id, status string) (*dto.MissionResponse, error) {
	a.updates = append(a.updates, statusCall{id: id, status: status})
	m := mission(id, status)
	return &m, nil
}

func (a *adminFake) Dossier(context.Context, string) ([]byte, error) {
	return a.html, nil
}

func TestAdmin_Requests(t *testing.T) {
	api := &adminFake{requests: []dto.MissionResponse{mission("1", "PENDING"), mission("2", "REJECTED")}}
	active, history, err := NewAdmin(api, nil).Requests(context.Background())
	require.NoError(t, err)
	assert.Len(t, active, 1)
	assert.Len(t, history, 1)
}

func TestAdmin_UpdateStatus(t *testing.T) {
	api := &adminFake{}
	admin := NewAdmin(api, nil)

	m, err := admin.UpdateStatus(context.Background(), mission("1", "ACCEPTED"), valueobject.ActionCancel)
	require.NoError(t, err)
	assert.Equal(t, "CANCELLED", m.Status)

	_, err = admin.UpdateStatus(context.Background(), mission("1", "ACCEPTED"), valueobject.ActionBegin)
	assert.True(t, apperror.IsForbidden(err))

	_, err = admin.UpdateStatus(context.Background(), mission("1", "COMPLETED"), valueobject.ActionCancel)
	assert.ErrorIs(t, err, apperror.ErrIllegalTransition)

	assert.Len(t, api.updates, 1)
}

func TestAdmin_SaveDossier(t *testing.T) {
	dir := t.TempDir()
	id := "3f2a9c1e-0000-4000-8000-000000000000"
	api := &adminFake{html: []byte("<html>dosar</html>")}

	path, err := NewAdmin(api, DirSaver{Dir: filepath.Join(dir, "out")}).SaveDossier(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, DossierFileName(id), filepath.Base(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "<html>dosar</html>", string(raw))
}
