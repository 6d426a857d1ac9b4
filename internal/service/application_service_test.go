package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/superfix/superfix-backend/internal/models"
	"github.com/superfix/superfix-backend/internal/pkg/apperror"
)

type memoryApplicationStore struct {
	apps      map[uuid.UUID]*models.Application
	heroes    []*models.Hero
	promoteFn func(hero *models.Hero) error
}

func newMemoryApplicationStore() *memoryApplicationStore {
	return &memoryApplicationStore{apps: map[uuid.UUID]*models.Application{}}
}

func (m *memoryApplicationStore) Create(_ context.Context, app *models.Application) error {
	m.apps[app.ID] = app
	return nil
}

func (m *memoryApplicationStore) List(_ context.Context) ([]models.Application, error) {
	out := make([]models.Application, 0, len(m.apps))
	for _, a := range m.apps {
		out = append(out, *a)
	}
	return out, nil
}

func (m *memoryApplicationStore) GetByID(_ context.Context, id uuid.UUID) (*models.Application, error) {
	a, ok := m.apps[id]
	if !ok {
		return nil, apperror.ErrApplicationNotFound
	}
	return a, nil
}

func (m *memoryApplicationStore) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.apps[id]; !ok {
		return apperror.ErrApplicationNotFound
	}
	delete(m.apps, id)
	return nil
}

func (m *memoryApplicationStore) Promote(_ context.Context, appID uuid.UUID, hero *models.Hero) error {
	if m.promoteFn != nil {
		if err := m.promoteFn(hero); err != nil {
			return err
		}
	}
	m.heroes = append(m.heroes, hero)
	delete(m.apps, appID)
	return nil
}

func newTestApplicationService(store ApplicationStore) *ApplicationService {
	svc := NewApplicationService(store, nil)
	svc.passwordFn = func() (string, error) { return "Hero4242", nil }
	svc.hashCost = bcrypt.MinCost
	return svc
}

func TestApplicationService_Submit(t *testing.T) {
	store := newMemoryApplicationStore()
	svc := newTestApplicationService(store)

	app, err := svc.Submit(context.Background(), ApplicationInput{
		Name:    " Ion Popescu ",
		Phone:   "+40 721 000 111",
		Email:   "Ion.Popescu@Example.com",
		Message: "Fac instalații de 10 ani",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ion Popescu", app.Name)
	assert.Equal(t, "ion.popescu@example.com", app.Email)
	assert.Equal(t, "Altele", app.Category)
	require.NotNil(t, app.Message)
	assert.Len(t, store.apps, 1)
}

func TestApplicationService_SubmitValidation(t *testing.T) {
	store := newMemoryApplicationStore()
	svc := newTestApplicationService(store)
	ctx := context.Background()

	_, err := svc.Submit(ctx, ApplicationInput{Name: "", Phone: "0721000111", Email: "a@b.ro"})
	assert.True(t, apperror.IsValidation(err))

	_, err = svc.Submit(ctx, ApplicationInput{Name: "Ana", Phone: "12", Email: "a@b.ro"})
	assert.True(t, apperror.IsValidation(err))

	_, err = svc.Submit(ctx, ApplicationInput{Name: "Ana", Phone: "0721000111", Email: "not-an-email"})
	assert.True(t, apperror.IsValidation(err))

	assert.Empty(t, store.apps)
}

func TestApplicationService_Accept(t *testing.T) {
	store := newMemoryApplicationStore()
	svc := newTestApplicationService(store)
	ctx := context.Background()

	msg := "Zugrav cu experiență"
	app := &models.Application{
		ID: uuid.New(), Name: "Mihai", Phone: "0721000111",
		Email: "Mihai.Z@example.com", Category: "Zugrav", Message: &msg,
	}
	store.apps[app.ID] = app

	res, err := svc.Accept(ctx, app.ID)
	require.NoError(t, err)

	assert.Equal(t, "mihai.z", res.Username)
	assert.Equal(t, "Hero4242", res.Password)
	assert.Equal(t, "Mihai", res.Hero.Alias)
	assert.Equal(t, "Zugrav", res.Hero.Category)
	assert.Equal(t, msg, res.Hero.Description)
	assert.Equal(t, float64(models.DefaultHourlyRate), res.Hero.HourlyRate)
	assert.Equal(t, models.DefaultTrustFactor, res.Hero.TrustFactor)
	require.NotNil(t, res.Hero.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(*res.Hero.PasswordHash), []byte("Hero4242")))

	assert.Empty(t, store.apps)
	assert.Len(t, store.heroes, 1)
}

func TestApplicationService_AcceptUsernameTaken(t *testing.T) {
	store := newMemoryApplicationStore()
	store.promoteFn = func(*models.Hero) error { return apperror.ErrUsernameTaken }
	svc := newTestApplicationService(store)

	app := &models.Application{ID: uuid.New(), Name: "Ana", Phone: "0721000111", Email: "ana@example.com", Category: "Altele"}
	store.apps[app.ID] = app

	_, err := svc.Accept(context.Background(), app.ID)
	assert.ErrorIs(t, err, apperror.ErrUsernameTaken)
	assert.Len(t, store.apps, 1)
}

func TestApplicationService_RejectAndNotFound(t *testing.T) {
	store := newMemoryApplicationStore()
	svc := newTestApplicationService(store)
	ctx := context.Background()

	app := &models.Application{ID: uuid.New(), Name: "Ana", Email: "ana@example.com"}
	store.apps[app.ID] = app

	require.NoError(t, svc.Reject(ctx, app.ID))
	assert.True(t, apperror.IsNotFound(svc.Reject(ctx, app.ID)))

	_, err := svc.Accept(ctx, uuid.New())
	assert.True(t, apperror.IsNotFound(err))
}

func TestUsernameFromEmail(t *testing.T) {
	assert.Equal(t, "ion", UsernameFromEmail("Ion@Example.com"))
	assert.Equal(t, "plain", UsernameFromEmail(" plain "))
}
