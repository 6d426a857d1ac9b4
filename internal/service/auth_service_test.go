package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/superfix/superfix-backend/internal/models"
	"github.com/superfix/superfix-backend/internal/pkg/apperror"
)

// mockAdminStore реализует AdminStore для тестов.
type mockAdminStore struct {
	admins map[string]*models.Admin
}

func newMockAdminStore() *mockAdminStore {
	return &mockAdminStore{admins: make(map[string]*models.Admin)}
}

func (m *mockAdminStore) GetByUsername(ctx context.Context, username string) (*models.Admin, error) {
	if a, ok := m.admins[username]; ok {
		return a, nil
	}
	return nil, apperror.ErrInvalidCredentials
}

func (m *mockAdminStore) Upsert(ctx context.Context, admin *models.Admin) error {
	if admin.ID == uuid.Nil {
		admin.ID = uuid.New()
	}
	m.admins[admin.Username] = admin
	return nil
}

type mockHeroCredentials struct {
	heroes map[string]*models.Hero
}

func (m *mockHeroCredentials) GetByUsername(ctx context.Context, username string) (*models.Hero, error) {
	if h, ok := m.heroes[username]; ok {
		return h, nil
	}
	return nil, apperror.ErrHeroNotFound
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func newTestAuthService(t *testing.T) (*AuthService, *mockAdminStore, *models.Hero, *TokenManager) {
	t.Helper()
	admins := newMockAdminStore()
	hash := hashPassword(t, "Hero1234")
	username := "ion"
	hero := &models.Hero{ID: uuid.New(), Alias: "Ion", Username: &username, PasswordHash: &hash}
	heroes := &mockHeroCredentials{heroes: map[string]*models.Hero{"ion": hero}}
	tokens := NewTokenManager("test-secret-test-secret-test-secret", time.Hour)
	return NewAuthService(admins, heroes, tokens), admins, hero, tokens
}

func TestAuthService_AdminLogin(t *testing.T) {
	svc, _, _, tokens := newTestAuthService(t)
	ctx := context.Background()

	require.NoError(t, svc.EnsureAdmin(ctx, "admin", "secret"))

	res, err := svc.AdminLogin(ctx, LoginInput{Username: "admin", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, res.Role)

	claims, err := tokens.Parse(res.Token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, claims.Role)

	_, err = svc.AdminLogin(ctx, LoginInput{Username: "admin", Password: "wrong"})
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)

	_, err = svc.AdminLogin(ctx, LoginInput{Username: "ghost", Password: "secret"})
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)
}

func TestAuthService_HeroLogin(t *testing.T) {
	svc, _, hero, tokens := newTestAuthService(t)
	ctx := context.Background()

	res, err := svc.HeroLogin(ctx, LoginInput{Username: "ion", Password: "Hero1234"})
	require.NoError(t, err)
	assert.Equal(t, hero.ID.String(), res.HeroID)

	claims, err := tokens.Parse(res.Token)
	require.NoError(t, err)
	assert.Equal(t, hero.ID, claims.ID)
	assert.Equal(t, models.RoleHero, claims.Role)

	_, err = svc.HeroLogin(ctx, LoginInput{Username: "ion", Password: "nope"})
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)

	_, err = svc.HeroLogin(ctx, LoginInput{Username: "", Password: ""})
	assert.True(t, apperror.IsValidation(err))
}

func TestAuthService_EnsureAdminSkipsEmpty(t *testing.T) {
	svc, admins, _, _ := newTestAuthService(t)
	require.NoError(t, svc.EnsureAdmin(context.Background(), "", ""))
	assert.Empty(t, admins.admins)
}

func TestTokenManager_RejectsForeignAndExpired(t *testing.T) {
	tokens := NewTokenManager("secret-one-secret-one-secret-one", time.Minute)
	other := NewTokenManager("secret-two-secret-two-secret-two", time.Minute)

	raw, err := other.Issue(uuid.New(), models.RoleHero)
	require.NoError(t, err)
	_, err = tokens.Parse(raw)
	assert.Error(t, err)

	tokens.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	raw, err = tokens.Issue(uuid.New(), models.RoleHero)
	require.NoError(t, err)
	tokens.now = time.Now
	_, err = tokens.Parse(raw)
	assert.Error(t, err)
}
