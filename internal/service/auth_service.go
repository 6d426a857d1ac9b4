package service

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/superfix/superfix-backend/internal/logger"
	"github.com/superfix/superfix-backend/internal/models"
	"github.com/superfix/superfix-backend/internal/pkg/apperror"
)

// AdminStore описывает хранилище администраторов.
type AdminStore interface {
	GetByUsername(ctx context.Context, username string) (*models.Admin, error)
	Upsert(ctx context.Context, admin *models.Admin) error
}

// HeroCredentialStore - поиск героя по логину.
type HeroCredentialStore interface {
	GetByUsername(ctx context.Context, username string) (*models.Hero, error)
}

// AuthService выпускает токены администраторам и героям.
type AuthService struct {
	admins AdminStore
	heroes HeroCredentialStore
	tokens *TokenManager
}

// LoginInput содержит данные для входа.
type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResult - ответ на успешный вход.
type LoginResult struct {
	Token  string `json:"token"`
	Role   string `json:"role"`
	HeroID string `json:"heroId,omitempty"`
}

func NewAuthService(admins AdminStore, heroes HeroCredentialStore, tokens *TokenManager) *AuthService {
	return &AuthService{admins: admins, heroes: heroes, tokens: tokens}
}

// AdminLogin проверяет учётные данные администратора.
func (s *AuthService) AdminLogin(ctx context.Context, in LoginInput) (*LoginResult, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" || in.Password == "" {
		return nil, apperror.Validation("логин и пароль обязательны")
	}

	admin, err := s.admins.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperror.ErrInvalidCredentials) {
			return nil, apperror.ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(in.Password)); err != nil {
		return nil, apperror.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(admin.ID, models.RoleAdmin)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось выпустить токен")
	}
	return &LoginResult{Token: token, Role: models.RoleAdmin}, nil
}

// HeroLogin проверяет учётные данные героя.
func (s *AuthService) HeroLogin(ctx context.Context, in LoginInput) (*LoginResult, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" || in.Password == "" {
		return nil, apperror.Validation("логин и пароль обязательны")
	}

	hero, err := s.heroes.GetByUsername(ctx, username)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.ErrInvalidCredentials
		}
		return nil, err
	}
	if hero.PasswordHash == nil {
		return nil, apperror.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*hero.PasswordHash), []byte(in.Password)); err != nil {
		return nil, apperror.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(hero.ID, models.RoleHero)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось выпустить токен")
	}
	return &LoginResult{Token: token, Role: models.RoleHero, HeroID: hero.ID.String()}, nil
}

// EnsureAdmin создаёт или обновляет администратора из конфигурации.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		logger.WithComponent("auth").Warn("ADMIN_USERNAME/ADMIN_PASSWORD не заданы, администратор не создан")
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось захешировать пароль")
	}
	return s.admins.Upsert(ctx, &models.Admin{Username: username, PasswordHash: string(hash)})
}
