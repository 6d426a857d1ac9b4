package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/superfix/superfix-backend/internal/logger"
	"github.com/superfix/superfix-backend/internal/models"
	"github.com/superfix/superfix-backend/internal/pkg/apperror"
	"github.com/superfix/superfix-backend/internal/validation"
)

// ApplicationStore описывает хранилище анкет кандидатов.
type ApplicationStore interface {
	Create(ctx context.Context, app *models.Application) error
	List(ctx context.Context) ([]models.Application, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Application, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Promote(ctx context.Context, appID uuid.UUID, hero *models.Hero) error
}

// ApplicationService - набор героев: анкета, приём, отказ.
type ApplicationService struct {
	apps       ApplicationStore
	cache      Cache
	passwordFn func() (string, error)
	hashCost   int
}

func NewApplicationService(apps ApplicationStore, cache Cache) *ApplicationService {
	return &ApplicationService{
		apps:       apps,
		cache:      cache,
		passwordFn: validation.GenerateHeroPassword,
		hashCost:   bcrypt.DefaultCost,
	}
}

// ApplicationInput - публичная анкета.
type ApplicationInput struct {
	Name     string
	Phone    string
	Email    string
	Category string
	Message  string
}

// AcceptResult - созданный герой и его стартовые учётные данные.
// Пароль возвращается один раз, в базе лежит только хеш.
type AcceptResult struct {
	Hero     *models.Hero `json:"hero"`
	Username string       `json:"username"`
	Password string       `json:"password"`
}

func (s *ApplicationService) Submit(ctx context.Context, in ApplicationInput) (*models.Application, error) {
	name := strings.TrimSpace(in.Name)
	if err := validation.ValidateRequired("имя", name); err != nil {
		return nil, err
	}
	if err := validation.ValidateLength("имя", name, 0, validation.MaxNameLength); err != nil {
		return nil, err
	}
	if err := validation.ValidatePhone(in.Phone); err != nil {
		return nil, err
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if err := validation.ValidateEmail(email); err != nil {
		return nil, err
	}
	category := strings.TrimSpace(in.Category)
	if category == "" {
		category = "Altele"
	}

	app := &models.Application{
		ID:       uuid.New(),
		Name:     name,
		Phone:    strings.TrimSpace(in.Phone),
		Email:    email,
		Category: category,
	}
	if msg := strings.TrimSpace(in.Message); msg != "" {
		app.Message = &msg
	}

	if err := s.apps.Create(ctx, app); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось сохранить анкету")
	}
	logger.WithComponent("applications").WithField("application_id", app.ID).Info("новая анкета героя")
	return app, nil
}

func (s *ApplicationService) List(ctx context.Context) ([]models.Application, error) {
	apps, err := s.apps.List(ctx)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить анкеты")
	}
	return apps, nil
}

// Reject удаляет анкету без создания героя.
func (s *ApplicationService) Reject(ctx context.Context, id uuid.UUID) error {
	return s.apps.Delete(ctx, id)
}

// Accept превращает анкету в героя и удаляет её в той же транзакции.
func (s *ApplicationService) Accept(ctx context.Context, id uuid.UUID) (*AcceptResult, error) {
	app, err := s.apps.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	password, err := s.passwordFn()
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось сгенерировать пароль")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось захешировать пароль")
	}

	username := UsernameFromEmail(app.Email)
	hashStr := string(hash)
	phone, email := app.Phone, app.Email
	hero := &models.Hero{
		ID:           uuid.New(),
		Alias:        app.Name,
		Category:     app.Category,
		HourlyRate:   models.DefaultHourlyRate,
		TrustFactor:  models.DefaultTrustFactor,
		Phone:        &phone,
		Email:        &email,
		ActionAreas:  pq.StringArray{},
		Username:     &username,
		PasswordHash: &hashStr,
	}
	if app.Message != nil {
		hero.Description = *app.Message
	}

	if err := s.apps.Promote(ctx, app.ID, hero); err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.InvalidateByPrefix(ctx, CachePrefixHeroes); err != nil {
			logger.WithComponent("applications").WithError(err).Warn("не удалось сбросить кэш героев")
		}
	}
	logger.WithComponent("applications").WithFields(logrus.Fields{
		"application_id": app.ID,
		"hero_id":        hero.ID,
	}).Info("анкета принята, герой создан")

	return &AcceptResult{Hero: hero, Username: username, Password: password}, nil
}

// UsernameFromEmail - логин героя: локальная часть email в нижнем регистре.
func UsernameFromEmail(email string) string {
	email = strings.ToLower(strings.TrimSpace(email))
	if at := strings.Index(email, "@"); at >= 0 {
		return email[:at]
	}
	return email
}
