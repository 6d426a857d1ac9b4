package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"github.com/superfix/superfix-backend/internal/domain/valueobject"
	"github.com/superfix/superfix-backend/internal/dto"
	"github.com/superfix/superfix-backend/internal/logger"
	"github.com/superfix/superfix-backend/internal/models"
	"github.com/superfix/superfix-backend/internal/pkg/apperror"
	"github.com/superfix/superfix-backend/internal/validation"
)

// HeroStore описывает хранилище героев.
type HeroStore interface {
	List(ctx context.Context) ([]models.Hero, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Hero, error)
	Create(ctx context.Context, hero *models.Hero) error
	Update(ctx context.Context, hero *models.Hero) error
	UpdateProfile(ctx context.Context, hero *models.Hero) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ReviewLister - отзывы для карточки героя.
type ReviewLister interface {
	ListByHeroID(ctx context.Context, heroID uuid.UUID) ([]models.Review, error)
}

// HeroService - каталог героев и админские операции над ними.
type HeroService struct {
	heroes   HeroStore
	reviews  ReviewLister
	cache    Cache
	cacheTTL time.Duration
}

func NewHeroService(heroes HeroStore, reviews ReviewLister, cache Cache, cacheTTL time.Duration) *HeroService {
	return &HeroService{heroes: heroes, reviews: reviews, cache: cache, cacheTTL: cacheTTL}
}

// List возвращает героев, подходящих под фильтр, по убыванию trust factor.
func (s *HeroService) List(ctx context.Context, filter models.HeroFilter) ([]models.Hero, error) {
	all, err := GetOrSet(ctx, s.cache, CacheKeyHeroes, s.cacheTTL, func() ([]models.Hero, error) {
		return s.heroes.List(ctx)
	})
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить список героев")
	}
	return FilterHeroes(all, filter), nil
}

// FilterHeroes применяет публичный поиск: категория без учёта регистра,
// подстрока в alias/realName, пересечение зон работы. Порядок - trust factor по убыванию.
func FilterHeroes(heroes []models.Hero, filter models.HeroFilter) []models.Hero {
	category := strings.TrimSpace(filter.Category)
	query := strings.ToLower(strings.TrimSpace(filter.Query))

	out := make([]models.Hero, 0, len(heroes))
	for _, h := range heroes {
		if category != "" && !strings.EqualFold(h.Category, category) {
			continue
		}
		if query != "" && !matchesQuery(h, query) {
			continue
		}
		if len(filter.Counties) > 0 && !valueobject.CountiesOverlap(h.ActionAreas, filter.Counties) {
			continue
		}
		out = append(out, h)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TrustFactor > out[j].TrustFactor
	})
	return out
}

func matchesQuery(h models.Hero, query string) bool {
	if strings.Contains(strings.ToLower(h.Alias), query) {
		return true
	}
	return h.RealName != nil && strings.Contains(strings.ToLower(*h.RealName), query)
}

// Get возвращает героя вместе с отзывами.
func (s *HeroService) Get(ctx context.Context, id uuid.UUID) (*models.Hero, error) {
	hero, err := s.heroes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	reviews, err := s.reviews.ListByHeroID(ctx, id)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить отзывы")
	}
	hero.Reviews = reviews
	return hero, nil
}

// Create создаёт героя из админской формы.
func (s *HeroService) Create(ctx context.Context, in dto.HeroPayload) (*models.Hero, error) {
	if err := validation.ValidateAlias(in.Alias); err != nil {
		return nil, err
	}
	if !in.HourlyRate.Set {
		return nil, apperror.Validation("ставка обязательна")
	}

	hero := &models.Hero{
		ID:          uuid.New(),
		TrustFactor: models.DefaultTrustFactor,
		ActionAreas: pq.StringArray{},
	}
	if in.TrustFactor != nil {
		if *in.TrustFactor < 0 || *in.TrustFactor > 100 {
			return nil, apperror.Validation("trust factor должен быть от 0 до 100")
		}
		hero.TrustFactor = *in.TrustFactor
	}
	if err := applyHeroPayload(hero, in); err != nil {
		return nil, err
	}

	if err := s.heroes.Create(ctx, hero); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return hero, nil
}

// Update перезаписывает редактируемые поля. trustFactor и производные поля
// клиент изменить не может, пустой пароль оставляет старый.
func (s *HeroService) Update(ctx context.Context, id uuid.UUID, in dto.HeroPayload) (*models.Hero, error) {
	if err := validation.ValidateAlias(in.Alias); err != nil {
		return nil, err
	}

	hero, err := s.heroes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	hero.PasswordHash = nil
	if err := applyHeroPayload(hero, in); err != nil {
		return nil, err
	}

	if err := s.heroes.Update(ctx, hero); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return hero, nil
}

func applyHeroPayload(hero *models.Hero, in dto.HeroPayload) error {
	hero.Alias = strings.TrimSpace(in.Alias)
	hero.RealName = trimmedOrNil(in.RealName)
	if in.Description != nil {
		hero.Description = strings.TrimSpace(*in.Description)
	}
	if in.Category != nil {
		hero.Category = strings.TrimSpace(*in.Category)
	}
	if in.HourlyRate.Set {
		if err := validation.ValidateHourlyRate(in.HourlyRate.Value); err != nil {
			return err
		}
		hero.HourlyRate = in.HourlyRate.Value
	}

	if err := validation.ValidateMediaURL("avatarUrl", in.AvatarURL); err != nil {
		return err
	}
	if err := validation.ValidateMediaURL("videoUrl", in.VideoURL); err != nil {
		return err
	}
	hero.AvatarURL = trimmedOrNil(in.AvatarURL)
	hero.VideoURL = trimmedOrNil(in.VideoURL)
	hero.Phone = trimmedOrNil(in.Phone)
	hero.Email = trimmedOrNil(in.Email)
	hero.Location = trimmedOrNil(in.Location)
	hero.Powers = trimmedOrNil(in.Powers)

	if in.ActionAreas != nil {
		areas, err := valueobject.NormalizeCounties(in.ActionAreas)
		if err != nil {
			return err
		}
		hero.ActionAreas = areas
	}
	if hero.ActionAreas == nil {
		hero.ActionAreas = pq.StringArray{}
	}

	if in.Username != nil {
		hero.Username = trimmedOrNil(in.Username)
	}
	if in.Password != "" {
		if err := validation.ValidatePassword(in.Password); err != nil {
			return err
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			return apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось захешировать пароль")
		}
		h := string(hash)
		hero.PasswordHash = &h
	}
	return nil
}

func (s *HeroService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.heroes.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// OnboardingInput - данные, которые герой заполняет сам.
type OnboardingInput struct {
	HeroID      uuid.UUID
	Alias       string
	Description string
	HourlyRate  valueobject.FlexibleFloat
	ActionAreas []string
	AvatarURL   string
	VideoURL    string
}

// SubmitOnboarding сохраняет профиль героя после онбординга.
func (s *HeroService) SubmitOnboarding(ctx context.Context, in OnboardingInput) error {
	if err := validation.ValidateAlias(in.Alias); err != nil {
		return err
	}

	hero, err := s.heroes.GetByID(ctx, in.HeroID)
	if err != nil {
		return err
	}

	hero.Alias = strings.TrimSpace(in.Alias)
	hero.Description = strings.TrimSpace(in.Description)
	if in.HourlyRate.Set {
		if err := validation.ValidateHourlyRate(in.HourlyRate.Value); err != nil {
			return err
		}
		hero.HourlyRate = in.HourlyRate.Value
	}
	areas, err := valueobject.NormalizeCounties(in.ActionAreas)
	if err != nil {
		return err
	}
	hero.ActionAreas = areas

	avatar, video := in.AvatarURL, in.VideoURL
	if err := validation.ValidateMediaURL("avatarUrl", &avatar); err != nil {
		return err
	}
	if err := validation.ValidateMediaURL("videoUrl", &video); err != nil {
		return err
	}
	if avatar != "" {
		hero.AvatarURL = &avatar
	}
	if video != "" {
		hero.VideoURL = &video
	}

	if err := s.heroes.UpdateProfile(ctx, hero); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *HeroService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateByPrefix(ctx, CachePrefixHeroes); err != nil {
		logger.WithComponent("heroes").WithError(err).Warn("не удалось сбросить кэш героев")
	}
	if err := s.cache.InvalidateByPrefix(ctx, CacheKeyCategories); err != nil {
		logger.WithComponent("heroes").WithError(err).Warn("не удалось сбросить кэш категорий")
	}
}

func trimmedOrNil(v *string) *string {
	if v == nil {
		return nil
	}
	s := strings.TrimSpace(*v)
	if s == "" {
		return nil
	}
	return &s
}
