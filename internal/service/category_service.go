package service

import (
	"context"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/superfix/superfix-backend/internal/logger"
	"github.com/superfix/superfix-backend/internal/pkg/apperror"
	"github.com/superfix/superfix-backend/internal/validation"
)

// CategoryStore - справочник категорий.
type CategoryStore interface {
	List(ctx context.Context) ([]string, error)
	Add(ctx context.Context, name string) error
	Remove(ctx context.Context, name string) error
}

// HeroCategorySource - категории, фактически указанные у героев.
type HeroCategorySource interface {
	ListCategories(ctx context.Context) ([]string, error)
}

type CategoryService struct {
	store    CategoryStore
	heroes   HeroCategorySource
	cache    Cache
	cacheTTL time.Duration
}

func NewCategoryService(store CategoryStore, heroes HeroCategorySource, cache Cache, cacheTTL time.Duration) *CategoryService {
	return &CategoryService{store: store, heroes: heroes, cache: cache, cacheTTL: cacheTTL}
}

// List возвращает объединение справочника и категорий героев,
// без дублей, отсортированное по румынским правилам.
func (s *CategoryService) List(ctx context.Context) ([]string, error) {
	return GetOrSet(ctx, s.cache, CacheKeyCategories, s.cacheTTL, func() ([]string, error) {
		stored, err := s.store.List(ctx)
		if err != nil {
			return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить категории")
		}
		fromHeroes, err := s.heroes.ListCategories(ctx)
		if err != nil {
			return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить категории героев")
		}
		return MergeCategories(stored, fromHeroes), nil
	})
}

// MergeCategories объединяет списки как множества. Сравнение точное,
// пробелы по краям отбрасываются.
func MergeCategories(lists ...[]string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, list := range lists {
		for _, raw := range list {
			name := strings.TrimSpace(raw)
			if name == "" {
				continue
			}
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			out = append(out, name)
		}
	}
	collate.New(language.Romanian).SortStrings(out)
	return out
}

// Add добавляет категорию. Повторное добавление ничего не меняет.
func (s *CategoryService) Add(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if err := validation.ValidateRequired("название категории", name); err != nil {
		return err
	}
	if err := validation.ValidateLength("название категории", name, 0, validation.MaxCategoryLength); err != nil {
		return err
	}
	if err := s.store.Add(ctx, name); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось добавить категорию")
	}
	s.invalidate(ctx)
	return nil
}

// Remove удаляет категорию из справочника. Герои с этой категорией
// не меняются, поэтому она может остаться в списке через них.
func (s *CategoryService) Remove(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return apperror.Validation("название категории обязательно")
	}
	if err := s.store.Remove(ctx, name); err != nil && !apperror.IsNotFound(err) {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось удалить категорию")
	}
	s.invalidate(ctx)
	return nil
}

func (s *CategoryService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateByPrefix(ctx, CacheKeyCategories); err != nil {
		logger.WithComponent("categories").WithError(err).Warn("не удалось сбросить кэш категорий")
	}
}
