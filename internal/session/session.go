// Package session хранит состояние портала между запусками CLI:
// токен, роль, id героя, согласие на аналитику и отметки об отзывах.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/golang-jwt/jwt/v5"
	"gopkg.in/yaml.v3"
)

// Consent - выбор пользователя в баннере cookie.
type Consent string

const (
	ConsentUnset    Consent = ""
	ConsentAccepted Consent = "accepted"
	ConsentDeclined Consent = "declined"
)

const (
	RoleAdmin = "ADMIN"
	RoleHero  = "HERO"
)

var ErrNoHeroID = errors.New("session: в токене нет id героя")

type state struct {
	Token    string          `yaml:"token,omitempty"`
	Role     string          `yaml:"role,omitempty"`
	HeroID   string          `yaml:"hero_id,omitempty"`
	Consent  Consent         `yaml:"cookie_consent,omitempty"`
	Reviewed map[string]bool `yaml:"reviewed,omitempty"`
}

// Session - явный контекст вместо глобального хранилища браузера.
// Hydrate при старте, Logout при выходе.
type Session struct {
	mu    sync.RWMutex
	path  string
	state state
}

// Hydrate читает файл сессии. Отсутствующий файл - пустая сессия,
// пустой path - сессия только в памяти.
func Hydrate(path string) (*Session, error) {
	s := &Session{path: path}
	if path == "" {
		return s, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("session: не удалось прочитать %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &s.state); err != nil {
		return nil, fmt.Errorf("session: повреждённый файл %s: %w", path, err)
	}
	return s, nil
}

// Login запоминает токен. Для героя id берётся из payload токена.
func (s *Session) Login(token, role string) error {
	heroID := ""
	if role == RoleHero {
		id, err := DecodeHeroID(token)
		if err != nil {
			return err
		}
		heroID = id
	}

	s.mu.Lock()
	s.state.Token, s.state.Role, s.state.HeroID = token, role, heroID
	s.mu.Unlock()
	return s.Save()
}

// Logout стирает учётные данные. Согласие и отметки отзывов остаются.
func (s *Session) Logout() error {
	s.mu.Lock()
	s.state.Token, s.state.Role, s.state.HeroID = "", "", ""
	s.mu.Unlock()
	return s.Save()
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Token
}

func (s *Session) Role() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Role
}

func (s *Session) HeroID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.HeroID
}

func (s *Session) LoggedIn() bool {
	return s.Token() != ""
}

func (s *Session) Consent() Consent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Consent
}

func (s *Session) SetConsent(c Consent) error {
	if c != ConsentAccepted && c != ConsentDeclined {
		return fmt.Errorf("session: неизвестное значение согласия %q", c)
	}
	s.mu.Lock()
	s.state.Consent = c
	s.mu.Unlock()
	return s.Save()
}

// AnalyticsAllowed - можно ли отправлять pageview.
func (s *Session) AnalyticsAllowed() bool {
	return s.Consent() == ConsentAccepted
}

// HasReviewed - мягкая отметка "уже оставлял отзыв этому герою".
func (s *Session) HasReviewed(heroID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Reviewed[heroID]
}

func (s *Session) MarkReviewed(heroID string) error {
	s.mu.Lock()
	if s.state.Reviewed == nil {
		s.state.Reviewed = make(map[string]bool)
	}
	s.state.Reviewed[heroID] = true
	s.mu.Unlock()
	return s.Save()
}

// Save пишет файл сессии атомарно. Пустой path - сессия только в памяти.
func (s *Session) Save() error {
	if s.path == "" {
		return nil
	}
	s.mu.RLock()
	data, err := yaml.Marshal(&s.state)
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("session: не удалось сериализовать: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("session: не удалось создать каталог: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("session: не удалось записать: %w", err)
	}
	return os.Rename(tmp, s.path)
}

// DecodeHeroID читает claim id без проверки подписи.
// Только для отображения: авторизацию проверяет сервер.
func DecodeHeroID(token string) (string, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return "", fmt.Errorf("session: не удалось разобрать токен: %w", err)
	}
	id, ok := claims["id"].(string)
	if !ok || id == "" {
		return "", ErrNoHeroID
	}
	return id, nil
}
