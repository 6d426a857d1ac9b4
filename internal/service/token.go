package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/superfix/superfix-backend/internal/models"
)

// Claims - полезная нагрузка access токена.
type Claims struct {
	ID   uuid.UUID
	Role string
}

// TokenManager отвечает за выпуск и проверку JWT.
type TokenManager struct {
	secret    []byte
	accessTTL time.Duration
	now       func() time.Time
}

// NewTokenManager создаёт менеджер токенов.
func NewTokenManager(secret string, accessTTL time.Duration) *TokenManager {
	return &TokenManager{
		secret:    []byte(secret),
		accessTTL: accessTTL,
		now:       time.Now,
	}
}

// Issue выпускает HS256 токен с клеймами id, role, iat, exp.
func (m *TokenManager) Issue(id uuid.UUID, role string) (string, error) {
	now := m.now()
	claims := jwt.MapClaims{
		"id":   id.String(),
		"role": role,
		"iat":  now.Unix(),
		"exp":  now.Add(m.accessTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Parse проверяет подпись и срок действия, возвращает клеймы.
func (m *TokenManager) Parse(raw string) (*Claims, error) {
	parsed, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(m.now))
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}

	mapClaims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, jwt.ErrTokenInvalidClaims
	}

	rawID, _ := mapClaims["id"].(string)
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, jwt.ErrTokenInvalidClaims
	}

	role, _ := mapClaims["role"].(string)
	if role != models.RoleAdmin && role != models.RoleHero {
		return nil, errors.Join(jwt.ErrTokenInvalidClaims, errors.New("неизвестная роль"))
	}

	return &Claims{ID: id, Role: role}, nil
}
