package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/superfix/superfix-backend/internal/http/middleware"
	"github.com/superfix/superfix-backend/internal/interface/http/response"
	"github.com/superfix/superfix-backend/internal/models"
	"github.com/superfix/superfix-backend/internal/pkg/apperror"
)

func getUserID(c *gin.Context) (uuid.UUID, error) {
	raw, exists := c.Get(middleware.ContextUserIDKey)
	if !exists {
		return uuid.Nil, apperror.ErrUnauthorized
	}
	userID, ok := raw.(uuid.UUID)
	if !ok {
		return uuid.Nil, apperror.ErrUnauthorized
	}
	return userID, nil
}

// bindJSON разбирает тело и сам отвечает при ошибке: 413 для слишком
// большого тела, 400 для остального.
func bindJSON(c *gin.Context, req interface{}) bool {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return true
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		response.TooLarge(c, "слишком большой запрос")
		return false
	}
	response.BadRequest(c, "некорректные данные запроса")
	return false
}

// HeroReader - герой для подписи заявки.
type HeroReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Hero, error)
}

// heroMemo запоминает героев в пределах одного запроса.
type heroMemo struct {
	reader HeroReader
	seen   map[uuid.UUID]*models.Hero
}

func newHeroMemo(reader HeroReader) *heroMemo {
	return &heroMemo{reader: reader, seen: make(map[uuid.UUID]*models.Hero)}
}

// get не возвращает ошибку: удалённый герой просто не подписывается.
func (m *heroMemo) get(ctx context.Context, id uuid.UUID) *models.Hero {
	if h, ok := m.seen[id]; ok {
		return h
	}
	h, err := m.reader.GetByID(ctx, id)
	if err != nil {
		h = nil
	}
	m.seen[id] = h
	return h
}
