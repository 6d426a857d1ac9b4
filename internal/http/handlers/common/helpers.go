package common

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/superfix/superfix-backend/internal/pkg/apperror"
)

// ParseUUIDParam парсит UUID из параметра пути.
func ParseUUIDParam(c *gin.Context, paramName string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(c.Param(paramName))
	if err != nil {
		return uuid.Nil, apperror.Validation("параметр " + paramName + " должен быть валидным UUID")
	}
	return parsed, nil
}

// BindJSON разбирает тело запроса; ошибка уже в формате apperror.
func BindJSON(c *gin.Context, req interface{}) error {
	if err := c.ShouldBindJSON(req); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeValidation, "некорректные данные запроса")
	}
	return nil
}
