package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/superfix/superfix-backend/internal/logger"
	"github.com/superfix/superfix-backend/internal/pkg/apperror"
)

// ErrorBody - формат ошибки, который ждёт портал: {"error": "..."}.
type ErrorBody struct {
	Error string `json:"error"`
}

const internalMessage = "внутренняя ошибка сервера"

func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// Error переводит ошибку в HTTP-ответ. Бизнес-ошибки отдаются как есть,
// ошибки базы и хранилища логируются и маскируются.
func Error(c *gin.Context, err error) {
	status, message := Classify(err)
	if status >= http.StatusInternalServerError {
		logger.WithComponent("http").WithFields(logrus.Fields{
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		}).WithError(err).Error("ошибка обработки запроса")
	}
	c.JSON(status, ErrorBody{Error: message})
}

// Classify возвращает статус и публичное сообщение для ошибки.
func Classify(err error) (int, string) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		if apperror.IsPublic(err) {
			return appErr.HTTPStatus, appErr.Message
		}
		return appErr.HTTPStatus, internalMessage
	}
	return http.StatusInternalServerError, internalMessage
}

func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorBody{Error: message})
}

func Unauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, ErrorBody{Error: message})
}

func TooLarge(c *gin.Context, message string) {
	c.JSON(http.StatusRequestEntityTooLarge, ErrorBody{Error: message})
}

func Forbidden(c *gin.Context, message string) {
	c.JSON(http.StatusForbidden, ErrorBody{Error: message})
}
