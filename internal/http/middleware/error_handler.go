package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/superfix/superfix-backend/internal/interface/http/response"
)

// ErrorHandler отвечает за ошибки, которые хэндлер положил в c.Error,
// но сам не записал ответ.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() || len(c.Errors) == 0 {
			return
		}
		response.Error(c, c.Errors.Last().Err)
	}
}
