package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// JSONBodyLimit - предел JSON-тела с фото в base64: файл плюс треть на кодирование и запас на поля.
func JSONBodyLimit(maxUploadMB int64) int64 {
	return maxUploadMB<<20*4/3 + 64<<10
}

// BodyLimit ограничивает размер тела запроса. Превышение всплывает
// как *http.MaxBytesError при разборе тела.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}
