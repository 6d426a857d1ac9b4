package handlers

import (
	"bytes"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/superfix/superfix-backend/internal/dto"
	"github.com/superfix/superfix-backend/internal/interface/http/response"
	"github.com/superfix/superfix-backend/internal/storage"
)

// MediaHandler загружает аватары и видео героев в CDN.
type MediaHandler struct {
	uploader   storage.Uploader
	maxImageMB int64
	maxVideoMB int64
}

func NewMediaHandler(uploader storage.Uploader, maxImageMB, maxVideoMB int64) *MediaHandler {
	return &MediaHandler{uploader: uploader, maxImageMB: maxImageMB, maxVideoMB: maxVideoMB}
}

// Upload обрабатывает POST /media/upload?field=avatarUrl|videoUrl.
func (h *MediaHandler) Upload(c *gin.Context) {
	kind, err := storage.KindForField(c.Query("field"))
	if err != nil {
		response.Error(c, err)
		return
	}

	limit := h.maxImageMB << 20
	if kind == storage.KindVideo {
		limit = h.maxVideoMB << 20
	}

	file, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "поле file обязательно")
		return
	}
	if file.Size == 0 {
		response.BadRequest(c, "файл не может быть пустым")
		return
	}
	if file.Size > limit {
		response.BadRequest(c, "файл слишком большой")
		return
	}

	src, err := file.Open()
	if err != nil {
		response.Error(c, err)
		return
	}
	defer src.Close()

	// Читаем первые 512 байт для проверки магических байтов
	head := make([]byte, 512)
	n, err := io.ReadFull(src, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		response.BadRequest(c, "не удалось прочитать файл")
		return
	}
	kindType, err := storage.Sniff(head[:n], kind)
	if err != nil {
		response.Error(c, err)
		return
	}

	// Расширение берём из реального типа, имя клиента не доверяем.
	base := strings.TrimSuffix(filepath.Base(file.Filename), filepath.Ext(file.Filename))
	name := uuid.NewString() + "-" + base + "." + kindType.Extension

	reader := io.MultiReader(bytes.NewReader(head[:n]), src)
	url, err := h.uploader.Upload(c.Request.Context(), string(kind)+"s", name, reader)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.UploadResponse{SecureURL: url})
}
