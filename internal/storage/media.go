package storage

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"

	"github.com/superfix/superfix-backend/internal/pkg/apperror"
)

// Uploader кладёт файл в хранилище и возвращает публичный адрес.
type Uploader interface {
	Upload(ctx context.Context, folder, name string, r io.Reader) (string, error)
}

// MediaKind - вид медиа, от него зависят лимит и допустимые типы.
type MediaKind string

const (
	KindImage MediaKind = "image"
	KindVideo MediaKind = "video"
)

// KindForField сопоставляет поле героя и вид файла.
func KindForField(field string) (MediaKind, error) {
	switch field {
	case "avatarUrl":
		return KindImage, nil
	case "videoUrl":
		return KindVideo, nil
	}
	return "", apperror.Validation("field должен быть avatarUrl или videoUrl")
}

// Sniff определяет реальный тип файла по магическим байтам и проверяет,
// что он подходит под вид.
func Sniff(head []byte, kind MediaKind) (types.Type, error) {
	t, err := filetype.Match(head)
	if err != nil || t == filetype.Unknown {
		return types.Type{}, apperror.Validation("не удалось определить тип файла")
	}
	switch kind {
	case KindImage:
		if !filetype.IsImage(head) {
			return types.Type{}, apperror.Validation(fmt.Sprintf("ожидалось изображение, получен %s", t.MIME.Value))
		}
	case KindVideo:
		if !filetype.IsVideo(head) {
			return types.Type{}, apperror.Validation(fmt.Sprintf("ожидалось видео, получен %s", t.MIME.Value))
		}
	}
	return t, nil
}

// DecodedImage - снимок, извлечённый из data URL.
type DecodedImage struct {
	Data []byte
	Type types.Type
}

// DecodeDataURL разбирает data:image/...;base64,... и проверяет содержимое
// по магическим байтам, а не по заявленному MIME.
func DecodeDataURL(raw string, maxBytes int64) (*DecodedImage, error) {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "data:") {
		return nil, apperror.Validation("фото должно быть data URL")
	}
	comma := strings.IndexByte(raw, ',')
	if comma < 0 {
		return nil, apperror.Validation("некорректный data URL")
	}
	meta, payload := raw[len("data:"):comma], raw[comma+1:]
	if !strings.HasSuffix(meta, ";base64") {
		return nil, apperror.Validation("data URL должен быть в base64")
	}

	if maxBytes > 0 && int64(base64.StdEncoding.DecodedLen(len(payload))) > maxBytes+2 {
		return nil, apperror.Validation(fmt.Sprintf("фото превышает лимит %d байт", maxBytes))
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, apperror.Validation("фото повреждено")
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return nil, apperror.Validation(fmt.Sprintf("фото превышает лимит %d байт", maxBytes))
	}

	t, err := Sniff(data, KindImage)
	if err != nil {
		return nil, err
	}
	return &DecodedImage{Data: data, Type: t}, nil
}

// EncodeDataURL - обратная операция, нужна порталу при подтверждении снимка.
func EncodeDataURL(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// Reader отдаёт содержимое для Uploader.
func (d *DecodedImage) Reader() io.Reader {
	return bytes.NewReader(d.Data)
}
