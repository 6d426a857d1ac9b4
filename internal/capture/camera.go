package capture

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"os"

	"github.com/superfix/superfix-backend/internal/storage"
)

type Facing string

const (
	FacingAny         Facing = ""
	FacingEnvironment Facing = "environment"
	FacingUser        Facing = "user"
)

// Constraints - пожелания к камере.
type Constraints struct {
	Facing Facing
	Width  int
	Height int
}

// PreferredConstraints - задняя камера в Full HD. Если не вышло, берём камеру по умолчанию.
var PreferredConstraints = Constraints{Facing: FacingEnvironment, Width: 1920, Height: 1080}

// Stream - открытый поток камеры. Close обязателен на каждом пути выхода.
type Stream interface {
	Frame() (image.Image, error)
	Close() error
}

type CameraSource interface {
	Open(ctx context.Context, c Constraints) (Stream, error)
}

// ImageEncoder превращает кадр в data URL.
type ImageEncoder interface {
	Encode(img image.Image) (string, error)
}

const JPEGQuality = 90

// JPEGEncoder кодирует кадр в JPEG без обрезки, в родном размере.
type JPEGEncoder struct{}

func (JPEGEncoder) Encode(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return "", fmt.Errorf("capture: не удалось закодировать кадр: %w", err)
	}
	return storage.EncodeDataURL("image/jpeg", buf.Bytes()), nil
}

var ErrConstraintUnsatisfied = errors.New("capture: камера не подходит под ограничения")

// FileCamera - "камера" из файла JPEG/PNG, чтобы работать без устройства.
type FileCamera struct {
	Path   string
	Facing Facing
}

func (fc FileCamera) Open(ctx context.Context, c Constraints) (Stream, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if c.Facing != FacingAny && fc.Facing != c.Facing {
		return nil, ErrConstraintUnsatisfied
	}
	f, err := os.Open(fc.Path)
	if err != nil {
		return nil, fmt.Errorf("capture: камера недоступна: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("capture: не удалось прочитать кадр: %w", err)
	}
	return &stillStream{img: img}, nil
}

type stillStream struct {
	img    image.Image
	closed bool
}

func (s *stillStream) Frame() (image.Image, error) {
	if s.closed {
		return nil, errors.New("capture: поток закрыт")
	}
	return s.img, nil
}

func (s *stillStream) Close() error {
	s.closed = true
	return nil
}
