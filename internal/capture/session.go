package capture

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/superfix/superfix-backend/internal/logger"
)

// ErrCameraUnavailable - ни одна камера не открылась.
var ErrCameraUnavailable = errors.New("камера недоступна: проверьте разрешения")

// Session - один сеанс съёмки. Callback вызывается не больше одного раза,
// поток камеры освобождается на любом пути выхода.
type Session struct {
	camera    CameraSource
	encoder   ImageEncoder
	onConfirm func(dataURL string)

	mu      sync.Mutex
	state   State
	stream  Stream
	frame   image.Image
	failure error
}

func NewSession(camera CameraSource, encoder ImageEncoder, onConfirm func(dataURL string)) *Session {
	if encoder == nil {
		encoder = JPEGEncoder{}
	}
	return &Session{camera: camera, encoder: encoder, onConfirm: onConfirm, state: StateAcquiring}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Err - причина FAILED для показа пользователю.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failure
}

// Start открывает камеру: сначала задняя Full HD, потом любая.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateAcquiring {
		st := s.state
		s.mu.Unlock()
		return fmt.Errorf("%w: start в состоянии %s", ErrInvalidEvent, st)
	}
	s.mu.Unlock()
	return s.acquire(ctx)
}

func (s *Session) acquire(ctx context.Context) error {
	stream, err := s.camera.Open(ctx, PreferredConstraints)
	if err != nil {
		logger.WithComponent("capture").WithError(err).Debug("задняя камера недоступна, пробуем камеру по умолчанию")
		stream, err = s.camera.Open(ctx, Constraints{})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// сеанс закрыли, пока камера открывалась
	if s.state != StateAcquiring {
		if stream != nil {
			_ = stream.Close()
		}
		return fmt.Errorf("%w: сеанс уже %s", ErrInvalidEvent, s.state)
	}

	if err != nil {
		s.state, _ = Transition(s.state, EventStreamFailed)
		s.failure = ErrCameraUnavailable
		logger.WithComponent("capture").WithError(err).Warn("камера недоступна")
		return ErrCameraUnavailable
	}
	s.stream = stream
	s.state, _ = Transition(s.state, EventStreamReady)
	return nil
}

// Capture снимает кадр и освобождает камеру.
func (s *Session) Capture() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := Transition(s.state, EventCapture)
	if err != nil {
		return err
	}
	frame, err := s.stream.Frame()
	if err != nil {
		return fmt.Errorf("capture: не удалось снять кадр: %w", err)
	}
	s.frame = frame
	s.releaseLocked()
	s.state = next
	return nil
}

// Retake выбрасывает кадр и заново открывает камеру.
func (s *Session) Retake(ctx context.Context) error {
	s.mu.Lock()
	next, err := Transition(s.state, EventRetake)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.frame = nil
	s.releaseLocked()
	s.state = next
	s.mu.Unlock()

	return s.acquire(ctx)
}

// Confirm кодирует кадр, вызывает callback и закрывает сеанс.
func (s *Session) Confirm() error {
	s.mu.Lock()
	next, err := Transition(s.state, EventConfirm)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	dataURL, err := s.encoder.Encode(s.frame)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.frame = nil
	s.releaseLocked()
	s.state = next
	cb := s.onConfirm
	s.mu.Unlock()

	if cb != nil {
		cb(dataURL)
	}
	return nil
}

// Close закрывает сеанс без callback. Повторный Close безопасен.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Terminal() {
		return nil
	}
	s.state, _ = Transition(s.state, EventClose)
	s.frame = nil
	s.releaseLocked()
	return nil
}

func (s *Session) releaseLocked() {
	if s.stream == nil {
		return
	}
	if err := s.stream.Close(); err != nil {
		logger.WithComponent("capture").WithError(err).Warn("не удалось освободить камеру")
	}
	s.stream = nil
}

// Run - удобная обёртка: открыть, снять, подтвердить.
// ok=false, если пользователь закрыл сеанс.
func Run(ctx context.Context, camera CameraSource, encoder ImageEncoder, review func(*Session) bool) (dataURL string, ok bool, err error) {
	var result string
	confirmed := false
	sess := NewSession(camera, encoder, func(u string) {
		result = u
		confirmed = true
	})
	defer sess.Close()

	if err := sess.Start(ctx); err != nil {
		return "", false, err
	}
	if err := sess.Capture(); err != nil {
		return "", false, err
	}
	if review != nil && !review(sess) {
		return "", false, nil
	}
	// review мог закрыть сеанс или переснять
	if sess.State() == StateLivePreview {
		if err := sess.Capture(); err != nil {
			return "", false, err
		}
	}
	if sess.State() == StateFailed {
		return "", false, sess.Err()
	}
	if sess.State() != StateReview {
		return "", false, nil
	}
	if err := sess.Confirm(); err != nil {
		return "", false, err
	}
	return result, confirmed, nil
}
