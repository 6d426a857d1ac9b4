// Package capture - съёмка одного фото-доказательства с камеры.
package capture

import (
	"errors"
	"fmt"
)

type State string

const (
	StateAcquiring   State = "ACQUIRING"
	StateLivePreview State = "LIVE_PREVIEW"
	StateReview      State = "REVIEW"
	StateConfirmed   State = "CONFIRMED"
	StateClosed      State = "CLOSED"
	StateFailed      State = "FAILED"
)

type Event string

const (
	EventStreamReady  Event = "stream_ready"
	EventStreamFailed Event = "stream_failed"
	EventCapture      Event = "capture"
	EventRetake       Event = "retake"
	EventConfirm      Event = "confirm"
	EventClose        Event = "close"
)

// ErrInvalidEvent - событие не допустимо в текущем состоянии.
var ErrInvalidEvent = errors.New("capture: недопустимое действие")

// Terminal - из состояния больше нет переходов.
func (s State) Terminal() bool {
	return s == StateConfirmed || s == StateClosed
}

// Transition - чистая функция переходов, без ввода-вывода.
func Transition(s State, e Event) (State, error) {
	switch s {
	case StateAcquiring:
		switch e {
		case EventStreamReady:
			return StateLivePreview, nil
		case EventStreamFailed:
			return StateFailed, nil
		case EventClose:
			return StateClosed, nil
		}
	case StateLivePreview:
		switch e {
		case EventCapture:
			return StateReview, nil
		case EventClose:
			return StateClosed, nil
		}
	case StateReview:
		switch e {
		case EventConfirm:
			return StateConfirmed, nil
		case EventRetake:
			return StateAcquiring, nil
		case EventClose:
			return StateClosed, nil
		}
	case StateFailed:
		// после ошибки камеры доступно только закрытие
		if e == EventClose {
			return StateClosed, nil
		}
	case StateConfirmed, StateClosed:
	}
	return s, fmt.Errorf("%w: %s в состоянии %s", ErrInvalidEvent, e, s)
}
