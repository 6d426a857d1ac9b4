package goroutine

import (
	"context"
	"runtime/debug"

	"github.com/sirupsen/logrus"

	"github.com/superfix/superfix-backend/internal/logger"
)

// Logger - то, что нужно обработчику от логгера. *logrus.Entry подходит.
type Logger interface {
	WithFields(fields logrus.Fields) *logrus.Entry
}

// RecoveryHandler перехватывает panic в фоновых горутинах.
type RecoveryHandler struct {
	log Logger
}

// NewRecoveryHandler создаёт обработчик. nil - глобальный логгер на момент паники.
func NewRecoveryHandler(log Logger) *RecoveryHandler {
	return &RecoveryHandler{log: log}
}

func (rh *RecoveryHandler) logger() Logger {
	if rh.log != nil {
		return rh.log
	}
	return logger.WithComponent("goroutine")
}

func (rh *RecoveryHandler) recover(where string) {
	if r := recover(); r != nil {
		rh.logger().WithFields(logrus.Fields{
			"panic": r,
			"where": where,
			"stack": string(debug.Stack()),
		}).Error("panic в горутине")
	}
}

// SafeGo запускает горутину с обработкой panic.
func (rh *RecoveryHandler) SafeGo(fn func()) {
	go func() {
		defer rh.recover("SafeGo")
		fn()
	}()
}

// SafeGoWithContext запускает горутину с контекстом и обработкой panic.
func (rh *RecoveryHandler) SafeGoWithContext(ctx context.Context, fn func(context.Context)) {
	go func() {
		defer rh.recover("SafeGoWithContext")
		fn(ctx)
	}()
}

// DefaultRecoveryHandler пишет в глобальный logrus-логгер.
var DefaultRecoveryHandler = NewRecoveryHandler(nil)

func SafeGo(fn func()) {
	DefaultRecoveryHandler.SafeGo(fn)
}

func SafeGoWithContext(ctx context.Context, fn func(context.Context)) {
	DefaultRecoveryHandler.SafeGoWithContext(ctx, fn)
}
