package logger

import (
	"io"

	"github.com/sirupsen/logrus"
)

var Log *logrus.Logger

// Init инициализирует структурированный логгер.
func Init(level string) {
	Log = logrus.New()

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	Log.SetLevel(lvl)

	// Используем JSON формат для production, text для development
	Log.SetFormatter(&logrus.JSONFormatter{})
}

// SetTextFormatter устанавливает текстовый формат логов (для development).
func SetTextFormatter() {
	if Log != nil {
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}
}

// Get возвращает глобальный логгер, а если Init не вызывался -
// молчаливый логгер, чтобы тесты и CLI не падали на nil.
func Get() *logrus.Logger {
	if Log != nil {
		return Log
	}
	silent := logrus.New()
	silent.SetOutput(io.Discard)
	return silent
}

// WithComponent возвращает запись с полем component.
func WithComponent(name string) *logrus.Entry {
	return Get().WithField("component", name)
}
