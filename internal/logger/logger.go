package logger

import (
	"io"
	"log/slog"
	"os"
)

var log *slog.Logger

// Init инициализирует глобальный логгер
// env: "development" - текст в stdout, "test" - без вывода, иначе JSON
func Init(env string) {
	log = New(env, os.Stdout)
	slog.SetDefault(log)
}

// New собирает логгер для окружения env, не трогая глобальное состояние
func New(env string, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}

	switch env {
	case "development":
		opts.Level = slog.LevelDebug
		opts.AddSource = true
		return slog.New(slog.NewTextHandler(w, opts))
	case "test":
		return slog.New(slog.NewTextHandler(io.Discard, opts))
	default:
		return slog.New(slog.NewJSONHandler(w, opts))
	}
}

// GetLogger возвращает глобальный логгер
func GetLogger() *slog.Logger {
	if log == nil {
		// Init не вызван
		return slog.Default()
	}
	return log
}

// Info логирует info сообщение
func Info(msg string, args ...any) {
	GetLogger().Info(msg, args...)
}

// Warn логирует warning сообщение
func Warn(msg string, args ...any) {
	GetLogger().Warn(msg, args...)
}

// Error логирует error сообщение
func Error(msg string, args ...any) {
	GetLogger().Error(msg, args...)
}

// Fatal логирует fatal ошибку и завершает программу
func Fatal(msg string, args ...any) {
	GetLogger().Error(msg, args...)
	os.Exit(1)
}

// With создает новый логгер с дополнительными полями
func With(args ...any) *slog.Logger {
	return GetLogger().With(args...)
}
