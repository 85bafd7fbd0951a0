package logger

import (
	"context"
	"log/slog"
)

type fieldsKey struct{}

// requestFields - поля запроса, попадающие в каждую запись Ctx* функций
type requestFields struct {
	requestID string
	userID    string
}

func fieldsFrom(ctx context.Context) requestFields {
	f, _ := ctx.Value(fieldsKey{}).(requestFields)
	return f
}

func (f requestFields) attrs() []any {
	var out []any
	if f.requestID != "" {
		out = append(out, slog.String("request_id", f.requestID))
	}
	if f.userID != "" {
		out = append(out, slog.String("user_id", f.userID))
	}
	return out
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	f := fieldsFrom(ctx)
	f.requestID = requestID
	return context.WithValue(ctx, fieldsKey{}, f)
}

// WithUserID вызывается AuthMiddleware после проверки токена
func WithUserID(ctx context.Context, userID string) context.Context {
	f := fieldsFrom(ctx)
	f.userID = userID
	return context.WithValue(ctx, fieldsKey{}, f)
}

func GetRequestID(ctx context.Context) string { return fieldsFrom(ctx).requestID }

func GetUserID(ctx context.Context) string { return fieldsFrom(ctx).userID }

// FromContext возвращает глобальный логгер с полями запроса
func FromContext(ctx context.Context) *slog.Logger {
	l := GetLogger()
	if attrs := fieldsFrom(ctx).attrs(); len(attrs) > 0 {
		l = l.With(attrs...)
	}
	return l
}

func logCtx(ctx context.Context, level slog.Level, msg string, args ...any) {
	FromContext(ctx).Log(ctx, level, msg, args...)
}

func CtxInfo(ctx context.Context, msg string, args ...any) {
	logCtx(ctx, slog.LevelInfo, msg, args...)
}

func CtxWarn(ctx context.Context, msg string, args ...any) {
	logCtx(ctx, slog.LevelWarn, msg, args...)
}

func CtxError(ctx context.Context, msg string, args ...any) {
	logCtx(ctx, slog.LevelError, msg, args...)
}

// CtxWithError - CtxError с полем error
func CtxWithError(ctx context.Context, msg string, err error, args ...any) {
	logCtx(ctx, slog.LevelError, msg, append([]any{slog.Any("error", err)}, args...)...)
}
