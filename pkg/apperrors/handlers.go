package apperrors

import (
	"log/slog"

	"github.com/gin-gonic/gin"
)

// ErrorResponse - тело ответа с ошибкой
type ErrorResponse struct {
	Error *AppError `json:"error"`
}

// GinErrorHandler пишет ошибки в gin
type GinErrorHandler struct {
	Debug bool
}

// HandleGinError отвечает ErrorResponse и прерывает цепочку. Для 5xx вне
// debug детали и текст причины скрываются.
func (h *GinErrorHandler) HandleGinError(c *gin.Context, err error) {
	appErr, ok := AsAppError(err)
	if !ok {
		appErr = InternalError(err)
	}

	if appErr.HTTPCode >= 500 {
		slog.ErrorContext(c.Request.Context(), "server error", "error", appErr.Unwrap())
		if !h.Debug {
			appErr = appErr.WithDetails(nil)
			appErr.Message = "Internal server error"
		}
	}

	c.AbortWithStatusJSON(appErr.HTTPCode, ErrorResponse{Error: appErr})
}

var defaultHandler = &GinErrorHandler{}

// SetDebug вызывается один раз при старте
func SetDebug(debug bool) {
	defaultHandler = &GinErrorHandler{Debug: debug}
}

// HandleError - обработчик по умолчанию для хэндлеров и middleware
func HandleError(c *gin.Context, err error) {
	defaultHandler.HandleGinError(c, err)
}

func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
