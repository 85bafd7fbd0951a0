package handlers

import (
	"strconv"

	"accounts_backend/internal/logger"
	"accounts_backend/internal/middleware"
	"accounts_backend/internal/services"
	"accounts_backend/internal/validator"
	"accounts_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BaseHandler struct {
	validator *validator.Validator
}

func NewBaseHandler(v *validator.Validator) *BaseHandler {
	return &BaseHandler{
		validator: v,
	}
}

// BindAndValidate_JSON привязывает тело запроса и проверяет теги validate
func (h *BaseHandler) BindAndValidate_JSON(c *gin.Context, obj interface{}) bool {
	ctx := c.Request.Context()

	if err := c.ShouldBindJSON(obj); err != nil {
		logger.CtxWarn(ctx, "Failed to bind JSON body", "error", err.Error(), "route", c.FullPath())
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid request body"))
		return false
	}
	return h.validate(c, obj)
}

// BindAndValidate_Form - то же для form-urlencoded
func (h *BaseHandler) BindAndValidate_Form(c *gin.Context, obj interface{}) bool {
	ctx := c.Request.Context()

	if err := c.ShouldBind(obj); err != nil {
		logger.CtxWarn(ctx, "Failed to bind form", "error", err.Error(), "route", c.FullPath())
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid form data"))
		return false
	}
	return h.validate(c, obj)
}

func (h *BaseHandler) validate(c *gin.Context, obj interface{}) bool {
	if err := h.validator.Validate(obj); err != nil {
		if appErr, ok := apperrors.AsAppError(err); ok {
			logger.CtxWarn(c.Request.Context(), "Validation failed", "details", appErr.Details, "route", c.FullPath())
			apperrors.HandleError(c, appErr)
		} else {
			logger.CtxWithError(c.Request.Context(), "Internal validator error", err, "route", c.FullPath())
			apperrors.HandleError(c, apperrors.InternalError(err))
		}
		return false
	}
	return true
}

func (h *BaseHandler) HandleServiceError(c *gin.Context, err error) {
	ctx := c.Request.Context()

	var appErr *apperrors.AppError
	if apperrors.As(err, &appErr) {
		if appErr.HTTPCode < 500 {
			logger.CtxWarn(ctx, "Service error",
				"code", appErr.Code,
				"error", appErr.Message,
				"route", c.FullPath(),
			)
		}
		apperrors.HandleError(c, appErr)
		return
	}
	logger.CtxWithError(ctx, "Internal server error", err, "route", c.FullPath())
	apperrors.HandleError(c, apperrors.InternalError(err))
}

// GetAndAuthorizeUserID возвращает ID вызывающего, выставленный AuthMiddleware
func (h *BaseHandler) GetAndAuthorizeUserID(c *gin.Context) (string, bool) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		logger.CtxWarn(c.Request.Context(), "caller id missing in context", "route", c.FullPath())
		apperrors.HandleError(c, apperrors.ErrNotAuthenticated)
		return "", false
	}
	return userID, true
}

// ParseUserIDParam - :user_id должен быть UUID, иначе 422
func ParseUserIDParam(c *gin.Context) (string, bool) {
	raw := c.Param("user_id")
	id, err := uuid.Parse(raw)
	if err != nil {
		apperrors.HandleError(c, apperrors.ValidationError(validator.Violations{
			{Field: "user_id", Reason: "Must be a valid UUID"},
		}))
		return "", false
	}
	return id.String(), true
}

func ParseQueryInt(c *gin.Context, key string, defaultValue int) int {
	valueStr := c.Query(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// ParsePagination читает page и page_size, невалидные значения заменяются значениями по умолчанию
func ParsePagination(c *gin.Context) (page int, pageSize int) {
	page = max(ParseQueryInt(c, "page", 1), 1)
	pageSize = ParseQueryInt(c, "page_size", services.DefaultPageSize)
	if pageSize < 1 {
		pageSize = services.DefaultPageSize
	}
	return page, min(pageSize, services.MaxPageSize)
}
