package middleware

import (
	"strings"

	"accounts_backend/internal/auth"
	"accounts_backend/internal/logger"
	"accounts_backend/internal/models"
	"accounts_backend/pkg/apperrors"
	"accounts_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware - middleware проверки JWT.
// Просроченный и поддельный токены различаются в ответе.
func AuthMiddleware(tokens *auth.TokenCodec) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		scheme, tokenStr, found := strings.Cut(authHeader, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(tokenStr) == "" {
			apperrors.HandleError(c, apperrors.ErrNotAuthenticated)
			return
		}

		res := tokens.Verify(strings.TrimSpace(tokenStr))
		switch res.Status {
		case auth.TokenExpired:
			apperrors.HandleError(c, apperrors.ErrTokenExpired)
			return
		case auth.TokenInvalid:
			apperrors.HandleError(c, apperrors.ErrInvalidToken)
			return
		}

		userID := res.Subject()
		role := models.UserRole(res.Role())
		if userID == "" || !role.IsValid() {
			apperrors.HandleError(c, apperrors.ErrInvalidToken)
			return
		}

		// Сохраняем claims в контекст
		c.Set(contextkeys.UserIDKey, userID)
		c.Set(contextkeys.RoleKey, role)
		if email, ok := res.Claims["email"].(string); ok {
			c.Set(contextkeys.EmailKey, email)
		}
		c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), userID))
		c.Next()
	}
}

// Authorize - проверка операции по матрице доступа до вызова хендлера.
// Цель берется из параметра :user_id, если он есть.
func Authorize(op auth.Operation) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := GetRole(c)
		callerID := GetUserID(c)
		targetID := c.Param("user_id")

		if auth.Authorize(role, callerID, op, targetID) != auth.Allowed {
			logger.CtxWarn(c.Request.Context(), "access denied",
				"operation", op,
				"role", role,
				"route", c.FullPath(),
			)
			apperrors.HandleError(c, apperrors.ErrForbidden)
			return
		}

		c.Next()
	}
}

// GetUserID извлекает ID пользователя из контекста
func GetUserID(c *gin.Context) string {
	return c.GetString(contextkeys.UserIDKey)
}

// GetRole извлекает роль из контекста, пустая роль означает "нет доступа"
func GetRole(c *gin.Context) models.UserRole {
	val, exists := c.Get(contextkeys.RoleKey)
	if !exists {
		return ""
	}
	role, _ := val.(models.UserRole)
	return role
}
