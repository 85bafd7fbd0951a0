package handlers

import (
	"net/http"
	"strings"

	"accounts_backend/internal/services"
	"accounts_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	*BaseHandler
	authService services.AuthService
	userService services.UserService
}

func NewAuthHandler(base *BaseHandler, authService services.AuthService, userService services.UserService) *AuthHandler {
	return &AuthHandler{
		BaseHandler: base,
		authService: authService,
		userService: userService,
	}
}

// RegisterRoutes регистрирует публичные маршруты аутентификации
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	auth := rg.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.GET("/verify-email/:user_id/:token", h.VerifyEmail)
	}
}

// RegisterProtectedRoutes - маршруты, требующие только валидного токена
func (h *AuthHandler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	rg.GET("/me", h.Me)
}

// Register godoc
// @Summary Регистрация
// @Description Создает неподтвержденный аккаунт с ролью AUTHENTICATED и отправляет письмо подтверждения
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Данные регистрации"
// @Success 201 {object} dto.UserResponse
// @Failure 400 {object} apperrors.ErrorResponse "Email или nickname заняты"
// @Failure 422 {object} apperrors.ErrorResponse "Ошибка валидации"
// @Router /api/v1/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	user, err := h.userService.Register(c.Request.Context(), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewUserResponse(user))
}

// Login godoc
// @Summary Вход
// @Description Принимает JSON {email, password} или form-urlencoded {username, password}
// @Tags auth
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param request body dto.LoginRequest true "Учетные данные"
// @Success 200 {object} dto.TokenResponse
// @Failure 401 {object} apperrors.ErrorResponse "Неверные учетные данные или email не подтвержден"
// @Failure 403 {object} apperrors.ErrorResponse "Аккаунт заблокирован"
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var emailAddr, password string

	if strings.HasPrefix(c.ContentType(), "application/x-www-form-urlencoded") ||
		strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		var form dto.OAuth2LoginForm
		if !h.BindAndValidate_Form(c, &form) {
			return
		}
		emailAddr, password = form.Username, form.Password
	} else {
		var req dto.LoginRequest
		if !h.BindAndValidate_JSON(c, &req) {
			return
		}
		emailAddr, password = req.Email, req.Password
	}

	response, err := h.authService.Login(c.Request.Context(), emailAddr, password)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// VerifyEmail godoc
// @Summary Подтверждение email
// @Tags auth
// @Produce json
// @Param user_id path string true "ID пользователя"
// @Param token path string true "Токен из письма"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} apperrors.ErrorResponse "Неверный токен"
// @Router /api/v1/auth/verify-email/{user_id}/{token} [get]
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	if err := h.userService.VerifyEmail(c.Request.Context(), c.Param("user_id"), c.Param("token")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Email verified successfully"})
}

// Me godoc
// @Summary Текущий пользователь
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.UserResponse
// @Failure 401 {object} apperrors.ErrorResponse
// @Router /api/v1/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	user, err := h.userService.Get(c.Request.Context(), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserResponse(user))
}
