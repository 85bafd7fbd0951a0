package handlers

import (
	"net/http"

	"accounts_backend/internal/auth"
	"accounts_backend/internal/middleware"
	"accounts_backend/internal/services"
	"accounts_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	*BaseHandler
	userService services.UserService
}

func NewUserHandler(base *BaseHandler, userService services.UserService) *UserHandler {
	return &UserHandler{
		BaseHandler: base,
		userService: userService,
	}
}

// RegisterRoutes - группа rg уже защищена AuthMiddleware.
// Каждая операция проходит через матрицу доступа до хендлера.
func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup) {
	users := rg.Group("/users")
	{
		users.POST("", middleware.Authorize(auth.OpCreateUser), h.CreateUser)
		users.GET("", middleware.Authorize(auth.OpListUsers), h.ListUsers)
		users.GET("/:user_id", middleware.Authorize(auth.OpReadUser), h.GetUser)
		users.PUT("/:user_id", middleware.Authorize(auth.OpUpdateUser), h.UpdateUser)
		users.DELETE("/:user_id", middleware.Authorize(auth.OpDeleteUser), h.DeleteUser)
	}
}

// CreateUser godoc
// @Summary Создать пользователя
// @Description Доступно ADMIN и MANAGER
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateUserRequest true "Новый пользователь"
// @Success 201 {object} dto.UserResponse
// @Failure 400 {object} apperrors.ErrorResponse
// @Failure 403 {object} apperrors.ErrorResponse
// @Failure 422 {object} apperrors.ErrorResponse
// @Router /api/v1/users [post]
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req dto.CreateUserRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	user, err := h.userService.Create(c.Request.Context(), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewUserResponse(user))
}

// ListUsers godoc
// @Summary Список пользователей
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param page query int false "Номер страницы" default(1)
// @Param page_size query int false "Размер страницы" default(20)
// @Success 200 {object} dto.UserListResponse
// @Failure 403 {object} apperrors.ErrorResponse
// @Router /api/v1/users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	page, pageSize := ParsePagination(c)

	users, total, err := h.userService.List(c.Request.Context(), page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserListResponse(users, total, page, pageSize))
}

// GetUser godoc
// @Summary Получить пользователя
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param user_id path string true "ID пользователя"
// @Success 200 {object} dto.UserResponse
// @Failure 403 {object} apperrors.ErrorResponse
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /api/v1/users/{user_id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	userID, ok := ParseUserIDParam(c)
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

// UpdateUser godoc
// @Summary Обновить пользователя
// @Description Частичное обновление, is_locked=false снимает блокировку
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param user_id path string true "ID пользователя"
// @Param request body dto.UpdateUserRequest true "Изменяемые поля"
// @Success 200 {object} dto.UserResponse
// @Failure 400 {object} apperrors.ErrorResponse
// @Failure 403 {object} apperrors.ErrorResponse
// @Failure 404 {object} apperrors.ErrorResponse
// @Failure 422 {object} apperrors.ErrorResponse
// @Router /api/v1/users/{user_id} [put]
func (h *UserHandler) UpdateUser(c *gin.Context) {
	userID, ok := ParseUserIDParam(c)
	if !ok {
		return
	}

	var req dto.UpdateUserRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	user, err := h.userService.Update(c.Request.Context(), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserResponse(user))
}

// DeleteUser godoc
// @Summary Удалить пользователя
// @Tags users
// @Security BearerAuth
// @Param user_id path string true "ID пользователя"
// @Success 204
// @Failure 403 {object} apperrors.ErrorResponse
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /api/v1/users/{user_id} [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	userID, ok := ParseUserIDParam(c)
	if !ok {
		return
	}

	if err := h.userService.Delete(c.Request.Context(), userID); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
