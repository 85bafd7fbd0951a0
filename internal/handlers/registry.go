package handlers

import (
	"accounts_backend/internal/services"
	"accounts_backend/internal/validator"
)

// AppHandlers содержит все хэндлеры приложения.
type AppHandlers struct {
	AuthHandler *AuthHandler
	UserHandler *UserHandler
}

func NewAppHandlers(svc *services.ServiceContainer, v *validator.Validator) *AppHandlers {
	base := NewBaseHandler(v)
	return &AppHandlers{
		AuthHandler: NewAuthHandler(base, svc.AuthService, svc.UserService),
		UserHandler: NewUserHandler(base, svc.UserService),
	}
}
