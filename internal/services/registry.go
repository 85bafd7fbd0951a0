package services

import (
	"accounts_backend/internal/auth"
	"accounts_backend/internal/email"
	"accounts_backend/internal/repositories"
)

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	UserService  UserService
	AuthService  AuthService
	EmailService email.Provider
}

// ServiceDeps - зависимости для сборки контейнера
type ServiceDeps struct {
	UserRepo         repositories.UserRepository
	Hasher           auth.PasswordHasher
	Tokens           *auth.TokenCodec
	EmailProvider    email.Provider
	BaseURL          string
	MaxLoginAttempts int
}

func NewServiceContainer(deps ServiceDeps) *ServiceContainer {
	return &ServiceContainer{
		UserService:  NewUserService(deps.UserRepo, deps.Hasher, deps.EmailProvider, deps.BaseURL),
		AuthService:  NewAuthService(deps.UserRepo, deps.Hasher, deps.Tokens, deps.MaxLoginAttempts),
		EmailService: deps.EmailProvider,
	}
}
