package services

import (
	"context"
	"errors"
	"time"

	"accounts_backend/internal/auth"
	"accounts_backend/internal/logger"
	"accounts_backend/internal/models"
	"accounts_backend/internal/repositories"
	"accounts_backend/internal/services/dto"
	"accounts_backend/pkg/apperrors"
)

const DefaultMaxLoginAttempts = 5

type AuthService interface {
	// Authenticate проверяет email/пароль и статус аккаунта
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	// Login - Authenticate + выпуск access токена
	Login(ctx context.Context, email, password string) (*dto.TokenResponse, error)
}

type AuthServiceImpl struct {
	userRepo         repositories.UserRepository
	hasher           auth.PasswordHasher
	tokens           *auth.TokenCodec
	maxLoginAttempts int
	now              func() time.Time
}

func NewAuthService(
	userRepo repositories.UserRepository,
	hasher auth.PasswordHasher,
	tokens *auth.TokenCodec,
	maxLoginAttempts int,
) AuthService {
	if maxLoginAttempts <= 0 {
		maxLoginAttempts = DefaultMaxLoginAttempts
	}
	return &AuthServiceImpl{
		userRepo:         userRepo,
		hasher:           hasher,
		tokens:           tokens,
		maxLoginAttempts: maxLoginAttempts,
		now:              time.Now,
	}
}

// Authenticate - порядок проверок: существование, блокировка, пароль, верификация
func (s *AuthServiceImpl) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	if user.IsLocked {
		return nil, apperrors.ErrUserLocked
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		s.registerFailedAttempt(ctx, user)
		return nil, apperrors.ErrInvalidCredentials
	}

	if !user.IsVerified {
		return nil, apperrors.ErrUserNotVerified
	}

	now := s.now().UTC()
	if err := s.userRepo.RecordLogin(ctx, user.ID, now); err != nil {
		return nil, mapRepoError(err)
	}
	user.FailedLoginAttempts = 0
	user.LastLoginAt = &now

	return user, nil
}

// Login - вход, неизвестный email и неверный пароль неразличимы
func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (*dto.TokenResponse, error) {
	user, err := s.Authenticate(ctx, email, password)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	token, err := s.tokens.Issue(map[string]any{
		"sub":   user.ID,
		"email": user.Email,
		"role":  string(user.Role),
	}, 0)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "user logged in", "target_user_id", user.ID)
	return &dto.TokenResponse{AccessToken: token, TokenType: "bearer"}, nil
}

// registerFailedAttempt увеличивает счетчик в хранилище, блокировка ставится там же
func (s *AuthServiceImpl) registerFailedAttempt(ctx context.Context, user *models.User) {
	locked, err := s.userRepo.RecordFailedLogin(ctx, user.ID, s.maxLoginAttempts)
	if err != nil {
		logger.CtxWithError(ctx, "failed to record login attempt", err, "target_user_id", user.ID)
		return
	}
	if locked {
		logger.CtxWarn(ctx, "account locked after failed logins", "target_user_id", user.ID)
	}
}
