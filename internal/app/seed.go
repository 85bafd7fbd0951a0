package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"accounts_backend/internal/config"
	"accounts_backend/internal/logger"
	"accounts_backend/internal/models"
	"accounts_backend/internal/repositories"

	"github.com/google/uuid"
)

// seedFirstAdmin создает подтвержденного ADMIN из first_admin, если его еще нет
func seedFirstAdmin(ctx context.Context, cfg *config.Config, deps Dependencies) error {
	adminEmail := strings.ToLower(strings.TrimSpace(cfg.FirstAdmin.Email))
	adminPassword := cfg.FirstAdmin.Password

	if adminEmail == "" || adminPassword == "" {
		logger.Warn("FIRST_ADMIN_EMAIL or FIRST_ADMIN_PASSWORD is not set. Skipping admin seeding.")
		return nil
	}

	_, err := deps.UserRepo.FindByEmail(ctx, adminEmail)
	if err == nil {
		logger.Info("Admin user already exists. Skipping creation.", "email", adminEmail)
		return nil
	}
	if !errors.Is(err, repositories.ErrUserNotFound) {
		return fmt.Errorf("failed to check for admin user: %w", err)
	}

	hashedPassword, err := deps.Hasher.Hash(adminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	nickname := "admin"
	if _, err := deps.UserRepo.FindByNickname(ctx, nickname); err == nil {
		nickname = "admin_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	}

	newAdmin := &models.User{
		BaseModel:    models.BaseModel{ID: uuid.NewString()},
		Email:        adminEmail,
		Nickname:     nickname,
		PasswordHash: hashedPassword,
		Role:         models.UserRoleAdmin,
		IsVerified:   true,
	}
	if err := deps.UserRepo.Create(ctx, newAdmin); err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	logger.Info("Created first admin user", "email", adminEmail)
	return nil
}
