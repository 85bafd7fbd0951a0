package app

import (
	"context"
	"fmt"
	"time"

	"accounts_backend/database"
	"accounts_backend/internal/auth"
	"accounts_backend/internal/config"
	"accounts_backend/internal/email"
	"accounts_backend/internal/handlers"
	"accounts_backend/internal/logger"
	"accounts_backend/internal/middleware"
	"accounts_backend/internal/repositories"
	"accounts_backend/internal/routes"
	"accounts_backend/internal/services"
	"accounts_backend/internal/validator"
	"accounts_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// Dependencies - внешние зависимости роутера, подменяемые в тестах
type Dependencies struct {
	UserRepo      repositories.UserRepository
	EmailProvider email.Provider
	Hasher        auth.PasswordHasher
}

func Run() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load config", "error", err)
	}
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	apperrors.SetDebug(cfg.IsDevelopment())
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	userRepo, err := initializeUserRepository(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize storage", "error", err)
	}

	emailProvider, err := initializeEmailProvider(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize email provider", "error", err)
	}
	defer emailProvider.Close()

	deps := Dependencies{
		UserRepo:      userRepo,
		EmailProvider: emailProvider,
		Hasher:        auth.NewBcryptHasher(cfg.Auth.BcryptCost),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	err = seedFirstAdmin(ctx, cfg, deps)
	cancel()
	if err != nil {
		// Если не удалось создать админа - не запускаем сервер
		logger.Fatal("Failed to seed first admin user", "error", err)
	}

	ginRouter, err := SetupRouter(cfg, deps)
	if err != nil {
		logger.Fatal("Failed to set up router", "error", err)
	}

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Server starting", "address", address)
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

// SetupRouter собирает сервисы, хэндлеры и маршруты
func SetupRouter(cfg *config.Config, deps Dependencies) (*gin.Engine, error) {
	tokens, err := auth.NewTokenCodec([]byte(cfg.JWT.Secret), time.Duration(cfg.JWT.TTL)*time.Minute)
	if err != nil {
		return nil, err
	}

	serviceContainer := services.NewServiceContainer(services.ServiceDeps{
		UserRepo:         deps.UserRepo,
		Hasher:           deps.Hasher,
		Tokens:           tokens,
		EmailProvider:    deps.EmailProvider,
		BaseURL:          cfg.Server.BaseURL,
		MaxLoginAttempts: cfg.Auth.MaxLoginAttempts,
	})
	appHandlers := handlers.NewAppHandlers(serviceContainer, validator.New())

	ginRouter := initializeGinRouter()
	routes.RegisterRoutes(ginRouter, appHandlers, tokens)
	return ginRouter, nil
}

func initializeGinRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware())
	return router
}

// initializeUserRepository - gorm для postgres/mysql, память для driver=memory
func initializeUserRepository(cfg *config.Config) (repositories.UserRepository, error) {
	if cfg.Database.Driver == "memory" {
		logger.Warn("Using in-memory storage, data is lost on restart")
		return repositories.NewMemoryUserRepository(), nil
	}

	logger.Info("Connecting to database...", "driver", cfg.Database.Driver)
	db, err := database.Open(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.AutoMigrate(db); err != nil {
		return nil, err
	}
	logger.Info("Database connected")
	return repositories.NewUserRepository(db), nil
}

func initializeEmailProvider(cfg *config.Config) (email.Provider, error) {
	if !cfg.Email.Enabled {
		logger.Warn("Email sending disabled, verification links are written to the log")
		return email.NewLogProvider(logger.GetLogger()), nil
	}

	renderer := email.NewTemplateManager()
	if cfg.Email.TemplatesDir != "" {
		if err := renderer.LoadTemplates(cfg.Email.TemplatesDir); err != nil {
			return nil, err
		}
	}

	provider := email.NewSMTPProvider(&email.SMTPConfig{
		Host:      cfg.Email.SMTPHost,
		Port:      cfg.Email.SMTPPort,
		Username:  cfg.Email.SMTPUsername,
		Password:  cfg.Email.SMTPPassword,
		FromEmail: cfg.Email.FromEmail,
		FromName:  cfg.Email.FromName,
	}, renderer)
	if err := provider.Validate(); err != nil {
		return nil, err
	}
	return provider, nil
}
