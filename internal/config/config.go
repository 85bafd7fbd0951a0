package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host    string `yaml:"host"`
		Port    int    `yaml:"port"`
		Env     string `yaml:"env"`
		BaseURL string `yaml:"base_url"`
	} `yaml:"server"`

	Database struct {
		// postgres, mysql или memory
		Driver string `yaml:"driver"`
		DSN    string `yaml:"url"`
	} `yaml:"database"`

	Email struct {
		Enabled      bool   `yaml:"enabled"`
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUsername string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
		FromName     string `yaml:"from_name"`
		TemplatesDir string `yaml:"templates_dir"`
	} `yaml:"email"`

	JWT struct {
		Secret string `yaml:"secret"`
		// TTL access токена в минутах
		TTL int `yaml:"access_token_expire_minutes"`
	} `yaml:"jwt"`

	Auth struct {
		MaxLoginAttempts int `yaml:"max_login_attempts"`
		BcryptCost       int `yaml:"bcrypt_cost"`
	} `yaml:"auth"`

	FirstAdmin struct {
		Email    string `yaml:"email"`
		Password string `yaml:"password"`
	} `yaml:"first_admin"`
}

// LoadConfig читает YAML (CONFIG_PATH, по умолчанию config/config.yaml) и
// накладывает переменные окружения. Отсутствующий файл не ошибка, если
// конфигурация пришла из окружения.
func LoadConfig() (*Config, error) {
	var cfg Config

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file at %s: %w", configPath, err)
		}
	case errors.Is(err, os.ErrNotExist):
		// только окружение
	default:
		return nil, fmt.Errorf("failed to open config file at %s: %w", configPath, err)
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnv(cfg *Config) error {
	setString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}
	setInt := func(key string, dst *int) error {
		v, ok := os.LookupEnv(key)
		if !ok || v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
		*dst = n
		return nil
	}

	setString("SERVER_HOST", &cfg.Server.Host)
	setString("SERVER_ENV", &cfg.Server.Env)
	setString("SERVER_BASE_URL", &cfg.Server.BaseURL)
	setString("DATABASE_DRIVER", &cfg.Database.Driver)
	setString("DATABASE_URL", &cfg.Database.DSN)
	setString("JWT_SECRET", &cfg.JWT.Secret)
	setString("SMTP_HOST", &cfg.Email.SMTPHost)
	setString("SMTP_USER", &cfg.Email.SMTPUsername)
	setString("SMTP_PASSWORD", &cfg.Email.SMTPPassword)
	setString("EMAIL_FROM", &cfg.Email.FromEmail)
	setString("FIRST_ADMIN_EMAIL", &cfg.FirstAdmin.Email)
	setString("FIRST_ADMIN_PASSWORD", &cfg.FirstAdmin.Password)

	if v, ok := os.LookupEnv("EMAIL_ENABLED"); ok && v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid EMAIL_ENABLED: %w", err)
		}
		cfg.Email.Enabled = enabled
	}

	for key, dst := range map[string]*int{
		"SERVER_PORT":                 &cfg.Server.Port,
		"SMTP_PORT":                   &cfg.Email.SMTPPort,
		"ACCESS_TOKEN_EXPIRE_MINUTES": &cfg.JWT.TTL,
		"MAX_LOGIN_ATTEMPTS":          &cfg.Auth.MaxLoginAttempts,
	} {
		if err := setInt(key, dst); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.Env == "" {
		c.Server.Env = "development"
	}
	if c.Server.BaseURL == "" {
		c.Server.BaseURL = fmt.Sprintf("http://localhost:%d", c.Server.Port)
	}
	c.Server.BaseURL = strings.TrimRight(c.Server.BaseURL, "/")
	if c.Database.Driver == "" {
		c.Database.Driver = "postgres"
	}
	if c.JWT.TTL <= 0 {
		c.JWT.TTL = 30
	}
	if c.Auth.MaxLoginAttempts <= 0 {
		c.Auth.MaxLoginAttempts = 5
	}
	if c.Email.SMTPPort == 0 {
		c.Email.SMTPPort = 587
	}
}

// Validate проверяет обязательные поля
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return errors.New("jwt secret is required (jwt.secret or JWT_SECRET)")
	}
	switch c.Database.Driver {
	case "postgres", "mysql":
		if c.Database.DSN == "" {
			return fmt.Errorf("database url is required for driver %q", c.Database.Driver)
		}
	case "memory":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Email.Enabled && c.Email.SMTPHost == "" {
		return errors.New("smtp host is required when email is enabled")
	}
	return nil
}

// IsDevelopment - удобный флаг для debug-режимов
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}
