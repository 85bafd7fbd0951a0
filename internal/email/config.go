package email

import (
	"errors"
	"fmt"
	"net/mail"

	"gopkg.in/gomail.v2"
)

// SMTPConfig - параметры подключения к SMTP серверу
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
}

// DefaultSMTPConfig - submission порт на localhost, адрес отправителя не задан
func DefaultSMTPConfig() *SMTPConfig {
	return &SMTPConfig{Host: "localhost", Port: 587}
}

func (c *SMTPConfig) Validate() error {
	if c.Host == "" {
		return errors.New("SMTP host is required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid SMTP port: %d", c.Port)
	}
	if c.FromEmail == "" {
		return errors.New("SMTP from address is required")
	}
	if _, err := mail.ParseAddress(c.FromEmail); err != nil {
		return fmt.Errorf("invalid SMTP from address %q: %w", c.FromEmail, err)
	}
	return nil
}

// dialer - gomail сам включает SSL для порта 465
func (c *SMTPConfig) dialer() *gomail.Dialer {
	return gomail.NewDialer(c.Host, c.Port, c.Username, c.Password)
}
