package email

import "context"

// Provider определяет интерфейс для отправки email
type Provider interface {
	// Send отправляет email сообщение
	Send(ctx context.Context, email *Email) error

	// SendVerification отправляет письмо со ссылкой подтверждения адреса
	SendVerification(ctx context.Context, to, link string) error

	// Validate проверяет конфигурацию провайдера
	Validate() error

	// Close закрывает соединение с провайдером
	Close() error
}

// TemplateRenderer определяет интерфейс для рендеринга шаблонов
type TemplateRenderer interface {
	Render(templateName string, data TemplateData) (string, error)
}

const (
	VerificationTemplate = "verify_email"
	VerificationSubject  = "Verify your account"
)
