package email

import (
	"context"
	"log/slog"
)

// LogProvider пишет письма в лог вместо отправки. Используется, когда SMTP не настроен.
type LogProvider struct {
	logger *slog.Logger
}

func NewLogProvider(logger *slog.Logger) *LogProvider {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogProvider{logger: logger.With("component", "email")}
}

func (p *LogProvider) Send(ctx context.Context, email *Email) error {
	p.logger.InfoContext(ctx, "email not sent, smtp disabled",
		"to", email.To,
		"subject", email.Subject,
	)
	return nil
}

func (p *LogProvider) SendVerification(ctx context.Context, to, link string) error {
	p.logger.InfoContext(ctx, "verification email", "to", to, "link", link)
	return nil
}

func (p *LogProvider) Validate() error { return nil }
func (p *LogProvider) Close() error    { return nil }
