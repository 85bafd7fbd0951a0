package email

import (
	"context"
	"sync"
)

// SentVerification - записанное письмо подтверждения
type SentVerification struct {
	To   string
	Link string
}

// RecordingProvider запоминает отправленные письма. Используется в тестах.
type RecordingProvider struct {
	mu            sync.Mutex
	Emails        []Email
	Verifications []SentVerification
	// Err возвращается из каждой отправки, если задан
	Err error
}

func (p *RecordingProvider) Send(_ context.Context, email *Email) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.Emails = append(p.Emails, *email)
	return nil
}

func (p *RecordingProvider) SendVerification(_ context.Context, to, link string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.Verifications = append(p.Verifications, SentVerification{To: to, Link: link})
	return nil
}

// LastVerification возвращает последнее письмо подтверждения для адреса
func (p *RecordingProvider) LastVerification(to string) (SentVerification, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := len(p.Verifications) - 1; i >= 0; i-- {
		if p.Verifications[i].To == to {
			return p.Verifications[i], true
		}
	}
	return SentVerification{}, false
}

func (p *RecordingProvider) Validate() error { return nil }
func (p *RecordingProvider) Close() error    { return nil }
