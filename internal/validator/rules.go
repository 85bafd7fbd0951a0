package validator

import (
	"log"
	"net/url"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"accounts_backend/internal/models"
)

const (
	NicknameMinLength = 3
	NicknameMaxLength = 50
	PasswordMinLength = 8
)

var (
	nicknamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	// домен обязан содержать точку, не начинаться с точки и не содержать запятых
	emailDomainPattern = regexp.MustCompile(`^[A-Za-z0-9](?:[A-Za-z0-9-]*[A-Za-z0-9])?(?:\.[A-Za-z0-9](?:[A-Za-z0-9-]*[A-Za-z0-9])?)+$`)
	// отдельный экземпляр для проверки "email" без регистрации наших тегов
	baseValidate = validator.New()
)

// registerCustomRules регистрирует все кастомные функции валидации в
// переданном экземпляре валидатора.
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			// Без правил приложение запускать нельзя
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	mustRegister("is-user-role", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		return value == "" || CheckRole(value) == ""
	})
	mustRegister("nickname", func(fl validator.FieldLevel) bool {
		return len(NicknameViolations(fl.Field().String())) == 0
	})
	mustRegister("strong-password", func(fl validator.FieldLevel) bool {
		return len(PasswordViolations(fl.Field().String())) == 0
	})
	mustRegister("account-email", func(fl validator.FieldLevel) bool {
		return CheckEmail(fl.Field().String()) == ""
	})
	mustRegister("profile-url", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		return value == "" || CheckProfileURL(value) == ""
	})
}

// --- Функции валидации ---
// Каждая возвращает причину отказа (или список причин), пустое значение означает успех.

// PasswordViolations возвращает все нарушенные правила сложности пароля
func PasswordViolations(password string) []string {
	var reasons []string
	if utf8.RuneCountInString(password) < PasswordMinLength {
		reasons = append(reasons, "Password must be at least 8 characters long")
	}

	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			special = true
		}
	}
	if !upper {
		reasons = append(reasons, "Password must contain at least one uppercase letter")
	}
	if !lower {
		reasons = append(reasons, "Password must contain at least one lowercase letter")
	}
	if !digit {
		reasons = append(reasons, "Password must contain at least one number")
	}
	if !special {
		reasons = append(reasons, "Password must contain at least one special character")
	}
	return reasons
}

// NicknameViolations проверяет длину и допустимые символы никнейма
func NicknameViolations(nickname string) []string {
	var reasons []string
	n := utf8.RuneCountInString(nickname)
	if n < NicknameMinLength {
		reasons = append(reasons, "Nickname must be at least 3 characters long")
	}
	if n > NicknameMaxLength {
		reasons = append(reasons, "Nickname must be at most 50 characters long")
	}
	if nickname != "" && !nicknamePattern.MatchString(nickname) {
		reasons = append(reasons, "Nickname may only contain letters, numbers, underscores and hyphens")
	}
	return reasons
}

// CheckEmail проверяет формат адреса
func CheckEmail(email string) string {
	const reason = "value is not a valid email address"
	if email == "" || baseValidate.Var(email, "email") != nil {
		return reason
	}
	at := strings.LastIndex(email, "@")
	if at <= 0 || !emailDomainPattern.MatchString(email[at+1:]) {
		return reason
	}
	return ""
}

// CheckProfileURL допускает только абсолютные http/https ссылки с хостом
func CheckProfileURL(raw string) string {
	const reason = "Invalid URL format"
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return reason
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return reason
	}
	return ""
}

// CheckRole проверяет, что роль входит в фиксированный набор
func CheckRole(role string) string {
	if !models.UserRole(role).IsValid() {
		return "Role must be one of AUTHENTICATED, MANAGER, ADMIN"
	}
	return ""
}
