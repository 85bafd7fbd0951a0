package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"accounts_backend/pkg/apperrors"
)

// Violation - одно нарушенное правило для поля
type Violation struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// Violations собирает все нарушения запроса, а не только первое
type Violations []Violation

func (v *Violations) Add(field, reason string) {
	*v = append(*v, Violation{Field: field, Reason: reason})
}

func (v *Violations) AddAll(field string, reasons []string) {
	for _, r := range reasons {
		v.Add(field, r)
	}
}

// Err возвращает nil, если нарушений нет, иначе 422 AppError со списком нарушений.
func (v Violations) Err() error {
	if len(v) == 0 {
		return nil
	}
	return apperrors.ValidationError(v)
}

func (v Violations) Error() string {
	msgs := make([]string, 0, len(v))
	for _, item := range v {
		msgs = append(msgs, fmt.Sprintf("field '%s': %s", item.Field, item.Reason))
	}
	return "Validation failed: " + strings.Join(msgs, "; ")
}

// Validator - обертка над go-playground/validator
type Validator struct {
	validate *validator.Validate
}

// New создает новый экземпляр Validator.
func New() *Validator {
	v := validator.New()

	// Имена полей в ошибках берем из json-тегов DTO
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	registerCustomRules(v)

	return &Validator{
		validate: v,
	}
}

// Validate проверяет структуру по тегам.
// Ошибки валидации возвращаются как 422 AppError с деталями по каждому полю.
func (v *Validator) Validate(i interface{}) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	var out Violations
	for _, fe := range validationErrors {
		out.AddAll(fe.Field(), v.messagesFor(fe))
	}
	return out.Err()
}

// messagesFor - для кастомных тегов повторно прогоняем правило и отдаем все причины
func (v *Validator) messagesFor(fe validator.FieldError) []string {
	var value string
	if rv := reflect.Indirect(reflect.ValueOf(fe.Value())); rv.IsValid() && rv.Kind() == reflect.String {
		value = rv.String()
	}

	switch fe.Tag() {
	case "required":
		return []string{"This field is required"}
	case "email", "account-email":
		return []string{"value is not a valid email address"}
	case "strong-password":
		return PasswordViolations(value)
	case "nickname":
		return NicknameViolations(value)
	case "profile-url":
		return []string{CheckProfileURL(value)}
	case "is-user-role":
		return []string{CheckRole(value)}
	case "min":
		if fe.Kind() == reflect.String || fe.Kind() == reflect.Slice || fe.Kind() == reflect.Map {
			return []string{fmt.Sprintf("Must be at least %s characters long", fe.Param())}
		}
		return []string{fmt.Sprintf("Must be at least %s", fe.Param())}
	case "max":
		return []string{fmt.Sprintf("Must be at most %s", fe.Param())}
	case "oneof":
		return []string{fmt.Sprintf("Must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))}
	default:
		return []string{fmt.Sprintf("Invalid value (failed on '%s' tag)", fe.Tag())}
	}
}
