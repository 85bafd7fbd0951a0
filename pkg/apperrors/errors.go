package apperrors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// AppError - ошибка, которую сервисы отдают HTTP слою. Err и HTTPCode
// наружу не сериализуются.
type AppError struct {
	Code     ErrorCode `json:"code"`
	Domain   string    `json:"domain"`
	Message  string    `json:"message"`
	Details  any       `json:"details,omitempty"`
	Err      error     `json:"-"`
	HTTPCode int       `json:"-"`
}

func New(code ErrorCode, domain, message string, httpCode int) *AppError {
	return &AppError{Code: code, Domain: domain, Message: message, HTTPCode: httpCode}
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("[%s:%s] %s", e.Domain, e.Code, e.Message)
	}
	return fmt.Sprintf("[%s:%s] %s (%v)", e.Domain, e.Code, e.Message, e.Err)
}

func (e *AppError) Unwrap() error { return e.Err }

// Is сравнивает по коду, поэтому копии из WithDetails/WithError
// совпадают со своим sentinel
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && e.Code == t.Code
}

// WithDetails возвращает копию. Sentinel'ы общие, их не меняем.
func (e *AppError) WithDetails(details any) *AppError {
	cp := *e
	cp.Details = details
	return &cp
}

func (e *AppError) WithError(err error) *AppError {
	cp := *e
	cp.Err = err
	return &cp
}

func Is(err, target error) bool { return stderrors.Is(err, target) }

func As(err error, target any) bool { return stderrors.As(err, target) }

// InternalError прячет неизвестную ошибку за 500
func InternalError(err error) *AppError {
	return New(CodeInternalError, "system", "Internal server error", http.StatusInternalServerError).WithError(err)
}

// ValidationError - 422 со всеми нарушенными правилами в details
func ValidationError(details any) *AppError {
	return New(CodeValidationFailed, "validation", "Validation failed", http.StatusUnprocessableEntity).WithDetails(details)
}

func NewBadRequestError(message string) *AppError {
	return New(CodeBadRequest, "request", message, http.StatusBadRequest)
}
