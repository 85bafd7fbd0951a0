package apperrors

import (
	"net/http"
)

// =========================================================================
// Аккаунты
// =========================================================================

var ErrUserNotFound = New(
	CodeNotFound,
	"users",
	"User not found",
	http.StatusNotFound,
)

var ErrEmailAlreadyExists = New(
	CodeDuplicateEmail,
	"users",
	"Email already exists",
	http.StatusBadRequest,
)

var ErrNicknameAlreadyExists = New(
	CodeDuplicateNickname,
	"users",
	"Nickname already exists",
	http.StatusBadRequest,
)

// =========================================================================
// Аутентификация
// =========================================================================

// ErrInvalidCredentials одинакова для неизвестного email и неверного пароля
var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Incorrect email or password.",
	http.StatusUnauthorized,
)

var ErrUserNotVerified = New(
	CodeUserNotVerified,
	"auth",
	"Please verify your email address",
	http.StatusUnauthorized,
)

var ErrUserLocked = New(
	CodeUserLocked,
	"auth",
	"Account locked due to too many failed login attempts.",
	http.StatusForbidden,
)

var ErrInvalidVerificationToken = New(
	CodeInvalidVerificationKey,
	"auth",
	"Invalid or expired verification token",
	http.StatusBadRequest,
)

// =========================================================================
// Токены
// =========================================================================

var ErrTokenExpired = New(
	CodeTokenExpired,
	"auth",
	"Token has expired",
	http.StatusUnauthorized,
)

var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid token",
	http.StatusUnauthorized,
)

var ErrNotAuthenticated = New(
	CodeUnauthorized,
	"auth",
	"Not authenticated",
	http.StatusUnauthorized,
)

// =========================================================================
// Авторизация
// =========================================================================

// ErrForbidden не сообщает, какое правило отказало
var ErrForbidden = New(
	CodeForbidden,
	"auth",
	"Forbidden",
	http.StatusForbidden,
)
