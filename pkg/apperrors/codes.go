package apperrors

// ErrorCode - стабильный машиночитаемый код ошибки
type ErrorCode string

const (
	CodeInternalError ErrorCode = "INTERNAL_ERROR"

	CodeBadRequest        ErrorCode = "BAD_REQUEST"
	CodeNotFound          ErrorCode = "NOT_FOUND"
	CodeValidationFailed  ErrorCode = "VALIDATION_FAILED"
	CodeDuplicateEmail    ErrorCode = "DUPLICATE_EMAIL"
	CodeDuplicateNickname ErrorCode = "DUPLICATE_NICKNAME"

	// auth
	CodeUnauthorized           ErrorCode = "UNAUTHORIZED"
	CodeForbidden              ErrorCode = "FORBIDDEN"
	CodeInvalidCredentials     ErrorCode = "INVALID_CREDENTIALS"
	CodeUserNotVerified        ErrorCode = "USER_NOT_VERIFIED"
	CodeUserLocked             ErrorCode = "USER_LOCKED"
	CodeInvalidToken           ErrorCode = "INVALID_TOKEN"
	CodeTokenExpired           ErrorCode = "TOKEN_EXPIRED"
	CodeInvalidVerificationKey ErrorCode = "INVALID_VERIFICATION_TOKEN"
)
