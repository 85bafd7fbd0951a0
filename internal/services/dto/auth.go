package dto

// RegisterRequest - самостоятельная регистрация. Nickname генерируется, если не передан.
type RegisterRequest struct {
	Email    string  `json:"email" form:"email" validate:"required,account-email" example:"john.doe@example.com"`
	Nickname *string `json:"nickname,omitempty" form:"nickname" validate:"omitempty,nickname" example:"john_doe"`
	Password string  `json:"password" form:"password" validate:"required,strong-password" example:"Secure*1234"`
}

// LoginRequest - запрос входа (JSON)
type LoginRequest struct {
	Email    string `json:"email" validate:"required" example:"john.doe@example.com"`
	Password string `json:"password" validate:"required" example:"Secure*1234"`
}

// OAuth2LoginForm - вход в стиле OAuth2 password flow (form-urlencoded)
type OAuth2LoginForm struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

// TokenResponse - ответ с access токеном
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type" example:"bearer"`
}

// MessageResponse - простой ответ с сообщением
type MessageResponse struct {
	Message string `json:"message"`
}
