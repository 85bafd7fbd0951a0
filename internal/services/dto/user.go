package dto

import (
	"time"

	"accounts_backend/internal/models"
)

// CreateUserRequest - создание пользователя администратором или менеджером
type CreateUserRequest struct {
	Email              string          `json:"email" validate:"required,account-email" example:"jane.doe@example.com"`
	Nickname           *string         `json:"nickname,omitempty" validate:"omitempty,nickname" example:"jane_doe"`
	Password           string          `json:"password" validate:"required,strong-password" example:"Secure*1234"`
	Role               models.UserRole `json:"role,omitempty" validate:"omitempty,is-user-role" example:"AUTHENTICATED"`
	FirstName          string          `json:"first_name,omitempty" validate:"max=100"`
	LastName           string          `json:"last_name,omitempty" validate:"max=100"`
	Bio                string          `json:"bio,omitempty" validate:"max=500"`
	ProfilePictureURL  *string         `json:"profile_picture_url,omitempty" validate:"omitempty,profile-url"`
	GithubProfileURL   *string         `json:"github_profile_url,omitempty" validate:"omitempty,profile-url"`
	LinkedinProfileURL *string         `json:"linkedin_profile_url,omitempty" validate:"omitempty,profile-url"`
}

// UpdateUserRequest - частичное обновление, nil означает "не менять".
// Пустая строка в URL-полях очищает ссылку.
type UpdateUserRequest struct {
	Email              *string          `json:"email,omitempty" validate:"omitempty,account-email"`
	Nickname           *string          `json:"nickname,omitempty" validate:"omitempty,nickname"`
	FirstName          *string          `json:"first_name,omitempty" validate:"omitempty,max=100"`
	LastName           *string          `json:"last_name,omitempty" validate:"omitempty,max=100"`
	Bio                *string          `json:"bio,omitempty" validate:"omitempty,max=500"`
	ProfilePictureURL  *string          `json:"profile_picture_url,omitempty" validate:"omitempty,profile-url"`
	GithubProfileURL   *string          `json:"github_profile_url,omitempty" validate:"omitempty,profile-url"`
	LinkedinProfileURL *string          `json:"linkedin_profile_url,omitempty" validate:"omitempty,profile-url"`
	Role               *models.UserRole `json:"role,omitempty" validate:"omitempty,is-user-role"`
	IsLocked           *bool            `json:"is_locked,omitempty"`
}

// UserResponse - публичное представление пользователя, без хеша пароля и токенов
type UserResponse struct {
	ID                 string          `json:"id"`
	Email              string          `json:"email"`
	Nickname           string          `json:"nickname"`
	FirstName          string          `json:"first_name,omitempty"`
	LastName           string          `json:"last_name,omitempty"`
	Bio                string          `json:"bio,omitempty"`
	ProfilePictureURL  *string         `json:"profile_picture_url"`
	GithubProfileURL   *string         `json:"github_profile_url"`
	LinkedinProfileURL *string         `json:"linkedin_profile_url"`
	Role               models.UserRole `json:"role"`
	IsVerified         bool            `json:"is_verified"`
	IsLocked           bool            `json:"is_locked"`
	LastLoginAt        *time.Time      `json:"last_login_at"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:                 u.ID,
		Email:              u.Email,
		Nickname:           u.Nickname,
		FirstName:          u.FirstName,
		LastName:           u.LastName,
		Bio:                u.Bio,
		ProfilePictureURL:  u.ProfilePictureURL,
		GithubProfileURL:   u.GithubProfileURL,
		LinkedinProfileURL: u.LinkedinProfileURL,
		Role:               u.Role,
		IsVerified:         u.IsVerified,
		IsLocked:           u.IsLocked,
		LastLoginAt:        u.LastLoginAt,
		CreatedAt:          u.CreatedAt,
		UpdatedAt:          u.UpdatedAt,
	}
}

// UserListResponse - страница пользователей
type UserListResponse struct {
	Items    []UserResponse `json:"items"`
	Total    int64          `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
}

func NewUserListResponse(users []models.User, total int64, page, pageSize int) UserListResponse {
	items := make([]UserResponse, 0, len(users))
	for i := range users {
		items = append(items, NewUserResponse(&users[i]))
	}
	return UserListResponse{Items: items, Total: total, Page: page, PageSize: pageSize}
}
