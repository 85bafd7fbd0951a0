package models

import "time"

// User is the account record. PasswordHash and VerificationToken never leave
// the service layer; both are excluded from JSON.
type User struct {
	BaseModel
	Email               string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Nickname            string     `gorm:"type:varchar(50);uniqueIndex;not null" json:"nickname"`
	FirstName           string     `gorm:"type:varchar(100)" json:"first_name,omitempty"`
	LastName            string     `gorm:"type:varchar(100)" json:"last_name,omitempty"`
	Bio                 string     `gorm:"type:text" json:"bio,omitempty"`
	ProfilePictureURL   *string    `gorm:"type:varchar(255)" json:"profile_picture_url,omitempty"`
	GithubProfileURL    *string    `gorm:"type:varchar(255)" json:"github_profile_url,omitempty"`
	LinkedinProfileURL  *string    `gorm:"type:varchar(255)" json:"linkedin_profile_url,omitempty"`
	PasswordHash        string     `gorm:"type:varchar(255);not null" json:"-"`
	Role                UserRole   `gorm:"type:varchar(20);not null" json:"role"`
	IsVerified          bool       `gorm:"default:false" json:"is_verified"`
	VerificationToken   string     `gorm:"type:varchar(64)" json:"-"`
	FailedLoginAttempts int        `gorm:"default:0" json:"-"`
	IsLocked            bool       `gorm:"default:false" json:"is_locked"`
	LastLoginAt         *time.Time `json:"last_login_at,omitempty"`
}
