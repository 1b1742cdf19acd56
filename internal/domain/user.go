package domain

import "time"

type UserRole string

const (
	RoleClient   UserRole = "client"
	RoleEmployee UserRole = "employee"
	RoleOwner    UserRole = "owner"
)

type Language string

const (
	LangEnglish Language = "en"
	LangSpanish Language = "es"
)

type User struct {
	ID                int64     `json:"id"`
	Email             string    `json:"email" validate:"required,email"`
	PasswordHash      string    `json:"-"`
	Role              UserRole  `json:"role"`
	Name              string    `json:"name"`
	Phone             string    `json:"phone"`
	PreferredLanguage Language  `json:"preferredLanguage"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// Identity is the verified caller extracted from a session token.
// Services take it as an explicit parameter; nil means anonymous.
type Identity struct {
	UserID int64    `json:"uid"`
	Email  string   `json:"email"`
	Role   UserRole `json:"role"`
	Name   string   `json:"name,omitempty"`
}
