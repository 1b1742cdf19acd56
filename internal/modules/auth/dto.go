package auth

type RegisterRequest struct {
	Name              string `json:"name" binding:"required" validate:"required,min=2,max=80"`
	Email             string `json:"email" binding:"required" validate:"required,email"`
	Phone             string `json:"phone" binding:"required" validate:"required"`
	Password          string `json:"password" binding:"required" validate:"required,min=8"`
	PreferredLanguage string `json:"preferredLanguage"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}
