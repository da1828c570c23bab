package auth

import (
	"github.com/civictrack/civictrack-backend/internal/users"
)

// LoginRequest captures the credentials sent to the login endpoint.
// WantsAdmin asks for the admin surface and is rejected for citizen accounts.
type LoginRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required"`
	WantsAdmin bool   `json:"wants_admin"`
}

// LoginResponse contains the session token and user produced by a successful login.
type LoginResponse struct {
	Token string         `json:"token"`
	User  *users.UserDTO `json:"user"`
}

// RegisterRequest contains the payload required for creating a citizen account.
type RegisterRequest struct {
	Name     string  `json:"name" validate:"required"`
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=8"`
	Phone    *string `json:"phone,omitempty"`
}

// RegisterResponse mirrors LoginResponse so clients are signed in right after
// registration.
type RegisterResponse struct {
	Token string         `json:"token"`
	User  *users.UserDTO `json:"user"`
}
