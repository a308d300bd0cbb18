package auth

import (
	"github.com/velomarket/velomarket-backend/internal/users"
)

// RegisterRequest contains the payload required to create a shop account.
type RegisterRequest struct {
	Username        string `json:"username" validate:"required,min=3,max=64"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
	FirstName       string `json:"first_name" validate:"required"`
	LastName        string `json:"last_name" validate:"required"`
	Phone           string `json:"phone" validate:"required"`
	Address         string `json:"address" validate:"required"`
}

// LoginRequest carries the credentials for an existing account.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse returns the token pair and the account's public profile.
type LoginResponse struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	User         users.UserDTO `json:"user"`
}

// RefreshRequest carries the stale access token and its refresh token.
type RefreshRequest struct {
	AccessToken  string `json:"access_token" validate:"required"`
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshResponse returns the rotated token pair.
type RefreshResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
