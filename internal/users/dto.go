package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/velomarket/velomarket-backend/pkg/db/models"
)

// UserDTO is the public shape of an account.
type UserDTO struct {
	ID          uuid.UUID  `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	IsStaff     bool       `json:"is_staff"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// FromModel maps a user row to its public DTO.
func FromModel(user *models.User) UserDTO {
	if user == nil {
		return UserDTO{}
	}
	return UserDTO{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		IsStaff:     user.IsStaff,
		LastLoginAt: user.LastLoginAt,
	}
}
