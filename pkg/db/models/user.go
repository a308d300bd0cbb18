package models

import (
	"time"

	"github.com/google/uuid"
)

// User is the authentication identity. Shop-level data lives on Customer.
type User struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Username     string     `gorm:"column:username;not null;uniqueIndex"`
	Email        string     `gorm:"column:email;not null"`
	PasswordHash string     `gorm:"column:password_hash;not null"`
	FirstName    string     `gorm:"column:first_name;not null"`
	LastName     string     `gorm:"column:last_name;not null"`
	IsStaff      bool       `gorm:"column:is_staff;not null;default:false"`
	LastLoginAt  *time.Time `gorm:"column:last_login_at"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
