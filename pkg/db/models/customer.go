package models

import (
	"time"

	"github.com/google/uuid"
)

// Customer is the buyer identity wrapping exactly one User account.
type Customer struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	Phone     *string   `gorm:"column:phone"`
	Address   *string   `gorm:"column:address"`
	Orders    []Order   `gorm:"foreignKey:CustomerID"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
