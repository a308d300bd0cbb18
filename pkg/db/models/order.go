package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/velomarket/velomarket-backend/pkg/enums"
)

// Order is the checkout snapshot. Buyer fields are copied from the form at
// placement and stay fixed even when the customer profile changes later.
type Order struct {
	ID         uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID uuid.UUID         `gorm:"column:customer_id;type:uuid;not null"`
	CartID     *uuid.UUID        `gorm:"column:cart_id;type:uuid"`
	FirstName  string            `gorm:"column:first_name;not null"`
	LastName   string            `gorm:"column:last_name;not null"`
	Phone      string            `gorm:"column:phone;not null"`
	Address    string            `gorm:"column:address;not null"`
	Comment    *string           `gorm:"column:comment"`
	Status     enums.OrderStatus `gorm:"column:status;not null;default:'new'"`
	BuyingType enums.BuyingType  `gorm:"column:buying_type;not null;default:'pickup'"`
	OrderDate  time.Time         `gorm:"column:order_date;type:date;not null"`
	CreatedAt  time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
