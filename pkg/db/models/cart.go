package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cart is a visitor's basket. TotalProducts and FinalPrice are caches owned
// by the cart service's recalculation; nothing else may write them.
type Cart struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OwnerID       *uuid.UUID      `gorm:"column:owner_id;type:uuid"`
	TotalProducts int             `gorm:"column:total_products;not null;default:0"`
	FinalPrice    decimal.Decimal `gorm:"column:final_price;type:numeric(12,2);not null;default:0"`
	ShippingPrice decimal.Decimal `gorm:"column:shipping_price;type:numeric(12,2);not null;default:0"`
	InOrder       bool            `gorm:"column:in_order;not null;default:false"`
	ForAnonymous  bool            `gorm:"column:for_anonymous_users;not null;default:false"`
	Items         []CartItem      `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
