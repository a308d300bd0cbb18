package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartItem is one product line inside a cart, unique per (cart, product).
// FinalPrice is a cache of quantity times the unit price at last save; it is
// never caller-settable and goes stale if the product is repriced afterwards.
type CartItem struct {
	ID         uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID *uuid.UUID      `gorm:"column:customer_id;type:uuid"`
	CartID     uuid.UUID       `gorm:"column:cart_id;type:uuid;not null;uniqueIndex:idx_cart_items_cart_product"`
	ProductID  uuid.UUID       `gorm:"column:product_id;type:uuid;not null;uniqueIndex:idx_cart_items_cart_product"`
	Quantity   int             `gorm:"column:quantity;not null;default:1"`
	FinalPrice decimal.Decimal `gorm:"column:final_price;type:numeric(12,2);not null;default:0"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// Reprice recomputes the cached line total from the current quantity and the
// provided unit price. Every save path must call this first.
func (i *CartItem) Reprice(unitPrice decimal.Decimal) {
	i.FinalPrice = unitPrice.Mul(decimal.NewFromInt(int64(i.Quantity))).Round(2)
}
