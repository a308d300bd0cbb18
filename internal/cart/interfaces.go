package cart

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velomarket/velomarket-backend/pkg/db/models"
)

// CartRepository defines the persistence surface required by the cart service.
type CartRepository interface {
	WithTx(tx *gorm.DB) CartRepository

	FindByID(ctx context.Context, id uuid.UUID) (*models.Cart, error)
	FindActiveByOwner(ctx context.Context, ownerID uuid.UUID) (*models.Cart, error)
	Create(ctx context.Context, cart *models.Cart) (*models.Cart, error)
	Update(ctx context.Context, cart *models.Cart) (*models.Cart, error)

	FindItem(ctx context.Context, cartID, productID uuid.UUID) (*models.CartItem, error)
	CreateItem(ctx context.Context, item *models.CartItem) (*models.CartItem, error)
	UpdateItem(ctx context.Context, item *models.CartItem) (*models.CartItem, error)
	DeleteItem(ctx context.Context, item *models.CartItem) error
	ListItems(ctx context.Context, cartID uuid.UUID) ([]models.CartItem, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type productLoader interface {
	FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}
