package cart

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velomarket/velomarket-backend/pkg/db/models"
)

// Repository exposes persistence operations for carts and their lines.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a cart repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) CartRepository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// FindByID loads one cart with its items.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ?", id).
		First(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// FindActiveByOwner loads the customer's current cart, skipping carts that
// have already been turned into orders.
func (r *Repository) FindActiveByOwner(ctx context.Context, ownerID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("owner_id = ? AND in_order = ?", ownerID, false).
		Order("created_at DESC").
		First(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// Create inserts a new cart.
func (r *Repository) Create(ctx context.Context, cart *models.Cart) (*models.Cart, error) {
	if err := r.db.WithContext(ctx).Create(cart).Error; err != nil {
		return nil, err
	}
	return cart, nil
}

// Update saves cart fields without touching its item rows.
func (r *Repository) Update(ctx context.Context, cart *models.Cart) (*models.Cart, error) {
	if err := r.db.WithContext(ctx).Omit("Items").Save(cart).Error; err != nil {
		return nil, err
	}
	return cart, nil
}

// FindItem loads the line for a product inside a cart.
func (r *Repository) FindItem(ctx context.Context, cartID, productID uuid.UUID) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// CreateItem inserts a new cart line.
func (r *Repository) CreateItem(ctx context.Context, item *models.CartItem) (*models.CartItem, error) {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateItem saves the provided cart line.
func (r *Repository) UpdateItem(ctx context.Context, item *models.CartItem) (*models.CartItem, error) {
	if err := r.db.WithContext(ctx).Save(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteItem removes the provided cart line.
func (r *Repository) DeleteItem(ctx context.Context, item *models.CartItem) error {
	return r.db.WithContext(ctx).Delete(item).Error
}

// ListItems returns the lines belonging to a cart, oldest first.
func (r *Repository) ListItems(ctx context.Context, cartID uuid.UUID) ([]models.CartItem, error) {
	var rows []models.CartItem
	err := r.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
