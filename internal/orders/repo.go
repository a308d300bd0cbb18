package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velomarket/velomarket-backend/pkg/db/models"
	"github.com/velomarket/velomarket-backend/pkg/enums"
	"github.com/velomarket/velomarket-backend/pkg/pagination"
)

// Repository exposes persistence operations for orders.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an order repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) OrderRepository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create inserts a new order.
func (r *Repository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if order.Status == "" {
		order.Status = enums.OrderStatusNew
	}
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

// FindByID loads one order by primary key.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListByCustomer returns the customer's orders newest-first.
func (r *Repository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.Order, error) {
	var rows []models.Order
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// List returns a page of orders newest-first using cursor pagination.
func (r *Repository) List(ctx context.Context, filter Filter, cursor *pagination.Cursor, limit int) ([]models.Order, error) {
	query := r.db.WithContext(ctx).Model(&models.Order{})

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.BuyingType != nil {
		query = query.Where("buying_type = ?", *filter.BuyingType)
	}
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Order
	err := query.
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// UpdateStatus sets the status for the specified order.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Update("status", status).Error
}
