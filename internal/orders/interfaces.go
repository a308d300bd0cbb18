package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velomarket/velomarket-backend/pkg/db/models"
	"github.com/velomarket/velomarket-backend/pkg/enums"
	"github.com/velomarket/velomarket-backend/pkg/pagination"
)

// OrderRepository defines the persistence surface required by the order service.
type OrderRepository interface {
	WithTx(tx *gorm.DB) OrderRepository

	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.Order, error)
	List(ctx context.Context, filter Filter, cursor *pagination.Cursor, limit int) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error
}

// Filter narrows admin order listings.
type Filter struct {
	Status     *enums.OrderStatus
	BuyingType *enums.BuyingType
	CustomerID *uuid.UUID
}
