package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velomarket/velomarket-backend/pkg/db/models"
	"github.com/velomarket/velomarket-backend/pkg/enums"
	pkgerrors "github.com/velomarket/velomarket-backend/pkg/errors"
	"github.com/velomarket/velomarket-backend/pkg/pagination"
)

// Service exposes order history for customers and fulfillment tooling for staff.
type Service interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	HistoryForCustomer(ctx context.Context, customerID uuid.UUID) ([]models.Order, error)
	ListOrders(ctx context.Context, filter Filter, params pagination.Params) (*OrderPage, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*models.Order, error)
}

// OrderPage is one cursor page of orders.
type OrderPage struct {
	Orders     []models.Order
	NextCursor string
}

type service struct {
	repo OrderRepository
}

// NewService builds an order service backed by the provided repository.
func NewService(repo OrderRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func (s *service) HistoryForCustomer(ctx context.Context, customerID uuid.UUID) ([]models.Order, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	rows, err := s.repo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return rows, nil
}

func (s *service) ListOrders(ctx context.Context, filter Filter, params pagination.Params) (*OrderPage, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	rows, err := s.repo.List(ctx, filter, cursor, pagination.LimitWithBuffer(params.Limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}

	page := &OrderPage{Orders: rows}
	if len(rows) > limit {
		page.Orders = rows[:limit]
		last := page.Orders[limit-1]
		page.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	return page, nil
}

// UpdateStatus sets an order's fulfillment status. Any valid status may be
// assigned from any other; staff own the workflow.
func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*models.Order, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	parsed, err := enums.ParseOrderStatus(status)
	if err != nil {
		return nil, pkgerrors.New(
			pkgerrors.CodeValidation,
			fmt.Sprintf("unknown order status %q", status),
		)
	}

	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateStatus(ctx, id, parsed); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}
	return s.GetByID(ctx, id)
}
