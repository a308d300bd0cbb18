package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velomarket/velomarket-backend/internal/cart"
	"github.com/velomarket/velomarket-backend/internal/orders"
	"github.com/velomarket/velomarket-backend/pkg/db/models"
	"github.com/velomarket/velomarket-backend/pkg/enums"
	pkgerrors "github.com/velomarket/velomarket-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service turns a cart into an order.
type Service interface {
	PlaceOrder(ctx context.Context, input PlaceOrderInput) (*models.Order, error)
}

// PlaceOrderInput is the checkout form plus the identities resolved upstream.
type PlaceOrderInput struct {
	CustomerID uuid.UUID
	CartID     uuid.UUID
	FirstName  string
	LastName   string
	Phone      string
	Address    string
	Comment    *string
	BuyingType string
	OrderDate  time.Time
}

type service struct {
	tx     txRunner
	carts  cart.CartRepository
	orders orders.OrderRepository
}

// NewService builds a checkout service backed by the provided stack.
func NewService(tx txRunner, carts cart.CartRepository, orderRepo orders.OrderRepository) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if carts == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if orderRepo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	return &service{tx: tx, carts: carts, orders: orderRepo}, nil
}

// PlaceOrder snapshots the buyer form into an order and seals the cart, all
// inside one transaction. A failure leaves both the cart and the orders table
// untouched.
func (s *service) PlaceOrder(ctx context.Context, input PlaceOrderInput) (*models.Order, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	buyingType, err := enums.ParseBuyingType(input.BuyingType)
	if err != nil {
		return nil, pkgerrors.New(
			pkgerrors.CodeValidation,
			fmt.Sprintf("unknown buying type %q", input.BuyingType),
		)
	}

	var placed *models.Order
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		carts := s.carts.WithTx(tx)
		orderRepo := s.orders.WithTx(tx)

		basket, err := carts.FindByID(ctx, input.CartID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
		}
		if basket.InOrder {
			return pkgerrors.New(pkgerrors.CodeConflict, "cart has already been checked out")
		}
		if len(basket.Items) == 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
		}
		if basket.OwnerID != nil && *basket.OwnerID != input.CustomerID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "cart belongs to another customer")
		}

		cartID := basket.ID
		order := &models.Order{
			CustomerID: input.CustomerID,
			CartID:     &cartID,
			FirstName:  strings.TrimSpace(input.FirstName),
			LastName:   strings.TrimSpace(input.LastName),
			Phone:      strings.TrimSpace(input.Phone),
			Address:    strings.TrimSpace(input.Address),
			Comment:    input.Comment,
			Status:     enums.OrderStatusNew,
			BuyingType: buyingType,
			OrderDate:  input.OrderDate,
		}

		placed, err = orderRepo.Create(ctx, order)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}

		basket.InOrder = true
		if basket.OwnerID == nil {
			// a guest cart is adopted by the customer at checkout
			customerID := input.CustomerID
			basket.OwnerID = &customerID
		}
		if _, err := carts.Update(ctx, basket); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "seal cart")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return placed, nil
}

func validateInput(input PlaceOrderInput) error {
	if input.CustomerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	if input.CartID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart id is required")
	}

	missing := []string{}
	if strings.TrimSpace(input.FirstName) == "" {
		missing = append(missing, "first_name")
	}
	if strings.TrimSpace(input.LastName) == "" {
		missing = append(missing, "last_name")
	}
	if strings.TrimSpace(input.Phone) == "" {
		missing = append(missing, "phone")
	}
	if strings.TrimSpace(input.Address) == "" {
		missing = append(missing, "address")
	}
	if input.OrderDate.IsZero() {
		missing = append(missing, "order_date")
	}
	if len(missing) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "missing required checkout fields").
			WithDetails(map[string]any{"fields": missing})
	}
	return nil
}
