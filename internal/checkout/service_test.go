package checkout

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/velomarket/velomarket-backend/internal/cart"
	"github.com/velomarket/velomarket-backend/internal/orders"
	"github.com/velomarket/velomarket-backend/pkg/db/models"
	"github.com/velomarket/velomarket-backend/pkg/enums"
	pkgerrors "github.com/velomarket/velomarket-backend/pkg/errors"
	"github.com/velomarket/velomarket-backend/pkg/pagination"
)

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubCheckoutCartRepo struct {
	cart    *models.Cart
	updated *models.Cart
}

func (s *stubCheckoutCartRepo) WithTx(tx *gorm.DB) cart.CartRepository { return s }

func (s *stubCheckoutCartRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Cart, error) {
	if s.cart == nil || s.cart.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *s.cart
	return &copied, nil
}

func (s *stubCheckoutCartRepo) FindActiveByOwner(ctx context.Context, ownerID uuid.UUID) (*models.Cart, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCheckoutCartRepo) Create(ctx context.Context, c *models.Cart) (*models.Cart, error) {
	return c, nil
}

func (s *stubCheckoutCartRepo) Update(ctx context.Context, c *models.Cart) (*models.Cart, error) {
	s.updated = c
	s.cart = c
	return c, nil
}

func (s *stubCheckoutCartRepo) FindItem(ctx context.Context, cartID, productID uuid.UUID) (*models.CartItem, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCheckoutCartRepo) CreateItem(ctx context.Context, item *models.CartItem) (*models.CartItem, error) {
	return item, nil
}

func (s *stubCheckoutCartRepo) UpdateItem(ctx context.Context, item *models.CartItem) (*models.CartItem, error) {
	return item, nil
}

func (s *stubCheckoutCartRepo) DeleteItem(ctx context.Context, item *models.CartItem) error {
	return nil
}

func (s *stubCheckoutCartRepo) ListItems(ctx context.Context, cartID uuid.UUID) ([]models.CartItem, error) {
	if s.cart == nil {
		return nil, nil
	}
	return s.cart.Items, nil
}

type stubOrderRepo struct {
	created   *models.Order
	createErr error
}

func (s *stubOrderRepo) WithTx(tx *gorm.DB) orders.OrderRepository { return s }

func (s *stubOrderRepo) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	order.ID = uuid.New()
	s.created = order
	return order, nil
}

func (s *stubOrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubOrderRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.Order, error) {
	return nil, nil
}

func (s *stubOrderRepo) List(ctx context.Context, filter orders.Filter, cursor *pagination.Cursor, limit int) ([]models.Order, error) {
	return nil, nil
}

func (s *stubOrderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error {
	return nil
}

func validInput(customerID, cartID uuid.UUID) PlaceOrderInput {
	return PlaceOrderInput{
		CustomerID: customerID,
		CartID:     cartID,
		FirstName:  "Dana",
		LastName:   "Rivera",
		Phone:      "+15550100",
		Address:    "12 Spoke Lane",
		BuyingType: "delivery",
		OrderDate:  time.Date(2026, time.September, 5, 0, 0, 0, 0, time.UTC),
	}
}

func filledCart(ownerID *uuid.UUID) *models.Cart {
	return &models.Cart{
		ID:      uuid.New(),
		OwnerID: ownerID,
		Items: []models.CartItem{
			{ID: uuid.New(), ProductID: uuid.New(), Quantity: 2, FinalPrice: decimal.RequireFromString("40.00")},
		},
	}
}

func TestPlaceOrderSealsCart(t *testing.T) {
	customerID := uuid.New()
	basket := filledCart(&customerID)
	cartRepo := &stubCheckoutCartRepo{cart: basket}
	orderRepo := &stubOrderRepo{}

	svc, err := NewService(stubTxRunner{}, cartRepo, orderRepo)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	placed, err := svc.PlaceOrder(context.Background(), validInput(customerID, basket.ID))
	if err != nil {
		t.Fatalf("place order: %v", err)
	}

	if placed.Status != enums.OrderStatusNew {
		t.Fatalf("expected new status, got %s", placed.Status)
	}
	if placed.BuyingType != enums.BuyingTypeDelivery {
		t.Fatalf("expected delivery, got %s", placed.BuyingType)
	}
	if cartRepo.updated == nil || !cartRepo.updated.InOrder {
		t.Fatalf("expected cart to be sealed")
	}
}

func TestPlaceOrderAdoptsGuestCart(t *testing.T) {
	customerID := uuid.New()
	basket := filledCart(nil)
	basket.ForAnonymous = true
	cartRepo := &stubCheckoutCartRepo{cart: basket}

	svc, err := NewService(stubTxRunner{}, cartRepo, &stubOrderRepo{})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	if _, err := svc.PlaceOrder(context.Background(), validInput(customerID, basket.ID)); err != nil {
		t.Fatalf("place order: %v", err)
	}

	if cartRepo.updated.OwnerID == nil || *cartRepo.updated.OwnerID != customerID {
		t.Fatalf("expected guest cart adopted by customer")
	}
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	customerID := uuid.New()
	basket := &models.Cart{ID: uuid.New(), OwnerID: &customerID}
	svc, err := NewService(stubTxRunner{}, &stubCheckoutCartRepo{cart: basket}, &stubOrderRepo{})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	_, err = svc.PlaceOrder(context.Background(), validInput(customerID, basket.ID))
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestPlaceOrderForeignCartForbidden(t *testing.T) {
	ownerID := uuid.New()
	basket := filledCart(&ownerID)
	svc, err := NewService(stubTxRunner{}, &stubCheckoutCartRepo{cart: basket}, &stubOrderRepo{})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	_, err = svc.PlaceOrder(context.Background(), validInput(uuid.New(), basket.ID))
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden error, got %v", err)
	}
}

func TestPlaceOrderCheckedOutCartConflicts(t *testing.T) {
	customerID := uuid.New()
	basket := filledCart(&customerID)
	basket.InOrder = true
	svc, err := NewService(stubTxRunner{}, &stubCheckoutCartRepo{cart: basket}, &stubOrderRepo{})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	_, err = svc.PlaceOrder(context.Background(), validInput(customerID, basket.ID))
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestPlaceOrderFailedCreateLeavesCartOpen(t *testing.T) {
	customerID := uuid.New()
	basket := filledCart(&customerID)
	cartRepo := &stubCheckoutCartRepo{cart: basket}
	orderRepo := &stubOrderRepo{createErr: errors.New("insert failed")}

	svc, err := NewService(stubTxRunner{}, cartRepo, orderRepo)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	if _, err := svc.PlaceOrder(context.Background(), validInput(customerID, basket.ID)); err == nil {
		t.Fatalf("expected error from failing order insert")
	}
	if cartRepo.updated != nil {
		t.Fatalf("expected cart untouched after failed order insert")
	}
}

func TestPlaceOrderMissingFieldsListed(t *testing.T) {
	svc, err := NewService(stubTxRunner{}, &stubCheckoutCartRepo{}, &stubOrderRepo{})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	input := PlaceOrderInput{CustomerID: uuid.New(), CartID: uuid.New(), BuyingType: "pickup"}
	_, err = svc.PlaceOrder(context.Background(), input)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	details, ok := typed.Details().(map[string]any)
	if !ok {
		t.Fatalf("expected field details, got %T", typed.Details())
	}
	fields, ok := details["fields"].([]string)
	if !ok || len(fields) != 5 {
		t.Fatalf("expected five missing fields, got %v", details["fields"])
	}
}
