package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/velomarket/velomarket-backend/pkg/config"
	"github.com/velomarket/velomarket-backend/pkg/db/models"
	pkgerrors "github.com/velomarket/velomarket-backend/pkg/errors"
)

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubProductLoader struct {
	products map[uuid.UUID]*models.Product
}

func (s stubProductLoader) FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, ok := s.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return product, nil
}

type stubCartRepo struct {
	carts map[uuid.UUID]*models.Cart
	items map[uuid.UUID]map[uuid.UUID]*models.CartItem
}

func newStubCartRepo() *stubCartRepo {
	return &stubCartRepo{
		carts: map[uuid.UUID]*models.Cart{},
		items: map[uuid.UUID]map[uuid.UUID]*models.CartItem{},
	}
}

func (s *stubCartRepo) WithTx(tx *gorm.DB) CartRepository { return s }

func (s *stubCartRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Cart, error) {
	cart, ok := s.carts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *cart
	copied.Items, _ = s.ListItems(ctx, id)
	return &copied, nil
}

func (s *stubCartRepo) FindActiveByOwner(ctx context.Context, ownerID uuid.UUID) (*models.Cart, error) {
	for _, cart := range s.carts {
		if cart.OwnerID != nil && *cart.OwnerID == ownerID && !cart.InOrder {
			copied := *cart
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCartRepo) Create(ctx context.Context, cart *models.Cart) (*models.Cart, error) {
	if cart.ID == uuid.Nil {
		cart.ID = uuid.New()
	}
	s.carts[cart.ID] = cart
	return cart, nil
}

func (s *stubCartRepo) Update(ctx context.Context, cart *models.Cart) (*models.Cart, error) {
	s.carts[cart.ID] = cart
	return cart, nil
}

func (s *stubCartRepo) FindItem(ctx context.Context, cartID, productID uuid.UUID) (*models.CartItem, error) {
	item, ok := s.items[cartID][productID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *item
	return &copied, nil
}

func (s *stubCartRepo) CreateItem(ctx context.Context, item *models.CartItem) (*models.CartItem, error) {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	if s.items[item.CartID] == nil {
		s.items[item.CartID] = map[uuid.UUID]*models.CartItem{}
	}
	s.items[item.CartID][item.ProductID] = item
	return item, nil
}

func (s *stubCartRepo) UpdateItem(ctx context.Context, item *models.CartItem) (*models.CartItem, error) {
	s.items[item.CartID][item.ProductID] = item
	return item, nil
}

func (s *stubCartRepo) DeleteItem(ctx context.Context, item *models.CartItem) error {
	delete(s.items[item.CartID], item.ProductID)
	return nil
}

func (s *stubCartRepo) ListItems(ctx context.Context, cartID uuid.UUID) ([]models.CartItem, error) {
	var out []models.CartItem
	for _, item := range s.items[cartID] {
		out = append(out, *item)
	}
	return out, nil
}

// the shipping charge applied during recalculation comes off the cart row
// itself, so the shop config can stay zero-valued here
func buildCartTestService(t *testing.T, repo *stubCartRepo, products map[uuid.UUID]*models.Product) Service {
	t.Helper()
	svc, err := NewService(repo, stubTxRunner{}, stubProductLoader{products: products}, config.ShopConfig{})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}

func seedCart(repo *stubCartRepo, shipping decimal.Decimal) *models.Cart {
	cart := &models.Cart{ID: uuid.New(), ShippingPrice: shipping}
	repo.carts[cart.ID] = cart
	return cart
}

func seedProduct(price string) (map[uuid.UUID]*models.Product, *models.Product) {
	product := &models.Product{ID: uuid.New(), Price: decimal.RequireFromString(price)}
	return map[uuid.UUID]*models.Product{product.ID: product}, product
}

func TestAddItemCreatesLineAndRecalculates(t *testing.T) {
	repo := newStubCartRepo()
	products, product := seedProduct("13.00")
	cart := seedCart(repo, decimal.RequireFromString("2.50"))
	svc := buildCartTestService(t, repo, products)

	updated, err := svc.AddItem(context.Background(), cart.ID, product.ID, nil)
	if err != nil {
		t.Fatalf("add item: %v", err)
	}
	if updated.TotalProducts != 1 {
		t.Fatalf("expected 1 line, got %d", updated.TotalProducts)
	}
	if !updated.FinalPrice.Equal(decimal.RequireFromString("15.50")) {
		t.Fatalf("expected total 15.50, got %s", updated.FinalPrice)
	}
}

func TestAddItemIsIdempotent(t *testing.T) {
	repo := newStubCartRepo()
	products, product := seedProduct("9.99")
	cart := seedCart(repo, decimal.Zero)
	svc := buildCartTestService(t, repo, products)

	if _, err := svc.AddItem(context.Background(), cart.ID, product.ID, nil); err != nil {
		t.Fatalf("first add: %v", err)
	}
	updated, err := svc.AddItem(context.Background(), cart.ID, product.ID, nil)
	if err != nil {
		t.Fatalf("second add: %v", err)
	}

	if updated.TotalProducts != 1 {
		t.Fatalf("expected a single line after re-add, got %d", updated.TotalProducts)
	}
	item, err := repo.FindItem(context.Background(), cart.ID, product.ID)
	if err != nil {
		t.Fatalf("find item: %v", err)
	}
	if item.Quantity != 1 {
		t.Fatalf("expected quantity untouched at 1, got %d", item.Quantity)
	}
}

func TestChangeQuantityRepricesLine(t *testing.T) {
	repo := newStubCartRepo()
	products, product := seedProduct("9.50")
	cart := seedCart(repo, decimal.RequireFromString("1.00"))
	svc := buildCartTestService(t, repo, products)

	if _, err := svc.AddItem(context.Background(), cart.ID, product.ID, nil); err != nil {
		t.Fatalf("add item: %v", err)
	}
	updated, err := svc.ChangeQuantity(context.Background(), cart.ID, product.ID, 3)
	if err != nil {
		t.Fatalf("change quantity: %v", err)
	}

	item, err := repo.FindItem(context.Background(), cart.ID, product.ID)
	if err != nil {
		t.Fatalf("find item: %v", err)
	}
	if !item.FinalPrice.Equal(decimal.RequireFromString("28.50")) {
		t.Fatalf("expected line total 28.50, got %s", item.FinalPrice)
	}
	if !updated.FinalPrice.Equal(decimal.RequireFromString("29.50")) {
		t.Fatalf("expected cart total 29.50, got %s", updated.FinalPrice)
	}
}

func TestRemoveLastItemZeroesTotals(t *testing.T) {
	repo := newStubCartRepo()
	products, product := seedProduct("20.00")
	cart := seedCart(repo, decimal.RequireFromString("5.00"))
	svc := buildCartTestService(t, repo, products)

	if _, err := svc.AddItem(context.Background(), cart.ID, product.ID, nil); err != nil {
		t.Fatalf("add item: %v", err)
	}
	updated, err := svc.RemoveItem(context.Background(), cart.ID, product.ID)
	if err != nil {
		t.Fatalf("remove item: %v", err)
	}

	if updated.TotalProducts != 0 {
		t.Fatalf("expected empty cart, got %d lines", updated.TotalProducts)
	}
	// shipping is not charged on an empty cart
	if !updated.FinalPrice.IsZero() {
		t.Fatalf("expected zero total, got %s", updated.FinalPrice)
	}
}

func TestRemoveMissingItemNotFound(t *testing.T) {
	repo := newStubCartRepo()
	products, product := seedProduct("10.00")
	cart := seedCart(repo, decimal.RequireFromString("2.00"))
	svc := buildCartTestService(t, repo, products)

	if _, err := svc.AddItem(context.Background(), cart.ID, product.ID, nil); err != nil {
		t.Fatalf("add item: %v", err)
	}

	_, err := svc.RemoveItem(context.Background(), cart.ID, uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}

	// the failed remove must not touch the cached totals
	stored, err := repo.FindByID(context.Background(), cart.ID)
	if err != nil {
		t.Fatalf("reload cart: %v", err)
	}
	if stored.TotalProducts != 1 {
		t.Fatalf("expected line count untouched at 1, got %d", stored.TotalProducts)
	}
	if !stored.FinalPrice.Equal(decimal.RequireFromString("12.00")) {
		t.Fatalf("expected total untouched at 12.00, got %s", stored.FinalPrice)
	}
}

func TestMutateCheckedOutCartConflicts(t *testing.T) {
	repo := newStubCartRepo()
	products, product := seedProduct("10.00")
	cart := seedCart(repo, decimal.Zero)
	cart.InOrder = true
	svc := buildCartTestService(t, repo, products)

	_, err := svc.AddItem(context.Background(), cart.ID, product.ID, nil)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict error, got %v", err)
	}
}
