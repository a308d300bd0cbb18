package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/velomarket/velomarket-backend/pkg/config"
	"github.com/velomarket/velomarket-backend/pkg/db/models"
	pkgerrors "github.com/velomarket/velomarket-backend/pkg/errors"
)

// Service is the single entry point for cart mutations. Every mutation ends
// with a recalculation, so the cached totals on the cart row never drift from
// its lines.
type Service interface {
	Get(ctx context.Context, cartID uuid.UUID) (*models.Cart, error)
	GetOrCreateForCustomer(ctx context.Context, customerID uuid.UUID) (*models.Cart, error)
	CreateAnonymous(ctx context.Context) (*models.Cart, error)
	AddItem(ctx context.Context, cartID, productID uuid.UUID, customerID *uuid.UUID) (*models.Cart, error)
	ChangeQuantity(ctx context.Context, cartID, productID uuid.UUID, quantity int) (*models.Cart, error)
	RemoveItem(ctx context.Context, cartID, productID uuid.UUID) (*models.Cart, error)
}

type service struct {
	repo     CartRepository
	tx       txRunner
	products productLoader
	shop     config.ShopConfig
}

// NewService builds a cart service backed by the provided stack.
func NewService(repo CartRepository, tx txRunner, products productLoader, shop config.ShopConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	return &service{repo: repo, tx: tx, products: products, shop: shop}, nil
}

func (s *service) Get(ctx context.Context, cartID uuid.UUID) (*models.Cart, error) {
	cart, err := s.repo.FindByID(ctx, cartID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return cart, nil
}

// GetOrCreateForCustomer returns the customer's open cart, creating one when
// none exists yet.
func (s *service) GetOrCreateForCustomer(ctx context.Context, customerID uuid.UUID) (*models.Cart, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}

	cart, err := s.repo.FindActiveByOwner(ctx, customerID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	created, err := s.repo.Create(ctx, &models.Cart{
		OwnerID:       &customerID,
		ShippingPrice: s.shop.Shipping(),
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create cart")
	}
	return created, nil
}

// CreateAnonymous creates an unowned cart for a guest session.
func (s *service) CreateAnonymous(ctx context.Context) (*models.Cart, error) {
	cart, err := s.repo.Create(ctx, &models.Cart{
		ForAnonymous:  true,
		ShippingPrice: s.shop.Shipping(),
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create cart")
	}
	return cart, nil
}

// AddItem puts a product into the cart. Adding a product that is already in
// the cart is a no-op on its quantity; the call still succeeds and the totals
// are refreshed.
func (s *service) AddItem(ctx context.Context, cartID, productID uuid.UUID, customerID *uuid.UUID) (*models.Cart, error) {
	var result *models.Cart
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		cart, err := s.loadMutableCart(ctx, repo, cartID)
		if err != nil {
			return err
		}

		product, err := s.products.FindProductByID(ctx, productID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
		}

		_, err = repo.FindItem(ctx, cart.ID, product.ID)
		switch {
		case err == nil:
			// already in the cart, quantity untouched
		case errors.Is(err, gorm.ErrRecordNotFound):
			item := &models.CartItem{
				CartID:     cart.ID,
				ProductID:  product.ID,
				CustomerID: customerID,
				Quantity:   1,
			}
			item.Reprice(product.Price)
			if _, err := repo.CreateItem(ctx, item); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create cart item")
			}
		default:
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart item")
		}

		result, err = s.recalculate(ctx, repo, cart)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ChangeQuantity sets the line quantity for a product already in the cart.
func (s *service) ChangeQuantity(ctx context.Context, cartID, productID uuid.UUID, quantity int) (*models.Cart, error) {
	if quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	var result *models.Cart
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		cart, err := s.loadMutableCart(ctx, repo, cartID)
		if err != nil {
			return err
		}

		item, err := repo.FindItem(ctx, cart.ID, productID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "product is not in the cart")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart item")
		}

		product, err := s.products.FindProductByID(ctx, productID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
		}

		item.Quantity = quantity
		item.Reprice(product.Price)
		if _, err := repo.UpdateItem(ctx, item); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart item")
		}

		result, err = s.recalculate(ctx, repo, cart)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RemoveItem drops a product from the cart.
func (s *service) RemoveItem(ctx context.Context, cartID, productID uuid.UUID) (*models.Cart, error) {
	var result *models.Cart
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		cart, err := s.loadMutableCart(ctx, repo, cartID)
		if err != nil {
			return err
		}

		item, err := repo.FindItem(ctx, cart.ID, productID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "product is not in the cart")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart item")
		}

		if err := repo.DeleteItem(ctx, item); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart item")
		}

		result, err = s.recalculate(ctx, repo, cart)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) loadMutableCart(ctx context.Context, repo CartRepository, cartID uuid.UUID) (*models.Cart, error) {
	if cartID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart id is required")
	}
	cart, err := repo.FindByID(ctx, cartID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	if cart.InOrder {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "cart has already been checked out")
	}
	return cart, nil
}

// recalculate refreshes the cart's cached totals from its lines. The final
// price is the sum of line totals plus shipping, rounded to two decimals; an
// empty cart is zero with no shipping.
func (s *service) recalculate(ctx context.Context, repo CartRepository, cart *models.Cart) (*models.Cart, error) {
	items, err := repo.ListItems(ctx, cart.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cart items")
	}

	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.FinalPrice)
	}
	if len(items) > 0 {
		total = total.Add(cart.ShippingPrice)
	}

	cart.TotalProducts = len(items)
	cart.FinalPrice = total.Round(2)
	cart.Items = items

	updated, err := repo.Update(ctx, cart)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart totals")
	}
	return updated, nil
}
