package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velomarket/velomarket-backend/api/middleware"
	"github.com/velomarket/velomarket-backend/api/responses"
	"github.com/velomarket/velomarket-backend/api/validators"
	cartsvc "github.com/velomarket/velomarket-backend/internal/cart"
	"github.com/velomarket/velomarket-backend/pkg/db/models"
	pkgerrors "github.com/velomarket/velomarket-backend/pkg/errors"
	"github.com/velomarket/velomarket-backend/pkg/logger"
)

type customerLoader interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Customer, error)
}

// CartDeps bundles what the cart handlers need to resolve a caller's basket.
type CartDeps struct {
	Carts     cartsvc.Service
	Guests    *cartsvc.GuestResolver
	Customers customerLoader
}

// AddCartItemRequest puts one product into the cart.
type AddCartItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
}

// ChangeQuantityRequest sets the line quantity for a product in the cart.
type ChangeQuantityRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
}

// CartFetch returns the caller's cart, creating one on first touch.
func CartFetch(deps CartDeps, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cartID, _, token, err := resolveCart(r, deps)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		middleware.SetCartSessionHeader(w, token)

		basket, err := deps.Carts.Get(r.Context(), cartID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(basket))
	}
}

// CartAdd puts a product into the caller's cart. Re-adding a product already
// in the cart succeeds without touching its quantity.
func CartAdd(deps CartDeps, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload AddCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cartID, customerID, token, err := resolveCart(r, deps)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		middleware.SetCartSessionHeader(w, token)

		basket, err := deps.Carts.AddItem(r.Context(), cartID, payload.ProductID, customerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(basket))
	}
}

// CartQuantity sets the quantity for a product already in the cart.
func CartQuantity(deps CartDeps, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload ChangeQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cartID, _, token, err := resolveCart(r, deps)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		middleware.SetCartSessionHeader(w, token)

		basket, err := deps.Carts.ChangeQuantity(r.Context(), cartID, payload.ProductID, payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(basket))
	}
}

// CartRemove drops a product from the caller's cart.
func CartRemove(deps CartDeps, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := uuid.Parse(chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid product id"))
			return
		}

		cartID, _, token, err := resolveCart(r, deps)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		middleware.SetCartSessionHeader(w, token)

		basket, err := deps.Carts.RemoveItem(r.Context(), cartID, productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(basket))
	}
}

// resolveCart picks the caller's basket: the customer's open cart for
// authenticated requests, a token-bound anonymous cart otherwise. The third
// return value is the session token to echo back, empty for customers.
func resolveCart(r *http.Request, deps CartDeps) (uuid.UUID, *uuid.UUID, string, error) {
	ctx := r.Context()

	customerID, err := resolveCustomer(r, deps)
	if err != nil {
		return uuid.Nil, nil, "", err
	}
	if customerID != nil {
		basket, err := deps.Carts.GetOrCreateForCustomer(ctx, *customerID)
		if err != nil {
			return uuid.Nil, nil, "", err
		}
		return basket.ID, customerID, "", nil
	}

	token := middleware.CartSessionFromContext(ctx)
	cartID, freshToken, err := deps.Guests.Resolve(ctx, token)
	if err != nil {
		return uuid.Nil, nil, "", err
	}
	return cartID, nil, freshToken, nil
}

// resolveCustomer maps the authenticated user, if any, to its customer
// profile. Anonymous requests yield a nil ID and no error.
func resolveCustomer(r *http.Request, deps CartDeps) (*uuid.UUID, error) {
	ctx := r.Context()

	raw := middleware.UserIDFromContext(ctx)
	if raw == "" {
		return nil, nil
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id")
	}
	customer, err := deps.Customers.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
	}
	customerID := customer.ID
	return &customerID, nil
}
