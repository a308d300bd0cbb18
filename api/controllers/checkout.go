package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/velomarket/velomarket-backend/api/middleware"
	"github.com/velomarket/velomarket-backend/api/responses"
	"github.com/velomarket/velomarket-backend/api/validators"
	checkoutsvc "github.com/velomarket/velomarket-backend/internal/checkout"
	pkgerrors "github.com/velomarket/velomarket-backend/pkg/errors"
	"github.com/velomarket/velomarket-backend/pkg/logger"
)

// PlaceOrderRequest is the checkout form.
type PlaceOrderRequest struct {
	FirstName  string  `json:"first_name" validate:"required"`
	LastName   string  `json:"last_name" validate:"required"`
	Phone      string  `json:"phone" validate:"required"`
	Address    string  `json:"address" validate:"required"`
	Comment    *string `json:"comment,omitempty"`
	BuyingType string  `json:"buying_type" validate:"required"`
	OrderDate  string  `json:"order_date" validate:"required"`
}

// CheckoutPlaceOrder turns the caller's cart into an order. Requires auth.
func CheckoutPlaceOrder(svc checkoutsvc.Service, deps CartDeps, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload PlaceOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderDate, err := time.Parse("2006-01-02", payload.OrderDate)
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "order_date must be YYYY-MM-DD"))
			return
		}

		customerID, err := resolveCustomer(r, deps)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if customerID == nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeUnauthorized, "checkout requires an account"))
			return
		}

		// a basket filled before signing in wins over the account cart, so
		// the items the caller actually picked are the ones ordered
		guestToken := middleware.CartSessionFromContext(r.Context())
		var cartID uuid.UUID
		fromGuestSession := false
		if guestToken != "" {
			guestCartID, err := deps.Guests.Find(r.Context(), guestToken)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			if guestCartID != uuid.Nil {
				cartID = guestCartID
				fromGuestSession = true
			}
		}
		if !fromGuestSession {
			basket, err := deps.Carts.GetOrCreateForCustomer(r.Context(), *customerID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			cartID = basket.ID
		}

		order, err := svc.PlaceOrder(r.Context(), checkoutsvc.PlaceOrderInput{
			CustomerID: *customerID,
			CartID:     cartID,
			FirstName:  payload.FirstName,
			LastName:   payload.LastName,
			Phone:      payload.Phone,
			Address:    payload.Address,
			Comment:    payload.Comment,
			BuyingType: payload.BuyingType,
			OrderDate:  orderDate,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		// the consumed guest session no longer points at a usable cart
		if fromGuestSession {
			if err := deps.Guests.Forget(r.Context(), guestToken); err != nil {
				logg.Warn(r.Context(), "failed to drop guest cart session")
			}
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newOrderResponse(order))
	}
}
