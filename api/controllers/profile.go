package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velomarket/velomarket-backend/api/middleware"
	"github.com/velomarket/velomarket-backend/api/responses"
	"github.com/velomarket/velomarket-backend/api/validators"
	ordersvc "github.com/velomarket/velomarket-backend/internal/orders"
	"github.com/velomarket/velomarket-backend/internal/users"
	"github.com/velomarket/velomarket-backend/pkg/db/models"
	pkgerrors "github.com/velomarket/velomarket-backend/pkg/errors"
	"github.com/velomarket/velomarket-backend/pkg/logger"
)

type userLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type customerStore interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Customer, error)
	Update(ctx context.Context, customer *models.Customer) (*models.Customer, error)
}

// ProfileDeps bundles what the profile handlers need.
type ProfileDeps struct {
	Users     userLoader
	Customers customerStore
	Orders    ordersvc.Service
}

// ProfileResponse joins the account, its shop profile, and order history.
type ProfileResponse struct {
	User    users.UserDTO   `json:"user"`
	Phone   *string         `json:"phone,omitempty"`
	Address *string         `json:"address,omitempty"`
	Orders  []OrderResponse `json:"orders"`
}

// UpdateProfileRequest changes the customer's contact details.
type UpdateProfileRequest struct {
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
}

// ProfileFetch returns the caller's account, contact details, and orders
// newest-first.
func ProfileFetch(deps ProfileDeps, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, customer, err := loadProfile(r, deps)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		history, err := deps.Orders.HistoryForCustomer(r.Context(), customer.ID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, ProfileResponse{
			User:    users.FromModel(user),
			Phone:   customer.Phone,
			Address: customer.Address,
			Orders:  newOrderResponses(history),
		})
	}
}

// ProfileOrders returns the caller's order history newest-first.
func ProfileOrders(deps ProfileDeps, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, customer, err := loadProfile(r, deps)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		history, err := deps.Orders.HistoryForCustomer(r.Context(), customer.ID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"orders": newOrderResponses(history)})
	}
}

// ProfileUpdate changes the caller's phone or address.
func ProfileUpdate(deps ProfileDeps, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload UpdateProfileRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if payload.Phone == nil && payload.Address == nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "nothing to update"))
			return
		}

		user, customer, err := loadProfile(r, deps)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if payload.Phone != nil {
			phone := validators.SanitizeString(*payload.Phone, 32)
			customer.Phone = &phone
		}
		if payload.Address != nil {
			address := validators.SanitizeString(*payload.Address, 512)
			customer.Address = &address
		}

		updated, err := deps.Customers.Update(r.Context(), customer)
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update customer"))
			return
		}

		responses.WriteSuccess(w, ProfileResponse{
			User:    users.FromModel(user),
			Phone:   updated.Phone,
			Address: updated.Address,
			Orders:  []OrderResponse{},
		})
	}
}

func loadProfile(r *http.Request, deps ProfileDeps) (*models.User, *models.Customer, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return nil, nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id")
	}

	user, err := deps.Users.FindByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "account not found")
		}
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	customer, err := deps.Customers.FindByUserID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer profile not found")
		}
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
	}
	return user, customer, nil
}
