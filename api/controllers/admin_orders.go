package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/velomarket/velomarket-backend/api/responses"
	"github.com/velomarket/velomarket-backend/api/validators"
	ordersvc "github.com/velomarket/velomarket-backend/internal/orders"
	"github.com/velomarket/velomarket-backend/pkg/enums"
	pkgerrors "github.com/velomarket/velomarket-backend/pkg/errors"
	"github.com/velomarket/velomarket-backend/pkg/logger"
	"github.com/velomarket/velomarket-backend/pkg/pagination"
)

// UpdateOrderStatusRequest moves an order to a new fulfillment status.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// AdminOrdersList returns a filtered, cursor-paginated order listing.
func AdminOrdersList(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var filter ordersvc.Filter
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, err := enums.ParseOrderStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "unknown order status"))
				return
			}
			filter.Status = &status
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("buying_type")); raw != "" {
			buyingType, err := enums.ParseBuyingType(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "unknown buying type"))
				return
			}
			filter.BuyingType = &buyingType
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("customer_id")); raw != "" {
			customerID, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid customer id"))
				return
			}
			filter.CustomerID = &customerID
		}

		page, err := svc.ListOrders(r.Context(), filter, pagination.Params{
			Limit:  limit,
			Cursor: r.URL.Query().Get("cursor"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"orders":      newOrderResponses(page.Orders),
			"next_cursor": page.NextCursor,
		})
	}
}

// AdminOrderStatus sets an order's fulfillment status.
func AdminOrderStatus(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := uuid.Parse(chi.URLParam(r, "orderId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid order id"))
			return
		}

		var payload UpdateOrderStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.UpdateStatus(r.Context(), orderID, payload.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newOrderResponse(order))
	}
}
