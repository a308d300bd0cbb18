package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/velomarket/velomarket-backend/api/responses"
	"github.com/velomarket/velomarket-backend/api/validators"
	"github.com/velomarket/velomarket-backend/internal/catalog"
	"github.com/velomarket/velomarket-backend/pkg/enums"
	pkgerrors "github.com/velomarket/velomarket-backend/pkg/errors"
	"github.com/velomarket/velomarket-backend/pkg/logger"
	"github.com/velomarket/velomarket-backend/pkg/pagination"
)

// CatalogCategories lists categories, optionally filtered by a search term.
func CatalogCategories(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		search := validators.SanitizeString(r.URL.Query().Get("search"), 128)
		rows, err := svc.Categories(r.Context(), search)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCategoryResponses(rows))
	}
}

// CatalogCategory returns one category by slug, with its products.
func CatalogCategory(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")
		category, err := svc.CategoryBySlug(r.Context(), slug)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCategoryDetailResponse(*category))
	}
}

// CatalogLatest returns the newest products of every kind, with an optional
// priority kind pushed to the front.
func CatalogLatest(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var priority *enums.ProductKind
		if raw := strings.TrimSpace(r.URL.Query().Get("priority")); raw != "" {
			kind, err := svc.ParseProductKind(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			priority = &kind
		}

		rows, err := svc.LatestProducts(r.Context(), priority)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newProductResponses(rows))
	}
}

// CatalogProducts lists products with filters and cursor pagination.
func CatalogProducts(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filter := catalog.ProductFilter{
			CategorySlug:  validators.SanitizeString(r.URL.Query().Get("category"), 128),
			Search:        validators.SanitizeString(r.URL.Query().Get("search"), 128),
			OnlyAvailable: r.URL.Query().Get("available") == "true",
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("kind")); raw != "" {
			kind, err := svc.ParseProductKind(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			filter.Kind = &kind
		}

		page, err := svc.ListProducts(r.Context(), filter, pagination.Params{
			Limit:  limit,
			Cursor: r.URL.Query().Get("cursor"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"products":    newProductResponses(page.Products),
			"next_cursor": page.NextCursor,
		})
	}
}

// CatalogProduct returns one product by slug.
func CatalogProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")
		if slug == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "product slug is required"))
			return
		}
		product, err := svc.ProductBySlug(r.Context(), slug)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newProductResponse(*product))
	}
}
