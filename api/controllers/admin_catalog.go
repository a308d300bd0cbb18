package controllers

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/velomarket/velomarket-backend/api/responses"
	"github.com/velomarket/velomarket-backend/api/validators"
	"github.com/velomarket/velomarket-backend/internal/catalog"
	pkgerrors "github.com/velomarket/velomarket-backend/pkg/errors"
	"github.com/velomarket/velomarket-backend/pkg/images"
	"github.com/velomarket/velomarket-backend/pkg/logger"
	"github.com/velomarket/velomarket-backend/pkg/types"
)

// CreateCategoryRequest is the staff payload for a new category.
type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required"`
	Slug string `json:"slug" validate:"required"`
}

// CreateProductRequest is the staff payload for a new listing.
type CreateProductRequest struct {
	Title               string              `json:"title" validate:"required"`
	Slug                string              `json:"slug" validate:"required"`
	Kind                string              `json:"kind" validate:"required"`
	CategorySlug        string              `json:"category_slug" validate:"required"`
	Description         string              `json:"description" validate:"required"`
	DetailedDescription *string             `json:"detailed_description,omitempty"`
	Specs               *types.ProductSpecs `json:"specs,omitempty"`
	Price               decimal.Decimal     `json:"price" validate:"required"`
	OldPrice            decimal.Decimal     `json:"old_price"`
	Availability        int                 `json:"availability" validate:"min=0"`
}

// AdminCreateCategory registers a new category.
func AdminCreateCategory(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload CreateCategoryRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		category, err := svc.CreateCategory(r.Context(), catalog.CreateCategoryInput{
			Name: payload.Name,
			Slug: payload.Slug,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newCategoryResponse(*category))
	}
}

// AdminCreateProduct registers a new listing.
func AdminCreateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload CreateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.CreateProduct(r.Context(), catalog.CreateProductInput{
			Title:               payload.Title,
			Slug:                payload.Slug,
			Kind:                payload.Kind,
			CategorySlug:        payload.CategorySlug,
			Description:         payload.Description,
			DetailedDescription: payload.DetailedDescription,
			Specs:               payload.Specs,
			Price:               payload.Price,
			OldPrice:            payload.OldPrice,
			Availability:        payload.Availability,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newProductResponse(*product))
	}
}

// AdminUploadProductImage attaches a thumbnail or big image to a listing.
// The payload is multipart form data with a single "image" file.
func AdminUploadProductImage(svc catalog.Service, maxUploadMB int, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := uuid.Parse(chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid product id"))
			return
		}

		slot := images.Slot(chi.URLParam(r, "slot"))
		if slot != images.SlotThumbnail && slot != images.SlotBig {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "slot must be thumbnail or big"))
			return
		}

		if maxUploadMB <= 0 {
			maxUploadMB = 10
		}
		maxBytes := int64(maxUploadMB) << 20
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
		if err := r.ParseMultipartForm(maxBytes); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart payload"))
			return
		}

		file, _, err := r.FormFile("image")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "image file is required"))
			return
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read image"))
			return
		}

		product, err := svc.AttachImage(r.Context(), productID, slot, data)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newProductResponse(*product))
	}
}
