package controllers

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/velomarket/velomarket-backend/pkg/db/models"
	"github.com/velomarket/velomarket-backend/pkg/types"
)

// CategoryResponse is the public shape of a category.
type CategoryResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
}

// CategoryDetailResponse is a category together with its products.
type CategoryDetailResponse struct {
	ID       uuid.UUID         `json:"id"`
	Name     string            `json:"name"`
	Slug     string            `json:"slug"`
	Products []ProductResponse `json:"products"`
}

// ProductResponse is the public shape of a catalog listing.
type ProductResponse struct {
	ID                  uuid.UUID           `json:"id"`
	Title               string              `json:"title"`
	Slug                string              `json:"slug"`
	Kind                string              `json:"kind"`
	Description         string              `json:"description"`
	DetailedDescription *string             `json:"detailed_description,omitempty"`
	Specs               *types.ProductSpecs `json:"specs,omitempty"`
	Price               decimal.Decimal     `json:"price"`
	OldPrice            decimal.Decimal     `json:"old_price"`
	Availability        int                 `json:"availability"`
	ThumbnailPath       *string             `json:"thumbnail_path,omitempty"`
	BigImagePath        *string             `json:"big_image_path,omitempty"`
	CategoryID          uuid.UUID           `json:"category_id"`
	CreatedAt           time.Time           `json:"created_at"`
}

// CartItemResponse is one line of a cart.
type CartItemResponse struct {
	ID         uuid.UUID       `json:"id"`
	ProductID  uuid.UUID       `json:"product_id"`
	Quantity   int             `json:"quantity"`
	FinalPrice decimal.Decimal `json:"final_price"`
}

// CartResponse is the public shape of a cart with its cached totals.
type CartResponse struct {
	ID            uuid.UUID          `json:"id"`
	TotalProducts int                `json:"total_products"`
	FinalPrice    decimal.Decimal    `json:"final_price"`
	ShippingPrice decimal.Decimal    `json:"shipping_price"`
	InOrder       bool               `json:"in_order"`
	Items         []CartItemResponse `json:"items"`
}

// OrderResponse is the public shape of an order.
type OrderResponse struct {
	ID         uuid.UUID `json:"id"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Phone      string    `json:"phone"`
	Address    string    `json:"address"`
	Comment    *string   `json:"comment,omitempty"`
	Status     string    `json:"status"`
	BuyingType string    `json:"buying_type"`
	OrderDate  string    `json:"order_date"`
	CreatedAt  time.Time `json:"created_at"`
}

func newCategoryResponse(category models.Category) CategoryResponse {
	return CategoryResponse{
		ID:   category.ID,
		Name: category.Name,
		Slug: category.Slug,
	}
}

func newCategoryResponses(rows []models.Category) []CategoryResponse {
	out := make([]CategoryResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, newCategoryResponse(row))
	}
	return out
}

func newCategoryDetailResponse(category models.Category) CategoryDetailResponse {
	return CategoryDetailResponse{
		ID:       category.ID,
		Name:     category.Name,
		Slug:     category.Slug,
		Products: newProductResponses(category.Products),
	}
}

func newProductResponse(product models.Product) ProductResponse {
	return ProductResponse{
		ID:                  product.ID,
		Title:               product.Title,
		Slug:                product.Slug,
		Kind:                product.Kind.String(),
		Description:         product.Description,
		DetailedDescription: product.DetailedDescription,
		Specs:               product.Specs,
		Price:               product.Price,
		OldPrice:            product.OldPrice,
		Availability:        product.Availability,
		ThumbnailPath:       product.ThumbnailPath,
		BigImagePath:        product.BigImagePath,
		CategoryID:          product.CategoryID,
		CreatedAt:           product.CreatedAt,
	}
}

func newProductResponses(rows []models.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, newProductResponse(row))
	}
	return out
}

func newCartResponse(cart *models.Cart) CartResponse {
	items := make([]CartItemResponse, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, CartItemResponse{
			ID:         item.ID,
			ProductID:  item.ProductID,
			Quantity:   item.Quantity,
			FinalPrice: item.FinalPrice,
		})
	}
	return CartResponse{
		ID:            cart.ID,
		TotalProducts: cart.TotalProducts,
		FinalPrice:    cart.FinalPrice,
		ShippingPrice: cart.ShippingPrice,
		InOrder:       cart.InOrder,
		Items:         items,
	}
}

func newOrderResponse(order *models.Order) OrderResponse {
	return OrderResponse{
		ID:         order.ID,
		FirstName:  order.FirstName,
		LastName:   order.LastName,
		Phone:      order.Phone,
		Address:    order.Address,
		Comment:    order.Comment,
		Status:     order.Status.String(),
		BuyingType: order.BuyingType.String(),
		OrderDate:  order.OrderDate.Format("2006-01-02"),
		CreatedAt:  order.CreatedAt,
	}
}

func newOrderResponses(rows []models.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(rows))
	for i := range rows {
		out = append(out, newOrderResponse(&rows[i]))
	}
	return out
}
