package catalog

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/velomarket/velomarket-backend/pkg/config"
	"github.com/velomarket/velomarket-backend/pkg/db"
	"github.com/velomarket/velomarket-backend/pkg/db/models"
	"github.com/velomarket/velomarket-backend/pkg/enums"
	pkgerrors "github.com/velomarket/velomarket-backend/pkg/errors"
	"github.com/velomarket/velomarket-backend/pkg/images"
	"github.com/velomarket/velomarket-backend/pkg/pagination"
	"github.com/velomarket/velomarket-backend/pkg/types"
)

var slugRe = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

type imageStore interface {
	Save(slot images.Slot, mime string, data []byte) (string, error)
	Remove(name string) error
}

// Service exposes catalog reads plus the staff-only catalog mutations.
type Service interface {
	Categories(ctx context.Context, search string) ([]models.Category, error)
	CategoryBySlug(ctx context.Context, slug string) (*models.Category, error)
	CreateCategory(ctx context.Context, input CreateCategoryInput) (*models.Category, error)

	ParseProductKind(value string) (enums.ProductKind, error)
	ProductBySlug(ctx context.Context, slug string) (*models.Product, error)
	LatestProducts(ctx context.Context, priority *enums.ProductKind) ([]models.Product, error)
	ListProducts(ctx context.Context, filter ProductFilter, params pagination.Params) (*ProductPage, error)

	CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error)
	AttachImage(ctx context.Context, productID uuid.UUID, slot images.Slot, data []byte) (*models.Product, error)
}

type service struct {
	repo  CatalogRepository
	store imageStore
	media config.MediaConfig
	shop  config.ShopConfig
}

// NewService builds a catalog service backed by the provided stack.
func NewService(repo CatalogRepository, store imageStore, media config.MediaConfig, shop config.ShopConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if store == nil {
		return nil, fmt.Errorf("image store required")
	}
	return &service{repo: repo, store: store, media: media, shop: shop}, nil
}

// ProductPage is one cursor page of products.
type ProductPage struct {
	Products   []models.Product
	NextCursor string
}

// CreateCategoryInput captures the payload for a new category.
type CreateCategoryInput struct {
	Name string
	Slug string
}

// CreateProductInput captures the payload for a new product listing.
type CreateProductInput struct {
	Title               string
	Slug                string
	Kind                string
	CategorySlug        string
	Description         string
	DetailedDescription *string
	Specs               *types.ProductSpecs
	Price               decimal.Decimal
	OldPrice            decimal.Decimal
	Availability        int
}

func (s *service) Categories(ctx context.Context, search string) ([]models.Category, error) {
	rows, err := s.repo.ListCategories(ctx, strings.TrimSpace(search))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	return rows, nil
}

func (s *service) CategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	category, err := s.repo.FindCategoryBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}
	return category, nil
}

func (s *service) CreateCategory(ctx context.Context, input CreateCategoryInput) (*models.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name is required")
	}
	slug := strings.TrimSpace(input.Slug)
	if !slugRe.MatchString(slug) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category slug must be lowercase letters, digits, and hyphens")
	}

	category, err := s.repo.CreateCategory(ctx, &models.Category{Name: name, Slug: slug})
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "category slug already exists").
				WithDetails(map[string]string{"field": "slug"})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create category")
	}
	return category, nil
}

// ParseProductKind maps a URL tag to a product kind. Unknown tags are a
// request error, not a server fault.
func (s *service) ParseProductKind(value string) (enums.ProductKind, error) {
	kind, err := enums.ParseProductKind(value)
	if err != nil {
		return "", pkgerrors.New(
			pkgerrors.CodeValidation,
			fmt.Sprintf("unknown product kind %q", value),
		)
	}
	return kind, nil
}

func (s *service) ProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	product, err := s.repo.FindProductBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

// LatestProducts collects the newest products of every kind. When a priority
// kind is provided its block is moved to the front; relative order inside each
// block stays newest-first.
func (s *service) LatestProducts(ctx context.Context, priority *enums.ProductKind) ([]models.Product, error) {
	limit := s.shop.LatestPerKind
	if limit <= 0 {
		limit = 5
	}

	kinds := enums.ProductKinds()
	ordered := make([]enums.ProductKind, 0, len(kinds))
	if priority != nil {
		ordered = append(ordered, *priority)
	}
	for _, kind := range kinds {
		if priority != nil && kind == *priority {
			continue
		}
		ordered = append(ordered, kind)
	}

	var result []models.Product
	for _, kind := range ordered {
		rows, err := s.repo.LatestByKind(ctx, kind, limit)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load latest products")
		}
		result = append(result, rows...)
	}
	return result, nil
}

func (s *service) ListProducts(ctx context.Context, filter ProductFilter, params pagination.Params) (*ProductPage, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	rows, err := s.repo.ListProducts(ctx, filter, cursor, pagination.LimitWithBuffer(params.Limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}

	page := &ProductPage{Products: rows}
	if len(rows) > limit {
		page.Products = rows[:limit]
		last := page.Products[limit-1]
		page.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	return page, nil
}

func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error) {
	kind, err := s.ParseProductKind(input.Kind)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product title is required")
	}
	slug := strings.TrimSpace(input.Slug)
	if !slugRe.MatchString(slug) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product slug must be lowercase letters, digits, and hyphens")
	}
	if !input.Price.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product price must be positive")
	}
	if input.OldPrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product old price must not be negative")
	}
	if input.Availability < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product availability must not be negative")
	}
	if input.Specs != nil {
		if err := input.Specs.Validate(kind); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product specs")
		}
	}

	category, err := s.CategoryBySlug(ctx, input.CategorySlug)
	if err != nil {
		return nil, err
	}

	product := &models.Product{
		Title:               title,
		Slug:                slug,
		Description:         strings.TrimSpace(input.Description),
		DetailedDescription: input.DetailedDescription,
		Kind:                kind,
		Specs:               input.Specs,
		Price:               input.Price.Round(2),
		OldPrice:            input.OldPrice.Round(2),
		Availability:        input.Availability,
		CategoryID:          category.ID,
	}

	created, err := s.repo.CreateProduct(ctx, product)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "product slug already exists").
				WithDetails(map[string]string{"field": "slug"})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	return created, nil
}

// AttachImage validates and stores a product image. The thumbnail and big
// slots each require an exact pixel size.
func (s *service) AttachImage(ctx context.Context, productID uuid.UUID, slot images.Slot, data []byte) (*models.Product, error) {
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	var required images.Dimensions
	switch slot {
	case images.SlotThumbnail:
		required = images.Dimensions{Width: s.media.ThumbnailWidth, Height: s.media.ThumbnailHeight}
	case images.SlotBig:
		required = images.Dimensions{Width: s.media.BigImageWidth, Height: s.media.BigImageHeight}
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown image slot %q", slot))
	}

	mime, dims, err := images.Inspect(data)
	if err != nil {
		return nil, err
	}
	if err := images.ValidateExact(slot, dims, required); err != nil {
		return nil, err
	}

	product, err := s.repo.FindProductByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	name, err := s.store.Save(slot, mime, data)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store image")
	}

	var previous string
	switch slot {
	case images.SlotThumbnail:
		if product.ThumbnailPath != nil {
			previous = *product.ThumbnailPath
		}
		product.ThumbnailPath = &name
	case images.SlotBig:
		if product.BigImagePath != nil {
			previous = *product.BigImagePath
		}
		product.BigImagePath = &name
	}

	updated, err := s.repo.UpdateProduct(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}

	if previous != "" {
		_ = s.store.Remove(previous)
	}
	return updated, nil
}
