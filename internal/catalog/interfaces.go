package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velomarket/velomarket-backend/pkg/db/models"
	"github.com/velomarket/velomarket-backend/pkg/enums"
	"github.com/velomarket/velomarket-backend/pkg/pagination"
)

// CatalogRepository defines the persistence surface required by the catalog service.
type CatalogRepository interface {
	WithTx(tx *gorm.DB) CatalogRepository

	ListCategories(ctx context.Context, search string) ([]models.Category, error)
	FindCategoryBySlug(ctx context.Context, slug string) (*models.Category, error)
	CreateCategory(ctx context.Context, category *models.Category) (*models.Category, error)

	FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindProductBySlug(ctx context.Context, slug string) (*models.Product, error)
	ListProducts(ctx context.Context, filter ProductFilter, cursor *pagination.Cursor, limit int) ([]models.Product, error)
	LatestByKind(ctx context.Context, kind enums.ProductKind, limit int) ([]models.Product, error)
	CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error)
	UpdateProduct(ctx context.Context, product *models.Product) (*models.Product, error)
}

// ProductFilter narrows product listings.
type ProductFilter struct {
	CategorySlug  string
	Kind          *enums.ProductKind
	Search        string
	OnlyAvailable bool
}
