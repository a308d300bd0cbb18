package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velomarket/velomarket-backend/pkg/db/models"
	"github.com/velomarket/velomarket-backend/pkg/enums"
	"github.com/velomarket/velomarket-backend/pkg/pagination"
)

// Repository exposes persistence operations for categories and products.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a catalog repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) CatalogRepository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// ListCategories returns categories ordered by name, optionally filtered by a
// case-insensitive name match.
func (r *Repository) ListCategories(ctx context.Context, search string) ([]models.Category, error) {
	query := r.db.WithContext(ctx).Order("name ASC")
	if search != "" {
		query = query.Where("name ILIKE ?", "%"+search+"%")
	}
	var rows []models.Category
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindCategoryBySlug loads one category by its slug, with its products
// newest-first.
func (r *Repository) FindCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).
		Preload("Products", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Where("slug = ?", slug).
		First(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// CreateCategory inserts a new category.
func (r *Repository) CreateCategory(ctx context.Context, category *models.Category) (*models.Category, error) {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

// FindProductByID loads one product by primary key.
func (r *Repository) FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// FindProductBySlug loads one product by its slug.
func (r *Repository) FindProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// ListProducts returns a page of products newest-first using cursor pagination.
func (r *Repository) ListProducts(ctx context.Context, filter ProductFilter, cursor *pagination.Cursor, limit int) ([]models.Product, error) {
	query := r.db.WithContext(ctx).Model(&models.Product{})

	if filter.CategorySlug != "" {
		query = query.
			Joins("JOIN categories ON categories.id = products.category_id").
			Where("categories.slug = ?", filter.CategorySlug)
	}
	if filter.Kind != nil {
		query = query.Where("products.kind = ?", *filter.Kind)
	}
	if filter.Search != "" {
		query = query.Where("products.title ILIKE ?", "%"+filter.Search+"%")
	}
	if filter.OnlyAvailable {
		query = query.Where("products.availability > 0")
	}
	if cursor != nil {
		query = query.Where(
			"(products.created_at, products.id) < (?, ?)",
			cursor.CreatedAt, cursor.ID,
		)
	}

	var rows []models.Product
	err := query.
		Order("products.created_at DESC, products.id DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// LatestByKind returns the newest products of one kind.
func (r *Repository) LatestByKind(ctx context.Context, kind enums.ProductKind, limit int) ([]models.Product, error) {
	var rows []models.Product
	err := r.db.WithContext(ctx).
		Where("kind = ?", kind).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// CreateProduct inserts a new product.
func (r *Repository) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProduct saves the provided product.
func (r *Repository) UpdateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}
