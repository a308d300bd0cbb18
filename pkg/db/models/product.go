package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/velomarket/velomarket-backend/pkg/enums"
	"github.com/velomarket/velomarket-backend/pkg/types"
)

// Product is a catalog listing. Kind-specific attributes live in Specs; the
// kind tag is closed and validated at write time.
type Product struct {
	ID                  uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Title               string              `gorm:"column:title;not null"`
	Slug                string              `gorm:"column:slug;not null;uniqueIndex"`
	Description         string              `gorm:"column:description;not null"`
	DetailedDescription *string             `gorm:"column:detailed_description"`
	Kind                enums.ProductKind   `gorm:"column:kind;not null"`
	Specs               *types.ProductSpecs `gorm:"column:specs;type:jsonb;serializer:json"`
	Price               decimal.Decimal     `gorm:"column:price;type:numeric(12,2);not null"`
	OldPrice            decimal.Decimal     `gorm:"column:old_price;type:numeric(12,2);not null;default:0"`
	Availability        int                 `gorm:"column:availability;not null;default:0"`
	ThumbnailPath       *string             `gorm:"column:thumbnail_path"`
	BigImagePath        *string             `gorm:"column:big_image_path"`
	CategoryID          uuid.UUID           `gorm:"column:category_id;type:uuid;not null"`
	CreatedAt           time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
