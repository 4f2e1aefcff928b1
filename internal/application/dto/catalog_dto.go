package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ── Brand ────────────────────────────────────────────────────────────────────

// CreateBrandRequest entrada para crear una marca.
type CreateBrandRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=200"`
	Description string `json:"description"`
}

// UpdateBrandRequest entrada para actualizar una marca.
type UpdateBrandRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description"`
}

// BrandResponse salida de una marca.
type BrandResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// BrandListResponse lista paginada de marcas.
type BrandListResponse struct {
	Items []BrandResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}

// ── Category ─────────────────────────────────────────────────────────────────

// CreateCategoryRequest entrada para crear una categoría.
type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=200"`
	Description string `json:"description"`
}

// UpdateCategoryRequest entrada para actualizar una categoría.
type UpdateCategoryRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description"`
}

// CategoryResponse salida de una categoría.
type CategoryResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CategoryListResponse lista paginada de categorías.
type CategoryListResponse struct {
	Items []CategoryResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// ── Product ──────────────────────────────────────────────────────────────────

// VariantRequest variante dentro de crear/actualizar producto.
type VariantRequest struct {
	ID       string          `json:"id"` // vacío = nueva variante
	Size     string          `json:"size" validate:"required"`
	Price    decimal.Decimal `json:"price"`
	Discount decimal.Decimal `json:"discount"`
	Stock    int             `json:"stock" validate:"min=0"`
}

// CreateProductRequest entrada para crear un producto con sus variantes.
type CreateProductRequest struct {
	BrandID     string           `json:"brand_id" validate:"required"`
	CategoryID  string           `json:"category_id" validate:"required"`
	Name        string           `json:"name" validate:"required,min=1,max=200"`
	Description string           `json:"description"`
	ImageURL    string           `json:"image_url"`
	Variants    []VariantRequest `json:"variants"`
}

// UpdateProductRequest entrada para actualizar un producto (campos opcionales).
type UpdateProductRequest struct {
	BrandID     *string          `json:"brand_id"`
	CategoryID  *string          `json:"category_id"`
	Name        *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string          `json:"description"`
	ImageURL    *string          `json:"image_url"`
	Variants    []VariantRequest `json:"variants"`
}

// VariantResponse salida de una variante.
type VariantResponse struct {
	ID       string          `json:"id"`
	Size     string          `json:"size"`
	Price    decimal.Decimal `json:"price"`
	Discount decimal.Decimal `json:"discount"`
	Stock    int             `json:"stock"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID          string            `json:"id"`
	BrandID     string            `json:"brand_id"`
	CategoryID  string            `json:"category_id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	ImageURL    string            `json:"image_url"`
	Variants    []VariantResponse `json:"variants"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
