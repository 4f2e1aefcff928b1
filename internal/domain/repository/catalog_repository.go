package repository

import "github.com/cafeto/storefront-api/internal/domain/entity"

// BrandRepository puerto de persistencia para Brand.
type BrandRepository interface {
	Create(b *entity.Brand) error
	GetByID(id string) (*entity.Brand, error)
	Update(b *entity.Brand) error
	List(limit, offset int) ([]*entity.Brand, int, error)
	Delete(id string) error
}

// CategoryRepository puerto de persistencia para Category.
type CategoryRepository interface {
	Create(c *entity.Category) error
	GetByID(id string) (*entity.Category, error)
	Update(c *entity.Category) error
	List(limit, offset int) ([]*entity.Category, int, error)
	Delete(id string) error
}

// ProductRepository puerto de persistencia para Product y sus variantes.
type ProductRepository interface {
	Create(p *entity.Product) error
	GetByID(id string) (*entity.Product, error) // incluye variantes
	Update(p *entity.Product) error
	List(limit, offset int) ([]*entity.Product, int, error)
	Delete(id string) error
	GetVariant(variantID string) (*entity.ProductVariant, error)
	UpsertVariant(v *entity.ProductVariant) error
	DeleteVariant(variantID string) error
}
