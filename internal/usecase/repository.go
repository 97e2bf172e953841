package usecase

import (
	"context"

	"github.com/rpamplona/e-shop-website-with-ilb-ase/internal/domain/entity"
)

// CatalogRepository defines the catalog store used by the seeder and the catalog pages
type CatalogRepository interface {
	// CountBrands returns the number of brand rows
	CountBrands(ctx context.Context) (int, error)

	// CreateBrands appends brands and commits; generated IDs are written back
	CreateBrands(ctx context.Context, brands []*entity.CatalogBrand) error

	// FindAllBrands returns every brand ordered by ID
	FindAllBrands(ctx context.Context) ([]*entity.CatalogBrand, error)

	CountTypes(ctx context.Context) (int, error)
	CreateTypes(ctx context.Context, types []*entity.CatalogType) error
	FindAllTypes(ctx context.Context) ([]*entity.CatalogType, error)

	CountItems(ctx context.Context) (int, error)
	CreateItems(ctx context.Context, items []*entity.CatalogItem) error
	FindAllItems(ctx context.Context) ([]*entity.CatalogItem, error)

	// FindItemByID returns ErrItemNotFound when no row matches
	FindItemByID(ctx context.Context, id int64) (*entity.CatalogItem, error)
}

// OrderRepository defines read access to the remote order service
type OrderRepository interface {
	// FindAll retrieves all orders with their lines
	FindAll(ctx context.Context) ([]*entity.Order, error)

	// FindByID returns ErrOrderNotFound when the order does not exist
	FindByID(ctx context.Context, id int64) (*entity.Order, error)
}
