package usecase

import (
	"context"
	"fmt"

	"github.com/rpamplona/e-shop-website-with-ilb-ase/internal/domain/entity"
	domainErrors "github.com/rpamplona/e-shop-website-with-ilb-ase/internal/domain/errors"
)

type CatalogUsecase interface {
	GetAllItems(ctx context.Context) ([]*entity.CatalogItem, error)
	GetItemByID(ctx context.Context, id int64) (*entity.CatalogItem, error)
	GetAllBrands(ctx context.Context) ([]*entity.CatalogBrand, error)
	GetAllTypes(ctx context.Context) ([]*entity.CatalogType, error)
}

type catalogUsecase struct {
	catalogRepo CatalogRepository
}

func NewCatalogUsecase(catalogRepo CatalogRepository) CatalogUsecase {
	return &catalogUsecase{
		catalogRepo: catalogRepo,
	}
}

func (u *catalogUsecase) GetAllItems(ctx context.Context) ([]*entity.CatalogItem, error) {
	items, err := u.catalogRepo.FindAllItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve items: %w", err)
	}

	return items, nil
}

func (u *catalogUsecase) GetItemByID(ctx context.Context, id int64) (*entity.CatalogItem, error) {
	if id <= 0 {
		return nil, domainErrors.ErrInvalidInput
	}

	item, err := u.catalogRepo.FindItemByID(ctx, id)
	if err != nil {
		if domainErrors.IsNotFoundError(err) {
			return nil, domainErrors.ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to retrieve item: %w", err)
	}

	return item, nil
}

func (u *catalogUsecase) GetAllBrands(ctx context.Context) ([]*entity.CatalogBrand, error) {
	brands, err := u.catalogRepo.FindAllBrands(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve brands: %w", err)
	}

	return brands, nil
}

func (u *catalogUsecase) GetAllTypes(ctx context.Context) ([]*entity.CatalogType, error) {
	types, err := u.catalogRepo.FindAllTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve types: %w", err)
	}

	return types, nil
}
