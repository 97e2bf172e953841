package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/rpamplona/e-shop-website-with-ilb-ase/internal/domain/entity"
	domainErrors "github.com/rpamplona/e-shop-website-with-ilb-ase/internal/domain/errors"
)

type OrderUsecase interface {
	GetAllOrders(ctx context.Context) ([]*entity.Order, error)
	GetOrderByID(ctx context.Context, id int64) (*entity.Order, error)
}

type orderUsecase struct {
	orderRepo OrderRepository
}

func NewOrderUsecase(orderRepo OrderRepository) OrderUsecase {
	return &orderUsecase{
		orderRepo: orderRepo,
	}
}

// GetAllOrders returns the orders newest first.
func (u *orderUsecase) GetAllOrders(ctx context.Context) ([]*entity.Order, error) {
	orders, err := u.orderRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve orders: %w", err)
	}

	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].OrderDate.After(orders[j].OrderDate)
	})

	return orders, nil
}

func (u *orderUsecase) GetOrderByID(ctx context.Context, id int64) (*entity.Order, error) {
	if id <= 0 {
		return nil, domainErrors.ErrInvalidInput
	}

	order, err := u.orderRepo.FindByID(ctx, id)
	if err != nil {
		if domainErrors.IsNotFoundError(err) {
			return nil, domainErrors.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to retrieve order: %w", err)
	}

	return order, nil
}
