package usecase

import (
	"context"
	"errors"

	"github.com/eshop-tech/store-backend/pkg/e"
	"github.com/eshop-tech/store-backend/pkg/logger"
)

// CartUseCase реализует управление корзиной пользователя.
// На пару (пользователь, товар) существует не более одной строки корзины;
// каждая мутация возвращает пересчитанное представление всей корзины.
type CartUseCase struct {
	cartRepo    CartRepository
	productRepo ProductRepository
	logger      logger.Logger
}

func NewCartUC(cartRepo CartRepository, productRepo ProductRepository, logger logger.Logger) *CartUseCase {
	return &CartUseCase{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		logger:      logger,
	}
}

// GetCart возвращает корзину пользователя с живыми ценами товаров.
func (c *CartUseCase) GetCart(ctx context.Context, userID int64) (*CartView, error) {
	const op = "CartUseCase.GetCart"

	lines, err := c.cartRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return NewCartView(lines), nil
}

// AddToCart добавляет товар в корзину. Существующая строка (user, product)
// накапливает количество, а не порождает дубликат. Неактивный или
// несуществующий товар — e.ErrNotFound.
func (c *CartUseCase) AddToCart(ctx context.Context, userID, productID int64, quantity int32) (*CartView, error) {
	const op = "CartUseCase.AddToCart"

	product, err := c.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	if !product.IsActive {
		return nil, e.Wrap(op, e.ErrNotFound)
	}

	if err := c.cartRepo.Upsert(ctx, userID, productID, quantity); err != nil {
		return nil, e.Wrap(op, err)
	}

	return c.GetCart(ctx, userID)
}

// UpdateCartItem меняет количество строки корзины.
// Строка другого пользователя неотличима от отсутствующей — оба случая
// дают e.ErrNotFound.
func (c *CartUseCase) UpdateCartItem(ctx context.Context, userID, itemID int64, quantity int32) (*CartView, error) {
	const op = "CartUseCase.UpdateCartItem"

	if err := c.cartRepo.UpdateQuantity(ctx, itemID, userID, quantity); err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, e.Wrap(op, e.ErrNotFound)
		}
		return nil, e.Wrap(op, err)
	}

	return c.GetCart(ctx, userID)
}

// DeleteCartItem удаляет строку корзины с теми же правилами владения.
func (c *CartUseCase) DeleteCartItem(ctx context.Context, userID, itemID int64) (*CartView, error) {
	const op = "CartUseCase.DeleteCartItem"

	if err := c.cartRepo.Delete(ctx, itemID, userID); err != nil {
		return nil, e.Wrap(op, err)
	}

	return c.GetCart(ctx, userID)
}
