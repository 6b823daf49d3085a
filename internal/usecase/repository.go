package usecase

import (
	"context"

	"github.com/eshop-tech/store-backend/internal/domain"
)

type UserRepository interface {
	// Create возвращает e.ErrUserExists при нарушении уникальности email.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

type ProductRepository interface {
	ListActive(ctx context.Context) ([]domain.Product, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	Create(ctx context.Context, product *domain.Product) (*domain.Product, error)
	// Update применяет только заполненные поля upd; nil-поля не трогаются.
	Update(ctx context.Context, id int64, upd *ProductUpdate) (*domain.Product, error)
	ToggleActive(ctx context.Context, id int64) (*domain.Product, error)
	SetImageURL(ctx context.Context, id int64, url string) (*domain.Product, error)
	// DecrementStock выполняется только внутри транзакции (pgx.Tx из контекста).
	DecrementStock(ctx context.Context, productID int64, quantity int32) error
}

type CartRepository interface {
	ListByUser(ctx context.Context, userID int64) ([]domain.CartLine, error)
	// Upsert увеличивает количество существующей строки (user, product)
	// или создаёт новую.
	Upsert(ctx context.Context, userID, productID int64, quantity int32) error
	// UpdateQuantity и Delete ограничены парой (itemID, userID):
	// чужая или отсутствующая строка — e.ErrNotFound.
	UpdateQuantity(ctx context.Context, itemID, userID int64, quantity int32) error
	Delete(ctx context.Context, itemID, userID int64) error
	// ListForUpdate читает корзину с блокировкой строк товаров (FOR UPDATE)
	// и выполняется только внутри транзакции.
	ListForUpdate(ctx context.Context, userID int64) ([]domain.CartLine, error)
	// DeleteByUser выполняется только внутри транзакции.
	DeleteByUser(ctx context.Context, userID int64) error
}

type OrderRepository interface {
	// Create, AddItems и SetTotal выполняются только внутри транзакции.
	Create(ctx context.Context, userID int64) (int64, error)
	AddItems(ctx context.Context, orderID int64, items []domain.OrderItem) error
	SetTotal(ctx context.Context, orderID, total int64) error
	// GetByID ограничен парой (orderID, userID): чужой заказ — e.ErrNotFound.
	GetByID(ctx context.Context, orderID, userID int64) (*domain.Order, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Order, error)
}

type CacheRepository interface {
	GetProducts(ctx context.Context, ids []int64) (map[int64]domain.Product, error)
	SetProducts(ctx context.Context, products []domain.Product) error
	DeleteProducts(ctx context.Context, ids []int64) error
}

type ImageRepository interface {
	Upload(ctx context.Context, image *domain.Image) (string, error)
	Delete(ctx context.Context, key string) error
}
