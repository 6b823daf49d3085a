package usecase

import (
	"context"

	"github.com/eshop-tech/store-backend/internal/domain"
)

type AuthUC interface {
	Register(ctx context.Context, req *RegisterReq) (*domain.User, error)
	Login(ctx context.Context, req *LoginReq) (*TokenRes, error)
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}

type ProductUC interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	CreateProduct(ctx context.Context, req *CreateProductReq) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id int64, upd *ProductUpdate) (*domain.Product, error)
	ToggleProductActive(ctx context.Context, id int64) (*domain.Product, error)
	UploadProductImage(ctx context.Context, id int64, image *ProductImage) (*domain.Product, error)
}

type CartUC interface {
	GetCart(ctx context.Context, userID int64) (*CartView, error)
	AddToCart(ctx context.Context, userID, productID int64, quantity int32) (*CartView, error)
	UpdateCartItem(ctx context.Context, userID, itemID int64, quantity int32) (*CartView, error)
	DeleteCartItem(ctx context.Context, userID, itemID int64) (*CartView, error)
}

type OrderUC interface {
	PlaceOrder(ctx context.Context, userID int64) (*domain.Order, error)
	ListOrders(ctx context.Context, userID int64) ([]domain.Order, error)
	GetOrder(ctx context.Context, userID, orderID int64) (*domain.Order, error)
}
