package http

import (
	"time"

	"github.com/eshop-tech/store-backend/internal/domain"
	"github.com/eshop-tech/store-backend/internal/usecase"
	"github.com/shopspring/decimal"
)

// Запросы

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AddCartItemRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int32 `json:"quantity"`
}

type UpdateCartItemRequest struct {
	Quantity int32 `json:"quantity"`
}

type CreateProductRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    *string         `json:"image_url"`
	Stock       int32           `json:"stock"`
	IsActive    *bool           `json:"is_active"`
}

// UpdateProductRequest — частичное обновление: отсутствующее в JSON поле
// остаётся nil и не применяется.
type UpdateProductRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	ImageURL    *string          `json:"image_url"`
	Stock       *int32           `json:"stock"`
	IsActive    *bool            `json:"is_active"`
}

// Ответы

type ErrorResponse struct {
	Detail string `json:"detail"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type UserResponse struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	IsActive  bool      `json:"is_active"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

type ProductResponse struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    *string         `json:"image_url"`
	IsActive    bool            `json:"is_active"`
	Stock       int32           `json:"stock"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   *time.Time      `json:"updated_at"`
}

// CartProductResponse — краткая карточка товара внутри корзины и заказа.
type CartProductResponse struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	ImageURL *string         `json:"image_url"`
}

type CartItemResponse struct {
	ID       int64                `json:"id"`
	Quantity int32                `json:"quantity"`
	Product  *CartProductResponse `json:"product"`
}

type CartResponse struct {
	Items      []CartItemResponse `json:"items"`
	TotalPrice decimal.Decimal    `json:"total_price"`
}

type OrderItemResponse struct {
	ID            int64                `json:"id"`
	ProductID     int64                `json:"product_id"`
	Quantity      int32                `json:"quantity"`
	UnitPrice     decimal.Decimal      `json:"unit_price"`
	SubtotalPrice decimal.Decimal      `json:"subtotal_price"`
	Product       *CartProductResponse `json:"product"`
}

type OrderResponse struct {
	ID         int64               `json:"id"`
	Status     string              `json:"status"`
	TotalPrice decimal.Decimal     `json:"total_price"`
	CreatedAt  time.Time           `json:"created_at"`
	Items      []OrderItemResponse `json:"items"`
}

// Мапперы domain → ответы

func NewUserResponse(user *domain.User) *UserResponse {
	return &UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		IsActive:  user.IsActive,
		IsAdmin:   user.IsAdmin,
		CreatedAt: user.CreatedAt,
	}
}

func NewTokenResponse(token *usecase.TokenRes) *TokenResponse {
	return &TokenResponse{
		AccessToken: token.AccessToken,
		TokenType:   token.TokenType,
	}
}

func NewProductResponse(product *domain.Product) *ProductResponse {
	return &ProductResponse{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Price:       centsToDecimal(product.Price),
		ImageURL:    product.ImageURL,
		IsActive:    product.IsActive,
		Stock:       product.Stock,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
}

func NewProductListResponse(products []domain.Product) []ProductResponse {
	result := make([]ProductResponse, 0, len(products))
	for i := range products {
		result = append(result, *NewProductResponse(&products[i]))
	}
	return result
}

func newCartProductResponse(product *domain.Product) *CartProductResponse {
	if product == nil {
		return nil
	}

	return &CartProductResponse{
		ID:       product.ID,
		Name:     product.Name,
		Price:    centsToDecimal(product.Price),
		ImageURL: product.ImageURL,
	}
}

func NewCartResponse(view *usecase.CartView) *CartResponse {
	items := make([]CartItemResponse, 0, len(view.Items))
	for _, line := range view.Items {
		items = append(items, CartItemResponse{
			ID:       line.Item.ID,
			Quantity: line.Item.Quantity,
			Product:  newCartProductResponse(line.Product),
		})
	}

	return &CartResponse{
		Items:      items,
		TotalPrice: centsToDecimal(view.TotalPrice),
	}
}

func NewOrderResponse(order *domain.Order) *OrderResponse {
	items := make([]OrderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemResponse{
			ID:            item.ID,
			ProductID:     item.ProductID,
			Quantity:      item.Quantity,
			UnitPrice:     centsToDecimal(item.UnitPrice),
			SubtotalPrice: centsToDecimal(item.SubtotalPrice),
			Product:       newCartProductResponse(item.Product),
		})
	}

	return &OrderResponse{
		ID:         order.ID,
		Status:     order.Status,
		TotalPrice: centsToDecimal(order.TotalPrice),
		CreatedAt:  order.CreatedAt,
		Items:      items,
	}
}

func NewOrderListResponse(orders []domain.Order) []OrderResponse {
	result := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		result = append(result, *NewOrderResponse(&orders[i]))
	}
	return result
}
