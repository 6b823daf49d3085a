package usecase

import "github.com/eshop-tech/store-backend/internal/domain"

// AUTH USECASE

// RegisterReq — запрос на регистрацию пользователя.
type RegisterReq struct {
	Email    string
	Password string
}

// LoginReq — запрос на вход по email и паролю.
type LoginReq struct {
	Email    string
	Password string
}

// TokenRes — выпущенный bearer-токен.
type TokenRes struct {
	AccessToken string
	TokenType   string
}

// PRODUCT USECASE

// CreateProductReq — запрос на создание товара.
type CreateProductReq struct {
	Name        string
	Description string
	Price       int64
	ImageURL    *string
	Stock       int32
	IsActive    bool
}

// ProductUpdate — частичное обновление товара.
// nil-поле означает «не менять», поэтому «не задано» не путается
// с нулевым значением.
type ProductUpdate struct {
	Name        *string
	Description *string
	Price       *int64
	ImageURL    *string
	Stock       *int32
	IsActive    *bool
}

// ProductImage представляет изображение, загруженное через multipart/form-data.
type ProductImage struct {
	Data     []byte // байты изображения
	MimeType string // Content-Type из multipart (image/jpeg)
	Size     int64  // фактический размер в байтах
	Name     string // оригинальное имя файла (для логов)
}

// CART USECASE

// CartView — полное представление корзины: строки с живыми ценами товаров
// и производная сумма. В отличие от заказа, сумма корзины никогда не
// фиксируется, а пересчитывается при каждом чтении.
type CartView struct {
	Items      []domain.CartLine
	TotalPrice int64
}

// MAPPERS

func NewRegisterReq(email, password string) *RegisterReq {
	return &RegisterReq{
		Email:    email,
		Password: password,
	}
}

func NewLoginReq(email, password string) *LoginReq {
	return &LoginReq{
		Email:    email,
		Password: password,
	}
}

func NewTokenRes(accessToken string) *TokenRes {
	return &TokenRes{
		AccessToken: accessToken,
		TokenType:   "bearer",
	}
}

func NewProductImage(data []byte, mimeType string, size int64, name string) *ProductImage {
	return &ProductImage{
		Data:     data,
		MimeType: mimeType,
		Size:     size,
		Name:     name,
	}
}

func NewCartView(items []domain.CartLine) *CartView {
	var total int64
	for _, line := range items {
		if line.Product == nil {
			continue
		}
		total += line.Product.Price * int64(line.Item.Quantity)
	}

	return &CartView{
		Items:      items,
		TotalPrice: total,
	}
}
