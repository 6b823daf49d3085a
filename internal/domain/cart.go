package domain

import "time"

// CartItem — строка корзины: пара (пользователь, товар) с количеством.
// Цена в корзине не хранится, она всегда читается из Product на момент запроса.
type CartItem struct {
	ID        int64
	UserID    int64
	ProductID int64
	Quantity  int32
	CreatedAt time.Time
	UpdatedAt *time.Time
}

// CartLine — строка корзины вместе с актуальными данными товара.
// Product может быть nil, если товар был удалён из каталога.
type CartLine struct {
	Item    CartItem
	Product *Product
}
