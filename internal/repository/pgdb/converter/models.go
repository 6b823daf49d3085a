package converter

import "time"

// UserModel представляет запись таблицы users в PostgreSQL.
type UserModel struct {
	ID           int64      `db:"id"`
	Email        string     `db:"email"`
	PasswordHash string     `db:"password_hash"`
	IsActive     bool       `db:"is_active"`
	IsAdmin      bool       `db:"is_admin"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    *time.Time `db:"updated_at"`
}

// ProductModel представляет запись таблицы products в PostgreSQL.
type ProductModel struct {
	ID          int64      `db:"id"`
	Name        string     `db:"name"`
	Description string     `db:"description"`
	Price       int64      `db:"price"`
	ImageURL    *string    `db:"image_url"`
	IsActive    bool       `db:"is_active"`
	Stock       int32      `db:"stock"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   *time.Time `db:"updated_at"`
}

// CartItemModel представляет запись таблицы cart_items в PostgreSQL.
type CartItemModel struct {
	ID        int64      `db:"id"`
	UserID    int64      `db:"user_id"`
	ProductID int64      `db:"product_id"`
	Quantity  int32      `db:"quantity"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt *time.Time `db:"updated_at"`
}

// OrderModel представляет запись таблицы orders в PostgreSQL.
type OrderModel struct {
	ID         int64     `db:"id"`
	UserID     int64     `db:"user_id"`
	Status     string    `db:"status"`
	TotalPrice int64     `db:"total_price"`
	CreatedAt  time.Time `db:"created_at"`
}

// OrderItemModel представляет запись таблицы order_items в PostgreSQL.
type OrderItemModel struct {
	ID            int64 `db:"id"`
	OrderID       int64 `db:"order_id"`
	ProductID     int64 `db:"product_id"`
	Quantity      int32 `db:"quantity"`
	UnitPrice     int64 `db:"unit_price"`
	SubtotalPrice int64 `db:"subtotal_price"`
}
