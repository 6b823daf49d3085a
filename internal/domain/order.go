package domain

import "time"

// Статусы заказа. Переходы между статусами на текущий момент не определены:
// заказ создаётся в StatusPending и дальше не меняется.
const StatusPending = "pending"

// Order — неизменяемый снимок покупки. После создания меняться может только Status.
type Order struct {
	ID         int64
	UserID     int64
	Status     string
	TotalPrice int64 // Сумма в копейках, равна сумме SubtotalPrice всех позиций
	CreatedAt  time.Time
	Items      []OrderItem
}

// OrderItem — позиция заказа с зафиксированной ценой.
// UnitPrice и SubtotalPrice снимаются с товара в момент оформления и
// никогда не пересчитываются, даже если цена товара изменится.
type OrderItem struct {
	ID            int64
	OrderID       int64
	ProductID     int64
	Quantity      int32
	UnitPrice     int64
	SubtotalPrice int64
	Product       *Product
}
