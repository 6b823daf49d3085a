package domain

import "time"

// Product описывает товар каталога
type Product struct {
	ID          int64
	Name        string
	Description string
	Price       int64 // Цена хранится в копейках
	ImageURL    *string
	IsActive    bool
	Stock       int32
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

func NewProduct(name, description string, price int64, stock int32) *Product {
	return &Product{
		Name:        name,
		Description: description,
		Price:       price,
		Stock:       stock,
		IsActive:    true,
	}
}
