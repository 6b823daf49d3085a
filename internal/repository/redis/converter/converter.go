package converter

import "github.com/eshop-tech/store-backend/internal/domain"

// ProductConverter преобразует товары между domain и кэш-моделью Redis.
type ProductConverter interface {
	ToModel(product *domain.Product) *ProductRedisModel
	ToEntity(model *ProductRedisModel) *domain.Product
}

type productConverter struct{}

func NewProductConverter() ProductConverter {
	return &productConverter{}
}

func (c *productConverter) ToModel(product *domain.Product) *ProductRedisModel {
	return &ProductRedisModel{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		ImageURL:    product.ImageURL,
		IsActive:    product.IsActive,
		Stock:       product.Stock,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
}

func (c *productConverter) ToEntity(model *ProductRedisModel) *domain.Product {
	return &domain.Product{
		ID:          model.ID,
		Name:        model.Name,
		Description: model.Description,
		Price:       model.Price,
		ImageURL:    model.ImageURL,
		IsActive:    model.IsActive,
		Stock:       model.Stock,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}
