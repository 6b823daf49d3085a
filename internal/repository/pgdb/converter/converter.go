package converter

import "github.com/eshop-tech/store-backend/internal/domain"

// Конвертеры написаны вручную: преобразования тривиальны,
// кодогенерация здесь не окупается.

// UserConverter преобразует сущности User между domain и моделью PostgreSQL.
type UserConverter interface {
	ToEntity(model *UserModel) *domain.User
}

// ProductConverter преобразует сущности Product между domain и моделью PostgreSQL.
type ProductConverter interface {
	ToEntity(model *ProductModel) *domain.Product
}

type userConverter struct{}

func NewUserConverter() UserConverter {
	return &userConverter{}
}

func (c *userConverter) ToEntity(model *UserModel) *domain.User {
	return &domain.User{
		ID:           model.ID,
		Email:        model.Email,
		PasswordHash: model.PasswordHash,
		IsActive:     model.IsActive,
		IsAdmin:      model.IsAdmin,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}
}

type productConverter struct{}

func NewProductConverter() ProductConverter {
	return &productConverter{}
}

func (c *productConverter) ToEntity(model *ProductModel) *domain.Product {
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
