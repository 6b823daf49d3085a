package pgdb

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/eshop-tech/store-backend/internal/domain"
	"github.com/eshop-tech/store-backend/internal/repository/pgdb/converter"
	"github.com/eshop-tech/store-backend/internal/usecase"
	"github.com/eshop-tech/store-backend/pkg/e"
	"github.com/eshop-tech/store-backend/pkg/tr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

const productColumns = "id, name, description, price, image_url, is_active, stock, created_at, updated_at"

// ProductRepo реализует репозиторий товаров поверх PostgreSQL.
type ProductRepo struct {
	pool *pgxpool.Pool
	conv converter.ProductConverter
}

func NewProductRepo(pool *pgxpool.Pool, conv converter.ProductConverter) *ProductRepo {
	return &ProductRepo{
		pool: pool,
		conv: conv,
	}
}

// ListActive возвращает активные товары каталога, новые первыми.
func (p *ProductRepo) ListActive(ctx context.Context) ([]domain.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE is_active
		ORDER BY created_at DESC;
	`

	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	result := make([]domain.Product, 0)
	for rows.Next() {
		var model converter.ProductModel
		if err := scanProduct(rows, &model); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		result = append(result, *p.conv.ToEntity(&model))
	}

	return result, rows.Err()
}

func (p *ProductRepo) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE id = $1;
	`

	return p.scanProductRow(p.pool.QueryRow(ctx, query, id))
}

func (p *ProductRepo) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	query := `
		INSERT INTO products (name, description, price, image_url, is_active, stock)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + productColumns + `;
	`

	return p.scanProductRow(p.pool.QueryRow(ctx, query,
		product.Name, product.Description, product.Price,
		product.ImageURL, product.IsActive, product.Stock,
	))
}

// Update применяет частичное обновление: SET собирается только из
// заполненных полей, nil-поля не попадают в запрос вовсе.
func (p *ProductRepo) Update(ctx context.Context, id int64, upd *usecase.ProductUpdate) (*domain.Product, error) {
	set := make([]string, 0, 6)
	args := make([]any, 0, 7)

	add := func(column string, value any) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if upd.Name != nil {
		add("name", *upd.Name)
	}
	if upd.Description != nil {
		add("description", *upd.Description)
	}
	if upd.Price != nil {
		add("price", *upd.Price)
	}
	if upd.ImageURL != nil {
		add("image_url", *upd.ImageURL)
	}
	if upd.Stock != nil {
		add("stock", *upd.Stock)
	}
	if upd.IsActive != nil {
		add("is_active", *upd.IsActive)
	}

	if len(set) == 0 {
		return p.GetByID(ctx, id)
	}

	set = append(set, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf(
		"UPDATE products SET %s WHERE id = $%d RETURNING %s;",
		strings.Join(set, ", "), len(args), productColumns,
	)

	return p.scanProductRow(p.pool.QueryRow(ctx, query, args...))
}

func (p *ProductRepo) ToggleActive(ctx context.Context, id int64) (*domain.Product, error) {
	query := `
		UPDATE products
		SET is_active = NOT is_active, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + productColumns + `;
	`

	return p.scanProductRow(p.pool.QueryRow(ctx, query, id))
}

func (p *ProductRepo) SetImageURL(ctx context.Context, id int64, url string) (*domain.Product, error) {
	query := `
		UPDATE products
		SET image_url = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + productColumns + `;
	`

	return p.scanProductRow(p.pool.QueryRow(ctx, query, id, url))
}

// DecrementStock списывает количество со склада внутри текущей транзакции.
// Условие stock >= $2 вместе с CHECK-ограничением таблицы гарантирует,
// что остаток не уйдёт в минус даже при гонке.
func (p *ProductRepo) DecrementStock(ctx context.Context, productID int64, quantity int32) error {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	query := `
		UPDATE products
		SET stock = stock - $2, updated_at = NOW()
		WHERE id = $1 AND stock >= $2;
	`

	tag, err := tx.Exec(ctx, query, productID, quantity)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	if tag.RowsAffected() == 0 {
		return e.Wrap(whereami.WhereAmI(), e.ErrInsufficientStock)
	}

	return nil
}

func (p *ProductRepo) scanProductRow(row pgx.Row) (*domain.Product, error) {
	var model converter.ProductModel
	if err := scanProduct(row, &model); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrNotFound)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToEntity(&model), nil
}

func scanProduct(row pgx.Row, model *converter.ProductModel) error {
	return row.Scan(
		&model.ID, &model.Name, &model.Description, &model.Price,
		&model.ImageURL, &model.IsActive, &model.Stock,
		&model.CreatedAt, &model.UpdatedAt,
	)
}
