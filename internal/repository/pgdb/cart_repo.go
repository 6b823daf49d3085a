package pgdb

import (
	"context"
	"time"

	"github.com/eshop-tech/store-backend/internal/domain"
	"github.com/eshop-tech/store-backend/pkg/e"
	"github.com/eshop-tech/store-backend/pkg/tr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

// CartRepo реализует репозиторий корзины поверх PostgreSQL.
type CartRepo struct {
	pool *pgxpool.Pool
}

func NewCartRepo(pool *pgxpool.Pool) *CartRepo {
	return &CartRepo{pool: pool}
}

// ListByUser возвращает строки корзины вместе с актуальными данными товаров.
func (c *CartRepo) ListByUser(ctx context.Context, userID int64) ([]domain.CartLine, error) {
	query := `
		SELECT
			ci.id, ci.user_id, ci.product_id, ci.quantity, ci.created_at, ci.updated_at,
			p.id, p.name, p.description, p.price, p.image_url, p.is_active, p.stock, p.created_at, p.updated_at
		FROM cart_items ci
		LEFT JOIN products p ON p.id = ci.product_id
		WHERE ci.user_id = $1
		ORDER BY ci.id;
	`

	rows, err := c.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	return scanCartLines(rows)
}

// Upsert добавляет товар в корзину; существующая строка (user, product)
// накапливает количество вместо создания дубликата.
func (c *CartRepo) Upsert(ctx context.Context, userID, productID int64, quantity int32) error {
	query := `
		INSERT INTO cart_items (user_id, product_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, product_id)
		DO UPDATE SET
			quantity = cart_items.quantity + EXCLUDED.quantity,
			updated_at = NOW();
	`

	if _, err := c.pool.Exec(ctx, query, userID, productID, quantity); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// UpdateQuantity меняет количество строки корзины в пределах владельца.
// Чужая или отсутствующая строка — e.ErrNotFound.
func (c *CartRepo) UpdateQuantity(ctx context.Context, itemID, userID int64, quantity int32) error {
	query := `
		UPDATE cart_items
		SET quantity = $3, updated_at = NOW()
		WHERE id = $1 AND user_id = $2;
	`

	tag, err := c.pool.Exec(ctx, query, itemID, userID, quantity)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	if tag.RowsAffected() == 0 {
		return e.Wrap(whereami.WhereAmI(), e.ErrNotFound)
	}

	return nil
}

func (c *CartRepo) Delete(ctx context.Context, itemID, userID int64) error {
	query := `DELETE FROM cart_items WHERE id = $1 AND user_id = $2;`

	tag, err := c.pool.Exec(ctx, query, itemID, userID)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	if tag.RowsAffected() == 0 {
		return e.Wrap(whereami.WhereAmI(), e.ErrNotFound)
	}

	return nil
}

// ListForUpdate читает корзину внутри текущей транзакции и блокирует
// строки товаров до её конца. Сортировка по id товара даёт одинаковый
// порядок взятия блокировок у конкурирующих оформлений.
func (c *CartRepo) ListForUpdate(ctx context.Context, userID int64) ([]domain.CartLine, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	query := `
		SELECT
			ci.id, ci.user_id, ci.product_id, ci.quantity, ci.created_at, ci.updated_at,
			p.id, p.name, p.description, p.price, p.image_url, p.is_active, p.stock, p.created_at, p.updated_at
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.user_id = $1
		ORDER BY p.id
		FOR UPDATE OF p;
	`

	rows, err := tx.Query(ctx, query, userID)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	return scanCartLines(rows)
}

// DeleteByUser очищает корзину пользователя внутри текущей транзакции.
func (c *CartRepo) DeleteByUser(ctx context.Context, userID int64) error {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1;`, userID); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func scanCartLines(rows pgx.Rows) ([]domain.CartLine, error) {
	result := make([]domain.CartLine, 0)
	for rows.Next() {
		var (
			item domain.CartItem

			pID        *int64
			pName      *string
			pDesc      *string
			pPrice     *int64
			pImageURL  *string
			pIsActive  *bool
			pStock     *int32
			pCreatedAt *time.Time
			pUpdatedAt *time.Time
		)

		err := rows.Scan(
			&item.ID, &item.UserID, &item.ProductID, &item.Quantity, &item.CreatedAt, &item.UpdatedAt,
			&pID, &pName, &pDesc, &pPrice, &pImageURL, &pIsActive, &pStock, &pCreatedAt, &pUpdatedAt,
		)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		line := domain.CartLine{Item: item}
		if pID != nil {
			line.Product = &domain.Product{
				ID:          *pID,
				Name:        *pName,
				Description: *pDesc,
				Price:       *pPrice,
				ImageURL:    pImageURL,
				IsActive:    *pIsActive,
				Stock:       *pStock,
				CreatedAt:   *pCreatedAt,
				UpdatedAt:   pUpdatedAt,
			}
		}

		result = append(result, line)
	}

	return result, rows.Err()
}
