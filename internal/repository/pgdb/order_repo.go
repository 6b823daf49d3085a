package pgdb

import (
	"context"
	"errors"

	"github.com/eshop-tech/store-backend/internal/domain"
	"github.com/eshop-tech/store-backend/internal/repository/pgdb/converter"
	"github.com/eshop-tech/store-backend/pkg/e"
	"github.com/eshop-tech/store-backend/pkg/tr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

// OrderRepo реализует репозиторий заказов поверх PostgreSQL.
// Записывающие методы работают только внутри транзакции оформления заказа.
type OrderRepo struct {
	pool *pgxpool.Pool
}

func NewOrderRepo(pool *pgxpool.Pool) *OrderRepo {
	return &OrderRepo{pool: pool}
}

// Create заводит заказ со статусом pending и нулевым итогом-заглушкой.
func (o *OrderRepo) Create(ctx context.Context, userID int64) (int64, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return 0, e.Wrap(whereami.WhereAmI(), err)
	}

	query := `
		INSERT INTO orders (user_id, status, total_price)
		VALUES ($1, $2, 0)
		RETURNING id;
	`

	var id int64
	if err := tx.QueryRow(ctx, query, userID, domain.StatusPending).Scan(&id); err != nil {
		return 0, e.Wrap(whereami.WhereAmI(), err)
	}

	return id, nil
}

// AddItems вставляет позиции заказа одним COPY.
func (o *OrderRepo) AddItems(ctx context.Context, orderID int64, items []domain.OrderItem) error {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"order_items"},
		[]string{"order_id", "product_id", "quantity", "unit_price", "subtotal_price"},
		pgx.CopyFromSlice(len(items), func(i int) ([]any, error) {
			item := items[i]
			return []any{orderID, item.ProductID, item.Quantity, item.UnitPrice, item.SubtotalPrice}, nil
		}),
	)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// SetTotal записывает итоговую сумму, накопленную из позиций заказа.
func (o *OrderRepo) SetTotal(ctx context.Context, orderID, total int64) error {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	query := `UPDATE orders SET total_price = $2, updated_at = NOW() WHERE id = $1;`

	if _, err := tx.Exec(ctx, query, orderID, total); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// GetByID возвращает заказ с позициями, ограниченный владельцем.
// Чужой и отсутствующий заказ дают одинаковый e.ErrNotFound.
func (o *OrderRepo) GetByID(ctx context.Context, orderID, userID int64) (*domain.Order, error) {
	query := `
		SELECT id, user_id, status, total_price, created_at
		FROM orders
		WHERE id = $1 AND user_id = $2;
	`

	var model converter.OrderModel
	err := o.pool.QueryRow(ctx, query, orderID, userID).
		Scan(&model.ID, &model.UserID, &model.Status, &model.TotalPrice, &model.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrNotFound)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	itemsByOrder, err := o.loadItems(ctx, []int64{model.ID})
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	order := toOrderEntity(&model)
	order.Items = itemsByOrder[model.ID]

	return order, nil
}

// ListByUser возвращает заказы пользователя с позициями, новые первыми.
func (o *OrderRepo) ListByUser(ctx context.Context, userID int64) ([]domain.Order, error) {
	query := `
		SELECT id, user_id, status, total_price, created_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC;
	`

	rows, err := o.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	orders := make([]domain.Order, 0)
	ids := make([]int64, 0)
	for rows.Next() {
		var model converter.OrderModel
		if err := rows.Scan(&model.ID, &model.UserID, &model.Status, &model.TotalPrice, &model.CreatedAt); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		orders = append(orders, *toOrderEntity(&model))
		ids = append(ids, model.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if len(ids) == 0 {
		return orders, nil
	}

	itemsByOrder, err := o.loadItems(ctx, ids)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	for i := range orders {
		orders[i].Items = itemsByOrder[orders[i].ID]
	}

	return orders, nil
}

// loadItems загружает позиции нескольких заказов одним запросом.
// Товар подтягивается для отображения; для удалённого товара остаётся nil,
// зафиксированные цены позиций при этом не затрагиваются.
func (o *OrderRepo) loadItems(ctx context.Context, orderIDs []int64) (map[int64][]domain.OrderItem, error) {
	query := `
		SELECT
			oi.id, oi.order_id, oi.product_id, oi.quantity, oi.unit_price, oi.subtotal_price,
			p.id, p.name, p.price, p.image_url
		FROM order_items oi
		LEFT JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = ANY($1)
		ORDER BY oi.id;
	`

	rows, err := o.pool.Query(ctx, query, orderIDs)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	result := make(map[int64][]domain.OrderItem, len(orderIDs))
	for rows.Next() {
		var (
			item domain.OrderItem

			pID       *int64
			pName     *string
			pPrice    *int64
			pImageURL *string
		)

		err := rows.Scan(
			&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.UnitPrice, &item.SubtotalPrice,
			&pID, &pName, &pPrice, &pImageURL,
		)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		if pID != nil {
			item.Product = &domain.Product{
				ID:       *pID,
				Name:     *pName,
				Price:    *pPrice,
				ImageURL: pImageURL,
			}
		}

		result[item.OrderID] = append(result[item.OrderID], item)
	}

	return result, rows.Err()
}

func toOrderEntity(model *converter.OrderModel) *domain.Order {
	return &domain.Order{
		ID:         model.ID,
		UserID:     model.UserID,
		Status:     model.Status,
		TotalPrice: model.TotalPrice,
		CreatedAt:  model.CreatedAt,
	}
}
