package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/eshop-tech/store-backend/internal/domain"
	"github.com/eshop-tech/store-backend/pkg/e"
	"github.com/eshop-tech/store-backend/pkg/jitter"
	"github.com/eshop-tech/store-backend/pkg/logger"
	transaction "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Параметры повторов транзакции оформления заказа.
const (
	placeOrderMaxAttempts = 3
	placeOrderBackoffBase = 20 * time.Millisecond
	placeOrderBackoffMax  = 200 * time.Millisecond
)

// OrderUseCase реализует оформление и чтение заказов.
// Оформление — единственная операция системы с настоящей транзакционной
// логикой: проверка остатков, снятие ценовых снимков, списание склада и
// очистка корзины выполняются атомарно.
type OrderUseCase struct {
	orderRepo   OrderRepository
	cartRepo    CartRepository
	productRepo ProductRepository
	cacheRepo   CacheRepository
	dbPool      transaction.Transactional
	logger      logger.Logger
}

func NewOrderUC(
	orderRepo OrderRepository,
	cartRepo CartRepository,
	productRepo ProductRepository,
	cacheRepo CacheRepository,
	dbPool transaction.Transactional,
	logger logger.Logger,
) *OrderUseCase {
	return &OrderUseCase{
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		cacheRepo:   cacheRepo,
		dbPool:      dbPool,
		logger:      logger,
	}
}

// PlaceOrder превращает корзину пользователя в заказ.
// Строки товаров блокируются на всё время транзакции (FOR UPDATE), поэтому
// два конкурентных оформления одного товара не могут одновременно пройти
// проверку остатков и увести склад в минус. Конфликт блокировок или
// сериализации повторяется с джиттер-отступлением.
func (o *OrderUseCase) PlaceOrder(ctx context.Context, userID int64) (*domain.Order, error) {
	const op = "OrderUseCase.PlaceOrder"

	var (
		order   *domain.Order
		touched []int64
		err     error
	)

	for attempt := 0; ; attempt++ {
		order, touched, err = o.placeOrderTx(ctx, userID)
		if err == nil {
			break
		}

		if !isRetryableTxError(err) || attempt >= placeOrderMaxAttempts-1 {
			return nil, e.Wrap(op, err)
		}

		o.logger.Warnf("Retrying order placement after tx conflict. user_id: %d, attempt: %d", userID, attempt+1)

		select {
		case <-ctx.Done():
			return nil, e.Wrap(op, ctx.Err())
		case <-time.After(jitter.ExponentialBackoff(placeOrderBackoffBase, placeOrderBackoffMax, attempt, jitter.DefaultJitter)):
		}
	}

	// Остатки купленных товаров изменились — сбрасываем их кэш в фоне.
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
		defer cancel()

		if err := o.cacheRepo.DeleteProducts(bgCtx, touched); err != nil {
			o.logger.Warnf("Failed to invalidate product cache after order: %v", e.Wrap(op, err))
		}
	}()

	return order, nil
}

// placeOrderTx выполняет одну попытку оформления заказа в одной транзакции.
// Возвращает заказ и идентификаторы товаров, чей остаток был списан.
func (o *OrderUseCase) placeOrderTx(ctx context.Context, userID int64) (_ *domain.Order, _ []int64, err error) {
	const op = "OrderUseCase.placeOrderTx"

	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, o.dbPool)
	if err != nil {
		return nil, nil, e.Wrap(op, err)
	}
	defer func() {
		if err != nil && tx.IsActive() {
			tx.Rollback(ctx)
		}
	}()
	ctx = context.WithValue(ctx, "tx", tx.Transaction())

	lines, err := o.cartRepo.ListForUpdate(ctx, userID)
	if err != nil {
		return nil, nil, e.Wrap(op, err)
	}
	if len(lines) == 0 {
		return nil, nil, e.Wrap(op, e.ErrCartEmpty)
	}

	// Частичное исполнение не поддерживается: одна недоступная строка
	// отменяет весь заказ.
	for _, line := range lines {
		if line.Product == nil || line.Product.Stock < line.Item.Quantity {
			return nil, nil, e.Wrap(op, e.ErrInsufficientStock)
		}
	}

	orderID, err := o.orderRepo.Create(ctx, userID)
	if err != nil {
		return nil, nil, e.Wrap(op, err)
	}

	var total int64
	items := make([]domain.OrderItem, 0, len(lines))
	touched := make([]int64, 0, len(lines))
	for _, line := range lines {
		unitPrice := line.Product.Price
		subtotal := unitPrice * int64(line.Item.Quantity)
		total += subtotal

		items = append(items, domain.OrderItem{
			OrderID:       orderID,
			ProductID:     line.Product.ID,
			Quantity:      line.Item.Quantity,
			UnitPrice:     unitPrice,
			SubtotalPrice: subtotal,
		})
		touched = append(touched, line.Product.ID)
	}

	if err = o.orderRepo.AddItems(ctx, orderID, items); err != nil {
		return nil, nil, e.Wrap(op, err)
	}

	for _, line := range lines {
		if err = o.productRepo.DecrementStock(ctx, line.Product.ID, line.Item.Quantity); err != nil {
			return nil, nil, e.Wrap(op, err)
		}
	}

	if err = o.cartRepo.DeleteByUser(ctx, userID); err != nil {
		return nil, nil, e.Wrap(op, err)
	}

	// Итог накапливается из тех же значений, что записаны в позиции заказа,
	// а не пересчитывается повторным запросом.
	if err = o.orderRepo.SetTotal(ctx, orderID, total); err != nil {
		return nil, nil, e.Wrap(op, err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, nil, e.Wrap(op, err)
	}

	order, err := o.orderRepo.GetByID(ctx, orderID, userID)
	if err != nil {
		return nil, nil, e.Wrap(op, err)
	}

	return order, touched, nil
}

// ListOrders возвращает заказы пользователя, новые первыми.
func (o *OrderUseCase) ListOrders(ctx context.Context, userID int64) ([]domain.Order, error) {
	const op = "OrderUseCase.ListOrders"

	orders, err := o.orderRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return orders, nil
}

// GetOrder возвращает заказ пользователя. Чужой заказ неотличим от
// отсутствующего — оба случая дают e.ErrNotFound.
func (o *OrderUseCase) GetOrder(ctx context.Context, userID, orderID int64) (*domain.Order, error) {
	const op = "OrderUseCase.GetOrder"

	order, err := o.orderRepo.GetByID(ctx, orderID, userID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return order, nil
}

// isRetryableTxError распознаёт конфликты сериализации (40001)
// и дедлоки (40P01), которые имеет смысл повторить.
func isRetryableTxError(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}

	return pgErr.Code == "40001" || pgErr.Code == "40P01"
}
