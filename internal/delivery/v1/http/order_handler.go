package http

import (
	"net/http"

	"github.com/eshop-tech/store-backend/internal/i18n"
	"github.com/eshop-tech/store-backend/internal/usecase"
	"github.com/eshop-tech/store-backend/pkg/e"
	"github.com/eshop-tech/store-backend/pkg/logger"
)

type OrderHandler struct {
	orderUsecase usecase.OrderUC
	i18n         *i18n.Bundle
	logger       logger.Logger
}

func NewOrderHandler(orderUsecase usecase.OrderUC, bundle *i18n.Bundle, logger logger.Logger) *OrderHandler {
	return &OrderHandler{orderUsecase: orderUsecase, i18n: bundle, logger: logger}
}

// placeOrder оформляет заказ из текущей корзины пользователя.
func (o *OrderHandler) placeOrder(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromCtx(r.Context())
	if !ok {
		WriteError(w, r, o.i18n, e.ErrInvalidCredentials)
		return
	}

	order, err := o.orderUsecase.PlaceOrder(r.Context(), user.ID)
	if err != nil {
		o.logger.Warnf("place order for user %d failed: %s", user.ID, err.Error())
		WriteError(w, r, o.i18n, err)
		return
	}

	o.logger.Infof("order %d placed by user %d, total %d", order.ID, user.ID, order.TotalPrice)
	WriteJSON(w, http.StatusCreated, NewOrderResponse(order))
}

// listOrders отдаёт заказы пользователя, новые первыми.
func (o *OrderHandler) listOrders(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromCtx(r.Context())
	if !ok {
		WriteError(w, r, o.i18n, e.ErrInvalidCredentials)
		return
	}

	orders, err := o.orderUsecase.ListOrders(r.Context(), user.ID)
	if err != nil {
		o.logger.Errorf(err, "list orders for user %d failed", user.ID)
		WriteError(w, r, o.i18n, err)
		return
	}

	WriteJSON(w, http.StatusOK, NewOrderListResponse(orders))
}

// getOrder отдаёт один заказ. Чужие заказы выглядят как 404.
func (o *OrderHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromCtx(r.Context())
	if !ok {
		WriteError(w, r, o.i18n, e.ErrInvalidCredentials)
		return
	}

	orderID, err := pathID(r, "orderID")
	if err != nil {
		WriteError(w, r, o.i18n, err)
		return
	}

	order, err := o.orderUsecase.GetOrder(r.Context(), user.ID, orderID)
	if err != nil {
		o.logger.Warnf("get order %d for user %d failed: %s", orderID, user.ID, err.Error())
		WriteError(w, r, o.i18n, err)
		return
	}

	WriteJSON(w, http.StatusOK, NewOrderResponse(order))
}
