package http

import (
	"net/http"

	"github.com/eshop-tech/store-backend/internal/i18n"
	"github.com/eshop-tech/store-backend/internal/usecase"
	"github.com/eshop-tech/store-backend/pkg/e"
	"github.com/eshop-tech/store-backend/pkg/logger"
)

type CartHandler struct {
	cartUsecase usecase.CartUC
	i18n        *i18n.Bundle
	logger      logger.Logger
}

func NewCartHandler(cartUsecase usecase.CartUC, bundle *i18n.Bundle, logger logger.Logger) *CartHandler {
	return &CartHandler{cartUsecase: cartUsecase, i18n: bundle, logger: logger}
}

// getCart отдаёт корзину текущего пользователя с пересчитанной суммой.
func (c *CartHandler) getCart(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromCtx(r.Context())
	if !ok {
		WriteError(w, r, c.i18n, e.ErrInvalidCredentials)
		return
	}

	view, err := c.cartUsecase.GetCart(r.Context(), user.ID)
	if err != nil {
		c.logger.Errorf(err, "get cart for user %d failed", user.ID)
		WriteError(w, r, c.i18n, err)
		return
	}

	WriteJSON(w, http.StatusOK, NewCartResponse(view))
}

// addItem кладёт товар в корзину. Повторное добавление суммирует количество.
func (c *CartHandler) addItem(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromCtx(r.Context())
	if !ok {
		WriteError(w, r, c.i18n, e.ErrInvalidCredentials)
		return
	}

	var req AddCartItemRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, r, c.i18n, err)
		return
	}

	if req.ProductID <= 0 || req.Quantity <= 0 {
		WriteError(w, r, c.i18n, e.ErrInvalidInput)
		return
	}

	view, err := c.cartUsecase.AddToCart(r.Context(), user.ID, req.ProductID, req.Quantity)
	if err != nil {
		c.logger.Warnf("add to cart user %d product %d failed: %s", user.ID, req.ProductID, err.Error())
		WriteError(w, r, c.i18n, err)
		return
	}

	WriteJSON(w, http.StatusOK, NewCartResponse(view))
}

// updateItem изменяет количество позиции корзины.
func (c *CartHandler) updateItem(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromCtx(r.Context())
	if !ok {
		WriteError(w, r, c.i18n, e.ErrInvalidCredentials)
		return
	}

	itemID, err := pathID(r, "itemID")
	if err != nil {
		WriteError(w, r, c.i18n, err)
		return
	}

	var req UpdateCartItemRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, r, c.i18n, err)
		return
	}

	if req.Quantity <= 0 {
		WriteError(w, r, c.i18n, e.ErrInvalidInput)
		return
	}

	view, err := c.cartUsecase.UpdateCartItem(r.Context(), user.ID, itemID, req.Quantity)
	if err != nil {
		c.logger.Warnf("update cart item %d for user %d failed: %s", itemID, user.ID, err.Error())
		WriteError(w, r, c.i18n, err)
		return
	}

	WriteJSON(w, http.StatusOK, NewCartResponse(view))
}

// deleteItem убирает позицию из корзины.
func (c *CartHandler) deleteItem(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromCtx(r.Context())
	if !ok {
		WriteError(w, r, c.i18n, e.ErrInvalidCredentials)
		return
	}

	itemID, err := pathID(r, "itemID")
	if err != nil {
		WriteError(w, r, c.i18n, err)
		return
	}

	view, err := c.cartUsecase.DeleteCartItem(r.Context(), user.ID, itemID)
	if err != nil {
		c.logger.Warnf("delete cart item %d for user %d failed: %s", itemID, user.ID, err.Error())
		WriteError(w, r, c.i18n, err)
		return
	}

	WriteJSON(w, http.StatusOK, NewCartResponse(view))
}
