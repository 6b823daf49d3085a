package http

import (
	"net/http"
	"strconv"

	"github.com/eshop-tech/store-backend/internal/i18n"
	"github.com/eshop-tech/store-backend/internal/usecase"
	"github.com/eshop-tech/store-backend/pkg/e"
	"github.com/eshop-tech/store-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type ProductHandler struct {
	productUsecase usecase.ProductUC
	i18n           *i18n.Bundle
	logger         logger.Logger
}

func NewProductHandler(productUsecase usecase.ProductUC, bundle *i18n.Bundle, logger logger.Logger) *ProductHandler {
	return &ProductHandler{productUsecase: productUsecase, i18n: bundle, logger: logger}
}

// listProducts отдаёт все активные товары каталога.
func (p *ProductHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := p.productUsecase.ListProducts(r.Context())
	if err != nil {
		p.logger.Errorf(err, "list products failed")
		WriteError(w, r, p.i18n, err)
		return
	}

	WriteJSON(w, http.StatusOK, NewProductListResponse(products))
}

// getProduct отдаёт один товар по идентификатору независимо от флага is_active.
func (p *ProductHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(w, r, p.i18n, err)
		return
	}

	product, err := p.productUsecase.GetProduct(r.Context(), id)
	if err != nil {
		p.logger.Warnf("get product %d failed: %s", id, err.Error())
		WriteError(w, r, p.i18n, err)
		return
	}

	WriteJSON(w, http.StatusOK, NewProductResponse(product))
}

// pathID разбирает числовой идентификатор из пути.
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, e.ErrInvalidInput
	}
	return id, nil
}
