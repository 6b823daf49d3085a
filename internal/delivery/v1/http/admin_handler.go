package http

import (
	"io"
	"net/http"
	"strings"

	"github.com/eshop-tech/store-backend/internal/i18n"
	"github.com/eshop-tech/store-backend/internal/usecase"
	"github.com/eshop-tech/store-backend/pkg/e"
	"github.com/eshop-tech/store-backend/pkg/logger"
)

// AdminHandler обслуживает административные операции над каталогом.
type AdminHandler struct {
	productUsecase usecase.ProductUC
	i18n           *i18n.Bundle
	logger         logger.Logger
}

func NewAdminHandler(productUsecase usecase.ProductUC, bundle *i18n.Bundle, logger logger.Logger) *AdminHandler {
	return &AdminHandler{productUsecase: productUsecase, i18n: bundle, logger: logger}
}

// createProduct добавляет товар в каталог.
func (a *AdminHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, r, a.i18n, err)
		return
	}

	cents, err := parsePriceToCents(req.Price)
	if err != nil {
		a.logger.Warnf("create product rejected, bad price %s: %s", req.Price.String(), err.Error())
		WriteError(w, r, a.i18n, err)
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	product, err := a.productUsecase.CreateProduct(r.Context(), &usecase.CreateProductReq{
		Name:        req.Name,
		Description: req.Description,
		Price:       cents,
		ImageURL:    req.ImageURL,
		Stock:       req.Stock,
		IsActive:    isActive,
	})
	if err != nil {
		a.logger.Warnf("create product failed: %s", err.Error())
		WriteError(w, r, a.i18n, err)
		return
	}

	WriteJSON(w, http.StatusCreated, NewProductResponse(product))
}

// updateProduct частично обновляет товар: меняются только присланные поля.
func (a *AdminHandler) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(w, r, a.i18n, err)
		return
	}

	var req UpdateProductRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, r, a.i18n, err)
		return
	}

	upd := usecase.ProductUpdate{
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Stock:       req.Stock,
		IsActive:    req.IsActive,
	}

	if req.Price != nil {
		cents, err := parsePriceToCents(*req.Price)
		if err != nil {
			a.logger.Warnf("update product %d rejected, bad price: %s", id, err.Error())
			WriteError(w, r, a.i18n, err)
			return
		}
		upd.Price = &cents
	}

	product, err := a.productUsecase.UpdateProduct(r.Context(), id, &upd)
	if err != nil {
		a.logger.Warnf("update product %d failed: %s", id, err.Error())
		WriteError(w, r, a.i18n, err)
		return
	}

	WriteJSON(w, http.StatusOK, NewProductResponse(product))
}

// toggleProductActive переключает видимость товара в каталоге.
func (a *AdminHandler) toggleProductActive(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(w, r, a.i18n, err)
		return
	}

	product, err := a.productUsecase.ToggleProductActive(r.Context(), id)
	if err != nil {
		a.logger.Warnf("toggle product %d failed: %s", id, err.Error())
		WriteError(w, r, a.i18n, err)
		return
	}

	WriteJSON(w, http.StatusOK, NewProductResponse(product))
}

// uploadProductImage принимает multipart/form-data с полем image,
// грузит файл в объектное хранилище и проставляет товару ссылку.
func (a *AdminHandler) uploadProductImage(w http.ResponseWriter, r *http.Request) {
	const (
		maxTotalRequestSize = 20 << 20
		maxMemory           = 16 << 20
	)

	id, err := pathID(r, "id")
	if err != nil {
		WriteError(w, r, a.i18n, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxTotalRequestSize)

	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		WriteError(w, r, a.i18n, e.ErrInvalidInput)
		return
	}
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		WriteError(w, r, a.i18n, e.ErrInvalidInput)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		WriteError(w, r, a.i18n, e.ErrInvalidInput)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		WriteError(w, r, a.i18n, e.ErrInternalServerError)
		return
	}

	mimeType := http.DetectContentType(data[:min(len(data), 512)])
	if !strings.HasPrefix(mimeType, "image/") {
		WriteError(w, r, a.i18n, e.ErrInvalidInput)
		return
	}

	product, err := a.productUsecase.UploadProductImage(r.Context(), id,
		usecase.NewProductImage(data, mimeType, int64(len(data)), header.Filename))
	if err != nil {
		a.logger.Warnf("upload image for product %d failed: %s", id, err.Error())
		WriteError(w, r, a.i18n, err)
		return
	}

	a.logger.Infof("product %d image updated (%s, %d bytes)", id, mimeType, len(data))
	WriteJSON(w, http.StatusOK, NewProductResponse(product))
}
