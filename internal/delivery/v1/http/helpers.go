package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/eshop-tech/store-backend/internal/i18n"
	"github.com/eshop-tech/store-backend/pkg/e"
	"github.com/shopspring/decimal"
)

// httpError — пара из HTTP-статуса и ключа локализации для тела ошибки.
type httpError struct {
	status int
	key    string
}

// toHTTPError сопоставляет ошибки бизнес-логики с HTTP-статусами.
func toHTTPError(err error) httpError {
	switch {
	case errors.Is(err, e.ErrInvalidCredentials):
		return httpError{http.StatusUnauthorized, "errors.invalid_credentials"}
	case errors.Is(err, e.ErrUserInactive):
		return httpError{http.StatusBadRequest, "errors.unauthorized"}
	case errors.Is(err, e.ErrAdminRequired):
		return httpError{http.StatusForbidden, "errors.unauthorized"}
	case errors.Is(err, e.ErrUserExists):
		return httpError{http.StatusBadRequest, "errors.user_exists"}
	case errors.Is(err, e.ErrCartEmpty):
		return httpError{http.StatusBadRequest, "errors.cart_empty"}
	case errors.Is(err, e.ErrInsufficientStock):
		return httpError{http.StatusBadRequest, "errors.insufficient_stock"}
	case errors.Is(err, e.ErrNotFound):
		return httpError{http.StatusNotFound, "errors.product_not_found"}
	case errors.Is(err, e.ErrInvalidInput),
		errors.Is(err, e.ErrInvalidPrice),
		errors.Is(err, e.ErrPricePrecision):
		return httpError{http.StatusUnprocessableEntity, "errors.validation"}
	default:
		return httpError{http.StatusInternalServerError, "errors.internal"}
	}
}

// WriteError пишет JSON-ошибку вида {"detail": "..."} с переводом по локали запроса.
func WriteError(w http.ResponseWriter, r *http.Request, bundle *i18n.Bundle, err error) {
	he := toHTTPError(err)

	if he.status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}

	WriteJSON(w, he.status, ErrorResponse{Detail: bundle.Translate(he.key, LocaleFromCtx(r.Context()))})
}

// WriteJSON сериализует payload и пишет его с заданным статусом.
func WriteJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// decodeJSON читает JSON-тело запроса в dst.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return e.ErrInvalidInput
	}
	return nil
}

// parsePriceToCents переводит десятичную цену в копейки.
// Отрицательные цены и более двух знаков после запятой не допускаются.
func parsePriceToCents(price decimal.Decimal) (int64, error) {
	if price.IsNegative() {
		return 0, e.ErrInvalidPrice
	}

	cents := price.Mul(decimal.NewFromInt(100))
	if !cents.IsInteger() {
		return 0, e.ErrPricePrecision
	}

	return cents.IntPart(), nil
}

// centsToDecimal переводит копейки обратно в десятичную цену для ответа.
func centsToDecimal(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}
