package http

import (
	"net/http"
	"strings"

	"github.com/eshop-tech/store-backend/internal/i18n"
	"github.com/eshop-tech/store-backend/internal/usecase"
	"github.com/eshop-tech/store-backend/pkg/e"
	"github.com/eshop-tech/store-backend/pkg/logger"
)

const minPasswordLen = 6

type AuthHandler struct {
	authUsecase usecase.AuthUC
	i18n        *i18n.Bundle
	logger      logger.Logger
}

func NewAuthHandler(authUsecase usecase.AuthUC, bundle *i18n.Bundle, logger logger.Logger) *AuthHandler {
	return &AuthHandler{authUsecase: authUsecase, i18n: bundle, logger: logger}
}

// register создаёт пользователя и возвращает его профиль.
func (a *AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, r, a.i18n, err)
		return
	}

	if err := validateCredentials(req.Email, req.Password); err != nil {
		a.logger.Warnf("register rejected for %q: %s", req.Email, err.Error())
		WriteError(w, r, a.i18n, err)
		return
	}

	user, err := a.authUsecase.Register(r.Context(), usecase.NewRegisterReq(req.Email, req.Password))
	if err != nil {
		a.logger.Warnf("register failed: %s", err.Error())
		WriteError(w, r, a.i18n, err)
		return
	}

	WriteJSON(w, http.StatusCreated, NewUserResponse(user))
}

// login обменивает email и пароль на bearer-токен.
func (a *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, r, a.i18n, err)
		return
	}

	token, err := a.authUsecase.Login(r.Context(), usecase.NewLoginReq(req.Email, req.Password))
	if err != nil {
		a.logger.Warnf("login failed for %q: %s", req.Email, err.Error())
		WriteError(w, r, a.i18n, err)
		return
	}

	WriteJSON(w, http.StatusOK, NewTokenResponse(token))
}

// me возвращает профиль текущего пользователя.
func (a *AuthHandler) me(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromCtx(r.Context())
	if !ok {
		WriteError(w, r, a.i18n, e.ErrInvalidCredentials)
		return
	}

	WriteJSON(w, http.StatusOK, NewUserResponse(user))
}

func validateCredentials(email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return e.ErrInvalidInput
	}
	if len(password) < minPasswordLen {
		return e.ErrInvalidInput
	}
	return nil
}
