package usecase

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/eshop-tech/store-backend/internal/cfg"
	"github.com/eshop-tech/store-backend/internal/domain"
	"github.com/eshop-tech/store-backend/pkg/e"
	"github.com/eshop-tech/store-backend/pkg/logger"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// AuthUseCase реализует регистрацию, вход и проверку bearer-токенов.
// Токен подписан HS256 и несёт только идентификатор пользователя и срок
// действия — серверное хранилище сессий отсутствует.
type AuthUseCase struct {
	userRepo UserRepository
	cfg      *cfg.AuthCfg
	logger   logger.Logger
}

func NewAuthUC(userRepo UserRepository, cfg *cfg.AuthCfg, logger logger.Logger) *AuthUseCase {
	return &AuthUseCase{
		userRepo: userRepo,
		cfg:      cfg,
		logger:   logger,
	}
}

// Register создаёт пользователя с bcrypt-хэшем пароля.
// Дубликат email возвращается как e.ErrUserExists.
func (a *AuthUseCase) Register(ctx context.Context, req *RegisterReq) (*domain.User, error) {
	const op = "AuthUseCase.Register"

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	user, err := a.userRepo.Create(ctx, domain.NewUser(req.Email, string(hash)))
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return user, nil
}

// Login проверяет пару email/пароль и выпускает токен.
// Несуществующий пользователь и неверный пароль неразличимы для вызывающего.
func (a *AuthUseCase) Login(ctx context.Context, req *LoginReq) (*TokenRes, error) {
	const op = "AuthUseCase.Login"

	user, err := a.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, e.Wrap(op, e.ErrInvalidCredentials)
		}
		return nil, e.Wrap(op, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, e.Wrap(op, e.ErrInvalidCredentials)
	}

	token, err := a.issueToken(user)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return NewTokenRes(token), nil
}

// Authenticate проверяет подпись и срок действия токена и возвращает
// пользователя. Любой дефект токена — неверная подпись, истекший срок,
// нечитаемый subject, удалённый пользователь — даёт e.ErrInvalidCredentials.
func (a *AuthUseCase) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	const op = "AuthUseCase.Authenticate"

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, e.ErrInvalidCredentials
		}
		return []byte(a.cfg.JWTSecret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, e.Wrap(op, e.ErrInvalidCredentials)
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, e.Wrap(op, e.ErrInvalidCredentials)
	}

	user, err := a.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, e.Wrap(op, e.ErrInvalidCredentials)
		}
		return nil, e.Wrap(op, err)
	}

	return user, nil
}

func (a *AuthUseCase) issueToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(user.ID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(a.cfg.TokenTTL)),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(a.cfg.JWTSecret))
}
