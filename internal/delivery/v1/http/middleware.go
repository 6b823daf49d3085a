package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/eshop-tech/store-backend/internal/domain"
	"github.com/eshop-tech/store-backend/internal/i18n"
	"github.com/eshop-tech/store-backend/internal/usecase"
	"github.com/eshop-tech/store-backend/pkg/e"
	"github.com/eshop-tech/store-backend/pkg/logger"
	"github.com/google/uuid"
)

type ctxKey string

const (
	ctxKeyUser      ctxKey = "user"
	ctxKeyLocale    ctxKey = "locale"
	ctxKeyRequestID ctxKey = "request_id"

	headerRequestID = "X-Request-Id"
)

// UserFromCtx достаёт аутентифицированного пользователя из контекста запроса.
func UserFromCtx(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(ctxKeyUser).(*domain.User)
	return user, ok
}

// LocaleFromCtx возвращает локаль запроса, выставленную middleware.
func LocaleFromCtx(ctx context.Context) string {
	locale, _ := ctx.Value(ctxKeyLocale).(string)
	return locale
}

// RequestIDFromCtx возвращает идентификатор запроса.
func RequestIDFromCtx(ctx context.Context) string {
	id, _ := ctx.Value(ctxKeyRequestID).(string)
	return id
}

// RequestID присваивает каждому запросу идентификатор и дублирует его в ответ.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(headerRequestID)
		if id == "" {
			id = uuid.NewString()
		}

		w.Header().Set(headerRequestID, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKeyRequestID, id)))
	})
}

// Locale выбирает локаль по первичному субтегу Accept-Language.
// Неизвестные локали сводятся к локали по умолчанию.
func Locale(bundle *i18n.Bundle) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			locale := primarySubtag(r.Header.Get("Accept-Language"))
			if !bundle.Supported(locale) {
				locale = bundle.DefaultLocale()
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKeyLocale, locale)))
		})
	}
}

// primarySubtag вырезает первичный языковой субтег: "ru-RU,ru;q=0.9" → "ru".
func primarySubtag(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return ""
	}

	if idx := strings.IndexAny(header, ",;"); idx >= 0 {
		header = header[:idx]
	}
	if idx := strings.Index(header, "-"); idx >= 0 {
		header = header[:idx]
	}

	return strings.ToLower(strings.TrimSpace(header))
}

// Authenticate проверяет bearer-токен и кладёт пользователя в контекст.
// Неактивные пользователи не проходят.
func Authenticate(auth usecase.AuthUC, bundle *i18n.Bundle, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				WriteError(w, r, bundle, e.ErrInvalidCredentials)
				return
			}

			user, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				log.Warnf("authenticate failed: %v", err)
				WriteError(w, r, bundle, err)
				return
			}

			if !user.IsActive {
				WriteError(w, r, bundle, e.ErrUserInactive)
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKeyUser, user)))
		})
	}
}

// RequireAdmin пускает дальше только администраторов. Вешается после Authenticate.
func RequireAdmin(bundle *i18n.Bundle) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromCtx(r.Context())
			if !ok || !user.IsAdmin {
				WriteError(w, r, bundle, e.ErrAdminRequired)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(header[len(prefix):]), true
}
