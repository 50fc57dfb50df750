package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/m04kA/RC-BookingService/internal/api/handlers"
	"github.com/m04kA/RC-BookingService/internal/domain"
	"github.com/m04kA/RC-BookingService/internal/service/auth"
)

const (
	msgUnauthorized = "требуется авторизация"
	msgForbidden    = "доступ только для администратора"
)

type ctxKey int

const (
	ctxKeyUser ctxKey = iota
	ctxKeyRequestID
)

// Authenticator проверяет токен и возвращает пользователя
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Auth middleware аутентификации по JWT
type Auth struct {
	authenticator Authenticator
	cookieName    string
	logger        Logger
}

func NewAuth(authenticator Authenticator, cookieName string, logger Logger) *Auth {
	return &Auth{
		authenticator: authenticator,
		cookieName:    cookieName,
		logger:        logger,
	}
}

// Require пропускает запрос только с валидным токеном
// Токен берется из cookie, затем из заголовка Authorization: Bearer
func (a *Auth) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := a.extractToken(r)
		if token == "" {
			a.logger.Warn("Auth - Missing token: %s %s", r.Method, r.URL.Path)
			handlers.RespondUnauthorized(w, msgUnauthorized)
			return
		}

		user, err := a.authenticator.Authenticate(r.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrUserNotFound):
				a.logger.Warn("Auth - Rejected token: %s %s: %v", r.Method, r.URL.Path, err)
				handlers.RespondUnauthorized(w, msgUnauthorized)
			default:
				a.logger.Error("Auth - Failed to authenticate: %v", err)
				handlers.RespondInternalError(w)
			}
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

func (a *Auth) extractToken(r *http.Request) string {
	if a.cookieName != "" {
		if c, err := r.Cookie(a.cookieName); err == nil && c.Value != "" {
			return c.Value
		}
	}

	header := r.Header.Get("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

// RequireAdmin должен стоять после Auth.Require
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !IsAdmin(r.Context()) {
			handlers.RespondForbidden(w, msgForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// WithUser кладет пользователя в контекст
func WithUser(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, ctxKeyUser, user)
}

// GetUser достает пользователя из контекста
func GetUser(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(ctxKeyUser).(*domain.User)
	return user, ok && user != nil
}

// GetUserID достает ID пользователя из контекста
func GetUserID(ctx context.Context) (int64, bool) {
	user, ok := GetUser(ctx)
	if !ok {
		return 0, false
	}
	return user.ID, true
}

func IsAdmin(ctx context.Context) bool {
	user, ok := GetUser(ctx)
	return ok && user.IsAdmin()
}
