// Package middlewarectx содержит HTTP middleware сессионной аутентификации,
// проверки прав администратора и ограничения частоты запросов.
//
// SessionMiddleware читает токен сессии из cookie, разрешает его в Identity
// и кладёт её в контекст запроса. RequireAdmin пропускает только администраторов.
package middlewarectx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/virtudress/tryon-catalog/internal/domain"
	"github.com/virtudress/tryon-catalog/internal/http/response"
	"github.com/virtudress/tryon-catalog/internal/lib/sl"
	authservice "github.com/virtudress/tryon-catalog/internal/services/auth"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

// IdentityKey ключ Identity в контексте.
const IdentityKey Key = "identity"

// Authenticator разрешает токен сессии в пользователя.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*authservice.Identity, error)
}

// Cookies параметры cookie сессии. Cookie всегда SameSite=Lax: фронтенд и API
// должны жить на одном сайте, Secure включается в prod.
type Cookies struct {
	Name   string
	TTL    time.Duration
	Secure bool
}

// Token возвращает токен сессии из запроса или пустую строку.
func (c Cookies) Token(r *http.Request) string {
	cookie, err := r.Cookie(c.Name)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// Set выставляет cookie сессии.
func (c Cookies) Set(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(c.TTL.Seconds()),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear удаляет cookie сессии у клиента.
func (c Cookies) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// WithIdentity кладёт Identity в контекст.
func WithIdentity(ctx context.Context, identity authservice.Identity) context.Context {
	return context.WithValue(ctx, IdentityKey, identity)
}

// IdentityFrom достаёт Identity из контекста.
func IdentityFrom(ctx context.Context) (authservice.Identity, bool) {
	identity, ok := ctx.Value(IdentityKey).(authservice.Identity)
	return identity, ok
}

// SessionMiddleware возвращает middleware, который требует действующую сессию.
//
// Нет cookie, сессия истекла или пользователь удалён 401.
// Сбой хранилища сессий 500.
func SessionMiddleware(auth Authenticator, cookies Cookies, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.SessionMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			token := cookies.Token(r)
			if token == "" {
				log.Debug("missing session cookie")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("unauthorized"))
				return
			}

			identity, err := auth.Authenticate(r.Context(), token)
			if errors.Is(err, domain.ErrUnauthenticated) {
				log.Debug("session rejected", sl.Err(err))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("unauthorized"))
				return
			}
			if err != nil {
				log.Error("failed to authenticate session", sl.Err(err))
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.Error(response.InternalError))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), *identity)))
		})
	}
}

// RequireAdmin пропускает запрос дальше только для администратора.
// Должен стоять после SessionMiddleware.
func RequireAdmin(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.RequireAdmin"

			identity, ok := IdentityFrom(r.Context())
			if !ok {
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("unauthorized"))
				return
			}
			if authservice.RequireAdmin(identity) != authservice.Authorized {
				log.Warn("admin route denied",
					slog.String("op", op),
					slog.String("request_id", middleware.GetReqID(r.Context())),
					slog.String("user_id", identity.UserID),
				)
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error("forbidden"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
