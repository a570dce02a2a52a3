package cache

import (
	"bytes"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"

	"github.com/virtudress/tryon-catalog/internal/lib/sl"
)

// KeyPrefix префикс ключей кэша HTTP-ответов.
const KeyPrefix = "http-cache:"

// HeaderCache сообщает клиенту, отдан ли ответ из кэша.
const HeaderCache = "X-Cache"

type cachedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// ResponseKey ключ кэша для пути запроса. Query-строка в ключ не входит, поэтому
// сброс по пути снимает все варианты запроса.
func ResponseKey(path string) string {
	return KeyPrefix + path
}

// Middleware кэширует успешные GET-ответы на ttl. Ошибки redis не ломают запрос:
// ответ просто отдаётся из обработчика.
func Middleware(c *Cache, ttl time.Duration, log *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				next.ServeHTTP(w, r)
				return
			}
			const op = "cache.Middleware"
			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)
			key := ResponseKey(r.URL.Path)

			var cached cachedResponse
			found, err := c.Get(r.Context(), key, &cached)
			if err != nil {
				log.Warn("cache lookup failed", sl.Err(err))
			}
			if found {
				if cached.ContentType != "" {
					w.Header().Set("Content-Type", cached.ContentType)
				}
				w.Header().Set(HeaderCache, "HIT")
				w.WriteHeader(cached.Status)
				_, _ = w.Write(cached.Body)
				return
			}

			var buf bytes.Buffer
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			ww.Tee(&buf)
			ww.Header().Set(HeaderCache, "MISS")
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			if status != http.StatusOK {
				return
			}
			resp := cachedResponse{
				Status:      status,
				ContentType: ww.Header().Get("Content-Type"),
				Body:        buf.Bytes(),
			}
			if err := c.Set(r.Context(), key, resp, ttl); err != nil {
				log.Warn("failed to store response in cache", sl.Err(err))
			}
		}
		return http.HandlerFunc(fn)
	}
}
