// Package metrics счётчики Prometheus и HTTP-middleware для длительности запросов.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics все метрики сервиса.
type Metrics struct {
	PaymentNotifications *prometheus.CounterVec
	OrdersCreated        prometheus.Counter
	SessionsCreated      prometheus.Counter
	TryOnViews           prometheus.Counter
	HTTPDuration         *prometheus.HistogramVec
}

// NewMetrics регистрирует метрики в registry.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	factory := promauto.With(registry)

	return &Metrics{
		PaymentNotifications: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tryon_payment_notifications_total",
				Help: "Payment gateway notifications by processing outcome",
			},
			[]string{"outcome"},
		),
		OrdersCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "tryon_orders_created_total",
			Help: "Orders created",
		}),
		SessionsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "tryon_sessions_created_total",
			Help: "Sessions started by signup or login",
		}),
		TryOnViews: factory.NewCounter(prometheus.CounterOpts{
			Name: "tryon_link_views_total",
			Help: "Opened try-on links",
		}),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tryon_http_request_duration_seconds",
				Help:    "HTTP request duration by route pattern",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
	}
}

// NewRegistry отдельный registry, удобен в тестах.
func NewRegistry() (*prometheus.Registry, *Metrics) {
	reg := prometheus.NewRegistry()
	return reg, NewMetrics(reg)
}

// Handler отдаёт метрики из reg.
func Handler(reg prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

// IncPaymentNotification учитывает уведомление с исходом outcome. Безопасен для nil.
func (m *Metrics) IncPaymentNotification(outcome string) {
	if m == nil {
		return
	}
	m.PaymentNotifications.WithLabelValues(outcome).Inc()
}

// IncOrdersCreated безопасен для nil.
func (m *Metrics) IncOrdersCreated() {
	if m == nil {
		return
	}
	m.OrdersCreated.Inc()
}

// IncSessionsCreated безопасен для nil.
func (m *Metrics) IncSessionsCreated() {
	if m == nil {
		return
	}
	m.SessionsCreated.Inc()
}

// IncTryOnViews безопасен для nil.
func (m *Metrics) IncTryOnViews() {
	if m == nil {
		return
	}
	m.TryOnViews.Inc()
}

// Middleware пишет длительность запроса с шаблоном маршрута chi в качестве метки.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.HTTPDuration.WithLabelValues(r.Method, route, strconv.Itoa(status)).
			Observe(time.Since(start).Seconds())
	})
}
