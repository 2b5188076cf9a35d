package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Registry struct {
	reg *prometheus.Registry

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	OrdersCreated   prometheus.Counter
	OrdersCancelled prometheus.Counter
	OrdersRejected  *prometheus.CounterVec
	SpacesReserved  prometheus.Counter
	SpacesRestored  prometheus.Counter
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()

	httpRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "coursebooking_http_requests_total",
		Help: "HTTP requests by method, route and status code.",
	}, []string{"method", "route", "status"})
	httpDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "coursebooking_http_request_duration_seconds",
		Help:    "HTTP request latency by method and route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	ordersCreated := prometheus.NewCounter(prometheus.CounterOpts{Name: "coursebooking_orders_created_total"})
	ordersCancelled := prometheus.NewCounter(prometheus.CounterOpts{Name: "coursebooking_orders_cancelled_total"})
	ordersRejected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "coursebooking_orders_rejected_total",
		Help: "Order requests rejected, by error code.",
	}, []string{"code"})
	spacesReserved := prometheus.NewCounter(prometheus.CounterOpts{Name: "coursebooking_spaces_reserved_total"})
	spacesRestored := prometheus.NewCounter(prometheus.CounterOpts{Name: "coursebooking_spaces_restored_total"})

	r.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		httpRequests, httpDuration,
		ordersCreated, ordersCancelled, ordersRejected,
		spacesReserved, spacesRestored,
	)

	return &Registry{
		reg:             r,
		HTTPRequests:    httpRequests,
		HTTPDuration:    httpDuration,
		OrdersCreated:   ordersCreated,
		OrdersCancelled: ordersCancelled,
		OrdersRejected:  ordersRejected,
		SpacesReserved:  spacesReserved,
		SpacesRestored:  spacesRestored,
	}
}

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }

// ObserveRequest records one served HTTP request.
func (r *Registry) ObserveRequest(method, path string, status int, elapsed time.Duration) {
	route := Route(path)
	r.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.HTTPDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Route collapses a request path into a bounded route label.
func Route(path string) string {
	switch {
	case path == "/" || path == "/health" || path == "/metrics" || path == "/api/search":
		return path
	case path == "/api/lessons" || path == "/api/orders":
		return path
	case strings.HasPrefix(path, "/api/lessons/"):
		return "/api/lessons/:id"
	case strings.HasPrefix(path, "/api/orders/"):
		return "/api/orders/:id"
	case strings.HasPrefix(path, "/images/"):
		return "/images/:filename"
	default:
		return "other"
	}
}
