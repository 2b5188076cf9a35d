package router

import (
	"net/http"

	"course-booking/internal/handler"
	"course-booking/internal/metrics"
	"course-booking/internal/middleware"

	"github.com/rs/zerolog"
)

// Handlers groups the HTTP handlers served by the router.
type Handlers struct {
	Lesson *handler.LessonHandler
	Order  *handler.OrderHandler
	Search *handler.SearchHandler
	Image  *handler.ImageHandler
	System *handler.SystemHandler
}

// New creates a new HTTP router with all routes and middleware configured.
func New(h Handlers, registry *metrics.Registry, logger zerolog.Logger) http.Handler {
	mux := http.NewServeMux()

	// Root path doubles as the fallback for unknown routes
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" {
			h.System.Root(w, r)
			return
		}
		h.System.NotFound(w, r)
	})

	mux.HandleFunc("/health", h.System.Health)
	mux.Handle("/metrics", registry.Handler())

	// Lesson handler function
	lessonRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		// Check if this is a request for a specific lesson ID
		if r.URL.Path != "/api/lessons" && r.URL.Path != "/api/lessons/" {
			switch r.Method {
			case http.MethodPut:
				h.Lesson.Update(w, r)
			default:
				h.Lesson.GetByID(w, r)
			}
			return
		}

		switch r.Method {
		case http.MethodPost:
			h.Lesson.Create(w, r)
		default:
			h.Lesson.List(w, r)
		}
	}

	// Register lesson routes (both with and without trailing slash)
	mux.HandleFunc("/api/lessons", lessonRouteHandler)
	mux.HandleFunc("/api/lessons/", lessonRouteHandler)

	// Order handler function
	orderRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		// Check if this is a request for a specific order ID
		if r.URL.Path != "/api/orders" && r.URL.Path != "/api/orders/" {
			switch r.Method {
			case http.MethodDelete:
				h.Order.Delete(w, r)
			default:
				h.Order.GetByID(w, r)
			}
			return
		}

		switch r.Method {
		case http.MethodPost:
			h.Order.Create(w, r)
		default:
			h.Order.List(w, r)
		}
	}

	// Register order routes (both with and without trailing slash)
	mux.HandleFunc("/api/orders", orderRouteHandler)
	mux.HandleFunc("/api/orders/", orderRouteHandler)

	mux.HandleFunc("/api/search", h.Search.Search)
	mux.HandleFunc("/images/", h.Image.Serve)

	// Apply middleware in order: Metrics -> Recovery -> Logging -> CORS
	var handler http.Handler = mux
	handler = middleware.CORS(handler)
	handler = middleware.Logging(logger)(handler)
	handler = middleware.Recovery(logger)(handler)
	handler = middleware.Metrics(registry)(handler)

	return handler
}
