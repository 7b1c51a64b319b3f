package rest

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/heartmarshall/dicionario-backend/internal/config"
	"github.com/heartmarshall/dicionario-backend/internal/transport/middleware"
)

type httpMetrics interface {
	RecordHTTPRequest(method, route string, status int, d time.Duration)
}

// RouterDeps carries everything the router mounts.
type RouterDeps struct {
	Logger    *slog.Logger
	CORS      config.CORSConfig
	RateLimit config.RateLimitConfig
	Metrics   httpMetrics
	Gatherer  prometheus.Gatherer
	Tokens    middleware.TokenValidator
	Limiter   *middleware.RateLimiter

	Health *HealthHandler
	Auth   *AuthHandler
	Words  *WordHandler
	Media  *MediaHandler
	Games  *GameHandler
	Util   *UtilHandler
}

// NewRouter builds the HTTP handler with the full middleware stack.
func NewRouter(d RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		middleware.Recovery(d.Logger),
		middleware.Logger(d.Logger, d.Metrics),
		middleware.CORS(d.CORS),
		middleware.Auth(d.Tokens),
	)

	r.Get("/live", d.Health.Live)
	r.Get("/ready", d.Health.Ready)
	r.Get("/health", d.Health.Health)
	r.Handle("/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))

	r.Route("/auth", func(r chi.Router) {
		r.Use(d.Limiter.Limit("auth", d.RateLimit.AuthPerMinute))
		r.Post("/register", d.Auth.Register)
		r.Post("/login", d.Auth.Login)
	})

	r.Route("/words", func(r chi.Router) {
		r.With(d.Limiter.Limit("search", d.RateLimit.SearchPerMinute)).Get("/", d.Words.Search)
		r.With(d.Limiter.Limit("search", d.RateLimit.SearchPerMinute)).Get("/term/{term}", d.Words.GetByTerm)
		r.With(middleware.RequireAuth).Post("/", d.Words.Create)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", d.Words.Get)
			r.With(middleware.RequireAuth).Put("/", d.Words.Update)
			r.With(middleware.RequireAuth).Delete("/", d.Words.Delete)
			r.Get("/history", d.Words.History)

			r.Get("/media", d.Media.List)
			r.Post("/media", d.Media.Attach)

			r.Get("/games", d.Games.Available)
			r.Post("/games/{type}/start", d.Games.Start)
			r.Post("/games/{type}/submit", d.Games.Submit)
		})
	})

	r.Route("/util", func(r chi.Router) {
		r.Get("/suggestions", d.Util.Suggestions)
		r.Get("/pronounce/{id}", d.Util.Pronounce)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	return r
}
