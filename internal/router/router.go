package router

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	appLogger "github.com/FACorreiaa/go-itinerary-compare/app/logger"
	appMiddleware "github.com/FACorreiaa/go-itinerary-compare/app/middleware"
	_ "github.com/FACorreiaa/go-itinerary-compare/docs"
	"github.com/FACorreiaa/go-itinerary-compare/internal/api/comparison"
	"github.com/FACorreiaa/go-itinerary-compare/internal/api/plan"
)

// Config contains dependencies needed for the router setup
type Config struct {
	ComparisonHandler *comparison.HandlerImpl
	PlanHandler       *plan.HandlerImpl
	Logger            *slog.Logger

	// MetricsHandler is mounted at MetricsPath when non-nil.
	MetricsHandler http.Handler
	MetricsPath    string

	AllowedOrigins []string
	Timeout        time.Duration
	// RateLimit is requests per minute per client IP on /api/v1. Zero disables it.
	RateLimit int
}

// SetupRouter builds the full HTTP handler including server-wide middleware.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(appMiddleware.Trace)
	r.Use(appLogger.StructuredLogger(cfg.Logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)
	if cfg.Timeout > 0 {
		r.Use(middleware.Timeout(cfg.Timeout))
	}
	r.Use(middleware.Compress(5, "application/json"))

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:5173", "http://localhost:3000"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"Link"},
		MaxAge:         300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("pong"))
	})

	if cfg.MetricsHandler != nil {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.Handle(path, cfg.MetricsHandler)
	}

	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.RateLimit > 0 {
			r.Use(httprate.LimitByIP(cfg.RateLimit, time.Minute))
		}
		r.Use(appMiddleware.UserFromQuery)

		r.Get("/compare_geo", cfg.ComparisonHandler.CompareGeo)
		r.Post("/compare_geo", cfg.ComparisonHandler.CompareRows)
		r.Get("/compare", cfg.ComparisonHandler.Compare)
		r.Get("/pois", cfg.ComparisonHandler.ListPOIs)
		r.Get("/plan", cfg.PlanHandler.GetPlan)
	})

	return r
}
