package appMiddleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Trace wraps next in an otelhttp server span. The span is renamed after the
// matched chi route once routing has happened.
func Trace(next http.Handler) http.Handler {
	return otelhttp.NewHandler(routeSpanName(next), "http.server",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}))
}

func routeSpanName(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		span := trace.SpanFromContext(r.Context())
		if id := middleware.GetReqID(r.Context()); id != "" {
			span.SetAttributes(attribute.String("request_id", id))
		}
		next.ServeHTTP(w, r)

		if rc := chi.RouteContext(r.Context()); rc != nil {
			if pattern := rc.RoutePattern(); pattern != "" {
				span.SetName(r.Method + " " + pattern)
				span.SetAttributes(attribute.String("http.route", pattern))
			}
		}
	})
}

// UserFromQuery copies the ?user= selector onto the request span.
func UserFromQuery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user := r.URL.Query().Get("user"); user != "" {
			trace.SpanFromContext(r.Context()).SetAttributes(attribute.String("user.selector", user))
		}
		next.ServeHTTP(w, r)
	})
}
