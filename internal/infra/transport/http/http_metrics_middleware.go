package http

import (
	"net/http"

	"github.com/mkrupp/bookshop/internal/infra/observability"
)

// MetricsMiddleware counts finished requests by method and status code.
func MetricsMiddleware(next http.Handler, metrics *observability.Metrics) http.Handler {
	if metrics == nil {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := NewResponseRecorder(w)

		next.ServeHTTP(rec, r)

		metrics.ObserveRequest(r.Method, rec.StatusCode)
	})
}
