package http

import (
	"net/http"
	"strings"

	"github.com/oklog/ulid/v2"

	context_ "github.com/mkrupp/bookshop/internal/infra/context"
)

const TraceIDHeader = "X-Request-ID"

// maxTraceIDLength bounds client-supplied trace IDs before they reach the logs.
const maxTraceIDLength = 128

// TracingMiddleware adds a trace ID to the request context and echoes it in the
// response. It reuses the X-Request-ID header if present, otherwise generates a
// lower-case ULID.
func TracingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := getTraceID(r)

		w.Header().Set(TraceIDHeader, traceID)

		next.ServeHTTP(w, r.WithContext(context_.WithTraceID(r.Context(), traceID)))
	})
}

func getTraceID(r *http.Request) string {
	if traceID := strings.TrimSpace(r.Header.Get(TraceIDHeader)); traceID != "" && len(traceID) <= maxTraceIDLength {
		return traceID
	}

	return strings.ToLower(ulid.Make().String())
}
