package middleware

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/magicshop-api/internal/api/shared"
	"github.com/phrazzld/magicshop-api/internal/platform/logger"
)

// TraceHeader echoes the request's trace ID so clients can quote it.
const TraceHeader = "X-Trace-ID"

// NewTraceMiddleware adds a trace ID and a logger annotated with it to the
// request context. Apply it before anything that logs or writes errors.
func NewTraceMiddleware(base *slog.Logger) func(http.Handler) http.Handler {
	if base == nil {
		base = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			traceID := shared.NewTraceID()
			ctx := shared.WithTraceID(r.Context(), traceID)
			ctx = logger.WithTraceID(ctx, base, traceID)

			w.Header().Set(TraceHeader, traceID)
			logger.FromContext(ctx).Debug("request started",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("remote_addr", r.RemoteAddr))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
