// internal/app/system/requestid/requestid.go
//
// Package requestid tags every request with an X-Request-ID and carries a
// request-scoped zap logger in the context.
package requestid

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Header is the request and response header carrying the id.
const Header = "X-Request-ID"

// maxInboundLen caps client-supplied ids; longer values are replaced.
const maxInboundLen = 128

type ctxKey int

const (
	idKey ctxKey = iota
	loggerKey
)

// Middleware reuses an inbound X-Request-ID or generates a UUID, echoes it
// on the response, and stores it with a child of base in the context.
func Middleware(base *zap.Logger) func(http.Handler) http.Handler {
	if base == nil {
		base = zap.NewNop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(Header)
			if id == "" || len(id) > maxInboundLen {
				id = uuid.NewString()
			}
			w.Header().Set(Header, id)

			ctx := context.WithValue(r.Context(), idKey, id)
			ctx = context.WithValue(ctx, loggerKey, base.With(zap.String("request_id", id)))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// FromContext returns the request id, or "" outside a tagged request.
func FromContext(ctx context.Context) string {
	id, _ := ctx.Value(idKey).(string)
	return id
}

// Logger returns the request-scoped logger, or fallback when none is set.
func Logger(ctx context.Context, fallback *zap.Logger) *zap.Logger {
	if l, ok := ctx.Value(loggerKey).(*zap.Logger); ok {
		return l
	}
	return fallback
}

// AccessLog writes one debug line per request through the request-scoped
// logger. Responses with status >= 500 are logged at warn.
func AccessLog(base *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			fields := []zap.Field{
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", status),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("latency", time.Since(start)),
			}
			log := Logger(r.Context(), base)
			if status >= 500 {
				log.Warn("request", fields...)
				return
			}
			log.Debug("request", fields...)
		})
	}
}
