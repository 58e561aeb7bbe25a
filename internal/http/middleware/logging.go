package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/pribylovaa/go-burrow/internal/api/transport"
	"github.com/pribylovaa/go-burrow/pkg/log"
)

// Logging кладёт request-scoped логгер в контекст и пишет одну запись на запрос.
// 5xx логируются на уровне Warn.
func Logging(l *slog.Logger) Middleware {
	if l == nil {
		l = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqLogger := l
			if rid := r.Header.Get(transport.HeaderRequestID); rid != "" {
				reqLogger = reqLogger.With(slog.String("request_id", rid))
			}
			r = r.WithContext(log.Into(r.Context(), reqLogger))

			tw := track(w)
			start := time.Now()

			next.ServeHTTP(tw, r)

			lvl := slog.LevelInfo
			if tw.Code() >= http.StatusInternalServerError {
				lvl = slog.LevelWarn
			}

			reqLogger.LogAttrs(r.Context(), lvl, "http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", tw.Code()),
				slog.Duration("dur", time.Since(start)),
				slog.Int("bytes", tw.bytes),
			)
		})
	}
}
