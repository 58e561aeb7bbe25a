package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics считает длительность запросов в burrow_http_request_duration_seconds{method,route,code}.
// route — шаблон chi ("/feed/{post_id}"), чтобы id не раздували кардинальность.
// nil reg — no-op.
func Metrics(reg prometheus.Registerer) Middleware {
	if reg == nil {
		return func(next http.Handler) http.Handler { return next }
	}

	hist := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "burrow_http_request_duration_seconds",
		Help:    "View server request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "code"})

	if err := reg.Register(hist); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				hist = existing
			}
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tw := track(w)
			start := time.Now()

			next.ServeHTTP(tw, r)

			route := "unmatched"
			if rc := chi.RouteContext(r.Context()); rc != nil {
				if p := rc.RoutePattern(); p != "" {
					route = p
				}
			}

			hist.WithLabelValues(r.Method, route, strconv.Itoa(tw.Code())).
				Observe(time.Since(start).Seconds())
		})
	}
}
