package transport

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics пишет длительность исходящих запросов в гистограмму
// burrow_api_request_duration_seconds{method,code}; code="error" для ошибок транспорта.
//
// Повторная регистрация в том же реестре переиспользует уже зарегистрированный коллектор.
// nil registerer — middleware выключен.
func Metrics(reg prometheus.Registerer) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		if reg == nil {
			return next
		}

		hist := newRequestDuration(reg)

		return Func(func(req *http.Request) (*http.Response, error) {
			start := time.Now()

			resp, err := next.RoundTrip(req)

			code := "error"
			if err == nil && resp != nil {
				code = strconv.Itoa(resp.StatusCode)
			}
			hist.WithLabelValues(req.Method, code).Observe(time.Since(start).Seconds())

			return resp, err
		})
	}
}

func newRequestDuration(reg prometheus.Registerer) *prometheus.HistogramVec {
	hist := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "burrow",
		Subsystem: "api",
		Name:      "request_duration_seconds",
		Help:      "Duration of REST backend requests.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "code"})

	if err := reg.Register(hist); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing
			}
		}
		// Коллектор с тем же именем, но другой формы: работаем без регистрации.
		return hist
	}

	return hist
}
