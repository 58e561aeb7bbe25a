package transport

import (
	"net/http"

	"golang.org/x/time/rate"
)

// RateLimit ждёт токен лимитера перед каждым запросом.
// Ожидание прерывается отменой контекста запроса; nil limiter — без ограничения.
func RateLimit(l *rate.Limiter) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		if l == nil {
			return next
		}

		return Func(func(req *http.Request) (*http.Response, error) {
			if err := l.Wait(req.Context()); err != nil {
				return nil, err
			}

			return next.RoundTrip(req)
		})
	}
}
