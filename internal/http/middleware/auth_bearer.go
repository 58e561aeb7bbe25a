package middleware

import (
	"net/http"
	"strings"

	"github.com/pribylovaa/go-burrow/internal/api/transport"
)

// AuthBearer извлекает Bearer-токен из Authorization и кладёт его в контекст;
// исходящие запросы к бэкенду подставят его вместо сохранённой сессии.
func AuthBearer() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const prefix = "Bearer "

			auth := r.Header.Get("Authorization")
			if len(auth) > len(prefix) && strings.EqualFold(auth[:len(prefix)], prefix) {
				if token := strings.TrimSpace(auth[len(prefix):]); token != "" {
					r = r.WithContext(transport.WithAuthToken(r.Context(), token))
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}
