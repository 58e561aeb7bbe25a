package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/pribylovaa/go-burrow/internal/api/transport"
)

// RequestID обеспечивает наличие X-Request-Id:
//  1. берёт заголовок запроса, если он есть;
//  2. иначе генерирует hex id из 32 символов;
//  3. кладёт id в заголовки ответа и запроса и в контекст через
//     transport.WithRequestID, откуда его забирает исходящий REST-транспорт.
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimSpace(r.Header.Get(transport.HeaderRequestID))
			if id == "" {
				id = genID()
				r.Header.Set(transport.HeaderRequestID, id)
			}
			w.Header().Set(transport.HeaderRequestID, id)

			next.ServeHTTP(w, r.WithContext(transport.WithRequestID(r.Context(), id)))
		})
	}
}

func genID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
