package transport

import (
	"net/http"
)

// WithMetadata добавляет в исходящий запрос заголовки:
//   - X-Request-Id (если есть в контексте и не выставлен явно),
//   - Authorization: Bearer <token> (если есть в контексте),
//   - User-Agent (если передан параметром).
//
// Исходный *http.Request не модифицируется.
func WithMetadata(userAgent string) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return Func(func(req *http.Request) (*http.Response, error) {
			ctx := req.Context()

			rid := RequestID(ctx)
			tok := AuthToken(ctx)

			if rid == "" && tok == "" && userAgent == "" {
				return next.RoundTrip(req)
			}

			r := req.Clone(ctx)
			if rid != "" && r.Header.Get(HeaderRequestID) == "" {
				r.Header.Set(HeaderRequestID, rid)
			}
			if tok != "" {
				r.Header.Set("Authorization", "Bearer "+tok)
			}
			if userAgent != "" {
				r.Header.Set("User-Agent", userAgent)
			}

			return next.RoundTrip(r)
		})
	}
}
