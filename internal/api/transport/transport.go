// Package transport — цепочка http.RoundTripper для исходящих запросов к REST-бэкенду:
// метаданные (request id, bearer, user-agent), таймаут, логирование, ограничение
// частоты и метрики.
package transport

import (
	"context"
	"net/http"
)

type CtxKey string

const (
	CtxRequestID CtxKey = "request_id"
	CtxAuthToken CtxKey = "auth_token"
)

// HeaderRequestID — заголовок, в котором request id уходит на бэкенд.
const HeaderRequestID = "X-Request-Id"

// WithRequestID кладёт request id в контекст исходящих вызовов.
func WithRequestID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, CtxRequestID, rid)
}

// WithAuthToken кладёт bearer-токен в контекст исходящих вызовов.
func WithAuthToken(ctx context.Context, tok string) context.Context {
	return context.WithValue(ctx, CtxAuthToken, tok)
}

func RequestID(ctx context.Context) string { return ctxString(ctx, CtxRequestID) }

func AuthToken(ctx context.Context) string { return ctxString(ctx, CtxAuthToken) }

func ctxString(ctx context.Context, key CtxKey) string {
	if ctx == nil {
		return ""
	}

	s, _ := ctx.Value(key).(string)
	return s
}

// Func — адаптер функции к http.RoundTripper.
type Func func(*http.Request) (*http.Response, error)

func (f Func) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

// Middleware оборачивает RoundTripper.
type Middleware func(http.RoundTripper) http.RoundTripper

// Chain собирает цепочку: первый middleware — внешний.
// nil base означает http.DefaultTransport.
func Chain(base http.RoundTripper, mws ...Middleware) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}

	rt := base
	for i := len(mws) - 1; i >= 0; i-- {
		if mws[i] != nil {
			rt = mws[i](rt)
		}
	}

	return rt
}
