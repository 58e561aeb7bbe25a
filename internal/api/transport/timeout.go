package transport

import (
	"context"
	"io"
	"net/http"
	"time"
)

// WithTimeout навешивает таймаут d на исходящий запрос, если у контекста ещё нет дедлайна.
//
// Контракт:
//  1. d <= 0 — запрос уходит как есть;
//  2. у контекста уже есть deadline — он не переопределяется;
//  3. иначе контекст оборачивается context.WithTimeout, а cancel вызывается
//     при закрытии тела ответа (или сразу, если запрос упал).
//
// Таймаут покрывает и чтение тела: декодирование медленного ответа тоже прервётся.
func WithTimeout(d time.Duration) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return Func(func(req *http.Request) (*http.Response, error) {
			if d <= 0 {
				return next.RoundTrip(req)
			}
			if _, ok := req.Context().Deadline(); ok {
				return next.RoundTrip(req)
			}

			ctx, cancel := context.WithTimeout(req.Context(), d)

			resp, err := next.RoundTrip(req.WithContext(ctx))
			if err != nil || resp == nil || resp.Body == nil {
				cancel()
				return resp, err
			}

			resp.Body = &cancelBody{ReadCloser: resp.Body, cancel: cancel}

			return resp, nil
		})
	}
}

type cancelBody struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (b *cancelBody) Close() error {
	err := b.ReadCloser.Close()
	b.cancel()

	return err
}
