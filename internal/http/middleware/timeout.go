package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	apierrors "github.com/pribylovaa/go-burrow/internal/errors"
)

// Timeout ограничивает обработку запроса временем d; более ранний deadline
// родительского контекста остаётся в силе. Если к истечению срока хендлер
// не начал ответ, клиент получает 504 в формате ошибок view-сервера.
// d <= 0 выключает мидлвар.
func Timeout(d time.Duration) Middleware {
	if d <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()

			r = r.WithContext(ctx)
			tw := track(w)

			next.ServeHTTP(tw, r)

			if !tw.started() && errors.Is(ctx.Err(), context.DeadlineExceeded) {
				apierrors.WriteError(tw, r, ctx.Err())
			}
		})
	}
}
