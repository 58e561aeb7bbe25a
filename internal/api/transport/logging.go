package transport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/pribylovaa/go-burrow/pkg/log"
)

// Logging — логирование исходящих запросов.
// Поведение:
//   - берёт X-Request-Id из заголовка/контекста (или генерирует новый и проставляет);
//   - прокладывает обогащённый логгер в контекст запроса (pkg/log);
//   - пишет одну финальную запись уровня Info: msg="api", status, dur
//     (при ошибке транспорта — Warn с err).
//
// Безопасность: не логирует тела, query-строку и заголовок Authorization.
func Logging(base *slog.Logger) Middleware {
	if base == nil {
		base = slog.Default()
	}

	return func(next http.RoundTripper) http.RoundTripper {
		return Func(func(req *http.Request) (*http.Response, error) {
			start := time.Now()
			ctx := req.Context()

			rid := req.Header.Get(HeaderRequestID)
			if rid == "" {
				rid = RequestID(ctx)
			}
			if rid == "" {
				rid = uuid.NewString()
			}

			l := base.With(
				slog.String("request_id", rid),
				slog.String("method", req.Method),
				slog.String("host", req.URL.Host),
				slog.String("path", req.URL.Path),
			)

			r := req.Clone(log.Into(ctx, l))
			r.Header.Set(HeaderRequestID, rid)

			resp, err := next.RoundTrip(r)
			dur := time.Since(start)

			if err != nil {
				l.Warn("api", slog.String("err", err.Error()), slog.Duration("dur", dur))
				return resp, err
			}

			l.Info("api", slog.Int("status", resp.StatusCode), slog.Duration("dur", dur))

			return resp, nil
		})
	}
}
