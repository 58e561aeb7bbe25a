package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"
)

// TokenSource отдаёт bearer-токен для исходящих запросов.
// Пустой токен означает анонимный запрос.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// TokenFunc — адаптер функции к TokenSource.
type TokenFunc func(ctx context.Context) (string, error)

func (f TokenFunc) Token(ctx context.Context) (string, error) { return f(ctx) }

// DefaultUserAgent — User-Agent по умолчанию.
const DefaultUserAgent = "burrow"

type options struct {
	httpClient *http.Client
	logger     *slog.Logger
	timeout    time.Duration
	userAgent  string
	limiter    *rate.Limiter
	tokens     TokenSource
	registerer prometheus.Registerer
}

type Option func(*options)

// WithHTTPClient — базовый http.Client; его Transport оборачивается цепочкой middleware.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithTimeout — таймаут на запрос, если у контекста вызова нет дедлайна.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

func WithUserAgent(ua string) Option {
	return func(o *options) { o.userAgent = ua }
}

// WithRateLimit ограничивает частоту запросов: rps в секунду с всплеском burst.
// rps <= 0 выключает ограничение.
func WithRateLimit(rps float64, burst int) Option {
	return func(o *options) {
		if rps <= 0 {
			o.limiter = nil
			return
		}
		if burst <= 0 {
			burst = 1
		}
		o.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

func WithTokenSource(ts TokenSource) Option {
	return func(o *options) { o.tokens = ts }
}

// WithMetrics регистрирует гистограмму длительности запросов в reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(o *options) { o.registerer = reg }
}
