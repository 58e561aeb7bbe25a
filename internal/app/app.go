// Package app собирает зависимости клиента из конфигурации: REST-клиент,
// хранилище сессии, источники графа и реестр метрик. Общая часть cmd/burrow
// и cmd/burrow-web.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/pribylovaa/go-burrow/internal/api"
	"github.com/pribylovaa/go-burrow/internal/config"
	"github.com/pribylovaa/go-burrow/internal/feed"
	"github.com/pribylovaa/go-burrow/internal/graph"
	"github.com/pribylovaa/go-burrow/internal/session"
)

// App агрегирует зависимости страниц.
type App struct {
	Config   *config.Config
	Log      *slog.Logger
	API      *api.Client
	Session  *session.Service
	Graph    *graph.Sources
	Registry *prometheus.Registry
	Metrics  *feed.Metrics

	closers []func(context.Context) error
}

// Option настраивает сборку App.
type Option func(*buildOptions)

type buildOptions struct {
	store    session.TokenStore
	registry *prometheus.Registry
}

// WithTokenStore подменяет хранилище токена из конфигурации. App становится
// владельцем: если хранилище реализует io.Closer, Close его закроет.
func WithTokenStore(s session.TokenStore) Option {
	return func(o *buildOptions) { o.store = s }
}

// WithRegistry — реестр метрик; по умолчанию создаётся новый с go/process коллекторами.
func WithRegistry(r *prometheus.Registry) Option {
	return func(o *buildOptions) { o.registry = r }
}

// New собирает App. Недоступный Neo4j не считается ошибкой: источник просто
// не регистрируется, граф отдаётся REST-бэкендом.
func New(ctx context.Context, cfg *config.Config, log *slog.Logger, opts ...Option) (*App, error) {
	const op = "app.New"

	var o buildOptions
	for _, opt := range opts {
		opt(&o)
	}

	if log == nil {
		log = slog.Default()
	}

	reg := o.registry
	if reg == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	a := &App{Config: cfg, Log: log, Registry: reg, Metrics: feed.NewMetrics(reg)}

	store := o.store
	if c, ok := store.(io.Closer); ok {
		a.closers = append(a.closers, func(context.Context) error { return c.Close() })
	}
	if store == nil {
		s, closeStore, err := newTokenStore(ctx, cfg.Session)
		if err != nil {
			return nil, fmt.Errorf("%s: token store: %w", op, err)
		}
		store = s
		if closeStore != nil {
			a.closers = append(a.closers, closeStore)
		}
	}

	// Клиент и сессия ссылаются друг на друга: клиент берёт токен из сессии,
	// сессия ходит на бэкенд через клиента.
	var svc *session.Service

	client, err := api.New(cfg.API.BaseURL,
		api.WithLogger(log),
		api.WithTimeout(cfg.API.Timeout),
		api.WithUserAgent(cfg.API.UserAgent),
		api.WithRateLimit(cfg.API.RateLimit, cfg.API.Burst),
		api.WithMetrics(reg),
		api.WithTokenSource(api.TokenFunc(func(ctx context.Context) (string, error) {
			return svc.Token(ctx)
		})),
	)
	if err != nil {
		_ = a.Close(context.Background())
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	svc = session.New(client, store)
	a.API = client
	a.Session = svc

	a.Graph = graph.NewSources().Add(graph.SourceREST, graph.NewRESTSource(client))
	if cfg.Neo4j.Enabled() {
		src, err := graph.NewNeo4jSource(ctx, cfg.Neo4j)
		if err != nil {
			log.Warn("neo4j_unavailable", slog.String("uri", cfg.Neo4j.URI), slog.String("err", err.Error()))
		} else {
			a.Graph.Add(graph.SourceNeo4j, src)
			a.closers = append(a.closers, src.Close)
		}
	}

	return a, nil
}

// FeedOptions — общие опции feed: логгер, метрики, таймаут, тексты ошибок.
func (a *App) FeedOptions() []feed.Option {
	return []feed.Option{
		feed.WithLogger(a.Log),
		feed.WithMetrics(a.Metrics),
		feed.WithRequestTimeout(a.Config.API.Timeout),
		feed.WithErrorMessage(api.Message),
	}
}

// Close освобождает соединения (Redis, Neo4j) в обратном порядке создания.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil

	return errors.Join(errs...)
}

func newTokenStore(ctx context.Context, cfg config.SessionConfig) (session.TokenStore, func(context.Context) error, error) {
	switch cfg.Store {
	case config.StoreRedis:
		s, err := session.NewRedisStore(ctx, cfg.RedisURL, cfg.Key)
		if err != nil {
			return nil, nil, err
		}

		return s, func(context.Context) error { return s.Close() }, nil
	default:
		return session.NewFileStore(cfg.TokenPath), nil, nil
	}
}
