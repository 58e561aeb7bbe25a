// Package http собирает chi-роутер локального view-сервера.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/pribylovaa/go-burrow/internal/http/handlers"
	"github.com/pribylovaa/go-burrow/internal/http/middleware"
)

// Options — параметры сборки HTTP-роутера.
type Options struct {
	Logger   *slog.Logger
	Timeout  time.Duration
	BasePath string // например, "/ui"; пустой — роуты на корне.
	Metrics  prometheus.Registerer
}

// NewRouter собирает http.Handler с chi и подключёнными middleware/роутами.
func NewRouter(h *handlers.Handlers, opts Options) http.Handler {
	root := chi.NewRouter()

	// Middleware (внешний -> внутренний).
	root.Use(
		middleware.Recover(),
		middleware.RequestID(), // до логирования: id попадает в request-scoped логгер
		middleware.Logging(opts.Logger),
		middleware.Metrics(opts.Metrics),
		middleware.AuthBearer(),
	)
	if opts.Timeout > 0 {
		root.Use(middleware.Timeout(opts.Timeout))
	}

	if opts.BasePath != "" && opts.BasePath != "/" {
		sub := chi.NewRouter()
		registerRoutes(sub, h)
		root.Mount(opts.BasePath, sub)

		return root
	}

	registerRoutes(root, h)

	return root
}

// registerRoutes — единая точка регистрации всех эндпойнтов.
func registerRoutes(r chi.Router, h *handlers.Handlers) {
	// comments
	r.Get("/feed/{post_id}", h.GetFeed)
	r.Patch("/feed/{post_id}/comments/{id}/vote", h.VoteComment)
	r.Patch("/feed/{post_id}/comments/{id}", h.EditComment)
	r.Delete("/feed/{post_id}/comments/{id}", h.DeleteComment)

	// posts
	r.Get("/posts", h.ListPosts)
	r.Get("/search", h.SearchPosts)
	r.Get("/posts/subreddit/{name}", h.PostsBySubreddit)
	r.Patch("/posts/{id}/vote", h.VotePost)

	// graph
	r.Get("/graph", h.GetGraph)

	// session
	r.Post("/signup", h.Signup)
	r.Post("/login", h.Login)
	r.Post("/logout", h.Logout)
}
