// feed — view-модели страниц: ветка комментариев поста с оптимистичными
// мутациями и лента постов (список, поиск, сабреддит).
//
// Мутации применяются к локальному списку синхронно, запрос к бэкенду уходит
// в фоне. При неудаче запроса локальное состояние отбрасывается и список
// перечитывается с сервера целиком.
package feed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pribylovaa/go-burrow/internal/models"
)

var (
	// ErrNotFound — комментария/поста с таким id нет в текущем списке.
	ErrNotFound = errors.New("not found")
	// ErrEmptyText — новый текст комментария пуст.
	ErrEmptyText = errors.New("comment text is empty")
	// ErrInvalidDirection — направление голоса не up/down.
	ErrInvalidDirection = errors.New("invalid vote direction")
	// ErrEmptyQuery — пустой поисковый запрос.
	ErrEmptyQuery = errors.New("search query is empty")
	// ErrNotLoaded — список ещё не загружен (или загрузка упала).
	ErrNotLoaded = errors.New("feed is not loaded")
	// ErrClosed — feed закрыт.
	ErrClosed = errors.New("feed is closed")
	// ErrInvalidArgument — пустой post id, неизвестный вариант выдачи и т.п.
	ErrInvalidArgument = errors.New("invalid argument")
)

// CommentSource — подмножество клиента бэкенда, нужное ветке комментариев.
type CommentSource interface {
	CommentsByPost(ctx context.Context, postID string) ([]models.Comment, error)
	CommentsByPostTitle(ctx context.Context, postID string) ([]models.Comment, error)
	VoteComment(ctx context.Context, commentID string, dir models.Direction) error
	EditComment(ctx context.Context, commentID, text string) error
	DeleteComment(ctx context.Context, commentID string) error
}

// PostSource — подмножество клиента бэкенда, нужное ленте постов.
type PostSource interface {
	ListPosts(ctx context.Context) ([]models.Post, error)
	SearchPosts(ctx context.Context, query string) ([]models.Post, error)
	PostsBySubreddit(ctx context.Context, name string) ([]models.Post, error)
	VotePost(ctx context.Context, postID string, dir models.Direction) error
}

// Variant — откуда берётся плоский список комментариев.
type Variant int

const (
	// VariantByPost — GET /comments/post/{id}.
	VariantByPost Variant = iota
	// VariantByTitle — GET /posts/title/{id}: тело в body, у корней есть subreddit/title.
	VariantByTitle
)

func (v Variant) String() string {
	switch v {
	case VariantByPost:
		return "post"
	case VariantByTitle:
		return "title"
	default:
		return "unknown"
	}
}

// ParseVariant — "" и "post" дают VariantByPost, "title" — VariantByTitle.
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "post":
		return VariantByPost, nil
	case "title":
		return VariantByTitle, nil
	default:
		return 0, fmt.Errorf("feed.ParseVariant: %q: %w", s, ErrInvalidArgument)
	}
}

// State — состояние загрузки страницы.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

type options struct {
	variant Variant
	logger  *slog.Logger
	metrics *Metrics
	timeout time.Duration
	message func(error) string
}

type Option func(*options)

func WithVariant(v Variant) Option {
	return func(o *options) { o.variant = v }
}

func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithMetrics — счётчики мутаций и перезагрузок; nil выключает.
func WithMetrics(m *Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithRequestTimeout ограничивает фоновые запросы мутаций и перезагрузок.
func WithRequestTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithErrorMessage — как превращать ошибку загрузки в текст для пользователя
// (по умолчанию err.Error()).
func WithErrorMessage(fn func(error) string) Option {
	return func(o *options) { o.message = fn }
}

func buildOptions(opts []Option) options {
	o := options{variant: VariantByPost}
	for _, opt := range opts {
		opt(&o)
	}

	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.message == nil {
		o.message = func(err error) string { return err.Error() }
	}

	return o
}
