// Package api — клиент REST-бэкенда: комментарии, посты, поиск, граф и учётные записи.
//
// Любая ошибка нормализуется в *Error с единым текстом для пользователя.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/pribylovaa/go-burrow/internal/api/transport"
	"github.com/pribylovaa/go-burrow/internal/models"
	"github.com/pribylovaa/go-burrow/pkg/log"
)

const (
	transportMessage = "could not reach the server"
	decodeMessage    = "unexpected response from the server"

	// maxErrorBody — сколько байт тела non-2xx ответа читаем в поисках message.
	maxErrorBody = 64 << 10
)

// Client — клиент REST-бэкенда. Безопасен для конкурентного использования.
type Client struct {
	base   string
	http   *http.Client
	log    *slog.Logger
	tokens TokenSource
}

// New создаёт клиента для baseURL (например, http://localhost:5000/api).
func New(baseURL string, opts ...Option) (*Client, error) {
	const op = "api.New"

	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%s: %q: %w", op, baseURL, ErrInvalidBaseURL)
	}

	o := options{userAgent: DefaultUserAgent}
	for _, opt := range opts {
		opt(&o)
	}

	if o.logger == nil {
		o.logger = slog.Default()
	}

	hc := &http.Client{}
	if o.httpClient != nil {
		cp := *o.httpClient
		hc = &cp
	}

	hc.Transport = transport.Chain(hc.Transport,
		transport.WithMetadata(o.userAgent),
		transport.Logging(o.logger),
		transport.WithTimeout(o.timeout),
		transport.RateLimit(o.limiter),
		transport.Metrics(o.registerer),
	)

	u.RawQuery, u.Fragment = "", ""

	return &Client{
		base:   strings.TrimRight(u.String(), "/"),
		http:   hc,
		log:    o.logger,
		tokens: o.tokens,
	}, nil
}

// BaseURL — нормализованный базовый URL без завершающего слэша.
func (c *Client) BaseURL() string { return c.base }

// CommentsByPost — GET /comments/post/{postId}.
func (c *Client) CommentsByPost(ctx context.Context, postID string) ([]models.Comment, error) {
	const op = "api.CommentsByPost"

	var out []models.Comment
	if err := c.do(ctx, op, http.MethodGet, c.endpoint("comments", "post", postID), nil, &out); err != nil {
		return nil, err
	}

	return nonNil(out), nil
}

// CommentsByPostTitle — GET /posts/title/{postId}: вариант выдачи с метаданными поста.
func (c *Client) CommentsByPostTitle(ctx context.Context, postID string) ([]models.Comment, error) {
	const op = "api.CommentsByPostTitle"

	var out []models.Comment
	if err := c.do(ctx, op, http.MethodGet, c.endpoint("posts", "title", postID), nil, &out); err != nil {
		return nil, err
	}

	return nonNil(out), nil
}

// VoteComment — PATCH /comments/{id}/vote {direction}.
func (c *Client) VoteComment(ctx context.Context, commentID string, dir models.Direction) error {
	const op = "api.VoteComment"

	body := struct {
		Direction models.Direction `json:"direction"`
	}{dir}

	return c.do(ctx, op, http.MethodPatch, c.endpoint("comments", commentID, "vote"), body, nil)
}

// EditComment — PATCH /comments/{id} {commentText}.
func (c *Client) EditComment(ctx context.Context, commentID, text string) error {
	const op = "api.EditComment"

	body := struct {
		CommentText string `json:"commentText"`
	}{text}

	return c.do(ctx, op, http.MethodPatch, c.endpoint("comments", commentID), body, nil)
}

// DeleteComment — DELETE /comments/{id}; потомков удаляет сервер.
func (c *Client) DeleteComment(ctx context.Context, commentID string) error {
	const op = "api.DeleteComment"

	return c.do(ctx, op, http.MethodDelete, c.endpoint("comments", commentID), nil, nil)
}

// ListPosts — GET /posts.
func (c *Client) ListPosts(ctx context.Context) ([]models.Post, error) {
	const op = "api.ListPosts"

	return c.posts(ctx, op, c.endpoint("posts"))
}

// SearchPosts — GET /search?query=.
func (c *Client) SearchPosts(ctx context.Context, query string) ([]models.Post, error) {
	const op = "api.SearchPosts"

	return c.posts(ctx, op, c.endpoint("search")+"?"+url.Values{"query": {query}}.Encode())
}

// PostsBySubreddit — GET /posts/subreddit/{name}.
func (c *Client) PostsBySubreddit(ctx context.Context, name string) ([]models.Post, error) {
	const op = "api.PostsBySubreddit"

	return c.posts(ctx, op, c.endpoint("posts", "subreddit", name))
}

// VotePost — PATCH /posts/{id}/vote {voteType}.
func (c *Client) VotePost(ctx context.Context, postID string, dir models.Direction) error {
	const op = "api.VotePost"

	body := struct {
		VoteType models.Direction `json:"voteType"`
	}{dir}

	return c.do(ctx, op, http.MethodPatch, c.endpoint("posts", postID, "vote"), body, nil)
}

// Graph — GET /graph.
func (c *Client) Graph(ctx context.Context) (models.Graph, error) {
	const op = "api.Graph"

	var g models.Graph
	if err := c.do(ctx, op, http.MethodGet, c.endpoint("graph"), nil, &g); err != nil {
		return models.Graph{}, err
	}

	if g.Nodes == nil {
		g.Nodes = []models.GraphNode{}
	}
	if g.Links == nil {
		g.Links = []models.GraphLink{}
	}

	return g, nil
}

// Register — POST /users/register.
func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (models.RegisterResponse, error) {
	const op = "api.Register"

	var out models.RegisterResponse
	if err := c.do(ctx, op, http.MethodPost, c.endpoint("users", "register"), req, &out); err != nil {
		return models.RegisterResponse{}, err
	}

	return out, nil
}

// Login — POST /users/login.
func (c *Client) Login(ctx context.Context, req models.LoginRequest) (models.LoginResponse, error) {
	const op = "api.Login"

	var out models.LoginResponse
	if err := c.do(ctx, op, http.MethodPost, c.endpoint("users", "login"), req, &out); err != nil {
		return models.LoginResponse{}, err
	}

	return out, nil
}

func (c *Client) posts(ctx context.Context, op, endpoint string) ([]models.Post, error) {
	var out []models.Post
	if err := c.do(ctx, op, http.MethodGet, endpoint, nil, &out); err != nil {
		return nil, err
	}

	return nonNil(out), nil
}

// endpoint склеивает базовый URL с экранированными сегментами пути.
func (c *Client) endpoint(segments ...string) string {
	var b strings.Builder
	b.WriteString(c.base)

	for _, s := range segments {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(s))
	}

	return b.String()
}

// do выполняет запрос и нормализует любую ошибку в *Error.
// in (если не nil) уходит JSON-телом, out (если не nil) заполняется из 2xx-ответа.
func (c *Client) do(ctx context.Context, op, method, endpoint string, in, out any) error {
	lg := log.From(ctx)

	ctx = c.withToken(ctx, op)

	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return &Error{Kind: KindTransport, Op: op, Message: transportMessage, Err: fmt.Errorf("%s: encode: %w", op, err)}
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return &Error{Kind: KindTransport, Op: op, Message: transportMessage, Err: fmt.Errorf("%s: new_request: %w", op, err)}
	}

	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &Error{Kind: KindTransport, Op: op, Message: transportMessage, Err: fmt.Errorf("%s: do: %w", op, err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{
			Kind:    KindStatus,
			Status:  resp.StatusCode,
			Op:      op,
			Message: errorMessage(resp),
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		lg.Warn("api_decode_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)

		return &Error{Kind: KindDecode, Op: op, Message: decodeMessage, Err: fmt.Errorf("%s: decode: %w", op, err)}
	}

	return nil
}

// withToken кладёт токен из TokenSource в контекст, если вызывающий не положил свой.
// Ошибка источника токенов не фатальна: запрос уходит анонимно.
func (c *Client) withToken(ctx context.Context, op string) context.Context {
	if c.tokens == nil || transport.AuthToken(ctx) != "" {
		return ctx
	}

	tok, err := c.tokens.Token(ctx)
	if err != nil {
		log.From(ctx).Debug("api_token_unavailable",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
		return ctx
	}

	if tok == "" {
		return ctx
	}

	return transport.WithAuthToken(ctx, tok)
}

// errorMessage достаёт message из JSON-тела ошибки или отдаёт запасной текст.
func errorMessage(resp *http.Response) string {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return statusMessage(resp.StatusCode)
	}

	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return statusMessage(resp.StatusCode)
	}

	switch {
	case strings.TrimSpace(payload.Message) != "":
		return payload.Message
	case strings.TrimSpace(payload.Error) != "":
		return payload.Error
	default:
		return statusMessage(resp.StatusCode)
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}

	return s
}
