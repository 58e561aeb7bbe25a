package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/go-burrow/internal/config"
	"github.com/pribylovaa/go-burrow/internal/graph"
	"github.com/pribylovaa/go-burrow/internal/session"
)

func testConfig(baseURL, tokenPath string) *config.Config {
	return &config.Config{
		Env: "local",
		API: config.APIConfig{BaseURL: baseURL, Timeout: 2 * time.Second, Burst: 1, UserAgent: "burrow-test"},
		Session: config.SessionConfig{
			Store:     config.StoreFile,
			TokenPath: tokenPath,
		},
	}
}

// Сохранённый токен уходит в исходящие запросы как Bearer.
func TestNew_UsesStoredToken(t *testing.T) {
	t.Parallel()

	seen := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen <- r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`[]`))
	}))
	t.Cleanup(srv.Close)

	path := filepath.Join(t.TempDir(), "token")
	require.NoError(t, session.NewFileStore(path).Save(context.Background(), "tok-1"))

	a, err := New(context.Background(), testConfig(srv.URL+"/api", path), nil,
		WithRegistry(prometheus.NewRegistry()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close(context.Background()) })

	_, err = a.API.ListPosts(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Bearer tok-1", <-seen)

	require.Equal(t, []string{graph.SourceREST}, a.Graph.Names())
	require.Len(t, a.FeedOptions(), 4)
}

// Без сессии запросы анонимные.
func TestNew_Anonymous(t *testing.T) {
	t.Parallel()

	seen := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen <- r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`[]`))
	}))
	t.Cleanup(srv.Close)

	a, err := New(context.Background(), testConfig(srv.URL, filepath.Join(t.TempDir(), "token")), nil)
	require.NoError(t, err)

	_, err = a.API.ListPosts(context.Background())
	require.NoError(t, err)
	require.Empty(t, <-seen)

	require.NoError(t, a.Close(context.Background()))
}

// Недоступный Neo4j не мешает старту: остаётся только REST-источник.
func TestNew_Neo4jUnavailable(t *testing.T) {
	t.Parallel()

	cfg := testConfig("http://localhost:5000/api", filepath.Join(t.TempDir(), "token"))
	cfg.Neo4j = config.Neo4jConfig{URI: "bolt://127.0.0.1:1", User: "neo4j", Database: "neo4j", Limit: 10}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	a, err := New(ctx, cfg, nil, WithRegistry(prometheus.NewRegistry()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close(context.Background()) })

	require.Equal(t, []string{graph.SourceREST}, a.Graph.Names())
}

func TestNew_InvalidBaseURL(t *testing.T) {
	t.Parallel()

	_, err := New(context.Background(), testConfig("ftp://nope", filepath.Join(t.TempDir(), "token")), nil,
		WithRegistry(prometheus.NewRegistry()))
	require.Error(t, err)
}

// closingStore — хранилище с соединением, которое нужно освободить.
type closingStore struct {
	*session.FileStore
	closed int
}

func (s *closingStore) Close() error {
	s.closed++
	return nil
}

// Переданное хранилище закрывается вместе с App, в том числе при ошибке сборки.
func TestNew_ClosesInjectedStore(t *testing.T) {
	t.Parallel()

	store := &closingStore{FileStore: session.NewFileStore(filepath.Join(t.TempDir(), "token"))}

	a, err := New(context.Background(), testConfig("http://localhost:5000/api", ""), nil,
		WithTokenStore(store), WithRegistry(prometheus.NewRegistry()))
	require.NoError(t, err)
	require.Zero(t, store.closed)

	require.NoError(t, a.Close(context.Background()))
	require.Equal(t, 1, store.closed)

	// Повторный Close ничего не делает.
	require.NoError(t, a.Close(context.Background()))
	require.Equal(t, 1, store.closed)

	failed := &closingStore{FileStore: session.NewFileStore(filepath.Join(t.TempDir(), "token"))}
	_, err = New(context.Background(), testConfig("ftp://nope", ""), nil,
		WithTokenStore(failed), WithRegistry(prometheus.NewRegistry()))
	require.Error(t, err)
	require.Equal(t, 1, failed.closed)
}
