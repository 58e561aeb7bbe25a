package session

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/redis/go-redis/v9"
)

// FileStore хранит токен в файле с правами 0600 (каталог создаётся с 0700).
type FileStore struct {
	path string
	mu   sync.Mutex
}

func NewFileStore(path string) *FileStore { return &FileStore{path: path} }

func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Load(context.Context) (string, error) {
	const op = "session.FileStore.Load"

	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", ErrNoSession
		}

		return "", fmt.Errorf("%s: %w", op, err)
	}

	tok := strings.TrimSpace(string(b))
	if tok == "" {
		return "", ErrNoSession
	}

	return tok, nil
}

// Save пишет токен атомарно: во временный файл рядом и rename.
func (s *FileStore) Save(_ context.Context, token string) error {
	const op = "session.FileStore.Save"

	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("%s: mkdir: %w", op, err)
	}

	tmp, err := os.CreateTemp(dir, ".token-*")
	if err != nil {
		return fmt.Errorf("%s: create: %w", op, err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%s: chmod: %w", op, err)
	}

	if _, err := tmp.WriteString(token); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%s: write: %w", op, err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%s: close: %w", op, err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("%s: rename: %w", op, err)
	}

	return nil
}

func (s *FileStore) Clear(context.Context) error {
	const op = "session.FileStore.Clear"

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// DefaultRedisPrefix — префикс ключей токенов в Redis.
const DefaultRedisPrefix = "burrow:token:"

// RedisStore хранит токен в Redis под ключом prefix+name (name — имя профиля).
type RedisStore struct {
	rdb  *redis.Client
	key  string
	owns bool
}

// NewRedisStore создаёт клиент Redis из URL (например, redis://:pass@host:6379/0)
// и проверяет соединение. Пустой name заменяется на "default".
func NewRedisStore(ctx context.Context, redisURL, name string) (*RedisStore, error) {
	const op = "session.NewRedisStore"

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rdb := redis.NewClient(opt)

	// Fail-fast на старте.
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("%s: ping: %w", op, err)
	}

	s := NewRedisStoreFromClient(rdb, name)
	s.owns = true

	return s, nil
}

// NewRedisStoreFromClient использует готовый клиент; Close его не закрывает.
func NewRedisStoreFromClient(rdb *redis.Client, name string) *RedisStore {
	if name == "" {
		name = "default"
	}

	return &RedisStore{rdb: rdb, key: DefaultRedisPrefix + name}
}

func (s *RedisStore) Key() string { return s.key }

func (s *RedisStore) Load(ctx context.Context) (string, error) {
	const op = "session.RedisStore.Load"

	tok, err := s.rdb.Get(ctx, s.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNoSession
		}

		return "", fmt.Errorf("%s: %w", op, err)
	}

	if tok == "" {
		return "", ErrNoSession
	}

	return tok, nil
}

// Save сохраняет токен. Если токен — JWT со сроком действия, ключ истекает вместе с ним.
func (s *RedisStore) Save(ctx context.Context, token string) error {
	const op = "session.RedisStore.Save"

	if err := s.rdb.Set(ctx, s.key, token, ttlFor(token)).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	const op = "session.RedisStore.Clear"

	if err := s.rdb.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Close закрывает клиент, если store создал его сам.
func (s *RedisStore) Close() error {
	if !s.owns {
		return nil
	}

	return s.rdb.Close()
}
