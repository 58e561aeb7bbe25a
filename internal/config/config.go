// config — загрузка конфигурации клиента burrow (CLI и локальный view-сервер).
//
// Источники (по убыванию приоритета):
//  1. явный путь --config;
//  2. CONFIG_PATH;
//  3. ./local.yaml;
//  4. только ENV (cleanenv).
//
// Значения из файла всегда перекрываются переменными окружения.
package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	StoreFile  = "file"
	StoreRedis = "redis"
)

type Config struct {
	Env      string        `yaml:"env" env:"ENV" env-default:"local"`
	API      APIConfig     `yaml:"api"`
	HTTP     HTTPConfig    `yaml:"http"`
	Neo4j    Neo4jConfig   `yaml:"neo4j"`
	Session  SessionConfig `yaml:"session"`
	Timeouts TimeoutConfig `yaml:"timeouts"`
}

// APIConfig — REST-бэкенд, к которому ходит клиент.
type APIConfig struct {
	BaseURL   string        `yaml:"base_url"   env:"API_BASE_URL"   env-default:"http://localhost:5000/api"`
	Timeout   time.Duration `yaml:"timeout"    env:"API_TIMEOUT"    env-default:"10s"`
	RateLimit float64       `yaml:"rate_limit" env:"API_RATE_LIMIT" env-default:"0"`
	Burst     int           `yaml:"burst"      env:"API_BURST"      env-default:"10"`
	UserAgent string        `yaml:"user_agent" env:"API_USER_AGENT" env-default:"burrow"`
}

// HTTPConfig — локальный view-сервер.
type HTTPConfig struct {
	Host     string `yaml:"host"      env:"HTTP_HOST"      env-default:"127.0.0.1"`
	Port     string `yaml:"port"      env:"HTTP_PORT"      env-default:"8088"`
	BasePath string `yaml:"base_path" env:"HTTP_BASE_PATH" env-default:""`
}

func (h HTTPConfig) Addr() string { return net.JoinHostPort(h.Host, h.Port) }

// Neo4jConfig — Bolt-эндпоинт графа тем. Пустой URI выключает источник.
type Neo4jConfig struct {
	URI      string `yaml:"uri"      env:"NEO4J_URI"      env-default:"bolt://localhost:7687"`
	User     string `yaml:"user"     env:"NEO4J_USER"     env-default:"neo4j"`
	Password string `yaml:"password" env:"NEO4J_PASSWORD" env-default:""`
	Database string `yaml:"database" env:"NEO4J_DB"       env-default:"neo4j"`
	Limit    int    `yaml:"limit"    env:"NEO4J_LIMIT"    env-default:"150"`
}

func (n Neo4jConfig) Enabled() bool { return n.URI != "" }

// SessionConfig — где хранится токен после логина.
type SessionConfig struct {
	Store     string `yaml:"store"      env:"SESSION_STORE"      env-default:"file"`
	TokenPath string `yaml:"token_path" env:"SESSION_TOKEN_PATH" env-default:""`
	RedisURL  string `yaml:"redis_url"  env:"SESSION_REDIS_URL"  env-default:"redis://localhost:6379/0"`
	Key       string `yaml:"key"        env:"SESSION_KEY"        env-default:"default"`
}

// TimeoutConfig — таймаут обработки запроса view-сервером.
type TimeoutConfig struct {
	Service time.Duration `yaml:"service" env:"SERVICE" env-default:"15s"`
}

// MustLoad — паника при ошибке загрузки.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}

	return cfg
}

func Load(path string) (*Config, error) {
	var cfg Config

	read := func(p string) error {
		if p == "" {
			return fmt.Errorf("empty config path")
		}

		if _, err := os.Stat(p); err != nil {
			return fmt.Errorf("config file %q stat failed: %w", p, err)
		}

		if err := cleanenv.ReadConfig(p, &cfg); err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return fmt.Errorf("failed to overlay env: %w", err)
		}

		return nil
	}

	var err error
	switch envPath := os.Getenv("CONFIG_PATH"); {
	case path != "":
		// 1) --config
		err = read(path)
	case envPath != "":
		// 2) CONFIG_PATH
		err = read(envPath)
	default:
		if _, statErr := os.Stat("local.yaml"); statErr == nil {
			// 3) ./local.yaml
			err = read("local.yaml")
		} else if envErr := cleanenv.ReadEnv(&cfg); envErr != nil {
			// 4) только ENV
			err = fmt.Errorf("config not found: provide --config, CONFIG_PATH, local.yaml or env vars: %w", envErr)
		}
	}

	if err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// validate — базовая валидация и вычисляемые значения по умолчанию.
func (c *Config) validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("api.base_url must be an absolute http(s) url")
	}

	if c.API.Timeout < 0 {
		return fmt.Errorf("api.timeout must be >= 0")
	}

	if c.API.RateLimit < 0 {
		return fmt.Errorf("api.rate_limit must be >= 0")
	}

	if c.Neo4j.Enabled() && c.Neo4j.Limit <= 0 {
		return fmt.Errorf("neo4j.limit must be > 0")
	}

	if c.HTTP.BasePath != "" && !strings.HasPrefix(c.HTTP.BasePath, "/") {
		return fmt.Errorf("http.base_path must start with /")
	}

	switch c.Session.Store {
	case StoreFile:
		if c.Session.TokenPath == "" {
			p, err := DefaultTokenPath()
			if err != nil {
				return fmt.Errorf("session.token_path: %w", err)
			}
			c.Session.TokenPath = p
		}
	case StoreRedis:
		if c.Session.RedisURL == "" {
			return fmt.Errorf("session.redis_url is required for redis store")
		}
	default:
		return fmt.Errorf("session.store must be %q or %q", StoreFile, StoreRedis)
	}

	if c.Timeouts.Service <= 0 {
		return fmt.Errorf("timeouts.service must be > 0")
	}

	return nil
}

// DefaultTokenPath — ~/.burrow/token.
func DefaultTokenPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, ".burrow", "token"), nil
}
