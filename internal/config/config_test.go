package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// writeFile — утилита записи временного файла конфигурации.
func writeFile(t *testing.T, dir, name, data string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(data), 0o600))
	return p
}

// chdir — смена текущего рабочего каталога с авто-возвратом.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

const sampleYAML = `
env: "prod"
api:
  base_url: "https://reddit.example.com/api"
  timeout: "3s"
  rate_limit: 5
  burst: 2
  user_agent: "burrow-test"
http:
  host: "0.0.0.0"
  port: "9000"
  base_path: "/ui"
neo4j:
  uri: "bolt://graph:7687"
  user: "reader"
  password: "pw"
  database: "topics"
  limit: 50
session:
  store: "redis"
  redis_url: "redis://cache:6379/1"
  key: "alice"
timeouts:
  service: "4s"
`

const minimalYAML = `
env: "stage"
`

const brokenYAML = `
env: [unclosed
`

func TestHTTPConfig_Addr(t *testing.T) {
	t.Parallel()
	require.Equal(t, "0.0.0.0:8080", HTTPConfig{Host: "0.0.0.0", Port: "8080"}.Addr())
}

func TestLoad_WithExplicitPath_OK(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "config.yaml", sampleYAML)

	cfg, err := Load(cfgPath)
	require.NoError(t, err)

	require.Equal(t, "prod", cfg.Env)
	require.Equal(t, "https://reddit.example.com/api", cfg.API.BaseURL)
	require.Equal(t, 3*time.Second, cfg.API.Timeout)
	require.Equal(t, 5.0, cfg.API.RateLimit)
	require.Equal(t, 2, cfg.API.Burst)
	require.Equal(t, "burrow-test", cfg.API.UserAgent)
	require.Equal(t, "0.0.0.0:9000", cfg.HTTP.Addr())
	require.Equal(t, "/ui", cfg.HTTP.BasePath)
	require.Equal(t, "bolt://graph:7687", cfg.Neo4j.URI)
	require.Equal(t, "topics", cfg.Neo4j.Database)
	require.Equal(t, 50, cfg.Neo4j.Limit)
	require.Equal(t, StoreRedis, cfg.Session.Store)
	require.Equal(t, "redis://cache:6379/1", cfg.Session.RedisURL)
	require.Equal(t, "alice", cfg.Session.Key)
	require.Equal(t, 4*time.Second, cfg.Timeouts.Service)
}

// Дефолты: адрес бэкенда, file-хранилище с путём в домашнем каталоге.
func TestLoad_Defaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfgPath := writeFile(t, t.TempDir(), "min.yaml", minimalYAML)

	cfg, err := Load(cfgPath)
	require.NoError(t, err)

	require.Equal(t, "stage", cfg.Env)
	require.Equal(t, "http://localhost:5000/api", cfg.API.BaseURL)
	require.Equal(t, 10*time.Second, cfg.API.Timeout)
	require.Zero(t, cfg.API.RateLimit)
	require.Equal(t, "127.0.0.1:8088", cfg.HTTP.Addr())
	require.Equal(t, "bolt://localhost:7687", cfg.Neo4j.URI)
	require.Equal(t, "neo4j", cfg.Neo4j.User)
	require.Equal(t, 150, cfg.Neo4j.Limit)
	require.Equal(t, StoreFile, cfg.Session.Store)
	require.Equal(t, filepath.Join(home, ".burrow", "token"), cfg.Session.TokenPath)
	require.Equal(t, 15*time.Second, cfg.Timeouts.Service)
}

func TestLoad_WithExplicitPath_BrokenYAML(t *testing.T) {
	cfgPath := writeFile(t, t.TempDir(), "broken.yaml", brokenYAML)

	_, err := Load(cfgPath)
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to read config")
}

func TestLoad_WithCONFIG_PATH_OK(t *testing.T) {
	cfgPath := writeFile(t, t.TempDir(), "from_env_path.yaml", minimalYAML)
	t.Setenv("CONFIG_PATH", cfgPath)

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "stage", cfg.Env)
}

func TestLoad_WithLocalYAML_OK(t *testing.T) {
	chdir(t, t.TempDir())
	writeFile(t, ".", "local.yaml", sampleYAML)
	t.Setenv("CONFIG_PATH", "")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "prod", cfg.Env)
	require.Equal(t, "9000", cfg.HTTP.Port)
}

// Явный путь важнее CONFIG_PATH и local.yaml.
func TestLoad_Priority_ExplicitWinsOverEnvAndLocal(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	explicit := writeFile(t, dir, "explicit.yaml", `
env: "prod"
api: { base_url: "http://explicit:1/api" }
`)
	t.Setenv("CONFIG_PATH", writeFile(t, dir, "bad.yaml", brokenYAML))
	writeFile(t, ".", "local.yaml", `env: "local"`)

	cfg, err := Load(explicit)
	require.NoError(t, err)
	require.Equal(t, "prod", cfg.Env)
	require.Equal(t, "http://explicit:1/api", cfg.API.BaseURL)
}

// CONFIG_PATH важнее local.yaml.
func TestLoad_Priority_EnvPathWinsOverLocal(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	writeFile(t, ".", "local.yaml", `env: "local"`)
	t.Setenv("CONFIG_PATH", writeFile(t, dir, "from_env.yaml", minimalYAML))

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "stage", cfg.Env)
}

func TestLoad_EnvOverlay_OverridesValuesFromFile(t *testing.T) {
	cfgPath := writeFile(t, t.TempDir(), "config.yaml", sampleYAML)

	t.Setenv("API_BASE_URL", "http://override:5000/api")
	t.Setenv("HTTP_PORT", "18080")
	t.Setenv("NEO4J_LIMIT", "10")
	t.Setenv("SERVICE", "5s")

	cfg, err := Load(cfgPath)
	require.NoError(t, err)

	require.Equal(t, "http://override:5000/api", cfg.API.BaseURL)
	require.Equal(t, "18080", cfg.HTTP.Port)
	require.Equal(t, 10, cfg.Neo4j.Limit)
	require.Equal(t, 5*time.Second, cfg.Timeouts.Service)
}

// «Только ENV» без файлов.
func TestLoad_EnvOnly_OK(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("ENV", "dev")
	t.Setenv("API_BASE_URL", "https://api.example.com")
	t.Setenv("SESSION_STORE", "file")
	t.Setenv("SESSION_TOKEN_PATH", "/tmp/burrow-token")
	t.Setenv("NEO4J_URI", "")

	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, "dev", cfg.Env)
	require.Equal(t, "https://api.example.com", cfg.API.BaseURL)
	require.Equal(t, "/tmp/burrow-token", cfg.Session.TokenPath)
	require.False(t, cfg.Neo4j.Enabled())
}

func TestLoad_Validate(t *testing.T) {
	cases := []struct {
		name string
		yaml string
		want string
	}{
		{"relative base url", `api: { base_url: "localhost:5000" }`, "api.base_url"},
		{"negative rate", `api: { rate_limit: -1 }`, "api.rate_limit"},
		{"unknown store", `session: { store: "etcd" }`, "session.store"},
		{"bad base path", `http: { base_path: "ui" }`, "http.base_path"},
		{"zero neo4j limit", `neo4j: { limit: -5 }`, "neo4j.limit"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("SESSION_TOKEN_PATH", "/tmp/burrow-token")
			cfgPath := writeFile(t, t.TempDir(), "c.yaml", tc.yaml)

			_, err := Load(cfgPath)
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestMustLoad_PanicsOnError(t *testing.T) {
	require.Panics(t, func() {
		_ = MustLoad(filepath.Join(t.TempDir(), "nope.yaml"))
	})
}
