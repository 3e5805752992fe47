package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv(ConfigPathEnvVar, "")
	for key := range envMappings {
		name := envPrefix + strings.ToUpper(key)
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "flixvec.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(Options{})
	require.NoError(t, err)

	assert.Equal(t, "movies.json", cfg.Data.Path)
	assert.Equal(t, 20, cfg.Recommend.DefaultN)
	assert.Equal(t, 100, cfg.Recommend.MaxN)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, time.Minute, cfg.Server.RateLimitWindow)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)

	path := writeConfig(t, `
data:
  path: /srv/movies.parquet
  metadata_path: /srv/imdb_top_1000.csv
recommend:
  default_n: 10
server:
  port: 9000
  read_timeout: 5s
logging:
  format: console
`)

	cfg, err := Load(Options{Path: path})
	require.NoError(t, err)

	assert.Equal(t, "/srv/movies.parquet", cfg.Data.Path)
	assert.Equal(t, "/srv/imdb_top_1000.csv", cfg.Data.MetadataPath)
	assert.Equal(t, 10, cfg.Recommend.DefaultN)
	assert.Equal(t, 100, cfg.Recommend.MaxN, "unset keys keep defaults")
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestConfigPathEnvVar(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "server:\n  port: 7000\n")
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := Load(Options{})
	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.Server.Port)
}

func TestEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "server:\n  port: 9000\ndata:\n  path: file.json\n")

	t.Setenv("FLIXVEC_HTTP_PORT", "9100")
	t.Setenv("FLIXVEC_DATA_PATH", "env.jsonl")
	t.Setenv("FLIXVEC_RATE_LIMIT_WINDOW", "30s")
	t.Setenv("FLIXVEC_DISABLE_RATE_LIMIT", "true")
	t.Setenv("FLIXVEC_UNRELATED", "ignored")

	cfg, err := Load(Options{Path: path})
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, "env.jsonl", cfg.Data.Path)
	assert.Equal(t, 30*time.Second, cfg.Server.RateLimitWindow)
	assert.True(t, cfg.Server.RateLimitDisabled)
}

func TestOverridesWin(t *testing.T) {
	clearEnv(t)
	t.Setenv("FLIXVEC_LOG_LEVEL", "warn")

	cfg, err := Load(Options{Overrides: map[string]any{
		"logging.level": "debug",
		"data.path":     "cli.csv",
		"data.format":   "csv",
	}})
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "cli.csv", cfg.Data.Path)
	assert.Equal(t, "csv", cfg.Data.Format)
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name      string
		overrides map[string]any
		contains  string
	}{
		{"empty path", map[string]any{"data.path": ""}, "Data.Path is required"},
		{"bad format", map[string]any{"data.format": "pickle"}, "Data.Format must be one of"},
		{"bad port", map[string]any{"server.port": 70000}, "Server.Port must be at most 65535"},
		{"default above max", map[string]any{"recommend.default_n": 200}, "Recommend.DefaultN must not exceed MaxN"},
		{"zero max", map[string]any{"recommend.max_n": 0, "recommend.default_n": 0}, "Recommend.MaxN must be at least 1"},
		{"bad log format", map[string]any{"logging.format": "xml"}, "Logging.Format must be one of"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			_, err := Load(Options{Overrides: tt.overrides})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestMissingExplicitFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(Options{Path: filepath.Join(t.TempDir(), "nope.yaml")})
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestInvalidYAML(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "server: [unclosed\n")
	_, err := Load(Options{Path: path})
	require.Error(t, err)
}

func TestClampN(t *testing.T) {
	r := RecommendConfig{DefaultN: 20, MaxN: 100}

	assert.Equal(t, 20, r.ClampN(-1))
	assert.Equal(t, 0, r.ClampN(0))
	assert.Equal(t, 5, r.ClampN(5))
	assert.Equal(t, 100, r.ClampN(100))
	assert.Equal(t, 100, r.ClampN(1000))
}

func TestEnvTransformFunc(t *testing.T) {
	assert.Equal(t, "server.port", envTransformFunc("FLIXVEC_HTTP_PORT"))
	assert.Equal(t, "data.metadata_path", envTransformFunc("FLIXVEC_METADATA_PATH"))
	assert.Equal(t, "", envTransformFunc("FLIXVEC_SOMETHING_ELSE"))
}
