package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, "https://api.themoviedb.org/3", cfg.TMDB.BaseURL)
	assert.Equal(t, "https://rickandmortyapi.com/api", cfg.RickMorty.BaseURL)
	assert.Equal(t, 350*time.Millisecond, cfg.List.Debounce)
	assert.Equal(t, time.Duration(0), cfg.HTTP.Timeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Empty(t, cfg.Redis.Addr)

	assert.Error(t, cfg.RequireTMDB())
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
tmdb:
  api_key: file-key
http:
  timeout: 5s
  requests_per_second: 2
list:
  debounce: 200ms
redis:
  addr: localhost:6379
  db: 3
`)

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, "file-key", cfg.TMDB.APIKey)
	assert.Equal(t, 5*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, 2.0, cfg.HTTP.RequestsPerSecond)
	assert.Equal(t, 200*time.Millisecond, cfg.List.Debounce)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.NoError(t, cfg.RequireTMDB())

	tm := cfg.TMDBConfiguration()
	assert.Equal(t, "file-key", tm.APIKey)
	assert.Equal(t, "https://image.tmdb.org/t/p", tm.ImageBaseURL)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "tmdb:\n  api_key: file-key\n")
	t.Setenv("MORTYVERSE_TMDB_API_KEY", "env-key")
	t.Setenv("MORTYVERSE_LIST_DEBOUNCE", "1s")

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, "env-key", cfg.TMDB.APIKey)
	assert.Equal(t, time.Second, cfg.List.Debounce)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"negative debounce", "list:\n  debounce: -1s\n", "list.debounce must be >= 0"},
		{"negative pace", "http:\n  requests_per_second: -3\n", "http.requests_per_second must be >= 0"},
		{"empty user agent", "http:\n  user_agent: \"\"\n", "http.user_agent is required"},
		{"broken yaml", "tmdb: [\n", "error reading config file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(viper.New(), writeConfig(t, tt.body))
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(viper.New(), filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorContains(t, err, "error reading config file")
}
