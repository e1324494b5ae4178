package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "test-config.yml")
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o600))
	return configPath
}

func TestLoad(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		configPath := writeConfig(t, `
server:
  listen: ":9090"
  timeout: 45s
  cors_origins:
    - http://localhost:5173

store:
  dsn: "file:/tmp/news.db?mode=rwc"
  container: News

dataset:
  url: https://example.com/rows
  timeout: 10s

llm:
  endpoint: http://localhost:11434/v1
  api_key: secret
  model: llama3
  max_tokens: 300
  title_max_words: 500
  tags_max_words: 700
  rate_limit: 2.5
`)
		cfg, err := Load(configPath)
		require.NoError(t, err)
		require.NotNil(t, cfg)

		assert.Equal(t, ":9090", cfg.Server.Listen)
		assert.Equal(t, 45*time.Second, cfg.Server.Timeout)
		assert.Equal(t, []string{"http://localhost:5173"}, cfg.Server.CORSOrigins)

		assert.Equal(t, "file:/tmp/news.db?mode=rwc", cfg.Store.DSN)
		assert.Equal(t, "News", cfg.Store.Container)

		assert.Equal(t, "https://example.com/rows", cfg.Dataset.URL)
		assert.Equal(t, 10*time.Second, cfg.Dataset.Timeout)

		assert.Equal(t, "http://localhost:11434/v1", cfg.LLM.Endpoint)
		assert.Equal(t, "secret", cfg.LLM.APIKey)
		assert.Equal(t, "llama3", cfg.LLM.Model)
		assert.Equal(t, 300, cfg.LLM.MaxTokens)
		assert.Equal(t, 500, cfg.LLM.TitleMaxWords)
		assert.Equal(t, 700, cfg.LLM.TagsMaxWords)
		assert.InDelta(t, 2.5, cfg.LLM.RateLimit, 0.0001)
	})

	t.Run("defaults", func(t *testing.T) {
		configPath := writeConfig(t, "llm:\n  api_key: key\n")

		cfg, err := Load(configPath)
		require.NoError(t, err)

		assert.Equal(t, ":8080", cfg.Server.Listen)
		assert.Equal(t, 60*time.Second, cfg.Server.Timeout)
		assert.Empty(t, cfg.Server.CORSOrigins)

		assert.Equal(t, "file:newstag.db?cache=shared&mode=rwc", cfg.Store.DSN)
		assert.Equal(t, "MultiNews", cfg.Store.Container)
		assert.Equal(t, 10, cfg.Store.MaxOpenConns)
		assert.Equal(t, 5, cfg.Store.MaxIdleConns)
		assert.Equal(t, 3600, cfg.Store.ConnMaxLifetime)
		assert.Equal(t, 5, cfg.Store.ConnectAttempts)

		assert.Equal(t, DefaultDatasetURL, cfg.Dataset.URL)
		assert.Equal(t, 30*time.Second, cfg.Dataset.Timeout)
		assert.Equal(t, "Newstag/1.0", cfg.Dataset.UserAgent)

		assert.Equal(t, "gpt-3.5-turbo", cfg.LLM.Model)
		assert.Equal(t, 2000, cfg.LLM.MaxTokens)
		assert.Equal(t, 60*time.Second, cfg.LLM.Timeout)
		assert.Equal(t, 1000, cfg.LLM.TitleMaxWords)
		assert.Equal(t, 1500, cfg.LLM.TagsMaxWords)
		assert.Equal(t, 2, cfg.LLM.Burst)
		assert.Zero(t, cfg.LLM.RateLimit)
	})

	t.Run("env expansion", func(t *testing.T) {
		t.Setenv("NEWSTAG_TEST_KEY", "from-env")
		configPath := writeConfig(t, "llm:\n  api_key: ${NEWSTAG_TEST_KEY}\n")

		cfg, err := Load(configPath)
		require.NoError(t, err)
		assert.Equal(t, "from-env", cfg.LLM.APIKey)
	})

	t.Run("file not found", func(t *testing.T) {
		cfg, err := Load("/non/existent/file.yml")
		require.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "read config file")
	})

	t.Run("invalid yaml", func(t *testing.T) {
		configPath := writeConfig(t, `
invalid yaml content
  with bad indentation
    and no structure
`)
		cfg, err := Load(configPath)
		require.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "parse config")
	})

	t.Run("invalid container name", func(t *testing.T) {
		configPath := writeConfig(t, "store:\n  container: \"news; DROP TABLE x\"\n")
		cfg, err := Load(configPath)
		require.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "not a valid container name")
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Config)
		errMsg string
	}{
		{name: "defaults are valid", modify: func(c *Config) {}},
		{name: "short server timeout", modify: func(c *Config) { c.Server.Timeout = time.Millisecond }, errMsg: "server timeout"},
		{name: "bad dataset url", modify: func(c *Config) { c.Dataset.URL = "not a url" }, errMsg: "dataset.url"},
		{name: "short dataset timeout", modify: func(c *Config) { c.Dataset.Timeout = time.Millisecond }, errMsg: "dataset timeout"},
		{name: "zero word budget", modify: func(c *Config) { c.LLM.TitleMaxWords = -1 }, errMsg: "word budgets"},
		{name: "negative rate limit", modify: func(c *Config) { c.LLM.RateLimit = -1 }, errMsg: "rate_limit"},
		{name: "negative max tokens", modify: func(c *Config) { c.LLM.MaxTokens = -5 }, errMsg: "max_tokens"},
		{name: "zero connect attempts", modify: func(c *Config) { c.Store.ConnectAttempts = -1 }, errMsg: "connect_attempts"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			cfg.SetDefaults()
			tt.modify(cfg)
			err := validate(cfg)
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestConfig_Getters(t *testing.T) {
	cfg := &Config{}
	cfg.SetDefaults()
	cfg.Server.Listen = ":9999"
	cfg.Server.CORSOrigins = []string{"http://a.example.com"}
	cfg.LLM.Model = "gpt-4o-mini"

	listen, timeout := cfg.GetServerConfig()
	assert.Equal(t, ":9999", listen)
	assert.Equal(t, 60*time.Second, timeout)
	assert.Equal(t, []string{"http://a.example.com"}, cfg.GetCORSOrigins())
	assert.Equal(t, "gpt-4o-mini", cfg.GetLLMConfig().Model)
}
