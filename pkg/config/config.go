package config

import (
	"fmt"
	"net/url"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

//go:generate go run ../../cmd/schema/main.go schema.json

// DefaultDatasetURL is the first page of the multi_news train split served by the datasets server
const DefaultDatasetURL = "https://datasets-server.huggingface.co/first-rows?dataset=multi_news&config=default&split=train"

var containerNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Config holds the application configuration
type Config struct {
	Server struct {
		Listen      string        `yaml:"listen" json:"listen" jsonschema:"default=:8080,description=HTTP server listen address"`
		Timeout     time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=60s,description=HTTP server timeout"`
		CORSOrigins []string      `yaml:"cors_origins" json:"cors_origins" jsonschema:"description=Origins allowed to call the API from a browser"`
	} `yaml:"server" json:"server" jsonschema:"description=Server configuration"`

	Store StoreConfig `yaml:"store" json:"store" jsonschema:"description=Collection store configuration"`

	Dataset DatasetConfig `yaml:"dataset" json:"dataset" jsonschema:"description=Dataset source configuration"`

	LLM LLMConfig `yaml:"llm" json:"llm" jsonschema:"description=LLM configuration for title and tag generation"`
}

// StoreConfig holds collection store settings
type StoreConfig struct {
	DSN             string `yaml:"dsn" json:"dsn" jsonschema:"default=file:newstag.db?cache=shared&mode=rwc,description=Database connection string"`
	Container       string `yaml:"container" json:"container" jsonschema:"default=MultiNews,description=Name of the news container"`
	MaxOpenConns    int    `yaml:"max_open_conns" json:"max_open_conns" jsonschema:"default=10,description=Maximum number of open connections"`
	MaxIdleConns    int    `yaml:"max_idle_conns" json:"max_idle_conns" jsonschema:"default=5,description=Maximum number of idle connections"`
	ConnMaxLifetime int    `yaml:"conn_max_lifetime" json:"conn_max_lifetime" jsonschema:"default=3600,description=Connection maximum lifetime in seconds"`
	ConnectAttempts int    `yaml:"connect_attempts" json:"connect_attempts" jsonschema:"default=5,minimum=1,description=Connection attempts at startup"`
}

// DatasetConfig holds dataset source settings
type DatasetConfig struct {
	URL       string        `yaml:"url" json:"url" jsonschema:"description=Dataset rows endpoint returning a rows array"`
	Timeout   time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=Dataset request timeout"`
	UserAgent string        `yaml:"user_agent" json:"user_agent" jsonschema:"default=Newstag/1.0,description=User agent for dataset requests"`
}

// LLMConfig holds settings for the text-generation service
type LLMConfig struct {
	Endpoint      string        `yaml:"endpoint" json:"endpoint" jsonschema:"description=OpenAI-compatible API endpoint (empty for api.openai.com)"`
	APIKey        string        `yaml:"api_key" json:"api_key" jsonschema:"description=API key (can use environment variable)"`
	Model         string        `yaml:"model" json:"model" jsonschema:"default=gpt-3.5-turbo,description=Model name"`
	MaxTokens     int           `yaml:"max_tokens" json:"max_tokens" jsonschema:"default=2000,description=Maximum tokens in response"`
	Timeout       time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=60s,description=Request timeout"`
	TitleMaxWords int           `yaml:"title_max_words" json:"title_max_words" jsonschema:"default=1000,minimum=1,description=Word budget of the text sent for title generation"`
	TagsMaxWords  int           `yaml:"tags_max_words" json:"tags_max_words" jsonschema:"default=1500,minimum=1,description=Word budget of the text sent for tag generation"`
	RateLimit     float64       `yaml:"rate_limit" json:"rate_limit" jsonschema:"default=0,minimum=0,description=Generation requests per second (0 for unlimited)"`
	Burst         int           `yaml:"burst" json:"burst" jsonschema:"default=2,description=Generation request burst size"`
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// expand environment variables
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.SetDefaults()

	// validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	// verify against embedded schema
	if err := VerifyAgainstEmbeddedSchema(&cfg); err != nil {
		// log warning but don't fail - schema validation is supplementary
		fmt.Printf("warning: schema validation failed: %v\n", err)
	}

	return &cfg, nil
}

// SetDefaults fills zero values with defaults
func (c *Config) SetDefaults() {
	// server
	if c.Server.Listen == "" {
		c.Server.Listen = ":8080"
	}
	if c.Server.Timeout == 0 {
		c.Server.Timeout = 60 * time.Second
	}

	// store
	if c.Store.DSN == "" {
		c.Store.DSN = "file:newstag.db?cache=shared&mode=rwc"
	}
	if c.Store.Container == "" {
		c.Store.Container = "MultiNews"
	}
	if c.Store.MaxOpenConns == 0 {
		c.Store.MaxOpenConns = 10
	}
	if c.Store.MaxIdleConns == 0 {
		c.Store.MaxIdleConns = 5
	}
	if c.Store.ConnMaxLifetime == 0 {
		c.Store.ConnMaxLifetime = 3600
	}
	if c.Store.ConnectAttempts == 0 {
		c.Store.ConnectAttempts = 5
	}

	// dataset
	if c.Dataset.URL == "" {
		c.Dataset.URL = DefaultDatasetURL
	}
	if c.Dataset.Timeout == 0 {
		c.Dataset.Timeout = 30 * time.Second
	}
	if c.Dataset.UserAgent == "" {
		c.Dataset.UserAgent = "Newstag/1.0"
	}

	// llm
	if c.LLM.Model == "" {
		c.LLM.Model = "gpt-3.5-turbo"
	}
	if c.LLM.MaxTokens == 0 {
		c.LLM.MaxTokens = 2000
	}
	if c.LLM.Timeout == 0 {
		c.LLM.Timeout = 60 * time.Second
	}
	if c.LLM.TitleMaxWords == 0 {
		c.LLM.TitleMaxWords = 1000
	}
	if c.LLM.TagsMaxWords == 0 {
		c.LLM.TagsMaxWords = 1500
	}
	if c.LLM.Burst == 0 {
		c.LLM.Burst = 2
	}
}

// validate checks configuration for correctness
func validate(cfg *Config) error {
	if cfg.Server.Timeout < time.Second {
		return fmt.Errorf("server timeout must be at least 1 second")
	}

	if !containerNameRe.MatchString(cfg.Store.Container) {
		return fmt.Errorf("store.container %q is not a valid container name", cfg.Store.Container)
	}
	if cfg.Store.ConnectAttempts < 1 {
		return fmt.Errorf("store.connect_attempts must be at least 1")
	}

	u, err := url.Parse(cfg.Dataset.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("dataset.url %q is not a valid url", cfg.Dataset.URL)
	}
	if cfg.Dataset.Timeout < time.Second {
		return fmt.Errorf("dataset timeout must be at least 1 second")
	}

	if cfg.LLM.TitleMaxWords < 1 || cfg.LLM.TagsMaxWords < 1 {
		return fmt.Errorf("llm word budgets must be at least 1")
	}
	if cfg.LLM.MaxTokens < 1 {
		return fmt.Errorf("llm.max_tokens must be at least 1")
	}
	if cfg.LLM.RateLimit < 0 {
		return fmt.Errorf("llm.rate_limit must be non-negative")
	}

	return nil
}

// GetServerConfig returns server configuration
func (c *Config) GetServerConfig() (listen string, timeout time.Duration) {
	return c.Server.Listen, c.Server.Timeout
}

// GetCORSOrigins returns origins allowed for cross-origin requests
func (c *Config) GetCORSOrigins() []string {
	return c.Server.CORSOrigins
}

// GetLLMConfig returns LLM configuration
func (c *Config) GetLLMConfig() LLMConfig {
	return c.LLM
}
