package config

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyAgainstEmbeddedSchema(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(c *Config)
		wantErr bool
		errMsg  string
	}{
		{name: "valid config", modify: func(c *Config) {}},
		{name: "missing server listen", modify: func(c *Config) { c.Server.Listen = "" }, wantErr: true, errMsg: "server.listen is required"},
		{name: "missing server timeout", modify: func(c *Config) { c.Server.Timeout = 0 }, wantErr: true, errMsg: "server.timeout is required"},
		{name: "missing store dsn", modify: func(c *Config) { c.Store.DSN = "" }, wantErr: true, errMsg: "store.dsn is required"},
		{name: "missing container", modify: func(c *Config) { c.Store.Container = "" }, wantErr: true, errMsg: "store.container is required"},
		{name: "missing dataset url", modify: func(c *Config) { c.Dataset.URL = "" }, wantErr: true, errMsg: "dataset.url is required"},
		{name: "missing model", modify: func(c *Config) { c.LLM.Model = "" }, wantErr: true, errMsg: "llm.model is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			cfg.SetDefaults()
			tt.modify(cfg)

			err := VerifyAgainstEmbeddedSchema(cfg)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestEmbeddedSchemaMatchesConfig(t *testing.T) {
	var schema map[string]any
	require.NoError(t, json.Unmarshal([]byte(embeddedSchema), &schema))

	defs, ok := schema["$defs"].(map[string]any)
	require.True(t, ok, "schema must have $defs")
	for _, name := range []string{"Config", "StoreConfig", "DatasetConfig", "LLMConfig"} {
		assert.Contains(t, defs, name)
	}
}

func TestGenerateSchema(t *testing.T) {
	schema, err := GenerateSchema()
	require.NoError(t, err)
	require.NotNil(t, schema)

	data, err := json.Marshal(schema)
	require.NoError(t, err)
	assert.Contains(t, string(data), "tags_max_words")
	assert.Contains(t, string(data), "container")
}
