package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/newstag/pkg/store"
)

func TestRun_MissingConfig(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	err := run(ctx, Opts{Config: "non-existent-config.yml"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config")
}

func TestRun_InvalidConfig(t *testing.T) {
	cfgFile := filepath.Join(t.TempDir(), "invalid.yml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("invalid: yaml: content: ["), 0o600))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	err := run(ctx, Opts{Config: cfgFile})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config")
}

func TestRun_Drop(t *testing.T) {
	dbDir := t.TempDir()
	t.Setenv("NEWSTAG_DB_DIR", dbDir)
	t.Setenv("NEWSTAG_DATASET_URL", "http://127.0.0.1:1/rows")
	t.Setenv("NEWSTAG_LLM_URL", "http://127.0.0.1:1/v1")

	// prepare a populated container
	ctx := context.Background()
	st, err := store.Open(ctx, store.Config{DSN: "file:" + filepath.Join(dbDir, "test.db") + "?mode=rwc", ConnectAttempts: 1})
	require.NoError(t, err)
	c, err := st.EnsureContainer(ctx, store.NewsContainerInfo("MultiNews"))
	require.NoError(t, err)
	require.NoError(t, c.Put(ctx, store.Row{ID: 1, News: "news"}))
	require.NoError(t, st.Close())

	require.NoError(t, run(ctx, Opts{Config: "testdata/test_config.yml", Drop: true}))

	st, err = store.Open(ctx, store.Config{DSN: "file:" + filepath.Join(dbDir, "test.db") + "?mode=rwc", ConnectAttempts: 1})
	require.NoError(t, err)
	defer st.Close()
	infos, err := st.ContainersInfo(ctx)
	require.NoError(t, err)
	assert.Empty(t, infos)
}

func TestRun_ServerStartStop(t *testing.T) {
	datasetSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"rows":[{"row_idx":0,"row":{"document":"only article in the batch"}}]}`))
	}))
	defer datasetSrv.Close()

	llmSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Content: "1. Solo"}}},
		})
	}))
	defer llmSrv.Close()

	t.Setenv("NEWSTAG_DB_DIR", t.TempDir())
	t.Setenv("NEWSTAG_DATASET_URL", datasetSrv.URL)
	t.Setenv("NEWSTAG_LLM_URL", llmSrv.URL+"/v1")

	// find free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- run(ctx, Opts{Config: "testdata/test_config.yml", Listen: addr}) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get(fmt.Sprintf("http://%s/ping", addr))
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		return resp.StatusCode == http.StatusOK && string(body) == "pong"
	}, 5*time.Second, 50*time.Millisecond)

	resp, err := http.Get(fmt.Sprintf("http://%s/multinews", addr))
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"id":1,"news":"only article in the batch"}`, string(body))

	resp, err = http.Get(fmt.Sprintf("http://%s/gentags/1", addr))
	require.NoError(t, err)
	body, err = io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"id":1,"title":"1. Solo","tags":["solo"]}`, string(body))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server shutdown timeout")
	}
}

func TestSetupLog(t *testing.T) {
	t.Run("debug mode enabled", func(t *testing.T) {
		setupLog(true)
	})

	t.Run("debug mode disabled", func(t *testing.T) {
		setupLog(false)
	})

	t.Run("with secrets", func(t *testing.T) {
		setupLog(true, "secret1", "", "secret2")
	})
}
