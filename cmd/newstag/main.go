package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"

	"github.com/umputun/newstag/pkg/config"
	"github.com/umputun/newstag/pkg/dataset"
	"github.com/umputun/newstag/pkg/ingest"
	"github.com/umputun/newstag/pkg/llm"
	"github.com/umputun/newstag/pkg/store"
	"github.com/umputun/newstag/server"
)

// Opts with all CLI options
type Opts struct {
	Config string `short:"c" long:"config" env:"CONFIG" default:"newstag.yml" description:"configuration file"`
	Listen string `short:"l" long:"listen" env:"LISTEN" description:"listen address, overrides server.listen"`
	APIKey string `long:"api-key" env:"OPENAI_API_KEY" description:"generation service api key, overrides llm.api_key"`
	Drop   bool   `long:"drop" description:"drop the news container and exit"`

	// common options
	Debug   bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	Version bool `short:"V" long:"version" description:"show version info"`
	NoColor bool `long:"no-color" env:"NO_COLOR" description:"disable color output"`
}

var revision = "unknown"

func main() {
	var opts Opts
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if opts.Version {
		fmt.Printf("Version: %s\nGolang: %s\n", revision, runtime.Version())
		os.Exit(0)
	}

	if opts.NoColor {
		color.NoColor = true
	}
	setupLog(opts.Debug, opts.APIKey)
	lgr.Printf("[INFO] starting newstag version %s", revision)

	ctx, cancel := context.WithCancel(context.Background())

	// handle termination signals
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		lgr.Print("[INFO] termination signal received")
		cancel()
	}()

	err := run(ctx, opts)
	cancel()
	if err != nil {
		lgr.Printf("[ERROR] %v", err)
		os.Exit(1)
	}

	lgr.Print("[INFO] shutdown complete")
}

// run loads configuration, connects the store and serves http until ctx is canceled
func run(ctx context.Context, opts Opts) error {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if opts.Listen != "" {
		cfg.Server.Listen = opts.Listen
	}
	if opts.APIKey != "" {
		cfg.LLM.APIKey = opts.APIKey
	}
	if cfg.LLM.APIKey != "" {
		setupLog(opts.Debug, cfg.LLM.APIKey)
	}

	st, err := store.Open(ctx, store.Config{
		DSN:             cfg.Store.DSN,
		MaxOpenConns:    cfg.Store.MaxOpenConns,
		MaxIdleConns:    cfg.Store.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Store.ConnMaxLifetime) * time.Second,
		ConnectAttempts: cfg.Store.ConnectAttempts,
	})
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			lgr.Printf("[WARN] failed to close store: %v", err)
		}
	}()

	if opts.Drop {
		if err := st.DropContainer(ctx, cfg.Store.Container); err != nil {
			return fmt.Errorf("failed to drop container: %w", err)
		}
		return nil
	}

	container, err := st.EnsureContainer(ctx, store.NewsContainerInfo(cfg.Store.Container))
	if err != nil {
		return fmt.Errorf("failed to prepare container: %w", err)
	}
	logContainers(ctx, st)

	if cfg.LLM.APIKey == "" {
		lgr.Printf("[WARN] llm api key is not set, title and tags generation will degrade")
	}

	fetcher := dataset.NewHTTPFetcher(cfg.Dataset.URL, cfg.Dataset.Timeout, cfg.Dataset.UserAgent)
	coordinator := ingest.NewCoordinator(fetcher, container, nil)
	generator := llm.NewGenerator(cfg.GetLLMConfig())

	srv := server.New(cfg, server.Deps{Feed: coordinator, Articles: container, Tagger: generator}, revision, opts.Debug)
	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// logContainers reports every container in the store with its columns
func logContainers(ctx context.Context, st *store.Store) {
	infos, err := st.ContainersInfo(ctx)
	if err != nil {
		lgr.Printf("[WARN] failed to list containers: %v", err)
		return
	}
	for _, info := range infos {
		cols := make([]string, 0, len(info.Columns))
		for _, c := range info.Columns {
			cols = append(cols, fmt.Sprintf("%s %s", c.Name, c.Type))
		}
		lgr.Printf("[INFO] container %s, row key %t, columns: %s", info.Name, info.RowKey, strings.Join(cols, ", "))
	}
}

func setupLog(dbg bool, secs ...string) {
	logOpts := []lgr.Option{lgr.Msec, lgr.LevelBraces}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.CallerFile, lgr.CallerFunc, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	}

	colorizer := lgr.Mapper{
		ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
		WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
		InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
		DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
		CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
		TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
	}
	logOpts = append(logOpts, lgr.Map(colorizer))

	var secrets []string
	for _, s := range secs {
		if s != "" {
			secrets = append(secrets, s)
		}
	}
	if len(secrets) > 0 {
		logOpts = append(logOpts, lgr.Secret(secrets...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}

