package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-assistant/internal/clock"
	"github.com/jonathan/resume-assistant/internal/config"
	"github.com/jonathan/resume-assistant/internal/llm"
	"github.com/jonathan/resume-assistant/internal/logging"
	"github.com/jonathan/resume-assistant/internal/store"
	"github.com/jonathan/resume-assistant/internal/types"
	"github.com/jonathan/resume-assistant/internal/workspace"
)

// errNoGenerator is returned by commands that need the generator when no API
// key is configured.
var errNoGenerator = errors.New("GEMINI_API_KEY environment variable or --api-key is required")

// newGenerator builds the content generator. Tests replace it.
var newGenerator = func(ctx context.Context, cfg config.Config) (llm.Generator, func() error, error) {
	if cfg.APIKey == "" {
		return nil, nil, errNoGenerator
	}
	llmCfg := llm.DefaultConfig()
	if cfg.Model != "" {
		llmCfg = llmCfg.WithSingleModel(cfg.Model)
	}
	gen, err := llm.NewGeminiGenerator(ctx, llmCfg, cfg.APIKey)
	if err != nil {
		return nil, nil, err
	}
	return gen, gen.Close, nil
}

// app is one opened session with everything it owns.
type app struct {
	cfg     config.Config
	logger  logging.Logger
	store   store.Closer
	session *workspace.Session
	closers []func() error
}

// loadConfig resolves the configuration: file, then environment, then flags,
// then defaults.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	var cfg config.Config
	if rootConfigPath != "" {
		loaded, err := config.LoadConfig(rootConfigPath)
		if err != nil {
			return config.Config{}, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loaded
	}

	cfg.ApplyEnv(os.LookupEnv)

	flags := cmd.Flags()
	if flags.Changed("store") {
		cfg.Store = rootStore
	}
	if flags.Changed("sqlite-path") {
		cfg.SQLitePath = rootSQLitePath
	}
	if flags.Changed("db-url") {
		cfg.DatabaseURL = rootDatabaseURL
	}
	if flags.Changed("namespace") {
		cfg.Namespace = rootNamespace
	}
	if flags.Changed("api-key") {
		cfg.APIKey = rootAPIKey
	}
	if flags.Changed("model") {
		cfg.Model = rootModel
	}
	if flags.Changed("language") {
		cfg.Language = rootLanguage
	}
	if flags.Changed("verbose") {
		cfg.Verbose = rootVerbose
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = rootLogFormat
	}

	cfg = cfg.MergeWithDefaults(config.Defaults())
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// openApp opens the store and the session. With needGenerator unset a
// missing API key is tolerated and generation fails with errNoGenerator.
func openApp(cmd *cobra.Command, needGenerator bool) (*app, error) {
	ctx := cmd.Context()
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	logger := logging.New(cmd.ErrOrStderr(), cfg.LogFormat, cfg.Verbose)
	a := &app{cfg: cfg, logger: logger}

	gen, closeGen, err := newGenerator(ctx, cfg)
	switch {
	case err == nil:
		if closeGen != nil {
			a.closers = append(a.closers, closeGen)
		}
	case errors.Is(err, errNoGenerator) && !needGenerator:
		gen = llm.GeneratorFunc(func(context.Context, llm.GenerateRequest) (*types.GeneratedContent, error) {
			return nil, errNoGenerator
		})
	default:
		return nil, fmt.Errorf("failed to create generator: %w", err)
	}

	st, err := store.Open(ctx, cfg.StoreOptions())
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	a.store = st
	a.closers = append(a.closers, st.Close)

	sess, err := workspace.Open(ctx, workspace.Config{
		Store:             st,
		Namespace:         cfg.Namespace,
		Generator:         gen,
		Clock:             clock.RealClock{},
		IDs:               clock.UUIDGenerator{},
		Logger:            logger,
		TrashTTL:          time.Duration(cfg.TrashTTL),
		GenerationTimeout: time.Duration(cfg.GenerationTimeout),
		DisableAutosave:   !cfg.AutosaveEnabled(),
		Language:          cfg.OutputLanguage(),
	})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to open session: %w", err)
	}
	a.session = sess
	if n := sess.PurgedOnOpen(); n > 0 {
		logger.Info(ctx, "purged expired trash", "count", n)
	}
	return a, nil
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn(context.Background(), "close failed", "error", err)
		}
	}
	a.closers = nil
}

// withApp opens a session, runs fn and closes the session.
func withApp(needGenerator bool, fn func(cmd *cobra.Command, args []string, a *app) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd, needGenerator)
		if err != nil {
			return err
		}
		defer a.Close()
		return fn(cmd, args, a)
	}
}
