package cmd

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/coursefit/internal/app"
	"github.com/abhisek/coursefit/internal/blog"
	"github.com/abhisek/coursefit/internal/catalog"
	"github.com/abhisek/coursefit/internal/config"
	"github.com/abhisek/coursefit/internal/logger"
	"github.com/abhisek/coursefit/internal/store"
)

const dialTimeout = 5 * time.Second

// runtime holds everything a command needs, built from the resolved
// configuration. Close releases it in reverse order of acquisition.
type runtime struct {
	cfg      *config.Config
	log      *logger.Logger
	cat      *catalog.Catalog
	store    *store.Store
	kv       store.KV
	recorder *store.Recorder
	closers  []func() error
}

type runtimeOptions struct {
	// logToFile sends logs to a file while the TUI owns the terminal.
	logToFile bool

	// withStore opens the database and the results slot.
	withStore bool
}

func loadRuntime(cmd *cobra.Command, opts runtimeOptions) (*runtime, error) {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(config.Options{File: configPath, Flags: cmd.Flags()})
	if err != nil {
		return nil, err
	}

	logOpts := logger.Options{Mode: cfg.Log.Mode, Level: cfg.Log.Level, File: cfg.Log.File}
	if opts.logToFile && logOpts.File == "" {
		dir, err := store.DataDir()
		if err != nil {
			return nil, err
		}
		logOpts.File = filepath.Join(dir, "coursefit.log")
		if err := store.EnsureDir(logOpts.File); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
	}
	log, err := logger.New(logOpts)
	if err != nil {
		return nil, err
	}

	rt := &runtime{cfg: cfg, log: log}
	rt.closers = append(rt.closers, func() error { log.Sync(); return nil })

	rt.cat, err = catalog.Load(cfg.Catalog)
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	if opts.withStore {
		if err := rt.openStore(cmd.Context()); err != nil {
			rt.Close()
			return nil, err
		}
	}
	return rt, nil
}

func (rt *runtime) openStore(ctx context.Context) error {
	dbPath := rt.cfg.DB
	if dbPath == "" {
		p, err := store.DefaultDBPath()
		if err != nil {
			return fmt.Errorf("resolve DB path: %w", err)
		}
		dbPath = p
	} else if err := store.EnsureDir(dbPath); err != nil {
		return fmt.Errorf("resolve DB path: %w", err)
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	rt.store = st
	rt.closers = append(rt.closers, st.Close)
	rt.kv = st.KV()

	if rt.cfg.Storage.Backend == config.BackendRedis {
		r := rt.cfg.Storage.Redis
		if ctx == nil {
			ctx = context.Background()
		}
		dialCtx, cancel := context.WithTimeout(ctx, dialTimeout)
		defer cancel()
		kv, err := store.DialRedis(dialCtx, r.Addr, r.Password, r.DB, r.Prefix)
		if err != nil {
			return err
		}
		rt.kv = kv
		rt.closers = append(rt.closers, kv.Close)
	}

	rt.recorder = store.NewRecorder(rt.kv, st.ResultRepo(), rt.cfg.Storage.HistoryKeep, rt.log)
	rt.log.Debug("store opened", "db", dbPath, "backend", rt.cfg.Storage.Backend)
	return nil
}

// blogClient returns nil when no blog endpoint is configured.
func (rt *runtime) blogClient() (*blog.Client, error) {
	b := rt.cfg.Blog
	c, err := blog.New(blog.Config{
		BaseURL:   b.BaseURL,
		Timeout:   b.Timeout,
		CacheSize: b.CacheSize,
		CacheTTL:  b.CacheTTL,
		Retry:     blog.RetryConfig{MaxAttempts: b.MaxRetries + 1},
	}, blog.WithLogger(rt.log))
	if errors.Is(err, blog.ErrNotConfigured) {
		return nil, nil
	}
	return c, err
}

func (rt *runtime) Close() {
	for i := len(rt.closers) - 1; i >= 0; i-- {
		_ = rt.closers[i]()
	}
	rt.closers = nil
}

// runApp builds dependencies and launches the TUI.
func runApp(cmd *cobra.Command) error {
	rt, err := loadRuntime(cmd, runtimeOptions{logToFile: true, withStore: true})
	if err != nil {
		return err
	}
	defer rt.Close()

	bc, err := rt.blogClient()
	if err != nil {
		rt.log.Warn("blog disabled", "error", err)
	}

	noSplash, _ := cmd.Flags().GetBool("no-splash")
	return app.Run(app.Options{
		Catalog:  rt.cat,
		Recorder: rt.recorder,
		Blog:     bc,
		Logger:   rt.log,
	}, noSplash)
}
