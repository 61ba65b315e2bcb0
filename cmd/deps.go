package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jkruckivey/adaptive-latin-sub000/internal/config"
	"github.com/jkruckivey/adaptive-latin-sub000/internal/logging"
	"github.com/jkruckivey/adaptive-latin-sub000/internal/materials"
	"github.com/jkruckivey/adaptive-latin-sub000/internal/store"
	"github.com/jkruckivey/adaptive-latin-sub000/internal/telemetry"
	"github.com/jkruckivey/adaptive-latin-sub000/internal/tutorapi"
)

// deps holds everything a command needs from configuration down to the
// service client.
type deps struct {
	cfg      *config.Config
	logger   *slog.Logger
	store    *store.Store
	service  tutorapi.Service
	registry *materials.Registry

	closers []func()
}

// depsOptions selects how much of the stack a command needs.
type depsOptions struct {
	// logFile sends logs to the log file instead of stderr.
	logFile bool
	// service builds the tutoring service client and tracing.
	service bool
}

// loadDeps builds the dependency chain: config, logger, tracing, store,
// service client and materials registry.
func loadDeps(cmd *cobra.Command, opts depsOptions) (*deps, error) {
	ctx := cmd.Context()
	d := &deps{}

	cfgPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.NewLoader(logging.New(io.Discard, "error")).Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	d.cfg = cfg

	d.logger = logging.New(os.Stderr, cfg.Log.Level)
	if opts.logFile {
		logPath, err := resolveLogPath(cfg.Log.File)
		if err != nil {
			return nil, err
		}
		logger, closer, err := logging.OpenFile(logPath, cfg.Log.Level)
		if err != nil {
			return nil, err
		}
		d.logger = logger
		d.closers = append(d.closers, func() { closer.Close() })
	}

	dbPath, err := resolveDBPath(cmd, cfg.Storage.DBPath)
	if err != nil {
		d.Close()
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		d.Close()
		return nil, fmt.Errorf("open store: %w", err)
	}
	d.store = st
	d.closers = append(d.closers, func() { st.Close() })

	var manifest *materials.Manifest
	if cfg.Materials.Manifest != "" {
		manifest, err = materials.LoadManifest(cfg.Materials.Manifest)
		if err != nil {
			d.Close()
			return nil, fmt.Errorf("load materials manifest: %w", err)
		}
	}
	d.registry = materials.NewRegistry(manifest, st.CompletionRepo(), d.logger)

	if opts.service {
		shutdown, err := telemetry.Setup(ctx, "latintutor", buildVersion(), cfg.Telemetry.Endpoint, cfg.Telemetry.Enabled)
		if err != nil {
			d.logger.Warn("tracing disabled", "err", err)
		}
		d.closers = append(d.closers, func() {
			if err := shutdown(context.Background()); err != nil {
				d.logger.Warn("flush traces", "err", err)
			}
		})

		svc := tutorapi.Service(tutorapi.NewClient(cfg.Service.BaseURL, cfg.Service.Timeout))
		svc = tutorapi.WithRetry(svc, tutorapi.RetryConfig{
			MaxAttempts: cfg.Service.Retry.MaxAttempts,
			InitialWait: cfg.Service.Retry.InitialWait,
			MaxWait:     cfg.Service.Retry.MaxWait,
			Multiplier:  cfg.Service.Retry.Multiplier,
		})
		d.service = tutorapi.WithLogging(svc, st.EventRepo(), d.logger)
	}

	return d, nil
}

// Close releases resources in reverse order of acquisition.
func (d *deps) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		d.closers[i]()
	}
	d.closers = nil
}

func resolveLogPath(configured string) (string, error) {
	if configured != "" {
		return configured, store.EnsureDir(configured)
	}
	dir, err := store.DataDir()
	if err != nil {
		return "", fmt.Errorf("resolve log path: %w", err)
	}
	p := filepath.Join(dir, "latintutor.log")
	return p, store.EnsureDir(p)
}

// lastLearner returns the snapshot of the most recently active learner, or
// nil when there is none.
func (d *deps) lastLearner(ctx context.Context) (*store.SessionSnapshot, error) {
	repo := d.store.SessionRepo()
	id, err := repo.LastLearner(ctx)
	if err != nil {
		return nil, fmt.Errorf("find last learner: %w", err)
	}
	if id == "" {
		return nil, nil
	}
	return repo.Load(ctx, id)
}
