package cli

import (
	"io"
	"log/slog"

	"github.com/minwook-byun/recpool/internal/config"
	"github.com/minwook-byun/recpool/internal/intake"
	"github.com/minwook-byun/recpool/internal/registry"
	"github.com/minwook-byun/recpool/internal/store"
)

// app is the wired service a command works against.
type app struct {
	cfg    *config.Registry
	reg    *registry.Registry
	store  *store.Store
	svc    *intake.Service
	logger *slog.Logger
}

// newLogger returns a text logger on w that keeps records at or above
// level, or everything in verbose mode.
func newLogger(w io.Writer, verbose bool, level slog.Level) *slog.Logger {
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// loadRegistry reads the configured registry file and indexes its cycles.
func loadRegistry(opts *RootOptions, logger *slog.Logger) (*config.Registry, *registry.Registry, error) {
	cfg, err := config.Load(opts.Registry)
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, "failed to load registry", err)
	}

	reg, err := registry.FromConfig(cfg, registry.WithLogger(logger))
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, "failed to index registry", err)
	}
	return cfg, reg, nil
}

// openApp loads the registry, opens the database and builds the service.
// One-shot commands log warnings only; serve passes slog.LevelInfo.
// The caller must Close the returned app.
func openApp(opts *RootOptions, logw io.Writer, level slog.Level) (*app, error) {
	logger := newLogger(logw, opts.Verbose, level)

	cfg, reg, err := loadRegistry(opts, logger)
	if err != nil {
		return nil, err
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	logger.Debug("database opened", "path", opts.Database, "cycles", reg.Cycles(), "historical", reg.Len())

	svc := intake.New(st, reg,
		intake.WithConfig(cfg),
		intake.WithLogger(logger),
	)

	return &app{
		cfg:    cfg,
		reg:    reg,
		store:  st,
		svc:    svc,
		logger: logger,
	}, nil
}

func (a *app) Close() error {
	return a.store.Close()
}
