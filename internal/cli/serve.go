package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/minwook-byun/recpool/internal/server"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	Addr        string
	SubmitRate  float64 // submissions per second; 0 disables the limit
	SubmitBurst int
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the recommendation API over HTTP",
		Long: `Serve the recommendation API over HTTP until interrupted.

Routes:
  GET  /healthz
  GET  /api/v1/search?name=...
  POST /api/v1/recommendations
  GET  /api/v1/recommendations?limit=N
  GET  /api/v1/visits
  GET  /api/v1/pool

Environment: RECPOOL_ADDR, RECPOOL_SUBMIT_RATE, RECPOOL_SUBMIT_BURST.

Examples:
  recpool serve
  recpool serve --addr :9000 --db /var/lib/recpool/recpool.db
  recpool serve --registry ./registry.yaml --submit-rate 2 --submit-burst 10`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", ":8080", "listen address")
	cmd.Flags().Float64Var(&opts.SubmitRate, "submit-rate", 5, "accepted submissions per second (0 disables the limit)")
	cmd.Flags().IntVar(&opts.SubmitBurst, "submit-burst", 20, "submission burst size")

	return cmd
}

func runServe(cmd *cobra.Command, opts *ServeOptions) error {
	v := opts.env()
	for _, name := range []string{"addr", "submit-rate", "submit-burst"} {
		if err := v.BindPFlag(name, cmd.Flags().Lookup(name)); err != nil {
			return WrapExitError(ExitCommandError, "failed to bind flag "+name, err)
		}
	}
	opts.Addr = v.GetString("addr")
	opts.SubmitRate = v.GetFloat64("submit-rate")
	opts.SubmitBurst = v.GetInt("submit-burst")

	a, err := openApp(opts.RootOptions, cmd.ErrOrStderr(), slog.LevelInfo)
	if err != nil {
		return err
	}
	defer a.Close()

	if opts.Verbose {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(a.svc,
		server.WithLogger(a.logger),
		server.WithSubmitRate(opts.SubmitRate, opts.SubmitBurst),
	)

	a.logger.Info("serving recommendations",
		"addr", opts.Addr,
		"db", opts.Database,
		"historical", a.reg.Len(),
		"pool", len(a.cfg.Pool),
	)

	if err := srv.Run(ctx, opts.Addr); err != nil {
		return WrapExitError(ExitFailure, "server failed", err)
	}
	return nil
}
