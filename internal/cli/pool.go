package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
)

// PoolResult is the pool command payload.
type PoolResult struct {
	Names []string `json:"names"`
}

// NewPoolCommand creates the pool command.
func NewPoolCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "pool",
		Short: "Show companies pooled by operators",
		Long: `Show the companies operators have already pooled for the next cycle.

The list is informational. Pooled companies can still be recommended.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadRegistry(rootOpts, newLogger(cmd.ErrOrStderr(), rootOpts.Verbose, slog.LevelWarn))
			if err != nil {
				return err
			}

			out := &OutputFormatter{
				Format:    rootOpts.Format,
				Writer:    cmd.OutOrStdout(),
				ErrWriter: cmd.ErrOrStderr(),
				Verbose:   rootOpts.Verbose,
			}

			names := append([]string{}, cfg.Pool...)
			return out.Success(PoolResult{Names: names}, func(w io.Writer) {
				for i, name := range names {
					fmt.Fprintf(w, "%2d. %s\n", i+1, name)
				}
				fmt.Fprintf(w, "\n%d pooled companies\n", len(names))
			})
		},
	}
}
