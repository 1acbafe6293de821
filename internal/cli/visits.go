package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
)

// VisitsResult is the visits command payload.
type VisitsResult struct {
	Count int64 `json:"count"`
}

// NewVisitsCommand creates the visits command.
func NewVisitsCommand(rootOpts *RootOptions) *cobra.Command {
	var record bool

	cmd := &cobra.Command{
		Use:   "visits",
		Short: "Show the visit counter",
		Long: `Show how many sessions have opened the recommendation form.

With --record the counter is incremented first, as the HTTP server does for
each new session.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(rootOpts, cmd.ErrOrStderr(), slog.LevelWarn)
			if err != nil {
				return err
			}
			defer a.Close()

			out := &OutputFormatter{
				Format:    rootOpts.Format,
				Writer:    cmd.OutOrStdout(),
				ErrWriter: cmd.ErrOrStderr(),
				Verbose:   rootOpts.Verbose,
			}

			ctx := cmd.Context()
			if record {
				if err := a.svc.RecordVisit(ctx); err != nil {
					return out.Rejection(err)
				}
			}

			n, err := a.svc.Visits(ctx)
			if err != nil {
				return out.Rejection(err)
			}

			return out.Success(VisitsResult{Count: n}, func(w io.Writer) {
				fmt.Fprintf(w, "Visits: %d\n", n)
			})
		},
	}

	cmd.Flags().BoolVar(&record, "record", false, "count one visit before showing the total")
	return cmd
}
