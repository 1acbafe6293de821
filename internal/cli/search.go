package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/minwook-byun/recpool/internal/intake"
)

// NewSearchCommand creates the search command.
func NewSearchCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <company-name>...",
		Short: "Check whether a company may be recommended",
		Long: `Check a company name against past cycles and existing recommendations.

Exit codes:
  0 - The company may be recommended
  1 - Past participant, already recommended, or empty name

Examples:
  recpool search "주식회사 다나씨엠"
  recpool search 알파 --format json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, rootOpts, strings.Join(args, " "))
		},
	}
	return cmd
}

func runSearch(cmd *cobra.Command, opts *RootOptions, name string) error {
	a, err := openApp(opts, cmd.ErrOrStderr(), slog.LevelWarn)
	if err != nil {
		return err
	}
	defer a.Close()

	out := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	res, err := a.svc.Search(cmd.Context(), name)
	if err != nil {
		return out.Rejection(err)
	}
	out.VerboseLog("normalized %q to %q", name, res.Key)

	if err := out.Success(res, func(w io.Writer) { renderSearch(w, res) }); err != nil {
		return err
	}

	if !res.FormOpen() {
		return &ExitError{Code: ExitFailure, Message: string(res.Outcome), Reported: true}
	}
	return nil
}

func renderSearch(w io.Writer, res intake.SearchResult) {
	switch res.Outcome {
	case intake.OutcomeHistorical:
		fmt.Fprintf(w, "✗ %s took part in cycle %s (registered as %s)\n", res.Query, res.Cycle, res.DisplayName)
	case intake.OutcomeDuplicate:
		fmt.Fprintf(w, "✗ %s is already recommended as %s\n", res.Query, res.ExistingName)
	default:
		fmt.Fprintf(w, "✓ %s may be recommended\n", res.Query)
	}
}
