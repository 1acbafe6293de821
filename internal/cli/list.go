package cli

import (
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/minwook-byun/recpool/internal/store"
)

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	Limit int
	All   bool
}

// ListResult is the list command payload.
type ListResult struct {
	Total int                    `json:"total"`
	Items []store.Recommendation `json:"items"`
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored recommendations, newest first",
		Long: `List stored recommendations, newest first.

Examples:
  recpool list
  recpool list --limit 3
  recpool list --all --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Limit, "limit", 10, "number of recommendations to show")
	cmd.Flags().BoolVar(&opts.All, "all", false, "show every recommendation")

	return cmd
}

func runList(cmd *cobra.Command, opts *ListOptions) error {
	a, err := openApp(opts.RootOptions, cmd.ErrOrStderr(), slog.LevelWarn)
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

	ctx := cmd.Context()
	total, err := a.svc.Count(ctx)
	if err != nil {
		return out.Rejection(err)
	}

	var items []store.Recommendation
	if opts.All {
		items, err = a.svc.ListAll(ctx)
	} else {
		items, err = a.svc.ListRecent(ctx, opts.Limit)
	}
	if err != nil {
		return out.Rejection(err)
	}
	if items == nil {
		items = []store.Recommendation{}
	}

	result := ListResult{Total: total, Items: items}
	return out.Success(result, func(w io.Writer) { renderList(w, result) })
}

func renderList(w io.Writer, result ListResult) {
	if len(result.Items) == 0 {
		fmt.Fprintln(w, "No recommendations yet.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSUBMITTED\tCOMPANY\tSECTOR\tCONTACT")
	for _, rec := range result.Items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
			rec.ID,
			rec.SubmittedAt.UTC().Format("2006-01-02 15:04"),
			rec.CompanyName,
			rec.Sector,
			rec.ContactPerson,
		)
	}
	tw.Flush()

	fmt.Fprintf(w, "\nShowing %d of %d\n", len(result.Items), result.Total)
}
