package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/minwook-byun/recpool/internal/canon"
)

// NormalizedName pairs an input with its matching key.
type NormalizedName struct {
	Input string    `json:"input"`
	Key   canon.Key `json:"key"`
}

// NewNormalizeCommand creates the normalize command.
func NewNormalizeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "normalize <name>...",
		Short: "Print the matching key of company names",
		Long: `Print the key used to compare company names.

Two names refer to the same company when their keys are equal.

Examples:
  recpool normalize "주식회사 다나씨엠" "다나 씨엠(주)"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := &OutputFormatter{
				Format:    rootOpts.Format,
				Writer:    cmd.OutOrStdout(),
				ErrWriter: cmd.ErrOrStderr(),
				Verbose:   rootOpts.Verbose,
			}

			names := make([]NormalizedName, len(args))
			for i, arg := range args {
				names[i] = NormalizedName{Input: arg, Key: canon.Normalize(arg)}
			}

			return out.Success(names, func(w io.Writer) {
				for _, n := range names {
					if n.Key.IsEmpty() {
						fmt.Fprintf(w, "%s\t(empty)\n", n.Input)
						continue
					}
					fmt.Fprintf(w, "%s\t%s\n", n.Input, n.Key)
				}
			})
		},
	}
}
