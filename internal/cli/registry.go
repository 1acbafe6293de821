package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
)

// CycleSummary describes one indexed cycle.
type CycleSummary struct {
	Name      string `json:"name"`
	Companies int    `json:"companies"`
}

// RegistrySummary is the registry command payload.
type RegistrySummary struct {
	Source     string         `json:"source"`
	Cycles     []CycleSummary `json:"cycles"`
	Historical int            `json:"historical"`
	Keys       int            `json:"keys"`
	Pool       int            `json:"pool"`
	Sectors    []string       `json:"sectors"`
	Stages     []string       `json:"stages"`
}

// NewRegistryCommand creates the registry command.
func NewRegistryCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "registry",
		Short: "Validate and summarize the registry file",
		Long: `Load the registry, validate it against the schema and print a summary.

Keys can be fewer than historical entries when a company appears in more
than one cycle or under several spellings; the earliest cycle wins.

Exit codes:
  0 - Registry is valid
  2 - Registry cannot be read or is invalid

Examples:
  recpool registry
  recpool registry --registry ./registry.cue --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, reg, err := loadRegistry(rootOpts, newLogger(cmd.ErrOrStderr(), rootOpts.Verbose, slog.LevelWarn))
			if err != nil {
				return err
			}

			source := rootOpts.Registry
			if source == "" {
				source = "embedded"
			}

			summary := RegistrySummary{
				Source:     source,
				Cycles:     make([]CycleSummary, len(cfg.Cycles)),
				Historical: cfg.CompanyCount(),
				Keys:       reg.Len(),
				Pool:       len(cfg.Pool),
				Sectors:    cfg.Sectors,
				Stages:     cfg.Stages,
			}
			for i, c := range cfg.Cycles {
				summary.Cycles[i] = CycleSummary{Name: c.Name, Companies: len(c.Companies)}
			}

			out := &OutputFormatter{
				Format:    rootOpts.Format,
				Writer:    cmd.OutOrStdout(),
				ErrWriter: cmd.ErrOrStderr(),
				Verbose:   rootOpts.Verbose,
			}
			return out.Success(summary, func(w io.Writer) { renderRegistry(w, summary) })
		},
	}
}

func renderRegistry(w io.Writer, s RegistrySummary) {
	fmt.Fprintf(w, "✓ Registry %s is valid\n", s.Source)
	for _, c := range s.Cycles {
		fmt.Fprintf(w, "  Cycle %s: %d companies\n", c.Name, c.Companies)
	}
	fmt.Fprintf(w, "  Historical entries: %d (%d distinct keys)\n", s.Historical, s.Keys)
	fmt.Fprintf(w, "  Pooled companies:   %d\n", s.Pool)
	fmt.Fprintf(w, "  Sectors:            %d\n", len(s.Sectors))
	fmt.Fprintf(w, "  Stages:             %d\n", len(s.Stages))
}
