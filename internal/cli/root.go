package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes the environment variables that override flags,
// e.g. RECPOOL_DB for --db and RECPOOL_SUBMIT_RATE for --submit-rate.
const EnvPrefix = "RECPOOL"

// DefaultDatabase is the SQLite file used when --db is not given.
const DefaultDatabase = "recpool.db"

// RootOptions holds global flags for all commands.
// Values are resolved from flags and environment before a subcommand runs.
type RootOptions struct {
	Verbose  bool
	Format   string // "json" | "text"
	Database string // SQLite file path
	Registry string // registry file (.yaml, .yml, .cue); empty = embedded default

	v *viper.Viper
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// env returns the viper instance that merges flags with RECPOOL_* variables.
func (o *RootOptions) env() *viper.Viper {
	if o.v == nil {
		v := viper.New()
		v.SetEnvPrefix(EnvPrefix)
		v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
		v.AutomaticEnv()
		o.v = v
	}
	return o.v
}

// NewRootCommand creates the root command for the recpool CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "recpool",
		Short: "recpool - company recommendation pool",
		Long: `Collect company recommendations for the next program cycle.

Names are normalized before comparison, so "다나 씨엠", "다나씨엠(주)" and
"주식회사 다나씨엠" are the same company. Companies from past cycles and
companies already recommended are rejected.

Every global flag can also be set through the environment:
RECPOOL_DB, RECPOOL_REGISTRY, RECPOOL_FORMAT, RECPOOL_VERBOSE.

Exit codes:
  0 - Success
  1 - Rejected or failed (historical, duplicate, invalid, storage error)
  2 - Command error (bad flags, unreadable registry or database)`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.resolve(cmd)
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Database, "db", DefaultDatabase, "path to SQLite database")
	cmd.PersistentFlags().StringVar(&opts.Registry, "registry", "", "registry file (.yaml, .yml, .cue); default: embedded")

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return WrapExitError(ExitCommandError, "invalid flags", err)
	})

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewSearchCommand(opts))
	cmd.AddCommand(NewSubmitCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewVisitsCommand(opts))
	cmd.AddCommand(NewPoolCommand(opts))
	cmd.AddCommand(NewNormalizeCommand(opts))
	cmd.AddCommand(NewRegistryCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// resolve merges flags and environment into opts.
func (o *RootOptions) resolve(cmd *cobra.Command) error {
	v := o.env()
	for _, name := range []string{"verbose", "format", "db", "registry"} {
		if err := v.BindPFlag(name, cmd.Flags().Lookup(name)); err != nil {
			return WrapExitError(ExitCommandError, "failed to bind flag "+name, err)
		}
	}

	o.Verbose = v.GetBool("verbose")
	o.Format = v.GetString("format")
	o.Database = v.GetString("db")
	o.Registry = v.GetString("registry")

	if !isValidFormat(o.Format) {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", o.Format, ValidFormats))
	}
	return nil
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// Execute runs the CLI with args and returns the process exit code.
// Errors not already reported by a command are printed to stderr.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err != nil && !isReported(err) {
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	return GetExitCode(err)
}
