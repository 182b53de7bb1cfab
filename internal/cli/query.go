package cli

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/blotterlabs/blotter/internal/catalog"
	"github.com/blotterlabs/blotter/internal/engine"
)

// QueryOptions holds flags for the query command.
type QueryOptions struct {
	*RootOptions
	Input InputOptions
}

// NewQueryCommand creates the query command.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &QueryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "query <name>",
		Short: "Run a query from the built-in catalogue",
		Long: `Run a named query from the built-in catalogue against a dataset.

The dataset comes from a SQLite database previously populated with
"blotter import", or directly from a CSV extract.

Example:
  blotter query arrests_by_area --db ./blotter.db
  blotter query yearly_change_in_arrests --csv ./arrests.csv --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(opts, args[0], cmd)
		},
	}

	addInputFlags(cmd, &opts.Input)

	return cmd
}

func runQuery(opts *QueryOptions, name string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	spec, ok := catalog.Get(name)
	if !ok {
		return NewExitError(ExitCommandError,
			fmt.Sprintf("unknown query %q (known: %s)", name, strings.Join(catalog.Names(), ", ")))
	}

	ds, err := loadInput(commandContext(cmd), &opts.Input)
	if err != nil {
		return err
	}

	slog.Debug("running query", "query", name)
	result, err := engine.Run(ds, spec)
	if err != nil {
		return WrapExitError(ExitFailure, fmt.Sprintf("query %s failed", name), err)
	}

	if err := outputTable(formatter, name, result); err != nil {
		return WrapExitError(ExitCommandError, "failed to write output", err)
	}
	return nil
}
