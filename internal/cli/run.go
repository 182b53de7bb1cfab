package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blotterlabs/blotter/internal/engine"
	"github.com/blotterlabs/blotter/internal/querycue"
	"github.com/blotterlabs/blotter/internal/queryspec"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Input InputOptions
	Query string
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <query-file.cue>",
		Short: "Run queries from a CUE file",
		Long: `Run queries defined in a CUE file against a dataset.

Every query under the file's top-level "query" struct runs in
definition order; --query restricts the run to a single one.

Example:
  blotter run ./queries.cue --csv ./arrests.csv
  blotter run ./queries.cue --db ./blotter.db --query booking_by_area`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFile(opts, args[0], cmd)
		},
	}

	addInputFlags(cmd, &opts.Input)
	cmd.Flags().StringVar(&opts.Query, "query", "", "run only the named query from the file")

	return cmd
}

func runFile(opts *RunOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	specs, err := querycue.LoadFile(path)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to compile queries", err)
	}
	if opts.Query != "" {
		specs = filterSpecs(specs, opts.Query)
		if len(specs) == 0 {
			return NewExitError(ExitCommandError, fmt.Sprintf("query %q not found in %s", opts.Query, path))
		}
	}

	ds, err := loadInput(commandContext(cmd), &opts.Input)
	if err != nil {
		return err
	}

	for i, spec := range specs {
		result, err := engine.Run(ds, spec)
		if err != nil {
			return WrapExitError(ExitFailure, fmt.Sprintf("query %s failed", spec.Name), err)
		}
		if opts.Format != "json" && len(specs) > 1 {
			if i > 0 {
				fmt.Fprintln(formatter.Writer)
			}
			fmt.Fprintf(formatter.Writer, "%s\n", spec.Name)
		}
		if err := outputTable(formatter, spec.Name, result); err != nil {
			return WrapExitError(ExitCommandError, "failed to write output", err)
		}
	}
	return nil
}

func filterSpecs(specs []queryspec.Spec, name string) []queryspec.Spec {
	var out []queryspec.Spec
	for _, spec := range specs {
		if spec.Name == name {
			out = append(out, spec)
		}
	}
	return out
}
