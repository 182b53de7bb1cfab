package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/blotterlabs/blotter/internal/catalog"
)

// TopChargesOptions holds flags for the top-charges command.
type TopChargesOptions struct {
	*RootOptions
	Input InputOptions
	Limit int
}

// NewTopChargesCommand creates the top-charges command.
func NewTopChargesCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TopChargesOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "top-charges <area> <year>",
		Short: "Most frequent charges for an area and year",
		Long: `Report the most frequent charge descriptions for one area in one
calendar year, busiest first. Rows without a charge description are
excluded.

Example:
  blotter top-charges Hollywood 2019 --db ./blotter.db
  blotter top-charges Central 2018 --csv ./arrests.csv --limit 10`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTopCharges(opts, args[0], args[1], cmd)
		},
	}

	addInputFlags(cmd, &opts.Input)
	cmd.Flags().IntVar(&opts.Limit, "limit", catalog.DefaultTopChargesLimit, "number of charges to report")

	return cmd
}

func runTopCharges(opts *TopChargesOptions, area, yearArg string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	year, err := strconv.Atoi(yearArg)
	if err != nil {
		return WrapExitError(ExitCommandError, fmt.Sprintf("invalid year %q", yearArg), err)
	}
	if opts.Limit < 1 {
		return NewExitError(ExitCommandError, "--limit must be at least 1")
	}

	ds, err := loadInput(commandContext(cmd), &opts.Input)
	if err != nil {
		return err
	}

	result, err := catalog.TopCharges(ds, area, year, opts.Limit)
	if err != nil {
		return WrapExitError(ExitFailure, "top-charges failed", err)
	}

	name := fmt.Sprintf("top_charges_%s_%d", area, year)
	if err := outputTable(formatter, name, result); err != nil {
		return WrapExitError(ExitCommandError, "failed to write output", err)
	}
	return nil
}
