package cli

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/blotterlabs/blotter/internal/store"
	"github.com/blotterlabs/blotter/internal/table"
)

// InputOptions selects the dataset source for query commands.
// Exactly one of Database and CSV must be set.
type InputOptions struct {
	Database string
	CSV      string
}

func addInputFlags(cmd *cobra.Command, opts *InputOptions) {
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database")
	cmd.Flags().StringVar(&opts.CSV, "csv", "", "path to arrest CSV extract")
}

// loadInput materializes the dataset from the selected source.
func loadInput(ctx context.Context, opts *InputOptions) (*table.Dataset, error) {
	hasDB := opts.Database != ""
	hasCSV := opts.CSV != ""
	if hasDB == hasCSV {
		return nil, NewExitError(ExitCommandError, "exactly one of --db and --csv is required")
	}

	if hasCSV {
		f, err := os.Open(opts.CSV)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to open CSV", err)
		}
		defer f.Close()

		ds, err := store.ReadCSV(f)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to read CSV", err)
		}
		slog.Debug("dataset loaded", "source", opts.CSV, "rows", ds.Len())
		return ds, nil
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	ds, err := st.LoadDataset(ctx)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load dataset", err)
	}
	slog.Debug("dataset loaded", "source", opts.Database, "rows", ds.Len())
	return ds, nil
}

// commandContext returns the command's context, defaulting to Background.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
