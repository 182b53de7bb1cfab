package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/blotterlabs/blotter/internal/store"
)

// ImportOptions holds flags for the import command.
type ImportOptions struct {
	*RootOptions
	Database string
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ImportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "import <arrests.csv>",
		Short: "Import an arrest CSV extract into a SQLite database",
		Long: `Import an arrest CSV extract into a SQLite database, creating the
database if it does not exist. The import runs in a single
transaction; rows that share a report_id with a stored row replace it,
and rows without a report_id get a generated one.

Example:
  blotter import ./arrests.csv --db ./blotter.db`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runImport(opts *ImportOptions, csvPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	f, err := os.Open(csvPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open CSV", err)
	}
	defer f.Close()

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	ctx := commandContext(cmd)
	imported, err := st.ImportCSV(ctx, f)
	if err != nil {
		return WrapExitError(ExitFailure, "import failed", err)
	}

	total, err := st.Count(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to count rows", err)
	}
	slog.Info("import complete", "imported", imported, "total", total)

	if formatter.Format == "json" {
		return formatter.Success(map[string]any{"imported": imported, "total": total})
	}
	fmt.Fprintf(formatter.Writer, "Imported %d row(s); database now holds %d\n", imported, total)
	return nil
}
