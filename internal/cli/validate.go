package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blotterlabs/blotter/internal/querycue"
	"github.com/blotterlabs/blotter/internal/queryspec"
	"github.com/blotterlabs/blotter/internal/table"
)

// ValidationIssue is one problem found while validating a query directory.
type ValidationIssue struct {
	Query   string `json:"query,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid      bool              `json:"valid"`
	FileCount  int               `json:"file_count"`
	QueryCount int               `json:"query_count"`
	Issues     []ValidationIssue `json:"issues,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <queries-dir>",
		Short: "Validate CUE query files without running them",
		Long: `Compile every CUE query in a directory and check each against the
arrest table schema: field names, window configuration, date bounds,
and order keys. All problems are collected and reported together.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, queriesDir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	loadResult, loadErrors := querycue.LoadQueries(queriesDir, querycue.LoadModeCollectAll)

	// Directory-level failures (not found, no files) end the run.
	if loadResult == nil && len(loadErrors) > 0 {
		var loadErr *querycue.LoadError
		if errors.As(loadErrors[0], &loadErr) {
			formatter.Error(loadErr.Code, loadErr.Message, nil)
			return NewExitError(ExitCommandError, loadErr.Message)
		}
		formatter.Error(querycue.ErrCodeGeneric, loadErrors[0].Error(), nil)
		return NewExitError(ExitCommandError, loadErrors[0].Error())
	}

	formatter.VerboseLog("Found %d CUE file(s) in %s", loadResult.FileCount, queriesDir)

	var issues []ValidationIssue
	for _, err := range loadErrors {
		var loadErr *querycue.LoadError
		if errors.As(err, &loadErr) {
			issues = append(issues, ValidationIssue{Code: loadErr.Code, Message: loadErr.Message})
			continue
		}
		issues = append(issues, ValidationIssue{Code: querycue.ErrCodeGeneric, Message: err.Error()})
	}

	columns := table.ArrestColumns()
	for _, spec := range loadResult.Queries {
		if err := queryspec.Validate(spec, columns); err != nil {
			issue := ValidationIssue{Query: spec.Name, Message: err.Error()}
			var specErr *queryspec.SpecError
			if errors.As(err, &specErr) {
				issue.Code = string(specErr.Code)
			}
			issues = append(issues, issue)
		}
	}

	result := ValidationResult{
		Valid:      len(issues) == 0,
		FileCount:  loadResult.FileCount,
		QueryCount: len(loadResult.Queries),
		Issues:     issues,
	}

	if formatter.Format == "json" {
		if err := formatter.Success(result); err != nil {
			return WrapExitError(ExitCommandError, "failed to write output", err)
		}
	} else {
		if result.Valid {
			fmt.Fprintf(formatter.Writer, "OK: %d queries in %d file(s)\n", result.QueryCount, result.FileCount)
		} else {
			for _, issue := range result.Issues {
				if issue.Query != "" {
					fmt.Fprintf(formatter.Writer, "%s: [%s] %s\n", issue.Query, issue.Code, issue.Message)
				} else {
					fmt.Fprintf(formatter.Writer, "[%s] %s\n", issue.Code, issue.Message)
				}
			}
		}
	}

	if !result.Valid {
		return NewExitError(ExitFailure, fmt.Sprintf("%d validation issue(s)", len(issues)))
	}
	return nil
}
