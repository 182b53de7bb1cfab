// Package harness runs declarative conformance scenarios against the
// query engine. A scenario names a dataset (a CSV fixture or inline
// rows), a query (from the built-in catalog or a CUE file), and the
// expected result rows. Golden files capture full result tables for
// regression coverage.
package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines one conformance scenario.
type Scenario struct {
	// Name uniquely identifies this scenario. Also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Dataset names the input table.
	Dataset DatasetSource `yaml:"dataset"`

	// Query names the query to run.
	Query QuerySource `yaml:"query"`

	// Expect validates the result table. Optional when the scenario is
	// golden-file only.
	Expect *ExpectClause `yaml:"expect,omitempty"`
}

// DatasetSource is either a CSV fixture path or inline rows.
// Exactly one must be set.
type DatasetSource struct {
	// CSV is a path to an arrest extract, relative to the scenario file.
	CSV string `yaml:"csv,omitempty"`

	// Rows are inline arrest rows. Missing columns read as null.
	Rows []map[string]any `yaml:"rows,omitempty"`
}

// QuerySource is either a built-in catalog query name or a CUE file.
// Exactly one of Named and File must be set.
type QuerySource struct {
	// Named runs a query from the built-in catalog.
	Named string `yaml:"named,omitempty"`

	// File is a path to a CUE file, relative to the scenario file.
	File string `yaml:"file,omitempty"`

	// Query selects one query from the CUE file. Required with File
	// when the file defines more than one query.
	Query string `yaml:"query,omitempty"`
}

// ExpectClause specifies the expected result table.
type ExpectClause struct {
	// RowCount is the expected number of result rows.
	RowCount *int `yaml:"row_count,omitempty"`

	// Rows are expected rows, matched positionally against the result.
	// Each entry is a subset match - only specified columns are checked.
	Rows []map[string]any `yaml:"rows,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
// Fixture paths inside the scenario resolve relative to the file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	base := filepath.Dir(path)
	if scenario.Dataset.CSV != "" && !filepath.IsAbs(scenario.Dataset.CSV) {
		scenario.Dataset.CSV = filepath.Join(base, scenario.Dataset.CSV)
	}
	if scenario.Query.File != "" && !filepath.IsAbs(scenario.Query.File) {
		scenario.Query.File = filepath.Join(base, scenario.Query.File)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	hasCSV := s.Dataset.CSV != ""
	hasRows := len(s.Dataset.Rows) > 0
	if hasCSV == hasRows {
		return fmt.Errorf("dataset requires exactly one of csv or rows")
	}
	if hasCSV {
		if _, err := os.Stat(s.Dataset.CSV); os.IsNotExist(err) {
			return fmt.Errorf("dataset CSV not found: %s", s.Dataset.CSV)
		}
	}

	hasNamed := s.Query.Named != ""
	hasFile := s.Query.File != ""
	if hasNamed == hasFile {
		return fmt.Errorf("query requires exactly one of named or file")
	}
	if hasFile {
		if _, err := os.Stat(s.Query.File); os.IsNotExist(err) {
			return fmt.Errorf("query file not found: %s", s.Query.File)
		}
	}
	if s.Query.Query != "" && !hasFile {
		return fmt.Errorf("query.query only applies with query.file")
	}

	return nil
}
