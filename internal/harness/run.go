package harness

import (
	"fmt"
	"os"

	"github.com/blotterlabs/blotter/internal/catalog"
	"github.com/blotterlabs/blotter/internal/engine"
	"github.com/blotterlabs/blotter/internal/querycue"
	"github.com/blotterlabs/blotter/internal/queryspec"
	"github.com/blotterlabs/blotter/internal/store"
	"github.com/blotterlabs/blotter/internal/table"
	"github.com/blotterlabs/blotter/internal/value"
)

// Result holds the outcome of running a scenario.
type Result struct {
	ScenarioName string
	QueryName    string
	Table        *table.ResultTable
}

// Run executes a scenario: builds the dataset, resolves the query, and
// runs it through the engine. Expectations are checked separately with
// Verify so golden-only scenarios can skip them.
func Run(scenario *Scenario) (*Result, error) {
	ds, err := buildDataset(scenario)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	spec, err := resolveQuery(scenario)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	result, err := engine.Run(ds, *spec)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	return &Result{
		ScenarioName: scenario.Name,
		QueryName:    spec.Name,
		Table:        result,
	}, nil
}

// Verify checks a result against the scenario's expect clause.
// Expected rows match positionally; each is a subset match over the
// named columns. A nil expect clause verifies nothing.
func Verify(scenario *Scenario, result *Result) error {
	expect := scenario.Expect
	if expect == nil {
		return nil
	}

	if expect.RowCount != nil {
		if got := len(result.Table.Rows); got != *expect.RowCount {
			return fmt.Errorf("scenario %s: expected %d rows, got %d",
				scenario.Name, *expect.RowCount, got)
		}
	}

	for i, want := range expect.Rows {
		if i >= len(result.Table.Rows) {
			return fmt.Errorf("scenario %s: expected row %d missing (only %d rows)",
				scenario.Name, i, len(result.Table.Rows))
		}
		got := result.Table.Rows[i]
		for col, raw := range want {
			wantVal, err := value.FromAny(raw)
			if err != nil {
				return fmt.Errorf("scenario %s: row %d, column %s: %w",
					scenario.Name, i, col, err)
			}
			if !value.Equal(got.Get(col), wantVal) {
				return fmt.Errorf("scenario %s: row %d, column %s: expected %s, got %s",
					scenario.Name, i, col, value.Render(wantVal), value.Render(got.Get(col)))
			}
		}
	}

	return nil
}

func buildDataset(scenario *Scenario) (*table.Dataset, error) {
	if scenario.Dataset.CSV != "" {
		f, err := os.Open(scenario.Dataset.CSV)
		if err != nil {
			return nil, fmt.Errorf("open dataset: %w", err)
		}
		defer f.Close()
		return store.ReadCSV(f)
	}

	rows := make([]table.Row, 0, len(scenario.Dataset.Rows))
	for i, raw := range scenario.Dataset.Rows {
		row := table.Row{}
		for col, cell := range raw {
			v, err := value.FromAny(cell)
			if err != nil {
				return nil, fmt.Errorf("dataset row %d, column %s: %w", i, col, err)
			}
			row[col] = v
		}
		rows = append(rows, row)
	}
	return table.NewDataset(table.ArrestColumns(), rows)
}

func resolveQuery(scenario *Scenario) (*queryspec.Spec, error) {
	if scenario.Query.Named != "" {
		spec, ok := catalog.Get(scenario.Query.Named)
		if !ok {
			return nil, fmt.Errorf("unknown catalog query %q", scenario.Query.Named)
		}
		return &spec, nil
	}

	specs, err := querycue.LoadFile(scenario.Query.File)
	if err != nil {
		return nil, err
	}
	if scenario.Query.Query == "" {
		if len(specs) > 1 {
			return nil, fmt.Errorf("%s defines %d queries, set query.query to pick one",
				scenario.Query.File, len(specs))
		}
		return &specs[0], nil
	}
	for i := range specs {
		if specs[i].Name == scenario.Query.Query {
			return &specs[i], nil
		}
	}
	return nil, fmt.Errorf("query %q not found in %s", scenario.Query.Query, scenario.Query.File)
}
