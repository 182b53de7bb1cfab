package harness

import (
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/blotterlabs/blotter/internal/table"
	"github.com/blotterlabs/blotter/internal/value"
)

// TableSnapshot captures a full result table for golden comparison.
// Rows serialize as cell arrays aligned with the column header, so the
// snapshot is deterministic without sorting map keys.
type TableSnapshot struct {
	ScenarioName string              `json:"scenario_name"`
	Query        string              `json:"query"`
	Columns      []string            `json:"columns"`
	Rows         [][]json.RawMessage `json:"rows"`
}

func snapshotTable(result *Result) (*TableSnapshot, error) {
	snapshot := &TableSnapshot{
		ScenarioName: result.ScenarioName,
		Query:        result.QueryName,
		Columns:      result.Table.Columns,
		Rows:         make([][]json.RawMessage, 0, len(result.Table.Rows)),
	}
	for _, row := range result.Table.Rows {
		cells := make([]json.RawMessage, len(result.Table.Columns))
		for i, col := range result.Table.Columns {
			data, err := value.MarshalValue(row.Get(col))
			if err != nil {
				return nil, err
			}
			cells[i] = data
		}
		snapshot.Rows = append(snapshot.Rows, cells)
	}
	return snapshot, nil
}

// RunWithGolden executes a scenario, checks its expect clause, and
// compares the full result table against a golden file stored in
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}
	if err := Verify(scenario, result); err != nil {
		return err
	}

	snapshot, err := snapshotTable(result)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, data)

	return nil
}

// AssertGolden compares an already-computed result table against a
// golden file without re-running the scenario.
func AssertGolden(t *testing.T, name string, tbl *table.ResultTable) error {
	t.Helper()

	snapshot, err := snapshotTable(&Result{ScenarioName: name, Table: tbl})
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)

	return nil
}
