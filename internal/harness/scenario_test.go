package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadScenario(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/count_by_area.yaml")
	require.NoError(t, err)

	assert.Equal(t, "count_by_area", scenario.Name)
	assert.Equal(t, "arrests_by_area", scenario.Query.Named)
	assert.Equal(t, filepath.Join("testdata", "scenarios", "..", "arrests.csv"), scenario.Dataset.CSV)
	require.NotNil(t, scenario.Expect)
	require.NotNil(t, scenario.Expect.RowCount)
	assert.Equal(t, 3, *scenario.Expect.RowCount)
	assert.Len(t, scenario.Expect.Rows, 3)
}

func TestLoadScenarioResolvesQueryFile(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/booking_by_area.yaml")
	require.NoError(t, err)
	assert.FileExists(t, scenario.Query.File)
}

func writeScenario(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func TestLoadScenarioRejectsUnknownField(t *testing.T) {
	path := writeScenario(t, `
name: typo
description: catches typos
dataset:
  rows:
    - report_type: Booking
query:
  named: arrests_by_area
expectations:
  row_count: 1
`)
	_, err := LoadScenario(path)
	require.Error(t, err, "expectations (not expect) should be rejected")
}

func TestLoadScenarioValidation(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "missing name",
			src: `
description: d
dataset: {rows: [{report_type: Booking}]}
query: {named: arrests_by_area}
`,
			want: "name is required",
		},
		{
			name: "missing description",
			src: `
name: n
dataset: {rows: [{report_type: Booking}]}
query: {named: arrests_by_area}
`,
			want: "description is required",
		},
		{
			name: "no dataset source",
			src: `
name: n
description: d
query: {named: arrests_by_area}
`,
			want: "dataset requires exactly one",
		},
		{
			name: "both query sources",
			src: `
name: n
description: d
dataset: {rows: [{report_type: Booking}]}
query: {named: arrests_by_area, file: q.cue}
`,
			want: "query requires exactly one",
		},
		{
			name: "missing csv fixture",
			src: `
name: n
description: d
dataset: {csv: does_not_exist.csv}
query: {named: arrests_by_area}
`,
			want: "not found",
		},
		{
			name: "query selector without file",
			src: `
name: n
description: d
dataset: {rows: [{report_type: Booking}]}
query: {named: arrests_by_area, query: x}
`,
			want: "only applies with query.file",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadScenario(writeScenario(t, tc.src))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}
