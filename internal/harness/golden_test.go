package harness

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// Golden scenarios capture full result tables, including the column
// header and cell ordering, so interpreter changes that shift output
// shape get caught even when the expect clauses still pass.
func TestScenarioGoldens(t *testing.T) {
	scenarios := []string{
		"count_by_area",
		"yearly_change",
		"booking_by_area",
	}

	for _, name := range scenarios {
		t.Run(name, func(t *testing.T) {
			scenario, err := LoadScenario("testdata/scenarios/" + name + ".yaml")
			require.NoError(t, err)
			require.NoError(t, RunWithGolden(t, scenario))
		})
	}
}
