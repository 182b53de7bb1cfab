package queryspec

import (
	"github.com/blotterlabs/blotter/internal/table"
)

// Window is a sealed interface over post-aggregation window computations.
// Only Rank, Lag, and Rolling implement it. Windows always run on the
// grouped result rows, never on raw input rows.
type Window interface {
	window() // Sealed - only these types implement it

	// OutputColumns returns the columns the window appends to the result.
	OutputColumns() []string
}

// Rank assigns a standard (competition) rank within each partition:
// tied rows share a rank and the next distinct value skips by the size
// of the tie group.
type Rank struct {
	PartitionBy []string
	OrderBy     []table.OrderKey
}

func (Rank) window() {}

func (Rank) OutputColumns() []string { return []string{"rank"} }

// Lag carries the aggregate value from the previous ordered row within a
// partition into each row. The first Offset rows of a partition get Null.
// With PercentChange set, a pct_change column is added:
// 100 * (current - previous) / previous, rounded to 2 decimal places,
// Null when previous is Null or zero.
type Lag struct {
	PartitionBy   []string
	OrderBy       []table.OrderKey
	Field         string
	Offset        int // default 1 when zero
	PercentChange bool
}

func (Lag) window() {}

func (w Lag) OutputColumns() []string {
	cols := []string{"prev_" + w.Field}
	if w.PercentChange {
		cols = append(cols, "pct_change")
	}
	return cols
}

// EffectiveOffset returns the lag offset, defaulting to 1.
func (w Lag) EffectiveOffset() int {
	if w.Offset <= 0 {
		return 1
	}
	return w.Offset
}

// RollKind selects the rolling computation.
type RollKind string

const (
	RollSum RollKind = "sum"
	RollAvg RollKind = "avg"
)

// Rolling computes a trailing-window aggregate over the ordered result
// rows: the current row plus up to Size-1 preceding rows. The window
// shrinks at the start of the series rather than waiting for Size rows.
type Rolling struct {
	OrderBy []table.OrderKey
	Field   string
	Size    int
	Kind    RollKind
}

func (Rolling) window() {}

func (w Rolling) OutputColumns() []string {
	return []string{"rolling_" + string(w.Kind) + "_" + w.Field}
}
