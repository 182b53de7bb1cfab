package engine

import (
	"github.com/blotterlabs/blotter/internal/queryspec"
	"github.com/blotterlabs/blotter/internal/table"
	"github.com/blotterlabs/blotter/internal/value"
)

// applyWindow computes the window columns in place over the grouped
// result rows. Rows are re-sorted into window order (partition keys, then
// the window's order keys); a later order_by may re-sort them again.
func applyWindow(result *table.ResultTable, w queryspec.Window) {
	switch win := w.(type) {
	case queryspec.Rank:
		sortForWindow(result, win.PartitionBy, win.OrderBy)
		for _, part := range partitionRows(result.Rows, win.PartitionBy) {
			applyRank(part, win.OrderBy)
		}
	case queryspec.Lag:
		sortForWindow(result, win.PartitionBy, win.OrderBy)
		for _, part := range partitionRows(result.Rows, win.PartitionBy) {
			applyLag(part, win)
		}
	case queryspec.Rolling:
		sortForWindow(result, nil, win.OrderBy)
		applyRolling(result.Rows, win)
	}
	result.Columns = append(result.Columns, w.OutputColumns()...)
}

// sortForWindow orders rows by partition columns ascending, then the
// window order keys. The stable sort keeps the grouping's
// first-appearance order among full ties.
func sortForWindow(result *table.ResultTable, partitionBy []string, orderBy []table.OrderKey) {
	keys := make([]table.OrderKey, 0, len(partitionBy)+len(orderBy))
	for _, col := range partitionBy {
		keys = append(keys, table.OrderKey{Column: col})
	}
	keys = append(keys, orderBy...)
	result.SortStable(keys)
}

// partitionRows splits contiguous runs of rows sharing the partition key.
// Callers must have sorted by the partition columns first.
func partitionRows(rows []table.Row, partitionBy []string) [][]table.Row {
	if len(partitionBy) == 0 {
		if len(rows) == 0 {
			return nil
		}
		return [][]table.Row{rows}
	}

	key := func(row table.Row) string {
		vals := make([]value.Value, len(partitionBy))
		for i, col := range partitionBy {
			vals[i] = row.Get(col)
		}
		return value.EncodeKey(vals)
	}

	var parts [][]table.Row
	start := 0
	for i := 1; i <= len(rows); i++ {
		if i == len(rows) || key(rows[i]) != key(rows[start]) {
			parts = append(parts, rows[start:i])
			start = i
		}
	}
	return parts
}

// applyRank assigns standard competition ranks within one partition:
// tied rows (equal on every order key) share a rank, and the next
// distinct row's rank skips by the tie-group size.
func applyRank(part []table.Row, orderBy []table.OrderKey) {
	rank := 1
	for i, row := range part {
		if i > 0 && !orderEqual(part[i-1], row, orderBy) {
			rank = i + 1
		}
		row["rank"] = value.Int(int64(rank))
	}
}

func orderEqual(a, b table.Row, orderBy []table.OrderKey) bool {
	for _, k := range orderBy {
		if value.Compare(a.Get(k.Column), b.Get(k.Column)) != 0 {
			return false
		}
	}
	return true
}

// applyLag copies the lagged field from Offset rows back within the
// partition, Null when no such row exists, plus the optional
// percent-change column.
func applyLag(part []table.Row, win queryspec.Lag) {
	offset := win.EffectiveOffset()
	prevCol := "prev_" + win.Field
	for i, row := range part {
		var prev value.Value = value.Null{}
		if i >= offset {
			prev = part[i-offset].Get(win.Field)
		}
		row[prevCol] = prev
		if win.PercentChange {
			row["pct_change"] = PercentChange(row.Get(win.Field), prev)
		}
	}
}

// applyRolling computes the trailing-window aggregate. The window covers
// the current row and up to Size-1 preceding rows, shrinking at the start
// of the series; null cells inside the window are skipped, and a window
// with no numeric cell yields Null.
func applyRolling(rows []table.Row, win queryspec.Rolling) {
	col := win.OutputColumns()[0]
	for i, row := range rows {
		start := i - win.Size + 1
		if start < 0 {
			start = 0
		}
		var sum float64
		n := 0
		for j := start; j <= i; j++ {
			if f, ok := value.AsFloat(rows[j].Get(win.Field)); ok {
				sum += f
				n++
			}
		}
		if n == 0 {
			row[col] = value.Null{}
			continue
		}
		if win.Kind == queryspec.RollAvg {
			row[col] = value.Float(sum / float64(n))
		} else {
			row[col] = value.Float(sum)
		}
	}
}
