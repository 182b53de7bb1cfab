package table

import (
	"fmt"
	"slices"
	"sort"

	"github.com/blotterlabs/blotter/internal/value"
)

// Row maps column names to cell values. Missing columns read as Null.
type Row map[string]value.Value

// Get returns the cell for a column, or Null when absent.
func (r Row) Get(col string) value.Value {
	if v, ok := r[col]; ok && v != nil {
		return v
	}
	return value.Null{}
}

// Dataset is an immutable in-memory table. Loaded once, read-only for the
// lifetime of every query against it.
type Dataset struct {
	Columns []string
	Rows    []Row
}

// NewDataset builds a Dataset, rejecting rows that reference columns not
// in the header. Missing cells are permitted and read as Null. This is
// structural validation only; cell values are passed through
// uninterpreted.
func NewDataset(columns []string, rows []Row) (*Dataset, error) {
	for i, row := range rows {
		for col := range row {
			if !slices.Contains(columns, col) {
				return nil, fmt.Errorf("row %d: unknown column %q", i, col)
			}
		}
	}
	return &Dataset{Columns: columns, Rows: rows}, nil
}

// HasColumn reports whether the dataset header contains col.
func (d *Dataset) HasColumn(col string) bool {
	return slices.Contains(d.Columns, col)
}

// Len returns the row count.
func (d *Dataset) Len() int { return len(d.Rows) }

// ResultTable is an ordered sequence of result rows with an ordered
// column header. Rows permit Null cells (e.g. an undefined percent
// change).
type ResultTable struct {
	Columns []string
	Rows    []Row
}

// SortStable sorts rows in place by the given keys, stable so that
// earlier ordering survives among ties. Null sorts first ascending.
func (t *ResultTable) SortStable(keys []OrderKey) {
	sort.SliceStable(t.Rows, func(i, j int) bool {
		for _, k := range keys {
			c := value.Compare(t.Rows[i].Get(k.Column), t.Rows[j].Get(k.Column))
			if c == 0 {
				continue
			}
			if k.Desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})
}

// OrderKey names a result column and a sort direction.
type OrderKey struct {
	Column string
	Desc   bool
}
