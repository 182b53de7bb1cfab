package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/blotterlabs/blotter/internal/table"
	"github.com/blotterlabs/blotter/internal/value"
)

// TablePayload is the JSON shape of a result table. Rows serialize as
// cell arrays aligned with the column header.
type TablePayload struct {
	Query   string              `json:"query,omitempty"`
	Columns []string            `json:"columns"`
	Rows    [][]json.RawMessage `json:"rows"`
	Count   int                 `json:"count"`
}

func tablePayload(query string, t *table.ResultTable) (*TablePayload, error) {
	payload := &TablePayload{
		Query:   query,
		Columns: t.Columns,
		Rows:    make([][]json.RawMessage, 0, len(t.Rows)),
		Count:   len(t.Rows),
	}
	for _, row := range t.Rows {
		cells := make([]json.RawMessage, len(t.Columns))
		for i, col := range t.Columns {
			data, err := value.MarshalValue(row.Get(col))
			if err != nil {
				return nil, err
			}
			cells[i] = data
		}
		payload.Rows = append(payload.Rows, cells)
	}
	return payload, nil
}

// renderTable writes a fixed-width text table. Null cells render empty.
func renderTable(w io.Writer, t *table.ResultTable) {
	widths := make([]int, len(t.Columns))
	for i, col := range t.Columns {
		widths[i] = len(col)
	}
	rendered := make([][]string, len(t.Rows))
	for r, row := range t.Rows {
		cells := make([]string, len(t.Columns))
		for i, col := range t.Columns {
			cells[i] = value.Render(row.Get(col))
			if len(cells[i]) > widths[i] {
				widths[i] = len(cells[i])
			}
		}
		rendered[r] = cells
	}

	writeRow := func(cells []string) {
		parts := make([]string, len(cells))
		for i, cell := range cells {
			parts[i] = fmt.Sprintf("%-*s", widths[i], cell)
		}
		fmt.Fprintln(w, strings.TrimRight(strings.Join(parts, "  "), " "))
	}

	writeRow(t.Columns)
	rule := make([]string, len(t.Columns))
	for i, width := range widths {
		rule[i] = strings.Repeat("-", width)
	}
	writeRow(rule)
	for _, cells := range rendered {
		writeRow(cells)
	}
	fmt.Fprintf(w, "(%d rows)\n", len(t.Rows))
}

// outputTable writes a result table in the configured format.
func outputTable(f *OutputFormatter, query string, t *table.ResultTable) error {
	if f.Format == "json" {
		payload, err := tablePayload(query, t)
		if err != nil {
			return err
		}
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "ok",
			Data:   payload,
		})
	}
	renderTable(f.Writer, t)
	return nil
}
