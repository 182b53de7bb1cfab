package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blotterlabs/blotter/internal/table"
	"github.com/blotterlabs/blotter/internal/value"
)

func sampleResult() *table.ResultTable {
	return &table.ResultTable{
		Columns: []string{"area_name", "count", "pct_change"},
		Rows: []table.Row{
			{"area_name": value.String("Hollywood"), "count": value.Int(12), "pct_change": value.Null{}},
			{"area_name": value.String("Central"), "count": value.Int(7), "pct_change": value.Float(-41.67)},
		},
	}
}

func TestRenderTable(t *testing.T) {
	var buf bytes.Buffer
	renderTable(&buf, sampleResult())
	out := buf.String()

	assert.Contains(t, out, "area_name  count  pct_change")
	assert.Contains(t, out, "Hollywood  12")
	assert.Contains(t, out, "Central    7      -41.67")
	assert.Contains(t, out, "(2 rows)")
}

func TestRenderTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	renderTable(&buf, &table.ResultTable{Columns: []string{"count"}})

	assert.Contains(t, buf.String(), "(0 rows)")
}

func TestTablePayload(t *testing.T) {
	payload, err := tablePayload("demo", sampleResult())
	require.NoError(t, err)

	assert.Equal(t, "demo", payload.Query)
	assert.Equal(t, 2, payload.Count)
	require.Len(t, payload.Rows, 2)
	assert.Equal(t, json.RawMessage("null"), payload.Rows[0][2])
	assert.Equal(t, json.RawMessage("12"), payload.Rows[0][1])
}
