package value

import (
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// EncodeKey produces the canonical encoding of a group-key tuple, used as
// the map key during grouping. Two tuples encode identically exactly when
// every position is Equal.
//
// Encoding rules:
//   - strings are NFC normalized before encoding
//   - integral floats encode in the Int form, so Int(2) and Float(2.0)
//     land in the same group
//   - cells are joined with the unit separator (0x1F), which cannot
//     appear in a kind tag and is vanishingly rare in source data
func EncodeKey(vals []Value) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = encodeCell(v)
	}
	return strings.Join(parts, "\x1f")
}

func encodeCell(v Value) string {
	switch val := v.(type) {
	case Null, nil:
		return "n:"
	case Bool:
		if val {
			return "b:1"
		}
		return "b:0"
	case Int:
		return "i:" + strconv.FormatInt(int64(val), 10)
	case Float:
		f := float64(val)
		if f == float64(int64(f)) {
			return "i:" + strconv.FormatInt(int64(f), 10)
		}
		return "f:" + strconv.FormatFloat(f, 'g', -1, 64)
	case String:
		return "s:" + norm.NFC.String(string(val))
	default:
		return "?:"
	}
}
