package engine

import (
	"math"

	"github.com/blotterlabs/blotter/internal/value"
)

// PercentChange computes 100 * (current - previous) / previous, rounded
// to two decimal places. A Null or zero previous value leaves the
// change undefined and yields Null, never an error and never a zero;
// a Null current value is likewise Null. 0 -> 0 reads as Null, not 0%.
func PercentChange(current, previous value.Value) value.Value {
	prev, ok := value.AsFloat(previous)
	if !ok || prev == 0 {
		return value.Null{}
	}
	cur, ok := value.AsFloat(current)
	if !ok {
		return value.Null{}
	}
	pct := 100.0 * (cur - prev) / prev
	return value.Float(math.Round(pct*100) / 100)
}
