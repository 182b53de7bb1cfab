package value

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Value is a sealed interface over the cell types a dataset may hold.
// Only Null, String, Int, Float, and Bool implement it. Nullable source
// columns produce Null cells, which group and sort as ordinary values.
type Value interface {
	value() // Sealed - only these types implement it
}

// Null represents an absent cell. Using an explicit type (rather than a
// nil interface) keeps every cell a valid Value.
type Null struct{}

func (Null) value() {}

// MarshalJSON implements json.Marshaler for Null.
func (Null) MarshalJSON() ([]byte, error) {
	return []byte("null"), nil
}

// String represents a text cell.
type String string

func (String) value() {}

// Int represents an integer cell. Always int64.
type Int int64

func (Int) value() {}

// Float represents a floating-point cell. Produced by AVG and
// percent-change computations; source columns may also carry floats.
type Float float64

func (Float) value() {}

// Bool represents a boolean cell.
type Bool bool

func (Bool) value() {}

// MarshalValue marshals a Value to JSON bytes.
// Uses type-switch dispatch to handle all Value types.
func MarshalValue(v Value) ([]byte, error) {
	switch val := v.(type) {
	case Null:
		return []byte("null"), nil
	case String:
		return json.Marshal(string(val))
	case Int:
		return json.Marshal(int64(val))
	case Float:
		return json.Marshal(float64(val))
	case Bool:
		return json.Marshal(bool(val))
	default:
		return nil, fmt.Errorf("unknown Value type: %T", v)
	}
}

// IsNull reports whether v is the Null value.
func IsNull(v Value) bool {
	_, ok := v.(Null)
	return ok || v == nil
}

// Render returns the human-readable text form of a value.
// Null renders as the empty string.
func Render(v Value) string {
	switch val := v.(type) {
	case Null:
		return ""
	case String:
		return string(val)
	case Int:
		return strconv.FormatInt(int64(val), 10)
	case Float:
		return strconv.FormatFloat(float64(val), 'f', -1, 64)
	case Bool:
		return strconv.FormatBool(bool(val))
	default:
		return fmt.Sprintf("%v", v)
	}
}

// AsFloat converts a numeric value to float64.
// Returns false for Null and non-numeric kinds.
func AsFloat(v Value) (float64, bool) {
	switch val := v.(type) {
	case Int:
		return float64(val), true
	case Float:
		return float64(val), true
	default:
		return 0, false
	}
}

// FromAny converts a decoded Go value (e.g. from YAML or JSON) to a Value.
// nil becomes Null; integers stay Int, floats stay Float.
func FromAny(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return Null{}, nil
	case string:
		return String(val), nil
	case bool:
		return Bool(val), nil
	case int:
		return Int(val), nil
	case int64:
		return Int(val), nil
	case float64:
		// YAML and JSON decoders hand back float64 for every number;
		// keep integral values as Int so group keys stay stable.
		if val == float64(int64(val)) {
			return Int(int64(val)), nil
		}
		return Float(val), nil
	case Value:
		return val, nil
	default:
		return nil, fmt.Errorf("unsupported value type: %T", v)
	}
}
