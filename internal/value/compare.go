package value

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Kind ordering for cross-kind comparison: Null < Bool < numeric < String.
// Int and Float share a rank and compare numerically.
func kindRank(v Value) int {
	switch v.(type) {
	case Null, nil:
		return 0
	case Bool:
		return 1
	case Int, Float:
		return 2
	case String:
		return 3
	default:
		return 4
	}
}

// Compare defines the total order used by order_by and window ordering.
// Null sorts before everything; Int and Float compare numerically across
// kinds; strings compare bytewise after NFC normalization so that
// differently-composed text sorts identically.
func Compare(a, b Value) int {
	ra, rb := kindRank(a), kindRank(b)
	if ra != rb {
		if ra < rb {
			return -1
		}
		return 1
	}

	switch av := a.(type) {
	case Null, nil:
		return 0
	case Bool:
		bv := bool(b.(Bool))
		if bool(av) == bv {
			return 0
		}
		if !bool(av) {
			return -1
		}
		return 1
	case Int, Float:
		fa, _ := AsFloat(a)
		fb, _ := AsFloat(b)
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		default:
			return 0
		}
	case String:
		sa := norm.NFC.String(string(av))
		sb := norm.NFC.String(string(b.(String)))
		return strings.Compare(sa, sb)
	default:
		return 0
	}
}

// Equal reports group-key equality. Int(2) equals Float(2.0); strings
// are NFC-normalized before comparison, matching EncodeKey.
func Equal(a, b Value) bool {
	return Compare(a, b) == 0
}
