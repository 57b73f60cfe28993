package tower

import (
	"golang.org/x/exp/constraints"

	"corevm/internal/value"
)

// addOverflows/subOverflows are written once over any signed integer width
// via golang.org/x/exp/constraints instead of duplicating the overflow
// check per width; the VM only ever instantiates them at int64 (a
// fixnum's payload width), but the generic form is what a second fixnum
// representation (e.g. a 32-bit build) would reuse unchanged.
func addOverflows[T constraints.Signed](a, b T) bool {
	sum := a + b
	return (b > 0 && sum < a) || (b < 0 && sum > a)
}

func subOverflows[T constraints.Signed](a, b T) bool {
	diff := a - b
	return (b < 0 && diff < a) || (b > 0 && diff > a)
}

// fixAdd is the mandated fixnum+fixnum fast path: no heap allocation when
// the sum is still in fixnum range, falling through to the wide path (via
// ok=false) on overflow past either the int64 host boundary or the
// narrower fixnum boundary.
func fixAdd(a, b int64) (value.Value, bool) {
	if addOverflows(a, b) {
		return value.Value{}, false
	}
	sum := a + b
	if sum < value.MinFix || sum > value.MaxFix {
		return value.Value{}, false
	}
	return value.Fixnum(sum), true
}

func fixSub(a, b int64) (value.Value, bool) {
	if subOverflows(a, b) {
		return value.Value{}, false
	}
	diff := a - b
	if diff < value.MinFix || diff > value.MaxFix {
		return value.Value{}, false
	}
	return value.Fixnum(diff), true
}

func fixNeg(a int64) (value.Value, bool) {
	if a == value.MinFix {
		return value.Value{}, false
	}
	n := -a
	if n < value.MinFix || n > value.MaxFix {
		return value.Value{}, false
	}
	return value.Fixnum(n), true
}

// fixCmp compares two fixnums without promotion: the ordering fast path
// mandated alongside +/-/1+/1-.
func fixCmp(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
