package tower

import (
	"corevm/internal/value"
)

// NumberCmp returns -1, 0, or 1 for x<y, x==y, x>y, comparing across kinds
// by promoting to the wider one first. Callers must already know both
// values are numeric (v.IsNumber()).
func NumberCmp(x, y value.Value) int {
	if x.IsFixnum() && y.IsFixnum() {
		return fixCmp(x.Fix(), y.Fix())
	}
	px, py, k := promote(x, y)
	switch k {
	case KindInt, KindBignum:
		return toBig(px).Cmp(toBig(py))
	case KindRational:
		return toRat(px).Cmp(toRat(py))
	default:
		a, b := toFloat(px), toFloat(py)
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		default:
			return 0
		}
	}
}

func NumberEq(x, y value.Value) bool { return NumberCmp(x, y) == 0 }
