package tower

import (
	"strconv"
	"strings"

	"corevm/internal/value"
)

// PrintNumber renders v in the given radix (2-36, ignored for floats, which
// are always printed in base 10). Rationals print as "num/den"; floats
// always contain a "." or an "e" so the printed form round-trips as a
// float rather than an integer.
func PrintNumber(v value.Value, radix int) string {
	switch KindOf(v) {
	case KindInt:
		return strconv.FormatInt(v.Fix(), radix)
	case KindBignum:
		b, _ := BignumValue(v)
		return b.I.Text(radix)
	case KindRational:
		r, _ := RationalValue(v)
		return r.R.Num().Text(radix) + "/" + r.R.Denom().Text(radix)
	default:
		f, _ := FloatValue(v)
		return formatFloat(f.F)
	}
}

func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if strings.ContainsAny(s, ".eE") || strings.Contains(s, "Inf") || strings.Contains(s, "NaN") {
		return s
	}
	return s + "."
}
