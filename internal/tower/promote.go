package tower

import (
	"math/big"

	"corevm/internal/value"
)

// toBig converts any INT/BIGNUM value to a *big.Int.
func toBig(v value.Value) *big.Int {
	if v.IsFixnum() {
		return big.NewInt(v.Fix())
	}
	b, _ := BignumValue(v)
	return new(big.Int).Set(b.I)
}

// toRat converts any INT/BIGNUM/RATIONAL value to a *big.Rat.
func toRat(v value.Value) *big.Rat {
	switch KindOf(v) {
	case KindInt, KindBignum:
		return new(big.Rat).SetInt(toBig(v))
	default:
		r, _ := RationalValue(v)
		return new(big.Rat).Set(r.R)
	}
}

// toFloat converts any numeric value to a float64.
func toFloat(v value.Value) float64 {
	switch KindOf(v) {
	case KindInt:
		return float64(v.Fix())
	case KindBignum:
		b, _ := BignumValue(v)
		f := new(big.Float).SetInt(b.I)
		r, _ := f.Float64()
		return r
	case KindRational:
		r, _ := RationalValue(v)
		f, _ := r.R.Float64()
		return f
	default:
		fl, _ := FloatValue(v)
		return fl.F
	}
}

// widest returns the wider of two tower kinds.
func widest(a, b Kind) Kind {
	if a > b {
		return a
	}
	return b
}

// promote widens x and y to the wider of their two kinds, returning values
// of that common kind ready for a same-kind operation.
func promote(x, y value.Value) (value.Value, value.Value, Kind) {
	kx, ky := KindOf(x), KindOf(y)
	k := widest(kx, ky)
	return widenTo(x, k), widenTo(y, k), k
}

func widenTo(v value.Value, k Kind) value.Value {
	if KindOf(v) == k {
		return v
	}
	switch k {
	case KindBignum:
		return NewBignum(toBig(v)).AsValue()
	case KindRational:
		return NewRational(toRat(v)).AsValue()
	case KindFloat:
		return NewFloat(toFloat(v)).AsValue()
	default:
		return v
	}
}

// MaybeDemote narrows a freshly-computed numeric value as far as it will
// go: a rational with denominator 1 becomes a bignum, and a bignum whose
// magnitude fits a fixnum becomes a fixnum. It is idempotent.
func MaybeDemote(v value.Value) value.Value {
	switch KindOf(v) {
	case KindRational:
		r, _ := RationalValue(v)
		if r.R.IsInt() {
			return MaybeDemote(NewBignum(new(big.Int).Set(r.R.Num())).AsValue())
		}
		return v
	case KindBignum:
		b, _ := BignumValue(v)
		if b.I.IsInt64() {
			n := b.I.Int64()
			if n >= value.MinFix && n <= value.MaxFix {
				return value.Fixnum(n)
			}
		}
		return v
	default:
		return v
	}
}

// FromBigInt builds a (demoted) numeric value from a *big.Int, the common
// path every exact integer operation below funnels its raw result through.
func FromBigInt(i *big.Int) value.Value {
	return MaybeDemote(NewBignum(i).AsValue())
}

// FromBigRat builds a (demoted) numeric value from a *big.Rat.
func FromBigRat(r *big.Rat) value.Value {
	return MaybeDemote(NewRational(r).AsValue())
}

// FromInt64 builds a fixnum if n is in range, else a bignum.
func FromInt64(n int64) value.Value {
	if n >= value.MinFix && n <= value.MaxFix {
		return value.Fixnum(n)
	}
	return NewBignum(big.NewInt(n)).AsValue()
}
