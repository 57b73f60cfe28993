package tower

import (
	"math/big"

	"github.com/remyoudompheng/bigfft"
	"modernc.org/mathutil"

	"corevm/internal/value"
	"corevm/internal/vmerrors"
)

// bigfftDigitThreshold is the operand bit-length above which bignum
// multiplication is routed through bigfft's FFT multiplier instead of
// big.Int's schoolbook/Karatsuba Mul; below it, big.Int's own threshold
// selection already wins.
const bigfftDigitThreshold = 1 << 14 // bits

func bigMul(a, b *big.Int) *big.Int {
	if a.BitLen() > bigfftDigitThreshold && b.BitLen() > bigfftDigitThreshold {
		return bigfft.Mul(a, b)
	}
	return new(big.Int).Mul(a, b)
}

// Add implements +. Fixnum+fixnum takes the branch-free fast path; any
// overflow or mixed-kind operand falls through to the promoted wide path.
func Add(x, y value.Value) (value.Value, error) {
	if x.IsFixnum() && y.IsFixnum() {
		if v, ok := fixAdd(x.Fix(), y.Fix()); ok {
			return v, nil
		}
	}
	px, py, k := promote(x, y)
	switch k {
	case KindInt, KindBignum:
		return FromBigInt(new(big.Int).Add(toBig(px), toBig(py))), nil
	case KindRational:
		return FromBigRat(new(big.Rat).Add(toRat(px), toRat(py))), nil
	default:
		return NewFloat(toFloat(px) + toFloat(py)).AsValue(), nil
	}
}

func Sub(x, y value.Value) (value.Value, error) {
	if x.IsFixnum() && y.IsFixnum() {
		if v, ok := fixSub(x.Fix(), y.Fix()); ok {
			return v, nil
		}
	}
	px, py, k := promote(x, y)
	switch k {
	case KindInt, KindBignum:
		return FromBigInt(new(big.Int).Sub(toBig(px), toBig(py))), nil
	case KindRational:
		return FromBigRat(new(big.Rat).Sub(toRat(px), toRat(py))), nil
	default:
		return NewFloat(toFloat(px) - toFloat(py)).AsValue(), nil
	}
}

func Mul(x, y value.Value) (value.Value, error) {
	if x.IsFixnum() && y.IsFixnum() {
		a, b := x.Fix(), y.Fix()
		if a == 0 || b == 0 {
			return value.Fixnum(0), nil
		}
		p := a * b
		if p/b == a && p >= value.MinFix && p <= value.MaxFix {
			return value.Fixnum(p), nil
		}
	}
	px, py, k := promote(x, y)
	switch k {
	case KindInt, KindBignum:
		return FromBigInt(bigMul(toBig(px), toBig(py))), nil
	case KindRational:
		return FromBigRat(new(big.Rat).Mul(toRat(px), toRat(py))), nil
	default:
		return NewFloat(toFloat(px) * toFloat(py)).AsValue(), nil
	}
}

// Div implements ÷: exact/exact stays exact (producing a rational when the
// integer division is inexact); division by zero fails with
// arith-error(division-by-zero).
func Div(x, y value.Value) (value.Value, error) {
	px, py, k := promote(x, y)
	switch k {
	case KindFloat:
		d := toFloat(py)
		return NewFloat(toFloat(px) / d).AsValue(), nil
	default:
		ry := toRat(py)
		if ry.Sign() == 0 {
			return value.Value{}, vmerrors.DivisionByZero()
		}
		result := new(big.Rat).Quo(toRat(px), ry)
		return FromBigRat(result), nil
	}
}

func Neg(x value.Value) (value.Value, error) {
	if x.IsFixnum() {
		if v, ok := fixNeg(x.Fix()); ok {
			return v, nil
		}
	}
	switch KindOf(x) {
	case KindInt, KindBignum:
		return FromBigInt(new(big.Int).Neg(toBig(x))), nil
	case KindRational:
		return FromBigRat(new(big.Rat).Neg(toRat(x))), nil
	default:
		return NewFloat(-toFloat(x)).AsValue(), nil
	}
}

func Abs(x value.Value) (value.Value, error) {
	if NumberCmp(x, value.Fixnum(0)) < 0 {
		return Neg(x)
	}
	return x, nil
}

func Zerop(x value.Value) bool {
	switch KindOf(x) {
	case KindInt:
		return x.Fix() == 0
	case KindBignum:
		b, _ := BignumValue(x)
		return b.I.Sign() == 0
	case KindRational:
		r, _ := RationalValue(x)
		return r.R.Sign() == 0
	default:
		f, _ := FloatValue(x)
		return f.F == 0
	}
}

// Inc/Dec are the mandated 1+/1- fixnum fast paths.
func Inc(x value.Value) (value.Value, error) { return Add(x, value.Fixnum(1)) }
func Dec(x value.Value) (value.Value, error) { return Sub(x, value.Fixnum(1)) }

// Floor, Ceiling, Truncate, Round operate on exact rationals/integers and
// on floats, always returning an exact integer or a float of the same
// exactness family as the input (demoted when exact).
func Floor(x value.Value) (value.Value, error) {
	switch KindOf(x) {
	case KindInt, KindBignum:
		return x, nil
	case KindRational:
		r, _ := RationalValue(x)
		q := new(big.Int)
		m := new(big.Int)
		q.DivMod(r.R.Num(), r.R.Denom(), m) // Euclidean: floor for positive denom
		return FromBigInt(q), nil
	default:
		f, _ := FloatValue(x)
		return NewFloat(floorFloat(f.F)).AsValue(), nil
	}
}

func Ceiling(x value.Value) (value.Value, error) {
	switch KindOf(x) {
	case KindInt, KindBignum:
		return x, nil
	case KindRational:
		fl, err := Floor(x)
		if err != nil {
			return value.Value{}, err
		}
		r, _ := RationalValue(x)
		if r.R.IsInt() {
			return fl, nil
		}
		return Inc(fl)
	default:
		f, _ := FloatValue(x)
		return NewFloat(ceilFloat(f.F)).AsValue(), nil
	}
}

func Truncate(x value.Value) (value.Value, error) {
	switch KindOf(x) {
	case KindInt, KindBignum:
		return x, nil
	case KindRational:
		r, _ := RationalValue(x)
		q := new(big.Int).Quo(r.R.Num(), r.R.Denom())
		return FromBigInt(q), nil
	default:
		f, _ := FloatValue(x)
		if f.F < 0 {
			return NewFloat(ceilFloat(f.F)).AsValue(), nil
		}
		return NewFloat(floorFloat(f.F)).AsValue(), nil
	}
}

// Round implements banker's rounding: round(0.5)==0, round(1.5)==2,
// round(-0.5)==0.
func Round(x value.Value) (value.Value, error) {
	switch KindOf(x) {
	case KindInt, KindBignum:
		return x, nil
	case KindRational:
		r, _ := RationalValue(x)
		return FromBigInt(roundRatToEven(r.R)), nil
	default:
		f, _ := FloatValue(x)
		return NewFloat(roundFloatToEven(f.F)).AsValue(), nil
	}
}

func roundRatToEven(r *big.Rat) *big.Int {
	num := new(big.Int).Set(r.Num())
	den := new(big.Int).Set(r.Denom())
	q, rem := new(big.Int), new(big.Int)
	q.DivMod(num, den, rem) // floor division, rem in [0,den)
	twice := new(big.Int).Lsh(rem, 1)
	cmp := twice.Cmp(den)
	switch {
	case cmp < 0:
		return q
	case cmp > 0:
		return q.Add(q, big.NewInt(1))
	default: // exactly halfway: round to even
		if q.Bit(0) == 1 {
			q.Add(q, big.NewInt(1))
		}
		return q
	}
}

func roundFloatToEven(f float64) float64 {
	fl := floorFloat(f)
	diff := f - fl
	switch {
	case diff < 0.5:
		return fl
	case diff > 0.5:
		return fl + 1
	default:
		if int64(fl)%2 == 0 {
			return fl
		}
		return fl + 1
	}
}

// Mod implements x - y*floor(x/y); result sign matches y.
func Mod(x, y value.Value) (value.Value, error) {
	if Zerop(y) {
		return value.Value{}, vmerrors.DivisionByZero()
	}
	if x.IsFixnum() && y.IsFixnum() && x.Fix() != value.MinFix && y.Fix() != value.MinFix {
		a, b := x.Fix(), y.Fix()
		m := a % b
		if m != 0 && (m < 0) != (b < 0) {
			m += b
		}
		return value.Fixnum(m), nil
	}
	px, py, k := promote(x, y)
	if k == KindFloat {
		a, b := toFloat(px), toFloat(py)
		m := floatMod(a, b)
		if m != 0 && (m < 0) != (b < 0) {
			m += b
		}
		return NewFloat(m).AsValue(), nil
	}
	a, b := toBig(px), toBig(py)
	m := new(big.Int).Mod(a, b) // Go's Mod already returns result with sign of b for non-zero b? Euclidean mod is always >=0; adjust to y's sign
	if m.Sign() != 0 && b.Sign() < 0 {
		m.Add(m, b)
	}
	return FromBigInt(m), nil
}

// Remainder's sign follows the dividend; undefined (we signal) for a zero
// divisor.
func Remainder(x, y value.Value) (value.Value, error) {
	if Zerop(y) {
		return value.Value{}, vmerrors.DivisionByZero()
	}
	if x.IsFixnum() && y.IsFixnum() {
		return value.Fixnum(x.Fix() % y.Fix()), nil
	}
	px, py, k := promote(x, y)
	if k == KindFloat {
		a, b := toFloat(px), toFloat(py)
		return NewFloat(a - b*truncDiv(a, b)).AsValue(), nil
	}
	return FromBigInt(new(big.Int).Rem(toBig(px), toBig(py))), nil
}

func Quotient(x, y value.Value) (value.Value, error) {
	if Zerop(y) {
		return value.Value{}, vmerrors.DivisionByZero()
	}
	if x.IsFixnum() && y.IsFixnum() {
		return value.Fixnum(x.Fix() / y.Fix()), nil
	}
	px, py, k := promote(x, y)
	if k == KindFloat {
		return NewFloat(truncDiv(toFloat(px), toFloat(py))).AsValue(), nil
	}
	return FromBigInt(new(big.Int).Quo(toBig(px), toBig(py))), nil
}

// Ash is a signed arithmetic shift: positive n shifts left, negative
// right; fixnum overflow on a left shift promotes to bignum.
func Ash(x value.Value, n int) (value.Value, error) {
	b := toBig(x)
	var r *big.Int
	if n >= 0 {
		r = new(big.Int).Lsh(b, uint(n))
	} else {
		r = new(big.Int).Rsh(b, uint(-n))
	}
	return FromBigInt(r), nil
}

func Lognot(x value.Value) (value.Value, error) { return FromBigInt(new(big.Int).Not(toBig(x))), nil }

func Logior(x, y value.Value) (value.Value, error) {
	return FromBigInt(new(big.Int).Or(toBig(x), toBig(y))), nil
}

func Logxor(x, y value.Value) (value.Value, error) {
	return FromBigInt(new(big.Int).Xor(toBig(x), toBig(y))), nil
}

func Logand(x, y value.Value) (value.Value, error) {
	return FromBigInt(new(big.Int).And(toBig(x), toBig(y))), nil
}

// Logtest is the non-destructive logand used only for a zero/non-zero
// test.
func Logtest(x, y value.Value) bool {
	return new(big.Int).And(toBig(x), toBig(y)).Sign() != 0
}

// Gcd takes the machine-word fast path via modernc.org/mathutil when both
// operands are non-negative fixnums, falling back to big.Int.GCD otherwise.
func Gcd(x, y value.Value) (value.Value, error) {
	if x.IsFixnum() && y.IsFixnum() {
		a, b := x.Fix(), y.Fix()
		if a >= 0 && b >= 0 {
			return FromInt64(int64(mathutil.GCD(uint64(a), uint64(b)))), nil
		}
	}
	bx, by := toBig(x), toBig(y)
	bx.Abs(bx)
	by.Abs(by)
	return FromBigInt(new(big.Int).GCD(nil, nil, bx, by)), nil
}

// Isqrt is the exact integer square root; exact on perfect squares.
func Isqrt(x value.Value) (value.Value, error) {
	b := toBig(x)
	if b.Sign() < 0 {
		return value.Value{}, vmerrors.DomainError("isqrt of a negative integer")
	}
	return FromBigInt(new(big.Int).Sqrt(b)), nil
}

func Max(x, y value.Value) value.Value {
	if NumberCmp(x, y) >= 0 {
		return x
	}
	return y
}

func Min(x, y value.Value) value.Value {
	if NumberCmp(x, y) <= 0 {
		return x
	}
	return y
}

func floorFloat(f float64) float64 {
	i := int64(f)
	fi := float64(i)
	if fi > f {
		fi--
	}
	return fi
}

func ceilFloat(f float64) float64 {
	fl := floorFloat(f)
	if fl == f {
		return fl
	}
	return fl + 1
}

func truncDiv(a, b float64) float64 {
	q := a / b
	if q < 0 {
		return ceilFloat(q)
	}
	return floorFloat(q)
}

func floatMod(a, b float64) float64 {
	return a - b*floorFloat(a/b)
}
