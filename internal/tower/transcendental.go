package tower

import (
	"math"

	"corevm/internal/value"
	"corevm/internal/vmerrors"
)

// Transcendental functions always return a float, even when given an
// exact argument: there are no exact transcendentals.

func Exp(x value.Value) value.Value { return NewFloat(math.Exp(toFloat(x))).AsValue() }

func Log(x value.Value) (value.Value, error) {
	f := toFloat(x)
	if f <= 0 {
		return value.Value{}, vmerrors.DomainError("log of a non-positive number")
	}
	return NewFloat(math.Log(f)).AsValue(), nil
}

func Sin(x value.Value) value.Value { return NewFloat(math.Sin(toFloat(x))).AsValue() }
func Cos(x value.Value) value.Value { return NewFloat(math.Cos(toFloat(x))).AsValue() }
func Tan(x value.Value) value.Value { return NewFloat(math.Tan(toFloat(x))).AsValue() }

func Asin(x value.Value) (value.Value, error) {
	f := toFloat(x)
	if f < -1 || f > 1 {
		return value.Value{}, vmerrors.DomainError("asin outside [-1, 1]")
	}
	return NewFloat(math.Asin(f)).AsValue(), nil
}

func Acos(x value.Value) (value.Value, error) {
	f := toFloat(x)
	if f < -1 || f > 1 {
		return value.Value{}, vmerrors.DomainError("acos outside [-1, 1]")
	}
	return NewFloat(math.Acos(f)).AsValue(), nil
}

func Atan(x value.Value) value.Value { return NewFloat(math.Atan(toFloat(x))).AsValue() }

// Atan2 is the two-argument arctangent used for the quadrant-correct form.
func Atan2(y, x value.Value) value.Value {
	return NewFloat(math.Atan2(toFloat(y), toFloat(x))).AsValue()
}

// Sqrt signals a domain error for a negative argument and otherwise
// returns a float; exact perfect-square integers still widen to float here (Isqrt is the exact
// counterpart for integers, in arith.go).
func Sqrt(x value.Value) (value.Value, error) {
	f := toFloat(x)
	if f < 0 {
		return value.Value{}, vmerrors.DomainError("sqrt of a negative number")
	}
	return NewFloat(math.Sqrt(f)).AsValue(), nil
}

// Expt raises x to the y power; an integer exponent on an exact base stays
// exact (repeated squaring via Mul), otherwise the result widens to float.
func Expt(x, y value.Value) (value.Value, error) {
	if y.IsFixnum() && KindOf(x) != KindFloat {
		n := y.Fix()
		if n >= 0 {
			return exactExpt(x, n)
		}
		inv, err := exactExpt(x, -n)
		if err != nil {
			return value.Value{}, err
		}
		return Div(value.Fixnum(1), inv)
	}
	base, exp := toFloat(x), toFloat(y)
	if base < 0 && exp != math.Trunc(exp) {
		return value.Value{}, vmerrors.DomainError("expt of a negative base to a non-integer power")
	}
	return NewFloat(math.Pow(base, exp)).AsValue(), nil
}

func exactExpt(base value.Value, n int64) (value.Value, error) {
	result := value.Fixnum(1)
	b := base
	for n > 0 {
		if n&1 == 1 {
			var err error
			result, err = Mul(result, b)
			if err != nil {
				return value.Value{}, err
			}
		}
		n >>= 1
		if n > 0 {
			var err error
			b, err = Mul(b, b)
			if err != nil {
				return value.Value{}, err
			}
		}
	}
	return result, nil
}
