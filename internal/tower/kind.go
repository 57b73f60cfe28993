// Package tower implements the numeric tower: fixnum fast paths plus
// bignum, rational, and float heap cells, with promotion, demotion,
// parsing, printing, arithmetic, and comparison. Large-bignum
// multiplication delegates to github.com/remyoudompheng/bigfft and the
// machine-word gcd fast path delegates to modernc.org/mathutil.
package tower

import "math/big"

import "corevm/internal/value"

// Kind orders the four numeric kinds by width.
type Kind uint8

const (
	KindInt Kind = iota
	KindBignum
	KindRational
	KindFloat
)

// Bignum is an arbitrary-precision integer heap cell.
type Bignum struct {
	value.Header
	I *big.Int
}

func NewBignum(i *big.Int) *Bignum {
	return &Bignum{Header: value.NewHeader(value.ObjBignum), I: i}
}

func (b *Bignum) AsValue() value.Value { return value.Heap(b) }

func BignumValue(v value.Value) (*Bignum, bool) {
	if !v.IsBignum() {
		return nil, false
	}
	return v.Obj().(*Bignum), true
}

// Rational is an exact numerator/denominator pair; the denominator is
// always positive and the fraction always reduced (big.Rat keeps it
// normalized).
type Rational struct {
	value.Header
	R *big.Rat
}

func NewRational(r *big.Rat) *Rational {
	return &Rational{Header: value.NewHeader(value.ObjRational), R: r}
}

func (r *Rational) AsValue() value.Value { return value.Heap(r) }

func RationalValue(v value.Value) (*Rational, bool) {
	if !v.IsRational() {
		return nil, false
	}
	return v.Obj().(*Rational), true
}

// Float is an IEEE double precision heap cell.
type Float struct {
	value.Header
	F float64
}

func NewFloat(f float64) *Float {
	return &Float{Header: value.NewHeader(value.ObjFloat), F: f}
}

func (f *Float) AsValue() value.Value { return value.Heap(f) }

func FloatValue(v value.Value) (*Float, bool) {
	if !v.IsFloat() {
		return nil, false
	}
	return v.Obj().(*Float), true
}

// KindOf classifies a numeric Value; callers must already know v.IsNumber().
func KindOf(v value.Value) Kind {
	if v.IsFixnum() {
		return KindInt
	}
	switch k, _ := v.ObjKind(); k {
	case value.ObjBignum:
		return KindBignum
	case value.ObjRational:
		return KindRational
	case value.ObjFloat:
		return KindFloat
	default:
		panic("tower: KindOf called on a non-numeric value")
	}
}
