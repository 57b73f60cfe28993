package tower

import (
	"math/big"
	"math/rand"

	"corevm/internal/value"
	"corevm/internal/vmerrors"
)

// Random implements the tower-adjacent `random` primitive: given a
// positive exact integer bound, returns a uniformly distributed exact
// integer in [0, bound). It is deliberately NOT opcode-bound (no
// dedicated bytecode instruction) — an ordinary primitive call like any
// other SUBR.
func Random(bound value.Value, src *rand.Rand) (value.Value, error) {
	if NumberCmp(bound, value.Fixnum(0)) <= 0 {
		return value.Value{}, vmerrors.BadArg("random", "bound must be positive")
	}
	if bound.IsFixnum() {
		n := bound.Fix()
		return value.Fixnum(src.Int63n(n)), nil
	}
	b, _ := BignumValue(bound)
	r := new(big.Int).Rand(src, b.I)
	return FromBigInt(r), nil
}
