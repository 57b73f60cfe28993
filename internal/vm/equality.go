package vm

import (
	"corevm/internal/tower"
	"corevm/internal/value"
)

// eql is EQ for non-numbers, numeric equality for numbers of the same
// tower kind; numbers of different kinds (1 and 1.0) are never eql.
func eql(a, b value.Value) bool {
	if a.IsNumber() && b.IsNumber() {
		return tower.KindOf(a) == tower.KindOf(b) && tower.NumberCmp(a, b) == 0
	}
	return value.Eq(a, b)
}

// deepEqual is EQUAL: structural equality over conses, vectors, and
// strings, numeric equality for numbers, Eq otherwise.
func deepEqual(a, b value.Value) bool {
	switch {
	case a.IsNumber() && b.IsNumber():
		return tower.NumberCmp(a, b) == 0
	case a.IsCons() && b.IsCons():
		ca, _ := value.ConsValue(a)
		cb, _ := value.ConsValue(b)
		return deepEqual(ca.Car, cb.Car) && deepEqual(ca.Cdr, cb.Cdr)
	case a.IsVector() && b.IsVector():
		va, _ := value.VectorValue(a)
		vb, _ := value.VectorValue(b)
		if va.Len() != vb.Len() {
			return false
		}
		for i := range va.Slots {
			if !deepEqual(va.Slots[i], vb.Slots[i]) {
				return false
			}
		}
		return true
	case a.IsString() && b.IsString():
		sa, _ := value.StringValue(a)
		sb, _ := value.StringValue(b)
		return sa.String() == sb.String()
	default:
		return value.Eq(a, b)
	}
}

func boolValue(b bool) value.Value {
	if b {
		return value.T
	}
	return value.Nil
}
