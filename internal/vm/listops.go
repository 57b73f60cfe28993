package vm

import (
	"corevm/internal/value"
	"corevm/internal/vmerrors"
)

func car(v value.Value) (value.Value, error) {
	if v.IsNil() {
		return value.Nil, nil
	}
	c, ok := value.ConsValue(v)
	if !ok {
		return value.Value{}, vmerrors.BadArg("car", "not a list")
	}
	return c.Car, nil
}

func cdr(v value.Value) (value.Value, error) {
	if v.IsNil() {
		return value.Nil, nil
	}
	c, ok := value.ConsValue(v)
	if !ok {
		return value.Value{}, vmerrors.BadArg("cdr", "not a list")
	}
	return c.Cdr, nil
}

// cxr applies a sequence of car('a')/cdr('d') steps, read right-to-left as
// the combo name itself is (e.g. "ad" for cadr = car(cdr(x))).
func cxr(v value.Value, path string) (value.Value, error) {
	for i := len(path) - 1; i >= 0; i-- {
		var err error
		if path[i] == 'a' {
			v, err = car(v)
		} else {
			v, err = cdr(v)
		}
		if err != nil {
			return value.Value{}, err
		}
	}
	return v, nil
}

func nth(v value.Value, n int) (value.Value, error) {
	for ; n > 0; n-- {
		var err error
		v, err = cdr(v)
		if err != nil {
			return value.Value{}, err
		}
	}
	return car(v)
}

func nthcdr(v value.Value, n int) (value.Value, error) {
	for ; n > 0; n-- {
		var err error
		v, err = cdr(v)
		if err != nil {
			return value.Value{}, err
		}
	}
	return v, nil
}

func listLength(v value.Value) (int, error) {
	n := 0
	for !v.IsNil() {
		c, ok := value.ConsValue(v)
		if !ok {
			return 0, vmerrors.BadArg("length", "improper list")
		}
		n++
		v = c.Cdr
	}
	return n, nil
}

func reverseList(v value.Value) value.Value {
	result := value.Nil
	for !v.IsNil() {
		c, ok := value.ConsValue(v)
		if !ok {
			break
		}
		result = value.NewCons(c.Car, result).AsValue()
		v = c.Cdr
	}
	return result
}

func member(item, list value.Value, eq func(a, b value.Value) bool) value.Value {
	for !list.IsNil() {
		c, ok := value.ConsValue(list)
		if !ok {
			return value.Nil
		}
		if eq(item, c.Car) {
			return list
		}
		list = c.Cdr
	}
	return value.Nil
}

func assoc(key, alist value.Value, eq func(a, b value.Value) bool) value.Value {
	for !alist.IsNil() {
		c, ok := value.ConsValue(alist)
		if !ok {
			return value.Nil
		}
		if pair, ok := value.ConsValue(c.Car); ok && eq(key, pair.Car) {
			return c.Car
		}
		alist = c.Cdr
	}
	return value.Nil
}

func rassoc(val, alist value.Value, eq func(a, b value.Value) bool) value.Value {
	for !alist.IsNil() {
		c, ok := value.ConsValue(alist)
		if !ok {
			return value.Nil
		}
		if pair, ok := value.ConsValue(c.Car); ok && eq(val, pair.Cdr) {
			return c.Car
		}
		alist = c.Cdr
	}
	return value.Nil
}

func lastPair(v value.Value) value.Value {
	for {
		c, ok := value.ConsValue(v)
		if !ok {
			return v
		}
		if c.Cdr.IsNil() || !c.Cdr.IsCons() {
			return v
		}
		v = c.Cdr
	}
}

func copySequence(v value.Value) (value.Value, error) {
	switch {
	case v.IsNil() || v.IsCons():
		vs, ok := value.ToSlice(v)
		if !ok {
			return value.Value{}, vmerrors.BadArg("copy-sequence", "improper list")
		}
		return value.List(vs...), nil
	case v.IsVector():
		vec, _ := value.VectorValue(v)
		cp := make([]value.Value, len(vec.Slots))
		copy(cp, vec.Slots)
		return value.VectorOf(cp).AsValue(), nil
	case v.IsString():
		s, _ := value.StringValue(v)
		return value.NewString(s.String()).AsValue(), nil
	default:
		return value.Value{}, vmerrors.BadArg("copy-sequence", "not a sequence")
	}
}
