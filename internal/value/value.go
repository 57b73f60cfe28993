// Package value implements the tagged uniform value representation shared
// by the bytecode VM and the numeric tower: a small struct that holds a
// fixnum directly (no heap touch) or a pointer to a heap Object, plus the
// handful of distinguished singletons the core needs.
package value

// Kind discriminates a Value without dereferencing any pointer.
type Kind uint8

const (
	KindNil Kind = iota
	KindT
	KindVoid        // unbound special marker
	KindNull        // "exception raised, value invalid" sentinel
	KindSchemeFalse // distinct false singleton tested by SCM-TEST
	KindFixnum
	KindHeap
)

// Fixnum range: two fewer bits than a machine word (a 62-bit signed
// range), matching the "tagged pointer steals bits" representation even though this
// representation does not itself steal bits from a machine word.
const (
	fixnumBits = 61
	MaxFix     = int64(1)<<fixnumBits - 1
	MinFix     = -(int64(1) << fixnumBits)
)

// Value is deliberately small and copyable: the fixnum fast path never
// allocates, since passing a Value around is just copying these four
// words (kind, fixnum, and the two-word interface).
type Value struct {
	kind Kind
	fx   int64
	obj  Object
}

var (
	Nil         = Value{kind: KindNil}
	T           = Value{kind: KindT}
	Void        = Value{kind: KindVoid}
	Null        = Value{kind: KindNull}
	SchemeFalse = Value{kind: KindSchemeFalse}
)

// Fixnum returns a fixnum Value, panicking if n is out of fixnum range; use
// tower.FromInt64 when n might need to promote to a bignum instead.
func Fixnum(n int64) Value {
	if n < MinFix || n > MaxFix {
		panic("value: fixnum out of range")
	}
	return Value{kind: KindFixnum, fx: n}
}

// Heap wraps a heap Object in a Value.
func Heap(o Object) Value {
	return Value{kind: KindHeap, obj: o}
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsFixnum() bool      { return v.kind == KindFixnum }
func (v Value) IsNil() bool         { return v.kind == KindNil }
func (v Value) IsT() bool           { return v.kind == KindT }
func (v Value) IsVoid() bool        { return v.kind == KindVoid }
func (v Value) IsNull() bool        { return v.kind == KindNull }
func (v Value) IsSchemeFalse() bool { return v.kind == KindSchemeFalse }
func (v Value) IsHeap() bool        { return v.kind == KindHeap }

// Fix returns the fixnum payload; callers must check IsFixnum first.
func (v Value) Fix() int64 { return v.fx }

// Obj returns the heap object payload; callers must check IsHeap first.
func (v Value) Obj() Object { return v.obj }

// Falsy implements the NOT/NULL notion of falsehood: only Nil is false.
func (v Value) Falsy() bool { return v.kind == KindNil }

// SchemeFalsy implements SCM-TEST's notion of falsehood: only the distinct
// SchemeFalse singleton is false (Nil is a normal truthy empty-list value
// under R7RS-style boolean semantics).
func (v Value) SchemeFalsy() bool { return v.kind == KindSchemeFalse }

func (v Value) ObjKind() (ObjectKind, bool) {
	if v.kind != KindHeap || v.obj == nil {
		return 0, false
	}
	return v.obj.ObjKind(), true
}

func (v Value) objKindIs(k ObjectKind) bool {
	ok, present := v.ObjKind()
	return present && ok == k
}

func (v Value) IsCons() bool     { return v.objKindIs(ObjCons) }
func (v Value) IsSymbol() bool   { return v.objKindIs(ObjSymbol) }
func (v Value) IsVector() bool   { return v.objKindIs(ObjVector) }
func (v Value) IsString() bool   { return v.objKindIs(ObjString) }
func (v Value) IsClosure() bool  { return v.objKindIs(ObjClosure) }
func (v Value) IsCompiled() bool { return v.objKindIs(ObjCompiled) }
func (v Value) IsBignum() bool   { return v.objKindIs(ObjBignum) }
func (v Value) IsRational() bool { return v.objKindIs(ObjRational) }
func (v Value) IsFloat() bool    { return v.objKindIs(ObjFloat) }

// IsNumber reports whether v is a fixnum or one of the wide numeric kinds.
func (v Value) IsNumber() bool {
	if v.IsFixnum() {
		return true
	}
	switch k, ok := v.ObjKind(); {
	case !ok:
		return false
	default:
		return k == ObjBignum || k == ObjRational || k == ObjFloat
	}
}

// Eq implements pointer/fixnum identity comparison (EQ opcode): fixnums and
// singletons compare by value, heap objects by pointer identity.
func Eq(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindFixnum:
		return a.fx == b.fx
	case KindHeap:
		return a.obj == b.obj
	default:
		return true // both are the same singleton kind
	}
}
