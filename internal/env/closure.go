package env

import (
	"corevm/internal/bytecode"
	"corevm/internal/value"
)

// Closure is the (function, environment-snapshot) heap object ENCLOSE/
// MAKE-CLOSURE produce: a compiled function paired with the lexical
// environment chain in effect when it was closed over.
type Closure struct {
	value.Header
	Fn  *bytecode.CompiledFunction
	Env *Frame
}

func NewClosure(fn *bytecode.CompiledFunction, e *Frame) *Closure {
	return &Closure{Header: value.NewHeader(value.ObjClosure), Fn: fn, Env: e}
}

func (c *Closure) AsValue() value.Value { return value.Heap(c) }

func ClosureValue(v value.Value) (*Closure, bool) {
	if !v.IsClosure() {
		return nil, false
	}
	return v.Obj().(*Closure), true
}
