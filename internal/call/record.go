package call

import (
	"corevm/internal/bytecode"
	"corevm/internal/env"
)

// Record is one entry in the VM's call stack, threaded independently of
// the Go host stack. The VM pushes a Record only for a non-tail call; a
// tail call reuses the current activation and pushes nothing
// (tail-call elimination gated on zero impurity, i.e. no live special or
// resource bindings in the current activation).
type Record struct {
	Fn       *bytecode.CompiledFunction
	Env      *env.Frame
	PC       int
	StackBase int // operand-stack depth at call entry, for RETURN to restore
	BindBase  int // binding-stack depth at call entry
	Impurity  int // count of special/resource bindings live in this call
	Next      *Record
}

// Push installs a new call record in front of top.
func Push(top *Record, fn *bytecode.CompiledFunction, e *env.Frame, stackBase, bindBase int) *Record {
	return &Record{Fn: fn, Env: e, StackBase: stackBase, BindBase: bindBase, Next: top}
}

// CanTailCall reports whether the current (topmost) record may be reused
// in place rather than pushed beneath a new one: only when it carries no
// outstanding impurity (no live special or resource binding to unwind).
func (r *Record) CanTailCall() bool { return r == nil || r.Impurity == 0 }
