// Package call implements primitive (SUBR) registration and argument-arity
// dispatch: every built-in function the VM can CALL without entering the
// bytecode interpreter, keyed by name and tagged with the fixed arity
// (0-5 arguments, taken straight off the operand stack) or the variadic
// SUBRN arity, which receives its arguments as one Go slice (no cons list
// is built).
package call

import (
	"corevm/internal/value"
	"corevm/internal/vmerrors"
)

// Arity discriminates how a primitive receives its arguments.
type Arity int

const (
	// Arity0 through Arity5 receive exactly that many value.Value
	// arguments, taken directly off the operand stack; a primitive
	// registered at a fixed arity never sees a consed argument list.
	Arity0 Arity = iota
	Arity1
	Arity2
	Arity3
	Arity4
	Arity5
	// ArityN receives every argument of the call as a single Go slice,
	// in left-to-right order (the SUBRN calling convention); the
	// arguments are not consed into a Lisp list.
	ArityN
)

// Fn0..Fn5 and FnN are the primitive function shapes a Primitive wraps.
// Fixed-arity primitives never receive nil padding for missing arguments:
// the VM itself is responsible for raising missing-arg before calling a
// primitive short on operands (see CheckArity).
type (
	Fn0 func() (value.Value, error)
	Fn1 func(value.Value) (value.Value, error)
	Fn2 func(value.Value, value.Value) (value.Value, error)
	Fn3 func(value.Value, value.Value, value.Value) (value.Value, error)
	Fn4 func(value.Value, value.Value, value.Value, value.Value) (value.Value, error)
	Fn5 func(value.Value, value.Value, value.Value, value.Value, value.Value) (value.Value, error)
	FnN func([]value.Value) (value.Value, error)
)

// Primitive is one registered built-in: a name (for error messages and
// FUNCTIONP/SUBRP introspection), an arity tag, and exactly one of the
// Fn0..Fn5/FnN closures populated according to that tag.
type Primitive struct {
	Name  string
	Arity Arity

	fn0 Fn0
	fn1 Fn1
	fn2 Fn2
	fn3 Fn3
	fn4 Fn4
	fn5 Fn5
	fnN FnN
}

func New0(name string, fn Fn0) *Primitive { return &Primitive{Name: name, Arity: Arity0, fn0: fn} }
func New1(name string, fn Fn1) *Primitive { return &Primitive{Name: name, Arity: Arity1, fn1: fn} }
func New2(name string, fn Fn2) *Primitive { return &Primitive{Name: name, Arity: Arity2, fn2: fn} }
func New3(name string, fn Fn3) *Primitive { return &Primitive{Name: name, Arity: Arity3, fn3: fn} }
func New4(name string, fn Fn4) *Primitive { return &Primitive{Name: name, Arity: Arity4, fn4: fn} }
func New5(name string, fn Fn5) *Primitive { return &Primitive{Name: name, Arity: Arity5, fn5: fn} }
func NewN(name string, fn FnN) *Primitive { return &Primitive{Name: name, Arity: ArityN, fnN: fn} }

// ExpectedArgs reports the exact number of arguments a fixed-arity
// primitive expects; it is meaningless for ArityN (which accepts any
// count, possibly zero, as a slice).
func (p *Primitive) ExpectedArgs() int { return int(p.Arity) }

// Apply invokes p with args taken straight off the operand stack (by the
// VM's CALL handler, which checks the count with CheckArity and then
// pops exactly the CALL's n arguments, for fixed arities and ArityN
// alike).
func (p *Primitive) Apply(args []value.Value) (value.Value, error) {
	switch p.Arity {
	case Arity0:
		return p.fn0()
	case Arity1:
		return p.fn1(args[0])
	case Arity2:
		return p.fn2(args[0], args[1])
	case Arity3:
		return p.fn3(args[0], args[1], args[2])
	case Arity4:
		return p.fn4(args[0], args[1], args[2], args[3])
	case Arity5:
		return p.fn5(args[0], args[1], args[2], args[3], args[4])
	default:
		return p.fnN(args)
	}
}

// Registry is the global-name-to-primitive table the VM's CALL handler
// consults before falling back to a closure/compiled-function lookup on
// the callee symbol's value cell.
type Registry struct {
	byName map[string]*Primitive
}

func NewRegistry() *Registry { return &Registry{byName: make(map[string]*Primitive)} }

func (r *Registry) Register(p *Primitive) { r.byName[p.Name] = p }

func (r *Registry) Lookup(name string) (*Primitive, bool) {
	p, ok := r.byName[name]
	return p, ok
}

// CheckArity validates that got arguments is acceptable for p, returning a
// missing-arg or bad-arg LispError otherwise (ArityN always accepts any
// count including zero).
func (p *Primitive) CheckArity(got int) error {
	if p.Arity == ArityN {
		return nil
	}
	want := int(p.Arity)
	if got < want {
		return vmerrors.MissingArg(p.Name)
	}
	if got > want {
		return vmerrors.BadArg(p.Name, "too many arguments")
	}
	return nil
}
