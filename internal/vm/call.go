package vm

import (
	"corevm/internal/bytecode"
	"corevm/internal/call"
	"corevm/internal/env"
	"corevm/internal/value"
	"corevm/internal/vmerrors"
)

// doCall implements CALL n, including tail-call elimination: pop the
// callee, leave its n arguments in place on the operand stack for the
// callee's own prologue to bind, and either invoke a primitive directly
// or enter (or reuse, in tail position) an activation for a closure or
// bare compiled function.
func (s *State) doCall(argc int, tailPosition bool) error {
	callee := s.pop()

	switch {
	case callee.IsSymbol():
		sym, _ := value.SymbolValue(callee)
		if prim, ok := s.Registry.Lookup(sym.Name); ok {
			if err := prim.CheckArity(argc); err != nil {
				return s.raise(err.(*vmerrors.LispError))
			}
			args := s.popN(argc)
			result, err := prim.Apply(args)
			if err != nil {
				if lerr, ok := err.(*vmerrors.LispError); ok {
					return s.raise(lerr)
				}
				return s.raise(vmerrors.Wrap(err, vmerrors.KindError))
			}
			s.push(result)
			return nil
		}
		// not a registered primitive: fall back to the symbol's own
		// value cell, which may hold a closure or bare compiled
		// function bound by a top-level definition.
		if sym.Value.IsVoid() {
			return s.raise(vmerrors.InvalidFunction(sym.Name))
		}
		s.push(sym.Value)
		return s.doCall(argc, tailPosition)

	case callee.IsClosure():
		cl, _ := env.ClosureValue(callee)
		return s.enterActivation(cl.Fn, cl.Env, argc, tailPosition)

	case callee.IsCompiled():
		fn, _ := bytecode.CompiledFunctionValue(callee)
		return s.enterActivation(fn, nil, argc, tailPosition)

	default:
		return s.raise(vmerrors.InvalidFunction("not a function"))
	}
}

// enterActivation sets up the next activation to run fn's code against
// its own argc arguments, which remain on the operand stack exactly as
// CALL found them (fn's own bytecode prologue binds them via BIND). In
// tail position, with zero impurity (no live special or resource
// binding) in the current activation, the current activation is reused in place instead
// of pushing a call.Record — the host Go stack never grows on a Lisp
// tail call.
func (s *State) enterActivation(fn *bytecode.CompiledFunction, lexEnv *env.Frame, argc int, tailPosition bool) error {
	if tailPosition && s.Act.Impurity == 0 {
		// the activation being discarded owns every binding pushed since
		// it began; its lexical/special bindings target an Env this reuse
		// is about to overwrite, so they must unwind now or the binding
		// stack would grow without bound across a tail-recursive loop.
		s.unwindBindingTo(s.Act.BindBase)
		s.Act = Activation{
			Fn:        fn,
			Env:       lexEnv,
			PC:        0,
			StackBase: len(s.Operand) - argc,
			BindBase:  s.Binding.Depth(),
		}
		return nil
	}

	newAct := Activation{
		Fn:        fn,
		Env:       lexEnv,
		PC:        0,
		StackBase: len(s.Operand) - argc,
		BindBase:  s.Binding.Depth(),
	}

	if err := s.checkDepth(); err != nil {
		return s.raise(err.(*vmerrors.LispError))
	}
	s.Calls = call.Push(s.Calls, s.Act.Fn, s.Act.Env, s.Act.StackBase, s.Act.BindBase)
	s.Calls.PC = s.Act.PC
	s.Calls.Impurity = s.Act.Impurity
	s.callDepth++
	s.Act = newAct
	return nil
}

// doReturn implements RETURN: pop the result, unwind the returning
// activation's bindings and operand slots, restore the caller's
// activation (or end Run at the top level), and splice the result back
// onto the operand stack at the call's original depth.
func (s *State) doReturn() (done bool, result value.Value) {
	result = s.pop()
	s.unwindBindingTo(s.Act.BindBase)
	s.truncateOperand(s.Act.StackBase)
	if s.Calls == nil {
		return true, result
	}
	rec := s.Calls
	s.Calls = rec.Next
	s.callDepth--
	s.Act = Activation{Fn: rec.Fn, Env: rec.Env, PC: rec.PC, StackBase: rec.StackBase, BindBase: rec.BindBase, Impurity: rec.Impurity}
	s.push(result)
	return false, value.Value{}
}
