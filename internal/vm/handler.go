package vm

import (
	"corevm/internal/env"
	"corevm/internal/value"
	"corevm/internal/vmerrors"
)

// unwindBindingTo pops binding-stack entries down to depth, driving the
// lexical env chain, the dynamic special chain, and resource release
// hooks as it goes — the one place that actually interprets what an
// env.Entry means (env.Stack.Truncate only knows about resource release).
func (s *State) unwindBindingTo(depth int) {
	for s.Binding.Depth() > depth {
		e, _ := s.Binding.Pop()
		switch e.Kind {
		case env.EntryFrame:
			for i := 0; i < e.Lexicals; i++ {
				s.Act.Env = s.Act.Env.Next
			}
			for i := 0; i < e.Specials; i++ {
				s.Special = env.UnbindSpecial(s.Special)
			}
			s.Act.Impurity -= e.Specials
		case env.EntryResource:
			if e.Release != nil {
				e.Release()
			}
			s.Act.Impurity--
		case env.EntryMark, env.EntryHandler, env.EntryCatch:
			// pure delimiters; nothing to undo beyond popping them
		}
	}
}

// unwindToMark pops back to and including the nearest EntryMark (UNBIND-ALL).
func (s *State) unwindToMark() {
	for i := s.Binding.Depth() - 1; i >= 0; i-- {
		e, ok := s.Binding.Top()
		if !ok {
			return
		}
		wasMark := e.Kind == env.EntryMark
		s.unwindBindingTo(i)
		if wasMark {
			return
		}
	}
}

// raise is how every VM-detected failure (arithmetic domain errors,
// arity mismatches, unbound variables) enters the error-handler protocol.
func (s *State) raise(lerr *vmerrors.LispError) error {
	return s.raiseValue(conditionValue(lerr))
}

// raiseValue is the primitive the error-handler protocol and SIGNAL both
// funnel through: find the nearest BINDERR handler, unwind the binding
// and operand stacks to its installation point, push the condition
// object, and resume at its handler PC. With no handler installed the
// condition is reported as a plain Go error out of Run.
func (s *State) raiseValue(cond value.Value) error {
	depth, hEntry, ok := s.Binding.FindHandler()
	if !ok {
		return errorFromCondition(cond)
	}
	s.Throw = cond
	s.unwindBindingTo(depth)
	s.truncateOperand(hEntry.SP)
	s.push(cond)
	s.Act.PC = hEntry.PC
	return nil
}

// errorFromCondition renders an uncaught (kind . data) condition cons back
// into a Go error when no BINDERR handler remains to receive it.
func errorFromCondition(cond value.Value) error {
	if c, ok := value.ConsValue(cond); ok {
		if s, ok := value.StringValue(c.Car); ok {
			return vmerrors.New(vmerrors.Kind(s.String()), "unhandled")
		}
	}
	return vmerrors.New(vmerrors.KindError, "unhandled condition")
}

// conditionValue renders a LispError as the (kind . data) condition cons
// the error-handler protocol hands to the handler body.
func conditionValue(lerr *vmerrors.LispError) value.Value {
	data := make([]value.Value, len(lerr.Data))
	for i, d := range lerr.Data {
		data[i] = value.NewString(d).AsValue()
	}
	return value.NewCons(value.NewString(string(lerr.Kind)).AsValue(), value.List(data...)).AsValue()
}

// conditionMatches tests whether cond's kind (the car of its (kind . data)
// cons) appears in conditions, a Lisp list of the kinds an ERRORPRO clause
// accepts. Kinds compare by name whether carried as a symbol (SIGNAL from
// Lisp code) or a string (VM-raised conditions, see conditionValue).
func conditionMatches(conditions, cond value.Value) bool {
	c, ok := value.ConsValue(cond)
	if !ok {
		return false
	}
	kind, ok := kindName(c.Car)
	if !ok {
		return false
	}
	items, ok := value.ToSlice(conditions)
	if !ok {
		return false
	}
	for _, item := range items {
		if name, ok := kindName(item); ok && name == kind {
			return true
		}
	}
	return false
}

// kindName extracts the name a condition kind or an ERRORPRO clause entry
// is carried under, whether it is a symbol or a string.
func kindName(v value.Value) (string, bool) {
	if sym, ok := value.SymbolValue(v); ok {
		return sym.Name, true
	}
	if s, ok := value.StringValue(v); ok {
		return s.String(), true
	}
	return "", false
}

// doThrow implements THROW: unwind to the nearest CATCH whose tag is Eq to
// tag, leaving val on the operand stack at the catch's recorded depth, and
// resume at its exit PC. Returns an error if no matching CATCH is active
// (an uncaught throw is itself a Lisp-level error condition).
func (s *State) doThrow(tag, val value.Value) error {
	depth, entry, ok := s.Binding.FindCatch(tag)
	if !ok {
		return s.raise(vmerrors.New(vmerrors.KindError, "uncaught throw"))
	}
	s.unwindBindingTo(depth)
	s.truncateOperand(entry.SP)
	s.push(val)
	s.Act.PC = entry.PC
	return nil
}
