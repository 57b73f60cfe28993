// Package env implements the lexical environment chain, the dynamic
// (special) binding list, and the binding-stack sum type the VM uses to
// undo both in LIFO order on scope exit.
package env

import "corevm/internal/value"

// Frame is one lexical (symbol . value) cons cell in the environment
// chain. Lookup is by depth index from the head, computed at compile time,
// rather than by name — see Snap.
type Frame struct {
	Symbol *value.Symbol
	Value  value.Value
	Next   *Frame
}

// Bind pushes a new lexical binding in front of env and returns the new
// head.
func Bind(env *Frame, sym *value.Symbol, val value.Value) *Frame {
	return &Frame{Symbol: sym, Value: val, Next: env}
}

// Snap walks k links down the lexical chain and returns the frame at depth
// k, used by REFN/SETN for compile-time resolved lexical references.
func Snap(env *Frame, k int) *Frame {
	f := env
	for ; k > 0 && f != nil; k-- {
		f = f.Next
	}
	return f
}

// Special is one entry in the dynamic binding list: pushing one shadows
// the symbol's global value cell for the extent of the binding.
type Special struct {
	Symbol *value.Symbol
	Saved  value.Value // the value cell's contents before this binding
	Next   *Special
}

// BindSpecial shadows sym's global value cell with val and returns the new
// head of the special list; sym.Value is mutated in place (that is how
// dynamic scope is visible to REFQ/SETQ on sym without consulting the
// list), with the prior contents saved for Unbind to restore.
func BindSpecial(specials *Special, sym *value.Symbol, val value.Value) *Special {
	saved := sym.Value
	sym.Value = val
	return &Special{Symbol: sym, Saved: saved, Next: specials}
}

// UnbindSpecial pops one special binding, restoring the symbol's previous
// value cell contents, and returns the new head.
func UnbindSpecial(specials *Special) *Special {
	sym := specials.Symbol
	sym.Value = specials.Saved
	return specials.Next
}

// Lookup scans the special-binding list for sym; used only diagnostically
// since BindSpecial/UnbindSpecial already keep sym.Value current — the
// scan lets a debugger answer "is this symbol currently specially bound".
func Lookup(specials *Special, sym *value.Symbol) (*Special, bool) {
	for s := specials; s != nil; s = s.Next {
		if s.Symbol == sym {
			return s, true
		}
	}
	return nil, false
}
