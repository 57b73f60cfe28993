package value

// Symbol is a name, a global value cell, a property list, and flag bits.
// The value cell is shadowed, not replaced, by a special binding while one
// is in scope (see internal/env).
type Symbol struct {
	Header
	Name    string
	Value   Value // global value cell; KindVoid when unbound
	Plist   Value // property list, Nil-terminated
	Special bool  // dynamically scoped
	Local   bool  // restricted to a module/structure scope
}

// NewSymbol interns nothing itself — callers own a symbol table — it just
// allocates a fresh symbol heap cell with an unbound value cell.
func NewSymbol(name string) *Symbol {
	return &Symbol{
		Header: NewHeader(ObjSymbol),
		Name:   name,
		Value:  Void,
		Plist:  Nil,
	}
}

func SymbolValue(v Value) (*Symbol, bool) {
	if !v.IsSymbol() {
		return nil, false
	}
	return v.Obj().(*Symbol), true
}

func (s *Symbol) AsValue() Value { return Heap(s) }

// Table is a simple intern table for symbols, the minimal bookkeeping the
// VM needs to resolve REFQ/SETQ operands from the constant pool (symbol
// interning itself, like the reader, is out of this core's scope).
type Table struct {
	syms map[string]*Symbol
}

func NewTable() *Table { return &Table{syms: make(map[string]*Symbol)} }

func (t *Table) Intern(name string) *Symbol {
	if s, ok := t.syms[name]; ok {
		return s
	}
	s := NewSymbol(name)
	t.syms[name] = s
	return s
}
