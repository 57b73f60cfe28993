package value

// ObjectKind is the type tag carried in the first word of every heap
// object: a typed object whose first word carries a type tag and GC
// mark bit.
type ObjectKind uint8

const (
	ObjSymbol ObjectKind = iota
	ObjCons
	ObjVector
	ObjString
	ObjClosure
	ObjCompiled
	ObjBignum
	ObjRational
	ObjFloat
)

func (k ObjectKind) String() string {
	switch k {
	case ObjSymbol:
		return "symbol"
	case ObjCons:
		return "cons"
	case ObjVector:
		return "vector"
	case ObjString:
		return "string"
	case ObjClosure:
		return "closure"
	case ObjCompiled:
		return "compiled-function"
	case ObjBignum:
		return "bignum"
	case ObjRational:
		return "rational"
	case ObjFloat:
		return "float"
	default:
		return "object"
	}
}

// Object is implemented by every heap-allocated value. Concrete types embed
// Header for the GC mark bit rather than reimplementing it.
type Object interface {
	ObjKind() ObjectKind
	Marked() bool
	SetMarked(bool)
}

// Header gives a heap object its type tag and GC mark bit; GC marking
// itself is out of scope here, but the bit is part of the external object
// layout a collector walks.
type Header struct {
	kind   ObjectKind
	marked bool
}

func NewHeader(k ObjectKind) Header { return Header{kind: k} }

func (h *Header) ObjKind() ObjectKind  { return h.kind }
func (h *Header) Marked() bool         { return h.marked }
func (h *Header) SetMarked(m bool)     { h.marked = m }
