package value

// Cons is the pair heap cell lists are built from.
type Cons struct {
	Header
	Car Value
	Cdr Value
}

func NewCons(car, cdr Value) *Cons {
	return &Cons{Header: NewHeader(ObjCons), Car: car, Cdr: cdr}
}

func (c *Cons) AsValue() Value { return Heap(c) }

func ConsValue(v Value) (*Cons, bool) {
	if !v.IsCons() {
		return nil, false
	}
	return v.Obj().(*Cons), true
}

// List conses up vs, in order, terminated by Nil.
func List(vs ...Value) Value {
	result := Nil
	for i := len(vs) - 1; i >= 0; i-- {
		result = NewCons(vs[i], result).AsValue()
	}
	return result
}

// ToSlice walks a proper list into a Go slice; ok is false if the list is
// improper (does not end in Nil).
func ToSlice(v Value) (vs []Value, ok bool) {
	for !v.IsNil() {
		c, isCons := ConsValue(v)
		if !isCons {
			return vs, false
		}
		vs = append(vs, c.Car)
		v = c.Cdr
	}
	return vs, true
}
