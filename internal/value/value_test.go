package value

import "testing"

func TestFixnumRoundTrip(t *testing.T) {
	v := Fixnum(42)
	if !v.IsFixnum() || v.Fix() != 42 {
		t.Errorf("Fixnum(42) = %v", v)
	}
}

func TestFixnumOutOfRangePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Fixnum(MaxFix+1) did not panic")
		}
	}()
	Fixnum(MaxFix + 1)
}

func TestSingletonKinds(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		is   func(Value) bool
	}{
		{"Nil", Nil, Value.IsNil},
		{"T", T, Value.IsT},
		{"Void", Void, Value.IsVoid},
		{"Null", Null, Value.IsNull},
		{"SchemeFalse", SchemeFalse, Value.IsSchemeFalse},
	}
	for _, tt := range tests {
		if !tt.is(tt.v) {
			t.Errorf("%s singleton failed its own predicate", tt.name)
		}
	}
}

func TestFalsyVsSchemeFalsy(t *testing.T) {
	if !Nil.Falsy() {
		t.Error("Nil.Falsy() = false")
	}
	if Nil.SchemeFalsy() {
		t.Error("Nil.SchemeFalsy() = true, only SchemeFalse should be")
	}
	if !SchemeFalse.SchemeFalsy() {
		t.Error("SchemeFalse.SchemeFalsy() = false")
	}
	if SchemeFalse.Falsy() {
		t.Error("SchemeFalse.Falsy() = true, only Nil should be")
	}
}

func TestEqFixnum(t *testing.T) {
	if !Eq(Fixnum(3), Fixnum(3)) {
		t.Error("Eq(3,3) = false")
	}
	if Eq(Fixnum(3), Fixnum(4)) {
		t.Error("Eq(3,4) = true")
	}
}

func TestEqHeapIdentity(t *testing.T) {
	c1 := NewCons(Nil, Nil)
	c2 := NewCons(Nil, Nil)
	if Eq(c1.AsValue(), c2.AsValue()) {
		t.Error("Eq compared two distinct cons cells as equal")
	}
	if !Eq(c1.AsValue(), c1.AsValue()) {
		t.Error("Eq(c1,c1) = false")
	}
}

func TestIsNumber(t *testing.T) {
	if !Fixnum(1).IsNumber() {
		t.Error("Fixnum(1).IsNumber() = false")
	}
	if Nil.IsNumber() {
		t.Error("Nil.IsNumber() = true")
	}
	if NewCons(Nil, Nil).AsValue().IsNumber() {
		t.Error("cons.IsNumber() = true")
	}
}
