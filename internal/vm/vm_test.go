package vm

import (
	"testing"

	"corevm/internal/bytecode"
	"corevm/internal/call"
	"corevm/internal/value"
)

func pushConst(code []byte, k int) []byte {
	code = append(code, byte(bytecode.OpPushConst))
	return bytecode.WriteJumpTarget(code, k)
}

func emitBind(code []byte, symIdx int) []byte {
	code = append(code, byte(bytecode.OpBind))
	return bytecode.WriteJumpTarget(code, symIdx)
}

func emitBindSpec(code []byte, symIdx int) []byte {
	code = append(code, byte(bytecode.OpBindSpec))
	return bytecode.WriteJumpTarget(code, symIdx)
}

func patchJumpTarget(code []byte, at, target int) {
	code[at] = byte(target >> bytecode.ArgShift)
	code[at+1] = byte(target & 0xFF)
}

func newState() *State {
	reg := call.NewRegistry()
	syms := value.NewTable()
	return New(DefaultConfig(), reg, syms)
}

func run(t *testing.T, code []byte, consts []value.Value) value.Value {
	t.Helper()
	s := newState()
	fn := bytecode.MakeByteCodeSubr(value.Nil, code, consts, bytecode.PackStackReq(16, 4), nil, nil)
	result, err := s.Run(fn, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return result
}

func TestArithmeticEndToEnd(t *testing.T) {
	code := pushConst(nil, 0)
	code = pushConst(code, 1)
	code = append(code, byte(bytecode.OpAdd), byte(bytecode.OpReturn))
	consts := []value.Value{value.Fixnum(10), value.Fixnum(20)}

	got := run(t, code, consts)
	if !got.IsFixnum() || got.Fix() != 30 {
		t.Errorf("10+20 = %v, want fixnum 30", got)
	}
}

func TestArithmeticPromotesToBignum(t *testing.T) {
	code := pushConst(nil, 0)
	code = pushConst(code, 1)
	code = append(code, byte(bytecode.OpAdd), byte(bytecode.OpReturn))
	consts := []value.Value{value.Fixnum(value.MaxFix), value.Fixnum(1)}

	got := run(t, code, consts)
	if !got.IsBignum() {
		t.Errorf("MaxFix+1 = %v, want promotion to bignum", got.Kind())
	}
}

func TestConsCarCdr(t *testing.T) {
	code := pushConst(nil, 0)
	code = pushConst(code, 1)
	code = append(code, byte(bytecode.OpCons), byte(bytecode.OpCar), byte(bytecode.OpReturn))
	consts := []value.Value{value.Fixnum(1), value.Fixnum(2)}

	got := run(t, code, consts)
	if got.Fix() != 1 {
		t.Errorf("car(cons(1,2)) = %v, want 1", got)
	}
}

func TestDivisionByZeroRaisesUnhandled(t *testing.T) {
	code := pushConst(nil, 0)
	code = pushConst(code, 1)
	code = append(code, byte(bytecode.OpDiv), byte(bytecode.OpReturn))
	consts := []value.Value{value.Fixnum(1), value.Fixnum(0)}

	s := newState()
	fn := bytecode.MakeByteCodeSubr(value.Nil, code, consts, 0, nil, nil)
	if _, err := s.Run(fn, nil); err == nil {
		t.Fatal("division by zero with no handler succeeded, want a reported error")
	}
}

func TestBinderrCatchesAndResumes(t *testing.T) {
	// BINDERR handler; DIV by zero inside; handler receives the condition
	// cons and returns it directly.
	code := []byte{byte(bytecode.OpBinderr), 0, 0}
	handlerPatchAt := 1

	body := pushConst(nil, 0)
	body = pushConst(body, 1)
	body = append(body, byte(bytecode.OpDiv), byte(bytecode.OpReturn))

	full := append(code, body...)
	handlerPC := len(full)
	patchJumpTarget(full, handlerPatchAt, handlerPC)
	full = append(full, byte(bytecode.OpReturn)) // condition cons is already TOS

	consts := []value.Value{value.Fixnum(1), value.Fixnum(0)}
	got := run(t, full, consts)

	c, ok := value.ConsValue(got)
	if !ok {
		t.Fatalf("handler result = %v, want a (kind . data) condition cons", got)
	}
	kind, ok := value.StringValue(c.Car)
	if !ok || kind.String() != "arith-error" {
		t.Errorf("condition kind = %v, want \"arith-error\"", c.Car)
	}
}

func TestCatchThrowRoundTrip(t *testing.T) {
	tagSym := value.NewSymbol("my-tag").AsValue()
	consts := []value.Value{tagSym, value.Fixnum(99)}

	prog := pushConst(nil, 0) // push tag for CATCH to capture
	prog = append(prog, byte(bytecode.OpCatch), 0, 0)
	catchPatchAt := len(prog) - 2

	prog = pushConst(prog, 0) // push tag for THROW
	prog = pushConst(prog, 1) // push val for THROW
	prog = append(prog, byte(bytecode.OpThrow))

	catchTarget := len(prog)
	patchJumpTarget(prog, catchPatchAt, catchTarget)
	prog = append(prog, byte(bytecode.OpReturn)) // val is TOS after a matching THROW

	got := run(t, prog, consts)
	if !got.IsFixnum() || got.Fix() != 99 {
		t.Errorf("CATCH/THROW round trip = %v, want fixnum 99", got)
	}
}

func TestBinderrErrorproRecoversMatchingCondition(t *testing.T) {
	// (condition-case e (signal 'arith-error "boom") (arith-error (car e)))
	symArithError := value.NewSymbol("arith-error").AsValue()
	symE := value.NewSymbol("e").AsValue()
	consts := []value.Value{
		symArithError,
		value.NewString("boom").AsValue(),
		value.List(symArithError), // handler's accepted condition list
		symE,
	}

	prog := []byte{byte(bytecode.OpBinderr), 0, 0}
	handlerPatchAt := 1

	body := pushConst(nil, 0) // kind
	body = pushConst(body, 1) // data
	body = append(body, byte(bytecode.OpSignal))
	body = append(body, byte(bytecode.OpReturn)) // unreached

	full := append(prog, body...)
	handlerPC := len(full)
	patchJumpTarget(full, handlerPatchAt, handlerPC)

	full = pushConst(full, 2) // conditions list
	full = pushConst(full, 3) // symbol to bind
	full = append(full, byte(bytecode.OpErrorpro))
	full = bytecode.EncodeImmediate(full, bytecode.OpRefN, 0) // e
	full = append(full, byte(bytecode.OpCar), byte(bytecode.OpReturn))

	got := run(t, full, consts)
	sym, ok := value.SymbolValue(got)
	if !ok || sym.Name != "arith-error" {
		t.Errorf("(car e) = %v, want symbol arith-error", got)
	}
}

func TestImpurityFromSpecialBindSuppressesTailCallElimination(t *testing.T) {
	// A live special binding must survive a tail call: TCE is only valid
	// when the activation being reused carries no dynamic state. If
	// BIND-SPEC failed to raise Impurity above zero, the tail CALL below
	// would unwind *special* (restoring it to 0) before the callee runs.
	syms := value.NewTable()
	symSpecial := syms.Intern("*special*")
	symSpecial.Value = value.Fixnum(0)

	innerConsts := []value.Value{symSpecial.AsValue()}
	innerCode := bytecode.EncodeImmediate(nil, bytecode.OpRefQ, 0)
	innerCode = append(innerCode, byte(bytecode.OpReturn))
	innerFn := bytecode.MakeByteCodeSubr(value.Nil, innerCode, innerConsts, bytecode.PackStackReq(16, 4), nil, nil)

	outerConsts := []value.Value{value.Fixnum(7), symSpecial.AsValue(), innerFn.AsValue()}
	outerCode := pushConst(nil, 0)         // push 7
	outerCode = emitBindSpec(outerCode, 1) // BIND-SPEC *special*
	outerCode = pushConst(outerCode, 2)    // push inner fn
	outerCode = bytecode.EncodeImmediate(outerCode, bytecode.OpCall, 0)
	outerCode = append(outerCode, byte(bytecode.OpReturn))
	outerFn := bytecode.MakeByteCodeSubr(value.Nil, outerCode, outerConsts, bytecode.PackStackReq(16, 4), nil, nil)

	reg := call.NewRegistry()
	s := New(DefaultConfig(), reg, syms)
	result, err := s.Run(outerFn, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !result.IsFixnum() || result.Fix() != 7 {
		t.Errorf("tail call under a live special binding = %v, want 7 (binding must stay live)", result)
	}
}

func TestTailCallDoesNotGrowCallDepth(t *testing.T) {
	// A self-recursive tail call: fn(n) = if zerop(n) then n else fn(n-1).
	// BIND consumes the argument into a fresh lexical frame each call;
	// CALL 1 in tail position (immediately followed by RETURN) must reuse
	// the current activation, including unwinding the just-bound frame,
	// rather than grow either the binding stack or a call.Record chain.
	reg := call.NewRegistry()
	syms := value.NewTable()
	s := New(DefaultConfig(), reg, syms)

	symN := syms.Intern("n")
	symSelf := syms.Intern("self")

	code := emitBind(nil, 0) // BIND n
	code = append(code, byte(bytecode.OpRefN))
	code = append(code, byte(bytecode.OpZerop))
	jtAt := len(code)
	code = append(code, byte(bytecode.OpJt), 0, 0)

	code = append(code, byte(bytecode.OpRefN)) // recursive branch
	code = append(code, byte(bytecode.OpDec))
	code = pushConst(code, 1) // push self
	code = bytecode.EncodeImmediate(code, bytecode.OpCall, 1)
	code = append(code, byte(bytecode.OpReturn))

	baseCase := len(code)
	code = append(code, byte(bytecode.OpRefN))
	code = append(code, byte(bytecode.OpReturn))

	patchJumpTarget(code, jtAt+1, baseCase)

	consts := []value.Value{symN.AsValue(), symSelf.AsValue()}

	fn := bytecode.MakeByteCodeSubr(value.Nil, code, consts, bytecode.PackStackReq(16, 4), nil, nil)
	symSelf.Value = fn.AsValue()

	result, err := s.Run(fn, []value.Value{value.Fixnum(5)})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !result.IsFixnum() || result.Fix() != 0 {
		t.Errorf("tail-recursive countdown result = %v, want 0", result)
	}
	if s.Calls != nil {
		t.Error("a tail call left a call.Record on the chain, host stack would have grown")
	}
	if s.Binding.Depth() != 0 {
		t.Errorf("Binding.Depth() = %d after unwinding every tail-reused frame, want 0", s.Binding.Depth())
	}
}

func TestMaxDepthExceededOnNonTailRecursion(t *testing.T) {
	reg := call.NewRegistry()
	syms := value.NewTable()
	cfg := DefaultConfig()
	cfg.MaxCallDepth = 4
	s := New(cfg, reg, syms)

	symSelf := syms.Intern("self")

	code := pushConst(nil, 0)                  // push self
	code = append(code, byte(bytecode.OpCall)) // CALL 0, not tail (next isn't RETURN)
	code = append(code, byte(bytecode.OpPushNil))
	code = append(code, byte(bytecode.OpReturn))

	consts := []value.Value{value.Nil}
	fn := bytecode.MakeByteCodeSubr(value.Nil, code, consts, bytecode.PackStackReq(16, 4), nil, nil)
	consts[0] = symSelf.AsValue()
	symSelf.Value = fn.AsValue()

	_, err := s.Run(fn, nil)
	if err == nil {
		t.Fatal("unbounded non-tail recursion succeeded, want max-depth-exceeded")
	}
}
