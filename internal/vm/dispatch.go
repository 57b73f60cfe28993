package vm

import (
	"github.com/kr/pretty"

	"corevm/internal/bytecode"
	"corevm/internal/env"
	"corevm/internal/tower"
	"corevm/internal/value"
	"corevm/internal/vmerrors"
)

// Run executes fn from scratch against args (a fresh top-level call, no
// caller to return to) until RETURN unwinds past the outermost activation
// or an unhandled condition propagates out as a Go error.
func (s *State) Run(fn *bytecode.CompiledFunction, args []value.Value) (value.Value, error) {
	s.Act = Activation{Fn: fn, Env: nil, PC: 0, StackBase: len(s.Operand), BindBase: s.Binding.Depth()}
	for _, a := range args {
		s.push(a)
	}
	return s.loop()
}

func (s *State) loop() (value.Value, error) {
	for {
		if s.Config.MaxInstructions > 0 {
			s.instrs++
			if s.instrs > s.Config.MaxInstructions {
				return value.Value{}, vmerrors.New(vmerrors.KindError, "execution limit exceeded")
			}
		}
		if s.Config.Trace {
			pretty.Println(s.Operand)
		}

		code := s.Act.Fn.Code
		opByte := code[s.Act.PC]

		switch {
		case bytecode.InFamily(opByte, bytecode.OpRefQ):
			k, next := bytecode.DecodeImmediate(code, s.Act.PC, bytecode.OpRefQ)
			s.Act.PC = next
			if err := s.doRefGlobal(k); err != nil {
				return value.Value{}, err
			}

		case bytecode.InFamily(opByte, bytecode.OpRefN):
			k, next := bytecode.DecodeImmediate(code, s.Act.PC, bytecode.OpRefN)
			s.Act.PC = next
			f := env.Snap(s.Act.Env, k)
			if f == nil {
				return value.Value{}, vmerrors.BytecodeError("lexical ref depth out of range")
			}
			s.push(f.Value)

		case bytecode.InFamily(opByte, bytecode.OpRefG):
			k, next := bytecode.DecodeImmediate(code, s.Act.PC, bytecode.OpRefG)
			s.Act.PC = next
			if err := s.doRefGlobal(k); err != nil {
				return value.Value{}, err
			}

		case bytecode.InFamily(opByte, bytecode.OpSetQ):
			k, next := bytecode.DecodeImmediate(code, s.Act.PC, bytecode.OpSetQ)
			s.Act.PC = next
			s.doSetGlobal(k)

		case bytecode.InFamily(opByte, bytecode.OpSetN):
			k, next := bytecode.DecodeImmediate(code, s.Act.PC, bytecode.OpSetN)
			s.Act.PC = next
			f := env.Snap(s.Act.Env, k)
			if f == nil {
				return value.Value{}, vmerrors.BytecodeError("lexical set depth out of range")
			}
			f.Value = s.peek(0)

		case bytecode.InFamily(opByte, bytecode.OpSetG):
			k, next := bytecode.DecodeImmediate(code, s.Act.PC, bytecode.OpSetG)
			s.Act.PC = next
			s.doSetGlobal(k)

		case bytecode.InFamily(opByte, bytecode.OpCall):
			n, next := bytecode.DecodeImmediate(code, s.Act.PC, bytecode.OpCall)
			tail := next < len(code) && code[next] == byte(bytecode.OpReturn)
			s.Act.PC = next
			if err := s.doCall(n, tail); err != nil {
				return value.Value{}, err
			}

		default:
			op := bytecode.Op(opByte)
			s.Act.PC++
			done, result, err := s.step(op)
			if err != nil {
				return value.Value{}, err
			}
			if done {
				return result, nil
			}
		}
	}
}

// doRefGlobal reads constant k (a symbol) and pushes its value cell,
// raising an unbound-variable condition if still void.
func (s *State) doRefGlobal(k int) error {
	sym, ok := value.SymbolValue(s.constant(k))
	if !ok {
		return vmerrors.BytecodeError("REFQ/REFG constant is not a symbol")
	}
	if sym.Value.IsVoid() {
		return s.raise(vmerrors.New(vmerrors.KindError, "unbound variable", sym.Name))
	}
	s.push(sym.Value)
	return nil
}

func (s *State) doSetGlobal(k int) {
	sym, _ := value.SymbolValue(s.constant(k))
	sym.Value = s.peek(0)
}

// step executes every opcode outside the six 8-wide immediate families
// and the CALL family, all of which are pre-dispatched in loop. Returns
// done=true with the final result when RETURN unwinds the outermost
// activation.
func (s *State) step(op bytecode.Op) (done bool, result value.Value, err error) {
	code := s.Act.Fn.Code

	switch op {
	case bytecode.OpPushConst:
		k := bytecode.ReadJumpTarget(code, s.Act.PC)
		s.Act.PC += 2
		s.push(s.constant(k))

	case bytecode.OpDup:
		s.push(s.peek(0))
	case bytecode.OpSwap:
		n := len(s.Operand)
		s.Operand[n-1], s.Operand[n-2] = s.Operand[n-2], s.Operand[n-1]
	case bytecode.OpSwap2:
		n := len(s.Operand)
		s.Operand[n-1], s.Operand[n-3] = s.Operand[n-3], s.Operand[n-1]
	case bytecode.OpPop:
		s.pop()
	case bytecode.OpPopAll:
		s.truncateOperand(s.Act.StackBase)
	case bytecode.OpPushNil:
		s.push(value.Nil)
	case bytecode.OpPushT:
		s.push(value.T)
	case bytecode.OpPushI:
		b := int8(s.fetchByte())
		s.push(value.Fixnum(int64(b)))
	case bytecode.OpPushIW:
		w := int16(bytecode.ReadJumpTarget(code, s.Act.PC))
		s.Act.PC += 2
		s.push(value.Fixnum(int64(w)))

	case bytecode.OpInitBind:
		s.Binding.Push(env.MarkEntry())
	case bytecode.OpBind:
		k := bytecode.ReadJumpTarget(code, s.Act.PC)
		s.Act.PC += 2
		sym, _ := value.SymbolValue(s.constant(k))
		val := s.pop()
		s.Act.Env = env.Bind(s.Act.Env, sym, val)
		s.Binding.Push(env.FrameEntry(1, 0))
	case bytecode.OpBindSpec:
		k := bytecode.ReadJumpTarget(code, s.Act.PC)
		s.Act.PC += 2
		sym, _ := value.SymbolValue(s.constant(k))
		val := s.pop()
		s.Special = env.BindSpecial(s.Special, sym, val)
		s.Binding.Push(env.FrameEntry(0, 1))
		s.Act.Impurity++
	case bytecode.OpBindObj:
		// the popped resource value is discarded and the pushed entry
		// carries no release hook, so unwinding it releases nothing;
		// the entry only counts toward the activation's impurity.
		s.pop()
		s.Binding.Push(env.ResourceEntry(nil))
		s.Act.Impurity++
	case bytecode.OpUnbind:
		if s.Binding.Depth() > 0 {
			s.unwindBindingTo(s.Binding.Depth() - 1)
		}
	case bytecode.OpUnbindAll:
		s.unwindToMark()
	case bytecode.OpUnbindAll0:
		s.unwindBindingTo(s.Act.BindBase)

	case bytecode.OpCons:
		b, a := s.pop(), s.pop()
		s.push(value.NewCons(a, b).AsValue())
	case bytecode.OpCar:
		v, e := car(s.pop())
		if e != nil {
			return false, value.Value{}, s.raise(e.(*vmerrors.LispError))
		}
		s.push(v)
	case bytecode.OpCdr:
		v, e := cdr(s.pop())
		if e != nil {
			return false, value.Value{}, s.raise(e.(*vmerrors.LispError))
		}
		s.push(v)
	case bytecode.OpCaar, bytecode.OpCadr, bytecode.OpCdar, bytecode.OpCddr,
		bytecode.OpCaddr, bytecode.OpCadddr:
		v, e := cxr(s.pop(), cxrPath(op))
		if e != nil {
			return false, value.Value{}, s.raise(e.(*vmerrors.LispError))
		}
		s.push(v)
	case bytecode.OpListRef:
		depth := s.fetchByte()
		dirs := s.fetchByte()
		v, e := cxr(s.pop(), cxrPathByte(depth, dirs))
		if e != nil {
			return false, value.Value{}, s.raise(e.(*vmerrors.LispError))
		}
		s.push(v)
	case bytecode.OpRplaca:
		b, a := s.pop(), s.pop()
		c, ok := value.ConsValue(a)
		if !ok {
			return false, value.Value{}, s.raise(vmerrors.BadArg("rplaca", "not a cons"))
		}
		c.Car = b
		s.push(a)
	case bytecode.OpRplacd:
		b, a := s.pop(), s.pop()
		c, ok := value.ConsValue(a)
		if !ok {
			return false, value.Value{}, s.raise(vmerrors.BadArg("rplacd", "not a cons"))
		}
		c.Cdr = b
		s.push(a)
	case bytecode.OpNth:
		n, a := s.pop(), s.pop()
		v, e := nth(a, int(n.Fix()))
		if e != nil {
			return false, value.Value{}, s.raise(e.(*vmerrors.LispError))
		}
		s.push(v)
	case bytecode.OpNthcdr:
		n, a := s.pop(), s.pop()
		v, e := nthcdr(a, int(n.Fix()))
		if e != nil {
			return false, value.Value{}, s.raise(e.(*vmerrors.LispError))
		}
		s.push(v)
	case bytecode.OpList:
		n := int(s.fetchByte())
		s.push(value.List(s.popN(n)...))
	case bytecode.OpReverse:
		s.push(reverseList(s.pop()))
	case bytecode.OpNreverse:
		s.push(reverseList(s.pop()))
	case bytecode.OpMember:
		b, a := s.pop(), s.pop()
		s.push(member(a, b, deepEqual))
	case bytecode.OpMemq:
		b, a := s.pop(), s.pop()
		s.push(member(a, b, value.Eq))
	case bytecode.OpAssoc:
		b, a := s.pop(), s.pop()
		s.push(assoc(a, b, deepEqual))
	case bytecode.OpAssq:
		b, a := s.pop(), s.pop()
		s.push(assoc(a, b, value.Eq))
	case bytecode.OpRassoc:
		b, a := s.pop(), s.pop()
		s.push(rassoc(a, b, deepEqual))
	case bytecode.OpRassq:
		b, a := s.pop(), s.pop()
		s.push(rassoc(a, b, value.Eq))
	case bytecode.OpLast:
		s.push(lastPair(s.pop()))
	case bytecode.OpCopySequence:
		v, e := copySequence(s.pop())
		if e != nil {
			return false, value.Value{}, s.raise(e.(*vmerrors.LispError))
		}
		s.push(v)

	case bytecode.OpAref:
		idx, a := s.pop(), s.pop()
		vec, ok := value.VectorValue(a)
		if !ok {
			return false, value.Value{}, s.raise(vmerrors.BadArg("aref", "not a vector"))
		}
		i := int(idx.Fix())
		if i < 0 || i >= vec.Len() {
			return false, value.Value{}, s.raise(vmerrors.BadArg("aref", "index out of range"))
		}
		s.push(vec.Slots[i])
	case bytecode.OpAset:
		val, idx, a := s.pop(), s.pop(), s.pop()
		vec, ok := value.VectorValue(a)
		if !ok {
			return false, value.Value{}, s.raise(vmerrors.BadArg("aset", "not a vector"))
		}
		i := int(idx.Fix())
		if i < 0 || i >= vec.Len() {
			return false, value.Value{}, s.raise(vmerrors.BadArg("aset", "index out of range"))
		}
		vec.Slots[i] = val
		s.push(val)
	case bytecode.OpLength:
		v := s.pop()
		switch {
		case v.IsVector():
			vec, _ := value.VectorValue(v)
			s.push(value.Fixnum(int64(vec.Len())))
		case v.IsString():
			str, _ := value.StringValue(v)
			s.push(value.Fixnum(int64(len(str.Bytes))))
		default:
			n, e := listLength(v)
			if e != nil {
				return false, value.Value{}, s.raise(e.(*vmerrors.LispError))
			}
			s.push(value.Fixnum(int64(n)))
		}
	case bytecode.OpGet:
		prop, a := s.pop(), s.pop()
		sym, ok := value.SymbolValue(a)
		if !ok {
			return false, value.Value{}, s.raise(vmerrors.BadArg("get", "not a symbol"))
		}
		s.push(assoc(prop, sym.Plist, value.Eq))
	case bytecode.OpPut:
		val, prop, a := s.pop(), s.pop(), s.pop()
		sym, ok := value.SymbolValue(a)
		if !ok {
			return false, value.Value{}, s.raise(vmerrors.BadArg("put", "not a symbol"))
		}
		sym.Plist = value.NewCons(value.NewCons(prop, val).AsValue(), sym.Plist).AsValue()
		s.push(val)
	case bytecode.OpStructRef:
		k := int(s.fetchByte())
		a := s.pop()
		vec, ok := value.VectorValue(a)
		if !ok || k < 0 || k >= vec.Len() {
			return false, value.Value{}, s.raise(vmerrors.BadArg("struct-ref", "bad structure slot"))
		}
		s.push(vec.Slots[k])

	case bytecode.OpAdd, bytecode.OpSub, bytecode.OpMul, bytecode.OpDiv,
		bytecode.OpRem, bytecode.OpQuotient, bytecode.OpMod:
		if e := s.doBinaryArith(op); e != nil {
			return false, value.Value{}, e
		}
	case bytecode.OpNeg:
		v, e := tower.Neg(s.pop())
		if e != nil {
			return false, value.Value{}, s.raise(e.(*vmerrors.LispError))
		}
		s.push(v)
	case bytecode.OpLog:
		v, e := tower.Log(s.pop())
		if e != nil {
			return false, value.Value{}, s.raise(e.(*vmerrors.LispError))
		}
		s.push(v)
	case bytecode.OpAsh:
		n, a := s.pop(), s.pop()
		v, _ := tower.Ash(a, int(n.Fix()))
		s.push(v)
	case bytecode.OpInc:
		v, _ := tower.Inc(s.pop())
		s.push(v)
	case bytecode.OpDec:
		v, _ := tower.Dec(s.pop())
		s.push(v)
	case bytecode.OpZerop:
		s.push(boolValue(tower.Zerop(s.pop())))
	case bytecode.OpExp:
		s.push(tower.Exp(s.pop()))
	case bytecode.OpSin:
		s.push(tower.Sin(s.pop()))
	case bytecode.OpCos:
		s.push(tower.Cos(s.pop()))
	case bytecode.OpTan:
		s.push(tower.Tan(s.pop()))
	case bytecode.OpSqrt:
		v, e := tower.Sqrt(s.pop())
		if e != nil {
			return false, value.Value{}, s.raise(e.(*vmerrors.LispError))
		}
		s.push(v)
	case bytecode.OpExpt:
		b, a := s.pop(), s.pop()
		v, e := tower.Expt(a, b)
		if e != nil {
			return false, value.Value{}, s.raise(e.(*vmerrors.LispError))
		}
		s.push(v)
	case bytecode.OpFloor:
		v, _ := tower.Floor(s.pop())
		s.push(v)
	case bytecode.OpCeiling:
		v, _ := tower.Ceiling(s.pop())
		s.push(v)
	case bytecode.OpTruncate:
		v, _ := tower.Truncate(s.pop())
		s.push(v)
	case bytecode.OpRound:
		v, _ := tower.Round(s.pop())
		s.push(v)

	case bytecode.OpNot, bytecode.OpNull:
		s.push(boolValue(s.pop().Falsy()))
	case bytecode.OpEq:
		b, a := s.pop(), s.pop()
		s.push(boolValue(value.Eq(a, b)))
	case bytecode.OpEql:
		b, a := s.pop(), s.pop()
		s.push(boolValue(eql(a, b)))
	case bytecode.OpEqual:
		b, a := s.pop(), s.pop()
		s.push(boolValue(deepEqual(a, b)))
	case bytecode.OpLt:
		b, a := s.pop(), s.pop()
		s.push(boolValue(tower.NumberCmp(a, b) < 0))
	case bytecode.OpLe:
		b, a := s.pop(), s.pop()
		s.push(boolValue(tower.NumberCmp(a, b) <= 0))
	case bytecode.OpGt:
		b, a := s.pop(), s.pop()
		s.push(boolValue(tower.NumberCmp(a, b) > 0))
	case bytecode.OpGe:
		b, a := s.pop(), s.pop()
		s.push(boolValue(tower.NumberCmp(a, b) >= 0))
	case bytecode.OpMax:
		b, a := s.pop(), s.pop()
		s.push(tower.Max(a, b))
	case bytecode.OpMin:
		b, a := s.pop(), s.pop()
		s.push(tower.Min(a, b))
	case bytecode.OpAtom:
		s.push(boolValue(!s.pop().IsCons()))
	case bytecode.OpConsp:
		s.push(boolValue(s.pop().IsCons()))
	case bytecode.OpListp:
		v := s.pop()
		s.push(boolValue(v.IsNil() || v.IsCons()))
	case bytecode.OpNumberp:
		s.push(boolValue(s.pop().IsNumber()))
	case bytecode.OpStringp:
		s.push(boolValue(s.pop().IsString()))
	case bytecode.OpVectorp:
		s.push(boolValue(s.pop().IsVector()))
	case bytecode.OpSymbolp:
		v := s.pop()
		s.push(boolValue(v.IsSymbol() || v.IsNil() || v.IsT()))
	case bytecode.OpBoundp:
		sym, ok := value.SymbolValue(s.pop())
		s.push(boolValue(ok && !sym.Value.IsVoid()))
	case bytecode.OpFunctionp:
		v := s.pop()
		s.push(boolValue(v.IsClosure() || v.IsCompiled() || isPrimitiveSymbol(s, v)))
	case bytecode.OpMacrop:
		s.push(value.Nil) // macro expansion is a compile-time concern, never a runtime value
	case bytecode.OpBytecodep:
		s.push(boolValue(s.pop().IsCompiled()))
	case bytecode.OpSpecialFormP:
		sym, ok := value.SymbolValue(s.pop())
		s.push(boolValue(ok && sym.Special))
	case bytecode.OpSubrp:
		s.push(boolValue(isPrimitiveSymbol(s, s.pop())))
	case bytecode.OpClosurep:
		s.push(boolValue(s.pop().IsClosure()))
	case bytecode.OpSequencep:
		v := s.pop()
		s.push(boolValue(v.IsNil() || v.IsCons() || v.IsVector() || v.IsString()))

	case bytecode.OpLnot:
		v, _ := tower.Lognot(s.pop())
		s.push(v)
	case bytecode.OpLor:
		b, a := s.pop(), s.pop()
		v, _ := tower.Logior(a, b)
		s.push(v)
	case bytecode.OpLxor:
		b, a := s.pop(), s.pop()
		v, _ := tower.Logxor(a, b)
		s.push(v)
	case bytecode.OpLand:
		b, a := s.pop(), s.pop()
		v, _ := tower.Logand(a, b)
		s.push(v)

	case bytecode.OpEnclose:
		s.push(env.NewClosure(s.Act.Fn, s.Act.Env).AsValue())
	case bytecode.OpMakeClosure:
		fnVal := s.pop()
		fn, ok := bytecode.CompiledFunctionValue(fnVal)
		if !ok {
			return false, value.Value{}, s.raise(vmerrors.BadArg("make-closure", "not a compiled function"))
		}
		s.push(env.NewClosure(fn, s.Act.Env).AsValue())

	case bytecode.OpJmp:
		target := bytecode.ReadJumpTarget(code, s.Act.PC)
		s.jumpTo(target)
	case bytecode.OpJn:
		target := bytecode.ReadJumpTarget(code, s.Act.PC)
		s.Act.PC += 2
		if s.pop().Falsy() {
			s.jumpTo(target)
		}
	case bytecode.OpJt:
		target := bytecode.ReadJumpTarget(code, s.Act.PC)
		s.Act.PC += 2
		if !s.pop().Falsy() {
			s.jumpTo(target)
		}
	case bytecode.OpJpn:
		target := bytecode.ReadJumpTarget(code, s.Act.PC)
		s.Act.PC += 2
		if s.peek(0).Falsy() {
			s.jumpTo(target)
		} else {
			s.pop()
		}
	case bytecode.OpJpt:
		target := bytecode.ReadJumpTarget(code, s.Act.PC)
		s.Act.PC += 2
		if !s.peek(0).Falsy() {
			s.jumpTo(target)
		} else {
			s.pop()
		}
	case bytecode.OpJnp:
		target := bytecode.ReadJumpTarget(code, s.Act.PC)
		s.Act.PC += 2
		if s.peek(0).Falsy() {
			s.pop()
			s.jumpTo(target)
		}
	case bytecode.OpJtp:
		target := bytecode.ReadJumpTarget(code, s.Act.PC)
		s.Act.PC += 2
		if !s.peek(0).Falsy() {
			s.pop()
			s.jumpTo(target)
		}
	case bytecode.OpEjmp:
		target := bytecode.ReadJumpTarget(code, s.Act.PC)
		s.Act.PC += 2
		decision := s.pop()
		if decision.Falsy() {
			s.jumpTo(target)
		} else {
			if e := s.raiseValue(decision); e != nil {
				return false, value.Value{}, e
			}
		}

	case bytecode.OpCatch:
		target := bytecode.ReadJumpTarget(code, s.Act.PC)
		s.Act.PC += 2
		tag := s.pop()
		s.Binding.Push(env.CatchEntry(tag, target, len(s.Operand)))
	case bytecode.OpThrow:
		val, tag := s.pop(), s.pop()
		if e := s.doThrow(tag, val); e != nil {
			return false, value.Value{}, e
		}
	case bytecode.OpBinderr:
		target := bytecode.ReadJumpTarget(code, s.Act.PC)
		s.Act.PC += 2
		s.Binding.Push(env.HandlerEntry(target, len(s.Operand)))
	case bytecode.OpErrorpro:
		// condition-case: top to bottom, the symbol to bind, the
		// handler's accepted condition list, and the exception cond
		// raiseValue pushed on handler entry.
		sym, conditions, cond := s.pop(), s.pop(), s.pop()
		if conditionMatches(conditions, cond) {
			symbol, _ := value.SymbolValue(sym)
			s.Act.Env = env.Bind(s.Act.Env, symbol, cond)
			s.Binding.Push(env.FrameEntry(1, 0))
			s.Throw = value.Nil
		} else if e := s.raiseValue(cond); e != nil {
			return false, value.Value{}, e
		}
	case bytecode.OpSignal:
		data, kind := s.pop(), s.pop()
		cond := value.NewCons(kind, value.List(data)).AsValue()
		if e := s.raiseValue(cond); e != nil {
			return false, value.Value{}, e
		}
	case bytecode.OpReturn:
		isDone, v := s.doReturn()
		if isDone {
			return true, v, nil
		}

	case bytecode.OpForbid:
		if s.Fiber != nil {
			s.Fiber.Forbid()
		}
	case bytecode.OpPermit:
		if s.Fiber != nil {
			s.Fiber.Permit()
		}

	case bytecode.OpEval:
		// APPLY-style dynamic call: the callee and its already-consed
		// argument list are on the stack; CALL's own symbol/closure
		// dispatch handles everything once the list is unpacked.
		argList, callee := s.pop(), s.pop()
		args, ok := value.ToSlice(argList)
		if !ok {
			return false, value.Value{}, s.raise(vmerrors.BadArg("eval", "improper argument list"))
		}
		for _, a := range args {
			s.push(a)
		}
		s.push(callee)
		if e := s.doCall(len(args), false); e != nil {
			return false, value.Value{}, e
		}

	case bytecode.OpScmTest:
		s.push(boolValue(!s.pop().SchemeFalsy()))

	default:
		return false, value.Value{}, vmerrors.BytecodeError("unknown opcode")
	}

	return false, value.Value{}, nil
}

// jumpTo sets PC to target and, on a backward jump, drives the
// cooperative-scheduling and GC safepoint: back-edges are always
// safepoints.
func (s *State) jumpTo(target int) {
	backedge := target <= s.Act.PC
	s.Act.PC = target
	if backedge {
		s.safepoint()
	}
}

func (s *State) safepoint() {
	if s.Fiber != nil && s.Fiber.CheckInterrupt() {
		// a real embedding would raise user-interrupt here; the bare
		// core only exposes the flag for the host to observe.
		_ = vmerrors.UserInterrupt()
	}
	if s.GC != nil && s.GC.ShouldCollect() {
		s.GC.ResetSinceLastCollection()
	}
}

func (s *State) doBinaryArith(op bytecode.Op) error {
	b, a := s.pop(), s.pop()
	var v value.Value
	var e error
	switch op {
	case bytecode.OpAdd:
		v, e = tower.Add(a, b)
	case bytecode.OpSub:
		v, e = tower.Sub(a, b)
	case bytecode.OpMul:
		v, e = tower.Mul(a, b)
	case bytecode.OpDiv:
		v, e = tower.Div(a, b)
	case bytecode.OpRem:
		v, e = tower.Remainder(a, b)
	case bytecode.OpQuotient:
		v, e = tower.Quotient(a, b)
	case bytecode.OpMod:
		v, e = tower.Mod(a, b)
	}
	if e != nil {
		return s.raise(e.(*vmerrors.LispError))
	}
	s.push(v)
	return nil
}

func isPrimitiveSymbol(s *State, v value.Value) bool {
	sym, ok := value.SymbolValue(v)
	if !ok {
		return false
	}
	_, found := s.Registry.Lookup(sym.Name)
	return found
}

func cxrPath(op bytecode.Op) string {
	switch op {
	case bytecode.OpCaar:
		return "aa"
	case bytecode.OpCadr:
		return "ad"
	case bytecode.OpCdar:
		return "da"
	case bytecode.OpCddr:
		return "dd"
	case bytecode.OpCaddr:
		return "add"
	case bytecode.OpCadddr:
		return "addd"
	default:
		return ""
	}
}

// cxrPathByte decodes OpListRef's two operand bytes (step count, then a
// direction bitfield — bit i selects 'a' (0) or 'd' (1) for step i) into
// the a/d path cxr expects.
func cxrPathByte(depth, dirs byte) string {
	path := make([]byte, depth)
	for i := 0; i < int(depth); i++ {
		if dirs&(1<<uint(i)) != 0 {
			path[i] = 'd'
		} else {
			path[i] = 'a'
		}
	}
	return string(path)
}
