// Package bytecode defines the closed instruction set the dispatch loop
// consumes, the immediate-argument encoding shared by several opcode
// families, and the external layout of a compiled-function heap object.
package bytecode

// Op is a single byte opcode. Opcode families that take an embedded
// immediate argument reserve eight consecutive raw byte values
// (base..base+7, see DecodeImmediate); only the base is named, the
// remaining seven are reserved (blank) iota slots.
type Op byte

const (
	// --- Stack family ---
	OpPushConst Op = iota // PUSH-const k (k is the next 2 bytes, high byte first)
	OpDup
	OpSwap
	OpSwap2
	OpPop
	OpPopAll
	OpPushNil
	OpPushT
	OpPushI  // ±small fixnum, next byte (signed)
	OpPushIW // ±word-sized fixnum, next 2 bytes (two's complement)

	// --- Env ref family: six 8-wide immediate families ---
	OpRefQ // global/special ref by const-pool symbol index k
	_
	_
	_
	_
	_
	_
	_
	OpRefN // lexical ref by depth k
	_
	_
	_
	_
	_
	_
	_
	OpRefG // structure-scoped global ref by k
	_
	_
	_
	_
	_
	_
	_
	OpSetQ
	_
	_
	_
	_
	_
	_
	_
	OpSetN
	_
	_
	_
	_
	_
	_
	_
	OpSetG
	_
	_
	_
	_
	_
	_
	_

	// --- Binding family ---
	OpInitBind
	OpBind     // lexical bind top-of-stack to const-pool symbol k
	OpBindSpec // special bind
	OpBindObj  // resource bind
	OpUnbind
	OpUnbindAll
	OpUnbindAll0

	// --- List family ---
	OpCons
	OpCar
	OpCdr
	OpCaar
	OpCadr
	OpCdar
	OpCddr
	OpCaddr
	OpCadddr
	OpListRef // general nth-car/cdr combination up to depth 7, operand encodes path
	OpRplaca
	OpRplacd
	OpNth
	OpNthcdr
	OpList // LIST n -- conses n stack values into a list
	OpReverse
	OpNreverse
	OpMember
	OpMemq
	OpAssoc
	OpAssq
	OpRassoc
	OpRassq
	OpLast
	OpCopySequence

	// --- Vectors / props family ---
	OpAref
	OpAset
	OpLength
	OpGet
	OpPut
	OpStructRef

	// --- Arithmetic family ---
	OpAdd
	OpSub
	OpNeg
	OpMul
	OpDiv
	OpRem
	OpQuotient
	OpMod
	OpAsh
	OpInc
	OpDec
	OpZerop
	OpExp
	OpLog
	OpSin
	OpCos
	OpTan
	OpSqrt
	OpExpt
	OpFloor
	OpCeiling
	OpTruncate
	OpRound

	// --- Logic / test family ---
	OpNot
	OpNull
	OpEq
	OpEql
	OpEqual
	OpLt
	OpLe
	OpGt
	OpGe
	OpMax
	OpMin
	OpAtom
	OpConsp
	OpListp
	OpNumberp
	OpStringp
	OpVectorp
	OpSymbolp
	OpBoundp
	OpFunctionp
	OpMacrop
	OpBytecodep
	OpSpecialFormP
	OpSubrp
	OpClosurep
	OpSequencep

	// --- Bitwise family ---
	OpLnot
	OpLor
	OpLxor
	OpLand

	// --- Call family: CALL n, 8-wide immediate ---
	OpCall
	_
	_
	_
	_
	_
	_
	_

	// --- Closure family ---
	OpEnclose
	OpMakeClosure

	// --- Control family ---
	OpJmp
	OpJn
	OpJt
	OpJpn
	OpJpt
	OpJnp
	OpJtp
	OpEjmp
	OpCatch
	OpThrow
	OpBinderr
	OpErrorpro
	OpSignal
	OpReturn

	// --- Scheduler family ---
	OpForbid
	OpPermit

	// --- Eval hook ---
	OpEval

	// --- R7RS test ---
	OpScmTest
)

// ArgShift is the bit shift applied to the high byte of a 16-bit immediate
// operand.
const ArgShift = 8

// DecodeImmediate reads the embedded-or-trailing-byte immediate argument
// for an opcode family whose base value is base, where code[pc] is the
// opcode byte itself (base+0 .. base+7). It returns the immediate value
// and the PC of the next instruction.
func DecodeImmediate(code []byte, pc int, base Op) (imm int, nextPC int) {
	low := int(code[pc]) - int(base)
	switch {
	case low >= 0 && low <= 5:
		return low, pc + 1
	case low == 6:
		return int(code[pc+1]), pc + 2
	default: // low == 7
		return int(code[pc+1])<<ArgShift | int(code[pc+2]), pc + 3
	}
}

// EncodeImmediate appends an opcode+operand pair for family base using the
// most compact of the three encodings.
func EncodeImmediate(code []byte, base Op, imm int) []byte {
	switch {
	case imm >= 0 && imm <= 5:
		return append(code, byte(int(base)+imm))
	case imm >= 0 && imm <= 0xFF:
		return append(code, byte(int(base)+6), byte(imm))
	default:
		return append(code, byte(int(base)+7), byte(imm>>ArgShift), byte(imm&0xFF))
	}
}

// InFamily reports whether opcode byte b belongs to the 8-wide immediate
// family based at base.
func InFamily(b byte, base Op) bool {
	d := int(b) - int(base)
	return d >= 0 && d <= 7
}

// ReadJumpTarget reads the 16-bit absolute jump target following a jump
// opcode at code[pc], high byte first.
func ReadJumpTarget(code []byte, pc int) int {
	return int(code[pc])<<ArgShift | int(code[pc+1])
}

// WriteJumpTarget appends a 16-bit absolute jump target, high byte first.
func WriteJumpTarget(code []byte, target int) []byte {
	return append(code, byte(target>>ArgShift), byte(target&0xFF))
}
