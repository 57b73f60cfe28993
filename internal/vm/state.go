package vm

import (
	"github.com/google/uuid"

	"corevm/internal/bytecode"
	"corevm/internal/call"
	"corevm/internal/env"
	"corevm/internal/gcroot"
	"corevm/internal/scheduler"
	"corevm/internal/value"
	"corevm/internal/vmerrors"
)

// Activation is the current instruction pointer plus the code/constants
// it is reading from and the lexical chain it resolves REFN/SETN against
// — an activation record, one per in-flight call.
type Activation struct {
	Fn        *bytecode.CompiledFunction
	Env       *env.Frame
	PC        int
	StackBase int // operand-stack depth when this activation began
	BindBase  int // binding-stack depth when this activation began
	Impurity  int // count of this activation's live special/resource bindings; TCE requires 0
}

// State is one fiber's complete VM state: the operand stack, the binding
// stack, the dynamic special-binding chain, the non-tail call stack, the
// current activation, the throw slot, and the shared (cross-fiber)
// primitive/symbol tables.
type State struct {
	Config Config

	Operand []value.Value
	Binding *env.Stack
	Special *env.Special
	Calls   *call.Record
	Act     Activation

	// Throw is the slot CATCH/THROW and the error-handler protocol
	// communicate a non-local exit value through.
	Throw value.Value

	Registry *call.Registry
	Symbols  *value.Table

	Fiber *scheduler.Fiber
	GC    *gcroot.Tracker

	ID uuid.UUID

	callDepth int
	instrs    uint64
}

// New creates a State ready to Run a top-level compiled function. reg and
// syms are shared across every fiber of one VM instance.
func New(cfg Config, reg *call.Registry, syms *value.Table) *State {
	s := &State{
		Config:   cfg,
		Operand:  make([]value.Value, 0, cfg.InitialOperandStack),
		Binding:  env.NewStack(),
		Registry: reg,
		Symbols:  syms,
		ID:       uuid.New(),
	}
	s.GC = gcroot.NewTracker(gcroot.Roots{
		Operand: gcroot.RootRange{Name: "operand", Len: func() int { return len(s.Operand) }},
		Binding: gcroot.RootRange{Name: "binding", Len: s.Binding.Depth},
	}, cfg.GCThresholdBytes)
	return s
}

// --- operand stack ---

func (s *State) push(v value.Value) { s.Operand = append(s.Operand, v) }

func (s *State) pop() value.Value {
	n := len(s.Operand) - 1
	v := s.Operand[n]
	s.Operand = s.Operand[:n]
	return v
}

func (s *State) peek(depth int) value.Value {
	return s.Operand[len(s.Operand)-1-depth]
}

func (s *State) popN(n int) []value.Value {
	base := len(s.Operand) - n
	args := make([]value.Value, n)
	copy(args, s.Operand[base:])
	s.Operand = s.Operand[:base]
	return args
}

// truncateOperand restores the operand stack to depth d, used by RETURN,
// THROW, and error-handler unwind.
func (s *State) truncateOperand(d int) { s.Operand = s.Operand[:d] }

// code/constant accessors against the current activation.
func (s *State) fetchByte() byte {
	b := s.Act.Fn.Code[s.Act.PC]
	s.Act.PC++
	return b
}

func (s *State) constant(k int) value.Value { return s.Act.Fn.Constants[k] }

// checkDepth enforces Config.MaxCallDepth on non-tail calls.
func (s *State) checkDepth() error {
	if s.Config.MaxCallDepth > 0 && s.callDepth >= s.Config.MaxCallDepth {
		return vmerrors.MaxDepthExceeded(s.callDepth)
	}
	return nil
}
