package bytecode

import (
	"fmt"

	"github.com/pkg/errors"
	"golang.org/x/mod/semver"

	"corevm/internal/value"
)

// Bytecode instruction-set version. The major version must match exactly;
// the minor version of the running VM must be >= the bytecode's minor.
const (
	MajorVersion = 1
	MinorVersion = 3
)

// CompiledFunction is the external layout of a compiled-function heap
// object: lambda-list, code string, constant vector, packed stack
// requirement, and optional doc/interactive slots.
type CompiledFunction struct {
	value.Header

	LambdaList  value.Value
	Code        []byte
	Constants   []value.Value
	StackReq    uint32 // packed: operand depth (low 16) | (binding depth-1) (high 16)
	Doc         *string
	Interactive *string
}

func (cf *CompiledFunction) AsValue() value.Value { return value.Heap(cf) }

func CompiledFunctionValue(v value.Value) (*CompiledFunction, bool) {
	if !v.IsCompiled() {
		return nil, false
	}
	return v.Obj().(*CompiledFunction), true
}

// PackStackReq packs an operand-stack depth and a binding-stack depth into
// the single stack-requirement fixnum external layout describes.
func PackStackReq(operandDepth, bindingDepth int) uint32 {
	return uint32(operandDepth&0xFFFF) | uint32((bindingDepth-1)&0xFFFF)<<16
}

// UnpackStackReq is the inverse of PackStackReq.
func UnpackStackReq(packed uint32) (operandDepth, bindingDepth int) {
	operandDepth = int(packed & 0xFFFF)
	bindingDepth = int(packed>>16) + 1
	return
}

// MakeByteCodeSubr constructs a compiled-function heap object from its
// pieces. The original primitive took a variable number of trailing
// arguments and normalized absent trailing slots to nil; here that is
// simply doc == nil / interactive == nil, so there is nothing left to
// normalize once the pieces are already typed pointers.
func MakeByteCodeSubr(lambdaList value.Value, code []byte, consts []value.Value, stackReq uint32, doc, interactive *string) *CompiledFunction {
	return &CompiledFunction{
		Header:      value.NewHeader(value.ObjCompiled),
		LambdaList:  lambdaList,
		Code:        code,
		Constants:   consts,
		StackReq:    stackReq,
		Doc:         doc,
		Interactive: interactive,
	}
}

// bcVersion renders (major, minor) as a semver string so validate-byte-code
// can delegate the "major matches exactly, minor is >=" rule to
// golang.org/x/mod/semver instead of hand-rolled integer comparison.
func bcVersion(major, minor int) string {
	return fmt.Sprintf("v%d.%d.0", major, minor)
}

// ValidateByteCode checks a bytecode instruction-set version pair against
// the compile-time MajorVersion/MinorVersion: the major version must match
// exactly, and the running VM's minor version must be >= the bytecode's.
func ValidateByteCode(major, minor int) error {
	if major != MajorVersion {
		return errors.Errorf("bytecode-error: major version %d does not match VM major version %d", major, MajorVersion)
	}
	running := bcVersion(MajorVersion, MinorVersion)
	bc := bcVersion(major, minor)
	if !semver.IsValid(running) || !semver.IsValid(bc) {
		return errors.Errorf("bytecode-error: invalid version pair (%d,%d)", major, minor)
	}
	if semver.Compare(running, bc) < 0 {
		return errors.Errorf("bytecode-error: VM minor version %d older than bytecode minor version %d", MinorVersion, minor)
	}
	return nil
}
