// Package vmerrors defines the VM's error taxonomy as Go errors.
// Internal failures (malformed bytecode, primitive argument checks,
// arithmetic domain violations) are raised as *LispError, an ordinary Go
// error that also carries the Lisp-level (kind . data) shape the VM
// converts into a throw-slot value at the point where a primitive or
// opcode signals failure. Go-level wrapping (stack context on the Go
// side, not the Lisp side) uses github.com/pkg/errors.
package vmerrors

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Kind is one of the VM's sentinel error symbols.
type Kind string

const (
	KindError            Kind = "error"
	KindBytecodeError     Kind = "bytecode-error"
	KindArithError        Kind = "arith-error"
	KindInvalidFunction   Kind = "invalid-function"
	KindMissingArg        Kind = "missing-arg"
	KindBadArg            Kind = "bad-arg"
	KindUserInterrupt     Kind = "user-interrupt"
	KindMaxDepthExceeded  Kind = "max-depth-exceeded"
)

// LispError is the Go-side representation of a Lisp error cons (kind .
// data); the VM is the only place that turns one into an actual
// (kind . data) value.Value in the throw slot.
type LispError struct {
	Kind  Kind
	Data  []string
	cause error
}

func (e *LispError) Error() string {
	if len(e.Data) == 0 {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, strings.Join(e.Data, ", "))
}

func (e *LispError) Unwrap() error { return e.cause }

// New creates a LispError with no underlying Go cause.
func New(kind Kind, data ...string) *LispError {
	return &LispError{Kind: kind, Data: data}
}

// Wrap attaches a Lisp-level kind/data to an underlying Go error, using
// pkg/errors so the wrapped error keeps a stack trace for diagnostics.
func Wrap(cause error, kind Kind, data ...string) *LispError {
	return &LispError{Kind: kind, Data: data, cause: errors.WithStack(cause)}
}

func DivisionByZero() *LispError {
	return New(KindArithError, "Divide by zero")
}

func DomainError(detail string) *LispError {
	return New(KindArithError, "Domain error", detail)
}

func InvalidFunction(detail string) *LispError {
	return New(KindInvalidFunction, detail)
}

func MissingArg(fn string) *LispError {
	return New(KindMissingArg, fn)
}

func BadArg(fn, detail string) *LispError {
	return New(KindBadArg, fn, detail)
}

func UserInterrupt() *LispError {
	return New(KindUserInterrupt)
}

func MaxDepthExceeded(depth int) *LispError {
	return New(KindMaxDepthExceeded, fmt.Sprintf("depth %d exceeded", depth))
}

func BytecodeError(detail string) *LispError {
	return New(KindBytecodeError, detail)
}

// As reports whether err is a *LispError of the given kind.
func As(err error, kind Kind) (*LispError, bool) {
	le, ok := err.(*LispError)
	if !ok {
		return nil, false
	}
	return le, le.Kind == kind
}
