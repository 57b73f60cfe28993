// Command corevm loads a compiled bytecode file and runs it to
// completion, printing its result. It is not a REPL or a source-level
// front end — the compiler, reader, and printer are all out of this
// core's scope; corevm only drives the VM described in internal/vm.
package main

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"corevm/internal/bytecode"
	"corevm/internal/call"
	"corevm/internal/tower"
	"corevm/internal/value"
	"corevm/internal/vm"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run is main's body factored out so the CLI can be exercised in-process
// by the testscript-driven tests in main_test.go, which register it under
// the "corevm" command name instead of forking a real binary.
func run(args []string) int {
	var (
		trace   bool
		path    string
		argRest []string
	)

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-trace", "--trace":
			trace = true
		case "-h", "-help", "--help":
			usage()
			return 0
		default:
			if path == "" {
				path = args[i]
			} else {
				argRest = append(argRest, args[i])
			}
		}
	}

	if path == "" {
		usage()
		return 2
	}

	f, err := os.Open(path)
	if err != nil {
		return fatal(err)
	}
	defer f.Close()

	fn, err := readContainer(f)
	if err != nil {
		return fatal(err)
	}

	cfg := vm.DefaultConfig()
	cfg.Trace = trace

	reg := call.NewRegistry()
	registerBuiltins(reg)
	syms := value.NewTable()

	state := vm.New(cfg, reg, syms)

	callArgs := make([]value.Value, len(argRest))
	for i, a := range argRest {
		n, perr := tower.ParseNumber(a, 10)
		if perr == nil {
			callArgs[i] = n
		} else {
			callArgs[i] = value.NewString(a).AsValue()
		}
	}

	result, err := state.Run(fn, callArgs)
	if err != nil {
		return fatal(err)
	}

	fmt.Println(formatResult(result))
	return 0
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: corevm [-trace] <bytecode-file> [args...]")
}

func fatal(err error) int {
	if isatty.IsTerminal(os.Stderr.Fd()) {
		fmt.Fprintf(os.Stderr, "\x1b[31mcorevm: %v\x1b[0m\n", err)
	} else {
		fmt.Fprintf(os.Stderr, "corevm: %v\n", err)
	}
	return 1
}

func formatResult(v value.Value) string {
	switch {
	case v.IsNumber():
		return tower.PrintNumber(v, 10)
	case v.IsString():
		s, _ := value.StringValue(v)
		return s.String()
	case v.IsNil():
		return "nil"
	case v.IsT():
		return "t"
	default:
		return fmt.Sprintf("#<object>")
	}
}

// containerMagic identifies a corevm bytecode container: not a spec'd
// wire format (the reader/printer are out of scope), just the minimal
// framing this driver needs to hand a CompiledFunction to the VM.
const containerMagic = "CVBC"

func readContainer(f *os.File) (*bytecode.CompiledFunction, error) {
	var magic [4]byte
	if _, err := f.Read(magic[:]); err != nil {
		return nil, err
	}
	if string(magic[:]) != containerMagic {
		return nil, fmt.Errorf("not a corevm bytecode container")
	}

	var major, minor uint16
	if err := binary.Read(f, binary.BigEndian, &major); err != nil {
		return nil, err
	}
	if err := binary.Read(f, binary.BigEndian, &minor); err != nil {
		return nil, err
	}
	if err := bytecode.ValidateByteCode(int(major), int(minor)); err != nil {
		return nil, err
	}

	var codeLen uint32
	if err := binary.Read(f, binary.BigEndian, &codeLen); err != nil {
		return nil, err
	}
	code := make([]byte, codeLen)
	if _, err := f.Read(code); err != nil {
		return nil, err
	}

	var stackReq uint32
	if err := binary.Read(f, binary.BigEndian, &stackReq); err != nil {
		return nil, err
	}

	var constCount uint16
	if err := binary.Read(f, binary.BigEndian, &constCount); err != nil {
		return nil, err
	}
	consts := make([]value.Value, constCount)
	for i := range consts {
		var kind byte
		if err := binary.Read(f, binary.BigEndian, &kind); err != nil {
			return nil, err
		}
		switch kind {
		case 0: // fixnum
			var n int64
			binary.Read(f, binary.BigEndian, &n)
			consts[i] = value.Fixnum(n)
		case 1: // symbol name
			var nameLen uint16
			binary.Read(f, binary.BigEndian, &nameLen)
			name := make([]byte, nameLen)
			f.Read(name)
			consts[i] = value.NewSymbol(string(name)).AsValue()
		case 2: // nil
			consts[i] = value.Nil
		default:
			return nil, fmt.Errorf("unknown constant tag %d", kind)
		}
	}

	return bytecode.MakeByteCodeSubr(value.Nil, code, consts, stackReq, nil, nil), nil
}

// writeContainer is readContainer's inverse, used to build .cvbc fixtures
// for the testscript scripts under testdata/script; corevm itself never
// writes a container, only loads one.
func writeContainer(w io.Writer, code []byte, stackReq uint32, consts []value.Value) error {
	if _, err := w.Write([]byte(containerMagic)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.BigEndian, uint16(1)); err != nil { // major
		return err
	}
	if err := binary.Write(w, binary.BigEndian, uint16(0)); err != nil { // minor
		return err
	}
	if err := binary.Write(w, binary.BigEndian, uint32(len(code))); err != nil {
		return err
	}
	if _, err := w.Write(code); err != nil {
		return err
	}
	if err := binary.Write(w, binary.BigEndian, stackReq); err != nil {
		return err
	}
	if err := binary.Write(w, binary.BigEndian, uint16(len(consts))); err != nil {
		return err
	}
	for _, c := range consts {
		switch {
		case c.IsFixnum():
			w.Write([]byte{0})
			binary.Write(w, binary.BigEndian, c.Fix())
		case c.IsSymbol():
			sym, _ := value.SymbolValue(c)
			w.Write([]byte{1})
			binary.Write(w, binary.BigEndian, uint16(len(sym.Name)))
			io.WriteString(w, sym.Name)
		case c.IsNil():
			w.Write([]byte{2})
		default:
			return fmt.Errorf("writeContainer: unsupported fixture constant kind")
		}
	}
	return nil
}
