package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"

	"corevm/internal/bytecode"
	"corevm/internal/value"
)

func emitBind(code []byte, symIdx int) []byte {
	code = append(code, byte(bytecode.OpBind))
	return bytecode.WriteJumpTarget(code, symIdx)
}

func TestMain(m *testing.M) {
	os.Exit(testscript.RunMain(m, map[string]func() int{
		"corevm": func() int { return run(os.Args[1:]) },
	}))
}

// add.cvbc computes the sum of its two call arguments and returns it.
func writeAddFixture(t *testing.T, dir string) {
	t.Helper()
	// ARGS arrive on the operand stack; bind them into lexical slot 0/1
	// before adding so this mirrors a real compiled function's prologue.
	prog := emitBind(nil, 0)
	prog = emitBind(prog, 1)
	prog = append(prog, byte(bytecode.OpRefN)) // a (depth 0, innermost bind)
	prog = bytecode.EncodeImmediate(prog, bytecode.OpRefN, 1)
	prog = append(prog, byte(bytecode.OpAdd), byte(bytecode.OpReturn))

	consts := []value.Value{value.NewSymbol("b").AsValue(), value.NewSymbol("a").AsValue()}

	f, err := os.Create(filepath.Join(dir, "add.cvbc"))
	if err != nil {
		t.Fatalf("create fixture: %v", err)
	}
	defer f.Close()
	if err := writeContainer(f, prog, bytecode.PackStackReq(16, 4), consts); err != nil {
		t.Fatalf("writeContainer: %v", err)
	}
}

func TestCLIScripts(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir: "testdata/script",
		Setup: func(e *testscript.Env) error {
			writeAddFixture(t, e.WorkDir)
			return nil
		},
	})
}
