package bytecode

import "testing"

func TestEncodeDecodeImmediateEmbedded(t *testing.T) {
	for imm := 0; imm <= 5; imm++ {
		code := EncodeImmediate(nil, OpRefQ, imm)
		if len(code) != 1 {
			t.Fatalf("EncodeImmediate(%d) embedded form has %d bytes, want 1", imm, len(code))
		}
		got, next := DecodeImmediate(code, 0, OpRefQ)
		if got != imm || next != 1 {
			t.Errorf("DecodeImmediate round-trip(%d) = %d, %d", imm, got, next)
		}
	}
}

func TestEncodeDecodeImmediateByteForm(t *testing.T) {
	code := EncodeImmediate(nil, OpRefQ, 200)
	if len(code) != 2 {
		t.Fatalf("EncodeImmediate(200) has %d bytes, want 2", len(code))
	}
	got, next := DecodeImmediate(code, 0, OpRefQ)
	if got != 200 || next != 2 {
		t.Errorf("DecodeImmediate round-trip(200) = %d, %d", got, next)
	}
}

func TestEncodeDecodeImmediateWordForm(t *testing.T) {
	code := EncodeImmediate(nil, OpRefQ, 5000)
	if len(code) != 3 {
		t.Fatalf("EncodeImmediate(5000) has %d bytes, want 3", len(code))
	}
	got, next := DecodeImmediate(code, 0, OpRefQ)
	if got != 5000 || next != 3 {
		t.Errorf("DecodeImmediate round-trip(5000) = %d, %d", got, next)
	}
}

func TestInFamily(t *testing.T) {
	for d := 0; d <= 7; d++ {
		b := byte(int(OpRefQ) + d)
		if !InFamily(b, OpRefQ) {
			t.Errorf("InFamily(base+%d, OpRefQ) = false", d)
		}
	}
	if InFamily(byte(int(OpRefQ)+8), OpRefQ) {
		t.Error("InFamily(base+8, OpRefQ) = true, family is only 8 wide")
	}
}

func TestJumpTargetRoundTrip(t *testing.T) {
	code := WriteJumpTarget(nil, 0x1234)
	if len(code) != 2 {
		t.Fatalf("WriteJumpTarget produced %d bytes, want 2", len(code))
	}
	got := ReadJumpTarget(code, 0)
	if got != 0x1234 {
		t.Errorf("ReadJumpTarget = %#x, want 0x1234", got)
	}
}

func TestPackUnpackStackReq(t *testing.T) {
	packed := PackStackReq(100, 5)
	op, bind := UnpackStackReq(packed)
	if op != 100 || bind != 5 {
		t.Errorf("UnpackStackReq(PackStackReq(100,5)) = %d, %d", op, bind)
	}
}

func TestValidateByteCodeVersion(t *testing.T) {
	if err := ValidateByteCode(MajorVersion, MinorVersion); err != nil {
		t.Errorf("ValidateByteCode at current version: %v", err)
	}
	if err := ValidateByteCode(MajorVersion, MinorVersion-1); err != nil {
		t.Errorf("ValidateByteCode with an older minor version should be accepted: %v", err)
	}
	if err := ValidateByteCode(MajorVersion+1, 0); err == nil {
		t.Error("ValidateByteCode accepted a mismatched major version")
	}
	if err := ValidateByteCode(MajorVersion, MinorVersion+1); err == nil {
		t.Error("ValidateByteCode accepted a bytecode minor version newer than the VM's")
	}
}
