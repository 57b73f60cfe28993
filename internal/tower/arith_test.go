package tower

import (
	"math/big"
	"testing"

	"corevm/internal/value"
)

func TestAddPromotion(t *testing.T) {
	tests := []struct {
		name string
		x, y value.Value
		want int64
	}{
		{"fix+fix", value.Fixnum(2), value.Fixnum(3), 5},
		{"fix+neg", value.Fixnum(5), value.Fixnum(-2), 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Add(tt.x, tt.y)
			if err != nil {
				t.Fatalf("Add: %v", err)
			}
			if !got.IsFixnum() || got.Fix() != tt.want {
				t.Errorf("Add(%v,%v) = %v, want fixnum %d", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestAddOverflowsToBignum(t *testing.T) {
	x := value.Fixnum(value.MaxFix)
	y := value.Fixnum(1)
	got, err := Add(x, y)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if got.IsFixnum() {
		t.Fatalf("Add at MaxFix+1 stayed a fixnum, want promotion to bignum")
	}
	if !got.IsBignum() {
		t.Fatalf("Add at MaxFix+1 promoted to %v, want bignum", got.Kind())
	}
}

func TestDivExact(t *testing.T) {
	got, err := Div(value.Fixnum(6), value.Fixnum(3))
	if err != nil {
		t.Fatalf("Div: %v", err)
	}
	if !got.IsFixnum() || got.Fix() != 2 {
		t.Errorf("Div(6,3) = %v, want fixnum 2", got)
	}
}

func TestDivProducesRational(t *testing.T) {
	got, err := Div(value.Fixnum(1), value.Fixnum(3))
	if err != nil {
		t.Fatalf("Div: %v", err)
	}
	if !got.IsRational() {
		t.Errorf("Div(1,3) = %v, want exact rational", got.Kind())
	}
}

func TestDivisionByZero(t *testing.T) {
	_, err := Div(value.Fixnum(1), value.Fixnum(0))
	if err == nil {
		t.Fatal("Div(1,0) succeeded, want division-by-zero error")
	}
}

func TestModSignFollowsDivisor(t *testing.T) {
	tests := []struct {
		a, b, want int64
	}{
		{7, 3, 1},
		{-7, 3, 2},
		{7, -3, -2},
		{-7, -3, -1},
	}
	for _, tt := range tests {
		got, err := Mod(value.Fixnum(tt.a), value.Fixnum(tt.b))
		if err != nil {
			t.Fatalf("Mod(%d,%d): %v", tt.a, tt.b, err)
		}
		if !got.IsFixnum() || got.Fix() != tt.want {
			t.Errorf("Mod(%d,%d) = %v, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestRemainderSignFollowsDividend(t *testing.T) {
	tests := []struct {
		a, b, want int64
	}{
		{7, 3, 1},
		{-7, 3, -1},
		{7, -3, 1},
		{-7, -3, -1},
	}
	for _, tt := range tests {
		got, err := Remainder(value.Fixnum(tt.a), value.Fixnum(tt.b))
		if err != nil {
			t.Fatalf("Remainder(%d,%d): %v", tt.a, tt.b, err)
		}
		if !got.IsFixnum() || got.Fix() != tt.want {
			t.Errorf("Remainder(%d,%d) = %v, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestGcdFixnumFastPath(t *testing.T) {
	got, err := Gcd(value.Fixnum(48), value.Fixnum(18))
	if err != nil {
		t.Fatalf("Gcd: %v", err)
	}
	if !got.IsFixnum() || got.Fix() != 6 {
		t.Errorf("Gcd(48,18) = %v, want 6", got)
	}
}

func TestGcdBignum(t *testing.T) {
	big1 := FromBigInt(new(big.Int).Lsh(big.NewInt(1), 100))
	big2 := FromBigInt(new(big.Int).Lsh(big.NewInt(3), 90))
	got, err := Gcd(big1, big2)
	if err != nil {
		t.Fatalf("Gcd: %v", err)
	}
	want := new(big.Int).Lsh(big.NewInt(1), 90)
	if toBig(got).Cmp(want) != 0 {
		t.Errorf("Gcd bignum = %v, want %v", toBig(got), want)
	}
}

func TestNegAbsZerop(t *testing.T) {
	n, err := Neg(value.Fixnum(5))
	if err != nil || n.Fix() != -5 {
		t.Fatalf("Neg(5) = %v, %v", n, err)
	}
	a, err := Abs(value.Fixnum(-5))
	if err != nil || a.Fix() != 5 {
		t.Fatalf("Abs(-5) = %v, %v", a, err)
	}
	if !Zerop(value.Fixnum(0)) {
		t.Error("Zerop(0) = false")
	}
	if Zerop(value.Fixnum(1)) {
		t.Error("Zerop(1) = true")
	}
}

func TestRoundToEven(t *testing.T) {
	tests := []struct {
		name string
		x    value.Value
		want int64
	}{
		{"half rounds to even below", FromBigRat(big.NewRat(5, 2)), 2},
		{"half rounds to even above", FromBigRat(big.NewRat(7, 2)), 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Round(tt.x)
			if err != nil {
				t.Fatalf("Round: %v", err)
			}
			if toBig(got).Int64() != tt.want {
				t.Errorf("Round(%v) = %v, want %d", tt.x, got, tt.want)
			}
		})
	}
}

func TestAshShiftsBothDirections(t *testing.T) {
	got, err := Ash(value.Fixnum(1), 4)
	if err != nil || got.Fix() != 16 {
		t.Fatalf("Ash(1,4) = %v, %v", got, err)
	}
	got, err = Ash(value.Fixnum(16), -4)
	if err != nil || got.Fix() != 1 {
		t.Fatalf("Ash(16,-4) = %v, %v", got, err)
	}
}

func TestLogicalOps(t *testing.T) {
	got, _ := Logand(value.Fixnum(0b1100), value.Fixnum(0b1010))
	if got.Fix() != 0b1000 {
		t.Errorf("Logand = %v, want 8", got)
	}
	got, _ = Logior(value.Fixnum(0b1100), value.Fixnum(0b0010))
	if got.Fix() != 0b1110 {
		t.Errorf("Logior = %v, want 14", got)
	}
	got, _ = Logxor(value.Fixnum(0b1100), value.Fixnum(0b1010))
	if got.Fix() != 0b0110 {
		t.Errorf("Logxor = %v, want 6", got)
	}
	if !Logtest(value.Fixnum(0b1100), value.Fixnum(0b0100)) {
		t.Error("Logtest(0b1100,0b0100) = false")
	}
}

func TestMaxMin(t *testing.T) {
	if Max(value.Fixnum(3), value.Fixnum(7)).Fix() != 7 {
		t.Error("Max(3,7) != 7")
	}
	if Min(value.Fixnum(3), value.Fixnum(7)).Fix() != 3 {
		t.Error("Min(3,7) != 3")
	}
}
