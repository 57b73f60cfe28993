package tower

import (
	"math"
	"math/big"
	"strings"
	"testing"

	"corevm/internal/value"
)

func TestPrintNumberInteger(t *testing.T) {
	if got := PrintNumber(value.Fixnum(42), 10); got != "42" {
		t.Errorf("PrintNumber(42) = %q, want \"42\"", got)
	}
}

func TestPrintNumberRadix16(t *testing.T) {
	if got := PrintNumber(value.Fixnum(255), 16); got != "ff" {
		t.Errorf("PrintNumber(255, 16) = %q, want \"ff\"", got)
	}
}

func TestPrintNumberRational(t *testing.T) {
	v := FromBigRat(big.NewRat(3, 4))
	if got := PrintNumber(v, 10); got != "3/4" {
		t.Errorf("PrintNumber(3/4) = %q, want \"3/4\"", got)
	}
}

func TestPrintNumberFloatRoundTrips(t *testing.T) {
	tests := []float64{1.0, 0.5, 100.0, -2.5}
	for _, f := range tests {
		got := PrintNumber(NewFloat(f).AsValue(), 10)
		if !strings.ContainsAny(got, ".eE") {
			t.Errorf("PrintNumber(%v) = %q, does not round-trip as a float", f, got)
		}
	}
}

func TestPrintNumberFloatSpecials(t *testing.T) {
	got := PrintNumber(NewFloat(math.Inf(1)).AsValue(), 10)
	if !strings.Contains(got, "Inf") {
		t.Errorf("PrintNumber(+Inf) = %q, want it to contain \"Inf\"", got)
	}
	got = PrintNumber(NewFloat(math.NaN()).AsValue(), 10)
	if !strings.Contains(got, "NaN") {
		t.Errorf("PrintNumber(NaN) = %q, want it to contain \"NaN\"", got)
	}
}

func TestPrintNumberBignum(t *testing.T) {
	big1 := new(big.Int).Lsh(big.NewInt(1), 100)
	got := PrintNumber(FromBigInt(big1), 10)
	if got != big1.Text(10) {
		t.Errorf("PrintNumber(2^100) = %q, want %q", got, big1.Text(10))
	}
}
