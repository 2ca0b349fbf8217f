package operator

import (
	"errors"
	"math"
	"testing"
)

func lookup(t *testing.T, c *Catalog, symbol string, kind Kind) *Operator {
	t.Helper()
	op, ok := c.Lookup(symbol, kind)
	if !ok {
		t.Fatalf("operator (%s, %s) not in catalog", symbol, kind)
	}
	return op
}

func TestBinaryOperators(t *testing.T) {
	c := NewCatalog()
	tests := []struct {
		symbol string
		a, b   float64
		want   float64
	}{
		{"+", 1, 2, 3},
		{"-", 5, 3, 2},
		{"*", 4, 2.5, 10},
		{"/", 9, 3, 3},
		{"^", 2, 10, 1024},
	}
	for _, tt := range tests {
		op := lookup(t, c, tt.symbol, Binary)
		got, err := op.ApplyBinary(tt.a, tt.b)
		if err != nil {
			t.Errorf("%g %s %g: unexpected error %v", tt.a, tt.symbol, tt.b, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%g %s %g: expected %g, got %g", tt.a, tt.symbol, tt.b, tt.want, got)
		}
	}
}

func TestDivisionByZero(t *testing.T) {
	op := lookup(t, NewCatalog(), "/", Binary)
	if _, err := op.ApplyBinary(1, 0); !errors.Is(err, ErrDivisionByZero) {
		t.Fatalf("expected ErrDivisionByZero, got %v", err)
	}
}

func TestUnaryOperators(t *testing.T) {
	c := NewCatalog()
	neg := lookup(t, c, "-", Unary)
	if got, _ := neg.ApplyUnary(3); got != -3 {
		t.Errorf("negate 3: expected -3, got %g", got)
	}
	sin := lookup(t, c, "sin", Unary)
	if got, _ := sin.ApplyUnary(0); got != 0 {
		t.Errorf("sin 0: expected 0, got %g", got)
	}
	if got, _ := sin.ApplyUnary(math.Pi / 2); math.Abs(got-1) > 1e-12 {
		t.Errorf("sin pi/2: expected 1, got %g", got)
	}
}

func TestRangeOperators(t *testing.T) {
	c := NewCatalog()
	xs := []float64{1, 2, 3, 4}
	tests := []struct {
		symbol string
		want   float64
	}{
		{"sum", 10},
		{"average", 2.5},
		{"max", 4},
		{"min", 1},
	}
	for _, tt := range tests {
		op := lookup(t, c, tt.symbol, Range)
		got, err := op.ApplyFold(xs)
		if err != nil {
			t.Errorf("%s: unexpected error %v", tt.symbol, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%s over %v: expected %g, got %g", tt.symbol, xs, tt.want, got)
		}
	}
	if _, err := lookup(t, c, "max", Range).ApplyFold(nil); !errors.Is(err, ErrEmptyRange) {
		t.Errorf("expected ErrEmptyRange, got %v", err)
	}
}

func TestSelectByContext(t *testing.T) {
	c := NewCatalog()
	tests := []struct {
		symbol      string
		prevOperand bool
		wantKind    Kind
	}{
		{"-", true, Binary},
		{"-", false, Unary},
		{"sin", true, Unary},
		{"sin", false, Unary},
		{"max", true, Range},
		{"max", false, Range},
		{"+", true, Binary},
	}
	for _, tt := range tests {
		op, ok := c.Select(tt.symbol, tt.prevOperand)
		if !ok {
			t.Errorf("Select(%q, %v) found nothing", tt.symbol, tt.prevOperand)
			continue
		}
		if op.Kind != tt.wantKind {
			t.Errorf("Select(%q, %v): expected %s, got %s", tt.symbol, tt.prevOperand, tt.wantKind, op.Kind)
		}
	}
	if _, ok := c.Select("+", false); ok {
		t.Error("Select(\"+\", false) should find nothing: plus has no unary form")
	}
}
