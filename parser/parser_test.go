package parser

import (
	"errors"
	"math"
	"testing"

	"reckon/ast"
	"reckon/operator"
)

func parse(t *testing.T, formula string) *ast.Node {
	t.Helper()
	root, err := New(operator.NewCatalog()).Parse(formula)
	if err != nil {
		t.Fatalf("parse %q: %v", formula, err)
	}
	return root
}

// evalNumeric folds a tree containing no references, so precedence and
// associativity can be checked end to end.
func evalNumeric(t *testing.T, n *ast.Node) float64 {
	t.Helper()
	switch n.Kind {
	case ast.Number:
		return n.Num
	case ast.Operator:
		switch n.Op.Kind {
		case operator.Unary:
			v, err := n.Op.ApplyUnary(evalNumeric(t, n.Right))
			if err != nil {
				t.Fatalf("apply %q: %v", n.Op.Symbol, err)
			}
			return v
		case operator.Binary:
			v, err := n.Op.ApplyBinary(evalNumeric(t, n.Left), evalNumeric(t, n.Right))
			if err != nil {
				t.Fatalf("apply %q: %v", n.Op.Symbol, err)
			}
			return v
		}
	}
	t.Fatalf("unexpected node in numeric tree: %+v", n)
	return 0
}

func TestParsePrecedenceAndAssociativity(t *testing.T) {
	tests := []struct {
		formula string
		want    float64
	}{
		{"1+2*3", 7},
		{"(1+2)*3", 9},
		{"2^3^2", 512}, // right associative
		{"8-2-1", 5},   // left associative
		{"16/4/2", 2},
		{"-3+4", 1},
		{"5--3", 8},
		{"-2^2", -4}, // unary binds below the power
		{"2*-3", -6},
		{"sin(0)", 0},
		{"sin(0)+1", 1},
		{"[1+2]*{3-1}", 6},
		{"  1 +  2 ", 3},
		{"1.5e2+.5", 150.5},
	}
	for _, tt := range tests {
		got := evalNumeric(t, parse(t, tt.formula))
		if math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("%q: expected %g, got %g", tt.formula, tt.want, got)
		}
	}
}

func TestParseCellReferences(t *testing.T) {
	root := parse(t, "A1+B2*C3")
	refs := root.Refs()
	want := []string{"A1", "B2", "C3"}
	if len(refs) != len(want) {
		t.Fatalf("expected refs %v, got %v", want, refs)
	}
	for i := range want {
		if refs[i] != want[i] {
			t.Fatalf("expected refs %v, got %v", want, refs)
		}
	}
}

func TestParseRangeCall(t *testing.T) {
	for _, formula := range []string{"max(A1:A4)", "sum[B1:D1]", "average{A1:A1}", "1+min(A1:A3)*2"} {
		root := parse(t, formula)
		found := false
		root.Walk(func(n *ast.Node) {
			if n.Kind != ast.Operator || n.Op.Kind != operator.Range {
				return
			}
			found = true
			if n.Right == nil || n.Right.Kind != ast.RangeRef {
				t.Errorf("%q: range operator child is not a range leaf: %+v", formula, n.Right)
			}
		})
		if !found {
			t.Errorf("%q: no range operator node in tree", formula)
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		formula string
	}{
		{"empty", ""},
		{"only spaces", "   "},
		{"two operands", "1 2"},
		{"operand then bracket", "2(3+1)"},
		{"empty brackets", "()"},
		{"unmatched open", "(1+2"},
		{"unmatched close", "1+2)"},
		{"mismatched kinds", "(1+2]"},
		{"ends with operator", "1+"},
		{"bare range", "A1:A4"},
		{"range without call", "max A1:A4"},
		{"range with cell arg", "max(A1)"},
		{"range missing bracket", "max(A1:A4"},
		{"range mismatched brackets", "max(A1:A4]"},
		{"lone operator", "*"},
		{"invalid character", "1+$"},
		{"lowercase cell", "a1+1"},
	}
	p := New(operator.NewCatalog())
	for _, tt := range tests {
		_, err := p.Parse(tt.formula)
		if err == nil {
			t.Errorf("%s: expected %q to fail", tt.name, tt.formula)
			continue
		}
		var parseErr *ParseError
		if !errors.As(err, &parseErr) {
			t.Errorf("%s: expected *ParseError, got %T: %v", tt.name, err, err)
		}
	}
}

func TestParseTreeShape(t *testing.T) {
	// 1+2*3 must hang the product under the sum.
	root := parse(t, "1+2*3")
	if root.Op == nil || root.Op.Symbol != "+" {
		t.Fatalf("expected root +, got %+v", root)
	}
	if root.Left.Kind != ast.Number || root.Left.Num != 1 {
		t.Fatalf("expected left literal 1, got %+v", root.Left)
	}
	if root.Right.Op == nil || root.Right.Op.Symbol != "*" {
		t.Fatalf("expected right subtree *, got %+v", root.Right)
	}

	// Unary minus owns only the right child.
	neg := parse(t, "-A1")
	if neg.Op == nil || neg.Op.Kind != operator.Unary {
		t.Fatalf("expected unary root, got %+v", neg)
	}
	if neg.Left != nil || neg.Right == nil || neg.Right.Name != "A1" {
		t.Fatalf("expected single right child A1, got %+v", neg)
	}
}

func TestFormatParseError(t *testing.T) {
	_, err := New(operator.NewCatalog()).Parse("1+$")
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if parseErr.Offset != 2 {
		t.Fatalf("expected offset 2, got %d", parseErr.Offset)
	}
	formatted := FormatParseError(parseErr, "1+$")
	if formatted == parseErr.Error() {
		t.Fatal("expected caret rendering, got bare message")
	}
}
