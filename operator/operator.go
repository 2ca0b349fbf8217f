package operator

import (
	"errors"
	"math"
)

// ErrDivisionByZero is returned by the division operator when the divisor
// is zero.
var ErrDivisionByZero = errors.New("division by zero")

// ErrEmptyRange is returned by range operators applied to no operands.
var ErrEmptyRange = errors.New("range operator applied to an empty range")

type Associativity int

const (
	LTR Associativity = iota // left to right
	RTL                      // right to left
)

// Kind tags the arity of an operator and selects which compute function
// the evaluator dispatches to.
type Kind int

const (
	Unary  Kind = iota // one operand, right child
	Binary             // two operands
	Range              // a vector of operands from a linear range
)

func (k Kind) String() string {
	switch k {
	case Unary:
		return "unary"
	case Binary:
		return "binary"
	case Range:
		return "range"
	}
	return "unknown"
}

// Operator describes one arithmetic operator: its symbol, parsing
// properties, and the compute function matching its Kind. Exactly one of
// unary, binary, and fold is set.
type Operator struct {
	Symbol     string
	Precedence int
	Assoc      Associativity
	Kind       Kind

	unary  func(x float64) (float64, error)
	binary func(a, b float64) (float64, error)
	fold   func(xs []float64) (float64, error)
}

// ApplyUnary computes the operator over a single operand.
func (op *Operator) ApplyUnary(x float64) (float64, error) {
	return op.unary(x)
}

// ApplyBinary computes the operator over a left and right operand.
func (op *Operator) ApplyBinary(a, b float64) (float64, error) {
	return op.binary(a, b)
}

// ApplyFold computes the operator over the expanded values of a range.
func (op *Operator) ApplyFold(xs []float64) (float64, error) {
	if len(xs) == 0 {
		return 0, ErrEmptyRange
	}
	return op.fold(xs)
}

// Catalog is the immutable operator registry. Lookup is by exact symbol
// equality, never by prefix: symbols overlap operand character classes
// ("sin" vs. a cell column name).
type Catalog struct {
	ops     []*Operator
	symbols map[string]struct{}
}

// NewCatalog builds the default registry.
func NewCatalog() *Catalog {
	ops := []*Operator{
		{Symbol: "+", Precedence: 1, Assoc: LTR, Kind: Binary,
			binary: func(a, b float64) (float64, error) { return a + b, nil }},
		{Symbol: "-", Precedence: 1, Assoc: LTR, Kind: Binary,
			binary: func(a, b float64) (float64, error) { return a - b, nil }},
		{Symbol: "*", Precedence: 2, Assoc: LTR, Kind: Binary,
			binary: func(a, b float64) (float64, error) { return a * b, nil }},
		{Symbol: "/", Precedence: 2, Assoc: LTR, Kind: Binary,
			binary: func(a, b float64) (float64, error) {
				if b == 0 {
					return 0, ErrDivisionByZero
				}
				return a / b, nil
			}},
		{Symbol: "^", Precedence: 4, Assoc: RTL, Kind: Binary,
			binary: func(a, b float64) (float64, error) { return math.Pow(a, b), nil }},
		{Symbol: "-", Precedence: 3, Assoc: RTL, Kind: Unary,
			unary: func(x float64) (float64, error) { return -x, nil }},
		{Symbol: "sin", Precedence: 3, Assoc: RTL, Kind: Unary,
			unary: func(x float64) (float64, error) { return math.Sin(x), nil }},
		{Symbol: "max", Precedence: 3, Assoc: RTL, Kind: Range, fold: foldMax},
		{Symbol: "min", Precedence: 3, Assoc: RTL, Kind: Range, fold: foldMin},
		{Symbol: "sum", Precedence: 3, Assoc: RTL, Kind: Range, fold: foldSum},
		{Symbol: "average", Precedence: 3, Assoc: RTL, Kind: Range,
			fold: func(xs []float64) (float64, error) {
				s, _ := foldSum(xs)
				return s / float64(len(xs)), nil
			}},
	}
	symbols := make(map[string]struct{}, len(ops))
	for _, op := range ops {
		symbols[op.Symbol] = struct{}{}
	}
	return &Catalog{ops: ops, symbols: symbols}
}

// IsSymbol reports whether s is the exact symbol of any operator.
func (c *Catalog) IsSymbol(s string) bool {
	_, ok := c.symbols[s]
	return ok
}

// Lookup finds the operator with the given symbol and kind.
func (c *Catalog) Lookup(symbol string, kind Kind) (*Operator, bool) {
	for _, op := range c.ops {
		if op.Symbol == symbol && op.Kind == kind {
			return op, true
		}
	}
	return nil, false
}

// Select resolves a symbol to an operator by context: a range operator if
// one exists for the symbol, otherwise a binary operator when the previous
// token was an operand, otherwise a unary operator.
func (c *Catalog) Select(symbol string, prevIsOperand bool) (*Operator, bool) {
	if op, ok := c.Lookup(symbol, Range); ok {
		return op, true
	}
	if prevIsOperand {
		if op, ok := c.Lookup(symbol, Binary); ok {
			return op, true
		}
	}
	return c.Lookup(symbol, Unary)
}

func foldSum(xs []float64) (float64, error) {
	var s float64
	for _, x := range xs {
		s += x
	}
	return s, nil
}

func foldMax(xs []float64) (float64, error) {
	m := xs[0]
	for _, x := range xs[1:] {
		if x > m {
			m = x
		}
	}
	return m, nil
}

func foldMin(xs []float64) (float64, error) {
	m := xs[0]
	for _, x := range xs[1:] {
		if x < m {
			m = x
		}
	}
	return m, nil
}
