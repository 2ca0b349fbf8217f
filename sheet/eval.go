package sheet

import (
	"reckon/ast"
	"reckon/operator"
)

// evaluateContent computes the value of parsed content. Formula trees are
// evaluated recursively against the scratch cache first and the committed
// value cache as fallback, so a transaction reads its own writes.
func (s *Sheet) evaluateContent(c Content, scratch map[Position]Value) (Value, error) {
	switch c.Kind {
	case ContentNumber:
		return NumberValue(c.Num), nil
	case ContentText:
		return TextValue(c.Text), nil
	case ContentFormula:
		n, err := s.evalNode(c.Expr, scratch)
		if err != nil {
			return Value{}, err
		}
		return NumberValue(n), nil
	}
	return Value{}, evalErrf("empty content cannot be evaluated")
}

// evalNode is the recursive post-order evaluator.
func (s *Sheet) evalNode(n *ast.Node, scratch map[Position]Value) (float64, error) {
	switch n.Kind {
	case ast.Number:
		return n.Num, nil
	case ast.CellRef:
		return s.refValue(n.Name, scratch)
	case ast.Operator:
		return s.evalOperator(n, scratch)
	}
	return 0, evalErrf("unsupported node shape %q", n.Name)
}

func (s *Sheet) evalOperator(n *ast.Node, scratch map[Position]Value) (float64, error) {
	switch n.Op.Kind {
	case operator.Unary:
		if n.Right == nil {
			return 0, evalErrf("missing operand for unary %q", n.Op.Symbol)
		}
		x, err := s.evalNode(n.Right, scratch)
		if err != nil {
			return 0, err
		}
		return n.Op.ApplyUnary(x)
	case operator.Binary:
		if n.Left == nil || n.Right == nil {
			return 0, evalErrf("missing operands for binary %q", n.Op.Symbol)
		}
		a, err := s.evalNode(n.Left, scratch)
		if err != nil {
			return 0, err
		}
		b, err := s.evalNode(n.Right, scratch)
		if err != nil {
			return 0, err
		}
		return n.Op.ApplyBinary(a, b)
	case operator.Range:
		if n.Right == nil || n.Right.Kind != ast.RangeRef {
			return 0, evalErrf("range operator %q must be applied to a range", n.Op.Symbol)
		}
		run, err := s.expandRange(n.Right.Name)
		if err != nil {
			return 0, err
		}
		operands := make([]float64, 0, len(run))
		for _, p := range run {
			x, err := s.positionValue(p, scratch)
			if err != nil {
				return 0, err
			}
			operands = append(operands, x)
		}
		return n.Op.ApplyFold(operands)
	}
	return 0, evalErrf("unsupported operator kind for %q", n.Op.Symbol)
}

// refValue resolves a cell-name leaf to a numeric value.
func (s *Sheet) refValue(name string, scratch map[Position]Value) (float64, error) {
	pos, err := s.PositionOf(name)
	if err != nil {
		return 0, err
	}
	return s.positionValue(pos, scratch)
}

// positionValue looks a position up in the scratch cache, then the
// committed cache, then computes it on demand from the stored content. A
// reference used as an operand must resolve to a number.
func (s *Sheet) positionValue(pos Position, scratch map[Position]Value) (float64, error) {
	v, ok := scratch[pos]
	if !ok {
		v, ok = s.values[pos]
	}
	if !ok {
		cell, stored := s.cells[pos]
		if !stored {
			return 0, evalErrf("cell %s does not contain a value", pos.Name())
		}
		computed, err := s.evaluateContent(cell.Content, scratch)
		if err != nil {
			return 0, err
		}
		v = computed
	}
	if v.Kind != ValueNumber {
		return 0, evalErrf("cell %s does not hold a number", pos.Name())
	}
	return v.Num, nil
}
