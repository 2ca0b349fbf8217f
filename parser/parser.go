package parser

import (
	"strconv"

	"reckon/ast"
	"reckon/lexer"
	"reckon/operator"
	"reckon/token"
)

// Parser turns formula text (the part after the leading "=") into an
// expression tree: longest-match tokenization, a shunting-yard pass to
// postfix, then postfix-to-tree conversion.
type Parser struct {
	ops *operator.Catalog
}

func New(ops *operator.Catalog) *Parser {
	return &Parser{ops: ops}
}

// Parse builds the expression tree for a formula. All failures are
// reported as *ParseError.
func (p *Parser) Parse(formula string) (*ast.Node, error) {
	tokens, ok := lexer.New(formula, p.ops).Tokenize()
	if !ok {
		bad := tokens[len(tokens)-1]
		return nil, errAt(bad.Offset, "no valid token at index %d", bad.Offset)
	}
	items, err := p.postfix(tokens)
	if err != nil {
		return nil, err
	}
	return buildTree(items)
}

// item is one element of the postfix sequence: either an operator or a
// finished leaf node.
type item struct {
	op   *operator.Operator
	leaf *ast.Node
}

// stackEntry is one element of the operator stack: an operator or an open
// bracket awaiting its match.
type stackEntry struct {
	op      *operator.Operator
	bracket token.Token
}

// postfix reduces the token sequence to postfix order, resolving each
// operator symbol by context (range, then binary after an operand, then
// unary) and validating bracket pairing and operand placement.
func (p *Parser) postfix(tokens []token.Token) ([]item, error) {
	filtered := tokens[:0:0]
	for _, t := range tokens {
		if t.Type != token.SPACE {
			filtered = append(filtered, t)
		}
	}
	if len(filtered) == 0 {
		return nil, errAt(-1, "empty formula")
	}

	var out []item
	var stack []stackEntry
	prevOperand := false
	prevOpenBracket := false

	for i := 0; i < len(filtered); {
		tok := filtered[i]
		switch {
		case tok.IsOpenBracket():
			if prevOperand {
				return nil, errAt(tok.Offset, "an open bracket cannot directly follow an operand")
			}
			stack = append(stack, stackEntry{bracket: tok})
			prevOperand, prevOpenBracket = false, true
			i++

		case tok.IsCloseBracket():
			if prevOpenBracket {
				return nil, errAt(tok.Offset, "empty brackets are not allowed")
			}
			var err error
			stack, out, err = popToOpenBracket(stack, out, tok)
			if err != nil {
				return nil, err
			}
			prevOperand, prevOpenBracket = true, false
			i++

		case tok.Type == token.OP:
			op, ok := p.ops.Select(tok.Literal, prevOperand)
			if !ok {
				return nil, errAt(tok.Offset, "invalid operator %q", tok.Literal)
			}
			if op.Kind == operator.Range {
				rangeLeaf, err := rangeCall(filtered, i)
				if err != nil {
					return nil, err
				}
				out = append(out, item{leaf: rangeLeaf}, item{op: op})
				prevOperand, prevOpenBracket = true, false
				i += 4
				break
			}
			stack, out = pushOperator(stack, out, op)
			prevOperand, prevOpenBracket = false, false
			i++

		case tok.Type == token.NUMBER:
			if prevOperand {
				return nil, errAt(tok.Offset, "cannot have two operands in a row")
			}
			v, err := strconv.ParseFloat(tok.Literal, 64)
			if err != nil {
				return nil, errAt(tok.Offset, "invalid number %q", tok.Literal)
			}
			out = append(out, item{leaf: ast.NumberNode(v)})
			prevOperand, prevOpenBracket = true, false
			i++

		case tok.Type == token.CELL:
			if prevOperand {
				return nil, errAt(tok.Offset, "cannot have two operands in a row")
			}
			out = append(out, item{leaf: ast.CellNode(tok.Literal)})
			prevOperand, prevOpenBracket = true, false
			i++

		default:
			// A bare range name is only legal as a range function argument.
			return nil, errAt(tok.Offset, "invalid token %q in expression", tok.Literal)
		}
	}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if top.op == nil {
			return nil, errAt(top.bracket.Offset, "unbalanced bracket %q", top.bracket.Literal)
		}
		out = append(out, item{op: top.op})
	}
	if !prevOperand {
		return nil, errAt(-1, "the expression must end with an operand")
	}
	return out, nil
}

// popToOpenBracket drains operators to the output until the matching open
// bracket is found and checks the bracket kinds pair up.
func popToOpenBracket(stack []stackEntry, out []item, close token.Token) ([]stackEntry, []item, error) {
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if top.op != nil {
			out = append(out, item{op: top.op})
			continue
		}
		if !token.BracketsMatch(top.bracket.Type, close.Type) {
			return nil, nil, errAt(close.Offset, "mismatched brackets %q and %q", top.bracket.Literal, close.Literal)
		}
		return stack, out, nil
	}
	return nil, nil, errAt(close.Offset, "no open bracket matches %q", close.Literal)
}

// pushOperator applies the precedence rule: pop while the stack top binds
// at least as tightly under the new operator's associativity.
func pushOperator(stack []stackEntry, out []item, op *operator.Operator) ([]stackEntry, []item) {
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		if top.op == nil || !bindsFirst(top.op, op) {
			break
		}
		out = append(out, item{op: top.op})
		stack = stack[:len(stack)-1]
	}
	return append(stack, stackEntry{op: op}), out
}

// bindsFirst reports whether the operator on the stack should be emitted
// before pushing the incoming one: for left-associative incoming operators
// the stack wins on equal precedence, for right-associative ones only on
// strictly higher precedence.
func bindsFirst(top, incoming *operator.Operator) bool {
	if incoming.Assoc == operator.LTR {
		return top.Precedence >= incoming.Precedence
	}
	return top.Precedence > incoming.Precedence
}

// rangeCall validates the three tokens after a range operator: an open
// bracket, a range name, and the matching close bracket. It returns the
// range leaf to emit.
func rangeCall(tokens []token.Token, opIndex int) (*ast.Node, error) {
	opTok := tokens[opIndex]
	if opIndex+3 >= len(tokens) {
		return nil, errAt(opTok.Offset, "missing range tokens after %q", opTok.Literal)
	}
	open, rng, close := tokens[opIndex+1], tokens[opIndex+2], tokens[opIndex+3]
	if !open.IsOpenBracket() || rng.Type != token.RANGE || !close.IsCloseBracket() ||
		!token.BracketsMatch(open.Type, close.Type) {
		return nil, errAt(opTok.Offset, "bad range function call format for %q", opTok.Literal)
	}
	return ast.RangeNode(rng.Literal), nil
}

// buildTree folds the postfix sequence into a tree on a node stack.
func buildTree(items []item) (*ast.Node, error) {
	var stack []*ast.Node
	for _, it := range items {
		if it.leaf != nil {
			stack = append(stack, it.leaf)
			continue
		}
		node := &ast.Node{Kind: ast.Operator, Op: it.op}
		switch it.op.Kind {
		case operator.Unary, operator.Range:
			if len(stack) < 1 {
				return nil, errAt(-1, "operator %q has no operand", it.op.Symbol)
			}
			node.Right = stack[len(stack)-1]
			stack = stack[:len(stack)-1]
		case operator.Binary:
			if len(stack) < 2 {
				return nil, errAt(-1, "operator %q does not have two operands", it.op.Symbol)
			}
			node.Right = stack[len(stack)-1]
			node.Left = stack[len(stack)-2]
			stack = stack[:len(stack)-2]
		}
		stack = append(stack, node)
	}
	if len(stack) != 1 {
		return nil, errAt(-1, "expression does not reduce to a single tree")
	}
	return stack[0], nil
}
