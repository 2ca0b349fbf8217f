package ast

import (
	"strconv"
	"strings"

	"reckon/operator"
)

// Kind discriminates what a Node holds.
type Kind int

const (
	Number   Kind = iota // numeric literal
	CellRef              // cell name, e.g. "B2"
	RangeRef             // range name, e.g. "A1:A4"
	Operator             // operator reference
)

// Node is one node of a parsed formula tree. A binary operator node has
// both children, a unary or range operator node only the right child, and
// a leaf has none. A range operator's right child is always a RangeRef
// leaf. Each tree is uniquely owned by the cell whose formula produced it.
type Node struct {
	Kind  Kind
	Num   float64            // Number leaves
	Name  string             // CellRef and RangeRef leaves
	Op    *operator.Operator // Operator nodes
	Left  *Node
	Right *Node
}

func NumberNode(v float64) *Node  { return &Node{Kind: Number, Num: v} }
func CellNode(name string) *Node  { return &Node{Kind: CellRef, Name: name} }
func RangeNode(name string) *Node { return &Node{Kind: RangeRef, Name: name} }

func (n *Node) IsLeaf() bool {
	return n.Left == nil && n.Right == nil
}

// Walk visits the tree in pre-order.
func (n *Node) Walk(visit func(*Node)) {
	if n == nil {
		return
	}
	visit(n)
	n.Left.Walk(visit)
	n.Right.Walk(visit)
}

// Refs collects the names of all reference leaves in pre-order.
func (n *Node) Refs() []string {
	var refs []string
	n.Walk(func(node *Node) {
		if node.Kind == CellRef || node.Kind == RangeRef {
			refs = append(refs, node.Name)
		}
	})
	return refs
}

// String renders the tree back as an infix formula. Operator nodes are
// parenthesized, so the output is unambiguous but not necessarily the text
// the tree was parsed from.
func (n *Node) String() string {
	var b strings.Builder
	n.render(&b)
	return b.String()
}

func (n *Node) render(b *strings.Builder) {
	switch n.Kind {
	case Number:
		b.WriteString(strconv.FormatFloat(n.Num, 'g', -1, 64))
	case CellRef, RangeRef:
		b.WriteString(n.Name)
	case Operator:
		switch n.Op.Kind {
		case operator.Unary:
			if len(n.Op.Symbol) > 1 {
				b.WriteString(n.Op.Symbol)
				b.WriteByte('(')
				n.Right.render(b)
				b.WriteByte(')')
				return
			}
			b.WriteByte('(')
			b.WriteString(n.Op.Symbol)
			n.Right.render(b)
			b.WriteByte(')')
		case operator.Range:
			b.WriteString(n.Op.Symbol)
			b.WriteByte('(')
			n.Right.render(b)
			b.WriteByte(')')
		case operator.Binary:
			b.WriteByte('(')
			n.Left.render(b)
			b.WriteString(n.Op.Symbol)
			n.Right.render(b)
			b.WriteByte(')')
		}
	}
}
