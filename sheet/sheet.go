package sheet

import (
	"strconv"
	"strings"

	"reckon/ast"
	"reckon/graph"
	"reckon/operator"
	"reckon/parser"
)

const (
	DefaultRows    = 20
	DefaultColumns = 10
)

// Sheet is the formula engine: a fixed-size grid of cells, their cached
// values, and the dependency graph between them. The three advance
// atomically; TryUpdate either commits all of them or none.
//
// An edge u -> v in the graph means "the formula at u reads v".
type Sheet struct {
	rows int
	cols int

	cells  map[Position]*Cell
	values map[Position]Value
	deps   *graph.Directed[Position]

	ops    *operator.Catalog
	parser *parser.Parser
}

// New creates an empty sheet with the default 20 x 10 grid.
func New() *Sheet {
	return NewWithSize(DefaultRows, DefaultColumns)
}

// NewWithSize creates an empty sheet with the given dimensions.
func NewWithSize(rows, cols int) *Sheet {
	ops := operator.NewCatalog()
	return &Sheet{
		rows:   rows,
		cols:   cols,
		cells:  make(map[Position]*Cell),
		values: make(map[Position]Value),
		deps:   graph.NewDirected[Position](),
		ops:    ops,
		parser: parser.New(ops),
	}
}

func (s *Sheet) Rows() int    { return s.rows }
func (s *Sheet) Columns() int { return s.cols }

// RawContent returns the raw string stored at a position, if any.
func (s *Sheet) RawContent(row, col int) (string, bool) {
	cell, ok := s.cells[Position{Row: row, Col: col}]
	if !ok {
		return "", false
	}
	return cell.Raw, true
}

// Value returns the cached value at a position, if any.
func (s *Sheet) Value(row, col int) (Value, bool) {
	v, ok := s.values[Position{Row: row, Col: col}]
	return v, ok
}

// TryUpdate parses raw, rewrites the dependency graph, re-evaluates the
// edited cell and everything downstream of it, and commits. On success the
// returned map holds every position whose value changed, with nil marking
// a removed value. On failure nothing is committed and the error
// classifies via Classify.
func (s *Sheet) TryUpdate(row, col int, raw string) (map[Position]*Value, error) {
	pos := Position{Row: row, Col: col}
	if !s.inBounds(pos) {
		return nil, &BadNameError{Name: pos.Name()}
	}
	content, err := s.parseContent(raw)
	if err != nil {
		return nil, err
	}
	dependencies, err := s.dependencies(content)
	if err != nil {
		return nil, err
	}

	// Rewrite a clone of the graph; the committed one is untouched until
	// every validation has passed.
	tentative := s.deps.Clone()
	tentative.RemoveOutEdges(pos)
	for d := range dependencies {
		tentative.AddEdge(pos, d)
	}
	tentative.Prune()

	order, err := tentative.TopologicalOrder()
	if err != nil {
		return nil, err
	}
	dependents := orderedDependents(tentative, order, pos)

	if content.Kind == ContentEmpty {
		if len(dependents) > 0 {
			return nil, evalErrf("cannot delete cell %s: other cells depend on it", pos.Name())
		}
		delete(s.cells, pos)
		delete(s.values, pos)
		s.deps = tentative
		return map[Position]*Value{pos: nil}, nil
	}

	// Evaluate into a scratch cache: the edited cell first, then its
	// dependents in an order where every cell follows what it reads.
	scratch := make(map[Position]Value)
	value, err := s.evaluateContent(content, scratch)
	if err != nil {
		return nil, err
	}
	scratch[pos] = value
	for _, d := range dependents {
		cell, ok := s.cells[d]
		if !ok {
			return nil, evalErrf("dependent cell %s has no content", d.Name())
		}
		dv, err := s.evaluateContent(cell.Content, scratch)
		if err != nil {
			return nil, err
		}
		scratch[d] = dv
	}

	// Commit.
	s.cells[pos] = &Cell{Raw: raw, Content: content}
	s.deps = tentative
	changed := make(map[Position]*Value, len(scratch))
	for p, v := range scratch {
		s.values[p] = v
		committed := v
		changed[p] = &committed
	}
	return changed, nil
}

// parseContent maps raw input onto its parsed form: empty marker, number,
// formula tree, or literal text.
func (s *Sheet) parseContent(raw string) (Content, error) {
	if raw == "" {
		return Content{Kind: ContentEmpty}, nil
	}
	if n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil {
		return Content{Kind: ContentNumber, Num: n}, nil
	}
	if strings.HasPrefix(raw, "=") {
		expr, err := s.parser.Parse(raw[1:])
		if err != nil {
			return Content{}, err
		}
		return Content{Kind: ContentFormula, Expr: expr}, nil
	}
	return Content{Kind: ContentText, Text: raw}, nil
}

// dependencies collects the positions a parsed content reads: one per cell
// reference, the expanded run per range reference.
func (s *Sheet) dependencies(content Content) (map[Position]struct{}, error) {
	deps := make(map[Position]struct{})
	if content.Kind != ContentFormula {
		return deps, nil
	}
	var firstErr error
	content.Expr.Walk(func(n *ast.Node) {
		if firstErr != nil {
			return
		}
		switch n.Kind {
		case ast.CellRef:
			p, err := s.PositionOf(n.Name)
			if err != nil {
				firstErr = err
				return
			}
			deps[p] = struct{}{}
		case ast.RangeRef:
			run, err := s.expandRange(n.Name)
			if err != nil {
				firstErr = err
				return
			}
			for _, p := range run {
				deps[p] = struct{}{}
			}
		}
	})
	if firstErr != nil {
		return nil, firstErr
	}
	return deps, nil
}

// orderedDependents lists the transitive dependents of pos in the reverse
// of the topological order, so each appears after everything it reads.
func orderedDependents(g *graph.Directed[Position], order []Position, pos Position) []Position {
	reach := g.Dependents(pos)
	dependents := make([]Position, 0, len(reach))
	for i := len(order) - 1; i >= 0; i-- {
		if _, ok := reach[order[i]]; ok {
			dependents = append(dependents, order[i])
		}
	}
	return dependents
}
