package sheet

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/renameio/v2"
	"github.com/pkg/errors"
)

// Save exports the sheet to path, dispatching on the suffix: ".json"
// writes raw cell contents keyed by cell name, ".csv" writes the grid of
// computed values. The file is written atomically.
func (s *Sheet) Save(path string) error {
	var data []byte
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		data, err = s.exportJSON()
	case ".csv":
		data = s.exportCSV()
	default:
		return errors.Errorf("unsupported file extension %q: want .csv or .json", filepath.Ext(path))
	}
	if err != nil {
		return err
	}
	return errors.Wrapf(renameio.WriteFile(path, data, 0o644), "save %s", path)
}

// exportJSON renders every stored cell as a flat object of cell name to
// raw content, the same shape Load accepts.
func (s *Sheet) exportJSON() ([]byte, error) {
	out := make(map[string]string, len(s.cells))
	for pos, cell := range s.cells {
		out[pos.Name()] = cell.Raw
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "encode sheet")
	}
	return append(data, '\n'), nil
}

// exportCSV renders the full grid of computed values, one line per row.
// String values containing a comma are wrapped in double quotes.
func (s *Sheet) exportCSV() []byte {
	var b strings.Builder
	for row := 0; row < s.rows; row++ {
		for col := 0; col < s.cols; col++ {
			if col > 0 {
				b.WriteByte(',')
			}
			if v, ok := s.values[Position{Row: row, Col: col}]; ok {
				field := v.String()
				if strings.Contains(field, ",") {
					field = `"` + field + `"`
				}
				b.WriteString(field)
			}
		}
		b.WriteByte('\n')
	}
	return []byte(b.String())
}

// Load builds a sheet of the given dimensions from a JSON export: a flat
// object whose keys are cell names and whose values are raw cell strings.
// Any other shape is rejected. The whole file is validated, wired into
// the dependency graph, cycle-checked, and evaluated before the sheet is
// returned; any failure returns an error and no sheet.
func Load(data []byte, rows, cols int) (*Sheet, error) {
	var raw map[string]*string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "decode sheet data")
	}
	if raw == nil {
		return nil, errors.New("decode sheet data: expected an object of cell names to raw strings")
	}
	s := NewWithSize(rows, cols)

	// First pass: resolve names, parse contents, collect dependencies.
	for name, ptr := range raw {
		if ptr == nil {
			return nil, errors.Errorf("cell %s: value must be a string", name)
		}
		text := *ptr
		pos, err := s.PositionOf(name)
		if err != nil {
			return nil, err
		}
		content, err := s.parseContent(text)
		if err != nil {
			return nil, errors.Wrapf(err, "cell %s", name)
		}
		if content.Kind == ContentEmpty {
			continue
		}
		deps, err := s.dependencies(content)
		if err != nil {
			return nil, errors.Wrapf(err, "cell %s", name)
		}
		s.cells[pos] = &Cell{Raw: text, Content: content}
		for d := range deps {
			s.deps.AddEdge(pos, d)
		}
	}

	// Cycle check over the whole loaded graph.
	order, err := s.deps.TopologicalOrder()
	if err != nil {
		return nil, err
	}

	// Evaluate dependencies before the cells that read them: the reversed
	// topological order for graph cells, any order for the rest.
	scratch := make(map[Position]Value)
	for i := len(order) - 1; i >= 0; i-- {
		pos := order[i]
		cell, ok := s.cells[pos]
		if !ok {
			return nil, evalErrf("cell %s is referenced but has no content", pos.Name())
		}
		v, err := s.evaluateContent(cell.Content, scratch)
		if err != nil {
			return nil, errors.Wrapf(err, "cell %s", pos.Name())
		}
		scratch[pos] = v
	}
	for pos, cell := range s.cells {
		if _, done := scratch[pos]; done {
			continue
		}
		v, err := s.evaluateContent(cell.Content, scratch)
		if err != nil {
			return nil, errors.Wrapf(err, "cell %s", pos.Name())
		}
		scratch[pos] = v
	}
	for pos, v := range scratch {
		s.values[pos] = v
	}
	return s, nil
}

// LoadFile reads a JSON export from disk. See Load.
func LoadFile(path string, rows, cols int) (*Sheet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	return Load(data, rows, cols)
}

// Positions lists every stored cell position, row-major, for front-ends
// that want a stable iteration order.
func (s *Sheet) Positions() []Position {
	out := make([]Position, 0, len(s.cells))
	for pos := range s.cells {
		out = append(out, pos)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Row != out[j].Row {
			return out[i].Row < out[j].Row
		}
		return out[i].Col < out[j].Col
	})
	return out
}
