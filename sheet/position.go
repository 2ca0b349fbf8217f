package sheet

import (
	"strconv"
	"strings"

	"reckon/token"
)

// Position addresses one cell slot, zero-based.
type Position struct {
	Row int
	Col int
}

const letters = 26

// columnIndex folds column letters into an index. The low-order letter is
// the leftmost character, so "A"=0, "AA"=26, "BA"=27, "AB"=52: the index
// is the sum of (letter+1)*26^i minus one.
func columnIndex(name string) int {
	index := 0
	weight := 1
	for i := 0; i < len(name); i++ {
		index += (int(name[i]-'A') + 1) * weight
		weight *= letters
	}
	return index - 1
}

// columnName is the inverse of columnIndex: emit index mod 26 as a
// letter, then divide by 26 and subtract one, until the index goes
// negative.
func columnName(index int) string {
	var b strings.Builder
	for index >= 0 {
		b.WriteByte(byte(index%letters) + 'A')
		index = index/letters - 1
	}
	return b.String()
}

func rowIndex(name string) (int, bool) {
	n, err := strconv.Atoi(name)
	if err != nil || n < 1 {
		return 0, false
	}
	return n - 1, true
}

func rowName(index int) string {
	return strconv.Itoa(index + 1)
}

// parseName splits a well-formed cell name into its position, without
// bounds checking.
func parseName(name string) (Position, bool) {
	if !token.IsCellName(name) {
		return Position{}, false
	}
	split := 0
	for split < len(name) && name[split] >= 'A' && name[split] <= 'Z' {
		split++
	}
	row, ok := rowIndex(name[split:])
	if !ok {
		return Position{}, false
	}
	return Position{Row: row, Col: columnIndex(name[:split])}, true
}

// Name renders the position as a cell name such as "B12".
func (p Position) Name() string {
	return columnName(p.Col) + rowName(p.Row)
}

// PositionOf resolves a cell name against the sheet bounds.
func (s *Sheet) PositionOf(name string) (Position, error) {
	p, ok := parseName(name)
	if !ok || !s.inBounds(p) {
		return Position{}, &BadNameError{Name: name}
	}
	return p, nil
}

// NameOf renders an in-bounds position as a cell name.
func (s *Sheet) NameOf(p Position) string {
	return p.Name()
}

func (s *Sheet) inBounds(p Position) bool {
	return p.Row >= 0 && p.Row < s.rows && p.Col >= 0 && p.Col < s.cols
}

// expandRange expands "A1:A4" into the inclusive run of positions along a
// shared row or column. Any other shape, reversed endpoints included, is a
// bad name.
func (s *Sheet) expandRange(name string) ([]Position, error) {
	colon := strings.IndexByte(name, ':')
	if colon < 0 {
		return nil, &BadNameError{Name: name}
	}
	from, err := s.PositionOf(name[:colon])
	if err != nil {
		return nil, &BadNameError{Name: name}
	}
	to, err := s.PositionOf(name[colon+1:])
	if err != nil {
		return nil, &BadNameError{Name: name}
	}
	switch {
	case from.Row == to.Row && from.Col <= to.Col:
		run := make([]Position, 0, to.Col-from.Col+1)
		for c := from.Col; c <= to.Col; c++ {
			run = append(run, Position{Row: from.Row, Col: c})
		}
		return run, nil
	case from.Col == to.Col && from.Row <= to.Row:
		run := make([]Position, 0, to.Row-from.Row+1)
		for r := from.Row; r <= to.Row; r++ {
			run = append(run, Position{Row: r, Col: from.Col})
		}
		return run, nil
	}
	return nil, &BadNameError{Name: name}
}
