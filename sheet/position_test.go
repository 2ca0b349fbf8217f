package sheet

import (
	"errors"
	"testing"
)

func TestColumnNameRoundTrip(t *testing.T) {
	// The low-order letter sits leftmost: "A"=0 ... "Z"=25, "AA"=26,
	// "BA"=27, "AB"=52.
	tests := []struct {
		index int
		name  string
	}{
		{0, "A"},
		{1, "B"},
		{25, "Z"},
		{26, "AA"},
		{27, "BA"},
		{51, "ZA"},
		{52, "AB"},
	}
	for _, tt := range tests {
		if got := columnName(tt.index); got != tt.name {
			t.Errorf("columnName(%d): expected %q, got %q", tt.index, tt.name, got)
		}
		if got := columnIndex(tt.name); got != tt.index {
			t.Errorf("columnIndex(%q): expected %d, got %d", tt.name, tt.index, got)
		}
	}
	for index := 0; index < 1000; index++ {
		if got := columnIndex(columnName(index)); got != index {
			t.Fatalf("column round trip broke at %d (got %d)", index, got)
		}
	}
}

func TestNameRoundTrip(t *testing.T) {
	s := NewWithSize(100, 100)
	for row := 0; row < s.Rows(); row++ {
		for col := 0; col < s.Columns(); col++ {
			p := Position{Row: row, Col: col}
			back, err := s.PositionOf(p.Name())
			if err != nil {
				t.Fatalf("PositionOf(%q): %v", p.Name(), err)
			}
			if back != p {
				t.Fatalf("round trip %v -> %q -> %v", p, p.Name(), back)
			}
		}
	}
}

func TestPositionOfRejectsBadNames(t *testing.T) {
	s := New() // 20 x 10
	bad := []string{
		"", "A", "1", "a1", "A0", "1A", "A-1", "A1:B1",
		"ZZ9999", // out of bounds
		"K1",     // column 10 on a 10-column sheet
		"A21",    // row 20 on a 20-row sheet
	}
	for _, name := range bad {
		_, err := s.PositionOf(name)
		var badName *BadNameError
		if !errors.As(err, &badName) {
			t.Errorf("PositionOf(%q): expected BadNameError, got %v", name, err)
		}
	}
	if _, err := s.PositionOf("J20"); err != nil {
		t.Errorf("PositionOf(J20) on 20x10: unexpected error %v", err)
	}
}

func TestExpandRange(t *testing.T) {
	s := New()
	tests := []struct {
		name string
		want []Position
	}{
		{"A1:A4", []Position{{0, 0}, {1, 0}, {2, 0}, {3, 0}}},
		{"B2:D2", []Position{{1, 1}, {1, 2}, {1, 3}}},
		{"C3:C3", []Position{{2, 2}}}, // single-cell range is legal
	}
	for _, tt := range tests {
		got, err := s.expandRange(tt.name)
		if err != nil {
			t.Errorf("expandRange(%q): %v", tt.name, err)
			continue
		}
		if len(got) != len(tt.want) {
			t.Errorf("expandRange(%q): expected %v, got %v", tt.name, tt.want, got)
			continue
		}
		for i := range tt.want {
			if got[i] != tt.want[i] {
				t.Errorf("expandRange(%q): expected %v, got %v", tt.name, tt.want, got)
				break
			}
		}
	}
}

func TestExpandRangeRejectsBadShapes(t *testing.T) {
	s := New()
	bad := []string{
		"A4:A1",    // reversed vertical
		"D2:B2",    // reversed horizontal
		"A1:B2",    // diagonal
		"A1:K1",    // endpoint out of bounds
		"A1:A99",   // endpoint out of bounds
		"A1",       // not a range
		"A1:B2:C3", // extra separator
	}
	for _, name := range bad {
		_, err := s.expandRange(name)
		var badName *BadNameError
		if !errors.As(err, &badName) {
			t.Errorf("expandRange(%q): expected BadNameError, got %v", name, err)
		}
	}
}
