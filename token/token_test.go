package token

import "testing"

func TestIsCellName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"A1", true},
		{"AB12", true},
		{"Z99", true},
		{"", false},
		{"A", false},
		{"12", false},
		{"a1", false},
		{"1A", false},
		{"A1B", false},
		{"A 1", false},
	}
	for _, tt := range tests {
		if got := IsCellName(tt.name); got != tt.want {
			t.Errorf("IsCellName(%q): expected %v, got %v", tt.name, tt.want, got)
		}
	}
}

func TestIsRangeName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"A1:A4", true},
		{"AB12:AB13", true},
		{"A1:A1", true},
		{"A1", false},
		{"A1:", false},
		{":A1", false},
		{"A1:B2:C3", false},
		{"A1:b2", false},
	}
	for _, tt := range tests {
		if got := IsRangeName(tt.name); got != tt.want {
			t.Errorf("IsRangeName(%q): expected %v, got %v", tt.name, tt.want, got)
		}
	}
}

func TestBracketsMatch(t *testing.T) {
	pairs := map[TokenType]TokenType{LPAREN: RPAREN, LBRACKET: RBRACKET, LBRACE: RBRACE}
	for open, close := range pairs {
		if !BracketsMatch(open, close) {
			t.Errorf("expected %s to match %s", open, close)
		}
	}
	if BracketsMatch(LPAREN, RBRACE) || BracketsMatch(LBRACE, RBRACKET) {
		t.Error("mismatched bracket kinds must not pair")
	}
	if BracketsMatch(RPAREN, RPAREN) {
		t.Error("a closer is not an opener")
	}
}
