package server

import (
	"log"

	"reckon/sheet"
)

// PopulateDemo seeds an empty sheet with a small worked example so a
// fresh server has something to show. Every entry goes through TryUpdate,
// so the demo exercises the same path user edits take.
func PopulateDemo(s *sheet.Sheet) {
	set := func(name, raw string) {
		pos, err := s.PositionOf(name)
		if err != nil {
			log.Printf("demo cell %s skipped: %v", name, err)
			return
		}
		if _, err := s.TryUpdate(pos.Row, pos.Col, raw); err != nil {
			log.Printf("demo cell %s rejected: %v", name, err)
		}
	}

	set("A1", "Quarterly")
	set("A2", "Sales")

	set("B1", "120")
	set("B2", "95")
	set("B3", "143")
	set("B4", "118")

	set("C1", "=sum(B1:B4)")
	set("C2", "=average(B1:B4)")
	set("C3", "=max(B1:B4)")
	set("C4", "=min(B1:B4)")

	set("D1", "=C1*1.2")
	set("D2", "=(C3-C4)/2")
	set("D3", "=2^3^2")
	set("D4", "=-B2+C2")
}
