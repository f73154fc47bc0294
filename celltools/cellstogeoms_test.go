package celltools

import (
	"strings"
	"testing"

	"github.com/golang/geo/s2"
)

func TestCellToWKT(t *testing.T) {
	cell := s2.CellFromCellID(s2.CellIDFromLatLng(s2.LatLngFromDegrees(1.0, 2.0)).Parent(11))
	wktString := cellToWKT(cell)

	if !strings.HasPrefix(wktString, "POLYGON((") || !strings.HasSuffix(wktString, "))") {
		t.Fatalf("got %s, want a WKT polygon", wktString)
	}
	coords := strings.Split(strings.TrimSuffix(strings.TrimPrefix(wktString, "POLYGON(("), "))"), ", ")
	if len(coords) != 5 {
		t.Fatalf("got %d vertices, want 5", len(coords))
	}
	if coords[0] != coords[4] {
		t.Errorf("ring not closed: %s vs %s", coords[0], coords[4])
	}
}
