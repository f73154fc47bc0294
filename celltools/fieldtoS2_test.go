package celltools

import (
	"context"
	"math"
	"testing"

	"biomass-tools/grid"

	"github.com/golang/geo/s2"
)

func TestPointToS2(t *testing.T) {
	latLng := s2.LatLngFromDegrees(1.0, 2.0)
	s2Cell := s2.CellIDFromLatLng(latLng).Parent(11)

	if s2Cell.Level() != 11 || !s2.CellFromCellID(s2Cell).ContainsPoint(s2.PointFromLatLng(latLng)) {
		t.Errorf("cell %v does not contain %v", s2Cell, latLng)
	}
}

// setUpField is a 2x2 field of 5 arc-minute pixels near lon 10, lat 10.
func setUpField(t testing.TB) *grid.Field {
	t.Helper()
	f := grid.New(2, 2, grid.Transform{10, 1.0 / 12, 0, 10, 0, -1.0 / 12}, "EPSG:4326")
	copy(f.Data, []float64{1, 2, 3, math.NaN()})
	return f
}

func TestIndexPreservesTotalForCoarseCells(t *testing.T) {
	f := setUpField(t)
	cells, err := Index(context.Background(), f, ConfigOpts{NumWorkers: 2, S2Lvl: 5, AggFunc: grid.Sum})
	if err != nil {
		t.Fatal(err)
	}
	var total float64
	for i, c := range cells {
		total += c.Data
		if i > 0 && cells[i-1].Cell >= c.Cell {
			t.Errorf("cells not ordered: %v before %v", cells[i-1].Cell, c.Cell)
		}
	}
	if math.Abs(total-6) > 1e-9 {
		t.Errorf("got total %v, want 6", total)
	}
	if len(cells) < 1 || len(cells) > 3 {
		t.Errorf("got %d cells for 3 valid pixels", len(cells))
	}
}

func TestIndexSplitsValueOverFineCells(t *testing.T) {
	f := setUpField(t)
	cells, err := Index(context.Background(), f, ConfigOpts{NumWorkers: 1, S2Lvl: 20})
	if err != nil {
		t.Fatal(err)
	}
	if len(cells) != 3 {
		t.Fatalf("got %d cells, want one per valid pixel", len(cells))
	}
	for _, c := range cells {
		if c.Data <= 0 || c.Data >= 1e-3 {
			t.Errorf("cell %v: got %v, want a small share of the pixel value", c.Cell, c.Data)
		}
	}
}

func TestIndexFieldStreamsToSink(t *testing.T) {
	f := setUpField(t)
	var got int
	sink := func(cellCh chan S2CellData) error {
		for range cellCh {
			got++
		}
		return nil
	}
	if err := IndexField(context.Background(), f, ConfigOpts{NumWorkers: 2, S2Lvl: 20}, sink); err != nil {
		t.Fatal(err)
	}
	if got != 3 {
		t.Errorf("sink got %d cells, want 3", got)
	}
}

func TestIndexRejectsBadLevel(t *testing.T) {
	if _, err := Index(context.Background(), setUpField(t), ConfigOpts{S2Lvl: 31}); err == nil {
		t.Error("expected an error for level 31")
	}
}
