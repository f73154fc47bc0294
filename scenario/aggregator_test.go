package scenario

import (
	"context"
	"errors"
	"math"
	"testing"

	"biomass-tools/area"
	"biomass-tools/catalog"
	"biomass-tools/grid"
	"biomass-tools/raster"
	"biomass-tools/region"
)

// equator is a single 5 arc-minute pixel just north of the equator at
// lon 0, on the global lattice.
var equator = grid.Transform{0, 1.0 / 12, 0, 1.0 / 12, 0, -1.0 / 12}

func pixel(v float64) *grid.Field {
	return grid.NewFilled(1, 1, equator, "EPSG:4326", v)
}

func setUpAggregator(t testing.TB, extra ...catalog.Entry) *Aggregator {
	t.Helper()
	opener := raster.NewMemOpener()
	layers := map[string]*grid.Field{
		"maize_yield.tif":   pixel(10), // kg/ha
		"alfalfa_yield.tif": pixel(90),
		"maize_area.tif":    pixel(0),
		"aez.tif":           pixel(1),
		"exclusion.tif":     pixel(0),
		"tree.tif":          pixel(10),
		"pasture.tif":       pixel(0),
		"maize_prod.tif":    pixel(0.002), // 2 t, stored in 1000 t
	}
	for loc, f := range layers {
		opener.Add(loc, f)
	}

	entries := append(extra,
		catalog.Entry{Theme: catalog.PotentialYield, Crop: "Maize", Location: "maize_yield.tif"},
		catalog.Entry{Theme: catalog.PotentialYield, Crop: "Alfalfa", Location: "alfalfa_yield.tif"},
		catalog.Entry{Theme: catalog.HarvestedArea, Crop: "Maize", Location: "maize_area.tif"},
		catalog.Entry{Theme: catalog.Production, Crop: "Maize", Location: "maize_prod.tif"},
		catalog.Entry{Theme: catalog.Classification, Location: "aez.tif"},
		catalog.Entry{Theme: catalog.Exclusion, Location: "exclusion.tif"},
		catalog.Entry{Theme: catalog.TreeCover, Location: "tree.tif"},
		catalog.Entry{Theme: catalog.Pasture, Location: "pasture.tif"},
	)
	cfg := catalog.DefaultConfig(catalog.New(entries))
	for i := range cfg.Exclusion {
		cfg.Exclusion[i].Factor = 1
	}
	// 1000 GJ/t turns 10 kg/ha of yield into 10 GJ/ha
	potential, err := catalog.NewTable([]catalog.Row{
		{Crop: "Maize", Residue: "Stalk", RPR: 1, SAF: 1, LHV: 1000},
		{Crop: "Alfalfa", Residue: "Stalk", RPR: 1, SAF: 1, LHV: 1000},
	})
	if err != nil {
		t.Fatal(err)
	}
	cfg.Potential = potential
	cfg.Workers = 2

	r := region.FromBounds("equator", 0, 0, 1.0/12, 1.0/12)
	return New(cfg, opener, r)
}

var future = catalog.Scenario{Period: "2041-2070", ClimateModel: "IPSL-CM5A-LR", RCP: "RCP4.5", WaterSupply: "Rainfed", InputLevel: "High"}

func TestMarginalEndToEnd(t *testing.T) {
	a := setUpAggregator(t)
	res, err := a.Marginal(context.Background(), future)
	if err != nil {
		t.Fatal(err)
	}

	_, lat := equator.PixelCenter(0, 0)
	want := 10 * area.PixelHectares(1.0/12, -1.0/12, lat)
	if math.Abs(res.Total-want) > 1e-6*want {
		t.Errorf("got total %v GJ, want %v", res.Total, want)
	}
	if got := res.Allocation.Winner(0, 0); got != "Maize" {
		t.Errorf("got winner %q, want Maize", got)
	}
	if res.Excluded != 0 {
		t.Errorf("got %d excluded pixels, want 0", res.Excluded)
	}
	if b := res.Breakdown(); math.Abs(b["Maize"]-want) > 1e-6*want || len(b) != 1 {
		t.Errorf("got breakdown %v", b)
	}
}

func TestMarginalExcludedPixelHasNoPotential(t *testing.T) {
	a := setUpAggregator(t)
	a.opener.(*raster.MemOpener).Add("tree.tif", pixel(80))

	res, err := a.Marginal(context.Background(), future)
	if err != nil {
		t.Fatal(err)
	}
	if res.Total != 0 || res.Excluded != 1 {
		t.Errorf("got total %v with %d excluded, want 0 and 1", res.Total, res.Excluded)
	}
}

func TestComparisonKeepsFailedCells(t *testing.T) {
	missing := catalog.Entry{Theme: catalog.PotentialYield, Crop: "Maize", RCP: "RCP8.5", Location: "missing.tif"}
	a := setUpAggregator(t, missing)

	axes := DefaultAxes()
	axes.FuturePeriods = []string{"2041-2070"}
	axes.RCPs = []string{"RCP4.5", "RCP8.5"}

	cells, err := a.MarginalComparison(context.Background(), axes)
	if err != nil {
		t.Fatal(err)
	}
	if len(cells) != 2 {
		t.Fatalf("got %d cells, want 2", len(cells))
	}
	if cells[0].Err != nil || cells[0].Total <= 0 {
		t.Errorf("RCP4.5: got %v, %v", cells[0].Total, cells[0].Err)
	}
	if !errors.Is(cells[1].Err, raster.ErrDataUnavailable) {
		t.Errorf("RCP8.5: got %v, want ErrDataUnavailable", cells[1].Err)
	}
}

func TestCroplandCoversHistoricalAndFuture(t *testing.T) {
	a := setUpAggregator(t)
	axes := DefaultAxes()
	axes.FuturePeriods = []string{"2011-2040"}
	axes.RCPs = []string{"RCP2.6"}

	cells, err := a.Cropland(context.Background(), axes)
	if err != nil {
		t.Fatal(err)
	}
	if len(cells) != 3 {
		t.Fatalf("got %d cells, want 3", len(cells))
	}
	// 2 t of maize times the default historical maize factor
	factor, err := catalog.DefaultHistorical().Factor("Maize")
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range cells[:2] {
		if c.Err != nil || math.Abs(c.Total-2*factor) > 1e-9 {
			t.Errorf("%s: got %v, %v", c.Scenario, c.Total, c.Err)
		}
	}
	// no harvested area in the reference year, so no future residues
	if cells[2].Err != nil || cells[2].Total != 0 {
		t.Errorf("%s: got %v, %v", cells[2].Scenario, cells[2].Total, cells[2].Err)
	}
}

func TestComparisonStopsOnCancel(t *testing.T) {
	a := setUpAggregator(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cells, err := a.MarginalComparison(ctx, DefaultAxes())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v, want context.Canceled", err)
	}
	for _, c := range cells {
		if !errors.Is(c.Err, context.Canceled) {
			t.Errorf("%s: got %v, want context.Canceled", c.Scenario, c.Err)
		}
	}
}
