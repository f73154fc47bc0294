package area

import (
	"context"
	"math"
	"testing"

	"biomass-tools/catalog"
	"biomass-tools/clip"
	"biomass-tools/exclusion"
	"biomass-tools/grid"
	"biomass-tools/raster"
	"biomass-tools/region"
)

func TestPixelHectaresAtEquator(t *testing.T) {
	got := PixelHectares(0.0833, -0.0833, 0)
	want := 0.0833 * 0.0833 * 111319.9 * 111319.9 / 10000
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("got %v, want %v", got, want)
	}
	if at60 := PixelHectares(1, -1, 60); math.Abs(at60-PixelHectares(1, -1, 0)/2) > 1e-6 {
		t.Errorf("cos(60) should halve the area, got %v", at60)
	}
}

func TestPixelAreaSkipsNoData(t *testing.T) {
	ref := grid.New(2, 1, grid.Transform{0, 1, 0, 1, 0, -1}, "")
	ref.Data[0] = 1
	a := PixelArea(ref)
	if math.IsNaN(a.Data[0]) || !math.IsNaN(a.Data[1]) {
		t.Errorf("got %v", a.Data)
	}
}

func TestMarginalAreaNeverNegative(t *testing.T) {
	tr := grid.Transform{0, 1, 0, 1, 0, -1}
	opener := raster.NewMemOpener()
	// 1000 ha units: 20 000 000 ha exceeds any 1 degree pixel, 1 ha does not
	big := grid.New(3, 1, tr, "EPSG:4326")
	copy(big.Data, []float64{20000, 0.001, math.NaN()})
	opener.Add("maize.tif", big)
	opener.Add("wheat.tif", grid.NewFilled(3, 1, tr, "EPSG:4326", 0.001))

	cfg := catalog.DefaultConfig(catalog.New([]catalog.Entry{
		{Theme: catalog.HarvestedArea, Crop: "Maize", Period: "2010", WaterSupply: "Total", Location: "maize.tif"},
		{Theme: catalog.HarvestedArea, Crop: "Wheat", Period: "2010", WaterSupply: "Total", Location: "wheat.tif"},
	}))
	r := NewReconciler(cfg, opener, clip.New(region.FromBounds("row", 0, 0, 3, 1)))

	ref := grid.NewFilled(3, 1, tr, "EPSG:4326", 1)
	a, err := r.Reconcile(context.Background(), ref, nil)
	if err != nil {
		t.Fatal(err)
	}
	for i, v := range a.Marginal.Data {
		if v < 0 {
			t.Errorf("pixel %d: negative marginal area %v", i, v)
		}
	}
	if a.Marginal.Data[0] != 0 || a.Clamped != 1 {
		t.Errorf("got %v with %d clamped, want first pixel clamped", a.Marginal.Data, a.Clamped)
	}
	if got, want := a.Harvested.Data[1], 2.0; math.Abs(got-want) > 1e-9 {
		t.Errorf("harvested: got %v, want %v", got, want)
	}
	if got, want := a.Marginal.Data[2], a.Pixel.Data[2]-1; math.Abs(got-want) > 1e-6 {
		t.Errorf("nodata harvested pixel: got %v, want %v", got, want)
	}
}

func TestExcludedPixelsHaveNoHarvest(t *testing.T) {
	tr := grid.Transform{0, 1, 0, 1, 0, -1}
	opener := raster.NewMemOpener()
	opener.Add("maize.tif", grid.NewFilled(2, 1, tr, "", 0.5))
	cfg := catalog.DefaultConfig(catalog.New([]catalog.Entry{
		{Theme: catalog.HarvestedArea, Crop: "Maize", Location: "maize.tif"},
	}))
	r := NewReconciler(cfg, opener, clip.New(region.FromBounds("row", 0, 0, 2, 1)))

	ref := grid.NewFilled(2, 1, tr, "", 1)
	set := &exclusion.CoordinateSet{}
	set.Add(exclusion.Pass{Rule: "test", Grid: ref.Key(), Points: []exclusion.Point{{Row: 0, Col: 1}}})
	mask, err := exclusion.NewMask(ref.Key(), set)
	if err != nil {
		t.Fatal(err)
	}

	a, err := r.Reconcile(context.Background(), ref, mask)
	if err != nil {
		t.Fatal(err)
	}
	if a.Harvested.Data[0] != 500 || a.Harvested.Data[1] != 0 {
		t.Errorf("got harvested %v, want [500 0]", a.Harvested.Data)
	}
}

func TestEnergy(t *testing.T) {
	tr := grid.Transform{0, 1, 0, 1, 0, -1}
	best := grid.New(2, 1, tr, "")
	copy(best.Data, []float64{10, math.NaN()})
	marginal := grid.NewFilled(2, 1, tr, "", 3)
	_, total, err := Energy(best, marginal)
	if err != nil {
		t.Fatal(err)
	}
	if total != 30 {
		t.Errorf("got %v, want 30", total)
	}
}
