package harmonize

import (
	"context"
	"math"
	"reflect"
	"testing"

	"biomass-tools/catalog"
	"biomass-tools/grid"
	"biomass-tools/raster"
)

// globalSource is a 4x4 raster at the global origin with 0.5 degree pixels.
func globalSource(data []float64) *raster.MemSource {
	f := grid.New(4, 4, grid.Transform{-180, 0.5, 0, 90, 0, -0.5}, "EPSG:4326")
	copy(f.Data, data)
	return raster.NewMemSource(f)
}

func TestCoarsenMode(t *testing.T) {
	src := globalSource([]float64{
		1, 1, 2, 2,
		1, 3, 2, 2,
		4, 4, 5, 6,
		4, math.NaN(), 7, 8,
	})
	f, err := Coarsen(context.Background(), src, 2, grid.Mode, 2)
	if err != nil {
		t.Fatal(err)
	}
	if f.Width != 2 || f.Height != 2 {
		t.Fatalf("got %dx%d, want 2x2", f.Width, f.Height)
	}
	if f.At(0, 0) != 1 || f.At(0, 1) != 2 || f.At(1, 0) != 4 {
		t.Errorf("got %v", f.Data)
	}
	if f.Transform.PixelWidth() != 1 || f.Transform.PixelHeight() != -1 {
		t.Errorf("got pixel size (%v, %v), want (1, -1)", f.Transform.PixelWidth(), f.Transform.PixelHeight())
	}
}

func TestCoarsenMean(t *testing.T) {
	src := globalSource([]float64{
		10, 20, math.NaN(), math.NaN(),
		30, 40, math.NaN(), math.NaN(),
		0, 0, 100, 100,
		0, 0, 100, 60,
	})
	f, err := Coarsen(context.Background(), src, 2, MethodFor(catalog.Continuous), 1)
	if err != nil {
		t.Fatal(err)
	}
	if f.At(0, 0) != 25 || !math.IsNaN(f.At(0, 1)) || f.At(1, 0) != 0 || f.At(1, 1) != 90 {
		t.Errorf("got %v, want [25 NaN 0 90]", f.Data)
	}
}

func TestCoarsenFactorOneIsIdentity(t *testing.T) {
	data := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}
	src := globalSource(data)
	f, err := Coarsen(context.Background(), src, 1, grid.Mode, 1)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(f.Data, data) {
		t.Errorf("got %v, want %v", f.Data, data)
	}
	if !f.Key().Matches(grid.Key{Transform: src.GeoTransform(), Width: 4, Height: 4}) {
		t.Errorf("grid changed: %s", f.Key())
	}
}

func TestCoarsenAnchorsToGlobalOrigin(t *testing.T) {
	// origin drifted by a fraction of a pixel
	f := grid.New(4, 4, grid.Transform{-179.9, 0.5, 0, 89.95, 0, -0.5}, "")
	for i := range f.Data {
		f.Data[i] = 1
	}
	out, err := Coarsen(context.Background(), raster.NewMemSource(f), 2, grid.Mean, 2)
	if err != nil {
		t.Fatal(err)
	}
	if out.Transform.OriginX() != grid.GlobalOriginX || out.Transform.OriginY() != grid.GlobalOriginY {
		t.Errorf("got origin (%v, %v), want (-180, 90)", out.Transform.OriginX(), out.Transform.OriginY())
	}
}

func TestHarmonizerCaches(t *testing.T) {
	opener := raster.NewMemOpener()
	f := grid.NewFilled(4, 4, grid.Transform{-180, 0.5, 0, 90, 0, -0.5}, "", 3)
	opener.Add("tree.tif", f)
	h := New(opener, 2)
	entry := catalog.Entry{Theme: catalog.TreeCover, Location: "tree.tif", Kind: catalog.Continuous}

	for i := 0; i < 3; i++ {
		src, err := h.Open(context.Background(), entry, 2)
		if err != nil {
			t.Fatal(err)
		}
		if w, hgt := src.Size(); w != 2 || hgt != 2 {
			t.Errorf("got %dx%d, want 2x2", w, hgt)
		}
	}
	if n := opener.Opens("tree.tif"); n != 1 {
		t.Errorf("got %d opens, want 1", n)
	}
	if h.Cached() != 1 {
		t.Errorf("got %d cached layers, want 1", h.Cached())
	}
}
