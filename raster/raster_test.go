package raster

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"biomass-tools/grid"

	"github.com/airbusgeo/godal"
)

func TestMemSourceWindow(t *testing.T) {
	f := grid.New(3, 2, grid.Transform{10, 1, 0, 20, 0, -1}, "EPSG:4326")
	f.Data = []float64{1, 2, 3, 4, 5, 6}
	src := NewMemSource(f)

	win, err := src.ReadWindow(1, 1, 2, 1)
	if err != nil {
		t.Fatal(err)
	}
	if win.Data[0] != 5 || win.Data[1] != 6 {
		t.Errorf("got %v, want [5 6]", win.Data)
	}
	if win.Transform.OriginX() != 11 || win.Transform.OriginY() != 19 {
		t.Errorf("got origin (%v, %v), want (11, 19)", win.Transform.OriginX(), win.Transform.OriginY())
	}

	if _, err := src.ReadWindow(2, 0, 2, 1); err == nil {
		t.Error("expected error for window outside raster")
	}
}

func TestMemOpenerMissing(t *testing.T) {
	o := NewMemOpener()
	_, err := o.Open(context.Background(), "nowhere.tif")
	if !errors.Is(err, ErrDataUnavailable) {
		t.Errorf("got %v, want ErrDataUnavailable", err)
	}
	if o.Opens("nowhere.tif") != 1 {
		t.Errorf("open was not counted")
	}
}

func TestGDALPath(t *testing.T) {
	if got := gdalPath(" https://example.org/a.tif "); got != "/vsicurl/https://example.org/a.tif" {
		t.Errorf("got %q", got)
	}
	if got := gdalPath("/data/a.tif"); got != "/data/a.tif" {
		t.Errorf("got %q", got)
	}
}

func TestGDALOpenerReadsNoDataAsNaN(t *testing.T) {
	path := writeRaster(t)
	o := NewGDALOpener(10*time.Second, 0)

	src, err := o.Open(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		if err := src.Close(); err != nil {
			t.Fatal(err)
		}
	}()

	if w, h := src.Size(); w != 2 || h != 2 {
		t.Fatalf("got size %dx%d, want 2x2", w, h)
	}
	if src.CRS() != "EPSG:4326" {
		t.Errorf("got CRS %q, want EPSG:4326", src.CRS())
	}

	f, err := ReadAll(src)
	if err != nil {
		t.Fatal(err)
	}
	if f.Data[0] != 1 || f.Data[1] != 2 || !math.IsNaN(f.Data[2]) || f.Data[3] != 4 {
		t.Errorf("got %v, want [1 2 NaN 4]", f.Data)
	}
}

func TestGDALOpenerMissingFile(t *testing.T) {
	o := NewGDALOpener(time.Second, 0)
	_, err := o.Open(context.Background(), filepath.Join(t.TempDir(), "missing.tif"))
	if !errors.Is(err, ErrDataUnavailable) {
		t.Errorf("got %v, want ErrDataUnavailable", err)
	}
}

func writeRaster(t testing.TB) string {
	godal.RegisterAll()
	t.Helper()

	dsFile := filepath.Join(t.TempDir(), "yield.tif")
	ds, err := godal.Create(godal.GTiff, dsFile, 1, godal.Float64, 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	if err := ds.SetGeoTransform([6]float64{0.0, 1.0, 0.0, 0.0, 0.0, -1.0}); err != nil {
		t.Fatal(err)
	}
	sr, err := godal.NewSpatialRefFromEPSG(4326)
	if err != nil {
		t.Fatal(err)
	}
	defer sr.Close()
	if err := ds.SetSpatialRef(sr); err != nil {
		t.Fatal(err)
	}

	band := ds.Bands()[0]
	if err := band.SetNoData(-9999); err != nil {
		t.Fatal(err)
	}
	if err := band.Write(0, 0, []float64{1, 2, -9999, 4}, 2, 2); err != nil {
		t.Fatal(err)
	}
	if err := ds.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(dsFile); err != nil {
		t.Fatal(err)
	}
	return dsFile
}
