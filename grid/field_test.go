package grid

import (
	"errors"
	"math"
	"testing"
)

var testTransform = Transform{0, 1, 0, 0, 0, -1}

func TestSumIgnoresNoData(t *testing.T) {
	f := New(2, 2, testTransform, "EPSG:4326")
	f.Data = []float64{1, math.NaN(), 2.5, math.NaN()}

	if got, want := f.Sum(), 3.5; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if got, want := f.ValidCount(), 2; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestPixelCenter(t *testing.T) {
	tr := Transform{-180, 0.5, 0, 90, 0, -0.5}
	lon, lat := tr.PixelCenter(1, 2)
	if lon != -178.75 || lat != 89.25 {
		t.Errorf("got (%v, %v), want (-178.75, 89.25)", lon, lat)
	}

	shifted := tr.Shift(1, 2)
	if shifted.OriginX() != -179 || shifted.OriginY() != 89.5 {
		t.Errorf("got origin (%v, %v), want (-179, 89.5)", shifted.OriginX(), shifted.OriginY())
	}
}

func TestClampNegative(t *testing.T) {
	f := New(3, 1, testTransform, "")
	f.Data = []float64{-1, 2, math.NaN()}

	if n := f.ClampNegative(); n != 1 {
		t.Errorf("got %d clamped, want 1", n)
	}
	if f.Data[0] != 0 || f.Data[1] != 2 || !math.IsNaN(f.Data[2]) {
		t.Errorf("unexpected data after clamp: %v", f.Data)
	}
}

func TestAccumulate(t *testing.T) {
	dst := New(3, 1, testTransform, "")
	dst.Data = []float64{math.NaN(), 1, math.NaN()}
	src := New(3, 1, testTransform, "")
	src.Data = []float64{2, 3, math.NaN()}

	if err := Accumulate(dst, src); err != nil {
		t.Fatal(err)
	}
	if dst.Data[0] != 2 || dst.Data[1] != 4 || !math.IsNaN(dst.Data[2]) {
		t.Errorf("unexpected data: %v", dst.Data)
	}
}

func TestGridMismatch(t *testing.T) {
	a := New(2, 2, testTransform, "")
	b := New(2, 2, Transform{0.5, 1, 0, 0, 0, -1}, "")
	if err := Accumulate(a, b); !errors.Is(err, ErrResolutionMismatch) {
		t.Errorf("got %v, want ErrResolutionMismatch", err)
	}

	// float noise from harmonizing a finer grid must not count as a mismatch
	c := New(2, 2, Transform{-180, 0.00833333333 * 10, 0, 90, 0, -0.00833333333 * 10}, "")
	d := New(2, 2, Transform{-180, 0.0833333333, 0, 90, 0, -0.0833333333}, "")
	if !c.Key().Matches(d.Key()) {
		t.Errorf("keys %s and %s should match", c.Key(), d.Key())
	}
}

func TestMultiplyPropagatesNoData(t *testing.T) {
	a := New(2, 1, testTransform, "")
	a.Data = []float64{2, math.NaN()}
	b := New(2, 1, testTransform, "")
	b.Data = []float64{3, 4}

	out, err := Multiply(a, b)
	if err != nil {
		t.Fatal(err)
	}
	if out.Data[0] != 6 || !math.IsNaN(out.Data[1]) {
		t.Errorf("got %v, want [6 NaN]", out.Data)
	}
}

func TestAggFuncs(t *testing.T) {
	nan := math.NaN()
	cases := []struct {
		name string
		fn   AggFunc
		in   []float64
		want float64
	}{
		{"mean", Mean, []float64{1, 2, nan, 3}, 2},
		{"sum", Sum, []float64{1, 2, nan, 3}, 6},
		{"max", Max, []float64{-4, -2, nan}, -2},
		{"min", Min, []float64{4, 2, nan}, 2},
		{"mode", Mode, []float64{7, 3, 7, nan, 7, 3}, 7},
	}
	for _, c := range cases {
		if got := c.fn(c.in...); got != c.want {
			t.Errorf("%s: got %v, want %v", c.name, got, c.want)
		}
	}
	if got := Mode(nan, nan); !math.IsNaN(got) {
		t.Errorf("mode of nodata: got %v, want NaN", got)
	}
}

func TestModeTieIsStable(t *testing.T) {
	for i := 0; i < 200; i++ {
		if got := Mode(49, 49, 10, 10, 3, 3); got != 3 {
			t.Fatalf("run %d: got %v, want lowest tied class 3", i, got)
		}
	}
	if got := Mode(49, 10, 49, 3); got != 49 {
		t.Errorf("got %v, want 49", got)
	}
}
