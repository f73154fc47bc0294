// Package grid holds the strictly 2-D raster field shared by every stage of
// the estimation pipeline. Nodata is NaN inside a Field; the source sentinel
// is only kept so exports can write it back.
package grid

import (
	"errors"
	"fmt"
	"math"
)

// Every harmonized global layer is anchored here.
const (
	GlobalOriginX = -180.0
	GlobalOriginY = 90.0
)

// keyTolerance is the fraction of a pixel two grids may disagree by and
// still be considered the same grid.
const keyTolerance = 1e-6

var ErrResolutionMismatch = errors.New("resolution mismatch")

// Transform is a GDAL-ordered affine geotransform:
// originX, pixelWidth, rotX, originY, rotY, pixelHeight.
type Transform [6]float64

func (t Transform) OriginX() float64     { return t[0] }
func (t Transform) OriginY() float64     { return t[3] }
func (t Transform) PixelWidth() float64  { return t[1] }
func (t Transform) PixelHeight() float64 { return t[5] }

// PixelCenter returns the lon/lat of the centre of pixel (row, col).
func (t Transform) PixelCenter(row, col int) (float64, float64) {
	x := t[0] + t[1]*(float64(col)+0.5) + t[2]*(float64(row)+0.5)
	y := t[3] + t[4]*(float64(col)+0.5) + t[5]*(float64(row)+0.5)
	return x, y
}

// Shift returns the transform of a window whose top-left pixel is (row, col).
func (t Transform) Shift(row, col int) Transform {
	out := t
	out[0] = t[0] + float64(col)*t[1] + float64(row)*t[2]
	out[3] = t[3] + float64(col)*t[4] + float64(row)*t[5]
	return out
}

// Field is a row-major 2-D grid of float64 values.
type Field struct {
	Width     int
	Height    int
	Data      []float64
	Transform Transform
	CRS       string
	NoData    float64
}

// New returns a field of the given shape filled with NaN.
func New(width, height int, transform Transform, crs string) *Field {
	return NewFilled(width, height, transform, crs, math.NaN())
}

func NewFilled(width, height int, transform Transform, crs string, value float64) *Field {
	data := make([]float64, width*height)
	for i := range data {
		data[i] = value
	}
	return &Field{
		Width:     width,
		Height:    height,
		Data:      data,
		Transform: transform,
		CRS:       crs,
		NoData:    math.NaN(),
	}
}

// Like returns a NaN-filled field on the same grid as f.
func (f *Field) Like() *Field {
	out := New(f.Width, f.Height, f.Transform, f.CRS)
	out.NoData = f.NoData
	return out
}

func (f *Field) Clone() *Field {
	out := *f
	out.Data = make([]float64, len(f.Data))
	copy(out.Data, f.Data)
	return &out
}

func (f *Field) Index(row, col int) int { return row*f.Width + col }

func (f *Field) At(row, col int) float64 { return f.Data[row*f.Width+col] }

func (f *Field) Set(row, col int, v float64) { f.Data[row*f.Width+col] = v }

func (f *Field) InBounds(row, col int) bool {
	return row >= 0 && col >= 0 && row < f.Height && col < f.Width
}

// Bounds returns minX, minY, maxX, maxY of the field extent.
func (f *Field) Bounds() (float64, float64, float64, float64) {
	x0, y0 := f.Transform[0], f.Transform[3]
	x1 := x0 + float64(f.Width)*f.Transform[1]
	y1 := y0 + float64(f.Height)*f.Transform[5]
	return math.Min(x0, x1), math.Min(y0, y1), math.Max(x0, x1), math.Max(y0, y1)
}

// Sum adds every non-NaN value. Nodata never contributes, and an all-nodata
// field sums to zero.
func (f *Field) Sum() float64 {
	var sum float64
	for _, v := range f.Data {
		if !math.IsNaN(v) {
			sum += v
		}
	}
	return sum
}

func (f *Field) ValidCount() int {
	var n int
	for _, v := range f.Data {
		if !math.IsNaN(v) {
			n++
		}
	}
	return n
}

// Apply returns a new field with fn applied to every valid pixel.
func (f *Field) Apply(fn func(float64) float64) *Field {
	out := f.Clone()
	for i, v := range out.Data {
		if !math.IsNaN(v) {
			out.Data[i] = fn(v)
		}
	}
	return out
}

// Scale multiplies every valid pixel by k.
func (f *Field) Scale(k float64) *Field {
	return f.Apply(func(v float64) float64 { return v * k })
}

// ClampNegative sets negative values to zero in place and returns how many
// pixels were changed.
func (f *Field) ClampNegative() int {
	var n int
	for i, v := range f.Data {
		if v < 0 {
			f.Data[i] = 0
			n++
		}
	}
	return n
}

// Key is the identity of the pixel grid a field lives on.
type Key struct {
	Transform Transform
	Width     int
	Height    int
}

func (f *Field) Key() Key {
	return Key{Transform: f.Transform, Width: f.Width, Height: f.Height}
}

// Matches reports whether two keys describe the same pixel grid.
func (k Key) Matches(o Key) bool {
	if k.Width != o.Width || k.Height != o.Height {
		return false
	}
	px := math.Max(math.Abs(k.Transform[1]), math.Abs(k.Transform[5]))
	tol := px * keyTolerance
	for i := range k.Transform {
		if math.Abs(k.Transform[i]-o.Transform[i]) > tol {
			return false
		}
	}
	return true
}

func (k Key) String() string {
	return fmt.Sprintf("%dx%d@(%g,%g) px(%g,%g)",
		k.Width, k.Height, k.Transform[0], k.Transform[3], k.Transform[1], k.Transform[5])
}

// CheckGrid returns ErrResolutionMismatch when b is not on a's grid.
func CheckGrid(a, b *Field) error {
	if !a.Key().Matches(b.Key()) {
		return fmt.Errorf("%w: %s vs %s", ErrResolutionMismatch, a.Key(), b.Key())
	}
	return nil
}

// Accumulate adds src into dst pixel-wise. NaN in src is skipped; a NaN in
// dst is replaced by the first valid src value.
func Accumulate(dst, src *Field) error {
	if err := CheckGrid(dst, src); err != nil {
		return err
	}
	for i, v := range src.Data {
		if math.IsNaN(v) {
			continue
		}
		if math.IsNaN(dst.Data[i]) {
			dst.Data[i] = v
		} else {
			dst.Data[i] += v
		}
	}
	return nil
}

// Multiply returns a*b; a pixel is NaN when either operand is.
func Multiply(a, b *Field) (*Field, error) {
	if err := CheckGrid(a, b); err != nil {
		return nil, err
	}
	out := a.Like()
	for i := range a.Data {
		out.Data[i] = a.Data[i] * b.Data[i]
	}
	return out, nil
}
