// Package clip restricts raster sources to a region.
package clip

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"

	"biomass-tools/grid"
	"biomass-tools/raster"
	"biomass-tools/region"

	"github.com/paulmach/orb"
	orbclip "github.com/paulmach/orb/clip"
	"github.com/paulmach/orb/planar"
	"github.com/sirupsen/logrus"
)

// snap absorbs float noise when a region edge sits on a pixel edge.
const snap = 1e-9

var (
	ErrEmptyIntersection = errors.New("region does not intersect raster")
	ErrCRSMismatch       = errors.New("region and raster CRS differ")
	ErrRotated           = errors.New("rotated rasters are not supported")
)

// Clipper clips every source to one region. The inside/outside mask is
// computed once per pixel grid and reused, since all crop layers of a
// catalog usually share a grid.
type Clipper struct {
	region region.Region
	mu     sync.Mutex
	masks  map[grid.Key][]bool
}

func New(r region.Region) *Clipper {
	return &Clipper{region: r, masks: make(map[grid.Key][]bool)}
}

func (c *Clipper) Region() region.Region { return c.region }

// Clip is a one-off clip without mask reuse.
func Clip(src raster.Source, r region.Region) (*grid.Field, error) {
	return New(r).Clip(src)
}

// Open opens location, clips it and releases the source.
func (c *Clipper) Open(ctx context.Context, opener raster.Opener, location string) (_ *grid.Field, err error) {
	src, err := opener.Open(ctx, location)
	if err != nil {
		return nil, err
	}
	defer func() {
		err = errors.Join(err, src.Close())
	}()
	f, err := c.Clip(src)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", location, err)
	}
	return f, nil
}

// Clip reads the window of src covering the region bounding box. Pixels
// whose centre lies outside the region are set to NaN. When no pixel centre
// falls inside, as for a region smaller than one pixel, the pixels the
// polygon overlaps are kept instead. A polygon overlapping no pixel is an
// empty intersection.
func (c *Clipper) Clip(src raster.Source) (*grid.Field, error) {
	if err := checkCRS(c.region.CRS, src.CRS()); err != nil {
		return nil, err
	}
	tr := src.GeoTransform()
	if tr[2] != 0 || tr[4] != 0 {
		return nil, ErrRotated
	}
	width, height := src.Size()
	x0, y0, w, h, err := window(c.region, tr, width, height)
	if err != nil {
		return nil, err
	}

	f, err := src.ReadWindow(x0, y0, w, h)
	if err != nil {
		return nil, err
	}
	inside := c.mask(f)
	var kept int
	for _, in := range inside {
		if in {
			kept++
		}
	}
	if kept == 0 {
		return nil, fmt.Errorf("%w: region %q overlaps no pixel", ErrEmptyIntersection, c.region.Name)
	}
	for i, in := range inside {
		if !in {
			f.Data[i] = math.NaN()
		}
	}
	return f, nil
}

func (c *Clipper) mask(f *grid.Field) []bool {
	key := f.Key()
	c.mu.Lock()
	defer c.mu.Unlock()
	if m, ok := c.masks[key]; ok {
		return m
	}
	m := make([]bool, f.Width*f.Height)
	var kept int
	for row := 0; row < f.Height; row++ {
		for col := 0; col < f.Width; col++ {
			lon, lat := f.Transform.PixelCenter(row, col)
			if c.region.Contains(lon, lat) {
				m[f.Index(row, col)] = true
				kept++
			}
		}
	}
	if kept == 0 {
		logrus.WithField("region", c.region.Name).Debug("No pixel centre inside region, keeping overlapped pixels")
		for row := 0; row < f.Height; row++ {
			for col := 0; col < f.Width; col++ {
				m[f.Index(row, col)] = c.overlaps(pixelBound(f.Transform, row, col))
			}
		}
	}
	c.masks[key] = m
	return m
}

// overlaps reports whether the region covers a positive area of b. Touching
// only an edge or a corner does not count.
func (c *Clipper) overlaps(b orb.Bound) bool {
	if !b.Intersects(c.region.Bound()) {
		return false
	}
	// clipping works in place
	clipped := orbclip.MultiPolygon(b, c.region.Geometry.Clone())
	return math.Abs(planar.Area(clipped)) > snap*math.Abs(planar.Area(b))
}

func pixelBound(tr grid.Transform, row, col int) orb.Bound {
	lon, lat := tr.PixelCenter(row, col)
	hw, hh := math.Abs(tr.PixelWidth())/2, math.Abs(tr.PixelHeight())/2
	return orb.Bound{Min: orb.Point{lon - hw, lat - hh}, Max: orb.Point{lon + hw, lat + hh}}
}

// window returns the pixel window covering the region bounds, snapped
// outward to whole pixels and clamped to the raster.
func window(r region.Region, tr grid.Transform, width, height int) (int, int, int, int, error) {
	b := r.Bound()
	pw, ph := tr.PixelWidth(), tr.PixelHeight()

	c0 := (b.Min.X() - tr.OriginX()) / pw
	c1 := (b.Max.X() - tr.OriginX()) / pw
	r0 := (b.Max.Y() - tr.OriginY()) / ph
	r1 := (b.Min.Y() - tr.OriginY()) / ph
	if c0 > c1 {
		c0, c1 = c1, c0
	}
	if r0 > r1 {
		r0, r1 = r1, r0
	}

	col0 := clamp(int(math.Floor(c0+snap)), 0, width)
	col1 := clamp(int(math.Ceil(c1-snap)), 0, width)
	row0 := clamp(int(math.Floor(r0+snap)), 0, height)
	row1 := clamp(int(math.Ceil(r1-snap)), 0, height)
	if col1 <= col0 || row1 <= row0 {
		return 0, 0, 0, 0, fmt.Errorf("%w: region %q bounds %v", ErrEmptyIntersection, r.Name, b)
	}
	return col0, row0, col1 - col0, row1 - row0, nil
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

// checkCRS only compares authority codes; WKT strings and unset CRSs pass.
func checkCRS(regionCRS, rasterCRS string) error {
	if !strings.HasPrefix(regionCRS, "EPSG:") || !strings.HasPrefix(rasterCRS, "EPSG:") {
		return nil
	}
	if regionCRS != rasterCRS {
		return fmt.Errorf("%w: %s vs %s", ErrCRSMismatch, regionCRS, rasterCRS)
	}
	return nil
}
