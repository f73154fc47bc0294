package raster

import (
	"context"
	"fmt"
	"sync"

	"biomass-tools/grid"
)

// MemSource serves a field held in memory. Harmonized layers and synthetic
// test rasters use it.
type MemSource struct {
	field *grid.Field
}

func NewMemSource(f *grid.Field) *MemSource {
	return &MemSource{field: f}
}

func (m *MemSource) Size() (int, int) { return m.field.Width, m.field.Height }

func (m *MemSource) GeoTransform() grid.Transform { return m.field.Transform }

func (m *MemSource) CRS() string { return m.field.CRS }

func (m *MemSource) ReadWindow(x0, y0, width, height int) (*grid.Field, error) {
	if x0 < 0 || y0 < 0 || width < 0 || height < 0 || x0+width > m.field.Width || y0+height > m.field.Height {
		return nil, fmt.Errorf("window [%d,%d %dx%d] outside %dx%d raster", x0, y0, width, height, m.field.Width, m.field.Height)
	}
	out := grid.New(width, height, m.field.Transform.Shift(y0, x0), m.field.CRS)
	out.NoData = m.field.NoData
	for row := 0; row < height; row++ {
		copy(out.Data[row*width:(row+1)*width], m.field.Data[(y0+row)*m.field.Width+x0:(y0+row)*m.field.Width+x0+width])
	}
	return out, nil
}

func (m *MemSource) Close() error { return nil }

// MemOpener resolves locations against an in-memory set of fields.
type MemOpener struct {
	mu     sync.Mutex
	fields map[string]*grid.Field
	opens  map[string]int
}

func NewMemOpener() *MemOpener {
	return &MemOpener{
		fields: make(map[string]*grid.Field),
		opens:  make(map[string]int),
	}
}

func (o *MemOpener) Add(location string, f *grid.Field) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.fields[location] = f
}

func (o *MemOpener) Open(ctx context.Context, location string) (Source, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDataUnavailable, location, err)
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.opens[location]++
	f, ok := o.fields[location]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrDataUnavailable, location)
	}
	return NewMemSource(f), nil
}

// Opens reports how many times location was opened.
func (o *MemOpener) Opens(location string) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.opens[location]
}
