// Package raster is the data-access boundary of the pipeline. Sources hand
// out strictly 2-D fields with nodata already converted to NaN, so no code
// downstream ever sees a band axis or a nodata sentinel.
package raster

import (
	"context"
	"errors"

	"biomass-tools/grid"
)

var ErrDataUnavailable = errors.New("data unavailable")

// Source is one opened single-band raster.
type Source interface {
	Size() (width, height int)
	GeoTransform() grid.Transform
	CRS() string
	// ReadWindow reads the pixel window whose top-left pixel is (x0, y0).
	ReadWindow(x0, y0, width, height int) (*grid.Field, error)
	Close() error
}

// Opener resolves a catalog location to a Source. Failures wrap
// ErrDataUnavailable.
type Opener interface {
	Open(ctx context.Context, location string) (Source, error)
}

// ReadAll reads the full extent of src.
func ReadAll(src Source) (*grid.Field, error) {
	w, h := src.Size()
	return src.ReadWindow(0, 0, w, h)
}
