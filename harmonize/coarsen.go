// Package harmonize brings fine global layers onto the coarse crop grid.
package harmonize

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"biomass-tools/catalog"
	"biomass-tools/grid"
	"biomass-tools/raster"

	"github.com/sirupsen/logrus"
)

// DefaultFactor is the ratio between the ~1 km land layers and the ~10 km
// crop layers.
const DefaultFactor = 10

var ErrBadFactor = errors.New("harmonization factor must be positive")

// MethodFor picks the resampling from the layer kind: majority for class
// codes, average for continuous values.
func MethodFor(kind catalog.Kind) grid.AggFunc {
	if kind == catalog.Categorical {
		return grid.Mode
	}
	return grid.Mean
}

// strip is one output row and the input rows feeding it.
type strip struct {
	outRow int
	inRow0 int
	inRow1 int
}

// anchor holds the position of a source on the global lattice.
type anchor struct {
	offX, offY       int // input pixel offsets from the global origin
	outCol0, outRow0 int
	width, height    int
	transform        grid.Transform
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// anchorOf snaps a source onto the lattice rooted at (-180, 90) with pixel
// size factor times the input pixel. Sub-pixel drift is re-anchored.
func anchorOf(tr grid.Transform, width, height, factor int) anchor {
	pw, ph := tr.PixelWidth(), tr.PixelHeight()
	fx := (tr.OriginX() - grid.GlobalOriginX) / pw
	fy := (tr.OriginY() - grid.GlobalOriginY) / ph
	a := anchor{offX: int(math.Round(fx)), offY: int(math.Round(fy))}

	if math.Abs(fx-float64(a.offX)) > 1e-6 || math.Abs(fy-float64(a.offY)) > 1e-6 {
		logrus.WithFields(logrus.Fields{"originX": tr.OriginX(), "originY": tr.OriginY()}).
			Warn("Input origin is off the global grid, re-anchoring")
	}
	if a.offX != 0 || a.offY != 0 {
		logrus.WithFields(logrus.Fields{"offX": a.offX, "offY": a.offY}).
			Warn("Input origin differs from the global origin")
	}

	a.outCol0 = floorDiv(a.offX, factor)
	a.outRow0 = floorDiv(a.offY, factor)
	a.width = floorDiv(a.offX+width-1, factor) - a.outCol0 + 1
	a.height = floorDiv(a.offY+height-1, factor) - a.outRow0 + 1

	f := float64(factor)
	a.transform = grid.Transform{
		grid.GlobalOriginX + float64(a.outCol0)*f*pw, f * pw, 0,
		grid.GlobalOriginY + float64(a.outRow0)*f*ph, 0, f * ph,
	}
	return a
}

// Coarsen aggregates factor x factor input blocks into one output pixel with
// agg. NaN input pixels are skipped and a block without valid pixels is NaN.
// The output grid always sits on the global lattice; at factor 1 a globally
// anchored source comes back unchanged.
func Coarsen(ctx context.Context, src raster.Source, factor int, agg grid.AggFunc, workers int) (*grid.Field, error) {
	logrus.Debug("Entered Coarsen")
	if factor < 1 {
		return nil, fmt.Errorf("%w: %d", ErrBadFactor, factor)
	}
	tr := src.GeoTransform()
	if tr[2] != 0 || tr[4] != 0 {
		return nil, errors.New("rotated rasters are not supported")
	}
	width, height := src.Size()
	a := anchorOf(tr, width, height, factor)

	if factor == 1 {
		f, err := raster.ReadAll(src)
		if err != nil {
			return nil, err
		}
		f.Transform = a.transform
		return f, nil
	}

	out := grid.New(a.width, a.height, a.transform, src.CRS())
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	strips := genStrips(ctx, a, factor, height)
	errCh := processStrips(ctx, src, a, factor, agg, workers, strips, out)
	for err := range errCh {
		if err != nil {
			return nil, err
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	logrus.Debug("Exited Coarsen")
	return out, nil
}

func genStrips(ctx context.Context, a anchor, factor, height int) <-chan strip {
	strips := make(chan strip)
	go func() {
		defer close(strips)
		for r := 0; r < a.height; r++ {
			g0 := (a.outRow0 + r) * factor
			s := strip{
				outRow: r,
				inRow0: max(0, g0-a.offY),
				inRow1: min(height, g0+factor-a.offY),
			}
			select {
			case strips <- s:
			case <-ctx.Done():
				return
			}
		}
	}()
	return strips
}

// processStrips writes every strip into its own output row, so workers never
// share a slice.
func processStrips(ctx context.Context, src raster.Source, a anchor, factor int, agg grid.AggFunc, workers int, strips <-chan strip, out *grid.Field) <-chan error {
	errCh := make(chan error, 1)
	var wg sync.WaitGroup
	var once sync.Once
	workers = max(1, workers)

	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			width, _ := src.Size()
			buf := make([]float64, 0, factor*factor)
			for s := range strips {
				if ctx.Err() != nil {
					return
				}
				if err := coarsenStrip(src, a, factor, agg, width, s, out, buf); err != nil {
					once.Do(func() { errCh <- err })
					return
				}
			}
		}()
	}
	go func() {
		wg.Wait()
		close(errCh)
	}()
	return errCh
}

func coarsenStrip(src raster.Source, a anchor, factor int, agg grid.AggFunc, width int, s strip, out *grid.Field, buf []float64) error {
	rows, err := src.ReadWindow(0, s.inRow0, width, s.inRow1-s.inRow0)
	if err != nil {
		return fmt.Errorf("read rows %d-%d: %w", s.inRow0, s.inRow1, err)
	}
	for c := 0; c < a.width; c++ {
		g0 := (a.outCol0 + c) * factor
		c0 := max(0, g0-a.offX)
		c1 := min(width, g0+factor-a.offX)
		buf = buf[:0]
		for r := 0; r < rows.Height; r++ {
			buf = append(buf, rows.Data[r*width+c0:r*width+c1]...)
		}
		out.Set(s.outRow, c, agg(buf...))
	}
	return nil
}
