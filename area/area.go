// Package area works out how much land in each pixel is left for marginal
// crops once harvested cropland is taken away.
package area

import (
	"context"
	"fmt"
	"math"

	"biomass-tools/catalog"
	"biomass-tools/clip"
	"biomass-tools/exclusion"
	"biomass-tools/grid"
	"biomass-tools/metrics"
	"biomass-tools/raster"
	"biomass-tools/residue"

	"github.com/sirupsen/logrus"
)

const (
	MetresPerDegree        = 111319.9
	SquareMetresPerHectare = 10000
)

// PixelHectares is the spherical small-angle area of a pixel centred at lat.
// Ellipsoidal eccentricity is ignored.
func PixelHectares(pixelWidth, pixelHeight, lat float64) float64 {
	return math.Abs(pixelWidth*pixelHeight) * MetresPerDegree * MetresPerDegree *
		math.Cos(lat*math.Pi/180) / SquareMetresPerHectare
}

// PixelArea returns the area in hectares of every pixel of ref that holds
// data. Nodata pixels stay NaN.
func PixelArea(ref *grid.Field) *grid.Field {
	out := ref.Like()
	pw, ph := ref.Transform.PixelWidth(), ref.Transform.PixelHeight()
	for row := 0; row < ref.Height; row++ {
		for col := 0; col < ref.Width; col++ {
			if math.IsNaN(ref.At(row, col)) {
				continue
			}
			_, lat := ref.Transform.PixelCenter(row, col)
			out.Set(row, col, PixelHectares(pw, ph, lat))
		}
	}
	return out
}

// Areas holds the three area fields of a region, in hectares.
type Areas struct {
	Pixel     *grid.Field
	Harvested *grid.Field
	Marginal  *grid.Field
	// Clamped counts pixels where harvested area exceeded pixel area.
	Clamped int
	Failed  []string
}

// Reconciler derives harvested and marginal area on the crop grid.
type Reconciler struct {
	cfg     catalog.Config
	opener  raster.Opener
	clipper *clip.Clipper
}

func NewReconciler(cfg catalog.Config, opener raster.Opener, clipper *clip.Clipper) *Reconciler {
	return &Reconciler{cfg: cfg, opener: opener, clipper: clipper}
}

// Reconcile sums the harvested area of every cropland crop of the reference
// year, with excluded pixels zeroed, and subtracts it from the pixel area of
// ref. Marginal area is clamped at zero.
func (r *Reconciler) Reconcile(ctx context.Context, ref *grid.Field, mask *exclusion.Mask) (*Areas, error) {
	logrus.Debug("Entered Reconcile")
	crops := r.cfg.Catalog.Crops(catalog.HarvestedArea)
	fields, errs := residue.ForEach(ctx, r.cfg.Workers, crops, func(ctx context.Context, crop string) (*grid.Field, error) {
		return r.harvested(ctx, crop, ref, mask)
	})
	fatal, partial := residue.Collect("area", crops, errs)
	if fatal != nil {
		return nil, fatal
	}

	a := &Areas{
		Pixel:     PixelArea(ref),
		Harvested: grid.NewFilled(ref.Width, ref.Height, ref.Transform, ref.CRS, 0),
	}
	for i, f := range fields {
		if errs[i] != nil {
			a.Failed = append(a.Failed, crops[i])
			continue
		}
		if err := grid.Accumulate(a.Harvested, f); err != nil {
			return nil, err
		}
	}

	a.Marginal = a.Pixel.Like()
	for i, px := range a.Pixel.Data {
		if math.IsNaN(px) {
			continue
		}
		m := px - a.Harvested.Data[i]
		if m < 0 {
			m = 0
			a.Clamped++
		}
		a.Marginal.Data[i] = m
	}
	if a.Clamped > 0 {
		logrus.WithField("pixels", a.Clamped).Warn("Harvested area exceeds pixel area, clamped marginal area to zero")
		metrics.ClampedPixelsTotal.WithLabelValues("marginal_area").Add(float64(a.Clamped))
	}
	if partial != nil {
		return a, partial
	}
	return a, nil
}

func (r *Reconciler) harvested(ctx context.Context, crop string, ref *grid.Field, mask *exclusion.Mask) (*grid.Field, error) {
	entry, err := r.cfg.Catalog.Lookup(catalog.HarvestedArea, crop, r.cfg.Reference)
	if err != nil {
		return nil, err
	}
	f, err := r.clipper.Open(ctx, r.opener, entry.Location)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", crop, err)
	}
	if err := grid.CheckGrid(ref, f); err != nil {
		return nil, fmt.Errorf("%s: %w", crop, err)
	}
	if mask != nil {
		if f, err = mask.Zero(f); err != nil {
			return nil, fmt.Errorf("%s: %w", crop, err)
		}
	}
	return f.Scale(r.cfg.Units.AreaScale), nil
}

// Energy multiplies the per-pixel best density (GJ/ha) by marginal area
// (ha) and returns the energy field and its NaN-safe total in GJ.
func Energy(best, marginal *grid.Field) (*grid.Field, float64, error) {
	f, err := grid.Multiply(best, marginal)
	if err != nil {
		return nil, 0, err
	}
	return f, f.Sum(), nil
}
