// Package marginal picks, for every pixel of a region, the crop with the
// highest residue energy density on land that is neither excluded nor
// already cropped.
package marginal

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"

	"biomass-tools/catalog"
	"biomass-tools/clip"
	"biomass-tools/exclusion"
	"biomass-tools/grid"
	"biomass-tools/metrics"
	"biomass-tools/raster"
	"biomass-tools/residue"

	"github.com/sirupsen/logrus"
)

// NoCrop marks a pixel where no eligible crop has a positive density.
const NoCrop = -1

type PartialError = residue.PartialError

// CropDensity is one candidate crop's energy density field, in GJ/ha, after
// exclusion.
type CropDensity struct {
	Crop                string
	Factor              float64
	Field               *grid.Field
	ClampedPixels       int
	MissingCoefficients bool
	Err                 error
}

// Total is the sum of the density over valid pixels.
func (c CropDensity) Total() float64 {
	if c.Field == nil {
		return 0
	}
	return c.Field.Sum()
}

// Allocation is the per-pixel best density and the crop that achieves it.
type Allocation struct {
	Scenario catalog.Scenario
	// Best is NaN where no candidate has data, 0 where none is positive.
	Best *grid.Field
	// Winners holds an index into Crops per pixel, or NoCrop.
	Winners []int
	Crops   []string
	// Breakdown has one entry per crop of Crops, in the same order.
	Breakdown []CropDensity
	Quality   residue.Quality
}

// Winner returns the winning crop of a pixel, or "" for no crop.
func (a *Allocation) Winner(row, col int) string {
	i := a.Winners[a.Best.Index(row, col)]
	if i == NoCrop {
		return ""
	}
	return a.Crops[i]
}

// WinnerCounts counts the pixels won by each crop.
func (a *Allocation) WinnerCounts() map[string]int {
	out := make(map[string]int)
	for _, i := range a.Winners {
		if i != NoCrop {
			out[a.Crops[i]]++
		}
	}
	return out
}

// WinnerField is Winners as a field of crop indices, NaN for no crop.
func (a *Allocation) WinnerField() *grid.Field {
	f := a.Best.Like()
	for i, w := range a.Winners {
		if w != NoCrop {
			f.Data[i] = float64(w)
		}
	}
	return f
}

type Allocator struct {
	cfg     catalog.Config
	opener  raster.Opener
	clipper *clip.Clipper

	// OnCrop, when set, is called once per finished crop. Calls are
	// serialized.
	OnCrop func(CropDensity)
	mu     sync.Mutex
}

func NewAllocator(cfg catalog.Config, opener raster.Opener, clipper *clip.Clipper) *Allocator {
	return &Allocator{cfg: cfg, opener: opener, clipper: clipper}
}

func (a *Allocator) report(d CropDensity) {
	if a.OnCrop == nil {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.OnCrop(d)
}

// Allocate fetches every potential-yield crop of s concurrently, blanks the
// pixels of mask and then scans the candidates in catalog order. A candidate
// replaces the running best only when strictly greater, so ties keep the
// earlier crop. The fallow crop is computed and reported but never wins.
func (a *Allocator) Allocate(ctx context.Context, s catalog.Scenario, mask *exclusion.Mask) (*Allocation, error) {
	logrus.WithField("scenario", s).Debug("Entered Allocate")
	crops := a.cfg.Catalog.Crops(catalog.PotentialYield)
	if len(crops) == 0 {
		return nil, fmt.Errorf("%w: no potential-yield crops", catalog.ErrUnknownCrop)
	}

	densities, errs := residue.ForEach(ctx, a.cfg.Workers, crops, func(ctx context.Context, crop string) (CropDensity, error) {
		d := a.density(ctx, crop, s, mask)
		a.report(d)
		return d, d.Err
	})
	fatal, partial := residue.Collect("marginal", crops, errs)
	if fatal != nil {
		return nil, fatal
	}

	alloc := &Allocation{Scenario: s, Crops: crops, Breakdown: densities}
	for i := range alloc.Breakdown {
		d := &alloc.Breakdown[i]
		d.Crop = crops[i]
		switch {
		case d.Err != nil:
			alloc.Quality.FailedCrops = append(alloc.Quality.FailedCrops, d.Crop)
			continue
		case d.MissingCoefficients:
			alloc.Quality.MissingCoefficients = append(alloc.Quality.MissingCoefficients, d.Crop)
			continue
		}
		alloc.Quality.ClampedPixels += d.ClampedPixels
		if alloc.Best == nil {
			alloc.Best = d.Field.Like()
			alloc.Winners = make([]int, len(alloc.Best.Data))
			for j := range alloc.Winners {
				alloc.Winners[j] = NoCrop
			}
		}
		if err := grid.CheckGrid(alloc.Best, d.Field); err != nil {
			d.Err = err
			alloc.Quality.FailedCrops = append(alloc.Quality.FailedCrops, d.Crop)
			if partial == nil {
				partial = &PartialError{Stage: "marginal"}
			}
			partial.Failures = append(partial.Failures, residue.CropFailure{Crop: d.Crop, Err: err})
			metrics.CropFailuresTotal.WithLabelValues("marginal").Inc()
			continue
		}
		if strings.EqualFold(d.Crop, a.cfg.FallowCrop) {
			continue
		}
		scan(alloc.Best, alloc.Winners, d.Field, i)
	}
	if alloc.Best == nil {
		if partial != nil {
			return nil, partial
		}
		return nil, errors.New("marginal: no crop produced a density field")
	}

	logrus.WithFields(logrus.Fields{
		"scenario": s,
		"failed":   len(alloc.Quality.FailedCrops),
		"winners":  len(alloc.WinnerCounts()),
	}).Info("Marginal allocation done")
	if partial != nil {
		return alloc, partial
	}
	return alloc, nil
}

// scan folds one candidate into the running maximum.
func scan(best *grid.Field, winners []int, candidate *grid.Field, crop int) {
	for i, v := range candidate.Data {
		if math.IsNaN(v) {
			continue
		}
		if math.IsNaN(best.Data[i]) {
			best.Data[i] = 0
		}
		if v > best.Data[i] {
			best.Data[i] = v
			winners[i] = crop
		}
	}
}

func (a *Allocator) density(ctx context.Context, crop string, s catalog.Scenario, mask *exclusion.Mask) CropDensity {
	d := CropDensity{Crop: crop}
	factor, err := a.cfg.Potential.Factor(crop)
	if errors.Is(err, catalog.ErrMissingCoefficients) {
		logrus.WithField("crop", crop).Warn("No residue coefficients, counting as zero")
		metrics.MissingCoefficientsTotal.Inc()
		d.MissingCoefficients = true
		return d
	}
	d.Factor = factor

	entry, err := a.cfg.Catalog.Lookup(catalog.PotentialYield, crop, s)
	if err != nil {
		d.Err = err
		return d
	}
	f, err := a.clipper.Open(ctx, a.opener, entry.Location)
	if err != nil {
		d.Err = fmt.Errorf("%s: %w", crop, err)
		return d
	}
	if mask != nil {
		if f, err = mask.Apply(f); err != nil {
			d.Err = fmt.Errorf("%s: %w", crop, err)
			return d
		}
	}
	f = f.Scale(a.cfg.Units.YieldScale * factor)
	if n := f.ClampNegative(); n > 0 {
		logrus.WithFields(logrus.Fields{"crop": crop, "pixels": n}).Warn("Clamped negative density")
		metrics.ClampedPixelsTotal.WithLabelValues("density").Add(float64(n))
		d.ClampedPixels = n
	}
	d.Field = f
	return d
}
