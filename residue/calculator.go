// Package residue turns crop production into residue energy for observed
// years and projected yields.
package residue

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"biomass-tools/catalog"
	"biomass-tools/clip"
	"biomass-tools/grid"
	"biomass-tools/metrics"
	"biomass-tools/raster"

	"github.com/sirupsen/logrus"
)

// CropResult is the outcome of one crop. Err is set when the crop could not
// be computed; a crop without coefficients is not an error and contributes
// zero.
type CropResult struct {
	Crop                string
	Factor              float64 // GJ per tonne of product
	Production          float64 // tonnes
	Energy              float64 // GJ
	Field               *grid.Field
	ClampedPixels       int
	MissingCoefficients bool
	Err                 error
}

// Quality counts what had to be repaired or left out.
type Quality struct {
	ClampedPixels       int
	MissingCoefficients []string
	FailedCrops         []string
}

// Result is an energy field with its total and per-crop breakdown.
type Result struct {
	Scenario catalog.Scenario
	Total    float64 // GJ
	Field    *grid.Field
	Crops    []CropResult
	Quality  Quality
}

// Breakdown maps crop to energy for the crops that succeeded.
func (r *Result) Breakdown() map[string]float64 {
	out := make(map[string]float64, len(r.Crops))
	for _, c := range r.Crops {
		if c.Err == nil {
			out[c.Crop] = c.Energy
		}
	}
	return out
}

// Calculator computes residue energy for one region.
type Calculator struct {
	cfg     catalog.Config
	opener  raster.Opener
	clipper *clip.Clipper

	// OnCrop, when set, is called once per finished crop. Calls are
	// serialized.
	OnCrop func(CropResult)
	mu     sync.Mutex
}

func NewCalculator(cfg catalog.Config, opener raster.Opener, clipper *clip.Clipper) *Calculator {
	return &Calculator{cfg: cfg, opener: opener, clipper: clipper}
}

func (c *Calculator) report(r CropResult) {
	if c.OnCrop == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.OnCrop(r)
}

// Historical sums observed production of every production-catalog crop
// for one year and water regime.
func (c *Calculator) Historical(ctx context.Context, period, waterSupply string) (*Result, error) {
	logrus.WithFields(logrus.Fields{"period": period, "water": waterSupply}).Debug("Entered Historical")
	s := catalog.Scenario{Period: period, WaterSupply: waterSupply}
	crops := c.cfg.Catalog.Crops(catalog.Production)
	return c.run(ctx, "historical", s, crops, func(ctx context.Context, crop string) (*grid.Field, error) {
		entry, err := c.cfg.Catalog.Lookup(catalog.Production, crop, s)
		if err != nil {
			return nil, err
		}
		f, err := c.clipper.Open(ctx, c.opener, entry.Location)
		if err != nil {
			return nil, err
		}
		return f.Scale(c.cfg.Units.ProductionScale), nil
	})
}

// Future multiplies the harvested area of the reference year, which freezes
// the cropland footprint, by the projected yield of s. Only crops present
// in both catalogs are used.
func (c *Calculator) Future(ctx context.Context, s catalog.Scenario) (*Result, error) {
	logrus.WithField("scenario", s).Debug("Entered Future")
	crops := c.FutureCrops()
	return c.run(ctx, "future", s, crops, func(ctx context.Context, crop string) (*grid.Field, error) {
		areaEntry, err := c.cfg.Catalog.Lookup(catalog.HarvestedArea, crop, c.cfg.Reference)
		if err != nil {
			return nil, err
		}
		yieldEntry, err := c.cfg.Catalog.Lookup(catalog.PotentialYield, crop, s)
		if err != nil {
			return nil, err
		}
		area, err := c.clipper.Open(ctx, c.opener, areaEntry.Location)
		if err != nil {
			return nil, err
		}
		yield, err := c.clipper.Open(ctx, c.opener, yieldEntry.Location)
		if err != nil {
			return nil, err
		}
		return grid.Multiply(area.Scale(c.cfg.Units.AreaScale), yield.Scale(c.cfg.Units.YieldScale))
	})
}

// FutureCrops lists the harvested-area crops that also have a projected
// yield, in harvested-area catalog order.
func (c *Calculator) FutureCrops() []string {
	potential := make(map[string]bool)
	for _, crop := range c.cfg.Catalog.Crops(catalog.PotentialYield) {
		potential[crop] = true
	}
	var crops []string
	for _, crop := range c.cfg.Catalog.Crops(catalog.HarvestedArea) {
		if potential[crop] {
			crops = append(crops, crop)
		}
	}
	return crops
}

// run converts the production field of every crop, in tonnes per pixel,
// into energy and joins the crops in catalog order.
func (c *Calculator) run(ctx context.Context, stage string, s catalog.Scenario, crops []string, production func(context.Context, string) (*grid.Field, error)) (*Result, error) {
	results, errs := ForEach(ctx, c.cfg.Workers, crops, func(ctx context.Context, crop string) (CropResult, error) {
		r := c.computeCrop(ctx, crop, production)
		c.report(r)
		return r, r.Err
	})
	fatal, partial := Collect(stage, crops, errs)
	if fatal != nil {
		return nil, fatal
	}

	res := &Result{Scenario: s, Crops: results}
	for i := range res.Crops {
		cr := &res.Crops[i]
		cr.Crop = crops[i]
		switch {
		case cr.Err != nil:
			res.Quality.FailedCrops = append(res.Quality.FailedCrops, cr.Crop)
			continue
		case cr.MissingCoefficients:
			res.Quality.MissingCoefficients = append(res.Quality.MissingCoefficients, cr.Crop)
			continue
		}
		if res.Field == nil {
			res.Field = cr.Field.Like()
		}
		if err := grid.Accumulate(res.Field, cr.Field); err != nil {
			cr.Err = err
			res.Quality.FailedCrops = append(res.Quality.FailedCrops, cr.Crop)
			if partial == nil {
				partial = &PartialError{Stage: stage}
			}
			partial.Failures = append(partial.Failures, CropFailure{Crop: cr.Crop, Err: err})
			metrics.CropFailuresTotal.WithLabelValues(stage).Inc()
			continue
		}
		res.Quality.ClampedPixels += cr.ClampedPixels
		res.Total += cr.Energy
	}

	logrus.WithFields(logrus.Fields{
		"stage":    stage,
		"scenario": s,
		"total":    res.Total,
		"failed":   len(res.Quality.FailedCrops),
		"missing":  len(res.Quality.MissingCoefficients),
	}).Info("Residue energy computed")
	if partial != nil {
		return res, partial
	}
	return res, nil
}

func (c *Calculator) computeCrop(ctx context.Context, crop string, production func(context.Context, string) (*grid.Field, error)) CropResult {
	r := CropResult{Crop: crop}
	factor, err := c.cfg.Historical.Factor(crop)
	if errors.Is(err, catalog.ErrMissingCoefficients) {
		logrus.WithField("crop", crop).Warn("No residue coefficients, counting as zero")
		metrics.MissingCoefficientsTotal.Inc()
		r.MissingCoefficients = true
		return r
	}
	r.Factor = factor

	f, err := production(ctx, crop)
	if err != nil {
		r.Err = fmt.Errorf("%s: %w", crop, err)
		return r
	}
	if n := f.ClampNegative(); n > 0 {
		logrus.WithFields(logrus.Fields{"crop": crop, "pixels": n}).Warn("Clamped negative production")
		metrics.ClampedPixelsTotal.WithLabelValues("production").Add(float64(n))
		r.ClampedPixels = n
	}
	r.Production = f.Sum()
	r.Field = f.Scale(factor)
	r.Energy = r.Field.Sum()
	return r
}
