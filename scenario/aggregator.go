// Package scenario runs the full biomass potential pipeline for a region and
// compares it across time periods and emission pathways.
package scenario

import (
	"context"
	"errors"
	"fmt"
	"math"

	"biomass-tools/area"
	"biomass-tools/catalog"
	"biomass-tools/clip"
	"biomass-tools/exclusion"
	"biomass-tools/grid"
	"biomass-tools/harmonize"
	"biomass-tools/marginal"
	"biomass-tools/raster"
	"biomass-tools/region"
	"biomass-tools/residue"

	"github.com/sirupsen/logrus"
)

// MarginalResult is the biomass potential of marginal land for one scenario.
type MarginalResult struct {
	Scenario   catalog.Scenario
	Total      float64     // GJ
	Energy     *grid.Field // GJ per pixel
	Allocation *marginal.Allocation
	Areas      *area.Areas
	Excluded   int
	Quality    residue.Quality
}

// Breakdown maps every eligible crop to the energy of the pixels it won.
func (m *MarginalResult) Breakdown() map[string]float64 {
	out := make(map[string]float64)
	for i, w := range m.Allocation.Winners {
		if w == marginal.NoCrop {
			continue
		}
		if v := m.Energy.Data[i]; !math.IsNaN(v) {
			out[m.Allocation.Crops[w]] += v
		}
	}
	return out
}

// Aggregator wires the pipeline stages for one region. It is safe for
// concurrent use across scenarios; harmonized static layers are shared.
type Aggregator struct {
	cfg        catalog.Config
	opener     raster.Opener
	clipper    *clip.Clipper
	engine     *exclusion.Engine
	calculator *residue.Calculator
	allocator  *marginal.Allocator
	reconciler *area.Reconciler

	// Concurrency bounds the scenarios of a comparison that run at once.
	Concurrency int
}

func New(cfg catalog.Config, opener raster.Opener, r region.Region) *Aggregator {
	clipper := clip.New(r)
	return &Aggregator{
		cfg:         cfg,
		opener:      opener,
		clipper:     clipper,
		engine:      exclusion.NewEngine(cfg, harmonize.New(opener, cfg.Workers), clipper),
		calculator:  residue.NewCalculator(cfg, opener, clipper),
		allocator:   marginal.NewAllocator(cfg, opener, clipper),
		reconciler:  area.NewReconciler(cfg, opener, clipper),
		Concurrency: 2,
	}
}

// Calculator exposes the cropland residue stage, e.g. to hook progress.
func (a *Aggregator) Calculator() *residue.Calculator { return a.calculator }

// Allocator exposes the marginal allocation stage.
func (a *Aggregator) Allocator() *marginal.Allocator { return a.allocator }

// Historical is the cropland residue potential of an observed year.
func (a *Aggregator) Historical(ctx context.Context, period, waterSupply string) (*residue.Result, error) {
	return a.calculator.Historical(ctx, period, waterSupply)
}

// Future is the cropland residue potential of a projected scenario.
func (a *Aggregator) Future(ctx context.Context, s catalog.Scenario) (*residue.Result, error) {
	return a.calculator.Future(ctx, s)
}

// Marginal builds the exclusion set of s, allocates the best crop on every
// remaining pixel and weighs the winning density by the marginal area.
// A *residue.PartialError is returned alongside a usable result when some
// crops had to be left out.
func (a *Aggregator) Marginal(ctx context.Context, s catalog.Scenario) (*MarginalResult, error) {
	log := logrus.WithField("scenario", s)
	log.Debug("Entered Marginal")

	set, err := a.engine.Build(ctx, s)
	if err != nil {
		return nil, err
	}
	ref, err := a.reference(ctx, s)
	if err != nil {
		return nil, err
	}
	mask, err := exclusion.NewMask(ref.Key(), set)
	if err != nil {
		return nil, err
	}

	var partials []*residue.PartialError
	alloc, err := a.allocator.Allocate(ctx, s, mask)
	if alloc == nil {
		return nil, err
	}
	partials = appendPartial(partials, err)

	areas, err := a.reconciler.Reconcile(ctx, alloc.Best, mask)
	if areas == nil {
		return nil, err
	}
	partials = appendPartial(partials, err)

	energy, total, err := area.Energy(alloc.Best, areas.Marginal)
	if err != nil {
		return nil, err
	}

	res := &MarginalResult{
		Scenario:   s,
		Total:      total,
		Energy:     energy,
		Allocation: alloc,
		Areas:      areas,
		Excluded:   mask.Count(),
		Quality:    alloc.Quality,
	}
	res.Quality.ClampedPixels += areas.Clamped
	res.Quality.FailedCrops = append(res.Quality.FailedCrops, areas.Failed...)

	log.WithFields(logrus.Fields{
		"total":    total,
		"excluded": res.Excluded,
		"failed":   len(res.Quality.FailedCrops),
	}).Info("Marginal potential done")
	if merged := mergePartials("marginal", partials); merged != nil {
		return res, merged
	}
	return res, nil
}

// reference clips the raster that fixes the crop grid of a marginal run.
func (a *Aggregator) reference(ctx context.Context, s catalog.Scenario) (*grid.Field, error) {
	location := a.cfg.ReferenceRaster
	if location == "" {
		crops := a.cfg.Catalog.Crops(catalog.PotentialYield)
		if len(crops) == 0 {
			return nil, fmt.Errorf("%w: no potential-yield crops", catalog.ErrUnknownCrop)
		}
		entry, err := a.cfg.Catalog.Lookup(catalog.PotentialYield, crops[0], s)
		if err != nil {
			return nil, err
		}
		location = entry.Location
	}
	f, err := a.clipper.Open(ctx, a.opener, location)
	if err != nil {
		return nil, fmt.Errorf("reference raster: %w", err)
	}
	return f, nil
}

func appendPartial(partials []*residue.PartialError, err error) []*residue.PartialError {
	var p *residue.PartialError
	if errors.As(err, &p) {
		return append(partials, p)
	}
	return partials
}

func mergePartials(stage string, partials []*residue.PartialError) *residue.PartialError {
	if len(partials) == 0 {
		return nil
	}
	out := &residue.PartialError{Stage: stage}
	for _, p := range partials {
		out.Failures = append(out.Failures, p.Failures...)
	}
	return out
}
