package exclusion

import (
	"context"
	"fmt"

	"biomass-tools/catalog"
	"biomass-tools/clip"
	"biomass-tools/harmonize"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Engine runs the configured exclusion passes for one region.
type Engine struct {
	rules      []catalog.ExclusionRule
	catalog    *catalog.Catalog
	harmonizer *harmonize.Harmonizer
	clipper    *clip.Clipper
}

func NewEngine(cfg catalog.Config, h *harmonize.Harmonizer, c *clip.Clipper) *Engine {
	return &Engine{rules: cfg.Exclusion, catalog: cfg.Catalog, harmonizer: h, clipper: c}
}

// Build harmonizes and clips the layer of every rule for s and unions the
// flagged pixels. Passes run concurrently; any failing pass fails the set,
// since a partial mask would overstate marginal land.
func (e *Engine) Build(ctx context.Context, s catalog.Scenario) (*CoordinateSet, error) {
	logrus.WithField("scenario", s).Debug("Entered Build")
	passes := make([]Pass, len(e.rules))

	g, ctx := errgroup.WithContext(ctx)
	for i, rule := range e.rules {
		i, rule := i, rule
		g.Go(func() error {
			entry, err := e.catalog.Lookup(rule.Theme, "", s)
			if err != nil {
				return fmt.Errorf("exclusion %s: %w", rule.Name, err)
			}
			src, err := e.harmonizer.Open(ctx, entry, rule.Factor)
			if err != nil {
				return fmt.Errorf("exclusion %s: %w", rule.Name, err)
			}
			f, err := e.clipper.Clip(src)
			if err != nil {
				return fmt.Errorf("exclusion %s: %w", rule.Name, err)
			}
			passes[i] = Extract(f, rule)
			logrus.WithFields(logrus.Fields{"rule": rule.Name, "pixels": len(passes[i].Points)}).Debug("Exclusion pass done")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	set := &CoordinateSet{}
	for _, p := range passes {
		set.Add(p)
	}
	logrus.WithFields(logrus.Fields{"scenario": s, "coordinates": set.Len()}).Info("Exclusion set built")
	return set, nil
}
