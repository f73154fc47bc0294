package catalog

import (
	"fmt"
	"time"
)

// Units converts raster values into tonnes and hectares.
type Units struct {
	// ProductionScale turns production pixels (1000 t) into tonnes.
	ProductionScale float64
	// AreaScale turns harvested-area pixels (1000 ha) into hectares.
	AreaScale float64
	// YieldScale turns potential-yield pixels (kg/ha) into t/ha.
	YieldScale float64
}

func DefaultUnits() Units {
	return Units{ProductionScale: 1000, AreaScale: 1000, YieldScale: 0.001}
}

// ExclusionRule flags pixels of one layer as not marginal. A rule with codes
// matches those values exactly; otherwise values above Threshold match.
type ExclusionRule struct {
	Name      string
	Theme     Theme
	Codes     []float64
	Threshold float64
	// Factor is the harmonization factor bringing the layer onto the crop grid.
	Factor int
}

func (r ExclusionRule) Match(v float64) bool {
	if len(r.Codes) > 0 {
		for _, c := range r.Codes {
			if v == c {
				return true
			}
		}
		return false
	}
	return v > r.Threshold
}

// DefaultExclusionRules covers non-usable land classes, exclusion zones,
// forest and pasture.
func DefaultExclusionRules() []ExclusionRule {
	return []ExclusionRule{
		{Name: "classification", Theme: Classification, Codes: []float64{49, 50, 52, 53, 55, 56, 57}, Factor: 10},
		{Name: "exclusion", Theme: Exclusion, Codes: []float64{2, 3, 4, 5, 6, 7}, Factor: 10},
		{Name: "tree_cover", Theme: TreeCover, Threshold: 50, Factor: 10},
		{Name: "pasture", Theme: Pasture, Threshold: 0.5, Factor: 1},
	}
}

// Config is built once at start-up and handed to every component. Nothing
// mutates it afterwards.
type Config struct {
	Catalog    *Catalog
	Historical *Table
	Potential  *Table
	Units      Units
	Exclusion  []ExclusionRule
	// Reference selects the harvested-area layers that freeze the cropland
	// footprint for every future scenario.
	Reference Scenario
	// ReferenceRaster fixes the crop grid of marginal runs. When empty the
	// first potential-yield layer of the scenario is used.
	ReferenceRaster string
	FallowCrop      string
	Workers         int
	// FetchTimeout bounds a single raster open; RetryMaxElapsed bounds all
	// retries of one open.
	FetchTimeout    time.Duration
	RetryMaxElapsed time.Duration
}

func DefaultConfig(c *Catalog) Config {
	return Config{
		Catalog:         c,
		Historical:      DefaultHistorical(),
		Potential:       DefaultPotential(),
		Units:           DefaultUnits(),
		Exclusion:       DefaultExclusionRules(),
		Reference:       Scenario{Period: "2010", WaterSupply: "Total"},
		FallowCrop:      "Alfalfa",
		Workers:         8,
		FetchTimeout:    2 * time.Minute,
		RetryMaxElapsed: 5 * time.Minute,
	}
}

func (c Config) Validate() error {
	if c.Catalog == nil {
		return fmt.Errorf("config: no catalog")
	}
	if c.Historical == nil || c.Potential == nil {
		return fmt.Errorf("config: no coefficient tables")
	}
	if c.Workers < 1 {
		return fmt.Errorf("config: workers must be positive, got %d", c.Workers)
	}
	for _, r := range c.Exclusion {
		if r.Factor < 1 {
			return fmt.Errorf("config: exclusion rule %q has factor %d", r.Name, r.Factor)
		}
	}
	return nil
}
