package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"biomass-tools/catalog"
	"biomass-tools/region"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// catalogKeys maps every theme to the config key naming its CSV.
var catalogKeys = map[catalog.Theme]string{
	catalog.Production:     "catalog.production",
	catalog.HarvestedArea:  "catalog.harvested_area",
	catalog.PotentialYield: "catalog.potential_yield",
	catalog.Classification: "catalog.classification",
	catalog.Exclusion:      "catalog.exclusion",
	catalog.TreeCover:      "catalog.tree_cover",
	catalog.Pasture:        "catalog.pasture",
}

var themeOrder = []catalog.Theme{
	catalog.Production, catalog.HarvestedArea, catalog.PotentialYield,
	catalog.Classification, catalog.Exclusion, catalog.TreeCover, catalog.Pasture,
}

func init() {
	units := catalog.DefaultUnits()
	viper.SetDefault("units.production_scale", units.ProductionScale)
	viper.SetDefault("units.area_scale", units.AreaScale)
	viper.SetDefault("units.yield_scale", units.YieldScale)
	viper.SetDefault("reference.period", "2010")
	viper.SetDefault("reference.water_supply", "Total")
	viper.SetDefault("fallow_crop", "Alfalfa")
	viper.SetDefault("fetch_timeout", "2m")
	viper.SetDefault("retry_max_elapsed", "5m")
}

// loadConfig turns viper state into the immutable run configuration.
func loadConfig() (catalog.Config, error) {
	var entries []catalog.Entry
	for _, theme := range themeOrder {
		path := viper.GetString(catalogKeys[theme])
		if path == "" {
			continue
		}
		e, err := catalog.LoadEntries(path, theme)
		if err != nil {
			return catalog.Config{}, fmt.Errorf("load %s catalog: %w", theme, err)
		}
		entries = append(entries, e...)
	}
	if len(entries) == 0 {
		return catalog.Config{}, fmt.Errorf("no catalog files configured, set catalog.<theme> in the config file")
	}

	cfg := catalog.DefaultConfig(catalog.New(entries))
	if path := viper.GetString("coefficients.historical"); path != "" {
		t, err := catalog.LoadCoefficients(path)
		if err != nil {
			return catalog.Config{}, err
		}
		cfg.Historical = t
	}
	if path := viper.GetString("coefficients.potential"); path != "" {
		t, err := catalog.LoadCoefficients(path)
		if err != nil {
			return catalog.Config{}, err
		}
		cfg.Potential = t
	}

	cfg.Units = catalog.Units{
		ProductionScale: viper.GetFloat64("units.production_scale"),
		AreaScale:       viper.GetFloat64("units.area_scale"),
		YieldScale:      viper.GetFloat64("units.yield_scale"),
	}
	if viper.IsSet("exclusion") {
		var rules []catalog.ExclusionRule
		if err := viper.UnmarshalKey("exclusion", &rules); err != nil {
			return catalog.Config{}, fmt.Errorf("exclusion rules: %w", err)
		}
		cfg.Exclusion = rules
	}
	cfg.Reference = catalog.Scenario{
		Period:      viper.GetString("reference.period"),
		WaterSupply: viper.GetString("reference.water_supply"),
	}
	cfg.ReferenceRaster = viper.GetString("reference_raster")
	cfg.FallowCrop = viper.GetString("fallow_crop")
	cfg.Workers = viper.GetInt("workers")
	cfg.FetchTimeout = viper.GetDuration("fetch_timeout")
	cfg.RetryMaxElapsed = viper.GetDuration("retry_max_elapsed")

	if err := cfg.Validate(); err != nil {
		return catalog.Config{}, err
	}
	logrus.WithFields(logrus.Fields{"entries": cfg.Catalog.Len(), "workers": cfg.Workers}).Debug("Loaded config")
	return cfg, nil
}

// loadRegion reads --region-file, or looks --country / --province up in
// the boundaries file.
func loadRegion() (region.Region, error) {
	if path := viper.GetString("region_file"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return region.Region{}, err
		}
		name := filepath.Base(path)
		return region.FromGeoJSON(name[:len(name)-len(filepath.Ext(name))], data)
	}

	country := viper.GetString("country")
	if country == "" {
		return region.Region{}, fmt.Errorf("either --region-file or --country is required")
	}
	path := viper.GetString("boundaries")
	if path == "" {
		return region.Region{}, fmt.Errorf("--country needs a --boundaries file")
	}
	b, err := region.LoadBoundaries(path)
	if err != nil {
		return region.Region{}, err
	}
	return b.Lookup(country, viper.GetString("province"))
}
