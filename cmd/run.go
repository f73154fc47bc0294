package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"biomass-tools/catalog"
	"biomass-tools/cellsio"
	"biomass-tools/celltools"
	"biomass-tools/grid"
	"biomass-tools/raster"
	"biomass-tools/region"
	"biomass-tools/residue"
	"biomass-tools/scenario"
	"biomass-tools/store"

	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// run bundles what every subcommand needs.
type run struct {
	cfg        catalog.Config
	region     region.Region
	aggregator *scenario.Aggregator
}

func newRun() (*run, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	r, err := loadRegion()
	if err != nil {
		return nil, err
	}
	opener := raster.NewGDALOpener(cfg.FetchTimeout, cfg.RetryMaxElapsed)
	logrus.WithFields(logrus.Fields{"region": r.Name, "bounds": r.Bound()}).Info("Region loaded")
	return &run{cfg: cfg, region: r, aggregator: scenario.New(cfg, opener, r)}, nil
}

// flagScenario reads the scenario flags, falling back to water for an
// unset water supply.
func flagScenario(water string) catalog.Scenario {
	s := catalog.Scenario{
		Period:       viper.GetString("scenario.period"),
		ClimateModel: viper.GetString("scenario.climate_model"),
		RCP:          viper.GetString("scenario.rcp"),
		WaterSupply:  viper.GetString("scenario.water_supply"),
		InputLevel:   viper.GetString("scenario.input_level"),
	}
	if s.WaterSupply == "" {
		s.WaterSupply = water
	}
	return s
}

func newProgressBar(n int, description string) *progressbar.ProgressBar {
	return progressbar.Default(int64(n), description)
}

// reportPartial logs a degraded result; any other error is returned.
func reportPartial(err error) error {
	var partial *residue.PartialError
	if errors.As(err, &partial) {
		logrus.WithField("stage", partial.Stage).Warn(partial)
		return nil
	}
	return err
}

func printQuality(w io.Writer, q residue.Quality) {
	if q.ClampedPixels > 0 {
		fmt.Fprintf(w, "  clamped pixels: %d\n", q.ClampedPixels)
	}
	if len(q.MissingCoefficients) > 0 {
		fmt.Fprintf(w, "  crops without coefficients: %v\n", q.MissingCoefficients)
	}
	if len(q.FailedCrops) > 0 {
		fmt.Fprintf(w, "  failed crops: %v\n", q.FailedCrops)
	}
}

// writeOutputs writes the energy field, its breakdown and, when an S2 level
// is set, its S2 cells under the --out directory.
func writeOutputs(ctx context.Context, name string, energy *grid.Field, label func(row, col int) string, breakdown map[string]float64) error {
	dir := viper.GetString("out")
	if dir == "" || energy == nil {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	if err := cellsio.WriteFile(filepath.Join(dir, name+"_pixels.csv"), func(w io.Writer) error {
		return cellsio.WritePixelsCSV(w, energy, label)
	}); err != nil {
		return err
	}
	if err := cellsio.WriteFile(filepath.Join(dir, name+"_breakdown.csv"), func(w io.Writer) error {
		return cellsio.WriteBreakdownCSV(w, name, breakdown)
	}); err != nil {
		return err
	}

	level := viper.GetInt("s2Lvl")
	if level <= 0 {
		return nil
	}
	opts := celltools.ConfigOpts{
		NumWorkers: viper.GetInt("workers"),
		S2Lvl:      level,
		AggFunc:    chooseAggFunc(viper.GetString("aggFunc")),
	}
	path := filepath.Join(dir, name+"_cells.parquet")
	sink := func(cellData chan celltools.S2CellData) error {
		return cellsio.StreamToParquet(cellData, path, opts.NumWorkers)
	}
	if err := celltools.IndexField(ctx, energy, opts, sink); err != nil {
		return err
	}
	logrus.Infof("Wrote outputs to %s", dir)
	return nil
}

func chooseAggFunc(funcFlag string) grid.AggFunc {
	switch funcFlag {
	case "mean":
		return grid.Mean
	case "sum":
		return grid.Sum
	case "max":
		return grid.Max
	case "min":
		return grid.Min
	default:
		logrus.Warnf("Aggregation function %s not recognized, using sum", funcFlag)
		return grid.Sum
	}
}

// record saves cells to the --db file when one is set.
func record(ctx context.Context, regionName string, cells ...scenario.Cell) (err error) {
	path := viper.GetString("db")
	if path == "" {
		return nil
	}
	st, err := store.Open(path)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, st.Close())
	}()
	for _, c := range cells {
		if _, err := st.SaveCell(ctx, regionName, c); err != nil {
			return err
		}
	}
	logrus.WithField("cells", len(cells)).Infof("Recorded results in %s", path)
	return nil
}

func scenarioName(s catalog.Scenario) string {
	name := s.Period
	for _, part := range []string{s.ClimateModel, s.RCP, s.WaterSupply, s.InputLevel} {
		if part != "" {
			name += "_" + part
		}
	}
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '.' || r == '-' {
			return r
		}
		return '_'
	}, name)
}
