package cmd

import (
	"context"
	"fmt"
	"os"

	"biomass-tools/catalog"
	"biomass-tools/residue"
	"biomass-tools/scenario"

	"github.com/spf13/cobra"
)

var historicalCmd = &cobra.Command{
	Use:   "historical",
	Short: "Residue energy of the crops harvested in an observed year",
	Long: `Sums the residue energy of every crop's observed production in the
	region for one year (--period 2000 or 2010) and water supply
	(default Total).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := newRun()
		if err != nil {
			return err
		}
		s := flagScenario("Total")
		if s.Period == "" {
			s.Period = r.cfg.Reference.Period
		}
		calc := r.aggregator.Calculator()
		bar := newProgressBar(len(r.cfg.Catalog.Crops(catalog.Production)), "Historical crops")
		calc.OnCrop = func(residue.CropResult) { bar.Add(1) }

		res, err := r.aggregator.Historical(cmd.Context(), s.Period, s.WaterSupply)
		return finishCropland(cmd.Context(), r, res, err)
	},
}

var futureCmd = &cobra.Command{
	Use:   "future",
	Short: "Residue energy of today's cropland under a projected climate",
	Long: `Multiplies the harvested area of the reference year by the projected
	yield of every crop for one scenario (--period, --climate-model, --rcp,
	--water-supply, --input-level).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := newRun()
		if err != nil {
			return err
		}
		s := flagScenario("Rainfed")
		if s.Period == "" || s.RCP == "" {
			return fmt.Errorf("future needs --period and --rcp")
		}
		calc := r.aggregator.Calculator()
		bar := newProgressBar(len(calc.FutureCrops()), "Future crops")
		calc.OnCrop = func(residue.CropResult) { bar.Add(1) }

		res, err := r.aggregator.Future(cmd.Context(), s)
		return finishCropland(cmd.Context(), r, res, err)
	},
}

func finishCropland(ctx context.Context, r *run, res *residue.Result, err error) error {
	if res == nil {
		return err
	}
	if err := reportPartial(err); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "\n%s %s: %.6g GJ\n", r.region.Name, res.Scenario, res.Total)
	printQuality(os.Stdout, res.Quality)

	name := scenarioName(res.Scenario)
	if err := writeOutputs(ctx, name, res.Field, nil, res.Breakdown()); err != nil {
		return err
	}
	return record(ctx, r.region.Name, scenario.Cell{
		Kind:      scenario.Cropland,
		Scenario:  res.Scenario,
		Total:     res.Total,
		Breakdown: res.Breakdown(),
		Quality:   res.Quality,
	})
}

func init() {
	rootCmd.AddCommand(historicalCmd)
	rootCmd.AddCommand(futureCmd)
}
