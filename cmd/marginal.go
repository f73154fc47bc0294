package cmd

import (
	"fmt"
	"os"
	"sort"

	"biomass-tools/catalog"
	"biomass-tools/marginal"
	"biomass-tools/scenario"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var marginalCmd = &cobra.Command{
	Use:   "marginal",
	Short: "Residue energy obtainable from marginal land under a projected climate",
	Long: `Excludes protected, forested, pasture and unsuitable pixels, picks the
	crop with the highest residue energy density on every remaining pixel and
	weighs it by the area not already under crops.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := newRun()
		if err != nil {
			return err
		}
		s := flagScenario("Rainfed")
		if s.Period == "" || s.RCP == "" {
			return fmt.Errorf("marginal needs --period and --rcp")
		}
		alloc := r.aggregator.Allocator()
		bar := newProgressBar(len(r.cfg.Catalog.Crops(catalog.PotentialYield)), "Candidate crops")
		alloc.OnCrop = func(marginal.CropDensity) { bar.Add(1) }

		res, err := r.aggregator.Marginal(cmd.Context(), s)
		if res == nil {
			return err
		}
		if err := reportPartial(err); err != nil {
			return err
		}

		fmt.Fprintf(os.Stdout, "\n%s %s marginal: %.6g GJ (%d pixels excluded)\n", r.region.Name, s, res.Total, res.Excluded)
		counts := res.Allocation.WinnerCounts()
		crops := make([]string, 0, len(counts))
		for crop := range counts {
			crops = append(crops, crop)
		}
		sort.Slice(crops, func(i, j int) bool { return counts[crops[i]] > counts[crops[j]] })
		for _, crop := range crops {
			fmt.Fprintf(os.Stdout, "  %-24s %6d pixels\n", crop, counts[crop])
		}
		printQuality(os.Stdout, res.Quality)

		breakdown := res.Breakdown()
		name := scenarioName(s) + "_marginal"
		if err := writeOutputs(cmd.Context(), name, res.Energy, res.Allocation.Winner, breakdown); err != nil {
			return err
		}
		logrus.WithField("crops", len(breakdown)).Debug("Marginal outputs written")
		return record(cmd.Context(), r.region.Name, scenario.Cell{
			Kind:      scenario.Marginal,
			Scenario:  s,
			Total:     res.Total,
			Breakdown: breakdown,
			Quality:   res.Quality,
		})
	},
}

func init() {
	rootCmd.AddCommand(marginalCmd)
}
