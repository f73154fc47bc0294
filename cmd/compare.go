package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"biomass-tools/scenario"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare residue energy across time periods and RCPs",
	Long: `Runs the cropland path (--kind cropland, the observed years plus every
	future period x RCP) or the marginal-land path (--kind marginal, every
	future period x RCP) and prints one row per scenario. A scenario that
	fails is reported and does not stop the others.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := newRun()
		if err != nil {
			return err
		}
		axes := scenario.DefaultAxes()
		if periods := viper.GetStringSlice("compare.periods"); len(periods) > 0 {
			axes.FuturePeriods = periods
		}
		if rcps := viper.GetStringSlice("compare.rcps"); len(rcps) > 0 {
			axes.RCPs = rcps
		}
		s := flagScenario("Rainfed")
		axes.ClimateModel, axes.WaterSupply, axes.InputLevel = s.ClimateModel, s.WaterSupply, s.InputLevel
		r.aggregator.Concurrency = viper.GetInt("compare.concurrency")

		var cells []scenario.Cell
		switch kind := viper.GetString("compare.kind"); kind {
		case string(scenario.Cropland):
			cells, err = r.aggregator.Cropland(cmd.Context(), axes)
		case string(scenario.Marginal):
			cells, err = r.aggregator.MarginalComparison(cmd.Context(), axes)
		default:
			return fmt.Errorf("unknown --kind %q, choose cropland or marginal", kind)
		}
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "PERIOD\tRCP\tTOTAL (GJ)\tSTATUS")
		for _, c := range cells {
			status := "ok"
			if c.Err != nil {
				status = c.Err.Error()
			} else if n := len(c.Quality.FailedCrops); n > 0 {
				status = fmt.Sprintf("%d crops failed", n)
			}
			fmt.Fprintf(tw, "%s\t%s\t%.6g\t%s\n", c.Scenario.Period, c.Scenario.RCP, c.Total, status)
		}
		if err := tw.Flush(); err != nil {
			logrus.Error(err)
		}
		return record(cmd.Context(), r.region.Name, cells...)
	},
}

func init() {
	rootCmd.AddCommand(compareCmd)

	compareCmd.Flags().String("kind", "cropland", "Which potential to compare: cropland or marginal")
	if err := viper.BindPFlag("compare.kind", compareCmd.Flags().Lookup("kind")); err != nil {
		logrus.Exit(1)
	}
	compareCmd.Flags().StringSlice("periods", nil, "Future periods (default 2011-2040,2041-2070,2071-2100)")
	if err := viper.BindPFlag("compare.periods", compareCmd.Flags().Lookup("periods")); err != nil {
		logrus.Exit(1)
	}
	compareCmd.Flags().StringSlice("rcps", nil, "RCPs (default RCP2.6,RCP4.5,RCP6.0,RCP8.5)")
	if err := viper.BindPFlag("compare.rcps", compareCmd.Flags().Lookup("rcps")); err != nil {
		logrus.Exit(1)
	}
	compareCmd.Flags().Int("concurrency", 2, "Scenarios computed at once")
	if err := viper.BindPFlag("compare.concurrency", compareCmd.Flags().Lookup("concurrency")); err != nil {
		logrus.Exit(1)
	}
}
