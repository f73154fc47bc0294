package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string
var Verbose bool
var Debug bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "biomass-tools",
	Short: "Estimate the crop residue energy potential of a region",
	Long: `Estimates how much bioenergy can be obtained from crop residues in a
	region, on existing cropland and on marginal land:
	./biomass-tools historical --country Spain --period 2010
	./biomass-tools future --country Spain --period 2041-2070 --rcp RCP4.5
	./biomass-tools marginal --country Spain --period 2041-2070 --rcp RCP4.5
	./biomass-tools compare --country Spain`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setLogLevels()
		serveMetrics(viper.GetString("metrics_addr"))
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		stop()
		os.Exit(1)
	}
}

func setLogLevels() {
	if viper.GetBool("debug") {
		logrus.SetLevel(logrus.DebugLevel)
	} else if viper.GetBool("verbose") {
		logrus.SetLevel(logrus.InfoLevel)
	} else {
		logrus.SetLevel(logrus.WarnLevel)
	}
}

func serveMetrics(addr string) {
	if addr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go func() {
		logrus.Infof("Serving metrics on %s", addr)
		if err := http.ListenAndServe(addr, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Error(err)
		}
	}()
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".biomass-tools")
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
	}
	viper.SetEnvPrefix("biomass")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			logrus.Fatal(err)
		}
		return
	}
	logrus.Debugf("Using config file %s", viper.ConfigFileUsed())
}

// bindFlag binds a flag to a viper key and exits on failure like the
// rest of the flag setup.
func bindFlag(key string, cmd *cobra.Command, flag string) {
	if err := viper.BindPFlag(key, cmd.PersistentFlags().Lookup(flag)); err != nil {
		logrus.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is ./.biomass-tools.yaml or $HOME/.biomass-tools.yaml)")
	flags.BoolVarP(&Verbose, "verbose", "v", false, "Verbose output")
	bindFlag("verbose", rootCmd, "verbose")
	flags.BoolVarP(&Debug, "debug", "d", false, "Debug output")
	bindFlag("debug", rootCmd, "debug")

	flags.String("country", "", "Country name in the boundaries file")
	bindFlag("country", rootCmd, "country")
	flags.String("province", "", "First-level subdivision of --country")
	bindFlag("province", rootCmd, "province")
	flags.String("region-file", "", "GeoJSON file with the region geometry, overrides --country")
	bindFlag("region_file", rootCmd, "region-file")
	flags.String("boundaries", "", "GeoJSON FeatureCollection of administrative boundaries with NAME_0 and NAME_1 properties")
	bindFlag("boundaries", rootCmd, "boundaries")

	flags.IntP("numWorkers", "n", 8, "Number of crops fetched in parallel")
	bindFlag("workers", rootCmd, "numWorkers")
	flags.StringP("out", "o", "", "Directory for CSV and parquet outputs")
	bindFlag("out", rootCmd, "out")
	flags.String("db", "", "SQLite file to record scenario summaries in")
	bindFlag("db", rootCmd, "db")
	flags.String("period", "", "Time period, a year like 2010 or a range like 2041-2070")
	bindFlag("scenario.period", rootCmd, "period")
	flags.String("climate-model", "IPSL-CM5A-LR", "Climate model of future scenarios")
	bindFlag("scenario.climate_model", rootCmd, "climate-model")
	flags.String("rcp", "", "Representative concentration pathway, e.g. RCP4.5")
	bindFlag("scenario.rcp", rootCmd, "rcp")
	flags.String("water-supply", "", "Water supply regime (default Total for observed years, Rainfed otherwise)")
	bindFlag("scenario.water_supply", rootCmd, "water-supply")
	flags.String("input-level", "High", "Input level of future scenarios")
	bindFlag("scenario.input_level", rootCmd, "input-level")

	flags.IntP("s2Lvl", "l", 0, "S2 cell level to index energy outputs at, 0 to skip")
	bindFlag("s2Lvl", rootCmd, "s2Lvl")
	flags.StringP("aggFunc", "a", "sum", "Function to use when aggregating to S2 cell, choose from: sum, mean, max, min")
	bindFlag("aggFunc", rootCmd, "aggFunc")

	flags.String("metrics-addr", "", "Address to serve Prometheus metrics on, e.g. :9090")
	bindFlag("metrics_addr", rootCmd, "metrics-addr")
}
