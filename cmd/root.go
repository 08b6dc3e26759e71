package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/raulk/go-watchdog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.dedis.ch/onet/v3/log"

	"github.com/hhcho/sell-assoc/gwas"
)

var version = "dev"

// app carries the state one command tree shares: the parsed persistent
// flags and the config they produce.
type app struct {
	configFile string
	debug      bool
	config     *gwas.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}
	rootCmd := &cobra.Command{
		Use:   "sell-assoc",
		Short: "Run and plot candidate-gene association tests with plink",
		Long: `sell-assoc drives plink through a fixed battery of case/control
association tests for one phenotype and turns the logistic regression
results into forest plots of odds ratios.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config, err := gwas.LoadConfig(a.configFile)
			if err != nil {
				return err
			}
			a.applyFlags(cmd.Flags(), config)
			if config.Debug {
				log.SetDebugVisible(2)
			}
			a.config = config
			return config.Validate()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.configFile, "config", "c", "", "TOML config file")
	rootCmd.PersistentFlags().BoolVar(&a.debug, "debug", false, "Verbose logging")
	rootCmd.PersistentFlags().StringP("work-dir", "w", "", "Directory plink writes to and results are read from")

	rootCmd.AddCommand(
		newRunCmd(a),
		newMergeCmd(a),
		newPlotCmd(a),
		newVersionCmd(),
	)
	return rootCmd
}

// applyFlags copies every flag the user set onto the config, so the command
// line wins over the config file.
func (a *app) applyFlags(flags *pflag.FlagSet, c *gwas.Config) {
	flags.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "debug":
			c.Debug = a.debug
		case "work-dir":
			c.WorkDir = f.Value.String()
		case "plink":
			c.PlinkBinary = f.Value.String()
		case "geno":
			c.GenoFilePrefix = f.Value.String()
		case "pheno":
			c.PhenoFile = f.Value.String()
		case "covar":
			c.CovFile = f.Value.String()
		case "pheno-name":
			c.PhenoName = f.Value.String()
		case "ci":
			c.CI, _ = flags.GetFloat64("ci")
		case "prefix":
			c.ResultPrefix = f.Value.String()
		case "model":
			c.Models, _ = flags.GetStringSlice("model")
		case "adjusted-column":
			c.AdjustedColumn = f.Value.String()
		case "xmin":
			c.PlotXMin, _ = flags.GetFloat64("xmin")
		case "xmax":
			c.PlotXMax, _ = flags.GetFloat64("xmax")
		}
	})
}

// startWatchdog bounds the heap while large result tables are in memory.
// The second return value reports whether the watchdog is running.
func startWatchdog(c *gwas.Config) (func(), bool) {
	if c.MemoryLimit == 0 {
		return func() {}, false
	}
	err, stopFn := watchdog.HeapDriven(c.MemoryLimit, 40, watchdog.NewAdaptivePolicy(0.5))
	if err != nil {
		log.Warn("watchdog disabled:", err)
		return func() {}, false
	}
	log.Lvl2(time.Now().Format(time.StampMilli), "Heap watchdog at", c.MemoryLimit, "bytes")
	return stopFn, true
}

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
