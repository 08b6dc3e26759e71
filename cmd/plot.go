package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.dedis.ch/onet/v3/log"

	"github.com/hhcho/sell-assoc/assoc"
	"github.com/hhcho/sell-assoc/forest"
	"github.com/hhcho/sell-assoc/gwas"
)

func newMergeCmd(a *app) *cobra.Command {
	mergeCmd := &cobra.Command{
		Use:   "merge",
		Short: "Merge logistic and adjusted results per model into one table",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := a.config
			stop, _ := startWatchdog(config)
			defer stop()
			for _, model := range config.Models {
				merged, err := assoc.MergeResults(config.WorkDir, config.ResultPrefix, model)
				if err != nil {
					return err
				}
				if err := writeMerged(config, model, merged); err != nil {
					return err
				}
			}
			return nil
		},
	}
	addResultFlags(mergeCmd.Flags())
	return mergeCmd
}

func newPlotCmd(a *app) *cobra.Command {
	plotCmd := &cobra.Command{
		Use:   "plot",
		Short: "Render forest plots of odds ratios per model",
		Long: `plot collects every <prefix>*<MODEL>.assoc.logistic file in the work
directory, attaches the matching --adjust statistics and writes one HTML
forest plot per model.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			config := a.config
			stop, _ := startWatchdog(config)
			defer stop()
			for _, model := range config.Models {
				merged, err := assoc.MergeResults(config.WorkDir, config.ResultPrefix, model)
				if err != nil {
					return err
				}
				if merged.Empty() {
					log.Warn("No", model, "results found for prefix", config.ResultPrefix)
					continue
				}

				p, err := forest.Build(merged, model, config.PlotOptions())
				if err != nil {
					return fmt.Errorf("%s: %w", model, err)
				}
				out := config.OutFile(config.PlotOutput, model)
				if err := writeFile(out, p.Render); err != nil {
					return err
				}
				log.LLvl1("Saved forest plot to", out)
			}
			return nil
		},
	}
	addResultFlags(plotCmd.Flags())
	plotCmd.Flags().String("adjusted-column", forest.DefaultAdjustedColumn, "Adjusted p-value column shown next to each odds ratio")
	plotCmd.Flags().Float64("xmin", forest.DefaultXMin, "Left x-axis limit; xmin >= xmax fits the data")
	plotCmd.Flags().Float64("xmax", forest.DefaultXMax, "Right x-axis limit")
	return plotCmd
}

func writeMerged(config *gwas.Config, model string, t *assoc.Table) error {
	out := config.OutFile(config.MergedOutput, model)
	if err := writeFile(out, func(w io.Writer) error { return assoc.WriteTable(w, t) }); err != nil {
		return err
	}
	log.LLvl1("Saved", t.NumRows(), "rows to", out)
	return nil
}

func writeFile(filename string, write func(io.Writer) error) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", filename, err)
	}
	return f.Close()
}

func addResultFlags(fs *pflag.FlagSet) {
	fs.String("prefix", "MALES_2", "Result file name prefix")
	fs.StringSlice("model", nil, "Models to collect, e.g. ADDITIVE,RECESSIVE (default all logistic models)")
}
