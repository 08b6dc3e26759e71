package cmd

import (
	"github.com/spf13/cobra"
	"go.dedis.ch/onet/v3/log"

	"github.com/hhcho/sell-assoc/plink"
)

func newRunCmd(a *app) *cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the plink association battery for one phenotype",
		Long: `run executes, in order: the allelic chi-square test (--assoc),
Fisher's exact model comparison (--model --fisher) and logistic regression
under the additive, dominant, recessive and genotypic models. A test that
fails is reported and the battery moves on to the next one.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			config := a.config
			if err := config.ValidateRun(); err != nil {
				return err
			}
			if err := config.EnsureWorkDir(); err != nil {
				return err
			}

			r := config.Runner()
			outcomes, err := r.RunBattery(cmd.Context(), config.Inputs())
			if err != nil {
				return err
			}
			if err := plink.WriteSummary(cmd.OutOrStdout(), outcomes); err != nil {
				return err
			}
			if n := plink.Failed(outcomes); n > 0 {
				log.Warn(n, "of", len(outcomes), "tests failed for", config.PhenoName)
			}
			return nil
		},
	}

	runCmd.Flags().String("plink", "", "plink binary (default ./plink)")
	runCmd.Flags().StringP("geno", "g", "", "Genotype fileset prefix passed to --file")
	runCmd.Flags().StringP("pheno", "p", "", "Phenotype file")
	runCmd.Flags().String("covar", "", "Covariate file for the logistic models")
	runCmd.Flags().StringP("pheno-name", "n", "", "Phenotype column name")
	runCmd.Flags().Float64("ci", 0.95, "Confidence level for odds ratio intervals")
	return runCmd
}
