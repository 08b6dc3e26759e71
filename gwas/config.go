package gwas

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/hhcho/sell-assoc/forest"
	"github.com/hhcho/sell-assoc/plink"
)

type Config struct {
	PlinkBinary string `toml:"plink_binary"`
	WorkDir     string `toml:"work_dir"`

	GenoFilePrefix string  `toml:"geno_file_prefix"`
	PhenoFile      string  `toml:"pheno_file"`
	CovFile        string  `toml:"covar_file"`
	PhenoName      string  `toml:"pheno_name"`
	CI             float64 `toml:"ci"`

	ResultPrefix   string   `toml:"result_prefix"`
	Models         []string `toml:"models"`
	AdjustedColumn string   `toml:"adjusted_column"`
	PlotXMin       float64  `toml:"plot_xmin"`
	PlotXMax       float64  `toml:"plot_xmax"`
	PlotOutput     string   `toml:"plot_output"`
	MergedOutput   string   `toml:"merged_output"`

	MemoryLimit uint64 `toml:"memory_limit"`

	Debug bool `toml:"debug"`
}

// Logistic models whose --adjust output the visualizer can merge.
var LogisticModels = []string{"ADDITIVE", "DOMINANT", "RECESSIVE", "GENOTYPIC"}

func DefaultConfig() *Config {
	return &Config{
		PlinkBinary:    plink.DefaultBinary,
		WorkDir:        ".",
		CI:             0.95,
		ResultPrefix:   "MALES_2",
		Models:         append([]string(nil), LogisticModels...),
		AdjustedColumn: forest.DefaultAdjustedColumn,
		PlotXMin:       forest.DefaultXMin,
		PlotXMax:       forest.DefaultXMax,
		PlotOutput:     "%s_forest.html",
		MergedOutput:   "%s_merged.tsv",
	}
}

// LoadConfig decodes filename on top of DefaultConfig, so keys absent from
// the file keep their defaults. An empty filename yields the defaults.
func LoadConfig(filename string) (*Config, error) {
	config := DefaultConfig()
	if filename == "" {
		return config, nil
	}
	if _, err := toml.DecodeFile(filename, config); err != nil {
		return nil, fmt.Errorf("config %s: %w", filename, err)
	}
	return config, nil
}

func (c *Config) Validate() error {
	if c.CI <= 0 || c.CI >= 1 {
		return fmt.Errorf("ci must be in (0, 1), got %v", c.CI)
	}
	for _, m := range c.Models {
		if m == "" {
			return fmt.Errorf("empty model name in models")
		}
	}
	if err := checkOutputPattern("plot_output", c.PlotOutput); err != nil {
		return err
	}
	return checkOutputPattern("merged_output", c.MergedOutput)
}

// checkOutputPattern requires exactly one %s, which receives the model name,
// and no other formatting verb.
func checkOutputPattern(key, pattern string) error {
	if strings.Count(pattern, "%s") != 1 {
		return fmt.Errorf("%s must contain exactly one %%s for the model name, got %q", key, pattern)
	}
	if strings.Count(pattern, "%") != 1 {
		return fmt.Errorf("%s may not contain formatting verbs other than %%s, got %q", key, pattern)
	}
	return nil
}

// ValidateRun checks the inputs the association battery needs.
func (c *Config) ValidateRun() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.GenoFilePrefix == "" || c.PhenoFile == "" || c.PhenoName == "" {
		return fmt.Errorf("geno_file_prefix, pheno_file and pheno_name are required")
	}
	return nil
}

func (c *Config) Inputs() plink.Inputs {
	return plink.Inputs{
		GenoFile:  c.GenoFilePrefix,
		PhenoFile: c.PhenoFile,
		CovarFile: c.CovFile,
		PhenoName: c.PhenoName,
	}
}

func (c *Config) Runner() *plink.Runner {
	r := plink.NewRunner(c.PlinkBinary, c.WorkDir)
	r.CI = strconv.FormatFloat(c.CI, 'f', -1, 64)
	return r
}

func (c *Config) PlotOptions() forest.Options {
	return forest.Options{
		AdjustedColumn: c.AdjustedColumn,
		XMin:           c.PlotXMin,
		XMax:           c.PlotXMax,
	}
}

// OutFile places a per-model output name, built from pattern, in WorkDir.
func (c *Config) OutFile(pattern, model string) string {
	return filepath.Join(c.WorkDir, fmt.Sprintf(pattern, model))
}

func (c *Config) EnsureWorkDir() error {
	return os.MkdirAll(c.WorkDir, 0755)
}
