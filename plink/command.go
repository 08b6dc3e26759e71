package plink

import "fmt"

// TestKind names one of the association tests run against a phenotype.
type TestKind string

const (
	Assoc     TestKind = "assoc"
	Model     TestKind = "model"
	Additive  TestKind = "additive"
	Dominant  TestKind = "dominant"
	Recessive TestKind = "recessive"
	Genotypic TestKind = "genotypic"
)

// Battery is the fixed order in which RunAll executes the tests.
var Battery = []TestKind{Assoc, Model, Additive, Dominant, Recessive, Genotypic}

const DefaultCI = "0.95"

// Inputs are the files and phenotype shared by every test in the battery.
// CovarFile may be empty, in which case --covar is omitted.
type Inputs struct {
	GenoFile  string
	PhenoFile string
	CovarFile string
	PhenoName string
}

type Invocation struct {
	Kind      TestKind
	Args      []string
	OutPrefix string
}

type testDef struct {
	outTag      string
	logistic    bool
	ci          bool
	flags       []string
	description string
}

// The out tags keep the casing the result files have always been written
// with: recessive and genotypic use a lower-case "control".
var testDefs = map[TestKind]testDef{
	Assoc: {
		outTag:      "Control_ASSSOC",
		ci:          true,
		flags:       []string{"--assoc"},
		description: "chi-square allelic test",
	},
	Model: {
		outTag:      "Control_MODEL",
		flags:       []string{"--model", "--fisher"},
		description: "association analysis using Fisher's exact test",
	},
	Additive: {
		outTag:      "Control_AGE_ADDITIVE",
		logistic:    true,
		ci:          true,
		description: "logistic regression, assuming additive model,",
	},
	Dominant: {
		outTag:      "Control_AGE_DOMINANT",
		logistic:    true,
		ci:          true,
		flags:       []string{"--dominant"},
		description: "logistic regression, assuming dominant model,",
	},
	Recessive: {
		outTag:      "control_AGE_RECESSIVE",
		logistic:    true,
		ci:          true,
		flags:       []string{"--recessive"},
		description: "logistic regression, assuming recessive model,",
	},
	Genotypic: {
		outTag:      "control_AGE_GENOTYPIC",
		logistic:    true,
		flags:       []string{"--genotypic"},
		description: "logistic regression, assuming genotypic model,",
	},
}

func (k TestKind) Valid() bool {
	_, ok := testDefs[k]
	return ok
}

func (k TestKind) Description() string {
	return testDefs[k].description
}

// OutPrefix is the --out argument for phenoName, which plink extends with
// its own suffixes (.assoc, .model, .assoc.logistic, .assoc.logistic.adjusted).
func (k TestKind) OutPrefix(phenoName string) string {
	return phenoName + testDefs[k].outTag
}

// NewInvocation builds the argument list for one test. An empty ci falls
// back to DefaultCI.
func NewInvocation(kind TestKind, in Inputs, ci string) (Invocation, error) {
	def, ok := testDefs[kind]
	if !ok {
		return Invocation{}, fmt.Errorf("unknown test %q", kind)
	}
	if ci == "" {
		ci = DefaultCI
	}

	args := []string{
		"--allow-no-sex",
		"--file", in.GenoFile,
		"--pheno", in.PhenoFile,
		"--pheno-name", in.PhenoName,
	}
	if def.logistic {
		args = append(args, "--logistic")
		if in.CovarFile != "" {
			args = append(args, "--covar", in.CovarFile)
		}
		args = append(args, "--hide-covar")
	}
	if def.ci {
		args = append(args, "--ci", ci)
	}
	args = append(args, def.flags...)
	if def.logistic {
		args = append(args, "--adjust")
	}

	out := kind.OutPrefix(in.PhenoName)
	args = append(args, "--out", out)

	return Invocation{Kind: kind, Args: args, OutPrefix: out}, nil
}
