package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hhcho/sell-assoc/assoc"
	"github.com/hhcho/sell-assoc/gwas"
)

// fakePlink writes a one-SNP logistic table and its --adjust companion for
// every logistic invocation, into the directory it is run from.
const fakePlink = `#!/bin/sh
out=""
logistic=""
while [ $# -gt 0 ]; do
	case "$1" in
	--out) out="$2"; shift ;;
	--logistic) logistic=1 ;;
	esac
	shift
done
echo "$out" >> calls.log
if [ -n "$logistic" ]; then
	printf ' CHR SNP BP A1 TEST NMISS OR L95 U95 STAT P\n 1 rs2229058 169690000 T ADD 512 1.52 1.081 2.137 2.408 0.01604\n' > "$out.assoc.logistic"
	printf ' CHR SNP UNADJ GC BONF HOLM SIDAK_SS SIDAK_SD FDR_BH FDR_BY\n 1 rs2229058 0.01604 0.01604 0.03208 0.03208 0.03182 0.03182 0.03208 0.04812\n' > "$out.assoc.logistic.adjusted"
fi
exit 0
`

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var buf bytes.Buffer
	root := newRootCmd()
	root.SetOut(&buf)
	root.SetArgs(args)
	require.NoError(t, root.Execute())
	return buf.String()
}

func TestPipeline(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("fake plink needs a POSIX shell")
	}
	dir := t.TempDir()
	bin := filepath.Join(dir, "plink")
	require.NoError(t, os.WriteFile(bin, []byte(fakePlink), 0o755))

	execute(t, "run", "-w", dir, "--plink", bin,
		"--geno", "SELL", "--pheno", "pheno.txt", "--covar", "covar.txt", "--pheno-name", "MALES_2")

	calls, err := os.ReadFile(filepath.Join(dir, "calls.log"))
	require.NoError(t, err)
	require.Equal(t, []string{
		"MALES_2Control_ASSSOC",
		"MALES_2Control_MODEL",
		"MALES_2Control_AGE_ADDITIVE",
		"MALES_2Control_AGE_DOMINANT",
		"MALES_2control_AGE_RECESSIVE",
		"MALES_2control_AGE_GENOTYPIC",
	}, strings.Split(strings.TrimSpace(string(calls)), "\n"))

	execute(t, "plot", "-w", dir, "--prefix", "MALES_2")
	for _, model := range []string{"ADDITIVE", "DOMINANT", "RECESSIVE", "GENOTYPIC"} {
		html, err := os.ReadFile(filepath.Join(dir, model+"_forest.html"))
		require.NoError(t, err, model)
		require.Contains(t, string(html), model+" MODEL")
		require.Contains(t, string(html), "p_adj=0.03")
	}

	execute(t, "merge", "-w", dir, "--prefix", "MALES_2", "--model", "RECESSIVE")
	merged, err := assoc.ReadTableFile(filepath.Join(dir, "RECESSIVE_merged.tsv"))
	require.NoError(t, err)
	require.Equal(t, 1, merged.NumRows())
	require.Equal(t, "0.03208", merged.Get(0, "FDR_BH"))
}

func TestFlagsDoNotLeakBetweenExecutions(t *testing.T) {
	first, second := t.TempDir(), t.TempDir()

	execute(t, "merge", "-w", first, "--model", "ADDITIVE")
	execute(t, "merge", "-w", second)

	for _, model := range []string{"ADDITIVE", "DOMINANT", "RECESSIVE", "GENOTYPIC"} {
		_, err := os.Stat(filepath.Join(second, model+"_merged.tsv"))
		require.NoError(t, err, model)
	}
	_, err := os.Stat(filepath.Join(first, "DOMINANT_merged.tsv"))
	require.True(t, os.IsNotExist(err))
}

func TestMergeWithMemoryLimit(t *testing.T) {
	dir := t.TempDir()
	config := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(config, []byte(`
work_dir = "`+dir+`"
models = ["ADDITIVE"]
memory_limit = 1073741824
`), 0o644))

	execute(t, "merge", "-c", config)
	_, err := os.Stat(filepath.Join(dir, "ADDITIVE_merged.tsv"))
	require.NoError(t, err)
}

func TestStartWatchdog(t *testing.T) {
	cfg, err := gwas.LoadConfig("")
	require.NoError(t, err)

	stop, running := startWatchdog(cfg)
	require.False(t, running)
	stop()

	cfg.MemoryLimit = 1 << 30
	stop, running = startWatchdog(cfg)
	require.True(t, running)
	stop()
}

func TestVersion(t *testing.T) {
	require.Contains(t, execute(t, "version"), "sell-assoc dev")
}
