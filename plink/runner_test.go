package plink

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.dedis.ch/onet/v3/log"
)

// writeStub installs a fake plink in dir that appends its argv to calls.log
// and exits with the given code. failOn, when set, makes only invocations
// whose arguments contain that flag exit non-zero.
func writeStub(t *testing.T, dir string, code int, failOn string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("stub tool needs a POSIX shell")
	}

	script := fmt.Sprintf(`#!/bin/sh
echo "$@" >> %q
echo "stub stderr" 1>&2
for a in "$@"; do
	if [ -n %q ] && [ "$a" = %q ]; then exit 7; fi
done
exit %d
`, filepath.Join(dir, "calls.log"), failOn, failOn, code)

	path := filepath.Join(dir, "plink")
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func readCalls(t *testing.T, dir string) []string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join(dir, "calls.log"))
	require.NoError(t, err)
	return strings.Split(strings.TrimSpace(string(b)), "\n")
}

func TestRunSuccess(t *testing.T) {
	dir := t.TempDir()
	r := NewRunner(writeStub(t, dir, 0, ""), dir)
	ctx := context.Background()

	calls := []func(context.Context, Inputs) (bool, error){
		r.Assoc, r.Model, r.AdditiveLogistic, r.DominantLogistic, r.RecessiveLogistic, r.GenotypicLogistic,
	}
	for _, call := range calls {
		ok, err := call(ctx, testInputs)
		require.NoError(t, err)
		require.True(t, ok)
	}

	got := readCalls(t, dir)
	require.Len(t, got, len(Battery))
	for i, kind := range Battery {
		inv, err := NewInvocation(kind, testInputs, "")
		require.NoError(t, err)
		require.Equal(t, strings.Join(inv.Args, " "), got[i])
	}
}

func TestRunNonZeroExit(t *testing.T) {
	dir := t.TempDir()
	r := NewRunner(writeStub(t, dir, 2, ""), dir)

	for _, kind := range Battery {
		ok, err := r.Run(context.Background(), kind, testInputs)
		require.NoError(t, err)
		require.False(t, ok)
	}
}

func TestRunFailureLogsToStdout(t *testing.T) {
	dir := t.TempDir()
	r := NewRunner(writeStub(t, dir, 1, ""), dir)

	log.OutputToBuf()
	defer log.OutputToOs()

	ok, err := r.Model(context.Background(), testInputs)
	require.NoError(t, err)
	require.False(t, ok)
	stdout, stderr := log.GetStdOut(), log.GetStdErr()
	require.Contains(t, stdout, "Error executing PLINK command")
	require.Contains(t, stdout, "stub stderr")
	require.NotContains(t, stderr, "Error executing PLINK command")
}

func TestExecCapturesOutput(t *testing.T) {
	dir := t.TempDir()
	r := NewRunner(writeStub(t, dir, 3, ""), dir)

	inv, err := NewInvocation(Assoc, testInputs, "")
	require.NoError(t, err)

	res, err := r.Exec(context.Background(), inv)
	require.True(t, errors.Is(err, ErrToolFailed))
	require.Equal(t, 3, res.ExitCode)
	require.Equal(t, "stub stderr", string(bytes.TrimSpace(res.Stderr)))
}

func TestRunMissingBinary(t *testing.T) {
	dir := t.TempDir()
	r := NewRunner(filepath.Join(dir, "no-such-plink"), dir)

	ok, err := r.Assoc(context.Background(), testInputs)
	require.Error(t, err)
	require.False(t, errors.Is(err, ErrToolFailed))
	require.False(t, ok)
}

func TestRunBatteryContinuesAfterFailure(t *testing.T) {
	dir := t.TempDir()
	r := NewRunner(writeStub(t, dir, 0, "--fisher"), dir)

	outcomes, err := r.RunBattery(context.Background(), testInputs)
	require.NoError(t, err)
	require.Len(t, outcomes, len(Battery))
	require.Len(t, readCalls(t, dir), len(Battery))
	require.Equal(t, 1, Failed(outcomes))

	for i, oc := range outcomes {
		require.Equal(t, Battery[i], oc.Kind)
		require.Equal(t, oc.Kind != Model, oc.OK, oc.Kind)
	}

	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, outcomes))
	require.Contains(t, buf.String(), "MALES_2Control_MODEL")
	require.Contains(t, buf.String(), "FAILED")
}

func TestRunAllStopsWhenToolMissing(t *testing.T) {
	dir := t.TempDir()
	r := NewRunner(filepath.Join(dir, "missing"), dir)
	require.Error(t, r.RunAll(context.Background(), testInputs))
}
