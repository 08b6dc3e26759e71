package plink

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"go.dedis.ch/onet/v3/log"
)

const DefaultBinary = "./plink"

// ErrToolFailed marks a plink invocation that ran but exited non-zero.
var ErrToolFailed = errors.New("plink exited with non-zero status")

// Runner executes plink synchronously in WorkDir, where the tool drops its
// result files. A relative Binary is resolved against WorkDir.
type Runner struct {
	Binary  string
	WorkDir string
	CI      string
}

func NewRunner(binary, workDir string) *Runner {
	if binary == "" {
		binary = DefaultBinary
	}
	return &Runner{Binary: binary, WorkDir: workDir, CI: DefaultCI}
}

type Result struct {
	Invocation Invocation
	Stdout     []byte
	Stderr     []byte
	ExitCode   int
	Elapsed    time.Duration
}

// Exec runs one invocation and waits for it. A non-zero exit is returned as
// an error wrapping ErrToolFailed together with the captured output; any
// other error means the process could not be run at all.
func (r *Runner) Exec(ctx context.Context, inv Invocation) (*Result, error) {
	cmd := exec.CommandContext(ctx, r.Binary, inv.Args...)
	cmd.Dir = r.WorkDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	log.Lvl2("exec", r.Binary, inv.Args)
	start := time.Now()
	err := cmd.Run()
	res := &Result{
		Invocation: inv,
		Stdout:     stdout.Bytes(),
		Stderr:     stderr.Bytes(),
		Elapsed:    time.Since(start),
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		return res, fmt.Errorf("%w: %s (exit code %d)", ErrToolFailed, inv.Kind, res.ExitCode)
	}
	if err != nil {
		return nil, fmt.Errorf("running %s for %s: %w", r.Binary, inv.Kind, err)
	}
	return res, nil
}

// Run executes one test and reports whether plink succeeded. A non-zero
// exit is logged and reported as false; the error is reserved for failures
// to build or start the command.
func (r *Runner) Run(ctx context.Context, kind TestKind, in Inputs) (bool, error) {
	ok, _, err := r.run(ctx, kind, in)
	return ok, err
}

func (r *Runner) run(ctx context.Context, kind TestKind, in Inputs) (bool, *Result, error) {
	inv, err := NewInvocation(kind, in, r.CI)
	if err != nil {
		return false, nil, err
	}

	res, err := r.Exec(ctx, inv)
	if errors.Is(err, ErrToolFailed) {
		log.LLvl1("Error executing PLINK command:", err, string(bytes.TrimSpace(res.Stderr)))
		return false, res, nil
	}
	if err != nil {
		return false, nil, err
	}

	log.LLvl1("PLINK command for", kind.Description(), "has been executed successfully.")
	return true, res, nil
}

// Chi-square allelic test (--assoc).
func (r *Runner) Assoc(ctx context.Context, in Inputs) (bool, error) {
	return r.Run(ctx, Assoc, in)
}

// Fisher's exact test across the genotypic, dominant, recessive and trend
// models (--model --fisher).
func (r *Runner) Model(ctx context.Context, in Inputs) (bool, error) {
	return r.Run(ctx, Model, in)
}

// Allelic model: D versus d.
func (r *Runner) AdditiveLogistic(ctx context.Context, in Inputs) (bool, error) {
	return r.Run(ctx, Additive, in)
}

// Dominant model: (DD, Dd) versus dd.
func (r *Runner) DominantLogistic(ctx context.Context, in Inputs) (bool, error) {
	return r.Run(ctx, Dominant, in)
}

// Recessive model: DD versus (Dd, dd).
func (r *Runner) RecessiveLogistic(ctx context.Context, in Inputs) (bool, error) {
	return r.Run(ctx, Recessive, in)
}

// Genotypic model: DD versus Dd versus dd, a 2df test on the 2x3 table.
func (r *Runner) GenotypicLogistic(ctx context.Context, in Inputs) (bool, error) {
	return r.Run(ctx, Genotypic, in)
}
