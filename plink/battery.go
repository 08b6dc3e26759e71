package plink

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"go.dedis.ch/onet/v3/log"
)

type Outcome struct {
	Kind      TestKind
	OutPrefix string
	OK        bool
	Elapsed   time.Duration
}

// RunAll executes the whole battery for one phenotype in order. A test that
// exits non-zero does not stop the ones after it.
func (r *Runner) RunAll(ctx context.Context, in Inputs) error {
	_, err := r.RunBattery(ctx, in)
	return err
}

// RunBattery is RunAll with a per-test outcome. It stops early only when
// plink cannot be started at all.
func (r *Runner) RunBattery(ctx context.Context, in Inputs) ([]Outcome, error) {
	outcomes := make([]Outcome, 0, len(Battery))
	start := time.Now()
	for _, kind := range Battery {
		ok, res, err := r.run(ctx, kind, in)
		if err != nil {
			return outcomes, err
		}
		oc := Outcome{Kind: kind, OutPrefix: kind.OutPrefix(in.PhenoName), OK: ok}
		if res != nil {
			oc.Elapsed = res.Elapsed
		}
		outcomes = append(outcomes, oc)
	}
	log.LLvl1(time.Now().Format(time.StampMilli), "Battery for", in.PhenoName, "finished in", time.Since(start).String())
	return outcomes, nil
}

func Failed(outcomes []Outcome) int {
	n := 0
	for _, oc := range outcomes {
		if !oc.OK {
			n++
		}
	}
	return n
}

func WriteSummary(w io.Writer, outcomes []Outcome) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TEST\tOUT\tSTATUS\tTIME")
	for _, oc := range outcomes {
		status := "ok"
		if !oc.OK {
			status = "FAILED"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", oc.Kind, oc.OutPrefix, status, oc.Elapsed.Round(time.Millisecond))
	}
	return tw.Flush()
}
