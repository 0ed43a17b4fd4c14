package suite

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"
)

// Report is the outcome of a suite run
type Report struct {
	RunID    string
	Started  time.Time
	Duration time.Duration
	Results  []Result
}

func (r *Report) count(s Status) int {
	n := 0
	for _, res := range r.Results {
		if res.Status == s {
			n++
		}
	}
	return n
}

func (r *Report) Passed() int  { return r.count(StatusPassed) }
func (r *Report) Failed() int  { return r.count(StatusFailed) }
func (r *Report) Skipped() int { return r.count(StatusSkipped) }

// OK reports whether no invocation failed or was skipped
func (r *Report) OK() bool {
	return r.Failed() == 0 && r.Skipped() == 0
}

// Result returns the first result for the named case ("case" or "case/invocation")
func (r *Report) Result(name string) (Result, bool) {
	for _, res := range r.Results {
		if res.Name() == name || res.Case == name {
			return res, true
		}
	}
	return Result{}, false
}

// WriteText writes a summary table followed by the details of failed and skipped invocations
func (r *Report) WriteText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CASE\tSTATUS\tDURATION")
	for _, res := range r.Results {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", res.Name(), res.Status, res.Duration.Round(time.Millisecond))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, res := range r.Results {
		switch res.Status {
		case StatusSkipped:
			fmt.Fprintf(w, "\n--- SKIP: %s\n    %s\n", res.Name(), res.Reason)
		case StatusFailed:
			fmt.Fprintf(w, "\n--- FAIL: %s\n", res.Name())
			for _, step := range res.Steps {
				fmt.Fprintf(w, "    step: %s\n", step)
			}
			for _, f := range res.Failures {
				fmt.Fprintf(w, "    %s\n", strings.ReplaceAll(f, "\n", "\n    "))
			}
		}
	}

	_, err := fmt.Fprintf(w, "\nrun %s: %d passed, %d failed, %d skipped in %s\n",
		r.RunID, r.Passed(), r.Failed(), r.Skipped(), r.Duration.Round(time.Millisecond))
	return err
}
