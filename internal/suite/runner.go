package suite

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"slices"
	"strings"
	"time"
)

// Invocation is one input tuple produced by a data provider
type Invocation struct {
	// Name identifies the invocation in results, e.g. "len=50"
	Name string
	Args any
}

// Provider returns the invocations of a case. It is called when the case is scheduled,
// after all lower-priority cases have run.
type Provider func(sc *Context) []Invocation

// Case is one named verification step of the suite
type Case struct {
	Name      string
	Priority  int
	DependsOn []string

	// Provider is optional; a case without one runs once with nil Args
	Provider Provider

	Run func(t *T, sc *Context, args any)
}

// Status is the outcome of a case invocation
type Status string

const (
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// Result is the outcome of one invocation
type Result struct {
	Case       string
	Invocation string
	Status     Status

	// Reason explains a skip
	Reason   string
	Failures []string
	Steps    []string
	Duration time.Duration
}

// Name returns the case name, followed by the invocation name when there is one
func (r Result) Name() string {
	if r.Invocation == "" {
		return r.Case
	}
	return r.Case + "/" + r.Invocation
}

// Runner executes cases sequentially in priority order
type Runner struct {
	cases  []Case
	logger *slog.Logger
}

// NewRunner orders the cases by ascending priority, keeping declaration order for equal
// priorities. Case names must be unique and every dependency must be scheduled before the
// case that depends on it.
func NewRunner(cases []Case, logger *slog.Logger) (*Runner, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	ordered := slices.Clone(cases)
	slices.SortStableFunc(ordered, func(a, b Case) int {
		return a.Priority - b.Priority
	})

	seen := make(map[string]bool, len(ordered))
	for _, c := range ordered {
		if c.Name == "" {
			return nil, fmt.Errorf("case with priority %d has no name", c.Priority)
		}
		if c.Run == nil {
			return nil, fmt.Errorf("case %q has no run function", c.Name)
		}
		if seen[c.Name] {
			return nil, fmt.Errorf("duplicate case name %q", c.Name)
		}
		for _, dep := range c.DependsOn {
			if !seen[dep] {
				return nil, fmt.Errorf("case %q depends on %q which is not scheduled before it", c.Name, dep)
			}
		}
		seen[c.Name] = true
	}

	return &Runner{cases: ordered, logger: logger}, nil
}

// Cases returns the cases in execution order
func (r *Runner) Cases() []Case {
	return slices.Clone(r.cases)
}

// Select returns a runner restricted to the named cases and everything they depend on
func (r *Runner) Select(names ...string) (*Runner, error) {
	byName := make(map[string]Case, len(r.cases))
	for _, c := range r.cases {
		byName[c.Name] = c
	}

	keep := make(map[string]bool)
	var visit func(name string) error
	visit = func(name string) error {
		c, ok := byName[name]
		if !ok {
			return fmt.Errorf("unknown case %q", name)
		}
		if keep[name] {
			return nil
		}
		keep[name] = true
		for _, dep := range c.DependsOn {
			if err := visit(dep); err != nil {
				return err
			}
		}
		return nil
	}
	for _, name := range names {
		if err := visit(name); err != nil {
			return nil, err
		}
	}

	selected := make([]Case, 0, len(keep))
	for _, c := range r.cases {
		if keep[c.Name] {
			selected = append(selected, c)
		}
	}
	return &Runner{cases: selected, logger: r.logger}, nil
}

// Run executes every case and returns the report. onResult, when not nil, is called after
// each invocation in execution order.
func (r *Runner) Run(ctx context.Context, sc *Context, onResult func(Result)) *Report {
	report := &Report{RunID: sc.RunID, Started: time.Now()}
	passed := make(map[string]bool, len(r.cases))

	record := func(res Result) {
		report.Results = append(report.Results, res)
		if onResult != nil {
			onResult(res)
		}
	}

	for _, c := range r.cases {
		if err := ctx.Err(); err != nil {
			record(Result{Case: c.Name, Status: StatusSkipped, Reason: "run cancelled: " + err.Error()})
			continue
		}

		if unmet := unmetDependencies(c, passed); len(unmet) > 0 {
			reason := fmt.Sprintf("depends on %s which did not pass", strings.Join(unmet, ", "))
			r.logger.Info("case skipped", slog.String("case", c.Name), slog.String("reason", reason))
			record(Result{Case: c.Name, Status: StatusSkipped, Reason: reason})
			continue
		}

		invocations := []Invocation{{}}
		if c.Provider != nil {
			invocations = c.Provider(sc)
		}
		if len(invocations) == 0 {
			record(Result{Case: c.Name, Status: StatusSkipped, Reason: "data provider returned no invocations"})
			continue
		}

		allPassed := true
		for _, inv := range invocations {
			res := r.invoke(ctx, sc, c, inv)
			if res.Status != StatusPassed {
				allPassed = false
			}
			record(res)
		}
		passed[c.Name] = allPassed
	}

	report.Duration = time.Since(report.Started)
	return report
}

func unmetDependencies(c Case, passed map[string]bool) []string {
	var unmet []string
	for _, dep := range c.DependsOn {
		if !passed[dep] {
			unmet = append(unmet, dep)
		}
	}
	return unmet
}

func (r *Runner) invoke(ctx context.Context, sc *Context, c Case, inv Invocation) Result {
	t := newT(ctx, c.Name, inv.Name, r.logger)
	start := time.Now()

	func() {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if _, ok := rec.(failNow); ok {
				return
			}
			t.Errorf("panic: %v\n%s", rec, debug.Stack())
		}()
		c.Run(t, sc, inv.Args)
	}()

	res := Result{
		Case:       c.Name,
		Invocation: inv.Name,
		Status:     StatusPassed,
		Failures:   t.failures,
		Steps:      t.steps,
		Duration:   time.Since(start),
	}
	if t.Failed() {
		res.Status = StatusFailed
	}

	r.logger.Info("case finished",
		slog.String("case", c.Name),
		slog.String("invocation", inv.Name),
		slog.String("status", string(res.Status)),
		slog.Duration("duration", res.Duration),
	)
	return res
}
