package suite

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// failNow is the panic value used by T.FailNow to stop the current invocation
type failNow struct{}

// T is handed to a case invocation. It satisfies testify's assert.TestingT and
// require.TestingT so assertions can be used exactly as in a go test.
type T struct {
	ctx        context.Context
	caseName   string
	invocation string
	logger     *slog.Logger

	failures []string
	steps    []string
}

func newT(ctx context.Context, caseName, invocation string, logger *slog.Logger) *T {
	return &T{
		ctx:        ctx,
		caseName:   caseName,
		invocation: invocation,
		logger:     logger.With(slog.String("case", caseName), slog.String("invocation", invocation)),
	}
}

// Context returns the suite context.Context; it is cancelled when the run is interrupted
func (t *T) Context() context.Context { return t.ctx }

// Name returns the case name, followed by the invocation name when there is one
func (t *T) Name() string {
	if t.invocation == "" {
		return t.caseName
	}
	return t.caseName + "/" + t.invocation
}

// Helper is a no-op; it lets testify trim its own frames from failure traces
func (t *T) Helper() {}

// Errorf records a failure and lets the invocation continue
func (t *T) Errorf(format string, args ...any) {
	msg := strings.TrimSpace(fmt.Sprintf(format, args...))
	t.failures = append(t.failures, msg)
	t.logger.Warn("assertion failed", slog.String("message", msg))
}

// FailNow stops the invocation. It must be called from the goroutine running the case.
func (t *T) FailNow() {
	panic(failNow{})
}

// Fatalf records a failure and stops the invocation
func (t *T) Fatalf(format string, args ...any) {
	t.Errorf(format, args...)
	t.FailNow()
}

// Failed reports whether the invocation has recorded a failure
func (t *T) Failed() bool { return len(t.failures) > 0 }

// Step records a human readable step of the case
func (t *T) Step(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	t.steps = append(t.steps, msg)
	t.logger.Info(msg)
}
