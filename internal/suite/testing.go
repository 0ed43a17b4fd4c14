package suite

import (
	"testing"
)

// RunTesting runs the suite inside a go test. Each invocation becomes a subtest named
// after the case and invocation; skipped invocations call t.Skip and failures call t.Error.
func RunTesting(t *testing.T, s *Suite) *Report {
	t.Helper()

	report, err := s.Run(t.Context(), func(res Result) {
		t.Run(res.Name(), func(t *testing.T) {
			for _, step := range res.Steps {
				t.Log(step)
			}
			switch res.Status {
			case StatusSkipped:
				t.Skip(res.Reason)
			case StatusFailed:
				for _, f := range res.Failures {
					t.Error(f)
				}
			}
		})
	})
	if err != nil {
		t.Error(err)
	}
	return report
}
