package pipeline

import (
	"fmt"
	"io"

	"ktbridge/internal/bridge"
)

// Report collects the results of a run in input order.
type Report struct {
	Results []Result
}

func (r *Report) Counts() (converted, skipped, failed, warnings int) {
	for _, res := range r.Results {
		switch {
		case res.Skipped:
			skipped++
		case res.Failed():
			failed++
		default:
			converted++
		}
		for _, m := range res.Messages {
			if m.Severity == bridge.SeverityWarning {
				warnings++
			}
		}
	}
	return
}

// Failures returns the failed results.
func (r *Report) Failures() []Result {
	var out []Result
	for _, res := range r.Results {
		if res.Failed() {
			out = append(out, res)
		}
	}
	return out
}

// Write prints a human-readable summary: one line per failure or warning,
// then the totals.
func (r *Report) Write(w io.Writer) {
	for _, res := range r.Results {
		if res.Failed() {
			fmt.Fprintf(w, "FAIL %s: %v\n", res.Unit.Dump, res.Err)
		}
		for _, m := range res.Messages {
			if m.Severity == bridge.SeverityWarning {
				fmt.Fprintf(w, "WARN %s: %s\n", res.Unit.Dump, m)
			}
		}
	}
	converted, skipped, failed, warnings := r.Counts()
	fmt.Fprintf(w, "%d converted, %d unchanged, %d failed, %d warnings\n", converted, skipped, failed, warnings)
}
