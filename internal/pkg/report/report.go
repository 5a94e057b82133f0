package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"seoaudit/internal/pkg/models"
)

// Report is the final outcome of one audit run: every check result in
// order plus the aggregate counters.
type Report struct {
	GeneratedAt time.Time            `json:"generated_at"`
	Duration    time.Duration        `json:"-"`
	DurationMS  int64                `json:"duration_ms"`
	Total       int                  `json:"total"`
	Failed      int                  `json:"failed"`
	Results     []models.CheckResult `json:"results"`
}

// Builds a report from ordered check results
func Build(results []models.CheckResult, started time.Time) *Report {
	failed := 0
	for _, res := range results {
		if !res.OK {
			failed++
		}
	}
	elapsed := time.Since(started)
	return &Report{
		GeneratedAt: time.Now().UTC(),
		Duration:    elapsed,
		DurationMS:  elapsed.Milliseconds(),
		Total:       len(results),
		Failed:      failed,
		Results:     results,
	}
}

// Writes the human-readable report: one line per check, a blank line,
// then the totals.
func (r *Report) Render(w io.Writer) error {
	for _, res := range r.Results {
		status := "PASS"
		if !res.OK {
			status = "FAIL"
		}
		if _, err := fmt.Fprintf(w, "[%s] %s — %s\n", status, res.Name, res.Details); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "\nTotal checks: %d | Failed: %d\n", r.Total, r.Failed)
	return err
}

// Writes the machine-readable report artifact
func (r *Report) WriteJSON(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Returns true if no check failed
func (r *Report) Passed() bool {
	return r.Failed == 0
}
