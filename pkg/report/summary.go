package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"digital.vasic.doubles/pkg/assertion"
	"digital.vasic.doubles/pkg/metrics"
)

// Summary aggregates a list of assertion results.
type Summary struct {
	ID          string                    `json:"id"`
	GeneratedAt time.Time                 `json:"generated_at"`
	Total       int                       `json:"total"`
	Passed      int                       `json:"passed"`
	Failed      int                       `json:"failed"`
	PassRate    float64                   `json:"pass_rate"`
	ByAssertion map[string]AssertionStats `json:"by_assertion"`
	Metrics     *metrics.Snapshot         `json:"metrics,omitempty"`
	Results     []assertion.Result        `json:"results"`
}

// AssertionStats counts the outcomes of one assertion name.
type AssertionStats struct {
	Passed int `json:"passed"`
	Failed int `json:"failed"`
}

// BuildSummary creates a summary of results.
func BuildSummary(results []assertion.Result) *Summary {
	now := time.Now()
	summary := &Summary{
		ID:          fmt.Sprintf("summary_%s", now.Format("20060102_150405")),
		GeneratedAt: now,
		ByAssertion: make(map[string]AssertionStats),
		Results:     results,
	}

	for _, r := range results {
		stats := summary.ByAssertion[r.Type]
		if r.Passed {
			summary.Passed++
			stats.Passed++
		} else {
			summary.Failed++
			stats.Failed++
		}
		summary.ByAssertion[r.Type] = stats
	}

	summary.Total = len(results)
	if summary.Total > 0 {
		summary.PassRate = float64(summary.Passed) / float64(summary.Total)
	}
	return summary
}

// WithMetrics attaches a counter snapshot to the summary.
func (s *Summary) WithMetrics(snapshot metrics.Snapshot) *Summary {
	s.Metrics = &snapshot
	return s
}

// SaveSummary saves the summary to both JSON and Markdown files
// in outputDir and points latest_summary.* at them.
func SaveSummary(summary *Summary, outputDir string) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	ts := summary.GeneratedAt.Format("20060102_150405")

	jsonPath := filepath.Join(outputDir, fmt.Sprintf("summary_%s.json", ts))
	jsonData, err := jsonMarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}
	if err := os.WriteFile(jsonPath, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write JSON summary: %w", err)
	}

	mdPath := filepath.Join(outputDir, fmt.Sprintf("summary_%s.md", ts))
	if err := os.WriteFile(mdPath, []byte(summaryMarkdown(summary)), 0644); err != nil {
		return fmt.Errorf("failed to write Markdown summary: %w", err)
	}

	latestJSON := filepath.Join(outputDir, "latest_summary.json")
	latestMD := filepath.Join(outputDir, "latest_summary.md")

	_ = os.Remove(latestJSON)
	_ = os.Remove(latestMD)
	_ = os.Symlink(filepath.Base(jsonPath), latestJSON)
	_ = os.Symlink(filepath.Base(mdPath), latestMD)

	return nil
}

func summaryMarkdown(summary *Summary) string {
	var sb strings.Builder

	sb.WriteString("# Assertion Summary\n\n")
	sb.WriteString(fmt.Sprintf("**Summary ID:** %s\n\n", summary.ID))
	sb.WriteString(fmt.Sprintf(
		"**Generated:** %s\n\n", summary.GeneratedAt.Format(time.RFC3339),
	))

	sb.WriteString("## Assertions\n\n")
	sb.WriteString("| Assertion | Passed | Failed |\n")
	sb.WriteString("|-----------|--------|--------|\n")

	names := make([]string, 0, len(summary.ByAssertion))
	for name := range summary.ByAssertion {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		stats := summary.ByAssertion[name]
		sb.WriteString(fmt.Sprintf("| %s | %d | %d |\n", name, stats.Passed, stats.Failed))
	}

	if summary.Failed > 0 {
		sb.WriteString("\n## Failures\n\n")
		for _, r := range summary.Results {
			if r.Passed {
				continue
			}
			sb.WriteString(fmt.Sprintf("### %s on %s\n\n", r.Type, r.Target))
			sb.WriteString("```\n" + r.Message + "\n```\n\n")
		}
	}

	sb.WriteString("\n## Statistics\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Total | %d |\n", summary.Total))
	sb.WriteString(fmt.Sprintf("| Passed | %d |\n", summary.Passed))
	sb.WriteString(fmt.Sprintf("| Failed | %d |\n", summary.Failed))
	sb.WriteString(fmt.Sprintf("| Pass Rate | %.0f%% |\n", summary.PassRate*100))
	if summary.Metrics != nil {
		sb.WriteString(fmt.Sprintf("| Invocations | %d |\n", total(summary.Metrics.Invocations)))
		sb.WriteString(fmt.Sprintf("| Panics | %d |\n", total(summary.Metrics.Panics)))
	}

	return sb.String()
}

func total(counts map[string]int) int {
	n := 0
	for _, c := range counts {
		n += c
	}
	return n
}
