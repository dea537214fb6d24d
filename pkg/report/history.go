package report

import (
	"fmt"
	"os"
	"time"
)

// HistoricalEntry represents one test run in the history log.
type HistoricalEntry struct {
	Timestamp   time.Time `json:"timestamp"`
	SummaryID   string    `json:"summary_id"`
	Total       int       `json:"total"`
	Passed      int       `json:"passed"`
	Failed      int       `json:"failed"`
	Invocations int       `json:"invocations,omitempty"`
	ResultsPath string    `json:"results_path,omitempty"`
}

// AppendToHistory adds an entry for summary to the history log
// stored at historyPath. Each entry is a single JSON line.
func AppendToHistory(historyPath string, summary *Summary, resultsPath string) error {
	entry := HistoricalEntry{
		Timestamp:   summary.GeneratedAt,
		SummaryID:   summary.ID,
		Total:       summary.Total,
		Passed:      summary.Passed,
		Failed:      summary.Failed,
		ResultsPath: resultsPath,
	}
	if summary.Metrics != nil {
		entry.Invocations = total(summary.Metrics.Invocations)
	}

	data, err := jsonMarshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal history entry: %w", err)
	}

	file, err := os.OpenFile(historyPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open history file: %w", err)
	}
	defer func() { _ = file.Close() }()

	_, err = fmt.Fprintln(file, string(data))
	return err
}
