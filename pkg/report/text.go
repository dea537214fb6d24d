package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"digital.vasic.doubles/pkg/assertion"
	"digital.vasic.doubles/pkg/spy"
)

// TextReporter renders reports as aligned plain-text tables.
// Column widths are measured in terminal cells, so wide runes
// in spy names and arguments stay aligned.
type TextReporter struct {
	// MaxWidth truncates cells wider than this many cells. Zero
	// disables truncation.
	MaxWidth int
}

// NewTextReporter creates a TextReporter truncating cells at
// maxWidth.
func NewTextReporter(maxWidth int) *TextReporter {
	return &TextReporter{MaxWidth: maxWidth}
}

// GenerateReport renders one row per result followed by a
// totals line. Only the first line of a message is shown.
func (r *TextReporter) GenerateReport(results []assertion.Result) ([]byte, error) {
	rows := [][]string{{"STATUS", "ASSERTION", "TARGET", "MESSAGE"}}
	for _, res := range results {
		status := "PASS"
		if !res.Passed {
			status = "FAIL"
		}
		message, _, _ := strings.Cut(res.Message, "\n")
		rows = append(rows, []string{status, res.Type, res.Target, message})
	}

	var sb strings.Builder
	r.table(&sb, rows)

	summary := BuildSummary(results)
	fmt.Fprintf(&sb, "\n%d passed, %d failed, %d total\n",
		summary.Passed, summary.Failed, summary.Total)
	return []byte(sb.String()), nil
}

// GenerateSpyReport renders one row per recorded call.
func (r *TextReporter) GenerateSpyReport(recorders ...spy.Recorder) ([]byte, error) {
	rows := [][]string{{"SPY", "#", "ORDINAL", "CALL", "OUTCOME"}}
	for _, entry := range BuildSpyEntries(recorders...) {
		if len(entry.Calls) == 0 {
			rows = append(rows, []string{entry.Name, "-", "-", "(never called)", ""})
			continue
		}
		for _, c := range entry.Calls {
			rows = append(rows, []string{
				entry.Name,
				fmt.Sprint(c.Index),
				fmt.Sprint(c.ID),
				c.Call,
				outcome(c),
			})
		}
	}

	var sb strings.Builder
	r.table(&sb, rows)
	return []byte(sb.String()), nil
}

func outcome(c CallEntry) string {
	switch {
	case c.Pending:
		return "pending"
	case c.Panicked:
		return "panic: " + c.Panic
	case c.Returns != "":
		return "=> " + c.Returns
	}
	return ""
}

// WriteReport writes a text report to the specified writer.
func (r *TextReporter) WriteReport(w io.Writer, results []assertion.Result) error {
	data, err := r.GenerateReport(results)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func (r *TextReporter) table(sb *strings.Builder, rows [][]string) {
	if len(rows) == 0 {
		return
	}

	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i := range row {
			row[i] = r.truncate(row[i])
			if w := runewidth.StringWidth(row[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}

	for _, row := range rows {
		var line strings.Builder
		for i, cell := range row {
			if i > 0 {
				line.WriteString("  ")
			}
			if i == len(row)-1 {
				line.WriteString(cell)
				continue
			}
			line.WriteString(runewidth.FillRight(cell, widths[i]))
		}
		sb.WriteString(strings.TrimRight(line.String(), " "))
		sb.WriteByte('\n')
	}
}

func (r *TextReporter) truncate(s string) string {
	if r.MaxWidth <= 0 || runewidth.StringWidth(s) <= r.MaxWidth {
		return s
	}
	return runewidth.Truncate(s, r.MaxWidth, "...")
}
