package report

import (
	"io"

	"digital.vasic.doubles/pkg/assertion"
	"digital.vasic.doubles/pkg/spy"
)

// JSONReporter generates JSON reports.
type JSONReporter struct {
	pretty bool
}

// NewJSONReporter creates a new JSON reporter. When pretty is
// true, output is indented for readability.
func NewJSONReporter(pretty bool) *JSONReporter {
	return &JSONReporter{pretty: pretty}
}

func (r *JSONReporter) marshal(v any) ([]byte, error) {
	if r.pretty {
		return jsonMarshalIndent(v, "", "  ")
	}
	return jsonMarshal(v)
}

// GenerateReport creates a JSON summary of results.
func (r *JSONReporter) GenerateReport(results []assertion.Result) ([]byte, error) {
	return r.marshal(BuildSummary(results))
}

// GenerateSpyReport creates a JSON array of spy histories.
func (r *JSONReporter) GenerateSpyReport(recorders ...spy.Recorder) ([]byte, error) {
	return r.marshal(BuildSpyEntries(recorders...))
}

// WriteReport writes a JSON report to the specified writer.
func (r *JSONReporter) WriteReport(w io.Writer, results []assertion.Result) error {
	data, err := r.GenerateReport(results)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
