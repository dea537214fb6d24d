// Package report renders assertion results and spy histories
// as JSON documents and aligned text tables.
package report

import (
	"io"

	jsoniter "github.com/json-iterator/go"

	"digital.vasic.doubles/pkg/assertion"
	"digital.vasic.doubles/pkg/spy"
)

// Marshalers are variables for dependency injection in tests.
var (
	jsonMarshal       = jsoniter.ConfigCompatibleWithStandardLibrary.Marshal
	jsonMarshalIndent = jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent
)

// Reporter defines the interface for generating reports.
type Reporter interface {
	// GenerateReport renders assertion results with a summary.
	GenerateReport(results []assertion.Result) ([]byte, error)

	// GenerateSpyReport renders the invocation history of each
	// recorder.
	GenerateSpyReport(recorders ...spy.Recorder) ([]byte, error)

	// WriteReport writes the results report to w.
	WriteReport(w io.Writer, results []assertion.Result) error
}
