// Package output renders a finished report for a terminal or pipe and
// writes the artifact files the caller asked for.
package output

import (
	"fmt"
	"io"

	"github.com/stalewatch/stalewatch/internal/report"
)

// Format represents the output format
type Format string

const (
	FormatTable    Format = "table"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

// Valid reports whether the format is one the formatter can render.
func (f Format) Valid() bool {
	switch f {
	case FormatTable, FormatJSON, FormatMarkdown, "":
		return true
	}
	return false
}

// Formatter renders a report to a writer.
type Formatter interface {
	Render(rep *report.Report, w io.Writer) error
}

// NewFormatter creates a formatter for the specified format. The table
// formatter is the default for interactive use.
func NewFormatter(format Format, threshold int) Formatter {
	switch format {
	case FormatJSON:
		return &jsonFormatter{}
	case FormatMarkdown:
		return &markdownFormatter{}
	default:
		return &TableFormatter{Threshold: threshold}
	}
}

// jsonFormatter emits the JSON artifact verbatim.
type jsonFormatter struct{}

func (f *jsonFormatter) Render(rep *report.Report, w io.Writer) error {
	_, err := fmt.Fprintln(w, rep.JSON)
	return err
}

// markdownFormatter emits the markdown artifact verbatim.
type markdownFormatter struct{}

func (f *markdownFormatter) Render(rep *report.Report, w io.Writer) error {
	_, err := io.WriteString(w, rep.Markdown)
	return err
}
