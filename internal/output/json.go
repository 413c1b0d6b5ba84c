package output

import (
	"encoding/json"
	"io"
)

// JSONFormatter formats output as JSON
type JSONFormatter struct {
	options *Options
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter(opts *Options) *JSONFormatter {
	if opts == nil {
		opts = &Options{}
	}
	return &JSONFormatter{
		options: opts,
	}
}

// Format outputs a single data item as JSON
func (f *JSONFormatter) Format(w io.Writer, data interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// FormatRun outputs a crack run report as JSON
func (f *JSONFormatter) FormatRun(w io.Writer, report *Report) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(reportDocument(report))
}

// reportDocument converts a report to a serialization-friendly structure
// shared by the JSON and YAML formatters
func reportDocument(report *Report) map[string]interface{} {
	doc := map[string]interface{}{
		"targets":    report.Targets,
		"found":      report.Result.Found,
		"candidates": report.Result.Stats.Candidates,
		"attempts":   report.Result.Stats.Attempts,
		"skipped":    report.Result.Stats.Skipped,
		"duration":   report.Result.Stats.Duration.String(),
	}

	if report.Result.Found {
		doc["password"] = report.Result.Candidate
		doc["target"] = report.Result.Target
		doc["candidateIndex"] = report.Result.Index
	}

	if len(report.Deleted) > 0 {
		doc["deleted"] = report.Deleted
	}

	return doc
}
