// Package output provides formatters for displaying crack run results.
//
// The package supports multiple output formats (table, JSON, YAML) and
// provides a unified interface for rendering both arbitrary data and full
// run reports.
//
// # Features
//
//   - Multiple output formats: table, JSON, and YAML
//   - Color support with automatic TTY detection
//   - Configurable options (no-color, no-headers, wide mode)
//
// # Basic Usage
//
//	// Create a table formatter
//	formatter := output.NewFormatter(output.FormatTable)
//
//	// Render a run report
//	report := &output.Report{Targets: targets, Result: result}
//	formatter.FormatRun(os.Stdout, report)
//
// # Options
//
// Formatters can be configured with functional options:
//
//	formatter := output.NewFormatter(output.FormatTable,
//	    output.WithNoColor(true),
//	    output.WithWide(true),
//	)
package output
