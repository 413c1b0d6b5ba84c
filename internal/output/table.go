package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
)

// TableFormatter formats output as a table
type TableFormatter struct {
	options *Options
}

// NewTableFormatter creates a new table formatter
func NewTableFormatter(opts *Options) *TableFormatter {
	if opts == nil {
		opts = &Options{}
	}
	return &TableFormatter{
		options: opts,
	}
}

// Format outputs a single data item as a table
func (f *TableFormatter) Format(w io.Writer, data interface{}) error {
	table := f.createTable(w)

	switch v := data.(type) {
	case map[string]interface{}:
		return f.formatMap(table, v)
	case []map[string]interface{}:
		return f.formatMapSlice(table, v)
	case string:
		fmt.Fprintln(w, v)
		return nil
	default:
		// Fallback to simple string representation
		fmt.Fprintln(w, v)
		return nil
	}
}

// FormatRun outputs a crack run report as a table
func (f *TableFormatter) FormatRun(w io.Writer, report *Report) error {
	if report == nil || len(report.Targets) == 0 {
		fmt.Fprintln(w, "No targets")
		return nil
	}

	colors := NewColorScheme(w, f.options.NoColor)

	table := f.createTable(w)

	headers := []string{"TARGET", "STATUS", "PASSWORD"}
	if f.options.Wide {
		headers = append(headers, "CANDIDATE INDEX")
	}

	if !f.options.NoHeaders {
		if colors.Disabled {
			table.SetHeader(headers)
		} else {
			coloredHeaders := make([]string, len(headers))
			for i, h := range headers {
				coloredHeaders[i] = colors.Header(h)
			}
			table.SetHeader(coloredHeaders)
		}
	}

	for _, target := range report.Targets {
		table.Append(f.formatTargetRow(report, target, colors))
	}

	table.Render()

	f.printSummary(w, report, colors)

	return nil
}

// formatTargetRow formats a single target as a table row
func (f *TableFormatter) formatTargetRow(report *Report, target string, colors *ColorScheme) []string {
	name := target
	if !colors.Disabled {
		name = colors.Target(name)
	}

	won := report.Result.Found && report.Result.Target == target

	status := "not cracked"
	password := ""
	index := ""
	if won {
		status = "cracked"
		password = report.Result.Candidate
		index = fmt.Sprintf("%d", report.Result.Index)
		if !colors.Disabled {
			password = colors.Password(password)
		}
	} else if report.Result.Found {
		// Another target was opened first; this one was never confirmed
		status = "not attempted to completion"
	}
	if !colors.Disabled {
		status = colors.StatusColor(!won)(status)
	}

	row := []string{name, status, password}
	if f.options.Wide {
		row = append(row, index)
	}

	return row
}

// formatMap formats a map as a two-column table (key-value pairs)
func (f *TableFormatter) formatMap(table *tablewriter.Table, data map[string]interface{}) error {
	if !f.options.NoHeaders {
		table.SetHeader([]string{"KEY", "VALUE"})
	}

	for k, v := range data {
		table.Append([]string{k, fmt.Sprintf("%v", v)})
	}

	table.Render()
	return nil
}

// formatMapSlice formats a slice of maps as a table
func (f *TableFormatter) formatMapSlice(table *tablewriter.Table, data []map[string]interface{}) error {
	if len(data) == 0 {
		return nil
	}

	// Extract headers from the first map
	var headers []string
	for k := range data[0] {
		headers = append(headers, strings.ToUpper(k))
	}

	if !f.options.NoHeaders {
		table.SetHeader(headers)
	}

	for _, item := range data {
		var row []string
		for _, h := range headers {
			key := strings.ToLower(h)
			row = append(row, fmt.Sprintf("%v", item[key]))
		}
		table.Append(row)
	}

	table.Render()
	return nil
}

// createTable creates a new table with kubectl-style configuration
func (f *TableFormatter) createTable(w io.Writer) *tablewriter.Table {
	table := tablewriter.NewWriter(w)

	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	table.SetNoWhiteSpace(true)

	return table
}

// printSummary prints a summary of the run
func (f *TableFormatter) printSummary(w io.Writer, report *Report, colors *ColorScheme) {
	stats := report.Result.Stats

	verdict := "dictionary exhausted, no password found"
	if report.Result.Found {
		verdict = fmt.Sprintf("password found after %d attempts", stats.Attempts)
	}
	if !colors.Disabled {
		verdict = colors.StatusColor(!report.Result.Found)(verdict)
	}

	duration := stats.Duration.Round(time.Millisecond).String()
	if !colors.Disabled {
		duration = colors.Duration(duration)
	}

	fmt.Fprintf(w, "\n%s (candidates: %d, attempts: %d, duration: %s)\n",
		verdict, stats.Candidates, stats.Attempts, duration)

	for _, deleted := range report.Deleted {
		fmt.Fprintf(w, "deleted archive %s\n", deleted)
	}
}
