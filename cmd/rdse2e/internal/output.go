/*
Copyright 2026.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package internal

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"sigs.k8s.io/yaml"

	"github.com/rds-controller-e2e/internal/sweeper"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatTable OutputFormat = "table"
	FormatYAML  OutputFormat = "yaml"
	FormatJSON  OutputFormat = "json"
)

// ParseOutputFormat parses a string into an OutputFormat
func ParseOutputFormat(s string) OutputFormat {
	switch strings.ToLower(s) {
	case "yaml", "yml":
		return FormatYAML
	case "json":
		return FormatJSON
	default:
		return FormatTable
	}
}

// Printer handles output formatting
type Printer struct {
	format OutputFormat
	writer io.Writer
}

// NewPrinter creates a new Printer
func NewPrinter(format OutputFormat, writer io.Writer) *Printer {
	return &Printer{
		format: format,
		writer: writer,
	}
}

// PrintResult prints a result message
func (p *Printer) PrintResult(message string) {
	fmt.Fprintln(p.writer, message)
}

// PrintTable prints data in table format
func (p *Printer) PrintTable(headers []string, rows [][]string) error {
	if p.format != FormatTable {
		// For non-table formats, convert to list of maps
		data := make([]map[string]string, 0, len(rows))
		for _, row := range rows {
			item := make(map[string]string)
			for i, header := range headers {
				if i < len(row) {
					item[header] = row[i]
				}
			}
			data = append(data, item)
		}
		return p.PrintData(data)
	}

	w := tabwriter.NewWriter(p.writer, 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, strings.Join(headers, "\t"))
	for _, row := range rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}

	return w.Flush()
}

// PrintData prints data in the configured format
func (p *Printer) PrintData(data interface{}) error {
	switch p.format {
	case FormatJSON:
		return p.printJSON(data)
	default:
		// For table format with arbitrary data, use YAML
		return p.printYAML(data)
	}
}

// PrintSweep prints the entries of a sweep followed by its totals.
func (p *Printer) PrintSweep(result *sweeper.Result) error {
	if p.format != FormatTable {
		return p.PrintData(SweepOutput{Result: result, Totals: result.Summary()})
	}

	headers, rows := result.Table()
	if len(rows) > 0 {
		if err := p.PrintTable(headers, rows); err != nil {
			return err
		}
	}
	for _, e := range result.Errors {
		fmt.Fprintf(p.writer, "error: %s: %s\n", e.Kind, e.Error)
	}

	s := result.Summary()
	mode := result.Mode
	if result.DryRun {
		mode += ", dry run"
	}
	fmt.Fprintf(p.writer, "Sweep (%s): %d deleted, %d failed, %d skipped, %d planned, %d errors\n",
		mode, s.Deleted, s.Failed, s.Skipped, s.Planned, s.Errors)
	return nil
}

// PrintProbe prints the outcome of a database connection check.
func (p *Printer) PrintProbe(out ProbeOutput) error {
	if p.format != FormatTable {
		return p.PrintData(out)
	}
	return p.PrintTable(
		[]string{"ENGINE", "HOST", "PORT", "VERSION", "LATENCY"},
		[][]string{{out.Engine, out.Host, fmt.Sprint(out.Port), out.Version, out.Latency}},
	)
}

// printYAML prints data as YAML
func (p *Printer) printYAML(data interface{}) error {
	output, err := yaml.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}
	fmt.Fprint(p.writer, string(output))
	return nil
}

// printJSON prints data as JSON
func (p *Printer) printJSON(data interface{}) error {
	output, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Fprintln(p.writer, string(output))
	return nil
}

// SweepOutput is a sweep result with its totals for structured output
type SweepOutput struct {
	*sweeper.Result
	Totals sweeper.Summary `json:"summary"`
}

// ProbeOutput represents a database connection check for output
type ProbeOutput struct {
	Healthy bool   `json:"healthy"`
	Engine  string `json:"engine"`
	Host    string `json:"host"`
	Port    int    `json:"port"`
	Version string `json:"version,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// FormatSize formats bytes into human-readable size
func FormatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
