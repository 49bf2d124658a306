package report

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"
)

// Format specifies the output format for tables
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// Reporter renders tables and stores them under an output directory
type Reporter struct {
	outputDir string
	runID     string
	now       func() time.Time
}

// NewReporter creates a new reporter. runID is embedded in every file name.
func NewReporter(outputDir, runID string) *Reporter {
	return &Reporter{
		outputDir: outputDir,
		runID:     runID,
		now:       time.Now,
	}
}

// Render renders the table in the specified format
func (r *Reporter) Render(t *Table, format Format) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch format {
	case FormatCSV:
		err = WriteCSV(&buf, t)
	case FormatJSON:
		err = WriteJSON(&buf, t)
	case FormatText:
		err = writeText(&buf, t)
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save renders the table and writes it to <outputDir>/<name>_<timestamp>_<run>.<format>
func (r *Reporter) Save(t *Table, name string, format Format) (string, error) {
	content, err := r.Render(t, format)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(r.outputDir, 0755); err != nil {
		return "", err
	}

	timestamp := r.now().Format("2006-01-02_15-04-05")
	filename := fmt.Sprintf("%s_%s.%s", name, timestamp, format)
	if r.runID != "" {
		filename = fmt.Sprintf("%s_%s_%s.%s", name, timestamp, shortRunID(r.runID), format)
	}
	path := filepath.Join(r.outputDir, filename)

	if err := os.WriteFile(path, content, 0644); err != nil {
		return "", err
	}
	return path, nil
}

// Summary describes how many momentum rows have a return.
func Summary(t *Table) string {
	available := 0
	for i := range t.Rows() {
		if t.Cell(i, "return").Valid {
			available++
		}
	}
	return fmt.Sprintf("%d rows, %d with momentum, %d unavailable", t.Len(), available, t.Len()-available)
}

func writeText(buf *bytes.Buffer, t *Table) error {
	tw := tabwriter.NewWriter(buf, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(t.Columns(), "\t"))
	cells := make([]string, len(t.Columns()))
	for i := range t.Rows() {
		for j, col := range t.Columns() {
			v := t.Cell(i, col)
			cells[j] = "-"
			if v.Valid {
				cells[j] = v.ValueOrZero()
			}
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

func shortRunID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
