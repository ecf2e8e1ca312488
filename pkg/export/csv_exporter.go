package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// Table is the flattened shape the report renderers consume. Rows are
// positional and must line up with Columns; short rows are padded with
// empty cells.
type Table struct {
	Title   string
	Columns []string
	Rows    [][]string
}

// CSVExporter renders a Table into CSV bytes. The title is carried in the
// filename, not the payload.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render produces CSV encoded bytes for the table.
func (e *CSVExporter) Render(t Table) ([]byte, error) {
	if len(t.Columns) == 0 {
		return nil, fmt.Errorf("csv requires at least one column")
	}
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)
	if err := writer.Write(t.Columns); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for i, row := range t.Rows {
		if len(row) > len(t.Columns) {
			return nil, fmt.Errorf("csv row %d wider than header", i)
		}
		record := make([]string, len(t.Columns))
		copy(record, row)
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("write csv row %d: %w", i, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
