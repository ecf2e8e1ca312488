package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// PDFExporter renders a Table into a one-page-per-overflow tabular PDF,
// the printable handout given to the host after a run.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render creates the PDF document. The table title becomes the page heading.
func (e *PDFExporter) Render(t Table) ([]byte, error) {
	if len(t.Columns) == 0 {
		return nil, fmt.Errorf("pdf requires at least one column")
	}
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(12, 14, 12)
	pdf.AddPage()

	if t.Title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, t.Title, "", 1, "C", false, 0, "")
		pdf.Ln(4)
	}

	width, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	colWidth := (width - left - right) / float64(len(t.Columns))

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for _, col := range t.Columns {
		pdf.CellFormat(colWidth, 8, col, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, row := range t.Rows {
		for i := range t.Columns {
			var cell string
			if i < len(row) {
				cell = row[i]
			}
			pdf.CellFormat(colWidth, 7, cell, "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
