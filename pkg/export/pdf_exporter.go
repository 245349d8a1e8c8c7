package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// PDFExporter renders datasets into a landscape tabular PDF with a banner row
// for every school group.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// ContentType reports the MIME type of rendered files.
func (e *PDFExporter) ContentType() string { return "application/pdf" }

// Extension reports the file extension of rendered files.
func (e *PDFExporter) Extension() string { return "pdf" }

// Render creates a PDF document with an optional title and table body.
func (e *PDFExporter) Render(data Dataset, title string) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("pdf: %w", errNoHeaders)
	}
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	if title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, strings.ToUpper(title), "", 1, "C", false, 0, "")
		pdf.Ln(5)
	}

	columns := make([]string, 0, len(data.Headers))
	for _, header := range data.Headers {
		if header != data.GroupColumn {
			columns = append(columns, header)
		}
	}
	if len(columns) == 0 {
		columns = data.Headers
	}
	colWidth := 277.0 / float64(len(columns))

	writeHeader := func() {
		pdf.SetFont("Arial", "B", 9)
		for _, header := range columns {
			pdf.CellFormat(colWidth, 8, header, "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
	}

	currentGroup := ""
	started := false
	for _, row := range data.Rows {
		if data.GroupColumn != "" && (!started || row[data.GroupColumn] != currentGroup) {
			currentGroup = row[data.GroupColumn]
			pdf.SetFont("Arial", "B", 11)
			pdf.SetFillColor(230, 230, 230)
			pdf.CellFormat(0, 8, currentGroup, "1", 1, "L", true, 0, "")
			writeHeader()
		} else if !started {
			writeHeader()
		}
		started = true
		pdf.SetFont("Arial", "", 8)
		for _, header := range columns {
			pdf.CellFormat(colWidth, 7, row[header], "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}
	if !started {
		writeHeader()
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
