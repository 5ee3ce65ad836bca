package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

const (
	pageWidth  = 277.0 // A4 landscape minus margins
	lineHeight = 5.0
)

// PDFExporter renders datasets as a landscape table for printing. The last
// column takes the remaining width and wraps, which suits long free text.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// ContentType implements Renderer.
func (e *PDFExporter) ContentType() string { return "application/pdf" }

// Extension implements Renderer.
func (e *PDFExporter) Extension() string { return "pdf" }

// Render creates a PDF document with an optional title and table body.
func (e *PDFExporter) Render(data Dataset) ([]byte, error) {
	if err := validate(data); err != nil {
		return nil, err
	}
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 12, 10)
	pdf.SetAutoPageBreak(true, 12)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	if data.Title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, tr(data.Title), "", 1, "C", false, 0, "")
		pdf.Ln(3)
	}

	widths := columnWidths(len(data.Headers))

	pdf.SetFont("Arial", "B", 10)
	for i, header := range data.Headers {
		pdf.CellFormat(widths[i], 8, tr(header), "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	last := len(data.Headers) - 1
	for _, row := range data.Rows {
		lines := pdf.SplitLines([]byte(tr(row[last])), widths[last]-2)
		height := lineHeight * float64(max(len(lines), 1))
		if pdf.GetY()+height > 198 {
			pdf.AddPage()
		}

		x, y := pdf.GetXY()
		for i := 0; i < last; i++ {
			pdf.Rect(x, y, widths[i], height, "D")
			pdf.SetXY(x+1, y)
			pdf.CellFormat(widths[i]-2, lineHeight, tr(row[i]), "", 0, "", false, 0, "")
			x += widths[i]
		}
		pdf.Rect(x, y, widths[last], height, "D")
		pdf.SetXY(x+1, y)
		pdf.MultiCell(widths[last]-2, lineHeight, tr(row[last]), "", "", false)
		pdf.SetXY(10, y+height)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// columnWidths gives fixed columns 30mm each and the rest to the last one.
func columnWidths(n int) []float64 {
	widths := make([]float64, n)
	if n == 1 {
		widths[0] = pageWidth
		return widths
	}
	fixed := 30.0
	if float64(n-1)*fixed > pageWidth/2 {
		fixed = pageWidth / 2 / float64(n-1)
	}
	for i := 0; i < n-1; i++ {
		widths[i] = fixed
	}
	widths[n-1] = pageWidth - fixed*float64(n-1)
	return widths
}
