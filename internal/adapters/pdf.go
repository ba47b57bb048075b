package adapters

import (
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// Page is one problem of a worksheet.
type Page struct {
	Title   string
	Diagram string
	Comment string
}

// AdapterPDF renders printable problem worksheets, one page per problem.
type AdapterPDF struct {
	fontSize float64
}

func NewAdapterPDF(fontSize float64) *AdapterPDF {
	if fontSize <= 0 {
		fontSize = 10
	}
	return &AdapterPDF{fontSize: fontSize}
}

func (a *AdapterPDF) build(pages []Page) *gofpdf.Fpdf {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	lineHeight := a.fontSize * 0.45

	for _, p := range pages {
		pdf.AddPage()
		pdf.SetFont("Courier", "B", a.fontSize+2)
		pdf.Cell(40, 10, tr(p.Title))
		pdf.Ln(12)

		pdf.SetFont("Courier", "", a.fontSize)
		for _, line := range strings.Split(strings.TrimRight(p.Diagram, "\n"), "\n") {
			pdf.Cell(0, lineHeight, spaced(line))
			pdf.Ln(lineHeight)
		}

		if p.Comment != "" {
			pdf.Ln(lineHeight)
			pdf.MultiCell(0, lineHeight, tr(p.Comment), "", "L", false)
		}
	}
	return pdf
}

// spaced widens a diagram row so the board comes out square.
func spaced(row string) string {
	return strings.Join(strings.Split(row, ""), " ")
}

// Write renders pages as a PDF document into w.
func (a *AdapterPDF) Write(w io.Writer, pages []Page) error {
	return a.build(pages).Output(w)
}

// WriteFile renders pages into the file at path.
func (a *AdapterPDF) WriteFile(path string, pages []Page) error {
	return a.build(pages).OutputFileAndClose(path)
}
