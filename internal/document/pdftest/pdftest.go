// Package pdftest builds minimal, structurally valid PDF files for tests.
package pdftest

import (
	"bytes"
	"fmt"
)

// Page describes one page of a generated document.
type Page struct {
	// Width and Height set the page's own MediaBox. Zero inherits the tree default.
	Width, Height float64
	// Rotate sets /Rotate when non-zero.
	Rotate int
}

// Letter is a US Letter page in points.
var Letter = Page{Width: 612, Height: 792}

// Pages returns n pages that inherit the default Letter MediaBox from the page tree.
func Pages(n int) []Page {
	return make([]Page, n)
}

// Build returns a PDF with the given pages. The page tree carries a Letter MediaBox
// that pages without their own size inherit.
func Build(pages ...Page) []byte {
	var buf bytes.Buffer
	var offsets []int

	obj := func(body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", len(offsets), body)
	}

	buf.WriteString("%PDF-1.4\n")
	obj("<< /Type /Catalog /Pages 2 0 R >>")

	kids := ""
	for i := range pages {
		kids += fmt.Sprintf("%d 0 R ", i+3)
	}
	obj(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d /MediaBox [0 0 612 792] >>", kids, len(pages)))

	for _, p := range pages {
		body := "<< /Type /Page /Parent 2 0 R"
		if p.Width > 0 && p.Height > 0 {
			body += fmt.Sprintf(" /MediaBox [0 0 %g %g]", p.Width, p.Height)
		}
		if p.Rotate != 0 {
			body += fmt.Sprintf(" /Rotate %d", p.Rotate)
		}
		obj(body + " >>")
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(offsets)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xref)

	return buf.Bytes()
}
