package handler

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/YCHuang2112sub/deep-researcher-a2a-purple-agent/payload"
)

// Landscape 1920x1080, the page size the real service renders at.
const (
	pageWidth  = 1920
	pageHeight = 1080
)

// renderDeck writes a minimal PDF with one page per slide carrying its title.
// An empty deck still gets one blank page.
func renderDeck(title string, slides []payload.Slide) []byte {
	pageCount := max(len(slides), 1)

	var buf bytes.Buffer
	var offsets []int
	obj := func(body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", len(offsets), body)
	}

	buf.WriteString("%PDF-1.4\n")

	// Objects 1-3 are the catalog, page tree and font; each slide adds a page
	// and its content stream.
	kids := make([]string, pageCount)
	for i := range kids {
		kids[i] = fmt.Sprintf("%d 0 R", 4+2*i)
	}
	obj("<< /Type /Catalog /Pages 2 0 R >>")
	obj(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), pageCount))
	obj("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>")

	for i := 0; i < pageCount; i++ {
		obj(fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 %d %d] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>",
			pageWidth, pageHeight, 5+2*i))

		var content string
		if i < len(slides) {
			content = fmt.Sprintf("BT /F1 60 Tf 80 880 Td (%s) Tj ET\nBT /F1 28 Tf 80 80 Td (%s) Tj ET",
				pdfText(strings.ToUpper(slides[i].Title)), pdfText(title))
		}
		obj(fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content))
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

// pdfText escapes s for a literal string. Helvetica has no glyphs past ASCII.
func pdfText(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r == '\\' || r == '(' || r == ')':
			b.WriteByte('\\')
			b.WriteRune(r)
		case r < 0x20 || r > 0x7e:
			b.WriteByte('?')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
