package app

import (
	"bufio"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/clipread/clipread/internal/article"
)

// writeArticlePDF renders a minimal PDF from an extracted record: title as a
// heading, a metadata line, then the plain text paragraph by paragraph. No
// attempt is made at full article layout.
func writeArticlePDF(rec *article.Record, outPath string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	translate := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 16)
	pdf.MultiCell(0, 8, translate(rec.Title), "", "L", false)
	pdf.Ln(2)

	meta := make([]string, 0, 3)
	if rec.Byline != "" {
		meta = append(meta, rec.Byline)
	}
	if rec.SiteName != "" {
		meta = append(meta, rec.SiteName)
	}
	meta = append(meta, rec.FinalURL)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.MultiCell(0, 5, translate(strings.Join(meta, " — ")), "", "L", false)
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 11)
	scanner := bufio.NewScanner(strings.NewReader(rec.TextContent))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			pdf.Ln(5)
			continue
		}
		pdf.MultiCell(0, 5, translate(line), "", "L", false)
	}

	return pdf.OutputFileAndClose(outPath)
}
