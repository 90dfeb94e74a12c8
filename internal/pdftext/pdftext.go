// Package pdftext reads the text layer of a PDF page by page.
package pdftext

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrExtract is returned when the PDF cannot be parsed.
var ErrExtract = errors.New("PDF text extraction failed")

// Extractor returns one string per page, lines separated by '\n'. Each line
// is a row of glyphs sharing a baseline.
type Extractor struct{}

// ExtractPages implements the page text contract used during page resolution.
// Pages without content yield an empty string so indexes stay aligned.
func (Extractor) ExtractPages(data []byte) (pages []string, err error) {
	// The parser panics on some malformed streams.
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = fmt.Errorf("%w: %v", ErrExtract, r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtract, err)
	}

	n := r.NumPage()
	pages = make([]string, 0, n)
	for i := 1; i <= n; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		rows, rowErr := p.GetTextByRow()
		if rowErr != nil {
			return nil, fmt.Errorf("%w: page %d: %v", ErrExtract, i, rowErr)
		}
		pages = append(pages, joinRows(rows))
	}
	return pages, nil
}

func joinRows(rows pdf.Rows) string {
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		var b strings.Builder
		for _, t := range row.Content {
			b.WriteString(t.S)
		}
		lines = append(lines, b.String())
	}
	return strings.Join(lines, "\n")
}
