package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/dslipak/pdf"
)

// extractPDF parses the embedded text layer. When the parsed text strips down
// to fewer than MinPDFTextLen non-whitespace characters the PDF is treated as
// scanned and handed to the OCR fallback.
func (e *Extractor) extractPDF(ctx context.Context, buf []byte, path string) (string, error) {
	parse := e.cfg.PDFTextParser
	if parse == nil {
		parse = parseEmbeddedText
	}
	text, err := parse(buf)
	if err != nil {
		return "", fmt.Errorf("failed to parse pdf: %w", err)
	}

	if countNonWhitespace(text) >= e.cfg.MinPDFTextLen {
		return text, nil
	}

	if e.cfg.RasterizerOff || e.cfg.Rasterizer == nil {
		e.logger.Warn("pdf looks scanned but rasterizer is unavailable, returning sparse text")
		return text, nil
	}

	e.logger.Debug("sparse pdf text, falling back to OCR", "chars", countNonWhitespace(text))
	return e.ocrScannedPDF(ctx, path, text)
}

func parseEmbeddedText(buf []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(buf), int64(len(buf)))
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	numPages := r.NumPage()
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := protectExtract(page)
		if err != nil {
			// keep going with the other pages
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(content)
	}
	return sb.String(), nil
}

// protectExtract guards GetPlainText with a timeout; malformed content
// streams can make it spin.
func protectExtract(page pdf.Page) (string, error) {
	type result struct {
		content string
		err     error
	}
	resChan := make(chan result, 1)

	go func() {
		content, err := page.GetPlainText(nil)
		resChan <- result{content, err}
	}()
	select {
	case r := <-resChan:
		return r.content, r.err
	case <-time.After(time.Second * 10):
		return "", errors.New("page extraction timeout")
	}
}

func countNonWhitespace(s string) int {
	n := 0
	for _, r := range s {
		if !unicode.IsSpace(r) {
			n++
		}
	}
	return n
}
