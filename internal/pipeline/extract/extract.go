// Package extract turns a sniffed upload buffer into raw text, one extractor
// per supported format, with an OCR fallback for scanned PDFs.
package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/aksharatantra/multidecode/internal/domain/docmodel"
	"github.com/aksharatantra/multidecode/internal/ocr"
	"github.com/aksharatantra/multidecode/pkg/logger_i"
)

// UnsupportedFileTypeError is returned when sniffing succeeded but no
// extractor branch matches the MIME.
type UnsupportedFileTypeError struct {
	MIME string
}

func (e *UnsupportedFileTypeError) Error() string {
	return fmt.Sprintf("unsupported file type: %s", e.MIME)
}

// Result is the raw extracted text plus image metadata when the source was a
// raster image.
type Result struct {
	Text  string
	Image *docmodel.ImageInfo
}

type Config struct {
	Engine     ocr.Engine
	Rasterizer Rasterizer

	// PDFTextParser overrides the embedded-text parse; nil uses the real
	// reader.
	PDFTextParser func(buf []byte) (string, error)

	// MinPDFTextLen is the non-whitespace character count below which a
	// parsed PDF is treated as scanned.
	MinPDFTextLen int

	// RasterizerOff skips the scanned-PDF fallback entirely; the sparse
	// parsed text is returned as-is. Set when the deployment target cannot
	// run the rasterizer.
	RasterizerOff bool

	// Languages is the OCR language set for direct image recognition.
	Languages []string

	Logger *logger_i.Logger
}

type Extractor struct {
	cfg    Config
	logger *logger_i.Logger
}

func NewExtractor(cfg Config) *Extractor {
	if cfg.Logger == nil {
		cfg.Logger = logger_i.NewLogger("Extractor")
	}
	return &Extractor{cfg: cfg, logger: cfg.Logger}
}

const (
	mimePDF  = "application/pdf"
	mimeDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	mimeXlsx = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	mimeXls  = "application/vnd.ms-excel"
	mimePptx = "application/vnd.openxmlformats-officedocument.presentationml.presentation"
)

// Extract dispatches on the sniffed type. path points at the on-disk copy of
// buf; the scanned-PDF fallback and the DOCX extractor read from it. A
// non-empty languages set overrides the configured OCR languages for direct
// image recognition.
func (e *Extractor) Extract(ctx context.Context, buf []byte, path string, ft docmodel.FileType, languages []string) (Result, error) {
	e.logger.Debug("extracting", "mime", ft.MIME, "ext", ft.Ext)

	switch {
	case ft.MIME == mimePDF || ft.Ext == "pdf":
		text, err := e.extractPDF(ctx, buf, path)
		return Result{Text: text}, err

	case ft.MIME == mimeDocx || ft.Ext == "docx",
		strings.HasPrefix(ft.MIME, "text/plain"), ft.Ext == "odt", ft.Ext == "rtf":
		text, err := extractDocx(path)
		return Result{Text: text}, err

	case ft.MIME == mimeXlsx || ft.MIME == mimeXls || ft.Ext == "xlsx" || ft.Ext == "xls":
		text, err := extractSpreadsheet(buf)
		return Result{Text: text}, err

	case ft.MIME == mimePptx || ft.Ext == "pptx":
		text, err := extractPptx(buf)
		return Result{Text: text}, err

	case strings.HasPrefix(ft.MIME, "image/") || isImageExt(ft.Ext):
		return e.extractImage(ctx, buf, ft, languages)

	default:
		return Result{}, &UnsupportedFileTypeError{MIME: ft.MIME}
	}
}

func isImageExt(ext string) bool {
	switch ext {
	case "jpg", "jpeg", "png", "bmp", "tiff", "webp":
		return true
	}
	return false
}
