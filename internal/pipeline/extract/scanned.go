package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/aksharatantra/multidecode/internal/metrics"
	"github.com/aksharatantra/multidecode/internal/ocr"
)

// ocrScannedPDF rasterizes every page into a per-invocation temp directory
// and OCRs each image. The directory name carries a uuid so concurrent
// requests never collide; it is removed on success and on failure, and a
// removal failure is only logged.
func (e *Extractor) ocrScannedPDF(ctx context.Context, pdfPath, sampleText string) (string, error) {
	metrics.IncrementOCRFallback()

	outDir := filepath.Join(os.TempDir(), "multidecode-ocr-"+uuid.New().String())
	if err := os.MkdirAll(outDir, 0750); err != nil {
		return "", fmt.Errorf("create ocr temp dir: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(outDir); err != nil {
			e.logger.Error("failed to remove ocr temp dir", "dir", outDir, "error", err)
		}
	}()

	pagePaths, err := e.cfg.Rasterizer.RasterizePages(ctx, pdfPath, outDir)
	if err != nil {
		return "", fmt.Errorf("rasterize scanned pdf: %w", err)
	}

	languages := ocr.DetectScriptLanguages(sampleText)
	e.logger.Debug("running ocr over rasterized pages", "pages", len(pagePaths), "languages", languages)

	var pages []string
	for _, p := range pagePaths {
		img, err := os.ReadFile(p)
		if err != nil {
			return "", fmt.Errorf("read rasterized page: %w", err)
		}
		res, err := e.cfg.Engine.Recognize(ctx, img, languages)
		if err != nil {
			return "", fmt.Errorf("ocr page %s: %w", filepath.Base(p), err)
		}
		pages = append(pages, res.Text)
	}

	return strings.Join(pages, "\n"), nil
}
