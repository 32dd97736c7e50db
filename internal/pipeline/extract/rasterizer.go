package extract

import (
	"context"
	"fmt"
	"image/png"
	"os"
	"path/filepath"

	"github.com/gen2brain/go-fitz"
)

// Rasterizer renders every page of a PDF into PNG files under outDir and
// returns the file paths in page order.
type Rasterizer interface {
	RasterizePages(ctx context.Context, pdfPath, outDir string) ([]string, error)
}

// FitzRasterizer renders pages with MuPDF.
type FitzRasterizer struct{}

func NewFitzRasterizer() *FitzRasterizer {
	return &FitzRasterizer{}
}

func (fr *FitzRasterizer) RasterizePages(ctx context.Context, pdfPath, outDir string) ([]string, error) {
	doc, err := fitz.New(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("open pdf for rasterization: %w", err)
	}
	defer doc.Close()

	var paths []string
	for i := 0; i < doc.NumPage(); i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		img, err := doc.Image(i)
		if err != nil {
			return nil, fmt.Errorf("rasterize page %d: %w", i+1, err)
		}

		out := filepath.Join(outDir, fmt.Sprintf("page-%04d.png", i+1))
		f, err := os.Create(out)
		if err != nil {
			return nil, fmt.Errorf("create page image: %w", err)
		}
		if err := png.Encode(f, img); err != nil {
			f.Close()
			return nil, fmt.Errorf("encode page %d: %w", i+1, err)
		}
		if err := f.Close(); err != nil {
			return nil, err
		}
		paths = append(paths, out)
	}
	return paths, nil
}
