package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aksharatantra/multidecode/internal/domain/docmodel"
	"github.com/aksharatantra/multidecode/internal/ocr"
)

type fakeEngine struct {
	onRecognize func(ctx context.Context, img []byte, languages []string) (ocr.Result, error)
}

func (f *fakeEngine) Recognize(ctx context.Context, img []byte, languages []string) (ocr.Result, error) {
	return f.onRecognize(ctx, img, languages)
}

type fakeRasterizer struct {
	pages      int
	lastOutDir string
	err        error
}

func (f *fakeRasterizer) RasterizePages(_ context.Context, _ string, outDir string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.lastOutDir = outDir
	var paths []string
	for i := 0; i < f.pages; i++ {
		p := filepath.Join(outDir, fmt.Sprintf("page-%04d.png", i))
		if err := os.WriteFile(p, []byte(fmt.Sprintf("raster %d", i)), 0o600); err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, nil
}

func TestExtract_UnsupportedType(t *testing.T) {
	e := NewExtractor(Config{})
	_, err := e.Extract(context.Background(), []byte("PK"), "archive.zip",
		docmodel.FileType{MIME: "application/zip", Ext: "zip"}, nil)

	var unsupported *UnsupportedFileTypeError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "application/zip", unsupported.MIME)
}

func TestExtract_PlainText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "note.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello from disk"), 0o600))

	e := NewExtractor(Config{})
	got, err := e.Extract(context.Background(), []byte("hello from disk"), path,
		docmodel.FileType{MIME: "text/plain; charset=utf-8", Ext: "txt"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "hello from disk", got.Text)
	assert.Nil(t, got.Image)
}

func TestOCRScannedPDF(t *testing.T) {
	rast := &fakeRasterizer{pages: 2}
	var seenLanguages []string
	engine := &fakeEngine{onRecognize: func(_ context.Context, img []byte, languages []string) (ocr.Result, error) {
		seenLanguages = languages
		return ocr.Result{Text: "ocr of " + string(img), Confidence: 0.9}, nil
	}}

	e := NewExtractor(Config{Engine: engine, Rasterizer: rast, MinPDFTextLen: 20})
	text, err := e.ocrScannedPDF(context.Background(), "scan.pdf", "too short")
	require.NoError(t, err)

	assert.Equal(t, "ocr of raster 0\nocr of raster 1", text)
	assert.Equal(t, []string{"eng"}, seenLanguages)

	// the per-invocation temp dir must not outlive the call
	_, statErr := os.Stat(rast.lastOutDir)
	assert.True(t, os.IsNotExist(statErr))
}

func TestOCRScannedPDF_DevanagariSampleSelectsSanskrit(t *testing.T) {
	rast := &fakeRasterizer{pages: 1}
	var seenLanguages []string
	engine := &fakeEngine{onRecognize: func(_ context.Context, _ []byte, languages []string) (ocr.Result, error) {
		seenLanguages = languages
		return ocr.Result{Text: "ok"}, nil
	}}

	e := NewExtractor(Config{Engine: engine, Rasterizer: rast})
	_, err := e.ocrScannedPDF(context.Background(), "scan.pdf", "मन्त्र")
	require.NoError(t, err)
	assert.Equal(t, []string{"san", "eng"}, seenLanguages)
}

func TestOCRScannedPDF_RasterizeFailure(t *testing.T) {
	rast := &fakeRasterizer{err: errors.New("mupdf unavailable")}
	e := NewExtractor(Config{Engine: &fakeEngine{}, Rasterizer: rast})

	_, err := e.ocrScannedPDF(context.Background(), "scan.pdf", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rasterize scanned pdf")
}

func TestExtractPDF_RichTextSkipsFallback(t *testing.T) {
	rast := &fakeRasterizer{pages: 1}
	parsed := "This embedded text layer is comfortably past the threshold."
	e := NewExtractor(Config{
		Engine:        &fakeEngine{},
		Rasterizer:    rast,
		MinPDFTextLen: 20,
		PDFTextParser: func([]byte) (string, error) { return parsed, nil },
	})

	got, err := e.Extract(context.Background(), []byte("%PDF-"), "doc.pdf",
		docmodel.FileType{MIME: "application/pdf", Ext: "pdf"}, nil)
	require.NoError(t, err)
	assert.Equal(t, parsed, got.Text)
	assert.Empty(t, rast.lastOutDir, "rasterizer must not run for a text-rich pdf")
}

func TestExtractPDF_SparseTextTriggersFallback(t *testing.T) {
	rast := &fakeRasterizer{pages: 1}
	engine := &fakeEngine{onRecognize: func(_ context.Context, _ []byte, _ []string) (ocr.Result, error) {
		return ocr.Result{Text: "ocr page text"}, nil
	}}
	e := NewExtractor(Config{
		Engine:        engine,
		Rasterizer:    rast,
		MinPDFTextLen: 20,
		PDFTextParser: func([]byte) (string, error) { return "p 1", nil },
	})

	got, err := e.Extract(context.Background(), []byte("%PDF-"), "scan.pdf",
		docmodel.FileType{MIME: "application/pdf", Ext: "pdf"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "ocr page text", got.Text)
	assert.NotEmpty(t, rast.lastOutDir, "rasterizer must run for a sparse pdf")
}

func TestExtractPDF_ThresholdCountsNonWhitespaceOnly(t *testing.T) {
	rast := &fakeRasterizer{pages: 1}
	engine := &fakeEngine{onRecognize: func(_ context.Context, _ []byte, _ []string) (ocr.Result, error) {
		return ocr.Result{Text: "ocr"}, nil
	}}
	// 19 letters padded with whitespace: still under a threshold of 20
	e := NewExtractor(Config{
		Engine:        engine,
		Rasterizer:    rast,
		MinPDFTextLen: 20,
		PDFTextParser: func([]byte) (string, error) {
			return "  abcde fghij klmno pqrs  \n", nil
		},
	})

	got, err := e.Extract(context.Background(), []byte("%PDF-"), "scan.pdf",
		docmodel.FileType{MIME: "application/pdf", Ext: "pdf"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "ocr", got.Text)
	assert.NotEmpty(t, rast.lastOutDir)
}

func TestExtractPDF_RasterizerOffReturnsSparseText(t *testing.T) {
	rast := &fakeRasterizer{pages: 1}
	e := NewExtractor(Config{
		Engine:        &fakeEngine{},
		Rasterizer:    rast,
		RasterizerOff: true,
		MinPDFTextLen: 20,
		PDFTextParser: func([]byte) (string, error) { return "p 1", nil },
	})

	got, err := e.Extract(context.Background(), []byte("%PDF-"), "scan.pdf",
		docmodel.FileType{MIME: "application/pdf", Ext: "pdf"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "p 1", got.Text)
	assert.Empty(t, rast.lastOutDir, "rasterizer must stay off")
}

func TestExtractImage_LanguagesOverride(t *testing.T) {
	var seenLanguages []string
	engine := &fakeEngine{onRecognize: func(_ context.Context, _ []byte, languages []string) (ocr.Result, error) {
		seenLanguages = languages
		return ocr.Result{Text: "ok"}, nil
	}}

	e := NewExtractor(Config{Engine: engine, Languages: []string{"eng"}})
	_, err := e.Extract(context.Background(), []byte("img"), "x.png",
		docmodel.FileType{MIME: "image/png", Ext: "png"}, []string{"san", "eng"})
	require.NoError(t, err)
	assert.Equal(t, []string{"san", "eng"}, seenLanguages)
}

func TestExtractImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.RGBA{uint8(x * 30), uint8(y * 30), 0, 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	engine := &fakeEngine{onRecognize: func(_ context.Context, input []byte, languages []string) (ocr.Result, error) {
		// preprocessing re-encodes, the engine must still get a decodable png
		_, _, err := image.Decode(bytes.NewReader(input))
		require.NoError(t, err)
		assert.Equal(t, []string{"eng"}, languages)
		return ocr.Result{Text: "recognized text", Confidence: 0.87}, nil
	}}

	e := NewExtractor(Config{Engine: engine})
	got, err := e.Extract(context.Background(), buf.Bytes(), "photo.png",
		docmodel.FileType{MIME: "image/png", Ext: "png"}, nil)
	require.NoError(t, err)

	assert.Equal(t, "recognized text", got.Text)
	require.NotNil(t, got.Image)
	assert.Equal(t, "8x8", got.Image.Dimensions)
	assert.Equal(t, "png", got.Image.Format)
}

func TestExtractImage_NoEngine(t *testing.T) {
	e := NewExtractor(Config{})
	_, err := e.Extract(context.Background(), []byte("not an image"), "x.png",
		docmodel.FileType{MIME: "image/png", Ext: "png"}, nil)
	require.Error(t, err)
}

func TestExtractImage_UndecodableBytesStillReachEngine(t *testing.T) {
	raw := []byte("definitely not an image")
	engine := &fakeEngine{onRecognize: func(_ context.Context, input []byte, _ []string) (ocr.Result, error) {
		assert.Equal(t, raw, input)
		return ocr.Result{Text: "best effort"}, nil
	}}

	e := NewExtractor(Config{Engine: engine})
	got, err := e.Extract(context.Background(), raw, "x.jpg",
		docmodel.FileType{MIME: "image/jpeg", Ext: "jpg"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "best effort", got.Text)
	require.NotNil(t, got.Image)
	assert.Equal(t, "jpg", got.Image.Format) // DecodeConfig failed, extension stands in
	assert.Empty(t, got.Image.Dimensions)
}

func TestCountNonWhitespace(t *testing.T) {
	assert.Equal(t, 0, countNonWhitespace(" \n\t "))
	assert.Equal(t, 5, countNonWhitespace(" ab c\nde "))
}
