package pipeline

import (
	"github.com/aksharatantra/multidecode/internal/ocr"
	"github.com/aksharatantra/multidecode/internal/pipeline/analyze"
	"github.com/aksharatantra/multidecode/internal/pipeline/extract"
	"github.com/aksharatantra/multidecode/pkg/logger_i"
)

// Config configures one Pipeline. Zero values take the documented defaults,
// so pipeline.New(pipeline.Config{}) is a working production setup.
type Config struct {
	// ChunkSize and Overlap are in runes; Overlap must stay below ChunkSize.
	ChunkSize int
	Overlap   int

	// MaxConcurrency bounds in-flight chunk analyses.
	MaxConcurrency int

	MaxKeywords   int
	MaxSummary    int
	MaxHighlights int

	// MinPDFTextLen is the non-whitespace character count below which a
	// parsed PDF counts as scanned.
	MinPDFTextLen int

	// FailurePolicy decides whether one failing chunk fails the batch.
	FailurePolicy analyze.FailurePolicy

	// RasterizerOff disables the scanned-PDF OCR fallback (deployment
	// targets without the rasterizer capability).
	RasterizerOff bool

	// OCRLanguages is the language set for direct image OCR.
	OCRLanguages []string

	// injectable collaborators; nil picks the real implementation
	Engine     ocr.Engine
	Rasterizer extract.Rasterizer
	Tagger     analyze.Tagger

	Logger *logger_i.Logger
}

func (c *Config) defaults() {
	if c.ChunkSize <= 0 {
		c.ChunkSize = 20000
	}
	if c.Overlap <= 0 || c.Overlap >= c.ChunkSize {
		c.Overlap = 500
	}
	if c.MaxConcurrency <= 0 {
		c.MaxConcurrency = 3
	}
	if c.MaxKeywords <= 0 {
		c.MaxKeywords = 10
	}
	if c.MaxSummary <= 0 {
		c.MaxSummary = 3
	}
	if c.MaxHighlights <= 0 {
		c.MaxHighlights = 3
	}
	if c.MinPDFTextLen <= 0 {
		c.MinPDFTextLen = 20
	}
	if len(c.OCRLanguages) == 0 {
		c.OCRLanguages = []string{"eng"}
	}
	if c.Engine == nil {
		c.Engine = ocr.NewTesseractEngine()
	}
	if c.Rasterizer == nil && !c.RasterizerOff {
		c.Rasterizer = extract.NewFitzRasterizer()
	}
	if c.Tagger == nil {
		c.Tagger = analyze.NewProseTagger()
	}
	if c.Logger == nil {
		c.Logger = logger_i.NewLogger("Pipeline")
	}
}
