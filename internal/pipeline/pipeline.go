// Package pipeline is the document-processing core: detect the uploaded
// buffer's type, extract its raw text (OCR fallback for images and scanned
// PDFs), chunk it, analyze the chunks concurrently and assemble the final
// result. One invocation owns all of its intermediate state; nothing is
// shared across requests and nothing is persisted.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/aksharatantra/multidecode/internal/domain/docmodel"
	"github.com/aksharatantra/multidecode/internal/metrics"
	"github.com/aksharatantra/multidecode/internal/pipeline/analyze"
	"github.com/aksharatantra/multidecode/internal/pipeline/extract"
	"github.com/aksharatantra/multidecode/pkg/logger_i"
)

type Pipeline struct {
	cfg       Config
	extractor *extract.Extractor
	analyzer  *analyze.Analyzer
	logger    *logger_i.Logger
}

func New(cfg Config) *Pipeline {
	cfg.defaults()
	return &Pipeline{
		cfg: cfg,
		extractor: extract.NewExtractor(extract.Config{
			Engine:        cfg.Engine,
			Rasterizer:    cfg.Rasterizer,
			MinPDFTextLen: cfg.MinPDFTextLen,
			RasterizerOff: cfg.RasterizerOff,
			Languages:     cfg.OCRLanguages,
			Logger:        cfg.Logger,
		}),
		analyzer: analyze.NewAnalyzer(cfg.Tagger, cfg.MaxKeywords, cfg.MaxSummary, cfg.MaxHighlights),
		logger:   cfg.Logger,
	}
}

// Stage identifies the pipeline phase currently running, for progress
// reporting on long documents.
type Stage string

const (
	StageDetecting  Stage = "detecting"
	StageExtracting Stage = "extracting"
	StageChunking   Stage = "chunking"
	StageAnalyzing  Stage = "analyzing"
)

// ProcessOptions carries per-invocation overrides on top of the Pipeline's
// Config.
type ProcessOptions struct {
	// Languages overrides Config.OCRLanguages for direct image OCR when
	// non-empty.
	Languages []string

	// OnStage is called at every stage transition, so async job status can
	// follow the document through the pipeline.
	OnStage func(Stage)
}

// ProcessFile runs the whole pipeline over the file at path. Stages run
// strictly in order; chunk analysis is the only parallel region. An extracted
// text of zero chunks is still a success: total_chunks 0, empty analysis,
// empty final summary.
func (p *Pipeline) ProcessFile(ctx context.Context, path string) (*docmodel.ProcessResult, error) {
	return p.ProcessFileWithOptions(ctx, path, ProcessOptions{})
}

func (p *Pipeline) ProcessFileWithOptions(ctx context.Context, path string, opts ProcessOptions) (*docmodel.ProcessResult, error) {
	notify := func(s Stage) {
		if opts.OnStage != nil {
			opts.OnStage(s)
		}
	}
	start := time.Now()
	fileType := "unknown"
	status := "error"
	defer func() {
		metrics.CaptureFileProcessed(fileType, status, time.Since(start))
	}()

	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}

	notify(StageDetecting)
	ft, err := DetectFileType(buf)
	if err != nil {
		return nil, err
	}
	fileType = ft.Ext
	p.logger.Debug("detected file type", "mime", ft.MIME, "ext", ft.Ext)

	notify(StageExtracting)
	extracted, err := p.extractor.Extract(ctx, buf, path, ft, opts.Languages)
	if err != nil {
		return nil, err
	}

	notify(StageChunking)
	chunks := analyze.NumberChunks(analyze.SplitChunks(extracted.Text, p.cfg.ChunkSize, p.cfg.Overlap))
	p.logger.Debug("chunked extracted text", "chunks", len(chunks), "textLen", len(extracted.Text))

	notify(StageAnalyzing)
	analyses, err := p.analyzer.AnalyzeAll(ctx, chunks, p.cfg.MaxConcurrency, p.cfg.FailurePolicy)
	if err != nil {
		return nil, err
	}

	status = "ok"
	return &docmodel.ProcessResult{
		TotalChunks:  len(chunks),
		FileType:     ft.Ext,
		ImageInfo:    extracted.Image,
		Analysis:     analyses,
		FinalSummary: joinSummaries(analyses),
	}, nil
}

// joinSummaries concatenates every chunk's summary sentences in chunk order.
func joinSummaries(analyses []docmodel.ChunkAnalysis) string {
	var parts []string
	for _, a := range analyses {
		parts = append(parts, a.Summary...)
	}
	return strings.Join(parts, " ")
}
