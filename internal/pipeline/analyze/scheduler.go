package analyze

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/aksharatantra/multidecode/internal/domain/docmodel"
)

// FailurePolicy decides what one failing chunk does to the batch.
type FailurePolicy int

const (
	// FailFast fails the whole batch on the first chunk error.
	FailFast FailurePolicy = iota
	// BestEffort keeps going; failed chunks carry an error note and an
	// otherwise empty analysis.
	BestEffort
)

// AnalyzeAll runs AnalyzeChunk over every chunk with at most maxConcurrency
// analyses in flight, and returns results indexed by chunk order. Order is
// preserved regardless of completion order; final_summary and UI chunk
// numbering depend on that.
func (a *Analyzer) AnalyzeAll(ctx context.Context, chunks []docmodel.TextChunk, maxConcurrency int, policy FailurePolicy) ([]docmodel.ChunkAnalysis, error) {
	if len(chunks) == 0 {
		return []docmodel.ChunkAnalysis{}, nil
	}
	if maxConcurrency <= 0 {
		maxConcurrency = 1
	}

	results := make([]docmodel.ChunkAnalysis, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrency)
	for i, chunk := range chunks {
		g.Go(func() error {
			analysis, err := a.AnalyzeChunk(gctx, chunk)
			if err != nil {
				if policy == BestEffort && gctx.Err() == nil {
					results[i] = docmodel.ChunkAnalysis{
						ChunkNumber: chunk.Number,
						Error:       err.Error(),
					}
					return nil
				}
				return fmt.Errorf("analyze chunk %d: %w", chunk.Number, err)
			}
			results[i] = analysis
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
