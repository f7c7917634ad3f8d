package pipeline

import (
	"context"
	"fmt"

	"whispersubs/internal/asr"
	"whispersubs/internal/dictionary"
)

// Output is everything produced for one media item.
type Output struct {
	Normalized *Normalized
	Lines      *SplitResult
	Sentences  []SentenceRecord
	// SentenceLedger records the corrections applied to Sentences.
	SentenceLedger *dictionary.Ledger
}

// Processor chains the normalizer, line splitter and sentence exporter.
// Exporter may be nil when no sentence output is wanted.
type Processor struct {
	Normalizer *Normalizer
	Splitter   *LineSplitter
	Exporter   *SentenceExporter
}

// Process runs the full pipeline on one recognizer result. Nothing is
// returned for an item that fails; partial results are never exposed.
func (p *Processor) Process(ctx context.Context, res *asr.Result, opts ItemOptions) (*Output, error) {
	norm, err := p.Normalizer.Normalize(ctx, res, opts)
	if err != nil {
		return nil, fmt.Errorf("normalize %s: %w", opts.MediaID, err)
	}
	out := &Output{
		Normalized: norm,
		Lines:      p.Splitter.Split(norm.Words),
	}
	if p.Exporter != nil {
		sentences, ledger := p.Exporter.Export(norm.Words)
		out.Sentences = sentences
		out.SentenceLedger = ledger
	}
	return out, nil
}
