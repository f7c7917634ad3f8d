package worker

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"

	"whispersubs/internal/asr"
	"whispersubs/internal/config"
	"whispersubs/internal/dictionary"
	"whispersubs/internal/metrics"
	"whispersubs/internal/pipeline"
	"whispersubs/internal/spelling"
)

// Options configures a batch run.
type Options struct {
	// Inputs are recognizer result JSON files, one per media item.
	Inputs []string
	// OutDir receives all outputs; empty writes next to each input.
	OutDir string
	Format pipeline.Format
	// Engine is assumed for results without an engine tag.
	Engine asr.Engine
	// Intro marks items that open with a title sequence.
	Intro bool
	// Model and Language override the values stored in each result.
	Model    string
	Language string

	Captions  bool
	Sentences bool

	// Jobs bounds the items processed at once; NoAsync forces one at a time.
	Jobs        int
	NoAsync     bool
	MetricsFile string
	Config      *config.Config
}

// Summary describes a finished run.
type Summary struct {
	RunID     string
	Items     int
	Failed    int
	Captions  int
	Ledger    *dictionary.Ledger
	LedgerOut string
}

// runner carries the shared, read-only collaborators of a run plus the
// run-level aggregates.
type runner struct {
	opts      Options
	processor *pipeline.Processor
	writer    pipeline.CaptionWriter
	suggest   *spelling.Suggester
	metrics   *metrics.Run
	log       *slog.Logger

	mu       sync.Mutex
	ledger   *dictionary.Ledger
	captions int
}

// Run processes every input. A failing item is logged and skipped; the
// returned error then lists all item failures alongside a valid Summary.
func Run(ctx context.Context, opts Options) (*Summary, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	runID := uuid.NewString()
	log := slog.With("run", runID)
	log.Info("run started", "items", len(opts.Inputs), "jobs", opts.Jobs, "format", opts.Format)

	dict, err := LoadDictionary(cfg.CorrectionDictionary)
	if err != nil {
		return nil, err
	}
	checker, sugg, err := LoadSpelling(cfg.Spelling, dict)
	if err != nil {
		return nil, err
	}
	cache, err := OpenCache(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer cache.Close()

	locale := cfg.LocaleTag()
	r := &runner{
		opts: opts,
		processor: &pipeline.Processor{
			Normalizer: pipeline.NewNormalizer(cache, cfg.PipelineSettings),
			Splitter:   pipeline.NewLineSplitter(dict, spellChecker(checker), cfg.PipelineSettings, locale),
		},
		writer:  pipeline.CaptionWriter{FPS: cfg.FPS, MaxCharsPerLine: cfg.MaxCharsPerLine},
		suggest: sugg,
		metrics: metrics.New(),
		log:     log,
		ledger:  dictionary.NewLedger(),
	}
	if opts.Sentences {
		r.processor.Exporter = pipeline.NewSentenceExporter(dict, locale)
	}

	start := time.Now()
	var failures *multierror.Error
	var runErr error
	if opts.NoAsync || opts.Jobs <= 1 || len(opts.Inputs) < 2 {
		failures, runErr = r.processSequential(ctx)
	} else {
		failures, runErr = r.processConcurrent(ctx)
	}

	if err := cache.Flush(ctx); err != nil {
		log.Warn("boundary cache not saved", "err", err)
	}
	hits, misses, size := cache.Stats()
	r.metrics.RecordCache(hits, misses)
	log.Debug("boundary cache", "hits", hits, "misses", misses, "entries", size)

	if runErr != nil {
		return nil, runErr
	}

	failed := 0
	if failures != nil {
		failed = len(failures.Errors)
	}
	sum := &Summary{
		RunID:    runID,
		Items:    len(opts.Inputs),
		Failed:   failed,
		Captions: r.captions,
		Ledger:   r.ledger,
	}
	if r.ledger.Len() > 0 {
		sum.LedgerOut = filepath.Join(r.runDir(), "corrections-"+runID[:8]+".yaml")
		if err := writeYAML(sum.LedgerOut, r.ledger.Entries()); err != nil {
			log.Warn("run ledger not written", "err", err)
			sum.LedgerOut = ""
		}
	}
	if opts.MetricsFile != "" {
		if err := r.metrics.WriteTextfile(opts.MetricsFile); err != nil {
			log.Warn("metrics not written", "file", opts.MetricsFile, "err", err)
		}
	}

	log.Info("run finished",
		"items", sum.Items,
		"failed", sum.Failed,
		"captions", sum.Captions,
		"corrections", r.ledger.Total(),
		"elapsed", time.Since(start).Round(time.Millisecond))
	return sum, failures.ErrorOrNil()
}

// spellChecker keeps a missing checker a nil interface.
func spellChecker(c *spelling.Checker) pipeline.SpellChecker {
	if c == nil {
		return nil
	}
	return c
}

// runDir is where run-level reports go.
func (r *runner) runDir() string {
	if r.opts.OutDir != "" {
		return r.opts.OutDir
	}
	if len(r.opts.Inputs) > 0 {
		return filepath.Dir(r.opts.Inputs[0])
	}
	return "."
}

// fold adds an item's results to the run aggregates.
func (r *runner) fold(out *pipeline.Output) {
	r.mu.Lock()
	defer r.mu.Unlock()
	// Sentences repeat the caption corrections; count them only once.
	if r.opts.Captions {
		r.ledger.Merge(out.Lines.Ledger)
		r.captions += len(out.Lines.Captions)
	} else {
		r.ledger.Merge(out.SentenceLedger)
	}
}

// recordFailure logs an item error and adds it to failures. It returns the
// context error when the run itself was cancelled.
func (r *runner) recordFailure(ctx context.Context, failures *multierror.Error, path string, err error) (*multierror.Error, error) {
	if ctx.Err() != nil {
		return failures, ctx.Err()
	}
	r.log.Error("item failed", "input", filepath.Base(path), "err", err)
	return multierror.Append(failures, fmt.Errorf("%s: %w", path, err)), nil
}
