package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"

	"whispersubs/internal/asr"
	"whispersubs/internal/pipeline"
	"whispersubs/internal/worker"
)

// batchFlags are shared by the commands that process recognizer results.
type batchFlags struct {
	format      string
	engine      string
	model       string
	language    string
	intro       bool
	outDir      string
	jobs        int
	noAsync     bool
	metricsFile string
}

func (f *batchFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.engine, "engine", "e", string(asr.EngineFaster), "engine for results without an engine tag: faster-whisper, whisper, whisper-timestamped")
	cmd.Flags().StringVarP(&f.model, "model", "m", "", "recognizer model name (default: taken from each result)")
	cmd.Flags().StringVarP(&f.language, "language", "l", "", "transcript language (default: taken from each result)")
	cmd.Flags().BoolVar(&f.intro, "intro", false, "items open with a title sequence")
	cmd.Flags().StringVarP(&f.outDir, "out-dir", "o", "", "output directory (default: next to each input)")
	cmd.Flags().IntVarP(&f.jobs, "jobs", "j", 0, "items processed at once (default: jobs from config)")
	cmd.Flags().BoolVar(&f.noAsync, "no-async", false, "process items one at a time")
	cmd.Flags().StringVar(&f.metricsFile, "metrics-file", "", "write Prometheus textfile metrics here")
}

// options resolves the flags against the configuration.
func (f *batchFlags) options(args []string) (worker.Options, error) {
	cfg, err := loadConfig()
	if err != nil {
		return worker.Options{}, err
	}
	engine, err := asr.ParseEngine(f.engine)
	if err != nil {
		return worker.Options{}, err
	}
	format := pipeline.FormatSRT
	if f.format != "" {
		if format, err = pipeline.ParseFormat(f.format); err != nil {
			return worker.Options{}, err
		}
	}

	inputs := make([]string, 0, len(args))
	for _, arg := range args {
		abs, err := filepath.Abs(arg)
		if err != nil {
			return worker.Options{}, fmt.Errorf("resolve path: %w", err)
		}
		if _, err := os.Stat(abs); os.IsNotExist(err) {
			return worker.Options{}, fmt.Errorf("file not found: %s", arg)
		}
		inputs = append(inputs, abs)
	}

	jobs := cfg.Jobs
	if f.jobs > 0 {
		jobs = f.jobs
	}
	return worker.Options{
		Inputs:      inputs,
		OutDir:      f.outDir,
		Format:      format,
		Engine:      engine,
		Intro:       f.intro,
		Model:       f.model,
		Language:    f.language,
		Jobs:        jobs,
		NoAsync:     f.noAsync,
		MetricsFile: f.metricsFile,
		Config:      cfg,
	}, nil
}

// runBatch runs the worker and reports the summary. Item failures make the
// command fail after every other item was written.
func runBatch(opts worker.Options) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sum, err := worker.Run(ctx, opts)
	if sum == nil {
		return err
	}

	if !quiet {
		attrs := []any{"items", sum.Items, "failed", sum.Failed, "corrections", sum.Ledger.Total()}
		if opts.Captions {
			attrs = append(attrs, "captions", sum.Captions)
		}
		if sum.LedgerOut != "" {
			attrs = append(attrs, "ledger", sum.LedgerOut)
		}
		slog.Info("done", attrs...)
	}

	var merr *multierror.Error
	if errors.As(err, &merr) {
		return fmt.Errorf("%d of %d items failed", len(merr.Errors), sum.Items)
	}
	return err
}
