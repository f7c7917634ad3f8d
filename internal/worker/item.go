package worker

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"whispersubs/internal/asr"
	"whispersubs/internal/pipeline"
	"whispersubs/internal/spelling"
)

// itemReport is the per-item YAML report next to the captions.
type itemReport struct {
	Input                 string                           `yaml:"input"`
	Words                 int                              `yaml:"words"`
	Sentences             int                              `yaml:"sentences"`
	MeanConfidence        float64                          `yaml:"mean_confidence"`
	StddevConfidence      float64                          `yaml:"stddev_confidence"`
	TrailingHallucination string                           `yaml:"trailing_hallucination,omitempty"`
	HallucinationReason   int                              `yaml:"hallucination_reason,omitempty"`
	Suspicious            []pipeline.SegmentNote           `yaml:"suspicious,omitempty"`
	Repetitions           []pipeline.RepetitionError       `yaml:"repetitions,omitempty"`
	Pauses                map[string][]pipeline.PauseError `yaml:"pauses,omitempty"`
}

// processItem runs one input through the pipeline and writes its outputs.
// Outputs are only written once the whole item succeeded.
func (r *runner) processItem(ctx context.Context, path string) (err error) {
	start := time.Now()
	defer func() { r.metrics.RecordItem(err == nil, time.Since(start)) }()

	res, err := asr.Load(path, r.opts.Engine)
	if err != nil {
		return err
	}
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	out, err := r.processor.Process(ctx, res, pipeline.ItemOptions{
		MediaID:  base,
		Intro:    r.opts.Intro,
		Model:    r.opts.Model,
		Language: r.opts.Language,
	})
	if err != nil {
		return err
	}

	dir := r.opts.OutDir
	if dir == "" {
		dir = filepath.Dir(path)
	}
	stem := filepath.Join(dir, base)

	// Every file is staged first so a failing item leaves nothing behind.
	var files outputs
	defer files.discard()

	if r.opts.Captions {
		files.add(stem+"."+string(r.opts.Format), []byte(r.writer.Render(out.Lines.Captions, r.opts.Format)))
		files.add(stem+".debug.txt", []byte(out.Lines.DebugText))
		if len(out.Lines.SpellingFailures) > 0 {
			files.addYAML(stem+".spelling.yaml", spelling.Report(out.Lines.SpellingFailures, r.suggest))
		}
		if out.Lines.Ledger.Len() > 0 {
			files.addYAML(stem+".corrections.yaml", out.Lines.Ledger.Entries())
		}
	}
	if r.opts.Sentences {
		files.addJSON(stem+".sentences.json", out.Sentences)
		files.add(stem+".speech.txt", []byte(pipeline.SpeechText(out.Sentences)))
	}
	files.addYAML(stem+".report.yaml", r.report(path, out))
	if err := files.commit(); err != nil {
		return err
	}

	r.recordMetrics(out)
	r.fold(out)
	r.log.Info("item done",
		"input", filepath.Base(path),
		"captions", len(out.Lines.Captions),
		"sentences", len(out.Sentences),
		"spelling_failures", len(out.Lines.SpellingFailures),
		"took", time.Since(start).Round(time.Millisecond))
	return nil
}

func (r *runner) report(path string, out *pipeline.Output) itemReport {
	n := out.Normalized
	return itemReport{
		Input:                 path,
		Words:                 len(n.Words),
		Sentences:             n.SentenceCount,
		MeanConfidence:        n.MeanConfidence,
		StddevConfidence:      n.StddevConfidence,
		TrailingHallucination: n.TrailingHallucination,
		HallucinationReason:   int(n.HallucinationReason),
		Suspicious:            n.Suspicious,
		Repetitions:           n.Repetitions,
		Pauses:                n.Pauses,
	}
}

func (r *runner) recordMetrics(out *pipeline.Output) {
	m := r.metrics
	m.CaptionsTotal.Add(float64(len(out.Lines.Captions)))
	for rule, n := range out.Lines.RuleHits {
		m.LineRulesTotal.WithLabelValues(rule).Add(float64(n))
	}
	if reason := out.Normalized.HallucinationReason; reason != pipeline.NotHallucinated {
		m.HallucinationsTotal.WithLabelValues(reason.String()).Inc()
	}
	for _, rep := range out.Normalized.Repetitions {
		m.RepetitionsTotal.WithLabelValues(string(rep.Kind), fmt.Sprint(rep.Merged)).Inc()
	}
	m.CorrectionsTotal.Add(float64(out.Lines.Ledger.Total()))
	for _, n := range out.Lines.SpellingFailures {
		m.SpellingFailuresTotal.Add(float64(n))
	}
}

func writeYAML(path string, v any) error {
	var files outputs
	defer files.discard()
	files.addYAML(path, v)
	return files.commit()
}
