package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"whispersubs/internal/asr"
	"whispersubs/internal/boundary"
	"whispersubs/internal/config"
)

// ErrEmptyTranscript is returned when a result carries no transcribable text.
var ErrEmptyTranscript = errors.New("empty transcript")

// ItemOptions describe the media item being normalized.
type ItemOptions struct {
	MediaID string
	// Intro items may open with a long silent title sequence.
	Intro bool
	// Model and Language override the values stored in the result.
	Model    string
	Language string
}

// Normalized is the word-level view of one media item.
type Normalized struct {
	Words            []WordRecord
	SentenceCount    int
	MeanConfidence   float64
	StddevConfidence float64

	// TrailingHallucination is the text of the dropped last segment, if any.
	TrailingHallucination string
	HallucinationReason   HallucinationReason

	Suspicious  []SegmentNote
	Repetitions []RepetitionError
	Pauses      map[string][]PauseError
}

// Normalizer turns recognizer results into word records. It is safe for
// concurrent use when its cache is.
type Normalizer struct {
	cache       *boundary.Cache
	settings    config.PipelineSettings
	boilerplate boilerplateMatcher
}

// NewNormalizer returns a Normalizer that looks up sentence boundaries
// through cache. A nil cache uses an in-memory cache over the built-in
// punctuation oracle.
func NewNormalizer(cache *boundary.Cache, settings config.PipelineSettings) *Normalizer {
	if cache == nil {
		cache = boundary.NewCache(boundary.NewPunctuationOracle(), nil)
	}
	return &Normalizer{
		cache:       cache,
		settings:    settings,
		boilerplate: newBoilerplateMatcher(settings.BoilerplatePhrases),
	}
}

// Normalize builds the word records of res.
func (n *Normalizer) Normalize(ctx context.Context, res *asr.Result, opts ItemOptions) (*Normalized, error) {
	if strings.TrimSpace(res.Text) == "" {
		return nil, ErrEmptyTranscript
	}
	model := firstNonEmpty(opts.Model, res.Model)
	lang := firstNonEmpty(opts.Language, res.Language)
	log := slog.With("media", opts.MediaID)

	out := &Normalized{}
	segments := n.screenSegments(res.Segments, out, log)

	out.Pauses = detectPauseAnomalies(segments, opts.Intro)
	for category, found := range out.Pauses {
		for _, p := range found {
			log.Warn("long pause before segment", "category", category, "at", p.Timestamp, "gap", p.Gap, "threshold", p.Threshold)
		}
	}

	candidates, text := collectWords(segments)
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyTranscript
	}

	set, err := n.cache.Lookup(ctx, text, lang)
	if err != nil {
		return nil, fmt.Errorf("sentence boundaries: %w", err)
	}

	filter := repetitionFilter{
		restrictive: n.settings.IsRestrictive(model),
		words:       make([]WordRecord, 0, len(candidates)),
	}
	var offsets offsetTracker
	for _, w := range candidates {
		start, end := offsets.next(w.Text)
		markSentences(&w, set, start, end)
		filter.push(w)
	}
	out.Words = filter.words
	out.Repetitions = filter.found
	for _, r := range out.Repetitions {
		attrs := []any{"kind", r.Kind, "words", r.Words, "at", clock(r.Start), "model", model}
		switch {
		case r.Merged:
			log.Info("repetition merged", attrs...)
		case r.Fatal:
			log.Error("repetition on model without inner prompts", attrs...)
		default:
			log.Warn("repetition", attrs...)
		}
	}

	finalizePauses(out.Words)
	for _, w := range out.Words {
		if w.SentenceEnd {
			out.SentenceCount++
		}
	}
	out.MeanConfidence, out.StddevConfidence = confidence(out.Words)

	log.Debug("normalized",
		"words", len(out.Words),
		"sentences", out.SentenceCount,
		"confidence", out.MeanConfidence,
		"boundaries", set.Len())
	return out, nil
}

// screenSegments logs suspicious segments and drops a hallucinated last
// segment, recording it in out.
func (n *Normalizer) screenSegments(segments []asr.Segment, out *Normalized, log *slog.Logger) []asr.Segment {
	loops := newLoopDetector()
	for _, seg := range segments {
		repeated := loops.next(seg.Text)
		switch {
		case isSuspicious(seg):
			out.Suspicious = append(out.Suspicious, noteFor(seg, "no-speech"))
			log.Warn("suspicious segment", "id", seg.ID, "at", clock(seg.Start), "no_speech_prob", seg.NoSpeechProb, "text", seg.Text)
		case repeated:
			out.Suspicious = append(out.Suspicious, noteFor(seg, "repeated"))
			log.Warn("segment repeats its predecessor", "id", seg.ID, "at", clock(seg.Start), "text", seg.Text)
		}
	}

	if len(segments) == 0 {
		return segments
	}
	last := segments[len(segments)-1]
	reason := trailingHallucination(last, n.boilerplate)
	if reason == NotHallucinated {
		if n.boilerplate.matches(last.Text) {
			log.Warn("boilerplate last segment kept", "id", last.ID, "no_speech_prob", last.NoSpeechProb, "text", last.Text)
		}
		return segments
	}

	out.TrailingHallucination = strings.TrimSpace(last.Text)
	out.HallucinationReason = reason
	log.Warn("trailing hallucination dropped",
		"reason", int(reason),
		"rule", reason.String(),
		"no_speech_prob", last.NoSpeechProb,
		"text", out.TrailingHallucination)
	return segments[:len(segments)-1]
}

func noteFor(seg asr.Segment, reason string) SegmentNote {
	return SegmentNote{
		ID:           seg.ID,
		Start:        seg.Start,
		End:          seg.End,
		Text:         strings.TrimSpace(seg.Text),
		NoSpeechProb: seg.NoSpeechProb,
		Reason:       reason,
	}
}

// confidence returns the mean and population standard deviation of the
// word probabilities.
func confidence(words []WordRecord) (mean, stddev float64) {
	if len(words) == 0 {
		return 0, 0
	}
	for _, w := range words {
		mean += w.Probability
	}
	mean /= float64(len(words))
	for _, w := range words {
		d := w.Probability - mean
		stddev += d * d
	}
	return mean, math.Sqrt(stddev / float64(len(words)))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
