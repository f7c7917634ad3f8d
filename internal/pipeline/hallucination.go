package pipeline

import (
	"math/bits"
	"strings"

	"github.com/go-dedup/simhash"

	"whispersubs/internal/asr"
)

const (
	suspiciousNoSpeech    = 0.9
	suspiciousMaxDuration = 2.0

	burstMaxDuration    = 0.2
	noSpeechDrop        = 0.98
	boilerplateNoSpeech = 0.9

	// repeatDistance is the largest simhash Hamming distance at which two
	// consecutive segments count as a probable loop.
	repeatDistance = 3
	// repeatMinWords keeps short interjections ("Ja.") out of loop checks.
	repeatMinWords = 4
)

// boilerplateMatcher recognizes credit and sign-off phrases the recognizer
// tends to invent at the end of a recording.
type boilerplateMatcher map[string]struct{}

func newBoilerplateMatcher(phrases []string) boilerplateMatcher {
	m := make(boilerplateMatcher, len(phrases))
	for _, p := range phrases {
		m[normalizePhrase(p)] = struct{}{}
	}
	return m
}

func (m boilerplateMatcher) matches(text string) bool {
	_, ok := m[normalizePhrase(text)]
	return ok
}

func normalizePhrase(text string) string {
	text = strings.ToLower(strings.TrimSpace(normalizeQuotes(text)))
	text = strings.TrimRight(text, ".! ")
	return strings.Join(strings.Fields(text), " ")
}

// trailingHallucination decides whether the last segment of a transcript is
// invented. The first matching rule wins.
func trailingHallucination(seg asr.Segment, boilerplate boilerplateMatcher) HallucinationReason {
	switch {
	case len(strings.Fields(seg.Text)) > 1 && seg.Duration() < burstMaxDuration:
		return HallucinationShortBurst
	case seg.NoSpeechProb > noSpeechDrop:
		return HallucinationNoSpeech
	case seg.NoSpeechProb > boilerplateNoSpeech && boilerplate.matches(seg.Text):
		return HallucinationBoilerplate
	default:
		return NotHallucinated
	}
}

// isSuspicious reports a short segment the recognizer itself doubts.
func isSuspicious(seg asr.Segment) bool {
	return seg.NoSpeechProb > suspiciousNoSpeech && seg.Duration() < suspiciousMaxDuration
}

// segmentFeatures feeds word unigrams and bigrams into simhash.
type segmentFeatures struct {
	words []string
}

func (f segmentFeatures) GetFeatures() []simhash.Feature {
	features := make([]simhash.Feature, 0, 2*len(f.words))
	for i, w := range f.words {
		features = append(features, simhash.NewFeature([]byte(w)))
		if i > 0 {
			features = append(features, simhash.NewFeature([]byte(f.words[i-1]+" "+w)))
		}
	}
	return features
}

// loopDetector flags a segment that nearly repeats its predecessor, a
// typical sign of the decoder looping over silence.
type loopDetector struct {
	sh interface {
		GetSimhash(simhash.FeatureSet) uint64
	}
	prev    uint64
	hasPrev bool
}

func newLoopDetector() *loopDetector {
	return &loopDetector{sh: simhash.NewSimhash()}
}

// next returns true when text repeats the previous segment's text.
func (d *loopDetector) next(text string) bool {
	words := strings.Fields(strings.ToLower(text))
	for i, w := range words {
		words[i] = foldWord(w)
	}
	if len(words) < repeatMinWords {
		d.hasPrev = false
		return false
	}
	hash := d.sh.GetSimhash(segmentFeatures{words: words})
	repeated := d.hasPrev && bits.OnesCount64(hash^d.prev) <= repeatDistance
	d.prev, d.hasPrev = hash, true
	return repeated
}
