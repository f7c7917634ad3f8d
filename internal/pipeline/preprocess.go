package pipeline

import (
	"strings"
	"unicode/utf8"

	"whispersubs/internal/asr"
	"whispersubs/internal/boundary"
)

// collectWords resolves the engine-native words of every segment into word
// records and returns them with the transcript text they concatenate to.
// Placeholder words are skipped. Pause stays -1 until finalizePauses runs.
func collectWords(segments []asr.Segment) ([]WordRecord, string) {
	var words []WordRecord
	var text strings.Builder

	for _, seg := range segments {
		first := len(words)
		for _, raw := range seg.Words {
			w, ok := raw.Resolve()
			if !ok {
				continue
			}
			rec := WordRecord{
				Text:        normalizeQuotes(w.Text),
				Start:       w.Start,
				End:         w.End,
				Pause:       -1,
				Probability: w.Probability,
			}
			words = append(words, rec)
			text.WriteString(rec.Text)
		}
		if len(words) > first {
			words[first].SegmentStart = true
			words[len(words)-1].SegmentEnd = true
		}
	}
	return words, text.String()
}

// offsetTracker maps word positions onto character offsets of the
// transcript text. Offsets count runes, as the boundary oracle does.
type offsetTracker struct {
	consumed int
}

// next returns the start and end offsets of text and advances past it. A
// leading space belongs to the gap, not to the word.
func (t *offsetTracker) next(text string) (start, end int) {
	start = t.consumed
	if strings.HasPrefix(text, " ") {
		start++
	}
	t.consumed += utf8.RuneCountInString(text)
	return start, t.consumed
}

// markSentences sets the sentence flags of w from the boundary set.
func markSentences(w *WordRecord, set boundary.Set, start, end int) {
	w.SentenceStart = set.IsStart(start)
	w.SentenceEnd = set.IsEnd(end)
}
