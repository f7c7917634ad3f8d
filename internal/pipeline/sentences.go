package pipeline

import (
	"strings"

	"golang.org/x/text/language"

	"whispersubs/internal/dictionary"
)

// SentenceExporter groups normalized words into whole sentences for speech
// synthesis, with pause markers between them.
type SentenceExporter struct {
	correct *corrector
}

// NewSentenceExporter returns an exporter applying the same corrections as
// the line splitter. dict may be nil.
func NewSentenceExporter(dict *dictionary.Dictionary, locale language.Tag) *SentenceExporter {
	return &SentenceExporter{correct: newCorrector(dict, locale)}
}

// Export returns the sentences of words and the corrections applied to them.
func (e *SentenceExporter) Export(words []WordRecord) ([]SentenceRecord, *dictionary.Ledger) {
	ledger := dictionary.NewLedger()
	var out []SentenceRecord
	var buffer []WordRecord
	pause := 0.0

	for i, w := range words {
		buffer = append(buffer, w)
		last := i == len(words)-1
		if !w.SentenceEnd && !last {
			continue
		}

		var raw strings.Builder
		for _, b := range buffer {
			raw.WriteString(b.Text)
		}
		start := buffer[0].Start
		buffer = buffer[:0]
		text := strings.TrimSpace(e.correct.apply(strings.TrimSpace(raw.String()), ledger))
		if text == "" {
			continue
		}
		out = append(out, SentenceRecord{Pause: pause, Start: start, End: w.End, Text: text})

		if last || w.Pause <= 0 {
			pause = 0
			continue
		}
		pause = w.Pause
		out = append(out, SentenceRecord{Pause: -1, Start: w.End, End: words[i+1].Start})
	}
	return out, ledger
}

// SpeechText returns the sentences without pause markers, one per line.
func SpeechText(records []SentenceRecord) string {
	var b strings.Builder
	for _, r := range records {
		if r.IsPauseMarker() {
			continue
		}
		b.WriteString(r.Text)
		b.WriteByte('\n')
	}
	return b.String()
}
