package pipeline

import (
	"strings"

	"whispersubs/internal/asr"
)

func fw(text string, start, end, prob float64) asr.FasterWord {
	return asr.FasterWord{Text: text, Start: start, End: end, Probability: prob}
}

// segment builds a faster-whisper segment spanning its words.
func segment(id, seek int, noSpeech float64, words ...asr.FasterWord) asr.Segment {
	seg := asr.Segment{ID: id, Seek: seek, NoSpeechProb: noSpeech}
	var text strings.Builder
	for i := range words {
		seg.Words = append(seg.Words, asr.RawWord{Faster: &words[i]})
		text.WriteString(words[i].Text)
	}
	if len(words) > 0 {
		seg.Start = words[0].Start
		seg.End = words[len(words)-1].End
	}
	seg.Text = text.String()
	return seg
}

func result(model string, segments ...asr.Segment) *asr.Result {
	var text strings.Builder
	for _, s := range segments {
		text.WriteString(s.Text)
	}
	return &asr.Result{
		Engine:   asr.EngineFaster,
		Model:    model,
		Language: "de",
		Text:     text.String(),
		Segments: segments,
	}
}

// rec builds a word record with a small positive pause.
func rec(text string, start, end float64) WordRecord {
	return WordRecord{Text: text, Start: start, End: end, Pause: 0.1, Probability: 0.9}
}

func texts(words []WordRecord) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = w.Text
	}
	return out
}

func captionTexts(captions []Caption) []string {
	out := make([]string, len(captions))
	for i, c := range captions {
		out[i] = c.Text
	}
	return out
}
