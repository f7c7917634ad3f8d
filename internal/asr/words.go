package asr

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// skipToken marks placeholder words emitted by whisper-timestamped for
// non-speech spans.
const skipToken = "[*]"

// FasterWord is the faster-whisper word tuple.
type FasterWord struct {
	Start       float64
	End         float64
	Text        string
	Probability float64
}

// WhisperWord is the openai-whisper word object.
type WhisperWord struct {
	Word        string  `json:"word"`
	Start       float64 `json:"start"`
	End         float64 `json:"end"`
	Probability float64 `json:"probability"`
}

// TimestampedWord is the whisper-timestamped word object.
type TimestampedWord struct {
	Text       string  `json:"text"`
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	Confidence float64 `json:"confidence"`
}

// RawWord is an engine-native word. Exactly one payload is set.
type RawWord struct {
	Faster      *FasterWord
	Whisper     *WhisperWord
	Timestamped *TimestampedWord
}

// Word is the engine-neutral form of a recognized word. Text keeps the
// recognizer's leading-space convention.
type Word struct {
	Text        string
	Start       float64
	End         float64
	Probability float64
}

// Resolve converts the payload into a Word. ok is false for placeholder
// words that must be skipped.
func (w RawWord) Resolve() (Word, bool) {
	switch {
	case w.Faster != nil:
		return Word{Text: w.Faster.Text, Start: w.Faster.Start, End: w.Faster.End, Probability: w.Faster.Probability}, true
	case w.Whisper != nil:
		return Word{Text: w.Whisper.Word, Start: w.Whisper.Start, End: w.Whisper.End, Probability: w.Whisper.Probability}, true
	case w.Timestamped != nil:
		if strings.TrimSpace(w.Timestamped.Text) == skipToken {
			return Word{}, false
		}
		return Word{
			Text:        withLeadingSpace(w.Timestamped.Text),
			Start:       w.Timestamped.Start,
			End:         w.Timestamped.End,
			Probability: w.Timestamped.Confidence,
		}, true
	default:
		return Word{}, false
	}
}

// withLeadingSpace restores the leading space that whisper-timestamped
// drops, except for punctuation that attaches to the previous word.
func withLeadingSpace(text string) string {
	if text == "" || strings.HasPrefix(text, " ") {
		return text
	}
	if strings.ContainsRune(".,:;!?…)]", []rune(text)[0]) {
		return text
	}
	return " " + text
}

// UnmarshalJSON picks the payload from the JSON shape: arrays are
// faster-whisper tuples, objects carry either "word" or "text".
func (w *RawWord) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("asr: empty word")
	}
	if data[0] == '[' {
		var tuple []json.RawMessage
		if err := json.Unmarshal(data, &tuple); err != nil {
			return fmt.Errorf("asr: word tuple: %w", err)
		}
		if len(tuple) < 4 {
			return fmt.Errorf("asr: word tuple has %d fields, want 4", len(tuple))
		}
		var fw FasterWord
		for i, dst := range []any{&fw.Start, &fw.End, &fw.Text, &fw.Probability} {
			if err := json.Unmarshal(tuple[i], dst); err != nil {
				return fmt.Errorf("asr: word tuple field %d: %w", i, err)
			}
		}
		*w = RawWord{Faster: &fw}
		return nil
	}

	var shape struct {
		Word *string `json:"word"`
		Text *string `json:"text"`
	}
	if err := json.Unmarshal(data, &shape); err != nil {
		return fmt.Errorf("asr: word object: %w", err)
	}
	switch {
	case shape.Word != nil:
		var ww WhisperWord
		if err := json.Unmarshal(data, &ww); err != nil {
			return fmt.Errorf("asr: whisper word: %w", err)
		}
		*w = RawWord{Whisper: &ww}
	case shape.Text != nil:
		var tw TimestampedWord
		if err := json.Unmarshal(data, &tw); err != nil {
			return fmt.Errorf("asr: timestamped word: %w", err)
		}
		*w = RawWord{Timestamped: &tw}
	default:
		return fmt.Errorf("asr: word object without \"word\" or \"text\": %s", data)
	}
	return nil
}

// MarshalJSON writes the payload back in its engine-native shape.
func (w RawWord) MarshalJSON() ([]byte, error) {
	switch {
	case w.Faster != nil:
		return json.Marshal([]any{w.Faster.Start, w.Faster.End, w.Faster.Text, w.Faster.Probability})
	case w.Whisper != nil:
		return json.Marshal(w.Whisper)
	case w.Timestamped != nil:
		return json.Marshal(w.Timestamped)
	default:
		return []byte("null"), nil
	}
}

// Engine reports which recognizer family produced the payload.
func (w RawWord) Engine() Engine {
	switch {
	case w.Faster != nil:
		return EngineFaster
	case w.Whisper != nil:
		return EngineWhisper
	case w.Timestamped != nil:
		return EngineTimestamped
	default:
		return ""
	}
}

// Validate checks that every word payload matches the result's engine tag.
func (r *Result) Validate() error {
	for _, seg := range r.Segments {
		for i, w := range seg.Words {
			got := w.Engine()
			if got == "" {
				return fmt.Errorf("asr: segment %d word %d has no payload", seg.ID, i)
			}
			if r.Engine != "" && got != r.Engine {
				return fmt.Errorf("asr: segment %d word %d is a %s word, result is tagged %s", seg.ID, i, got, r.Engine)
			}
		}
	}
	return nil
}
