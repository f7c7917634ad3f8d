package pipeline

// lastPause is the pause assigned to the final word, which has no successor.
const lastPause = 1.0

// WordRecord is one recognized word with derived boundary flags.
type WordRecord struct {
	// Text keeps the recognizer's leading-space convention (" Hallo").
	Text          string  `json:"word"`
	Start         float64 `json:"start"`
	End           float64 `json:"end"`
	Duration      float64 `json:"duration"`
	Pause         float64 `json:"pause"` // -1 until finalized
	Probability   float64 `json:"probability"`
	SentenceStart bool    `json:"sentence_start"`
	SentenceEnd   bool    `json:"sentence_end"`
	SegmentStart  bool    `json:"segment_start"`
	SegmentEnd    bool    `json:"segment_end"`
}

// Caption is one display line of the caption file.
type Caption struct {
	Section int     `json:"section"`
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Text    string  `json:"text"`
}

// SentenceRecord is one sentence for speech synthesis. Pause is the silence
// before the sentence; pause markers carry Pause == -1 and empty Text.
type SentenceRecord struct {
	Pause float64 `json:"pause"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// IsPauseMarker reports whether s stands for a silence gap.
func (s SentenceRecord) IsPauseMarker() bool {
	return s.Pause == -1
}

// RepetitionKind distinguishes single from dual word repetitions.
type RepetitionKind string

const (
	RepetitionSingle RepetitionKind = "single"
	RepetitionDual   RepetitionKind = "dual"
)

// RepetitionError records a repeated word or word pair.
type RepetitionError struct {
	Kind RepetitionKind `json:"kind"`
	// Words is the repeated text: one word for single, two for dual.
	Words []string `json:"words"`
	Start float64  `json:"start"`
	End   float64  `json:"end"`
	// Merged is true when the repetition was removed from the output.
	Merged bool `json:"merged"`
	// Fatal is true for models that forbid inner prompts.
	Fatal bool `json:"fatal"`
}

// Pause anomaly categories.
const (
	PauseIntroStart  = "introStart"
	PauseNormalStart = "normalStart"
	PauseInner       = "innerPause"
)

// PauseError records an unusually long silence ahead of a segment.
type PauseError struct {
	Threshold float64 `json:"threshold"`
	Timestamp string  `json:"timestamp"`
	Gap       float64 `json:"gap"`
}

// HallucinationReason tells which rule dropped the trailing segment.
type HallucinationReason int

const (
	NotHallucinated HallucinationReason = iota
	// HallucinationShortBurst: several words squeezed into under 0.2s.
	HallucinationShortBurst
	// HallucinationNoSpeech: no-speech probability above 0.98.
	HallucinationNoSpeech
	// HallucinationBoilerplate: known credit or sign-off phrase.
	HallucinationBoilerplate
)

func (r HallucinationReason) String() string {
	switch r {
	case HallucinationShortBurst:
		return "short-burst"
	case HallucinationNoSpeech:
		return "no-speech"
	case HallucinationBoilerplate:
		return "boilerplate"
	default:
		return "none"
	}
}

// SegmentNote flags a segment that was kept but looks suspicious.
type SegmentNote struct {
	ID           int     `json:"id"`
	Start        float64 `json:"start"`
	End          float64 `json:"end"`
	Text         string  `json:"text"`
	NoSpeechProb float64 `json:"no_speech_prob"`
	Reason       string  `json:"reason"`
}
