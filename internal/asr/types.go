// Package asr holds the recognizer result types consumed by the caption
// pipeline and resolves the per-engine word representations into one shape.
package asr

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Engine identifies the recognizer family that produced a result.
type Engine string

const (
	// EngineFaster emits words as [start, end, text, probability] tuples.
	EngineFaster Engine = "faster-whisper"
	// EngineWhisper emits {word, start, end, probability} objects.
	EngineWhisper Engine = "whisper"
	// EngineTimestamped emits {text, start, end, confidence} objects.
	EngineTimestamped Engine = "whisper-timestamped"
)

// ParseEngine maps an engine name to its Engine tag.
func ParseEngine(name string) (Engine, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "faster-whisper", "faster", "fasterwhisper":
		return EngineFaster, nil
	case "whisper", "openai-whisper":
		return EngineWhisper, nil
	case "whisper-timestamped", "timestamped":
		return EngineTimestamped, nil
	default:
		return "", fmt.Errorf("asr: unknown engine %q", name)
	}
}

// Result is the top-level recognizer output for one media item.
type Result struct {
	Engine   Engine    `json:"engine,omitempty"`
	Model    string    `json:"model,omitempty"`
	Language string    `json:"language,omitempty"`
	Text     string    `json:"text"`
	Segments []Segment `json:"segments"`
}

// Segment is a recognizer-native grouping of words.
type Segment struct {
	ID               int       `json:"id"`
	Seek             int       `json:"seek"`
	Start            float64   `json:"start"`
	End              float64   `json:"end"`
	Text             string    `json:"text"`
	NoSpeechProb     float64   `json:"no_speech_prob"`
	CompressionRatio float64   `json:"compression_ratio"`
	Words            []RawWord `json:"words"`
}

// Duration returns the segment length in seconds.
func (s Segment) Duration() float64 {
	return s.End - s.Start
}

// Load reads a recognizer result from a JSON file. When the file carries no
// engine tag, fallback is used.
func Load(path string, fallback Engine) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("asr: read %s: %w", path, err)
	}
	var res Result
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("asr: parse %s: %w", path, err)
	}
	if res.Engine == "" {
		res.Engine = fallback
	} else {
		engine, err := ParseEngine(string(res.Engine))
		if err != nil {
			return nil, err
		}
		res.Engine = engine
	}
	if err := res.Validate(); err != nil {
		return nil, err
	}
	return &res, nil
}
