package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"whispersubs/internal/asr"
	"whispersubs/internal/config"
)

func testProcessor(withSentences bool) *Processor {
	cfg := config.Default()
	p := &Processor{
		Normalizer: NewNormalizer(nil, cfg.PipelineSettings),
		Splitter:   NewLineSplitter(nil, nil, cfg.PipelineSettings, language.German),
	}
	if withSentences {
		p.Exporter = NewSentenceExporter(nil, language.German)
	}
	return p
}

func TestProcess_SingleSentence(t *testing.T) {
	res := result("medium", segment(0, 0, 0.1,
		fw(" Hallo", 0, 0.5, 0.9), fw(" Welt", 0.5, 0.9, 0.9), fw(".", 0.9, 1.0, 0.9)))

	out, err := testProcessor(true).Process(context.Background(), res, ItemOptions{MediaID: "a"})
	require.NoError(t, err)
	require.Len(t, out.Lines.Captions, 1)
	assert.Equal(t, "Hallo Welt.", out.Lines.Captions[0].Text)
	require.Len(t, out.Sentences, 1)
	assert.Equal(t, "Hallo Welt.", out.Sentences[0].Text)

	srt := CaptionWriter{FPS: 30}.Render(out.Lines.Captions, FormatSRT)
	assert.Equal(t, "1\n00:00:00,002 --> 00:00:01,002\nHallo Welt.\n\n", srt)
}

func TestProcess_WhisperEngine(t *testing.T) {
	res := &asr.Result{
		Engine: asr.EngineWhisper,
		Text:   " Guten Morgen. Wie geht es?",
		Segments: []asr.Segment{{
			Start: 0, End: 3,
			Text: " Guten Morgen. Wie geht es?",
			Words: []asr.RawWord{
				{Whisper: &asr.WhisperWord{Word: " Guten", Start: 0, End: 0.4, Probability: 0.9}},
				{Whisper: &asr.WhisperWord{Word: " Morgen.", Start: 0.4, End: 1.0, Probability: 0.9}},
				{Whisper: &asr.WhisperWord{Word: " Wie", Start: 1.6, End: 1.9, Probability: 0.9}},
				{Whisper: &asr.WhisperWord{Word: " geht", Start: 1.9, End: 2.2, Probability: 0.9}},
				{Whisper: &asr.WhisperWord{Word: " es?", Start: 2.2, End: 2.6, Probability: 0.9}},
			},
		}},
	}

	out, err := testProcessor(false).Process(context.Background(), res, ItemOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, out.Normalized.SentenceCount)
	assert.Equal(t, []string{"Guten Morgen.", "Wie geht es?"}, captionTexts(out.Lines.Captions))
	assert.Nil(t, out.Sentences)
}

func TestProcess_EmptyTranscript(t *testing.T) {
	_, err := testProcessor(true).Process(context.Background(), &asr.Result{}, ItemOptions{MediaID: "empty"})
	assert.ErrorIs(t, err, ErrEmptyTranscript)
}
