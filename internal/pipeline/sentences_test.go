package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"whispersubs/internal/dictionary"
)

func TestSentenceExporter_Export(t *testing.T) {
	words := []WordRecord{
		{Text: " Hallo", Start: 0, End: 0.5, SentenceStart: true},
		{Text: " Welt.", Start: 0.5, End: 1.0, Pause: 0.5, SentenceEnd: true},
		{Text: " Wie", Start: 1.5, End: 1.8, SentenceStart: true},
		{Text: " geht's?", Start: 1.8, End: 2.2, Pause: 0, SentenceEnd: true},
		{Text: " Gut.", Start: 2.2, End: 2.5, Pause: lastPause, SentenceStart: true, SentenceEnd: true},
	}
	got, ledger := NewSentenceExporter(nil, language.German).Export(words)

	want := []SentenceRecord{
		{Pause: 0, Start: 0, End: 1.0, Text: "Hallo Welt."},
		{Pause: -1, Start: 1.0, End: 1.5},
		{Pause: 0.5, Start: 1.5, End: 2.2, Text: "Wie geht's?"},
		{Pause: 0, Start: 2.2, End: 2.5, Text: "Gut."},
	}
	assert.Equal(t, want, got)
	assert.True(t, got[1].IsPauseMarker())
	assert.Zero(t, ledger.Len())
	assert.Equal(t, "Hallo Welt.\nWie geht's?\nGut.\n", SpeechText(got))
}

func TestSentenceExporter_CorrectionsAndTrailingBuffer(t *testing.T) {
	dict, err := dictionary.New([]dictionary.Entry{{Original: "Schmitt", Correction: "Schmidt", Sheet: "Namen", Row: 1}})
	require.NoError(t, err)

	words := []WordRecord{
		{Text: " Frau", Start: 0, End: 0.3, Pause: 0.1},
		{Text: " Schmitt", Start: 0.4, End: 0.8, Pause: 0.1},
		{Text: " zahlt", Start: 0.9, End: 1.2, Pause: 0.1},
		{Text: " 20", Start: 1.3, End: 1.5, Pause: 0.1},
		{Text: " Euro", Start: 1.6, End: 1.9, Pause: lastPause},
	}
	got, ledger := NewSentenceExporter(dict, language.German).Export(words)
	require.Len(t, got, 1)
	assert.Equal(t, "Frau Schmidt zahlt 20 €", got[0].Text)
	assert.Equal(t, 1, ledger.Count("Schmitt→Schmidt"))
}
