package spelling

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type spyDictionary struct {
	known map[string]bool
	calls []string
}

func (d *spyDictionary) Exists(word string) bool {
	d.calls = append(d.calls, word)
	return d.known[word]
}

func testTables(t *testing.T) *Tables {
	t.Helper()
	tables, err := NewTables(
		[]string{"zum Beispiel", "Hinz und Kunz"},
		[]string{"usw.", "z."},
		[]string{"Nummer", "ZDF"},
	)
	require.NoError(t, err)
	return tables
}

func TestCheck_SingleWordException(t *testing.T) {
	c := New(&spyDictionary{}, testTables(t))
	assert.Empty(t, c.Check([]string{"Nummer", "Nummer."}))
}

func TestCheck_HyphenChainSkipsLookup(t *testing.T) {
	dict := &spyDictionary{}
	c := New(dict, testTables(t))

	got := c.Check([]string{"Ein-Zwei-Drei-Vier-Fünf-Sechs-Sieben"})
	assert.Equal(t, map[string]int{"Ein-Zwei-Drei-Vier-Fünf-Sechs-Sieben": 1}, got)
	assert.Empty(t, dict.calls)

	c.Check([]string{"Ein-Zwei-Drei-Vier-Fünf-Sechs"})
	assert.Equal(t, []string{"Ein-Zwei-Drei-Vier-Fünf-Sechs"}, dict.calls)
}

func TestCheck_Scan(t *testing.T) {
	dict := &spyDictionary{known: map[string]bool{"Das": true, "kostet": true, "Haus": true}}
	c := New(dict, testTables(t))

	tokens := strings.Fields(`Das Haus, zum Beispiel, kostet 1.234,56 € laut §12a usw., "Hauss" und Hinz und Kunz. Hauss!`)
	got := c.Check(tokens)

	assert.Equal(t, map[string]int{"Hauss": 2, "laut": 1, "und": 1}, got)
	assert.NotContains(t, dict.calls, "zum")
	assert.NotContains(t, dict.calls, "Kunz")
	assert.NotContains(t, dict.calls, "usw")
}

func TestCheck_PhraseNeedsAllWords(t *testing.T) {
	dict := &spyDictionary{known: map[string]bool{"Beispiel": true}}
	c := New(dict, testTables(t))
	assert.Equal(t, map[string]int{"zum": 1}, c.Check([]string{"zum"}))
}

func TestCheck_Idempotent(t *testing.T) {
	c := New(&spyDictionary{known: map[string]bool{"gut": true}}, testTables(t))
	tokens := []string{"gut", "schlcht", "schlcht.", "Nummer", "a-b-c-d-e-f-g"}
	first := c.Check(tokens)
	assert.Equal(t, first, c.Check(tokens))
	assert.Equal(t, map[string]int{"schlcht": 2, "a-b-c-d-e-f-g": 1}, first)
}

func TestCheck_MissingPreconditions(t *testing.T) {
	assert.Empty(t, New(nil, nil).Check([]string{"irgendwas"}))
	assert.ErrorIs(t, New(&spyDictionary{}, nil).Ready(), ErrMissingDictionary)

	var nilChecker *Checker
	assert.Empty(t, nilChecker.Check([]string{"x"}))
}

func TestNewTables_ReportsInvalidEntries(t *testing.T) {
	tables, err := NewTables([]string{"allein"}, []string{"usw", "etc."}, []string{"zwei Wörter", "ok"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidException)
	assert.Empty(t, tables.Phrases)
	assert.Contains(t, tables.Abbreviations, "etc.")
	assert.Contains(t, tables.Words, "ok")
	assert.Len(t, tables.Words, 1)
}

func TestDecodeTables(t *testing.T) {
	tables, err := DecodeTables(strings.NewReader(`
phrases: ["Hinz und Kunz"]
abbreviations: ["bzw."]
words: [Nummer]
`))
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Hinz", "und", "Kunz"}}, tables.Phrases)
	assert.ElementsMatch(t, []string{"Nummer", "Hinz", "und", "Kunz"}, tables.Vocabulary())

	_, err = DecodeTables(strings.NewReader("unknown: [x]"))
	assert.Error(t, err)
}

func TestWordList(t *testing.T) {
	wl, err := ReadWordList(strings.NewReader("4\n# Kommentar\nHaus/SN\nlaufen/DIX\nCorona\nPandemie\n"))
	require.NoError(t, err)
	assert.Equal(t, 4, wl.Len())

	tests := []struct {
		word string
		want bool
	}{
		{"Haus", true},
		{"haus", false},
		{"Laufen", true},
		{"laufen", true},
		{"Corona-Pandemie", true},
		{"Corona-Virus", false},
		{"4", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, wl.Exists(tt.word), tt.word)
	}
}

func TestSuggest(t *testing.T) {
	s := NewSuggester([]string{"Schmidt", "Meyer", "Schmidt", ""})
	assert.Equal(t, []string{"Schmidt"}, s.Suggest("Schmitt"))
	assert.Empty(t, s.Suggest("Katze"))
	assert.Empty(t, s.Suggest("Schmidt"))

	var none *Suggester
	assert.Nil(t, none.Suggest("Schmitt"))
}

func TestReport(t *testing.T) {
	got := Report(map[string]int{"b": 1, "a": 1, "Schmitt": 3}, NewSuggester([]string{"Schmidt"}))
	require.Len(t, got, 3)
	assert.Equal(t, Finding{Token: "Schmitt", Count: 3, Suggestions: []string{"Schmidt"}}, got[0])
	assert.Equal(t, "a", got[1].Token)
	assert.Equal(t, "b", got[2].Token)
}
