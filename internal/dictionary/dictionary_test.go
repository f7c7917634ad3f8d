package dictionary

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DropsInvalidEntries(t *testing.T) {
	d, err := New([]Entry{
		{Original: "Meier", Correction: "Meyer", Sheet: "Namen", Row: 1},
		{Original: "Meier", Correction: "Mayer", Sheet: "Namen", Row: 2},
		{Original: "gleich", Correction: "gleich", Sheet: "Fach", Row: 3},
		{Original: "", Correction: "x", Sheet: "Fach", Row: 4},
		{Original: "Juli Brief", Correction: "Juli-Brief", Sheet: "Fach", Row: 5},
	})
	require.NotNil(t, d)
	require.ErrorIs(t, err, ErrInvalidEntry)
	assert.Len(t, Violations(err), 3)
	assert.Equal(t, 2, d.Len())

	// The first occurrence of a duplicate wins; nothing is overwritten.
	ledger := NewLedger()
	assert.Equal(t, "Herr Meyer", d.Apply("Herr Meier", ledger))
	assert.Equal(t, 1, ledger.Count("Meier→Meyer"))
}

func TestNew_AllValid(t *testing.T) {
	d, err := New([]Entry{{Original: "a", Correction: "b"}})
	require.NoError(t, err)
	assert.Nil(t, Violations(err))
	assert.Equal(t, 1, d.Len())
}

func TestDictionary_LongestOriginalFirst(t *testing.T) {
	d, err := New([]Entry{
		{Original: "Meier", Correction: "Meyer", Sheet: "Namen", Row: 1},
		{Original: "Frau Meier", Correction: "Frau Dr. Meier", Sheet: "Namen", Row: 2},
	})
	require.NoError(t, err)

	entries := d.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "Frau Meier", entries[0].Original)

	ledger := NewLedger()
	got := d.Apply("Frau Meier und Herr Meier", ledger)
	assert.Equal(t, "Frau Dr. Meyer und Herr Meyer", got)
	assert.Equal(t, 1, ledger.Count("Frau Meier→Frau Dr. Meier"))
	assert.Equal(t, 2, ledger.Count("Meier→Meyer"))
}

func TestDictionary_NilIsNoop(t *testing.T) {
	var d *Dictionary
	assert.Equal(t, "text", d.Apply("text", NewLedger()))
	assert.Zero(t, d.Len())
}

func TestLedger_KeepsFirstProvenance(t *testing.T) {
	l := NewLedger()
	l.Add("a→b", 2, Provenance{Sheet: "S1", Row: 4})
	l.Add("a→b", 1, Provenance{Sheet: "S2", Row: 9})
	l.Add("c→d", 1, Provenance{Sheet: "S1", Row: 1})

	entries := l.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, LedgerEntry{Key: "a→b", Count: 3, Provenance: Provenance{Sheet: "S1", Row: 4}}, entries[0])
	assert.Equal(t, 4, l.Total())
}

func TestLedger_Merge(t *testing.T) {
	run := NewLedger()
	run.Add("a→b", 1, Provenance{Sheet: "S1", Row: 1})

	item := NewLedger()
	item.Add("a→b", 2, Provenance{Sheet: "S1", Row: 1})
	item.Add("x→y", 5, Provenance{Sheet: "S2", Row: 3})

	run.Merge(item)
	run.Merge(nil)
	assert.Equal(t, 3, run.Count("a→b"))
	assert.Equal(t, 5, run.Count("x→y"))
	assert.Equal(t, 2, run.Len())
}

func TestDecode(t *testing.T) {
	yml := `
sheets:
  - name: Namen
    entries:
      - {from: Meier, to: Meyer}
      - {from: Schmitt, to: Schmidt, row: 12}
  - name: Fach
    entries:
      - {from: Bluthochdruck, to: Bluthochdruck}
`
	d, err := Decode(strings.NewReader(yml))
	require.NotNil(t, d)
	require.ErrorIs(t, err, ErrInvalidEntry)
	assert.Contains(t, err.Error(), "Fach row 1")

	entries := d.Entries()
	require.Len(t, entries, 2)
	// Sorted longest first.
	assert.Equal(t, Entry{Original: "Schmitt", Correction: "Schmidt", Sheet: "Namen", Row: 12}, entries[0])
	assert.Equal(t, Entry{Original: "Meier", Correction: "Meyer", Sheet: "Namen", Row: 1}, entries[1])
}

func TestDecode_Malformed(t *testing.T) {
	d, err := Decode(strings.NewReader("sheets: {name: [}"))
	require.Error(t, err)
	assert.Nil(t, d)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/dictionary.yaml")
	require.Error(t, err)
}
