package dictionary

import (
	"slices"
	"strings"
)

// Provenance points at the dictionary row a correction came from.
type Provenance struct {
	Sheet string `yaml:"sheet" json:"sheet"`
	Row   int    `yaml:"row" json:"row"`
}

// LedgerEntry is the accumulated usage of one correction.
type LedgerEntry struct {
	Key        string `yaml:"key" json:"key"`
	Count      int    `yaml:"count" json:"count"`
	Provenance `yaml:",inline"`
}

// Ledger accumulates applied corrections. The provenance of the first
// occurrence of a key is kept. A Ledger is not safe for concurrent use.
type Ledger struct {
	entries map[string]*LedgerEntry
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{entries: make(map[string]*LedgerEntry)}
}

// Add records count replacements for key.
func (l *Ledger) Add(key string, count int, p Provenance) {
	if e, ok := l.entries[key]; ok {
		e.Count += count
		return
	}
	l.entries[key] = &LedgerEntry{Key: key, Count: count, Provenance: p}
}

// Merge folds other into l.
func (l *Ledger) Merge(other *Ledger) {
	if other == nil {
		return
	}
	for _, e := range other.Entries() {
		l.Add(e.Key, e.Count, e.Provenance)
	}
}

// Len returns the number of distinct keys.
func (l *Ledger) Len() int {
	return len(l.entries)
}

// Total returns the number of replacements across all keys.
func (l *Ledger) Total() int {
	total := 0
	for _, e := range l.entries {
		total += e.Count
	}
	return total
}

// Count returns the replacements recorded for key.
func (l *Ledger) Count(key string) int {
	if e, ok := l.entries[key]; ok {
		return e.Count
	}
	return 0
}

// Entries returns the ledger sorted by key.
func (l *Ledger) Entries() []LedgerEntry {
	out := make([]LedgerEntry, 0, len(l.entries))
	for _, e := range l.entries {
		out = append(out, *e)
	}
	slices.SortFunc(out, func(a, b LedgerEntry) int {
		return strings.Compare(a.Key, b.Key)
	})
	return out
}
