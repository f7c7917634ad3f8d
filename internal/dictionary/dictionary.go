// Package dictionary holds the domain correction dictionary applied to
// caption text and the ledger that records which corrections fired.
package dictionary

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// ErrInvalidEntry marks an entry that was dropped while building a
// Dictionary.
var ErrInvalidEntry = errors.New("invalid dictionary entry")

// Entry maps a literal original string to its correction. Sheet and Row
// point at where the entry was maintained.
type Entry struct {
	Original   string `yaml:"from"`
	Correction string `yaml:"to"`
	Sheet      string `yaml:"-"`
	Row        int    `yaml:"row,omitempty"`
}

// Key is the ledger key of the entry, "original→correction".
func (e Entry) Key() string {
	return e.Original + "→" + e.Correction
}

// Dictionary is an immutable, ordered set of literal replacements. Longer
// originals are applied first so that "Herr Meier" wins over "Meier".
type Dictionary struct {
	entries []Entry
}

// New validates entries and builds a Dictionary. Identity entries and
// duplicate originals are dropped; every violation is reported in the
// returned error, which is nil when all entries were accepted. The
// Dictionary is always usable.
func New(entries []Entry) (*Dictionary, error) {
	var result *multierror.Error
	seen := make(map[string]Entry, len(entries))
	kept := make([]Entry, 0, len(entries))

	for _, e := range entries {
		switch {
		case e.Original == "":
			result = multierror.Append(result, fmt.Errorf("%w: %s row %d: empty original", ErrInvalidEntry, e.Sheet, e.Row))
			continue
		case e.Original == e.Correction:
			result = multierror.Append(result, fmt.Errorf("%w: %s row %d: %q maps to itself", ErrInvalidEntry, e.Sheet, e.Row, e.Original))
			continue
		}
		if first, dup := seen[e.Original]; dup {
			result = multierror.Append(result, fmt.Errorf("%w: %s row %d: duplicate of %q from %s row %d",
				ErrInvalidEntry, e.Sheet, e.Row, e.Original, first.Sheet, first.Row))
			continue
		}
		seen[e.Original] = e
		kept = append(kept, e)
	}

	slices.SortStableFunc(kept, func(a, b Entry) int {
		if c := cmp.Compare(len(b.Original), len(a.Original)); c != 0 {
			return c
		}
		return strings.Compare(a.Original, b.Original)
	})
	return &Dictionary{entries: kept}, result.ErrorOrNil()
}

// Len returns the number of entries.
func (d *Dictionary) Len() int {
	if d == nil {
		return 0
	}
	return len(d.entries)
}

// Entries returns the entries in application order.
func (d *Dictionary) Entries() []Entry {
	if d == nil {
		return nil
	}
	return slices.Clone(d.entries)
}

// Apply replaces every original in text with its correction and records
// the number of replacements per entry in ledger. ledger may be nil.
func (d *Dictionary) Apply(text string, ledger *Ledger) string {
	if d == nil {
		return text
	}
	for _, e := range d.entries {
		n := strings.Count(text, e.Original)
		if n == 0 {
			continue
		}
		text = strings.ReplaceAll(text, e.Original, e.Correction)
		if ledger != nil {
			ledger.Add(e.Key(), n, Provenance{Sheet: e.Sheet, Row: e.Row})
		}
	}
	return text
}
