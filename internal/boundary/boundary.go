// Package boundary provides sentence-boundary detection for transcripts:
// the Oracle interface consumed by the word normalizer, a built-in
// punctuation oracle, and a content-hash memo table with a persistent store.
package boundary

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"slices"
)

// Set holds the character offsets (in runes) where sentences start and
// where they end. End offsets are exclusive.
type Set struct {
	Starts map[int]struct{}
	Ends   map[int]struct{}
}

// NewSet builds a Set from offset slices.
func NewSet(starts, ends []int) Set {
	s := Set{
		Starts: make(map[int]struct{}, len(starts)),
		Ends:   make(map[int]struct{}, len(ends)),
	}
	for _, o := range starts {
		s.Starts[o] = struct{}{}
	}
	for _, o := range ends {
		s.Ends[o] = struct{}{}
	}
	return s
}

// IsStart reports whether a sentence starts at offset.
func (s Set) IsStart(offset int) bool {
	_, ok := s.Starts[offset]
	return ok
}

// IsEnd reports whether a sentence ends at offset.
func (s Set) IsEnd(offset int) bool {
	_, ok := s.Ends[offset]
	return ok
}

// Len returns the number of sentence ends.
func (s Set) Len() int {
	return len(s.Ends)
}

// Sorted returns both offset sets as ascending slices.
func (s Set) Sorted() (starts, ends []int) {
	starts = make([]int, 0, len(s.Starts))
	for o := range s.Starts {
		starts = append(starts, o)
	}
	ends = make([]int, 0, len(s.Ends))
	for o := range s.Ends {
		ends = append(ends, o)
	}
	slices.Sort(starts)
	slices.Sort(ends)
	return starts, ends
}

// Oracle detects sentence boundaries in text.
type Oracle interface {
	Boundaries(ctx context.Context, text, language string) (Set, error)
}

// OracleFunc adapts a function to the Oracle interface.
type OracleFunc func(ctx context.Context, text, language string) (Set, error)

// Boundaries calls f.
func (f OracleFunc) Boundaries(ctx context.Context, text, language string) (Set, error) {
	return f(ctx, text, language)
}

// Key returns the content hash used to memoize boundaries for text.
func Key(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
