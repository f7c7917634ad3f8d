package spelling

import (
	"cmp"
	"slices"
	"strings"

	"github.com/antzucaro/matchr"
)

const (
	// suggestThreshold is the minimum Jaro-Winkler similarity of a hint.
	suggestThreshold = 0.9
	maxSuggestions   = 3
)

// Suggester proposes known spellings for failed tokens. Hints are shown in
// the spelling report only.
type Suggester struct {
	candidates []candidate
}

type candidate struct {
	word  string
	lower string
	codes map[string]struct{}
}

// NewSuggester indexes the candidate words, typically the correction
// dictionary targets and the exception vocabulary.
func NewSuggester(words []string) *Suggester {
	s := &Suggester{}
	seen := make(map[string]struct{}, len(words))
	for _, w := range words {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		s.candidates = append(s.candidates, candidate{
			word:  w,
			lower: strings.ToLower(w),
			codes: metaphoneCodes(w),
		})
	}
	return s
}

// Suggest returns up to three candidates that look and sound like token,
// best first.
func (s *Suggester) Suggest(token string) []string {
	if s == nil || token == "" {
		return nil
	}
	lower := strings.ToLower(token)
	codes := metaphoneCodes(token)

	type scored struct {
		word  string
		score float64
	}
	var hits []scored
	for _, c := range s.candidates {
		if c.lower == lower {
			continue
		}
		score := matchr.JaroWinkler(lower, c.lower, false)
		if score < suggestThreshold || !codesOverlap(codes, c.codes) {
			continue
		}
		hits = append(hits, scored{word: c.word, score: score})
	}
	slices.SortFunc(hits, func(a, b scored) int {
		if c := cmp.Compare(b.score, a.score); c != 0 {
			return c
		}
		return strings.Compare(a.word, b.word)
	})

	out := make([]string, 0, min(len(hits), maxSuggestions))
	for _, h := range hits[:min(len(hits), maxSuggestions)] {
		out = append(out, h.word)
	}
	return out
}

// metaphoneCodes returns the non-empty Double Metaphone codes of word.
func metaphoneCodes(word string) map[string]struct{} {
	codes := make(map[string]struct{}, 2)
	p, s := matchr.DoubleMetaphone(word)
	if p != "" {
		codes[p] = struct{}{}
	}
	if s != "" {
		codes[s] = struct{}{}
	}
	return codes
}

func codesOverlap(a, b map[string]struct{}) bool {
	for code := range a {
		if _, ok := b[code]; ok {
			return true
		}
	}
	return false
}
