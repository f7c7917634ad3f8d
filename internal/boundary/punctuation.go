package boundary

import (
	"context"
	"strings"
	"unicode"
)

// sentenceTerminators end a sentence when followed by whitespace and an
// upper-case letter, a digit or an opening quote, or by the end of text.
var sentenceTerminators = map[rune]struct{}{
	'.': {}, '!': {}, '?': {}, '…': {},
}

// closers may trail a terminator and still belong to the same sentence.
var closers = map[rune]struct{}{
	'"': {}, '\'': {}, '»': {}, '“': {}, '”': {}, ')': {}, ']': {},
}

// openers may start a sentence ahead of its first letter.
var openers = map[rune]struct{}{
	'"': {}, '\'': {}, '»': {}, '«': {}, '„': {}, '“': {}, '(': {}, '[': {},
}

var defaultAbbreviations = []string{
	"abs", "bzw", "ca", "dr", "etc", "evtl", "ggf", "inkl", "mr", "mrs", "ms",
	"nr", "prof", "s", "sog", "st", "str", "u.a", "usw", "vgl", "z.b", "d.h",
	"e.g", "i.e", "vs",
}

// PunctuationOracle is a rule-based Oracle used when no external sentence
// detector is configured.
type PunctuationOracle struct {
	abbreviations map[string]struct{}
}

var _ Oracle = (*PunctuationOracle)(nil)

// NewPunctuationOracle returns an oracle that also treats the given words
// (case-insensitive, without the trailing dot) as abbreviations.
func NewPunctuationOracle(extraAbbreviations ...string) *PunctuationOracle {
	o := &PunctuationOracle{abbreviations: make(map[string]struct{})}
	for _, a := range append(defaultAbbreviations, extraAbbreviations...) {
		o.abbreviations[strings.ToLower(strings.TrimSuffix(a, "."))] = struct{}{}
	}
	return o
}

// Boundaries splits text at terminal punctuation.
func (o *PunctuationOracle) Boundaries(_ context.Context, text, _ string) (Set, error) {
	runes := []rune(text)
	var starts, ends []int

	expectStart := true
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if expectStart {
			if unicode.IsSpace(r) {
				continue
			}
			starts = append(starts, i)
			expectStart = false
		}
		if _, ok := sentenceTerminators[r]; !ok {
			continue
		}

		end := i + 1
		for end < len(runes) {
			if _, ok := sentenceTerminators[runes[end]]; ok {
				end++
				continue
			}
			if _, ok := closers[runes[end]]; ok {
				end++
				continue
			}
			break
		}
		if r == '.' && o.isAbbreviation(runes, i) {
			i = end - 1
			continue
		}
		if !startsNewSentence(runes, end) {
			i = end - 1
			continue
		}
		ends = append(ends, end)
		expectStart = true
		i = end - 1
	}
	if !expectStart {
		// Unterminated trailing sentence.
		end := len(runes)
		for end > 0 && unicode.IsSpace(runes[end-1]) {
			end--
		}
		ends = append(ends, end)
	}
	return NewSet(starts, ends), nil
}

// isAbbreviation reports whether the dot at runes[dot] closes an
// abbreviation or an ordinal number.
func (o *PunctuationOracle) isAbbreviation(runes []rune, dot int) bool {
	start := dot
	for start > 0 && !unicode.IsSpace(runes[start-1]) {
		start--
	}
	word := strings.ToLower(strings.TrimLeftFunc(string(runes[start:dot]), func(r rune) bool {
		_, ok := openers[r]
		return ok
	}))
	if word == "" {
		return false
	}
	if _, ok := o.abbreviations[word]; ok {
		return true
	}
	allDigits := true
	for _, r := range word {
		if !unicode.IsDigit(r) {
			allDigits = false
			break
		}
	}
	if allDigits {
		// "3. Oktober" is an ordinal, not a sentence end.
		return looksLikeMonth(runes[dot+1:])
	}
	// A single letter is an initial.
	return len([]rune(word)) == 1 && unicode.IsLetter([]rune(word)[0])
}

var months = []string{
	"januar", "februar", "märz", "april", "mai", "juni", "juli", "august",
	"september", "oktober", "november", "dezember",
}

func looksLikeMonth(rest []rune) bool {
	s := strings.ToLower(strings.TrimLeftFunc(string(rest), unicode.IsSpace))
	for _, m := range months {
		if strings.HasPrefix(s, m) {
			return true
		}
	}
	return false
}

// startsNewSentence reports whether the text after pos opens a sentence.
func startsNewSentence(runes []rune, pos int) bool {
	if pos >= len(runes) {
		return true
	}
	if !unicode.IsSpace(runes[pos]) {
		return false
	}
	for pos < len(runes) && unicode.IsSpace(runes[pos]) {
		pos++
	}
	if pos >= len(runes) {
		return true
	}
	r := runes[pos]
	if _, ok := openers[r]; ok {
		return true
	}
	return unicode.IsUpper(r) || unicode.IsDigit(r)
}
