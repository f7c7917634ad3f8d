// Package spelling reports caption words that a spelling dictionary does
// not know. It never rewrites text.
package spelling

import (
	"errors"
	"log/slog"
	"regexp"
	"strings"
	"unicode"
)

// ErrMissingDictionary is returned by Ready when the dictionary or the
// exception tables were not supplied.
var ErrMissingDictionary = errors.New("spelling dictionary or exception tables missing")

// maxHyphenParts bounds compound lookups; longer chains are reported
// without consulting the dictionary.
const maxHyphenParts = 6

var (
	numericToken   = regexp.MustCompile(`^[0-9%,.–€$£&|]+$`)
	paragraphToken = regexp.MustCompile(`^§\d*[A-Za-z]?$`)
)

// restrictedPunct is stripped before phrase and abbreviation matching. The
// dot is kept so that "z." and "usw." stay recognizable.
const restrictedPunct = "\"'„“”‚‘’«»‹›:,;!?…"

// widePunct is stripped before the single-word table and dictionary lookup.
const widePunct = restrictedPunct + ".()[]{}/*"

// Dictionary answers whether a word is spelled correctly.
type Dictionary interface {
	Exists(word string) bool
}

// Checker scans tokens for unknown words.
type Checker struct {
	dict    Dictionary
	tables  *Tables
	phrases map[string][][]string
}

// New returns a Checker. Both arguments are required for Check to report
// anything; see Ready.
func New(dict Dictionary, tables *Tables) *Checker {
	c := &Checker{dict: dict, tables: tables, phrases: make(map[string][][]string)}
	if tables != nil {
		for _, p := range tables.Phrases {
			c.phrases[p[0]] = append(c.phrases[p[0]], p)
		}
	}
	return c
}

// Ready reports whether the checker has its dictionary and tables.
func (c *Checker) Ready() error {
	if c == nil || c.dict == nil || c.tables == nil {
		return ErrMissingDictionary
	}
	return nil
}

// Check returns the unknown tokens with their occurrence counts. Tokens
// covered by an exception table are skipped, multi-word phrases as a whole.
func (c *Checker) Check(tokens []string) map[string]int {
	failed := make(map[string]int)
	if err := c.Ready(); err != nil {
		slog.Error("spelling check skipped", "error", err)
		return failed
	}

	for i := 0; i < len(tokens); {
		tok := tokens[i]
		if numericToken.MatchString(tok) || paragraphToken.MatchString(tok) {
			i++
			continue
		}

		restricted := strings.Trim(tok, restrictedPunct)
		if n := c.matchPhrase(restricted, tokens[i+1:]); n > 0 {
			i += n
			continue
		}
		i++

		if _, ok := c.tables.Abbreviations[restricted]; ok {
			continue
		}
		word := strings.Trim(restricted, widePunct)
		if word == "" || !hasLetter(word) {
			continue
		}
		if _, ok := c.tables.Words[word]; ok {
			continue
		}
		if len(strings.Split(word, "-")) > maxHyphenParts {
			failed[word]++
			continue
		}
		if !c.dict.Exists(word) {
			failed[word]++
		}
	}
	return failed
}

// matchPhrase returns the number of tokens consumed by the longest
// exception phrase starting with first, or 0.
func (c *Checker) matchPhrase(first string, rest []string) int {
	best := 0
	for _, phrase := range c.phrases[first] {
		if len(phrase)-1 > len(rest) || len(phrase) <= best {
			continue
		}
		matched := true
		for k, want := range phrase[1:] {
			got := strings.Trim(rest[k], restrictedPunct)
			// The phrase may close a sentence.
			if k == len(phrase)-2 && !strings.HasSuffix(want, ".") {
				got = strings.TrimSuffix(got, ".")
			}
			if got != want {
				matched = false
				break
			}
		}
		if matched {
			best = len(phrase)
		}
	}
	return best
}

func hasLetter(s string) bool {
	return strings.IndexFunc(s, unicode.IsLetter) >= 0
}
