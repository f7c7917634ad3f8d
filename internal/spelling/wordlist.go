package spelling

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// WordList is a Dictionary backed by a plain word list. Hunspell .dic files
// are accepted: a leading entry count and "/FLAGS" suffixes are ignored.
type WordList struct {
	words map[string]struct{}
	lower map[string]struct{}
}

// NewWordList builds a WordList from words.
func NewWordList(words []string) *WordList {
	wl := &WordList{
		words: make(map[string]struct{}, len(words)),
		lower: make(map[string]struct{}, len(words)),
	}
	for _, w := range words {
		wl.add(w)
	}
	return wl
}

func (wl *WordList) add(w string) {
	if w == "" {
		return
	}
	wl.words[w] = struct{}{}
	wl.lower[strings.ToLower(w)] = struct{}{}
}

// LoadWordList reads a word list file.
func LoadWordList(path string) (*WordList, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("spelling: open dictionary: %w", err)
	}
	defer f.Close()
	return ReadWordList(f)
}

// ReadWordList reads one word per line. Lines starting with '#' are skipped.
func ReadWordList(r io.Reader) (*WordList, error) {
	wl := NewWordList(nil)
	sc := bufio.NewScanner(r)
	first := true
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if first {
			first = false
			if _, err := strconv.Atoi(line); err == nil {
				continue
			}
		}
		if i := strings.IndexByte(line, '/'); i >= 0 {
			line = line[:i]
		}
		wl.add(line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("spelling: read dictionary: %w", err)
	}
	return wl, nil
}

// Len returns the number of distinct words.
func (wl *WordList) Len() int {
	return len(wl.words)
}

// Exists reports whether word is listed. A capitalized word also matches
// its lower-case entry, as at the start of a sentence. Hyphenated
// compounds match when every part does.
func (wl *WordList) Exists(word string) bool {
	if wl.exists(word) {
		return true
	}
	if !strings.Contains(word, "-") {
		return false
	}
	for _, part := range strings.Split(word, "-") {
		if part != "" && !wl.exists(part) {
			return false
		}
	}
	return true
}

func (wl *WordList) exists(word string) bool {
	if _, ok := wl.words[word]; ok {
		return true
	}
	lower := strings.ToLower(word)
	if lower == word {
		return false
	}
	_, ok := wl.lower[lower]
	return ok
}
