package pipeline

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// terminalPunctuation ends a clause for the segment-end rule.
var terminalPunctuation = map[rune]struct{}{
	'.': {}, ':': {}, ',': {}, ';': {}, '?': {}, '!': {},
}

// breakPunctuation is where a display line may be wrapped.
var breakPunctuation = map[rune]struct{}{
	'.': {}, '!': {}, '?': {}, ';': {}, ':': {}, ',': {}, ')': {}, ']': {},
	'-': {}, '–': {}, '…': {},
}

// quoteVariants are folded into a plain apostrophe.
var quoteVariants = strings.NewReplacer(
	"‘", "'",
	"’", "'",
	"‚", "'",
	"‛", "'",
	"‹", "'",
	"›", "'",
	"´", "'",
	"`", "'",
)

// normalizeQuotes folds curly and guillemet single quotes to "'".
func normalizeQuotes(text string) string {
	return quoteVariants.Replace(text)
}

// endsWithTerminal reports whether the trimmed word ends in .:,;?!
func endsWithTerminal(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}
	r, _ := utf8.DecodeLastRuneInString(text)
	_, ok := terminalPunctuation[r]
	return ok
}

// endsWithComma reports whether the trimmed word ends in a comma.
func endsWithComma(text string) bool {
	return strings.HasSuffix(strings.TrimSpace(text), ",")
}

// foldWord lower-cases a word and trims surrounding spaces and punctuation,
// so " Und," and "und" compare equal.
func foldWord(text string) string {
	return strings.ToLower(strings.TrimFunc(text, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r)
	}))
}

// isBreakPunctuation checks whether a rune is a preferred wrap point.
func isBreakPunctuation(r rune) bool {
	_, ok := breakPunctuation[r]
	return ok
}

// findSplitPosition finds the best position to split text at or before maxLen (in runes).
// Returns a rune-index for the split point.
func findSplitPosition(text string, maxLen int) int {
	runes := []rune(text)
	if len(runes) <= maxLen {
		return len(runes)
	}

	searchEnd := min(maxLen+1, len(runes))

	bestPos := -1
	for i := searchEnd - 1; i > 0; i-- {
		r := runes[i]
		if r == ' ' {
			bestPos = i
			break
		}
		if isBreakPunctuation(r) {
			bestPos = i + 1
			break
		}
	}

	if bestPos <= 0 {
		bestPos = maxLen
	}
	return bestPos
}
