package pipeline

import (
	"strings"

	"golang.org/x/text/language"

	"whispersubs/internal/dictionary"
)

// corrector applies the text fixes every committed line goes through.
type corrector struct {
	euro *euroFormatter
	dict *dictionary.Dictionary
}

func newCorrector(dict *dictionary.Dictionary, locale language.Tag) *corrector {
	return &corrector{euro: newEuroFormatter(locale), dict: dict}
}

// apply runs, in order: euro amounts, dictionary replacements, orphaned
// ellipsis removal, double-space collapse and the ellipsis glyph.
func (c *corrector) apply(text string, ledger *dictionary.Ledger) string {
	text = c.euro.format(text)
	text = c.dict.Apply(text, ledger)
	text = stripOrphanedEllipses(text)
	for strings.Contains(text, "  ") {
		text = strings.ReplaceAll(text, "  ", " ")
	}
	return strings.ReplaceAll(text, "...", "…")
}

// stripOrphanedEllipses drops ellipses standing alone between spaces, which
// the recognizer leaves behind where it cut a sentence.
func stripOrphanedEllipses(text string) string {
	if !strings.Contains(text, "...") && !strings.Contains(text, "…") {
		return text
	}
	parts := strings.Split(text, " ")
	kept := parts[:0]
	for _, p := range parts {
		if p == "..." || p == "…" {
			continue
		}
		kept = append(kept, p)
	}
	return strings.Join(kept, " ")
}
