package config

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// ParseLocale parses a BCP 47 locale code such as "de" or "en-US".
func ParseLocale(code string) (language.Tag, error) {
	if code == "" {
		return language.German, nil
	}
	tag, err := language.Parse(code)
	if err != nil {
		return language.Und, fmt.Errorf("config: invalid locale %q: %w", code, err)
	}
	return tag, nil
}

// LocaleTag returns the parsed caption locale, falling back to German.
func (c CaptionSettings) LocaleTag() language.Tag {
	tag, err := ParseLocale(c.Locale)
	if err != nil {
		return language.German
	}
	return tag
}

// IsRestrictive reports whether model forbids inner prompts. Model names are
// compared case-insensitively, with any "faster-whisper-" style prefix and
// path component stripped.
func (p PipelineSettings) IsRestrictive(model string) bool {
	name := strings.ToLower(model)
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	name = strings.TrimPrefix(name, "faster-whisper-")
	name = strings.TrimPrefix(name, "whisper-")
	for _, m := range p.RestrictiveModels {
		if strings.EqualFold(m, name) {
			return true
		}
	}
	return false
}
