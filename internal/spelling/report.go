package spelling

import (
	"cmp"
	"slices"
)

// Finding is one unknown token in a spelling report.
type Finding struct {
	Token       string   `yaml:"token" json:"token"`
	Count       int      `yaml:"count" json:"count"`
	Suggestions []string `yaml:"suggestions,omitempty" json:"suggestions,omitempty"`
}

// Report orders failures by count, then token, and attaches hints from s.
// s may be nil.
func Report(failed map[string]int, s *Suggester) []Finding {
	out := make([]Finding, 0, len(failed))
	for tok, n := range failed {
		out = append(out, Finding{Token: tok, Count: n, Suggestions: s.Suggest(tok)})
	}
	slices.SortFunc(out, func(a, b Finding) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Token, b.Token)
	})
	return out
}
