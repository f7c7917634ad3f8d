package pipeline

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"

	"whispersubs/internal/config"
	"whispersubs/internal/dictionary"
)

// SpellChecker reports tokens missing from a spelling dictionary.
type SpellChecker interface {
	Check(tokens []string) map[string]int
}

// SplitResult is the output of LineSplitter.Split.
type SplitResult struct {
	Captions []Caption
	// DebugText lists every caption with the rule that closed it.
	DebugText string
	// JoinedText is the corrected caption text joined by spaces.
	JoinedText       string
	Ledger           *dictionary.Ledger
	SpellingFailures map[string]int
	// RuleHits counts the lines closed by each rule; "end" is the final flush.
	RuleHits map[string]int
}

// LineSplitter cuts normalized words into caption lines.
type LineSplitter struct {
	correct    *corrector
	spelling   SpellChecker
	dontSplit  map[string]struct{}
	conjunct   map[string]struct{}
	exceptions map[string]struct{}
}

// NewLineSplitter builds a splitter. dict and spelling may be nil.
func NewLineSplitter(dict *dictionary.Dictionary, spelling SpellChecker, settings config.PipelineSettings, locale language.Tag) *LineSplitter {
	return &LineSplitter{
		correct:    newCorrector(dict, locale),
		spelling:   spelling,
		dontSplit:  foldedSet(settings.DontSplitPairs),
		conjunct:   foldedSet(settings.Conjunctions),
		exceptions: foldedSet(settings.ConjunctionExceptions),
	}
}

func foldedSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[strings.Join(strings.Fields(strings.ToLower(v)), " ")] = struct{}{}
	}
	return set
}

// keepsTogether reports whether words[i] and its successor form a pair
// that must stay on one line.
func (s *LineSplitter) keepsTogether(words []WordRecord, i int) bool {
	if i+1 >= len(words) {
		return false
	}
	pair := strings.ToLower(strings.TrimSpace(words[i].Text) + " " + strings.TrimSpace(words[i+1].Text))
	_, ok := s.dontSplit[pair]
	return ok
}

func (s *LineSplitter) isConjunction(text string) bool {
	_, ok := s.conjunct[foldWord(text)]
	return ok
}

func (s *LineSplitter) isConjunctionException(text string) bool {
	_, ok := s.exceptions[foldWord(text)]
	return ok
}

// Split runs the rule cascade over words and commits caption lines.
func (s *LineSplitter) Split(words []WordRecord) *SplitResult {
	res := &SplitResult{
		Ledger:   dictionary.NewLedger(),
		RuleHits: make(map[string]int),
	}
	var debug strings.Builder
	var joined []string
	var buffer []WordRecord

	commit := func(line []WordRecord, rule string) {
		if len(line) == 0 {
			return
		}
		var raw strings.Builder
		for _, w := range line {
			raw.WriteString(w.Text)
		}
		text := strings.TrimSpace(s.correct.apply(strings.TrimLeft(raw.String(), " \t"), res.Ledger))
		if text == "" {
			return
		}
		c := Caption{
			Section: len(res.Captions) + 1,
			Start:   line[0].Start,
			End:     max(line[len(line)-1].End, line[0].Start),
			Text:    text,
		}
		res.Captions = append(res.Captions, c)
		res.RuleHits[rule]++
		joined = append(joined, text)
		fmt.Fprintf(&debug, "%d\t%s\t%s\t%-21s\t%s\n", c.Section, clock(c.Start), clock(c.End), rule, text)
	}

	for i, w := range words {
		action, rule := keepWord, ""
		for _, r := range lineRules {
			if action = r.decide(s, words, i, len(buffer)); action != keepWord {
				rule = r.name
				break
			}
		}
		switch action {
		case splitAfter:
			commit(append(buffer, w), rule)
			buffer = nil
		case splitBefore:
			commit(buffer, rule)
			buffer = []WordRecord{w}
		default:
			buffer = append(buffer, w)
		}
	}
	commit(buffer, "end")

	res.DebugText = debug.String()
	res.JoinedText = strings.Join(joined, " ")
	if s.spelling != nil {
		res.SpellingFailures = s.spelling.Check(strings.Fields(res.JoinedText))
	} else {
		res.SpellingFailures = map[string]int{}
	}
	return res
}
