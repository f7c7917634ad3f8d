package pipeline

// splitAction is what a line rule decides for the current word.
type splitAction int

const (
	keepWord    splitAction = iota
	splitAfter              // the word closes the current line
	splitBefore             // the word opens the next line
)

// splitRule is one step of the line-break cascade.
type splitRule struct {
	name   string
	decide func(s *LineSplitter, words []WordRecord, i, buffered int) splitAction
}

// lineRules are evaluated in order; the first rule that splits wins.
var lineRules = []splitRule{
	{name: "sentence-end", decide: sentenceEndRule},
	{name: "segment-end", decide: segmentEndRule},
	{name: "comma-lookahead", decide: commaRule},
	{name: "conjunction-lookahead", decide: conjunctionRule},
}

const (
	terminalPause   = 0.5
	segmentEndPause = 1.5
	commaDistance   = 3
	commaPause      = 0.5
	// commaRelaxed replaces commaDistance when the comma is followed by
	// more than commaPause of silence.
	commaRelaxed     = 2
	conjunctionPause = 1.0
	conjunctionWords = 3
	conjunctionAhead = 4
)

func sentenceEndRule(_ *LineSplitter, words []WordRecord, i, _ int) splitAction {
	w := words[i]
	if w.SentenceEnd && (w.Pause > 0 || w.SegmentEnd) {
		return splitAfter
	}
	return keepWord
}

func segmentEndRule(s *LineSplitter, words []WordRecord, i, _ int) splitAction {
	w := words[i]
	if !w.SegmentEnd || s.keepsTogether(words, i) {
		return keepWord
	}
	if endsWithTerminal(w.Text) && w.Pause > terminalPause {
		return splitAfter
	}
	if w.Pause > segmentEndPause {
		return splitAfter
	}
	return keepWord
}

func commaRule(_ *LineSplitter, words []WordRecord, i, buffered int) splitAction {
	w := words[i]
	if !endsWithComma(w.Text) || buffered < 1 {
		return keepWord
	}
	ahead := distanceToSentenceEnd(words, i)
	if ahead >= commaDistance {
		return splitAfter
	}
	if w.Pause > commaPause && ahead >= commaRelaxed {
		return splitAfter
	}
	return keepWord
}

func conjunctionRule(s *LineSplitter, words []WordRecord, i, buffered int) splitAction {
	w := words[i]
	if buffered < conjunctionWords || !s.isConjunction(w.Text) {
		return keepWord
	}
	if s.isConjunctionException(words[i-1].Text) {
		return keepWord
	}
	// A long pause after the conjunction closes the line with it.
	if w.Pause > conjunctionPause {
		return splitAfter
	}
	if distanceToSentenceEnd(words, i) >= conjunctionAhead {
		return splitBefore
	}
	return keepWord
}

// distanceToSentenceEnd counts the words from i to the next sentence end
// after it, or to the last word when no sentence end follows.
func distanceToSentenceEnd(words []WordRecord, i int) int {
	for j := i + 1; j < len(words); j++ {
		if words[j].SentenceEnd {
			return j - i
		}
	}
	return len(words) - 1 - i
}
