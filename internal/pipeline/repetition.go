package pipeline

// repetitionFilter appends words to an output list, catching words and word
// pairs the recognizer repeated. On restrictive models a repeated pair is
// merged into its first occurrence; everything else is only reported.
type repetitionFilter struct {
	restrictive bool
	words       []WordRecord
	found       []RepetitionError
}

// push appends w unless it completes a merged dual repetition.
func (f *repetitionFilter) push(w WordRecord) {
	n := len(f.words)
	cur := foldWord(w.Text)
	if cur == "" {
		f.words = append(f.words, w)
		return
	}

	// ABAB: the current word repeats two-back, one-back repeats three-back.
	if n >= 3 {
		a, b := foldWord(f.words[n-3].Text), foldWord(f.words[n-2].Text)
		if a != b && cur == b && foldWord(f.words[n-1].Text) == a {
			rep := RepetitionError{
				Kind:  RepetitionDual,
				Words: []string{a, b},
				Start: f.words[n-1].Start,
				End:   w.End,
				Fatal: f.restrictive,
			}
			if f.restrictive {
				first := &f.words[n-2]
				first.End = w.End
				first.SentenceEnd = first.SentenceEnd || f.words[n-1].SentenceEnd || w.SentenceEnd
				first.SegmentEnd = first.SegmentEnd || f.words[n-1].SegmentEnd || w.SegmentEnd
				f.words = f.words[:n-1]
				rep.Merged = true
				f.found = append(f.found, rep)
				return
			}
			f.found = append(f.found, rep)
			f.words = append(f.words, w)
			return
		}
	}

	if n >= 1 && cur == foldWord(f.words[n-1].Text) {
		f.found = append(f.found, RepetitionError{
			Kind:  RepetitionSingle,
			Words: []string{cur},
			Start: f.words[n-1].Start,
			End:   w.End,
			Fatal: f.restrictive,
		})
	}
	f.words = append(f.words, w)
}
