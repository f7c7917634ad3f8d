package pipeline

import (
	"fmt"
	"math"

	"whispersubs/internal/asr"
)

const (
	introStartThreshold  = 13.0
	normalStartThreshold = 2.0
	innerPauseThreshold  = 5.0
)

// detectPauseAnomalies looks at the silence ahead of every segment that
// begins a new recognizer chunk (a changed seek offset). The first segment
// always begins a chunk.
func detectPauseAnomalies(segments []asr.Segment, intro bool) map[string][]PauseError {
	found := make(map[string][]PauseError)
	prevSeek := 0
	prevEnd := 0.0

	for i, seg := range segments {
		if i > 0 && seg.Seek == prevSeek {
			prevEnd = seg.End
			continue
		}
		gap := seg.Start - prevEnd
		category, threshold := PauseInner, innerPauseThreshold
		if i == 0 {
			category, threshold = PauseNormalStart, normalStartThreshold
			if intro {
				category, threshold = PauseIntroStart, introStartThreshold
			}
		}
		if gap > threshold {
			found[category] = append(found[category], PauseError{
				Threshold: threshold,
				Timestamp: clock(seg.Start),
				Gap:       round(gap, 3),
			})
		}
		prevSeek = seg.Seek
		prevEnd = seg.End
	}
	return found
}

// finalizePauses derives duration and pause-after for every word. The last
// word has no successor and gets lastPause.
func finalizePauses(words []WordRecord) {
	for i := range words {
		words[i].Duration = round(words[i].End-words[i].Start, 3)
		if i == len(words)-1 {
			words[i].Pause = lastPause
			continue
		}
		words[i].Pause = round(words[i+1].Start-words[i].End, 2)
	}
}

func round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}

// clock renders seconds as HH:MM:SS.mmm for log output.
func clock(seconds float64) string {
	ms := int(math.Round(math.Abs(seconds) * 1000))
	return fmt.Sprintf("%02d:%02d:%02d.%03d", ms/3_600_000, ms/60_000%60, ms/1000%60, ms%1000)
}
