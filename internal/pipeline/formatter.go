package pipeline

import (
	"fmt"
	"io"
	"math"
	"strings"
	"unicode/utf8"
)

// Format is a caption file format.
type Format string

const (
	FormatSRT Format = "srt"
	FormatVTT Format = "vtt"
)

// ParseFormat maps a name or file extension to a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "srt":
		return FormatSRT, nil
	case "vtt", "webvtt":
		return FormatVTT, nil
	default:
		return "", fmt.Errorf("unknown caption format %q", name)
	}
}

// CaptionWriter renders captions with frame-quantized timestamps.
type CaptionWriter struct {
	FPS float64
	// MaxCharsPerLine wraps longer captions onto two lines; 0 disables it.
	MaxCharsPerLine int
}

// Write renders captions in format to w.
func (cw CaptionWriter) Write(w io.Writer, captions []Caption, format Format) error {
	_, err := io.WriteString(w, cw.Render(captions, format))
	return err
}

// Render returns the caption file content.
func (cw CaptionWriter) Render(captions []Caption, format Format) string {
	fps := cw.FPS
	if fps <= 0 {
		fps = 30
	}
	sep := byte(',')
	var sb strings.Builder
	if format == FormatVTT {
		sep = '.'
		sb.WriteString("WEBVTT\n\n")
	}
	for _, c := range captions {
		start := formatTimestamp(quantizeMillis(c.Start, fps), sep)
		end := formatTimestamp(quantizeMillis(c.End, fps), sep)
		text := c.Text
		if cw.MaxCharsPerLine > 0 {
			text = optimizeTextDisplay(text, cw.MaxCharsPerLine)
		}
		if format == FormatSRT {
			fmt.Fprintf(&sb, "%d\n", c.Section)
		}
		fmt.Fprintf(&sb, "%s --> %s\n%s\n\n", start, end, text)
	}
	return sb.String()
}

// quantizeMillis snaps seconds to the nearest frame at fps and nudges
// millisecond values the caption editor would round onto the wrong frame.
func quantizeMillis(seconds, fps float64) int {
	ms := math.Round(seconds * 1000)
	frame := math.Round(ms * fps / 1000)
	out := int(frame * 1000 / fps)
	switch out % 1000 {
	case 33, 66, 766, 933:
		out -= 2
	case 0, 100, 200, 800:
		out += 2
	case 900:
		out += 4
	}
	return out
}

// formatTimestamp renders milliseconds as HH:MM:SS<sep>mmm.
func formatTimestamp(ms int, sep byte) string {
	if ms < 0 {
		ms = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d%c%03d", ms/3_600_000, ms/60_000%60, ms/1000%60, sep, ms%1000)
}

// optimizeTextDisplay returns text on a single line if it fits within maxCPL,
// otherwise splits it into at most two lines.
func optimizeTextDisplay(text string, maxCPL int) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return text
	}
	if utf8.RuneCountInString(text) <= maxCPL {
		return text
	}
	return splitTextIntoLines(text, maxCPL)
}

// splitTextIntoLines splits text into a maximum of two lines using
// findSplitPosition for intelligent break points.
func splitTextIntoLines(text string, maxCPL int) string {
	runes := []rune(text)
	splitPos := findSplitPosition(text, maxCPL)

	firstLine := strings.TrimSpace(string(runes[:splitPos]))
	remaining := strings.TrimSpace(string(runes[splitPos:]))

	if remaining == "" {
		return firstLine
	}
	return firstLine + "\n" + remaining
}
